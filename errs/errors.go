// Package errs defines the sentinel errors returned by chromadec.
//
// Decoders wrap these sentinels with fmt.Errorf("...: %w", err) to add the
// file or field that failed, so callers should match with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

// Format detection and structural errors.
var (
	// ErrUnrecognizedFormat is returned when no magic value matches and no
	// partial-file heuristic applies.
	ErrUnrecognizedFormat = errors.New("unrecognized chromatogram file format")
	// ErrUnsupportedVariant is returned for a structurally valid file whose
	// record width or layout variant is not implemented.
	ErrUnsupportedVariant = errors.New("unsupported file variant")
	// ErrInvalidSchema is returned when a record schema cannot be compiled.
	ErrInvalidSchema = fmt.Errorf("invalid record schema: %w", ErrUnsupportedVariant)
	// ErrMissingCapability is returned when a payload needs a block
	// decompressor that is not available in this build.
	ErrMissingCapability = errors.New("missing decompression capability")
	// ErrCorruptPayload is returned when a compressed payload cannot be
	// decoded to its declared length.
	ErrCorruptPayload = errors.New("corrupt payload")
	// ErrMissingCompanion is returned when a directory format lacks one of
	// its required companion files.
	ErrMissingCompanion = errors.New("missing companion file")
	// ErrAmbiguousMember is returned when several directory entries match a
	// member name case-insensitively.
	ErrAmbiguousMember = errors.New("ambiguous member name")
)

// Configuration errors.
var (
	ErrInvalidPrecision = errors.New("precision must be non-negative")
	ErrInvalidWorkers   = errors.New("worker count must be positive")
	// ErrSkipped marks a file excluded by the allow-list.
	ErrSkipped = errors.New("file not in allow-list")
)

// Snapshot errors.
var (
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
	ErrInvalidHeaderSize  = errors.New("invalid snapshot header size")
	ErrInvalidMagicNumber = errors.New("invalid snapshot magic number")
	ErrChecksumMismatch   = errors.New("snapshot checksum mismatch")
)
