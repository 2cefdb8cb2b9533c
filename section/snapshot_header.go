package section

import (
	"fmt"

	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
)

var le = endian.GetLittleEndianEngine()

// SnapshotHeader is the fixed-size header in front of a decoded snapshot.
type SnapshotHeader struct {
	// Compression is the codec of the payload that follows the header.
	Compression format.CompressionType // byte offset 3
	// Detector is the detector of the decoded file.
	Detector format.Detector // byte offset 4
	// Flags is a bit set; see FlagTextLabels.
	Flags uint8 // byte offset 5
	// Rows is the number of matrix rows (retention times).
	Rows uint32 // byte offset 8-11
	// Cols is the number of matrix columns (labels).
	Cols uint32 // byte offset 12-15
	// PayloadSize is the length of the compressed payload.
	PayloadSize uint32 // byte offset 16-19
	// RawSize is the length of the payload after decompression.
	RawSize uint32 // byte offset 20-23
	// Checksum is the xxHash64 of the uncompressed payload.
	Checksum uint64 // byte offset 24-31
}

// NewSnapshotHeader creates a header for the given payload compression.
// Sizes and checksum are filled in by the encoder.
func NewSnapshotHeader(compression format.CompressionType, detector format.Detector) *SnapshotHeader {
	return &SnapshotHeader{
		Compression: compression,
		Detector:    detector,
	}
}

// HasTextLabels reports whether the label axis is text.
func (h *SnapshotHeader) HasTextLabels() bool {
	return h.Flags&FlagTextLabels != 0
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, ErrInvalidMagicNumber
//     for a foreign blob, ErrInvalidSnapshot for an unknown version or codec
func (h *SnapshotHeader) Parse(data []byte) error {
	if len(data) != SnapshotHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if magic := le.Uint16(data[0:2]); magic != SnapshotMagic {
		return fmt.Errorf("magic 0x%04X: %w", magic, errs.ErrInvalidMagicNumber)
	}
	if version := data[2]; version != SnapshotVersion {
		return fmt.Errorf("version %d: %w", version, errs.ErrInvalidSnapshot)
	}

	h.Compression = format.CompressionType(data[3])
	if h.Compression.String() == "Unknown" {
		return fmt.Errorf("compression type %d: %w", data[3], errs.ErrInvalidSnapshot)
	}

	h.Detector = format.Detector(data[4])
	h.Flags = data[5]
	h.Rows = le.Uint32(data[8:12])
	h.Cols = le.Uint32(data[12:16])
	h.PayloadSize = le.Uint32(data[16:20])
	h.RawSize = le.Uint32(data[20:24])
	h.Checksum = le.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header.
func (h *SnapshotHeader) Bytes() []byte {
	b := make([]byte, SnapshotHeaderSize)

	le.PutUint16(b[0:2], SnapshotMagic)
	b[2] = SnapshotVersion
	b[3] = uint8(h.Compression)
	b[4] = uint8(h.Detector)
	b[5] = h.Flags
	le.PutUint32(b[8:12], h.Rows)
	le.PutUint32(b[12:16], h.Cols)
	le.PutUint32(b[16:20], h.PayloadSize)
	le.PutUint32(b[20:24], h.RawSize)
	le.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseSnapshotHeader parses a SnapshotHeader from the front of data.
//
// Returns:
//   - SnapshotHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize if data is shorter than 32 bytes, or the
//     validation errors of Parse
func ParseSnapshotHeader(data []byte) (SnapshotHeader, error) {
	if len(data) < SnapshotHeaderSize {
		return SnapshotHeader{}, errs.ErrInvalidHeaderSize
	}

	h := SnapshotHeader{}
	if err := h.Parse(data[:SnapshotHeaderSize]); err != nil {
		return SnapshotHeader{}, err
	}

	return h, nil
}
