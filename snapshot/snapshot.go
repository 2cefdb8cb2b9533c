// Package snapshot serializes decoded files so a batch can cache them
// without decoding the vendor format again.
//
// A snapshot is a fixed 32-byte section.SnapshotHeader followed by a
// compressed payload. The payload is little-endian:
//
//	name         uint16 length + bytes
//	times        rows x float64
//	labels       cols x float64, or cols x (uint16 length + bytes) with
//	             section.FlagTextLabels
//	matrix       rows x cols float64, row-major
//	metadata     uint16 count, then sorted key/value strings
//	annotations  uint16 count, then strings
//
// The header carries the xxHash64 of the uncompressed payload.
package snapshot

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/arloliu/chromadec/compress"
	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/internal/hash"
	"github.com/arloliu/chromadec/internal/options"
	"github.com/arloliu/chromadec/internal/pool"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

// DefaultCompression is the payload codec used when none is chosen.
const DefaultCompression = format.CompressionZstd

type encoderConfig struct {
	compression format.CompressionType
}

// Option configures Encode.
type Option = options.Option[*encoderConfig]

// WithCompression selects the payload codec.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *encoderConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// Encode serializes file.
//
// Returns:
//   - []byte: header and compressed payload, owned by the caller
//   - error: option errors, or errs.ErrUnsupportedVariant when file is not
//     a valid decoded file
func Encode(file *spectrum.DecodedFile, opts ...Option) ([]byte, error) {
	cfg := &encoderConfig{compression: DefaultCompression}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)
	writePayload(buf, file)

	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress snapshot payload: %w", err)
	}
	if uint64(len(payload)) > math.MaxUint32 || uint64(buf.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("snapshot payload of %d bytes: %w", buf.Len(), errs.ErrUnsupportedVariant)
	}

	h := section.NewSnapshotHeader(cfg.compression, file.Detector)
	if file.Labels.IsText() {
		h.Flags |= section.FlagTextLabels
	}
	h.Rows = uint32(file.Matrix.Rows())
	h.Cols = uint32(file.Matrix.Cols())
	h.PayloadSize = uint32(len(payload))
	h.RawSize = uint32(buf.Len())
	h.Checksum = hash.Sum(buf.Bytes())

	out := make([]byte, 0, section.SnapshotHeaderSize+len(payload))
	out = append(out, h.Bytes()...)

	return append(out, payload...), nil
}

func writePayload(buf *pool.ByteBuffer, file *spectrum.DecodedFile) {
	buf.PutString(file.Name)
	buf.PutFloat64s(file.Times)

	if file.Labels.IsText() {
		for _, s := range file.Labels.Text {
			buf.PutString(s)
		}
	} else {
		buf.PutFloat64s(file.Labels.Values)
	}
	buf.PutFloat64s(file.Matrix.Data())

	keys := slices.Sorted(maps.Keys(file.Metadata))
	buf.PutUint16(uint16(min(len(keys), math.MaxUint16)))
	for _, k := range keys[:min(len(keys), math.MaxUint16)] {
		buf.PutString(k)
		buf.PutString(file.Metadata[k])
	}

	n := min(len(file.Annotations), math.MaxUint16)
	buf.PutUint16(uint16(n))
	for _, a := range file.Annotations[:n] {
		buf.PutString(a)
	}
}

var le = endian.GetLittleEndianEngine()

// Decode restores a file serialized by Encode.
//
// Returns:
//   - *spectrum.DecodedFile: the restored file
//   - error: header errors from section.ParseSnapshotHeader,
//     errs.ErrMissingCapability for a codec missing from this build,
//     errs.ErrChecksumMismatch when the payload does not match its checksum,
//     errs.ErrInvalidSnapshot for a malformed payload
func Decode(data []byte) (*spectrum.DecodedFile, error) {
	h, err := section.ParseSnapshotHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[section.SnapshotHeaderSize:]
	if uint64(len(body)) < uint64(h.PayloadSize) {
		return nil, fmt.Errorf("payload of %d bytes, header says %d: %w", len(body), h.PayloadSize, errs.ErrInvalidSnapshot)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(body[:h.PayloadSize])
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot payload: %v: %w", err, errs.ErrInvalidSnapshot)
	}
	if uint64(len(raw)) != uint64(h.RawSize) {
		return nil, fmt.Errorf("payload decompressed to %d bytes, header says %d: %w", len(raw), h.RawSize, errs.ErrInvalidSnapshot)
	}
	if sum := hash.Sum(raw); sum != h.Checksum {
		return nil, fmt.Errorf("checksum %016x, header says %016x: %w", sum, h.Checksum, errs.ErrChecksumMismatch)
	}

	file, err := readPayload(endian.NewCursor(raw), h)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrInvalidSnapshot)
	}

	return file, nil
}

func readPayload(cur *endian.Cursor, h section.SnapshotHeader) (*spectrum.DecodedFile, error) {
	rows, cols := int(h.Rows), int(h.Cols)
	if cols != 0 && rows > cur.Remaining()/8/cols {
		return nil, fmt.Errorf("%dx%d matrix exceeds the payload", rows, cols)
	}

	name, err := readString(cur)
	if err != nil {
		return nil, err
	}
	times, err := readFloats(cur, rows)
	if err != nil {
		return nil, err
	}

	var labels spectrum.LabelAxis
	if h.HasTextLabels() {
		labels.Text = make([]string, cols)
		for i := range labels.Text {
			if labels.Text[i], err = readString(cur); err != nil {
				return nil, err
			}
		}
	} else if labels.Values, err = readFloats(cur, cols); err != nil {
		return nil, err
	}

	values, err := readFloats(cur, rows*cols)
	if err != nil {
		return nil, err
	}
	m := spectrum.NewMatrix(rows, cols)
	copy(m.Data(), values)

	count, err := cur.Uint16(le)
	if err != nil {
		return nil, err
	}
	metadata := make(map[string]string, count)
	for range count {
		k, err := readString(cur)
		if err != nil {
			return nil, err
		}
		if metadata[k], err = readString(cur); err != nil {
			return nil, err
		}
	}

	count, err = cur.Uint16(le)
	if err != nil {
		return nil, err
	}
	var annotations []string
	for range count {
		a, err := readString(cur)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}
	if cur.Remaining() != 0 {
		return nil, fmt.Errorf("%d trailing payload bytes", cur.Remaining())
	}

	file, err := spectrum.NewDecodedFile(name, h.Detector, times, labels, m, metadata)
	if err != nil {
		return nil, err
	}
	file.Annotations = annotations

	return file, nil
}

func readString(cur *endian.Cursor) (string, error) {
	n, err := cur.Uint16(le)
	if err != nil {
		return "", err
	}
	b, err := cur.Bytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func readFloats(cur *endian.Cursor, n int) ([]float64, error) {
	if n > cur.Remaining()/8 {
		return nil, fmt.Errorf("%d values exceed the payload", n)
	}

	vs := make([]float64, n)
	for i := range vs {
		vs[i], _ = cur.Float64(le)
	}

	return vs, nil
}
