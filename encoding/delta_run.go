package encoding

import (
	"io"
	"iter"
	"math"

	"github.com/arloliu/chromadec/endian"
)

const (
	// DeltaSentinel marks that the next four bytes hold an absolute int32
	// that replaces the running accumulator.
	DeltaSentinel int16 = math.MinInt16
	// SegmentMarker is the flag byte that opens every segment of a
	// segmented delta run. Any other flag byte ends the stream.
	SegmentMarker byte = 0x10
)

// DeltaRunDecoder decodes delta/absolute runs of 16-bit signed deltas.
//
// Two framings share the same accumulator rule:
//   - segmented: [0x10][count][count values]... terminated by a non-0x10 flag
//     byte or the end of data (ChemStation .ch channels, big-endian)
//   - fixed: exactly n values with no framing (ChemStation .uv scans,
//     little-endian, accumulator restarted for every scan)
//
// The decoder is immutable and safe for concurrent use.
type DeltaRunDecoder struct {
	engine endian.EndianEngine
}

// NewDeltaRunDecoder creates a decoder for the given byte order.
func NewDeltaRunDecoder(engine endian.EndianEngine) DeltaRunDecoder {
	return DeltaRunDecoder{engine: engine}
}

// Segments decodes a complete segmented stream.
//
// Returns:
//   - []int64: accumulated values in stream order
//   - error: io.ErrUnexpectedEOF if a segment is cut short; the values
//     decoded before the cut are still returned
func (d DeltaRunDecoder) Segments(data []byte) ([]int64, error) {
	return d.ReadSegments(endian.NewCursor(data))
}

// All yields the values of a segmented stream, stopping silently at the
// first malformed or truncated segment.
func (d DeltaRunDecoder) All(data []byte) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		cur := endian.NewCursor(data)
		var acc int64
		for {
			count, ok := d.openSegment(cur)
			if !ok {
				return
			}
			for range count {
				next, err := d.step(cur, acc)
				if err != nil {
					return
				}
				acc = next
				if !yield(acc) {
					return
				}
			}
		}
	}
}

// ReadSegments decodes a segmented stream starting at the cursor position.
func (d DeltaRunDecoder) ReadSegments(cur *endian.Cursor) ([]int64, error) {
	values := make([]int64, 0, cur.Remaining()/2)

	var acc int64
	for {
		count, ok := d.openSegment(cur)
		if !ok {
			return values, nil
		}
		for range count {
			next, err := d.step(cur, acc)
			if err != nil {
				return values, err
			}
			acc = next
			values = append(values, acc)
		}
	}
}

// ReadRun decodes exactly n values without segment framing, starting from
// a zero accumulator.
//
// On a short read the cursor is left where the failing value started and
// io.ErrUnexpectedEOF is returned.
func (d DeltaRunDecoder) ReadRun(cur *endian.Cursor, n int) ([]int64, error) {
	values := make([]int64, n)

	var acc int64
	for i := range n {
		next, err := d.step(cur, acc)
		if err != nil {
			return values[:i], err
		}
		acc = next
		values[i] = acc
	}

	return values, nil
}

// openSegment reads a segment header. It reports false when the stream ends
// normally: a flag other than SegmentMarker, or no bytes left.
func (d DeltaRunDecoder) openSegment(cur *endian.Cursor) (int, bool) {
	flag, err := cur.Uint8()
	if err != nil || flag != SegmentMarker {
		return 0, false
	}

	count, err := cur.Uint8()
	if err != nil {
		return 0, false
	}

	return int(count), true
}

// step applies one encoded value to the accumulator.
func (d DeltaRunDecoder) step(cur *endian.Cursor, acc int64) (int64, error) {
	start := cur.Pos()

	delta, err := cur.Int16(d.engine)
	if err != nil {
		return acc, err
	}
	if delta != DeltaSentinel {
		return acc + int64(delta), nil
	}

	abs, err := cur.Int32(d.engine)
	if err != nil {
		// leave the cursor at the start of the incomplete value
		_ = cur.Seek(start)

		return acc, io.ErrUnexpectedEOF
	}

	return int64(abs), nil
}
