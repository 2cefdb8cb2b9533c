package endian

import (
	"fmt"
	"io"
	"math"
)

// Cursor is a bounds-checked reader over an in-memory byte slice.
//
// Every read either consumes exactly the requested width or fails with
// io.ErrUnexpectedEOF and leaves the position unchanged. Scan readers rely on
// this to stop cleanly on the first incomplete record of a truncated file.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current absolute offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// Size returns the total length of the underlying data.
func (c *Cursor) Size() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Seek moves the cursor to an absolute offset. Seeking to the end is allowed.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("seek to 0x%X beyond %d bytes: %w", offset, len(c.data), io.ErrUnexpectedEOF)
	}
	c.pos = offset

	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return io.ErrUnexpectedEOF
	}
	c.pos += n

	return nil
}

// Bytes returns the next n bytes without copying.
// The returned slice aliases the cursor's data.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// Uint8 reads one byte.
func (c *Cursor) Uint8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, io.ErrUnexpectedEOF
	}
	v := c.data[c.pos]
	c.pos++

	return v, nil
}

// Int8 reads one signed byte.
func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

// Uint16 reads a 16-bit unsigned integer in the given byte order.
func (c *Cursor) Uint16(engine EndianEngine) (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}

	return engine.Uint16(b), nil
}

// Int16 reads a 16-bit signed integer in the given byte order.
func (c *Cursor) Int16(engine EndianEngine) (int16, error) {
	v, err := c.Uint16(engine)
	return int16(v), err
}

// Uint32 reads a 32-bit unsigned integer in the given byte order.
func (c *Cursor) Uint32(engine EndianEngine) (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}

	return engine.Uint32(b), nil
}

// Int32 reads a 32-bit signed integer in the given byte order.
func (c *Cursor) Int32(engine EndianEngine) (int32, error) {
	v, err := c.Uint32(engine)
	return int32(v), err
}

// Uint64 reads a 64-bit unsigned integer in the given byte order.
func (c *Cursor) Uint64(engine EndianEngine) (uint64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}

	return engine.Uint64(b), nil
}

// Int64 reads a 64-bit signed integer in the given byte order.
func (c *Cursor) Int64(engine EndianEngine) (int64, error) {
	v, err := c.Uint64(engine)
	return int64(v), err
}

// Float32 reads an IEEE 754 single-precision value in the given byte order.
func (c *Cursor) Float32(engine EndianEngine) (float32, error) {
	v, err := c.Uint32(engine)
	return math.Float32frombits(v), err
}

// Float64 reads an IEEE 754 double-precision value in the given byte order.
func (c *Cursor) Float64(engine EndianEngine) (float64, error) {
	v, err := c.Uint64(engine)
	return math.Float64frombits(v), err
}

// Uint16At reads a 16-bit unsigned integer at an absolute offset and leaves the cursor there.
func (c *Cursor) Uint16At(offset int, engine EndianEngine) (uint16, error) {
	if err := c.Seek(offset); err != nil {
		return 0, err
	}

	return c.Uint16(engine)
}

// Uint32At reads a 32-bit unsigned integer at an absolute offset.
func (c *Cursor) Uint32At(offset int, engine EndianEngine) (uint32, error) {
	if err := c.Seek(offset); err != nil {
		return 0, err
	}

	return c.Uint32(engine)
}

// Float64At reads a double at an absolute offset.
func (c *Cursor) Float64At(offset int, engine EndianEngine) (float64, error) {
	if err := c.Seek(offset); err != nil {
		return 0, err
	}

	return c.Float64(engine)
}
