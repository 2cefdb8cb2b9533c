// Package endian provides byte order utilities for reading vendor binary layouts.
//
// Instrument files mix byte orders freely: ChemStation headers are big-endian
// while their UV payloads are little-endian, and MassLynx and MassHunter are
// little-endian throughout. Every reader therefore takes an explicit
// EndianEngine rather than assuming one.
//
// # Basic Usage
//
//	cur := endian.NewCursor(data)
//	if err := cur.Seek(0x116); err != nil {
//	    return err
//	}
//	count, err := cur.Uint32(endian.GetBigEndianEngine())
//
// # Thread Safety
//
// EndianEngine values are immutable and safe for concurrent use. A Cursor
// is not; each decode owns its own cursor.
package endian

import "encoding/binary"

// EndianEngine reads and appends fixed-width integers in one byte order.
// binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
