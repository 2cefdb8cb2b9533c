// Package section defines fixed-offset binary layouts: the ChemStation
// header tables and the decoded-snapshot header.
//
// # ChemStation headers
//
// ChemStation files place every field at a fixed offset that depends on
// the file version. The tables in this package are the single place those
// offsets live; readers never hard-code them.
//
// Header strings are Pascal strings: a length byte followed by the
// characters, one every gap bytes. Version 130/131 files use gap 2
// (UTF-16LE with the high byte skipped), older versions use gap 1.
//
//	offset: [len][c0][..][c1][..][c2]...   gap 2
//	offset: [len][c0][c1][c2]...           gap 1
//
// # Snapshot header
//
// SnapshotHeader (32 bytes, little-endian):
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|----------------------------------
//	0-1    | Magic        | uint16 | 0xCD10
//	2      | Version      | uint8  | layout version, currently 1
//	3      | Compression  | uint8  | format.CompressionType of the payload
//	4      | Detector     | uint8  | format.Detector
//	5      | Flags        | uint8  | bit 0: text label axis
//	6-7    | Reserved     |        | must be zero
//	8-11   | Rows         | uint32 | matrix rows (times)
//	12-15  | Cols         | uint32 | matrix columns (labels)
//	16-19  | PayloadSize  | uint32 | compressed payload length
//	20-23  | RawSize      | uint32 | uncompressed payload length
//	24-31  | Checksum     | uint64 | xxHash64 of the uncompressed payload
package section
