package chemstation

import (
	"encoding/binary"
	"math"

	"github.com/arloliu/chromadec/section"
)

// fixture grows a zeroed byte image and writes fields at absolute offsets.
type fixture struct {
	buf []byte
}

func newFixture(size int) *fixture {
	return &fixture{buf: make([]byte, size)}
}

func (f *fixture) grow(end int) {
	if end > len(f.buf) {
		f.buf = append(f.buf, make([]byte, end-len(f.buf))...)
	}
}

func (f *fixture) bytes(offset int, b []byte) *fixture {
	f.grow(offset + len(b))
	copy(f.buf[offset:], b)

	return f
}

func (f *fixture) pascal(offset int, s string, gap int) *fixture {
	b := make([]byte, 1+len(s)*gap)
	b[0] = byte(len(s))
	for i := 0; i < len(s); i++ {
		b[1+i*gap] = s[i]
	}

	return f.bytes(offset, b)
}

func (f *fixture) u16be(offset int, v uint16) *fixture {
	return f.bytes(offset, binary.BigEndian.AppendUint16(nil, v))
}

func (f *fixture) u32be(offset int, v uint32) *fixture {
	return f.bytes(offset, binary.BigEndian.AppendUint32(nil, v))
}

func (f *fixture) u32le(offset int, v uint32) *fixture {
	return f.bytes(offset, binary.LittleEndian.AppendUint32(nil, v))
}

func (f *fixture) f32be(offset int, v float32) *fixture {
	return f.u32be(offset, math.Float32bits(v))
}

func (f *fixture) f64be(offset int, v float64) *fixture {
	return f.bytes(offset, binary.BigEndian.AppendUint64(nil, math.Float64bits(v)))
}

func (f *fixture) f64le(offset int, v float64) *fixture {
	return f.bytes(offset, binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
}

// uvScan is one .uv scan record: time in ms and an encoded payload.
type uvScan struct {
	timeMs  uint32
	payload []byte
}

// uvScanBytes frames a payload; the wavelength triple lives at +8.
func uvScanBytes(s uvScan, wl [3]uint16) []byte {
	b := make([]byte, 22, 22+len(s.payload))
	binary.LittleEndian.PutUint32(b[4:], s.timeMs)
	binary.LittleEndian.PutUint16(b[8:], wl[0])
	binary.LittleEndian.PutUint16(b[10:], wl[1])
	binary.LittleEndian.PutUint16(b[12:], wl[2])

	return append(b, s.payload...)
}

func leDeltas(values ...int16) []byte {
	var b []byte
	for _, v := range values {
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}

	return b
}

func leFloats(values ...float64) []byte {
	var b []byte
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}

	return b
}

func uvFile(layout section.SpectrumLayout, magic []byte, count uint32, kind string, scale float64, wl [3]uint16, scans ...uvScan) []byte {
	f := newFixture(layout.DataOffset).bytes(0, magic).u32be(section.ScanCountOffset, count).f64be(layout.ScaleOffset, scale)
	if layout.TypeOffset != 0 {
		f.pascal(layout.TypeOffset, kind, layout.Gap)
	}
	f.pascal(layout.Metadata[0].Offset, "notebook-1", layout.Gap)

	offset := layout.DataOffset
	for _, s := range scans {
		b := uvScanBytes(s, wl)
		f.bytes(offset, b)
		offset += len(b)
	}

	return f.buf
}

// msPair encodes one .ms pair: raw mass (m/z * 20) and encoded intensity.
type msPair struct {
	mass uint16
	enc  uint16
}

type msScan struct {
	timeMs uint32
	pairs  []msPair
}

func msScanBytes(s msScan) []byte {
	b := make([]byte, 0, 18+4*len(s.pairs)+10)
	b = append(b, 0, 0)
	b = binary.BigEndian.AppendUint32(b, s.timeMs)
	b = append(b, make([]byte, 6)...)
	b = binary.BigEndian.AppendUint16(b, uint16(len(s.pairs)))
	b = append(b, make([]byte, 4)...)
	for _, p := range s.pairs {
		b = binary.BigEndian.AppendUint16(b, p.mass)
		b = binary.BigEndian.AppendUint16(b, p.enc)
	}

	return append(b, make([]byte, 10)...)
}

func appendScans(f *fixture, offset int, scans []msScan) []byte {
	for _, s := range scans {
		b := msScanBytes(s)
		f.bytes(offset, b)
		offset += len(b)
	}

	return f.buf
}

func msFile(kind string, count uint32, scans ...msScan) []byte {
	f := newFixture(section.MSPartialDataStart).
		u32be(0, section.MSMagic).
		pascal(section.MSTypeOffset, kind, section.MSGap).
		u16be(section.MSDataStartOffset, (section.MSPartialDataStart+2)/2).
		pascal(0xB2, "01-Jan-20, 10:00:00", section.MSGap).
		pascal(0xE4, "METHOD.M", section.MSGap)
	if kind == section.MSLCType {
		f.u32be(section.MSLCCountOffset, count)
	} else {
		f.u32le(section.MSGCCountOffset, count)
	}

	return appendScans(f, section.MSPartialDataStart, scans)
}

func msPartialFile(kind string, scans ...msScan) []byte {
	f := newFixture(section.MSPartialDataStart)
	if kind != "" {
		f.pascal(section.MSTypeOffset, kind, section.MSGap)
	}

	return appendScans(f, section.MSPartialDataStart, scans)
}

var sampleMSScans = []msScan{
	{timeMs: 60000, pairs: []msPair{{2000, 0x4005}, {2010, 10}}},
	{timeMs: 120000, pairs: []msPair{{4000, 0x8001}}},
}
