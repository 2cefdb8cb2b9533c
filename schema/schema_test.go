package schema

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
)

const scanXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="SpectrumParamsType">
    <xs:sequence>
      <xs:element name="SpectrumFormatID" type="xs:short"/>
      <xs:element name="SpectrumOffset" type="xs:long"/>
      <xs:element name="ByteCount" type="xs:int"/>
      <xs:element name="PointCount" type="xs:int"/>
      <xs:element name="UncompressedByteCount" type="xs:int"/>
    </xs:sequence>
  </xs:complexType>
  <xs:complexType name="ScanRecordType">
    <xs:sequence>
      <xs:element name="ScanID" type="xs:int"/>
      <xs:element name="ScanTime" type="xs:double"/>
      <xs:element name="Flags" type="xs:unsignedByte"/>
      <xs:element name="SpectrumParamValues" type="SpectrumParamsType"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>`

func scanRecordBytes(id int32, time float64, offset int64, byteCount, points, uncompressed int32) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(id))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(time))
	buf = append(buf, 0x80)
	buf = binary.LittleEndian.AppendUint16(buf, 1)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(offset))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteCount))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(points))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(uncompressed))

	return buf
}

func TestParseXSD(t *testing.T) {
	s, err := ParseXSD(strings.NewReader(scanXSD))
	require.NoError(t, err)
	require.Equal(t, []string{"SpectrumParamsType", "ScanRecordType"}, s.Names())

	typ, ok := s.Lookup("ScanRecordType")
	require.True(t, ok)
	require.True(t, typ.IsComposite())
	require.Equal(t, Field{Name: "SpectrumParamValues", TypeName: "SpectrumParamsType"}, typ.Fields[3])

	prim, ok := s.Lookup("xs:double")
	require.True(t, ok)
	require.Equal(t, KindFloat64, prim.Kind)

	_, ok = s.Lookup("xs:string")
	require.False(t, ok)
}

func TestParseXSD_UTF16(t *testing.T) {
	doc := strings.Replace(scanXSD, "utf-8", "utf-16", 1)
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(doc)
	require.NoError(t, err)

	s, err := ParseXSD(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, s.Names(), 2)
}

func TestParseXSD_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "<<<"},
		{"unnamed type", `<schema><complexType><sequence/></complexType></schema>`},
		{"element without type", `<schema><complexType name="A"><sequence><element name="x"/></sequence></complexType></schema>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseXSD(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, errs.ErrInvalidSchema)
			require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
		})
	}
}

func TestCompile(t *testing.T) {
	s, err := ParseXSD(strings.NewReader(scanXSD))
	require.NoError(t, err)

	plan, err := Compile(s, "ScanRecordType")
	require.NoError(t, err)
	require.Equal(t, "ScanRecordType", plan.Root())
	require.Equal(t, 4+8+1+2+8+4+4+4, plan.Size())
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		root   string
	}{
		{
			name:   "unknown root",
			schema: New(),
			root:   "ScanRecordType",
		},
		{
			name:   "primitive root",
			schema: New(),
			root:   "xs:int",
		},
		{
			name:   "unknown field type",
			schema: New(Type{Name: "A", Kind: KindComposite, Fields: []Field{{"x", "xs:decimal"}}}),
			root:   "A",
		},
		{
			name: "recursive composite",
			schema: New(
				Type{Name: "A", Kind: KindComposite, Fields: []Field{{"b", "B"}}},
				Type{Name: "B", Kind: KindComposite, Fields: []Field{{"a", "A"}}},
			),
			root: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.schema.Compile(tt.root)
			require.ErrorIs(t, err, errs.ErrInvalidSchema)
			require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
		})
	}
}

func TestCompile_SharedType(t *testing.T) {
	s := New(
		Type{Name: "Pair", Kind: KindComposite, Fields: []Field{{"a", "xs:short"}, {"b", "xs:short"}}},
		Type{Name: "Root", Kind: KindComposite, Fields: []Field{{"first", "Pair"}, {"second", "Pair"}}},
	)

	plan, err := s.Compile("Root")
	require.NoError(t, err)
	require.Equal(t, 8, plan.Size())
}

func TestPlan_Read(t *testing.T) {
	plan, err := CompileXSD([]byte(scanXSD), "ScanRecordType")
	require.NoError(t, err)

	data := append(scanRecordBytes(7, 1.25, 4096, 300, 120, 496), scanRecordBytes(8, 1.5, 4396, 310, 121, 500)...)
	cur := endian.NewCursor(data)

	rec, err := plan.Read(cur)
	require.NoError(t, err)
	require.Equal(t, "ScanRecordType", rec.Type())
	require.Equal(t, []string{"ScanID", "ScanTime", "Flags", "SpectrumParamValues"}, rec.Names())

	id, err := rec.Int("ScanID")
	require.NoError(t, err)
	require.Equal(t, int64(7), id)

	scanTime, err := rec.Float("ScanTime")
	require.NoError(t, err)
	require.Equal(t, 1.25, scanTime)

	flags, err := rec.Int("Flags")
	require.NoError(t, err)
	require.Equal(t, int64(0x80), flags)

	offset, err := rec.Int("SpectrumParamValues", "SpectrumOffset")
	require.NoError(t, err)
	require.Equal(t, int64(4096), offset)

	params, err := rec.Record("SpectrumParamValues")
	require.NoError(t, err)
	points, err := params.Float("PointCount")
	require.NoError(t, err)
	require.Equal(t, 120.0, points)

	rec, err = plan.Read(cur)
	require.NoError(t, err)
	id, err = rec.Int("ScanID")
	require.NoError(t, err)
	require.Equal(t, int64(8), id)

	pos := cur.Pos()
	_, err = plan.Read(cur)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, pos, cur.Pos())
}

func TestPlan_ReadTruncated(t *testing.T) {
	plan, err := CompileXSD([]byte(scanXSD), "ScanRecordType")
	require.NoError(t, err)

	data := scanRecordBytes(1, 0, 0, 0, 0, 0)
	cur := endian.NewCursor(data[:len(data)-1])

	_, err = plan.Read(cur)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, 0, cur.Pos())
}

func TestRecord_AccessErrors(t *testing.T) {
	plan, err := CompileXSD([]byte(scanXSD), "ScanRecordType")
	require.NoError(t, err)

	rec, err := plan.Read(endian.NewCursor(scanRecordBytes(1, 2.5, 0, 0, 0, 0)))
	require.NoError(t, err)

	_, err = rec.Int("Missing")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)

	_, err = rec.Int("ScanTime")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)

	_, err = rec.Float("SpectrumParamValues")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)

	_, err = rec.Record("ScanID")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)

	_, err = rec.Int("ScanID", "Nested")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
}

func TestRecord_SignedKinds(t *testing.T) {
	s := New(Type{Name: "R", Kind: KindComposite, Fields: []Field{
		{"b", "xs:byte"},
		{"s", "xs:short"},
		{"u", "xs:unsignedShort"},
		{"big", "xs:unsignedLong"},
		{"f", "xs:float"},
	}})
	plan, err := s.Compile("R")
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteByte(0xFF)
	buf.Write([]byte{0xFE, 0xFF})
	buf.Write([]byte{0xFE, 0xFF})
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	buf.Write(binary.LittleEndian.AppendUint32(nil, math.Float32bits(0.5)))

	rec, err := plan.Read(endian.NewCursor(buf.Bytes()))
	require.NoError(t, err)

	got := map[string]float64{}
	for name, v := range rec.All() {
		f, ok := v.Float()
		require.True(t, ok)
		got[name] = f
	}
	require.Equal(t, map[string]float64{"b": -1, "s": -2, "u": 65534, "big": math.MaxUint64, "f": 0.5}, got)

	_, err = rec.Int("big")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)

	unsigned := []struct {
		field string
		want  uint64
	}{
		{"b", 0xFF},
		{"s", 0xFFFE},
		{"u", 0xFFFE},
		{"big", math.MaxUint64},
	}
	for _, tt := range unsigned {
		n, err := rec.Uint(tt.field)
		require.NoError(t, err, tt.field)
		require.Equal(t, tt.want, n, tt.field)
	}

	_, err = rec.Uint("f")
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
}

func TestCache(t *testing.T) {
	cache, err := NewCache(DefaultCacheSize)
	require.NoError(t, err)

	first, err := cache.Plan([]byte(scanXSD), "ScanRecordType")
	require.NoError(t, err)
	second, err := cache.Plan([]byte(scanXSD), "ScanRecordType")
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, cache.Len())

	_, err = cache.Plan([]byte(scanXSD), "Missing")
	require.ErrorIs(t, err, errs.ErrInvalidSchema)
	require.Equal(t, 1, cache.Len())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plan, err := cache.Plan([]byte(scanXSD), "SpectrumParamsType")
			if assert.NoError(t, err) {
				assert.Equal(t, 22, plan.Size())
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 2, cache.Len())

	_, err = NewCache(0)
	require.Error(t, err)
}
