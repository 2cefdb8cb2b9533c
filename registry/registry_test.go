package registry

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
)

func header(magic []byte, size int) []byte {
	data := make([]byte, size)
	copy(data, magic)

	return data
}

func TestDetect_Magic(t *testing.T) {
	uv131 := header([]byte{0x03, '1', '3', '1'}, 0x200)
	binary.BigEndian.PutUint32(uv131[section.ScanCountOffset:], 12)

	tests := []struct {
		name   string
		data   []byte
		family Family
		want   format.SubFormat
	}{
		{"ch fid", header([]byte{0x03, '1', '7', '9'}, 16), FamilyCH, format.SubFormatCHFID},
		{"ch 130", header([]byte{0x03, '1', '3', '0'}, 16), FamilyCH, format.SubFormatCH130},
		{"ch 30", header([]byte{0x02, '3', '0'}, 16), FamilyAny, format.SubFormatCH30},
		{"uv 131", uv131, FamilyUV, format.SubFormatUV131},
		{"uv 31", header([]byte{0x02, '3', '1'}, 16), FamilyUV, format.SubFormatUV31},
		{"ms", header([]byte{0x01, 0x32, 0x00, 0x00}, 16), FamilyMS, format.SubFormatMS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Detect(tt.data, tt.family)
			require.NoError(t, err)
			require.Equal(t, tt.want, d.SubFormat)
			require.False(t, d.Partial)
			require.NotEmpty(t, d.Note)
		})
	}
}

func TestDetect_Partial(t *testing.T) {
	t.Run("uv with zero count", func(t *testing.T) {
		d, err := Detect(header([]byte{0x03, '1', '3', '1'}, 0x200), FamilyUV)
		require.NoError(t, err)
		require.Equal(t, format.SubFormatUVPartial, d.SubFormat)
		require.True(t, d.Partial)
	})

	t.Run("ms without header", func(t *testing.T) {
		d, err := Detect(make([]byte, section.MSPartialDataStart+16), FamilyMS)
		require.NoError(t, err)
		require.Equal(t, format.SubFormatMSPartial, d.SubFormat)
		require.True(t, d.Partial)
	})

	t.Run("ms too short for partial", func(t *testing.T) {
		_, err := Detect(make([]byte, 0x100), FamilyMS)
		require.ErrorIs(t, err, errs.ErrUnrecognizedFormat)
	})

	t.Run("ms with data start pointer", func(t *testing.T) {
		data := make([]byte, 0x400)
		binary.BigEndian.PutUint16(data[section.MSDataStartOffset:], 0x17A)
		_, err := Detect(data, FamilyMS)
		require.ErrorIs(t, err, errs.ErrUnrecognizedFormat)
	})
}

func TestDetect_FamilyMismatch(t *testing.T) {
	_, err := Detect(header([]byte{0x03, '1', '7', '9'}, 16), FamilyUV)
	require.ErrorIs(t, err, errs.ErrUnrecognizedFormat)

	_, err = Detect(nil, FamilyAny)
	require.ErrorIs(t, err, errs.ErrUnrecognizedFormat)
}

func TestFamilyOf(t *testing.T) {
	require.Equal(t, FamilyCH, FamilyOf("DAD1A.CH"))
	require.Equal(t, FamilyUV, FamilyOf("dir/DAD1.uv"))
	require.Equal(t, FamilyMS, FamilyOf("MSD1.MS"))
	require.Equal(t, FamilyAny, FamilyOf("_FUNC001.DAT"))
	require.Equal(t, ".ms", FamilyMS.String())
}

func TestDetectName(t *testing.T) {
	tests := []struct {
		name string
		want format.SubFormat
		ok   bool
	}{
		{"_FUNC001.DAT", format.SubFormatFuncDAT, true},
		{"sample.raw/_func012.dat", format.SubFormatFuncDAT, true},
		{`C:\data\s.raw\_CHRO002.DAT`, format.SubFormatChroDAT, true},
		{"AcqData/MSProfile.bin", format.SubFormatMSProfile, true},
		{"_FUNC001.IDX", format.SubFormatUnknown, false},
		{"_FUNC1.DAT", format.SubFormatUnknown, false},
		{"MSScan.bin", format.SubFormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectName(tt.name)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
