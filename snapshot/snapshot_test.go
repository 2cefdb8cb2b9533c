package snapshot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chromadec/compress"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

func msFile(t *testing.T) *spectrum.DecodedFile {
	t.Helper()

	m := spectrum.MatrixFromRows([][]float64{{50, 0, 1.5}, {0, 64, 2}})
	file, err := spectrum.NewDecodedFile("data.ms", format.DetectorMS, []float64{1, 2},
		spectrum.LabelAxis{Values: []float64{100, 100.5, 200}}, m,
		map[string]string{"method": "METHOD.M", "date": "01-Jan-20"})
	require.NoError(t, err)
	file.Annotate("truncated input: %d of %d declared scans", 2, 3)

	return file
}

func channelFile(t *testing.T) *spectrum.DecodedFile {
	t.Helper()

	file, err := spectrum.Channel("DAD1A.ch", format.DetectorUV, []float64{0, 0.5, 1}, []float64{1, 2, 3}, "254", nil)
	require.NoError(t, err)

	return file
}

func TestRoundTrip(t *testing.T) {
	codecs := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	if compress.Available(format.CompressionLZF) {
		codecs = append(codecs, format.CompressionLZF)
	}

	for _, ct := range codecs {
		t.Run(ct.String(), func(t *testing.T) {
			for _, want := range []*spectrum.DecodedFile{msFile(t), channelFile(t)} {
				data, err := Encode(want, WithCompression(ct))
				require.NoError(t, err)

				h, err := section.ParseSnapshotHeader(data)
				require.NoError(t, err)
				require.Equal(t, ct, h.Compression)
				require.Equal(t, want.Labels.IsText(), h.HasTextLabels())

				got, err := Decode(data)
				require.NoError(t, err)
				require.Equal(t, want, got)
			}
		})
	}
}

func TestEncodeDefaults(t *testing.T) {
	data, err := Encode(msFile(t))
	require.NoError(t, err)

	h, err := section.ParseSnapshotHeader(data)
	require.NoError(t, err)
	require.Equal(t, DefaultCompression, h.Compression)
	require.Equal(t, format.DetectorMS, h.Detector)
	require.Equal(t, uint32(2), h.Rows)
	require.Equal(t, uint32(3), h.Cols)
	require.Len(t, data, section.SnapshotHeaderSize+int(h.PayloadSize))
}

func TestEmptyFile(t *testing.T) {
	labels, m := spectrum.Assemble(nil)
	file, err := spectrum.NewDecodedFile("empty.ms", format.DetectorMS, nil, labels, m, nil)
	require.NoError(t, err)

	data, err := Encode(file)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Zero(t, got.Matrix.Rows())
	require.Zero(t, got.Labels.Len())
	require.Empty(t, got.Metadata)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(msFile(t), WithCompression(format.CompressionType(42)))
	require.ErrorIs(t, err, errs.ErrMissingCapability)

	_, err = Encode(&spectrum.DecodedFile{Name: "broken"})
	require.ErrorIs(t, err, errs.ErrUnsupportedVariant)
}

func TestDecodeErrors(t *testing.T) {
	encoded := func(t *testing.T) []byte {
		data, err := Encode(msFile(t), WithCompression(format.CompressionNone))
		require.NoError(t, err)

		return data
	}

	t.Run("short header", func(t *testing.T) {
		_, err := Decode(encoded(t)[:section.SnapshotHeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("foreign magic", func(t *testing.T) {
		data := encoded(t)
		data[0] ^= 0xFF

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("cut payload", func(t *testing.T) {
		data := encoded(t)

		_, err := Decode(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		data := encoded(t)
		data[len(data)-1] ^= 0x01

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("wrong dimensions", func(t *testing.T) {
		data := encoded(t)
		h, err := section.ParseSnapshotHeader(data)
		require.NoError(t, err)
		h.Cols++
		copy(data, h.Bytes())

		_, err = Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidSnapshot)
	})
}
