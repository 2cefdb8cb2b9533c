package chromadec

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/internal/hash"
	"github.com/arloliu/chromadec/schema"
	"github.com/arloliu/chromadec/section"
)

// fidBytes is a minimal .ch FID file with unit scale.
func fidBytes(values ...float64) []byte {
	layout := section.ChannelFID
	b := make([]byte, layout.DataOffset+8*len(values))
	copy(b, []byte{0x03, '1', '7', '9'})
	binary.BigEndian.PutUint32(b[section.ScanCountOffset:], uint32(len(values)))
	binary.BigEndian.PutUint32(b[section.ScanCountOffset+4:], math.Float32bits(0))
	binary.BigEndian.PutUint32(b[section.ScanCountOffset+8:], math.Float32bits(float32(len(values))))
	binary.BigEndian.PutUint64(b[layout.ScaleOffset:], math.Float64bits(1))
	for i, v := range values {
		binary.LittleEndian.PutUint64(b[layout.DataOffset+8*i:], math.Float64bits(v))
	}

	return b
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	data := fidBytes(1.5, 2.5, 4)
	path := writeFile(t, dir, "FID1A.ch", data)

	file, err := Decode(path)
	require.NoError(t, err)
	require.Equal(t, "FID1A.ch", file.Name)
	require.Equal(t, format.DetectorFID, file.Detector)
	require.Len(t, file.Times, 3)
	require.Equal(t, []float64{1.5, 2.5, 4}, file.Matrix.Column(0))
	require.Equal(t, fmt.Sprintf("%016x", hash.Sum(data)), file.Metadata[FingerprintKey])
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	fid := writeFile(t, dir, "FID1A.ch", fidBytes(1))
	junk := writeFile(t, dir, "notes.txt", []byte("not a chromatogram"))

	tests := []struct {
		name string
		path string
		opts []Option
		want error
	}{
		{"unrecognized", junk, nil, errs.ErrUnrecognizedFormat},
		{"negative precision", fid, []Option{WithPrecision(-1)}, errs.ErrInvalidPrecision},
		{"not allowed", fid, []Option{WithAllowList("DAD1.UV")}, errs.ErrSkipped},
		{"missing masslynx companions", writeFile(t, dir, "run.raw/_FUNC001.DAT", nil), nil, errs.ErrMissingCompanion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.path, tt.opts...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Decode(filepath.Join(dir, "absent.ch"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestAllowListIgnoresCase(t *testing.T) {
	path := writeFile(t, t.TempDir(), "FID1A.ch", fidBytes(1))

	_, err := Decode(path, WithAllowList("fid1a.CH"))
	require.NoError(t, err)

	_, err = Decode(path, WithAllowList())
	require.NoError(t, err)
}

func TestDecodeBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "FID1A.ch", fidBytes(1, 2)),
		writeFile(t, dir, "bad.ch", []byte{0xFF, 0xFF}),
		writeFile(t, dir, "FID2A.ch", fidBytes(3)),
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	results, err := DecodeBatch(context.Background(), paths, WithWorkers(2), WithLogger(logger))
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		require.Equal(t, paths[i], r.Path)
	}
	require.NoError(t, results[0].Err)
	require.Equal(t, []float64{1, 2}, results[0].File.Matrix.Column(0))
	require.ErrorIs(t, results[1].Err, errs.ErrUnrecognizedFormat)
	require.Nil(t, results[1].File)
	require.NoError(t, results[2].Err)

	require.Contains(t, logs.String(), "decode failed")
	require.Contains(t, logs.String(), "bad.ch")
	require.Contains(t, logs.String(), "failed=1")
}

func TestDecodeBatchSkipped(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "FID1A.ch", fidBytes(1)),
		writeFile(t, dir, "FID2A.ch", fidBytes(2)),
	}

	results, err := DecodeBatch(context.Background(), paths, WithAllowList("FID2A.CH"))
	require.NoError(t, err)
	require.ErrorIs(t, results[0].Err, errs.ErrSkipped)
	require.NoError(t, results[1].Err)
}

func TestDecodeBatchCancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "FID1A.ch", fidBytes(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := DecodeBatch(ctx, []string{path, path}, WithWorkers(1))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		require.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestDecodeBatchOptions(t *testing.T) {
	_, err := DecodeBatch(context.Background(), nil, WithWorkers(0))
	require.ErrorIs(t, err, errs.ErrInvalidWorkers)

	cache, err := schema.NewCache(4)
	require.NoError(t, err)
	results, err := DecodeBatch(context.Background(), nil, WithSchemaCache(cache), WithLogger(nil))
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMembers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "FID1A.ch", fidBytes(1))
	writeFile(t, dir, "DAD1.UV", nil)
	writeFile(t, dir, "acq.macaml", nil)
	writeFile(t, dir, "AcqData/"+section.ProfileFile, nil)
	writeFile(t, dir, "_FUNC001.DAT", nil)
	writeFile(t, dir, "_CHRO001.DAT", nil)
	writeFile(t, dir, "_FUNC001.IDX", nil)

	paths, err := Members(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "AcqData", section.ProfileFile),
		filepath.Join(dir, "DAD1.UV"),
		filepath.Join(dir, "FID1A.ch"),
		filepath.Join(dir, "_FUNC001.DAT"),
		filepath.Join(dir, "_CHRO001.DAT"),
	}, paths)
}

func TestDecodeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "FID1A.ch", fidBytes(1))
	writeFile(t, dir, "FID2A.ch", fidBytes(2, 3))

	results, err := DecodeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Equal(t, []float64{2, 3}, results[1].File.Matrix.Column(0))

	_, err = DecodeDir(context.Background(), filepath.Join(dir, "absent"))
	require.Error(t, err)
}

// rawDir writes a MassLynx .raw directory with two analog channels.
func rawDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "run.raw")

	record := func(text string) []byte {
		rec := make([]byte, section.ChromsInfRecordSize)
		copy(rec, text)

		return rec
	}
	chroms := make([]byte, section.ChromsInfStart)
	chroms = append(chroms, record("ELSD Signal,0,1,2,3,LSU")...)
	chroms = append(chroms, record("CAD Signal")...)
	writeFile(t, dir, section.ChromsFile, chroms)

	chro := func(pairs ...float32) []byte {
		b := make([]byte, section.ChroDataStart)
		for _, v := range pairs {
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		}

		return b
	}
	writeFile(t, dir, "_CHRO001.DAT", chro(0.5, 10, 1, 20))
	writeFile(t, dir, "_CHRO002.DAT", chro(0.5, 3))

	return dir
}

func TestRawDirectoryShared(t *testing.T) {
	dir := rawDir(t)

	cfg, err := newConfig()
	require.NoError(t, err)

	elsd, err := cfg.decode(filepath.Join(dir, "_CHRO001.DAT"))
	require.NoError(t, err)
	require.Equal(t, format.DetectorELSD, elsd.Detector)
	require.Equal(t, []float64{10, 20}, elsd.Matrix.Column(0))

	cad, err := cfg.decode(filepath.Join(dir, "_chro002.dat"))
	require.NoError(t, err)
	require.Equal(t, format.DetectorCAD, cad.Detector)

	require.Len(t, cfg.raws.dirs, 1)
	first, err := cfg.raws.open(dir)
	require.NoError(t, err)
	second, err := cfg.raws.open(dir)
	require.NoError(t, err)
	require.Same(t, first, second)

	results, err := DecodeDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err, r.Path)
	}
}

func TestAllowListKeys(t *testing.T) {
	cfg, err := newConfig(WithAllowList("fid1a.ch", "DAD1.uv"))
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{"FID1A.CH": {}, "DAD1.UV": {}}, cfg.allow)
	require.True(t, cfg.allowed("FID1A.ch"))
	require.False(t, cfg.allowed("FID2A.ch"))
}
