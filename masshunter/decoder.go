package masshunter

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/arloliu/chromadec/calib"
	"github.com/arloliu/chromadec/compress"
	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/internal/options"
	"github.com/arloliu/chromadec/internal/xmltext"
	"github.com/arloliu/chromadec/schema"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

var le = endian.GetLittleEndianEngine()

// BlockSource resolves the decompressor for profile blocks.
type BlockSource func(format.CompressionType) (compress.BlockDecompressor, error)

// Decoder reads AcqData directories. It is safe for concurrent use.
type Decoder struct {
	cache  *schema.Cache
	blocks BlockSource
}

// Option configures a Decoder.
type Option = options.Option[*Decoder]

// WithSchemaCache shares compiled MSScan.xsd plans across decodes.
func WithSchemaCache(cache *schema.Cache) Option {
	return options.NoError(func(d *Decoder) {
		d.cache = cache
	})
}

// WithBlockSource replaces the codec registry lookup for profile blocks.
func WithBlockSource(src BlockSource) Option {
	return options.New(func(d *Decoder) error {
		if src == nil {
			return errors.New("masshunter: nil block source")
		}
		d.blocks = src

		return nil
	})
}

// NewDecoder creates a Decoder. By default schemas are compiled on every
// decode and blocks are decompressed through compress.GetBlockDecompressor.
func NewDecoder(opts ...Option) (*Decoder, error) {
	d := &Decoder{blocks: compress.GetBlockDecompressor}
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// Decode reads the profile spectrum of the AcqData directory fsys.
func Decode(fsys fs.FS, prec int, opts ...Option) (*spectrum.DecodedFile, error) {
	d, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return d.Decode(fsys, prec)
}

// scanEntry is the part of an MSScan.bin record the decoder uses.
type scanEntry struct {
	time         float64
	points       int
	offset       uint64
	byteCount    int
	uncompressed int
}

// Decode reads the profile spectrum of fsys. Masses are rounded to prec
// decimals.
func (d *Decoder) Decode(fsys fs.FS, prec int) (*spectrum.DecodedFile, error) {
	file, err := d.decode(fsys, prec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", section.ProfileFile, err)
	}

	return file, nil
}

func (d *Decoder) decode(fsys fs.FS, prec int) (*spectrum.DecodedFile, error) {
	declared, partial, err := readTimeSegments(fsys)
	if err != nil {
		return nil, err
	}

	plan, err := d.plan(fsys)
	if err != nil {
		return nil, err
	}
	scans, err := readCompanion(fsys, section.ScanFile)
	if err != nil {
		return nil, err
	}
	cal, err := readCompanion(fsys, section.MassCalFile)
	if err != nil {
		return nil, err
	}
	profile, err := readCompanion(fsys, section.ProfileFile)
	if err != nil {
		return nil, err
	}

	cur := endian.NewCursor(scans)
	first, err := cur.Uint32At(section.ScanTablePointer, le)
	if err != nil {
		return nil, fmt.Errorf("scan table pointer: %w", errs.ErrUnsupportedVariant)
	}
	if err := cur.Seek(int(first)); err != nil {
		return nil, fmt.Errorf("scan table at 0x%X beyond %d bytes: %w", first, len(scans), errs.ErrUnsupportedVariant)
	}

	var (
		raw       = spectrum.RawSpectrumFile{DeclaredScans: declared}
		block     compress.BlockDecompressor
		truncated bool
	)
	for i := 0; partial || i < declared; i++ {
		rec, err := plan.Read(cur)
		if err != nil {
			truncated = !partial
			break
		}
		entry, err := scanEntryOf(rec)
		if err != nil {
			return nil, err
		}

		q, ok := massCalibration(cal, i)
		if !ok {
			truncated = true
			break
		}

		size := uint64(len(profile))
		if entry.offset > size || uint64(entry.byteCount) > size-entry.offset {
			truncated = true
			break
		}
		end := entry.offset + uint64(entry.byteCount)

		if block == nil {
			if block, err = d.blocks(format.CompressionLZF); err != nil {
				return nil, err
			}
		}
		payload, err := block.DecompressBlock(profile[entry.offset:end], entry.uncompressed)
		if err != nil {
			return nil, fmt.Errorf("scan %d: %w", i, err)
		}

		obs, err := profileObservations(payload, entry.points, q)
		if err != nil {
			return nil, fmt.Errorf("scan %d: %w", i, err)
		}
		raw.Scans = append(raw.Scans, spectrum.ScanRecord{Time: entry.time, Observations: obs})
	}

	file, err := spectrum.Build(section.ProfileFile, format.DetectorMS, raw, prec, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case partial:
		file.Annotate("partial acquisition: %s missing or empty, recovered %d scans", section.TimeSegmentsFile, len(raw.Scans))
	case truncated:
		file.Annotate("truncated input: %d of %d declared scans", len(raw.Scans), declared)
	}

	return file, nil
}

func (d *Decoder) plan(fsys fs.FS) (*schema.Plan, error) {
	xsd, err := readCompanion(fsys, section.ScanSchemaFile)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		return d.cache.Plan(xsd, section.ScanRecordRoot)
	}

	return schema.CompileXSD(xsd, section.ScanRecordRoot)
}

// scanEntryOf extracts the profile location of one scan record. Sizes are
// read as unsigned and bounded before anything is allocated from them.
func scanEntryOf(rec schema.Record) (scanEntry, error) {
	var (
		e   scanEntry
		err error
	)
	if e.time, err = rec.Float("ScanTime"); err != nil {
		return e, err
	}

	params, err := rec.Record("SpectrumParamValues")
	if err != nil {
		return e, err
	}
	points, err := params.Uint("PointCount")
	if err != nil {
		return e, err
	}
	if e.offset, err = params.Uint("SpectrumOffset"); err != nil {
		return e, err
	}
	byteCount, err := params.Uint("ByteCount")
	if err != nil {
		return e, err
	}
	uncompressed, err := params.Uint("UncompressedByteCount")
	if err != nil {
		return e, err
	}

	if uncompressed > compress.MaxBlockSize || byteCount > compress.MaxBlockSize {
		return e, fmt.Errorf("profile block of %d bytes (%d stored) exceeds %d: %w",
			uncompressed, byteCount, compress.MaxBlockSize, errs.ErrCorruptPayload)
	}
	if points > 0 && (uncompressed < section.ProfileHeaderSize ||
		points > (uncompressed-section.ProfileHeaderSize)/section.ProfilePointSize) {
		return e, fmt.Errorf("%d points do not fit a %d-byte profile block: %w", points, uncompressed, errs.ErrCorruptPayload)
	}
	e.points, e.byteCount, e.uncompressed = int(points), int(byteCount), int(uncompressed)

	return e, nil
}

// massCalibration returns the (Scale, Base) pair of scan i.
func massCalibration(data []byte, i int) (calib.Quadratic, bool) {
	cur := endian.NewCursor(data)
	if err := cur.Seek(section.MassCalStart + i*section.MassCalRecordSize); err != nil {
		return calib.Quadratic{}, false
	}
	scale, err := cur.Float64(le)
	if err != nil {
		return calib.Quadratic{}, false
	}
	base, err := cur.Float64(le)
	if err != nil {
		return calib.Quadratic{}, false
	}

	return calib.Quadratic{Scale: scale, Base: base}, true
}

// profileObservations decodes a decompressed profile block: the uncalibrated
// start and step of the mass axis, then one intensity per point.
func profileObservations(payload []byte, points int, q calib.Quadratic) ([]spectrum.Observation, error) {
	need := section.ProfileHeaderSize + points*section.ProfilePointSize
	if len(payload) < need {
		return nil, fmt.Errorf("profile block holds %d bytes, %d points need %d: %w",
			len(payload), points, need, errs.ErrCorruptPayload)
	}

	cur := endian.NewCursor(payload)
	start, _ := cur.Float64(le)
	step, _ := cur.Float64(le)

	masses := calib.FromQuadratic(q).ApplyAll(calib.LinearAxis(start, step, points))
	obs := make([]spectrum.Observation, points)
	for j := range obs {
		v, _ := cur.Uint32(le)
		obs[j] = spectrum.Observation{Label: masses[j], Value: float64(v)}
	}

	return obs, nil
}

func readCompanion(fsys fs.FS, name string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found: %w", name, errs.ErrMissingCompanion)
		}

		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

// timeSegments is the part of MSTS.xml that counts scans.
type timeSegments struct {
	Segments []struct {
		NumOfScans int `xml:"NumOfScans"`
	} `xml:"TimeSegment"`
}

// readTimeSegments sums the declared scans. A missing file or a zero total
// switches to partial mode.
func readTimeSegments(fsys fs.FS) (declared int, partial bool, err error) {
	data, err := readCompanion(fsys, section.TimeSegmentsFile)
	if errors.Is(err, errs.ErrMissingCompanion) {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}

	var ts timeSegments
	if err := xmltext.Unmarshal(data, &ts); err != nil {
		return 0, false, fmt.Errorf("parse %s: %v: %w", section.TimeSegmentsFile, err, errs.ErrUnsupportedVariant)
	}
	for _, seg := range ts.Segments {
		declared += seg.NumOfScans
	}

	return declared, declared == 0, nil
}
