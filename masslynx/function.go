package masslynx

import (
	"fmt"
	"math"

	"github.com/arloliu/chromadec/calib"
	"github.com/arloliu/chromadec/encoding"
	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

var le = endian.GetLittleEndianEngine()

// indexEntry is one _FUNCnnn.IDX record.
type indexEntry struct {
	offset int
	pairs  int
	time   float64
}

// readIndex parses every complete IDX record; a trailing partial record is
// ignored.
func readIndex(data []byte) []indexEntry {
	entries := make([]indexEntry, len(data)/section.FuncIndexRecordSize)
	for i := range entries {
		rec := data[i*section.FuncIndexRecordSize:]
		entries[i] = indexEntry{
			offset: int(le.Uint32(rec[0:4])),
			pairs:  int(le.Uint32(rec[4:8]) & section.FuncIndexPairsMask),
			time:   float64(math.Float32frombits(le.Uint32(rec[section.FuncIndexTimeOffset:]))),
		}
	}

	return entries
}

// bytesPerPair infers the DAT pair width from the last scan that holds
// data: it runs from its offset to the end of the file. Zero means no scan
// holds any pair.
func bytesPerPair(entries []indexEntry, datSize int) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if e := entries[i]; e.pairs != 0 {
			return (datSize - e.offset) / e.pairs
		}
	}

	return 0
}

// pairDecoder turns the pair at index j of a scan into an observation.
type pairDecoder func(unit []byte, j int) (spectrum.Observation, error)

func (d *Directory) decodeFunction(name string, prec int) (*spectrum.DecodedFile, error) {
	n, err := number(name)
	if err != nil {
		return nil, err
	}

	idx, err := d.read(name[:len(name)-len("DAT")] + "IDX")
	if err != nil {
		return nil, err
	}
	dat, err := d.read(name)
	if err != nil {
		return nil, err
	}

	info, err := d.functions()
	if err != nil {
		return nil, err
	}
	polarity, cal := info.function(n)

	entries := readIndex(idx)
	width := bytesPerPair(entries, len(dat))

	var decode pairDecoder
	switch width {
	case 0:
		// no pairs anywhere; only the times are known
	case 2, 4:
		labels, err := d.functionLabels(n)
		if err != nil {
			return nil, err
		}
		decode = fixedLabelDecoder(width, labels)
		// the labels are stored exactly and never calibrated
		prec, cal = spectrum.NoRounding, calib.Coefficients{}
	case encoding.Packed6Size:
		decode = packedDecoder(encoding.DecodePacked6)
	case encoding.Packed8Size:
		decode = packedDecoder(encoding.DecodePacked8)
	default:
		return nil, fmt.Errorf("%d-byte pair format: %w", width, errs.ErrUnsupportedVariant)
	}

	raw := spectrum.RawSpectrumFile{Calibration: cal, DeclaredScans: len(entries)}
	for _, e := range entries {
		end := e.offset + e.pairs*width
		if end > len(dat) {
			break
		}

		obs := make([]spectrum.Observation, e.pairs)
		for j := range obs {
			o, err := decode(dat[e.offset+j*width:], j)
			if err != nil {
				return nil, err
			}
			obs[j] = o
		}
		raw.Scans = append(raw.Scans, spectrum.ScanRecord{Time: e.time, Observations: obs})
	}

	detector := format.DetectorUV
	metadata := map[string]string{}
	if polarity != "" {
		detector = format.DetectorMS
		metadata["polarity"] = polarity
	}

	file, err := spectrum.Build(name, detector, raw, prec, metadata)
	if err != nil {
		return nil, err
	}
	if len(raw.Scans) < len(entries) {
		file.Annotate("truncated input: %d of %d indexed scans", len(raw.Scans), len(entries))
	}

	return file, nil
}

func packedDecoder(fn func([]byte) (float64, float64)) pairDecoder {
	return func(unit []byte, _ int) (spectrum.Observation, error) {
		key, value := fn(unit)
		return spectrum.Observation{Label: key, Value: value}, nil
	}
}

// fixedLabelDecoder pairs the j-th value of a scan with the j-th label
// from _FUNCTNS.INF.
func fixedLabelDecoder(width int, labels []float64) pairDecoder {
	return func(unit []byte, j int) (spectrum.Observation, error) {
		if j >= len(labels) {
			return spectrum.Observation{}, fmt.Errorf("scan has more pairs than the %d function labels: %w",
				len(labels), errs.ErrUnsupportedVariant)
		}

		var value float64
		if width == 2 {
			value = encoding.DecodeIntensity2(le.Uint16(unit))
		} else {
			value = encoding.DecodeIntensity4(le.Uint32(unit))
		}

		return spectrum.Observation{Label: labels[j], Value: value}, nil
	}
}

// functionLabels reads the non-zero masses of function n from
// _FUNCTNS.INF.
func (d *Directory) functionLabels(n int) ([]float64, error) {
	data, err := d.read(section.FunctionsFile)
	if err != nil {
		return nil, err
	}

	start := (n - 1) * section.FuncInfRecordSize
	if start+section.FuncInfRecordSize > len(data) {
		return nil, fmt.Errorf("%s has no record for function %d: %w", section.FunctionsFile, n, errs.ErrUnsupportedVariant)
	}

	cur := endian.NewCursor(data[start : start+section.FuncInfRecordSize])
	if err := cur.Seek(section.FuncInfMassOffset); err != nil {
		return nil, err
	}

	labels := make([]float64, 0, section.FuncInfMassCount)
	for range section.FuncInfMassCount {
		mass, err := cur.Float32(le)
		if err != nil {
			return nil, err
		}
		if mass != 0 {
			labels = append(labels, float64(mass))
		}
	}

	return labels, nil
}
