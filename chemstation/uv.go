package chemstation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/chromadec/encoding"
	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

type uvPayload uint8

const (
	uvDelta uvPayload = iota // little-endian delta run per scan
	uvArray                  // little-endian float64 per wavelength
)

// decodeUV reads a .uv file. In partial mode the declared count is ignored
// and scans are read until the first short read.
func decodeUV(name string, data []byte, layout section.SpectrumLayout, partial bool) (*spectrum.DecodedFile, error) {
	cur := endian.NewCursor(data)

	declared := 0
	if !partial {
		if err := cur.Seek(section.ScanCountOffset); err != nil {
			return nil, fmt.Errorf("scan count: %w", errs.ErrUnsupportedVariant)
		}
		count, err := cur.Uint32(be)
		if err != nil {
			return nil, fmt.Errorf("scan count: %w", errs.ErrUnsupportedVariant)
		}
		declared = int(count)
	}

	payload, err := uvPayloadType(data, layout, partial)
	if err != nil {
		return nil, err
	}
	wavelengths, err := readWavelengths(cur, layout.DataOffset)
	if err != nil {
		if partial && errors.Is(err, io.ErrUnexpectedEOF) {
			return emptyPartialUV(name, data, layout)
		}

		return nil, err
	}
	scale, err := readScale(cur, layout.ScaleOffset)
	if err != nil {
		if partial && errors.Is(err, io.ErrUnexpectedEOF) {
			return emptyPartialUV(name, data, layout)
		}

		return nil, err
	}

	n := len(wavelengths)
	delta := encoding.NewDeltaRunDecoder(le)
	var (
		times  []float64
		values []float64
	)
	if err := cur.Seek(layout.DataOffset); err != nil {
		return nil, fmt.Errorf("data start 0x%X: %w", layout.DataOffset, errs.ErrUnsupportedVariant)
	}
	truncated := false
	for i := 0; partial || i < declared; i++ {
		t, row, err := readUVScan(cur, delta, payload, n)
		if err != nil {
			truncated = !partial
			break
		}
		times = append(times, t/msPerMinute)
		for _, v := range row {
			values = append(values, v*scale)
		}
	}

	m := spectrum.NewMatrix(len(times), n)
	copy(m.Data(), values)
	metadata := section.ReadHeader(data, layout.Metadata, layout.Gap)

	file, err := spectrum.NewDecodedFile(name, format.DetectorUV, times, spectrum.LabelAxis{Values: wavelengths}, m, metadata)
	if err != nil {
		return nil, err
	}
	switch {
	case partial:
		file.Annotate("partial file: recovered %d scans", len(times))
	case truncated:
		file.Annotate("truncated input: %d of %d declared scans", len(times), declared)
	}

	return file, nil
}

// emptyPartialUV is the result of a partial file cut before its first
// wavelength range: no scans and an empty wavelength axis.
func emptyPartialUV(name string, data []byte, layout section.SpectrumLayout) (*spectrum.DecodedFile, error) {
	metadata := section.ReadHeader(data, layout.Metadata, layout.Gap)
	file, err := spectrum.NewDecodedFile(name, format.DetectorUV, nil, spectrum.LabelAxis{}, spectrum.NewMatrix(0, 0), metadata)
	if err != nil {
		return nil, err
	}
	file.Annotate("partial file: header cut at %d bytes, recovered 0 scans", len(data))

	return file, nil
}

func uvPayloadType(data []byte, layout section.SpectrumLayout, partial bool) (uvPayload, error) {
	if partial || layout.TypeOffset == 0 {
		return uvDelta, nil
	}

	kind, _ := section.ReadString(data, layout.TypeOffset, layout.Gap)
	switch {
	case strings.HasPrefix(kind, "LC"):
		return uvDelta, nil
	case strings.HasPrefix(kind, "OL"):
		return uvArray, nil
	default:
		return 0, fmt.Errorf("uv payload type %q: %w", kind, errs.ErrUnsupportedVariant)
	}
}

// readWavelengths decodes the start, end and step stored at data+8 of the
// first scan, each as nm*20, into an inclusive axis.
func readWavelengths(cur *endian.Cursor, dataOffset int) ([]float64, error) {
	if err := cur.Seek(dataOffset + section.UVWavelengthShift); err != nil {
		return nil, fmt.Errorf("wavelength range: %w: %w", errs.ErrUnsupportedVariant, io.ErrUnexpectedEOF)
	}

	var bounds [3]int
	for i := range bounds {
		v, err := cur.Uint16(le)
		if err != nil {
			return nil, fmt.Errorf("wavelength range: %w: %w", errs.ErrUnsupportedVariant, io.ErrUnexpectedEOF)
		}
		bounds[i] = int(v) / section.UVWavelengthScale
	}

	start, end, step := bounds[0], bounds[1], bounds[2]
	if step == 0 {
		return nil, fmt.Errorf("wavelength step is zero: %w", errs.ErrUnsupportedVariant)
	}

	var axis []float64
	for w := start; w <= end; w += step {
		axis = append(axis, float64(w))
	}

	return axis, nil
}

// readUVScan reads one scan record. On a short read the cursor is restored
// to the start of the record.
func readUVScan(cur *endian.Cursor, delta encoding.DeltaRunDecoder, payload uvPayload, n int) (float64, []float64, error) {
	start := cur.Pos()
	fail := func() (float64, []float64, error) {
		_ = cur.Seek(start)
		return 0, nil, io.ErrUnexpectedEOF
	}

	if err := cur.Skip(section.UVScanLeadSkip); err != nil {
		return fail()
	}
	t, err := cur.Uint32(le)
	if err != nil {
		return fail()
	}
	if err := cur.Skip(section.UVScanHeaderSkip); err != nil {
		return fail()
	}

	row := make([]float64, n)
	switch payload {
	case uvArray:
		for j := range row {
			v, err := cur.Float64(le)
			if err != nil {
				return fail()
			}
			row[j] = v
		}
	default:
		raw, err := delta.ReadRun(cur, n)
		if err != nil {
			return fail()
		}
		for j, v := range raw {
			row[j] = float64(v)
		}
	}

	return float64(t), row, nil
}
