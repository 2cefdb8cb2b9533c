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

// decodeFID reads a .ch FID file: a declared sample count, a float32 time
// range and little-endian float64 samples.
func decodeFID(name string, data []byte) (*spectrum.DecodedFile, error) {
	layout := section.ChannelFID
	cur := endian.NewCursor(data)

	if err := cur.Seek(section.ScanCountOffset); err != nil {
		return nil, fmt.Errorf("sample count: %w", errs.ErrUnsupportedVariant)
	}
	count, err := cur.Uint32(be)
	if err != nil {
		return nil, fmt.Errorf("sample count: %w", errs.ErrUnsupportedVariant)
	}
	start, err := cur.Float32(be)
	if err != nil {
		return nil, fmt.Errorf("time range: %w", errs.ErrUnsupportedVariant)
	}
	end, err := cur.Float32(be)
	if err != nil {
		return nil, fmt.Errorf("time range: %w", errs.ErrUnsupportedVariant)
	}
	scale, err := readScale(cur, layout.ScaleOffset)
	if err != nil {
		return nil, err
	}

	declared := int(count)
	values := make([]float64, 0, min(declared, max(len(data)-layout.DataOffset, 0)/8))
	truncated := cur.Seek(layout.DataOffset) != nil
	for i := 0; i < declared && !truncated; i++ {
		v, err := cur.Float64(le)
		if err != nil {
			truncated = true
			break
		}
		values = append(values, v*scale)
	}

	times := linearTimes(float64(start), float64(end), declared, len(values))
	metadata := section.ReadHeader(data, layout.Metadata, layout.Gap)

	file, err := spectrum.Channel(name, format.DetectorFID, times, values, "", metadata)
	if err != nil {
		return nil, err
	}
	if truncated {
		file.Annotate("truncated input: %d of %d declared samples", len(values), declared)
	}

	return file, nil
}

// decodeChannel reads a version 130 or 30 .ch file. The sample count is not
// stored; it is the length of the segmented delta run.
func decodeChannel(name string, data []byte, layout section.ChannelLayout) (*spectrum.DecodedFile, error) {
	cur := endian.NewCursor(data)

	if err := cur.Seek(section.TimeRangeOffset); err != nil {
		return nil, fmt.Errorf("time range: %w", errs.ErrUnsupportedVariant)
	}
	start, err := cur.Int32(be)
	if err != nil {
		return nil, fmt.Errorf("time range: %w", errs.ErrUnsupportedVariant)
	}
	end, err := cur.Int32(be)
	if err != nil {
		return nil, fmt.Errorf("time range: %w", errs.ErrUnsupportedVariant)
	}
	scale, err := readScale(cur, layout.ScaleOffset)
	if err != nil {
		return nil, err
	}

	var raw []int64
	truncated := cur.Seek(layout.DataOffset) != nil
	if !truncated {
		raw, err = encoding.NewDeltaRunDecoder(be).ReadSegments(cur)
		if err != nil {
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, err
			}
			truncated = true
		}
	}

	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = float64(v) * scale
	}

	metadata := section.ReadHeader(data, layout.Metadata, layout.Gap)
	detector, label := channelDetector(metadata["signal"])

	file, err := spectrum.Channel(name, detector, linearTimes(float64(start), float64(end), len(values), len(values)), values, label, metadata)
	if err != nil {
		return nil, err
	}
	if truncated {
		file.Annotate("truncated input: delta run ended after %d samples", len(values))
	}

	return file, nil
}

// channelDetector derives the detector and column label from the signal
// description, e.g. "DAD1 A, Sig=254,4 Ref=360,100" or "ADC1 CHANNEL A".
func channelDetector(signal string) (format.Detector, string) {
	if _, after, ok := strings.Cut(signal, "="); ok {
		label, _, _ := strings.Cut(after, ",")
		// the label ends at the next '=' too, as in "Sig=254,4 Ref=360"
		label, _, _ = strings.Cut(label, "=")

		return format.DetectorUV, label
	}
	if strings.Contains(signal, "ADC") {
		if strings.Contains(signal, "CHANNEL") {
			return format.DetectorELSD, ""
		}

		return format.DetectorCAD, ""
	}

	return format.DetectorNone, ""
}
