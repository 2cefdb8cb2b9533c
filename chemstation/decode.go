// Package chemstation decodes Agilent ChemStation single-file formats:
// .ch channels (FID, version 130 and 30), .uv spectra (version 131 and 31)
// and .ms spectra, including partial .uv and .ms files written by
// interrupted runs.
//
// Every reader follows the same shape: header fields at fixed offsets
// (see package section), then scan records until the declared count is
// reached. When the data ends early the scans read so far are returned with
// an annotation; truncation alone is never an error.
package chemstation

import (
	"fmt"
	"io"
	"path"

	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/registry"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

var (
	be = endian.GetBigEndianEngine()
	le = endian.GetLittleEndianEngine()
)

// msPerMinute converts stored millisecond times to minutes.
const msPerMinute = 60000.0

// Decode detects the sub-format of data and decodes it. The extension of
// name narrows detection to its family; prec is the number of decimals
// masses are rounded to.
func Decode(name string, data []byte, prec int) (*spectrum.DecodedFile, error) {
	det, err := registry.Detect(data, registry.FamilyOf(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	file, err := DecodeAs(det.SubFormat, name, data, prec)
	if err != nil {
		return nil, err
	}
	file.Annotations = append([]string{det.Note}, file.Annotations...)

	return file, nil
}

// DecodeAs decodes data as the given sub-format without detection.
func DecodeAs(sub format.SubFormat, name string, data []byte, prec int) (*spectrum.DecodedFile, error) {
	base := path.Base(name)

	var (
		file *spectrum.DecodedFile
		err  error
	)
	switch sub {
	case format.SubFormatCHFID:
		file, err = decodeFID(base, data)
	case format.SubFormatCH130:
		file, err = decodeChannel(base, data, section.Channel130)
	case format.SubFormatCH30:
		file, err = decodeChannel(base, data, section.Channel30)
	case format.SubFormatUV131:
		file, err = decodeUV(base, data, section.Spectrum131, false)
	case format.SubFormatUV31:
		file, err = decodeUV(base, data, section.Spectrum31, false)
	case format.SubFormatUVPartial:
		file, err = decodeUV(base, data, section.Spectrum131, true)
	case format.SubFormatMS:
		file, err = decodeMS(base, data, prec)
	case format.SubFormatMSPartial:
		file, err = decodeMSPartial(base, data, prec)
	default:
		return nil, fmt.Errorf("%s: %s is not a ChemStation format: %w", name, sub, errs.ErrUnsupportedVariant)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return file, nil
}

// linearTimes returns the first n of span samples spread evenly over
// [start, end] milliseconds, in minutes. A single sample sits at start.
func linearTimes(start, end float64, span, n int) []float64 {
	times := make([]float64, n)
	if span <= 1 {
		if n > 0 {
			times[0] = start / msPerMinute
		}

		return times
	}

	step := (end - start) / float64(span-1)
	for i := range times {
		times[i] = (start + float64(i)*step) / msPerMinute
	}

	return times
}

// readScale reads the big-endian float64 scale factor. A missing scale
// means the header itself is cut, which leaves nothing to decode.
func readScale(cur *endian.Cursor, offset int) (float64, error) {
	if err := cur.Seek(offset); err != nil {
		return 0, fmt.Errorf("scale factor at 0x%X: %w: %w", offset, errs.ErrUnsupportedVariant, io.ErrUnexpectedEOF)
	}
	scale, err := cur.Float64(be)
	if err != nil {
		return 0, fmt.Errorf("scale factor at 0x%X: %w: %w", offset, errs.ErrUnsupportedVariant, io.ErrUnexpectedEOF)
	}

	return scale, nil
}
