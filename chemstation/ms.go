package chemstation

import (
	"fmt"
	"io"

	"github.com/arloliu/chromadec/encoding"
	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

// decodeMS reads a .ms file with a complete header. LC files store the
// scan count big-endian at 0x116, GC files little-endian at 0x142.
func decodeMS(name string, data []byte, prec int) (*spectrum.DecodedFile, error) {
	cur := endian.NewCursor(data)

	kind, _ := section.ReadString(data, section.MSTypeOffset, section.MSGap)

	var (
		count uint32
		err   error
	)
	if kind == section.MSLCType {
		count, err = cur.Uint32At(section.MSLCCountOffset, be)
	} else {
		count, err = cur.Uint32At(section.MSGCCountOffset, le)
	}
	if err != nil {
		return nil, fmt.Errorf("scan count: %w", errs.ErrUnsupportedVariant)
	}

	pointer, err := cur.Uint16At(section.MSDataStartOffset, be)
	if err != nil || pointer == 0 {
		return nil, fmt.Errorf("data start pointer: %w", errs.ErrUnsupportedVariant)
	}

	declared := int(count)
	raw := spectrum.RawSpectrumFile{DeclaredScans: declared}
	truncated := cur.Seek(int(pointer)*2-2) != nil
	for i := 0; i < declared && !truncated; i++ {
		scan, err := readMSScan(cur)
		if err != nil {
			truncated = true
			break
		}
		raw.Scans = append(raw.Scans, scan)
	}

	file, err := spectrum.Build(name, format.DetectorMS, raw, prec, section.ReadHeader(data, section.MSMetadata, section.MSGap))
	if err != nil {
		return nil, err
	}
	if kind != section.MSLCType {
		file.Metadata["type"] = "GC"
	}
	if truncated {
		file.Annotate("truncated input: %d of %d declared scans", len(raw.Scans), declared)
	}

	return file, nil
}

// decodeMSPartial reads a headerless LC .ms file from the fixed record
// start until the first short read. GC partials are not supported: a
// readable type string other than the LC one rejects the file.
func decodeMSPartial(name string, data []byte, prec int) (*spectrum.DecodedFile, error) {
	if kind, ok := section.ReadString(data, section.MSTypeOffset, section.MSGap); ok && kind != section.MSLCType {
		return nil, fmt.Errorf("partial .ms of type %q: %w", kind, errs.ErrUnsupportedVariant)
	}

	cur := endian.NewCursor(data)
	if err := cur.Seek(section.MSPartialDataStart); err != nil {
		return nil, fmt.Errorf("partial record start: %w", errs.ErrUnsupportedVariant)
	}

	var raw spectrum.RawSpectrumFile
	for {
		scan, err := readMSScan(cur)
		if err != nil {
			break
		}
		raw.Scans = append(raw.Scans, scan)
	}

	file, err := spectrum.Build(name, format.DetectorMS, raw, prec, section.ReadHeader(data, section.MSMetadata, section.MSGap))
	if err != nil {
		return nil, err
	}
	file.Annotate("partial file: recovered %d scans, record start assumed at 0x%X", len(raw.Scans), section.MSPartialDataStart)

	return file, nil
}

// readMSScan reads one scan record. A record whose pairs are cut short is
// dropped and the cursor restored; the trailing padding may be missing on
// the last record.
func readMSScan(cur *endian.Cursor) (spectrum.ScanRecord, error) {
	start := cur.Pos()
	fail := func() (spectrum.ScanRecord, error) {
		_ = cur.Seek(start)
		return spectrum.ScanRecord{}, io.ErrUnexpectedEOF
	}

	if err := cur.Skip(section.MSScanLeadSkip); err != nil {
		return fail()
	}
	t, err := cur.Uint32(be)
	if err != nil {
		return fail()
	}
	if err := cur.Skip(section.MSScanTimeSkip); err != nil {
		return fail()
	}
	count, err := cur.Uint16(be)
	if err != nil {
		return fail()
	}
	if err := cur.Skip(section.MSScanCountSkip); err != nil {
		return fail()
	}
	pairs, err := cur.Bytes(int(count) * encoding.MSPairSize)
	if err != nil {
		return fail()
	}
	_ = cur.Skip(min(section.MSScanTrailSkip, cur.Remaining()))

	obs := make([]spectrum.Observation, count)
	for i := range obs {
		mass, intensity := encoding.DecodeMSPair(pairs[i*encoding.MSPairSize:])
		obs[i] = spectrum.Observation{Label: mass, Value: intensity}
	}

	return spectrum.ScanRecord{Time: float64(t) / msPerMinute, Observations: obs}, nil
}
