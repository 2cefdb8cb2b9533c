package masslynx

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

// analogInfo is one _CHROMS.INF record.
type analogInfo struct {
	name string
	unit string
}

// chromsNoise matches the control bytes, "$CC$" markers and "(n)" counters
// padding _CHROMS.INF records.
var chromsNoise = regexp.MustCompile(`[\x00-\x04]|\$CC\$|\([0-9]*\)`)

func (d *Directory) loadAnalogInfo() ([]analogInfo, error) {
	data, err := d.read(section.ChromsFile)
	if err != nil {
		return nil, err
	}

	return parseChromsInf(data)
}

// parseChromsInf reads the fixed-size records after the file header. The
// text is Windows-1252, as written by MassLynx.
func parseChromsInf(data []byte) ([]analogInfo, error) {
	dec := charmap.Windows1252.NewDecoder()

	var infos []analogInfo
	for off := section.ChromsInfStart; off < len(data); off += section.ChromsInfRecordSize {
		rec, err := dec.Bytes(data[off:min(off+section.ChromsInfRecordSize, len(data))])
		if err != nil {
			return nil, fmt.Errorf("decode %s record at 0x%X: %w", section.ChromsFile, off, err)
		}
		fields := strings.Split(strings.TrimSpace(chromsNoise.ReplaceAllString(string(rec), "")), ",")

		info := analogInfo{name: fields[0]}
		if len(fields) == section.ChromsInfUnitField+1 {
			info.unit = fields[section.ChromsInfUnitField]
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// analogDetector maps a channel name to the detector it records.
func analogDetector(name string) format.Detector {
	switch {
	case strings.Contains(name, "CAD"):
		return format.DetectorCAD
	case strings.Contains(name, "ELSD"):
		return format.DetectorELSD
	case strings.Contains(name, "nm@"):
		return format.DetectorUV
	default:
		return format.DetectorNone
	}
}

// decodeAnalog reads a _CHROnnn.DAT file: (time, value) float32 pairs
// after a fixed header. Channel n is described by record n of _CHROMS.INF.
func (d *Directory) decodeAnalog(name string) (*spectrum.DecodedFile, error) {
	n, err := number(name)
	if err != nil {
		return nil, err
	}

	infos, err := d.analog()
	if err != nil {
		return nil, err
	}
	if n > len(infos) {
		return nil, fmt.Errorf("%s lists %d channels: %w", section.ChromsFile, len(infos), errs.ErrMissingCompanion)
	}
	info := infos[n-1]

	data, err := d.read(name)
	if err != nil {
		return nil, err
	}

	count := max(len(data)-section.ChroDataStart, 0) / section.ChroPairSize
	times := make([]float64, count)
	values := make([]float64, count)
	for i := range count {
		pair := data[section.ChroDataStart+i*section.ChroPairSize:]
		times[i] = float64(math.Float32frombits(le.Uint32(pair[0:4])))
		values[i] = float64(math.Float32frombits(le.Uint32(pair[4:8])))
	}

	metadata := map[string]string{"signal": info.name}
	if info.unit != "" {
		metadata["unit"] = info.unit
	}

	file, err := spectrum.Channel(name, analogDetector(info.name), times, values, "", metadata)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		file.Annotate("no samples after the 0x%X byte header", section.ChroDataStart)
	}

	return file, nil
}
