package spectrum

import (
	"math"
	"slices"

	"github.com/arloliu/chromadec/format"
)

// NoRounding tells Build to keep labels exactly as decoded.
const NoRounding = -1

// Round rounds x half-to-even at prec decimal places. Round is idempotent.
func Round(x float64, prec int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	scale := math.Pow10(prec)
	scaled := x * scale
	if math.IsInf(scaled, 0) {
		return x
	}

	return math.RoundToEven(scaled) / scale
}

// Assemble builds the shared label axis and the dense matrix from sparse
// scans.
//
// The first pass collects the distinct labels and sorts them ascending. The
// second pass locates each observation's column by binary search and adds
// its value, so repeated labels within a scan are summed. Observations with a
// NaN label are dropped. Zero scans give an empty axis and a 0x0 matrix.
func Assemble(scans []ScanRecord) (LabelAxis, *Matrix) {
	seen := make(map[float64]struct{})
	for _, scan := range scans {
		for _, obs := range scan.Observations {
			if !math.IsNaN(obs.Label) {
				seen[obs.Label] = struct{}{}
			}
		}
	}

	labels := make([]float64, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	m := NewMatrix(len(scans), len(labels))
	for r, scan := range scans {
		row := m.Row(r)
		for _, obs := range scan.Observations {
			if c, ok := slices.BinarySearch(labels, obs.Label); ok {
				row[c] += obs.Value
			}
		}
	}

	return LabelAxis{Values: labels}, m
}

// Build calibrates, rounds, scales and assembles a raw spectrum file.
//
// Labels pass through raw.Calibration and are then rounded to prec decimals
// unless prec is NoRounding. Values are multiplied by raw.Scale when it is
// non-zero. The raw scans are not modified.
func Build(name string, detector format.Detector, raw RawSpectrumFile, prec int, metadata map[string]string) (*DecodedFile, error) {
	scale := raw.Scale
	if scale == 0 {
		scale = 1
	}

	scans := make([]ScanRecord, len(raw.Scans))
	times := make([]float64, len(raw.Scans))
	for i, scan := range raw.Scans {
		obs := make([]Observation, len(scan.Observations))
		for j, o := range scan.Observations {
			label := raw.Calibration.Apply(o.Label)
			if prec != NoRounding {
				label = Round(label, prec)
			}
			obs[j] = Observation{Label: label, Value: o.Value * scale}
		}
		scans[i] = ScanRecord{Time: scan.Time, Observations: obs}
		times[i] = scan.Time
	}

	labels, m := Assemble(scans)

	return NewDecodedFile(name, detector, times, labels, m, metadata)
}

// Channel builds a single-column file for non-spectral data.
func Channel(name string, detector format.Detector, times, values []float64, label string, metadata map[string]string) (*DecodedFile, error) {
	m := NewMatrix(len(values), 1)
	copy(m.Data(), values)

	return NewDecodedFile(name, detector, times, TextAxis(label), m, metadata)
}
