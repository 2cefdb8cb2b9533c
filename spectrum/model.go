package spectrum

import (
	"fmt"

	"github.com/arloliu/chromadec/calib"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
)

// Observation is one (label, value) pair of a scan.
type Observation struct {
	Label float64
	Value float64
}

// ScanRecord is one scan: a retention time in minutes and its observations
// in on-disk order.
type ScanRecord struct {
	Time         float64
	Observations []Observation
}

// RawSpectrumFile is the reader output before assembly.
//
// Scans keep on-disk order and are never re-sorted. Scale multiplies every
// value; zero means no scaling. Calibration is applied to labels before
// rounding. DeclaredScans is the count from the file header, zero when the
// header carries none.
type RawSpectrumFile struct {
	Scans         []ScanRecord
	Scale         float64
	Calibration   calib.Coefficients
	DeclaredScans int
}

// LabelAxis is either a numeric, strictly increasing axis or a text axis
// for single-channel data. Exactly one of the two is populated.
type LabelAxis struct {
	Values []float64
	Text   []string
}

// TextAxis returns a single-column text axis.
func TextAxis(label string) LabelAxis {
	return LabelAxis{Text: []string{label}}
}

// Len returns the number of columns the axis describes.
func (a LabelAxis) Len() int {
	if len(a.Values) > 0 {
		return len(a.Values)
	}

	return len(a.Text)
}

// IsText reports whether the axis labels a single-channel trace.
func (a LabelAxis) IsText() bool {
	return len(a.Text) > 0
}

// String renders the label of column i.
func (a LabelAxis) String(i int) string {
	if a.IsText() {
		return a.Text[i]
	}

	return fmt.Sprintf("%g", a.Values[i])
}

// DecodedFile is the normalized result of decoding one instrument file.
type DecodedFile struct {
	Name     string
	Detector format.Detector
	Times    []float64
	Labels   LabelAxis
	Matrix   *Matrix
	Metadata map[string]string
	// Annotations records diagnostics such as partial recovery or the
	// registry decision. They never signal failure.
	Annotations []string
}

// NewDecodedFile builds a DecodedFile from already assembled parts and
// validates it.
func NewDecodedFile(name string, detector format.Detector, times []float64, labels LabelAxis, m *Matrix, metadata map[string]string) (*DecodedFile, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}

	file := &DecodedFile{
		Name:     name,
		Detector: detector,
		Times:    times,
		Labels:   labels,
		Matrix:   m,
		Metadata: metadata,
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	return file, nil
}

// Annotate appends a formatted diagnostic.
func (f *DecodedFile) Annotate(msg string, args ...any) {
	f.Annotations = append(f.Annotations, fmt.Sprintf(msg, args...))
}

// Validate checks the shape invariants of the file.
func (f *DecodedFile) Validate() error {
	if f.Matrix == nil {
		return fmt.Errorf("%s: missing matrix: %w", f.Name, errs.ErrUnsupportedVariant)
	}
	if len(f.Labels.Values) > 0 && len(f.Labels.Text) > 0 {
		return fmt.Errorf("%s: label axis is both numeric and text: %w", f.Name, errs.ErrUnsupportedVariant)
	}
	if f.Matrix.Rows() != len(f.Times) {
		return fmt.Errorf("%s: %d rows for %d times: %w", f.Name, f.Matrix.Rows(), len(f.Times), errs.ErrUnsupportedVariant)
	}
	if f.Matrix.Cols() != f.Labels.Len() {
		return fmt.Errorf("%s: %d columns for %d labels: %w", f.Name, f.Matrix.Cols(), f.Labels.Len(), errs.ErrUnsupportedVariant)
	}
	for i := 1; i < len(f.Labels.Values); i++ {
		if !(f.Labels.Values[i] > f.Labels.Values[i-1]) {
			return fmt.Errorf("%s: label axis not strictly increasing at column %d: %w", f.Name, i, errs.ErrUnsupportedVariant)
		}
	}

	return nil
}
