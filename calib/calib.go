// Package calib reconstructs label axes (masses, wavelengths) from the
// calibration constants stored alongside raw scan data.
package calib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/chromadec/errs"
)

// CalFunctionPrefix starts every per-function calibration line in a
// MassLynx _HEADER.TXT file.
const CalFunctionPrefix = "$$ Cal Function"

// Kind tells which calibration form a Coefficients value holds.
type Kind uint8

const (
	KindIdentity Kind = iota
	KindPolynomial
	KindQuadratic
)

// LinearAxis returns n evenly spaced points start, start+step, ...
func LinearAxis(start, step float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	axis := make([]float64, n)
	for i := range axis {
		axis[i] = start + float64(i)*step
	}

	return axis
}

// Quadratic maps an uncalibrated value x to ((x - Base) * Scale)^2.
// MassHunter stores one pair per scan.
type Quadratic struct {
	Scale float64
	Base  float64
}

// Apply calibrates a single value.
func (q Quadratic) Apply(x float64) float64 {
	v := (x - q.Base) * q.Scale
	return v * v
}

// Polynomial holds coefficients c0, c1, ... applied as sum(c_k * x^k).
type Polynomial []float64

// Apply calibrates a single value. The powers of x are accumulated from k = 0
// upwards, so rounding matches the order MassLynx documents.
func (p Polynomial) Apply(x float64) float64 {
	sum, power := 0.0, 1.0
	for _, c := range p {
		sum += c * power
		power *= x
	}

	return sum
}

// Coefficients wraps either calibration form. The zero value is the identity.
type Coefficients struct {
	kind Kind
	poly Polynomial
	quad Quadratic
}

// FromPolynomial wraps polynomial coefficients. An empty polynomial yields
// the identity.
func FromPolynomial(p Polynomial) Coefficients {
	if len(p) == 0 {
		return Coefficients{}
	}

	return Coefficients{kind: KindPolynomial, poly: p}
}

// FromQuadratic wraps a (Scale, Base) pair.
func FromQuadratic(q Quadratic) Coefficients {
	return Coefficients{kind: KindQuadratic, quad: q}
}

// Kind returns the calibration form.
func (c Coefficients) Kind() Kind {
	return c.kind
}

// IsIdentity reports whether Apply returns its input unchanged.
func (c Coefficients) IsIdentity() bool {
	return c.kind == KindIdentity
}

// Apply calibrates a single value.
func (c Coefficients) Apply(x float64) float64 {
	switch c.kind {
	case KindPolynomial:
		return c.poly.Apply(x)
	case KindQuadratic:
		return c.quad.Apply(x)
	default:
		return x
	}
}

// ApplyAll calibrates xs in place and returns it.
func (c Coefficients) ApplyAll(xs []float64) []float64 {
	if c.IsIdentity() {
		return xs
	}
	for i, x := range xs {
		xs[i] = c.Apply(x)
	}

	return xs
}

// ParseCalFunction parses one "$$ Cal Function N: c0,c1,...,T" line.
// The last comma-separated token is a type tag and is dropped.
//
// Returns:
//   - Polynomial: the coefficients in ascending power order
//   - error: ErrUnsupportedVariant if the line is not a calibration line or
//     a coefficient is not a number
func ParseCalFunction(line string) (Polynomial, error) {
	if !strings.HasPrefix(line, CalFunctionPrefix) {
		return nil, fmt.Errorf("not a calibration line %q: %w", line, errs.ErrUnsupportedVariant)
	}

	_, body, ok := strings.Cut(line, ": ")
	if !ok {
		return nil, fmt.Errorf("calibration line without values %q: %w", line, errs.ErrUnsupportedVariant)
	}

	fields := strings.Split(body, ",")
	fields = fields[:len(fields)-1]

	poly := make(Polynomial, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("calibration coefficient %q: %w", field, errs.ErrUnsupportedVariant)
		}
		poly = append(poly, v)
	}

	return poly, nil
}

// ParseHeader collects the calibration polynomials of a MassLynx
// _HEADER.TXT file in function order. Lines that are not calibration lines
// are ignored.
func ParseHeader(r io.Reader) ([]Polynomial, error) {
	var polys []Polynomial

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, CalFunctionPrefix) {
			continue
		}

		poly, err := ParseCalFunction(line)
		if err != nil {
			return nil, err
		}
		polys = append(polys, poly)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read calibration header: %w", err)
	}

	return polys, nil
}
