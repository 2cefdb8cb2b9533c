package masslynx

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/arloliu/chromadec/calib"
	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/internal/collision"
	"github.com/arloliu/chromadec/registry"
	"github.com/arloliu/chromadec/section"
	"github.com/arloliu/chromadec/spectrum"
)

var memberNumber = regexp.MustCompile(`\d{3}`)

// Directory is an opened .raw directory. Companion files are parsed on
// first use and shared by every decode; a Directory is safe for concurrent
// use.
type Directory struct {
	fsys  fs.FS
	names *collision.Tracker

	functions func() (functionInfo, error)
	analog    func() ([]analogInfo, error)
}

// functionInfo is what _extern.inf and _HEADER.TXT say about the MS
// functions, indexed by function number - 1.
type functionInfo struct {
	polarities   []string
	calibrations []calib.Polynomial
}

// Open lists the directory. Member names are matched case-insensitively.
func Open(fsys fs.FS) (*Directory, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list .raw directory: %w", err)
	}

	d := &Directory{fsys: fsys, names: collision.NewTracker(len(entries))}
	for _, e := range entries {
		if !e.IsDir() {
			d.names.Track(e.Name())
		}
	}
	d.functions = sync.OnceValues(d.loadFunctionInfo)
	d.analog = sync.OnceValues(d.loadAnalogInfo)

	return d, nil
}

// Members returns the decodable members: every _FUNCnnn.DAT followed by
// every _CHROnnn.DAT, each in numeric order.
func (d *Directory) Members() []string {
	var funcs, chros []string
	for _, name := range d.names.Names() {
		switch sub, _ := registry.DetectName(name); sub {
		case format.SubFormatFuncDAT:
			funcs = append(funcs, name)
		case format.SubFormatChroDAT:
			chros = append(chros, name)
		}
	}
	slices.SortFunc(funcs, compareMembers)
	slices.SortFunc(chros, compareMembers)

	return append(funcs, chros...)
}

func compareMembers(a, b string) int {
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

// Decode decodes one member by name. prec is the number of decimals the
// labels of the 6- and 8-byte formats are rounded to.
func (d *Directory) Decode(name string, prec int) (*spectrum.DecodedFile, error) {
	sub, ok := registry.DetectName(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errs.ErrUnrecognizedFormat)
	}

	var (
		file *spectrum.DecodedFile
		err  error
	)
	switch sub {
	case format.SubFormatFuncDAT:
		file, err = d.decodeFunction(name, prec)
	case format.SubFormatChroDAT:
		file, err = d.decodeAnalog(name)
	default:
		return nil, fmt.Errorf("%s: %s is not a MassLynx format: %w", name, sub, errs.ErrUnsupportedVariant)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return file, nil
}

// DecodeFile opens fsys and decodes one member.
func DecodeFile(fsys fs.FS, name string, prec int) (*spectrum.DecodedFile, error) {
	d, err := Open(fsys)
	if err != nil {
		return nil, err
	}

	return d.Decode(name, prec)
}

// number returns the three-digit member number, starting at 1.
func number(name string) (int, error) {
	digits := memberNumber.FindString(name)
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("member number of %q: %w", name, errs.ErrUnrecognizedFormat)
	}

	return n, nil
}

// lookup resolves a member name case-insensitively. Names matching more
// than one entry fail with errs.ErrAmbiguousMember.
func (d *Directory) lookup(name string) (string, bool, error) {
	return d.names.Resolve(name)
}

// read returns the contents of a member. A missing member wraps
// errs.ErrMissingCompanion.
func (d *Directory) read(name string) ([]byte, error) {
	actual, ok, err := d.lookup(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s not found: %w", name, errs.ErrMissingCompanion)
	}

	data, err := fs.ReadFile(d.fsys, actual)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found: %w", name, errs.ErrMissingCompanion)
		}

		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

func (d *Directory) has(name string) bool {
	_, ok, _ := d.lookup(name)
	return ok
}

// loadFunctionInfo reads polarities and calibrations. Both exist only when
// the run acquired MS data, which is signalled by _extern.inf.
func (d *Directory) loadFunctionInfo() (functionInfo, error) {
	var info functionInfo
	if !d.has(section.ExternFile) {
		return info, nil
	}

	extern, err := d.read(section.ExternFile)
	if err != nil {
		return info, err
	}
	info.polarities, err = parsePolarities(extern)
	if err != nil {
		return info, err
	}

	if d.has(section.HeaderFile) {
		header, err := d.read(section.HeaderFile)
		if err != nil {
			return info, err
		}
		info.calibrations, err = calib.ParseHeader(strings.NewReader(string(header)))
		if err != nil {
			return info, err
		}
	}

	return info, nil
}

// function returns the polarity and calibration of function n. Functions
// without a polarity carry UV data and are never calibrated.
func (info functionInfo) function(n int) (string, calib.Coefficients) {
	if n > len(info.polarities) {
		return "", calib.Coefficients{}
	}
	polarity := info.polarities[n-1]
	if n > len(info.calibrations) {
		return polarity, calib.Coefficients{}
	}

	return polarity, calib.FromPolynomial(info.calibrations[n-1])
}
