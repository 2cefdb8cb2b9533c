package schema

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/arloliu/chromadec/errs"
)

// Value is one decoded field: an integer, a float or a nested record.
type Value struct {
	kind Kind
	bits uint64
	rec  Record
}

// Kind returns the field's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the value of an integer field. It reports false for floats,
// composites and unsigned values above math.MaxInt64.
func (v Value) Int() (int64, bool) {
	switch {
	case v.kind == KindUint64:
		if v.bits > math.MaxInt64 {
			return 0, false
		}

		return int64(v.bits), true
	case v.kind.IsInteger():
		return int64(v.bits), true
	default:
		return 0, false
	}
}

// Uint returns the on-disk bits of an integer field read as unsigned at the
// field's width, so an xs:int holding 0x80000000 yields 2147483648. It
// reports false for floats and composites.
func (v Value) Uint() (uint64, bool) {
	if !v.kind.IsInteger() {
		return 0, false
	}
	if w := v.kind.Size(); w < 8 {
		return v.bits & (1<<(8*w) - 1), true
	}

	return v.bits, true
}

// Float returns the value of any numeric field as float64.
func (v Value) Float() (float64, bool) {
	switch {
	case v.kind.IsFloat():
		return math.Float64frombits(v.bits), true
	case v.kind >= KindUint8 && v.kind <= KindUint64:
		return float64(v.bits), true
	case v.kind.IsInteger():
		return float64(int64(v.bits)), true
	default:
		return 0, false
	}
}

// Record returns the nested record of a composite field.
func (v Value) Record() (Record, bool) {
	return v.rec, v.kind == KindComposite
}

// Record is an ordered set of named values read through a Plan.
type Record struct {
	layout *layout
	values []Value
}

// Type returns the composite type name the record was read as.
func (r Record) Type() string {
	if r.layout == nil {
		return ""
	}

	return r.layout.typeName
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.values)
}

// Names returns the field names in schema order.
func (r Record) Names() []string {
	if r.layout == nil {
		return nil
	}

	return append([]string(nil), r.layout.names...)
}

// All yields the fields in schema order.
func (r Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, v := range r.values {
			if !yield(r.layout.names[i], v) {
				return
			}
		}
	}
}

// Get returns the field with the given name.
func (r Record) Get(name string) (Value, bool) {
	if r.layout == nil {
		return Value{}, false
	}
	i, ok := r.layout.index[name]
	if !ok {
		return Value{}, false
	}

	return r.values[i], true
}

// Lookup follows path through nested records.
func (r Record) Lookup(path ...string) (Value, error) {
	if len(path) == 0 {
		return Value{kind: KindComposite, rec: r}, nil
	}

	cur := r
	for i, name := range path {
		v, ok := cur.Get(name)
		if !ok {
			return Value{}, fmt.Errorf("field %s not found in %s: %w", joinPath(path[:i+1]), r.Type(), errs.ErrUnsupportedVariant)
		}
		if i == len(path)-1 {
			return v, nil
		}
		if cur, ok = v.Record(); !ok {
			return Value{}, fmt.Errorf("field %s is a %s, not a record: %w", joinPath(path[:i+1]), v.kind, errs.ErrUnsupportedVariant)
		}
	}

	return Value{}, nil
}

// Int returns the integer field at path.
func (r Record) Int(path ...string) (int64, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return 0, err
	}
	n, ok := v.Int()
	if !ok {
		return 0, fmt.Errorf("field %s is a %s, not an integer: %w", joinPath(path), v.kind, errs.ErrUnsupportedVariant)
	}

	return n, nil
}

// Uint returns the integer field at path read as unsigned. Sizes and
// counts use it: their XSD types are signed but the values never are.
func (r Record) Uint(path ...string) (uint64, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return 0, err
	}
	n, ok := v.Uint()
	if !ok {
		return 0, fmt.Errorf("field %s is a %s, not an integer: %w", joinPath(path), v.kind, errs.ErrUnsupportedVariant)
	}

	return n, nil
}

// Float returns the numeric field at path as float64.
func (r Record) Float(path ...string) (float64, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("field %s is a %s, not a number: %w", joinPath(path), v.kind, errs.ErrUnsupportedVariant)
	}

	return f, nil
}

// Record returns the nested record at path.
func (r Record) Record(path ...string) (Record, error) {
	v, err := r.Lookup(path...)
	if err != nil {
		return Record{}, err
	}
	rec, ok := v.Record()
	if !ok {
		return Record{}, fmt.Errorf("field %s is a %s, not a record: %w", joinPath(path), v.kind, errs.ErrUnsupportedVariant)
	}

	return rec, nil
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
