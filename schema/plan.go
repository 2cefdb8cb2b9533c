package schema

import (
	"fmt"
	"io"
	"math"

	"github.com/arloliu/chromadec/endian"
	"github.com/arloliu/chromadec/errs"
)

var le = endian.GetLittleEndianEngine()

// layout is a compiled composite type. Layouts are shared between every
// field that refers to the same type.
type layout struct {
	typeName string
	names    []string
	index    map[string]int
	fields   []compiledField
	size     int
}

type compiledField struct {
	kind   Kind
	nested *layout
}

// Plan is a compiled reading plan for one root composite type. Type names
// are resolved at compile time; reading only walks the compiled layout.
//
// A Plan is immutable and safe for concurrent use.
type Plan struct {
	root *layout
}

// Compile resolves root and everything it refers to into a Plan.
//
// Returns errs.ErrInvalidSchema (which wraps errs.ErrUnsupportedVariant)
// for unknown type names, a primitive root, or recursive composites.
func (s *Schema) Compile(root string) (*Plan, error) {
	c := compiler{schema: s, done: map[string]*layout{}, active: map[string]bool{}}

	t, ok := s.Lookup(root)
	if !ok {
		return nil, fmt.Errorf("unknown root type %q: %w", root, errs.ErrInvalidSchema)
	}
	if !t.IsComposite() {
		return nil, fmt.Errorf("root type %q is not a composite: %w", root, errs.ErrInvalidSchema)
	}

	l, err := c.compile(t)
	if err != nil {
		return nil, err
	}

	return &Plan{root: l}, nil
}

// Compile is shorthand for s.Compile(root).
func Compile(s *Schema, root string) (*Plan, error) {
	return s.Compile(root)
}

type compiler struct {
	schema *Schema
	done   map[string]*layout
	active map[string]bool
}

func (c *compiler) compile(t Type) (*layout, error) {
	if l, ok := c.done[t.Name]; ok {
		return l, nil
	}
	if c.active[t.Name] {
		return nil, fmt.Errorf("recursive type %q: %w", t.Name, errs.ErrInvalidSchema)
	}
	c.active[t.Name] = true
	defer delete(c.active, t.Name)

	l := &layout{
		typeName: t.Name,
		names:    make([]string, 0, len(t.Fields)),
		index:    make(map[string]int, len(t.Fields)),
		fields:   make([]compiledField, 0, len(t.Fields)),
	}

	for _, f := range t.Fields {
		ft, ok := c.schema.Lookup(f.TypeName)
		if !ok {
			return nil, fmt.Errorf("field %s.%s has unknown type %q: %w", t.Name, f.Name, f.TypeName, errs.ErrInvalidSchema)
		}

		cf := compiledField{kind: ft.Kind}
		if ft.IsComposite() {
			nested, err := c.compile(ft)
			if err != nil {
				return nil, err
			}
			cf.nested = nested
			l.size += nested.size
		} else {
			l.size += ft.Kind.Size()
		}

		if _, dup := l.index[f.Name]; !dup {
			l.index[f.Name] = len(l.fields)
		}
		l.names = append(l.names, f.Name)
		l.fields = append(l.fields, cf)
	}

	c.done[t.Name] = l

	return l, nil
}

// Root returns the name of the compiled root type.
func (p *Plan) Root() string {
	return p.root.typeName
}

// Size returns the fixed width of one record in bytes.
func (p *Plan) Size() int {
	return p.root.size
}

// Read reads one record at the cursor position.
//
// On a short read the cursor is restored to where the record started and
// io.ErrUnexpectedEOF is returned.
func (p *Plan) Read(cur *endian.Cursor) (Record, error) {
	if cur.Remaining() < p.root.size {
		return Record{}, io.ErrUnexpectedEOF
	}

	return readLayout(cur, p.root)
}

func readLayout(cur *endian.Cursor, l *layout) (Record, error) {
	values := make([]Value, len(l.fields))
	for i, f := range l.fields {
		v, err := readField(cur, f)
		if err != nil {
			return Record{}, err
		}
		values[i] = v
	}

	return Record{layout: l, values: values}, nil
}

func readField(cur *endian.Cursor, f compiledField) (Value, error) {
	if f.nested != nil {
		rec, err := readLayout(cur, f.nested)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: KindComposite, rec: rec}, nil
	}

	var bits uint64
	switch f.kind {
	case KindInt8:
		v, err := cur.Int8()
		if err != nil {
			return Value{}, err
		}
		bits = uint64(int64(v))
	case KindInt16:
		v, err := cur.Int16(le)
		if err != nil {
			return Value{}, err
		}
		bits = uint64(int64(v))
	case KindInt32:
		v, err := cur.Int32(le)
		if err != nil {
			return Value{}, err
		}
		bits = uint64(int64(v))
	case KindInt64:
		v, err := cur.Int64(le)
		if err != nil {
			return Value{}, err
		}
		bits = uint64(v)
	case KindUint8:
		v, err := cur.Uint8()
		if err != nil {
			return Value{}, err
		}
		bits = uint64(v)
	case KindUint16:
		v, err := cur.Uint16(le)
		if err != nil {
			return Value{}, err
		}
		bits = uint64(v)
	case KindUint32:
		v, err := cur.Uint32(le)
		if err != nil {
			return Value{}, err
		}
		bits = uint64(v)
	case KindUint64:
		v, err := cur.Uint64(le)
		if err != nil {
			return Value{}, err
		}
		bits = v
	case KindFloat32:
		v, err := cur.Float32(le)
		if err != nil {
			return Value{}, err
		}
		bits = math.Float64bits(float64(v))
	case KindFloat64:
		v, err := cur.Float64(le)
		if err != nil {
			return Value{}, err
		}
		bits = math.Float64bits(v)
	default:
		return Value{}, fmt.Errorf("kind %s: %w", f.kind, errs.ErrInvalidSchema)
	}

	return Value{kind: f.kind, bits: bits}, nil
}
