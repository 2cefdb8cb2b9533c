// Package schema reads binary records whose layout is described by an XML
// Schema document, as MassHunter does for MSScan.bin.
//
// A Schema is parsed once, compiled into a Plan for a root type, and the
// Plan then reads any number of records without looking up type names:
//
//	s, err := schema.ParseXSD(bytes.NewReader(xsd))
//	plan, err := s.Compile("ScanRecordType")
//	rec, err := plan.Read(cursor)
//	offset, err := rec.Int("SpectrumParamValues", "SpectrumOffset")
//
// Integer kinds follow XML Schema: xs:short, xs:int and xs:long are signed,
// and Int returns them sign-extended. Instrument files also use these types
// for sizes and counts that are unsigned on disk; read those with Uint,
// which reinterprets the stored bits at the field's width.
//
// Compiled plans can be shared through a Cache keyed by the schema bytes.
package schema

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/internal/xmltext"
)

// Field is one named member of a composite type.
type Field struct {
	Name     string
	TypeName string
}

// Type is either a primitive or a composite with ordered fields.
type Type struct {
	Name   string
	Kind   Kind
	Fields []Field
}

// IsComposite reports whether the type has fields.
func (t Type) IsComposite() bool {
	return t.Kind == KindComposite
}

// Schema maps composite type names to their ordered fields.
type Schema struct {
	types map[string][]Field
	order []string
}

// New creates a schema from composite definitions. Later definitions
// replace earlier ones with the same name.
func New(types ...Type) *Schema {
	s := &Schema{types: make(map[string][]Field, len(types))}
	for _, t := range types {
		s.add(t.Name, t.Fields)
	}

	return s
}

func (s *Schema) add(name string, fields []Field) {
	if _, ok := s.types[name]; !ok {
		s.order = append(s.order, name)
	}
	s.types[name] = fields
}

// Names returns the composite type names in definition order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.order...)
}

// Lookup resolves a type name to a primitive or composite type.
func (s *Schema) Lookup(name string) (Type, bool) {
	if kind, ok := primitive(name); ok {
		return Type{Name: name, Kind: kind}, true
	}
	if fields, ok := s.types[name]; ok {
		return Type{Name: name, Kind: KindComposite, Fields: fields}, true
	}

	return Type{}, false
}

// primitive maps "xs:int" style names, with any namespace prefix, to a Kind.
func primitive(name string) (Kind, bool) {
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		return KindInvalid, false
	}
	if prefix != "xs" && prefix != "xsd" {
		return KindInvalid, false
	}
	kind, ok := xsdKinds[local]

	return kind, ok
}

type xsdDocument struct {
	ComplexTypes []xsdComplexType `xml:"complexType"`
}

type xsdComplexType struct {
	Name     string       `xml:"name,attr"`
	Sequence []xsdElement `xml:"sequence>element"`
	All      []xsdElement `xml:"all>element"`
}

type xsdElement struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

// ParseXSD reads the top-level xs:complexType definitions of an XML Schema
// document. Each complex type contributes the xs:element children of its
// content model (xs:sequence, else xs:all) in document order.
func ParseXSD(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	return ParseXSDBytes(data)
}

// ParseXSDBytes is ParseXSD over an in-memory document.
func ParseXSDBytes(data []byte) (*Schema, error) {
	var doc xsdDocument
	if err := xmltext.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %v: %w", err, errs.ErrInvalidSchema)
	}

	s := New()
	for _, ct := range doc.ComplexTypes {
		if ct.Name == "" {
			return nil, fmt.Errorf("unnamed complex type: %w", errs.ErrInvalidSchema)
		}

		elements := ct.Sequence
		if len(elements) == 0 {
			elements = ct.All
		}

		fields := make([]Field, 0, len(elements))
		for _, el := range elements {
			if el.Name == "" || el.Type == "" {
				return nil, fmt.Errorf("element without name or type in %s: %w", ct.Name, errs.ErrInvalidSchema)
			}
			fields = append(fields, Field{Name: el.Name, TypeName: el.Type})
		}
		s.add(ct.Name, fields)
	}

	return s, nil
}
