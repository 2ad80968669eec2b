package rdfmodel

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/c360studio/semrdf/vocabulary/semrdf"
)

// TagName is the struct tag read when a model has no Mappings method.
const TagName = "rdf"

// MapTo binds a struct field to a predicate.
type MapTo struct {
	// Field is the Go struct field name.
	Field string
	// Predicate is an absolute IRI, a CURIE or a registered dotted predicate.
	Predicate string
	// Datatype overrides the literal datatype, as IRI or CURIE.
	Datatype string
	// Lang tags string literals with a language.
	Lang string
	// Required fields must be non-zero to serialize.
	Required bool
	// Ref emits string values as IRIs instead of literals.
	Ref bool
}

// Map declares a mapping from field to predicate.
func Map(field, predicate string) MapTo {
	return MapTo{Field: field, Predicate: predicate}
}

// AsRequired marks the mapping required.
func (m MapTo) AsRequired() MapTo {
	m.Required = true
	return m
}

// AsRef marks the mapping as a resource reference.
func (m MapTo) AsRef() MapTo {
	m.Ref = true
	return m
}

// WithDatatype sets the literal datatype.
func (m MapTo) WithDatatype(datatype string) MapTo {
	m.Datatype = datatype
	return m
}

// WithLang sets the literal language tag.
func (m MapTo) WithLang(lang string) MapTo {
	m.Lang = lang
	return m
}

type fieldKind int

const (
	kindLiteral fieldKind = iota
	kindRef
	kindModel
)

// FieldMapping is a resolved MapTo.
type FieldMapping struct {
	MapTo
	// PredicateIRI is the absolute predicate.
	PredicateIRI string
	// DatatypeIRI is the absolute datatype override, if any.
	DatatypeIRI string

	index    []int
	kind     fieldKind
	multi    bool
	ptr      bool
	elemType reflect.Type
}

// Schema is the resolved mapping of a model type.
type Schema struct {
	// Name is the Go type name.
	Name string
	// Class is the rdf:type class IRI, empty when the model declares none.
	Class string
	// Fields lists mappings in declaration order.
	Fields []FieldMapping

	typ reflect.Type
}

// Field returns the mapping of a struct field.
func (s *Schema) Field(name string) (FieldMapping, bool) {
	for _, f := range s.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldMapping{}, false
}

var (
	schemaCache sync.Map // reflect.Type -> *Schema

	modelerType  = reflect.TypeOf((*modeler)(nil)).Elem()
	refType      = reflect.TypeOf(URIRefNode(""))
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// Describe resolves the mapping of v, which may be a model, a pointer to
// one, or a reflect.Type of either.
func Describe(v any) (*Schema, error) {
	var t reflect.Type
	switch x := v.(type) {
	case reflect.Type:
		t = x
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotModel)
	default:
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return schemaFor(t)
}

func schemaFor(t reflect.Type) (*Schema, error) {
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(*Schema), nil
	}
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(modelerType) {
		return nil, fmt.Errorf("%w: %s does not embed RDFModel", ErrNotModel, t)
	}
	// RDFModel's methods have pointer receivers, so only a pointer embed
	// puts them in the value method set.
	if t.Implements(modelerType) {
		return nil, fmt.Errorf("%w: %s embeds *RDFModel, embed RDFModel by value", ErrNotModel, t)
	}

	s, err := buildSchema(t)
	if err != nil {
		return nil, err
	}
	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func buildSchema(t reflect.Type) (*Schema, error) {
	s := &Schema{Name: t.Name(), typ: t}
	zero := reflect.New(t).Interface()

	if c, ok := zero.(Classed); ok && c.ClassIRI() != "" {
		class, err := resolveIRI(c.ClassIRI())
		if err != nil {
			return nil, fmt.Errorf("%s class: %w", t, err)
		}
		s.Class = class
	}

	var mappings []MapTo
	if m, ok := zero.(Mapper); ok {
		mappings = m.Mappings()
	} else {
		var err error
		if mappings, err = tagMappings(t); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if seen[m.Field] {
			return nil, fmt.Errorf("%w: %s.%s mapped twice", ErrInvalidMapping, t.Name(), m.Field)
		}
		seen[m.Field] = true

		fm, err := resolveField(t, m)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, fm)
	}
	return s, nil
}

// tagMappings reads `rdf:"predicate,required,ref,datatype=...,lang=..."` tags.
func tagMappings(t reflect.Type) ([]MapTo, error) {
	var out []MapTo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is unexported", ErrInvalidMapping, t.Name(), sf.Name)
		}
		parts := strings.Split(tag, ",")
		m := MapTo{Field: sf.Name, Predicate: strings.TrimSpace(parts[0])}
		for _, opt := range parts[1:] {
			opt = strings.TrimSpace(opt)
			key, val, _ := strings.Cut(opt, "=")
			switch key {
			case "required":
				m.Required = true
			case "ref":
				m.Ref = true
			case "datatype":
				m.Datatype = val
			case "lang":
				m.Lang = val
			case "":
			default:
				return nil, fmt.Errorf("%w: %s.%s: unknown tag option %q", ErrInvalidMapping, t.Name(), sf.Name, opt)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func resolveField(t reflect.Type, m MapTo) (FieldMapping, error) {
	fail := func(format string, args ...any) (FieldMapping, error) {
		return FieldMapping{}, fmt.Errorf("%w: %s.%s: %s", ErrInvalidMapping, t.Name(), m.Field, fmt.Sprintf(format, args...))
	}

	sf, ok := t.FieldByName(m.Field)
	if !ok {
		return fail("no such field")
	}
	if !sf.IsExported() {
		return fail("field is unexported")
	}

	pred, err := semrdf.ResolvePredicate(m.Predicate)
	if err != nil {
		return fail("%v", err)
	}
	fm := FieldMapping{MapTo: m, PredicateIRI: pred, index: sf.Index}
	if m.Datatype != "" {
		if fm.DatatypeIRI, err = resolveIRI(m.Datatype); err != nil {
			return fail("datatype: %v", err)
		}
	}
	if m.Datatype != "" && m.Lang != "" {
		return fail("datatype and lang are exclusive")
	}

	ft := sf.Type
	if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
		fm.multi = true
		ft = ft.Elem()
	}
	if ft.Kind() == reflect.Pointer {
		fm.ptr = true
		ft = ft.Elem()
	}
	fm.elemType = ft

	switch {
	case ft == refType:
		fm.kind = kindRef
	case ft.Kind() == reflect.Struct && ft != timeType:
		if !reflect.PointerTo(ft).Implements(modelerType) || ft.Implements(modelerType) {
			return fail("struct type %s does not embed RDFModel by value", ft)
		}
		fm.kind = kindModel
	case isScalar(ft):
		fm.kind = kindLiteral
		if m.Ref {
			if ft.Kind() != reflect.String {
				return fail("ref requires a string field")
			}
			fm.kind = kindRef
		}
	default:
		return fail("unsupported field type %s", sf.Type)
	}
	if fm.kind != kindLiteral && (m.Datatype != "" || m.Lang != "") {
		return fail("datatype and lang apply to literals only")
	}
	return fm, nil
}

func isScalar(t reflect.Type) bool {
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func resolveIRI(s string) (string, error) {
	if rdf.IsAbsolute(s) {
		return s, nil
	}
	if iri, ok := rdf.Expand(s, rdf.DefaultPrefixes()); ok {
		return iri, nil
	}
	return "", fmt.Errorf("cannot resolve %q", s)
}
