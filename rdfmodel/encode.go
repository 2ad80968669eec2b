package rdfmodel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/google/uuid"
)

// Option configures serialization.
type Option func(*options)

type options struct {
	baseIRI  string
	validate bool
}

// WithBaseIRI mints subjects as baseIRI followed by a UUID instead of
// blank nodes.
func WithBaseIRI(baseIRI string) Option {
	return func(o *options) {
		o.baseIRI = baseIRI
	}
}

// WithoutValidation serializes models with unset required properties.
func WithoutValidation() Option {
	return func(o *options) {
		o.validate = false
	}
}

// ToGraph serializes v, and every model it references, into a new graph.
// v must be a pointer so minted subjects are kept on the model.
func ToGraph(v any, opts ...Option) (*graph.Graph, error) {
	g := graph.New()
	if _, err := AddToGraph(g, v, opts...); err != nil {
		return nil, err
	}
	return g, nil
}

// AddToGraph serializes v into g and returns the subject of v.
// On failure neither g nor the models are modified; minted subjects are
// written back only once the whole model graph has encoded.
func AddToGraph(g *graph.Graph, v any, opts ...Option) (URIRefNode, error) {
	o := options{validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return "", fmt.Errorf("%w: ToGraph needs a non-nil pointer, got %T", ErrNotModel, v)
	}

	e := &encoder{opts: o, visited: make(map[visitKey]graph.Term)}
	subject, err := e.encode(rv)
	if err != nil {
		return "", err
	}
	for _, m := range e.minted {
		m.model.SetURI(m.uri)
	}
	g.AddAll(e.triples...)
	ref, _ := refFromTerm(subject)
	return ref, nil
}

type encoder struct {
	opts    options
	visited map[visitKey]graph.Term
	triples []graph.Triple
	minted  []mintedURI
}

type mintedURI struct {
	model *RDFModel
	uri   URIRefNode
}

// visitKey includes the type since a struct and its first field share an address.
type visitKey struct {
	addr uintptr
	typ  reflect.Type
}

// encode writes the model behind the pointer ptr and returns its subject.
func (e *encoder) encode(ptr reflect.Value) (graph.Term, error) {
	key := visitKey{addr: ptr.Pointer(), typ: ptr.Type()}
	if subject, ok := e.visited[key]; ok {
		return subject, nil
	}

	rv := ptr.Elem()
	s, err := schemaFor(rv.Type())
	if err != nil {
		return nil, err
	}
	if e.opts.validate {
		if err := validateValue(rv, s); err != nil {
			return nil, err
		}
	}

	m := ptr.Interface().(modeler).rdfModel()
	uri := m.URI()
	if uri.IsZero() {
		uri = e.mint()
		e.minted = append(e.minted, mintedURI{model: m, uri: uri})
	}
	subject := uri.Term()
	e.visited[key] = subject

	if s.Class != "" {
		e.add(subject, rdf.Type, graph.IRI(s.Class))
	}

	for _, f := range s.Fields {
		fv := rv.FieldByIndex(f.index)
		if isUnset(fv) {
			continue
		}
		if f.multi {
			for i := 0; i < fv.Len(); i++ {
				if err := e.encodeValue(subject, f, fv.Index(i)); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := e.encodeValue(subject, f, fv); err != nil {
			return nil, err
		}
	}
	return subject, nil
}

func (e *encoder) encodeValue(subject graph.Term, f FieldMapping, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		if f.kind != kindModel {
			v = v.Elem()
		}
	}

	switch f.kind {
	case kindRef:
		ref := URIRefNode(v.String())
		if ref.IsZero() {
			return nil
		}
		if !ref.IsBlank() && !rdf.IsAbsolute(string(ref)) {
			return fmt.Errorf("%w: %s: %q is not absolute", ErrInvalidURI, f.Field, ref)
		}
		e.add(subject, f.PredicateIRI, ref.Term())
	case kindModel:
		if v.Kind() != reflect.Pointer {
			if !v.CanAddr() {
				cp := reflect.New(v.Type())
				cp.Elem().Set(v)
				v = cp
			} else {
				v = v.Addr()
			}
		}
		object, err := e.encode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Field, err)
		}
		e.add(subject, f.PredicateIRI, object)
	default:
		e.add(subject, f.PredicateIRI, literalFor(f, v))
	}
	return nil
}

func literalFor(f FieldMapping, v reflect.Value) graph.Literal {
	lit := graph.NewLiteral(scalarOf(v))
	switch {
	case f.Lang != "":
		return graph.NewLangLiteral(lit.Lexical, f.Lang)
	case f.DatatypeIRI != "":
		return graph.NewTypedLiteral(lit.Lexical, f.DatatypeIRI)
	}
	return lit
}

func (e *encoder) add(subject graph.Term, predicate string, object graph.Term) {
	e.triples = append(e.triples, graph.NewTriple(subject, graph.IRI(predicate), object))
}

func (e *encoder) mint() URIRefNode {
	if e.opts.baseIRI == "" {
		return URIRefNode("_:" + string(graph.NewBlankNode()))
	}
	base := e.opts.baseIRI
	if !strings.HasSuffix(base, "/") && !strings.HasSuffix(base, "#") {
		base += "/"
	}
	return URIRefNode(base + uuid.NewString())
}

// scalarOf unwraps named scalar types so literals get their XSD datatype.
func scalarOf(v reflect.Value) any {
	if v.Type() == timeType || v.Type() == durationType {
		return v.Interface()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return v.Interface()
}
