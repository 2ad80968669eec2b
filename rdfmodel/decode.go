package rdfmodel

import (
	"fmt"
	"reflect"
	"time"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/mitchellh/mapstructure"
)

// FromGraph populates out, a pointer to a model, from the triples of
// subject in g. Models referenced by the subject are loaded recursively;
// references to resources without triples keep only their URI.
func FromGraph(g *graph.Graph, subject URIRefNode, out any) error {
	rv := reflect.ValueOf(out)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: FromGraph needs a non-nil pointer, got %T", ErrNotModel, out)
	}
	if subject.IsZero() {
		return fmt.Errorf("%w: empty subject", ErrInvalidURI)
	}
	return newDecoder(g).decode(subject.Term(), rv, false)
}

// Load is the generic form of FromGraph.
func Load[T any](g *graph.Graph, subject URIRefNode) (*T, error) {
	out := new(T)
	if err := FromGraph(g, subject, out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadAll loads every instance of T's class found in g, in subject order.
// Instances referencing one another share pointers.
func LoadAll[T any](g *graph.Graph) ([]*T, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	s, err := schemaFor(t)
	if err != nil {
		return nil, err
	}
	if s.Class == "" {
		return nil, fmt.Errorf("%w: %s declares no class", ErrInvalidMapping, s.Name)
	}

	d := newDecoder(g)
	subjects := g.SubjectsOfType(graph.IRI(s.Class))
	out := make([]*T, 0, len(subjects))
	for _, subject := range subjects {
		p, err := d.load(subject, t)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", subject, err)
		}
		out = append(out, p.Interface().(*T))
	}
	return out, nil
}

type decodeKey struct {
	subject graph.Term
	typ     reflect.Type
}

type decoder struct {
	g       *graph.Graph
	visited map[decodeKey]reflect.Value
}

func newDecoder(g *graph.Graph) *decoder {
	return &decoder{g: g, visited: make(map[decodeKey]reflect.Value)}
}

// load returns the pointer decoded for subject, decoding it on first use.
func (d *decoder) load(subject graph.Term, t reflect.Type) (reflect.Value, error) {
	if p, ok := d.visited[decodeKey{subject, t}]; ok {
		return p, nil
	}
	p := reflect.New(t)
	if err := d.decode(subject, p, true); err != nil {
		return reflect.Value{}, err
	}
	return p, nil
}

func (d *decoder) decode(subject graph.Term, ptr reflect.Value, nested bool) error {
	rv := ptr.Elem()
	s, err := schemaFor(rv.Type())
	if err != nil {
		return err
	}
	ref, ok := refFromTerm(subject)
	if !ok {
		return fmt.Errorf("%w: literal %s cannot be a subject", ErrInvalidURI, subject)
	}

	m := ptr.Interface().(modeler).rdfModel()
	m.SetURI(ref)
	d.visited[decodeKey{subject, rv.Type()}] = ptr

	if len(d.g.Match(subject, nil, nil)) == 0 {
		if nested {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, subject)
	}

	if s.Class != "" {
		types := d.g.Objects(subject, graph.IRI(rdf.Type))
		if len(types) > 0 && !containsTerm(types, graph.IRI(s.Class)) {
			return fmt.Errorf("%w: %s is not a %s", ErrClassMismatch, subject, s.Class)
		}
	}

	for _, f := range s.Fields {
		objects := d.g.Objects(subject, graph.IRI(f.PredicateIRI))
		if len(objects) == 0 {
			if f.Required {
				return notSet(s, f)
			}
			continue
		}
		if !f.multi {
			objects = objects[:1]
		}

		fv := rv.FieldByIndex(f.index)
		switch f.kind {
		case kindRef:
			err = d.decodeRefs(f, fv, objects)
		case kindModel:
			err = d.decodeModels(f, fv, objects)
		default:
			err = decodeLiterals(f, fv, objects)
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", s.Name, f.Field, err)
		}
	}
	return nil
}

func decodeLiterals(f FieldMapping, fv reflect.Value, objects []graph.Term) error {
	var input any
	if f.multi {
		values := make([]string, len(objects))
		for i, o := range objects {
			values[i] = o.Value()
		}
		input = values
	} else {
		input = objects[0].Value()
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			stringToDurationHook,
		),
		Result: fv.Addr().Interface(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// stringToDurationHook accepts xsd:duration lexical forms and, for
// documents written by hand, Go duration strings.
func stringToDurationHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != durationType {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	d, err := graph.ParseDuration(s)
	if err == nil {
		return d, nil
	}
	if goDur, goErr := time.ParseDuration(s); goErr == nil {
		return goDur, nil
	}
	return nil, err
}

func (d *decoder) decodeRefs(f FieldMapping, fv reflect.Value, objects []graph.Term) error {
	refs := make([]URIRefNode, 0, len(objects))
	for _, o := range objects {
		ref, ok := refFromTerm(o)
		if !ok {
			return fmt.Errorf("%w: expected a resource, got literal %s", ErrInvalidURI, o)
		}
		refs = append(refs, ref)
	}

	if !f.multi {
		setRef(fv, refs[0])
		return nil
	}
	slice := reflect.MakeSlice(fv.Type(), len(refs), len(refs))
	for i, ref := range refs {
		setRef(slice.Index(i), ref)
	}
	fv.Set(slice)
	return nil
}

func setRef(v reflect.Value, ref URIRefNode) {
	if v.Kind() == reflect.Pointer {
		p := reflect.New(v.Type().Elem())
		p.Elem().SetString(string(ref))
		v.Set(p)
		return
	}
	v.SetString(string(ref))
}

func (d *decoder) decodeModels(f FieldMapping, fv reflect.Value, objects []graph.Term) error {
	for _, o := range objects {
		if o.Kind() == graph.KindLiteral {
			return fmt.Errorf("%w: expected a resource, got literal %s", ErrInvalidURI, o)
		}
	}

	if !f.multi {
		if !f.ptr {
			return d.decode(objects[0], fv.Addr(), true)
		}
		p, err := d.load(objects[0], f.elemType)
		if err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}

	slice := reflect.MakeSlice(fv.Type(), len(objects), len(objects))
	for i, o := range objects {
		p, err := d.load(o, f.elemType)
		if err != nil {
			return err
		}
		if f.ptr {
			slice.Index(i).Set(p)
		} else {
			slice.Index(i).Set(p.Elem())
		}
	}
	fv.Set(slice)
	return nil
}

func containsTerm(terms []graph.Term, want graph.Term) bool {
	for _, t := range terms {
		if t == want {
			return true
		}
	}
	return false
}
