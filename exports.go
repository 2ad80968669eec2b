package semrdf

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/c360studio/semrdf/rdfmodel"
)

// Re-exported mapping names.
type (
	// RDFModel is the base struct embedded by mapped models.
	RDFModel = rdfmodel.RDFModel

	// URIRefNode references an RDF resource.
	URIRefNode = rdfmodel.URIRefNode

	// MapTo binds a struct field to a predicate.
	MapTo = rdfmodel.MapTo

	// PropertyNotSetException reports a required property left unset.
	PropertyNotSetException = rdfmodel.PropertyNotSetError
)

var (
	// ErrNameNotExported is returned by Lookup for undeclared names.
	ErrNameNotExported = errors.New("name not exported")

	// ErrInitialization is returned when the export surface cannot be bound.
	ErrInitialization = errors.New("export surface initialization failed")
)

// publicNames is the declared public surface, in order.
var publicNames = []string{"RDFModel", "URIRefNode", "MapTo", "PropertyNotSetException"}

// DefaultBindings returns the binding table of the root package.
func DefaultBindings() map[string]reflect.Type {
	return map[string]reflect.Type{
		"RDFModel":                reflect.TypeOf(RDFModel{}),
		"URIRefNode":              reflect.TypeOf(URIRefNode("")),
		"MapTo":                   reflect.TypeOf(MapTo{}),
		"PropertyNotSetException": reflect.TypeOf((*PropertyNotSetException)(nil)),
	}
}

// ExportSurface is a bound set of public names.
type ExportSurface struct {
	names    []string
	bindings map[string]reflect.Type
}

// NewExportSurface binds every declared name from bindings.
// A declared name missing from bindings fails with ErrInitialization.
func NewExportSurface(names []string, bindings map[string]reflect.Type) (*ExportSurface, error) {
	s := &ExportSurface{
		names:    append([]string(nil), names...),
		bindings: make(map[string]reflect.Type, len(names)),
	}
	for _, name := range names {
		t, ok := bindings[name]
		if !ok || t == nil {
			return nil, fmt.Errorf("%w: %s is not defined", ErrInitialization, name)
		}
		if _, dup := s.bindings[name]; dup {
			return nil, fmt.Errorf("%w: %s declared twice", ErrInitialization, name)
		}
		s.bindings[name] = t
	}
	return s, nil
}

// Names returns a copy of the declared names.
func (s *ExportSurface) Names() []string {
	return append([]string(nil), s.names...)
}

// Lookup resolves a declared name.
func (s *ExportSurface) Lookup(name string) (reflect.Type, error) {
	t, ok := s.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNameNotExported, name)
	}
	return t, nil
}

var (
	surface     *ExportSurface
	surfaceOnce sync.Once
)

func init() {
	Surface()
}

// Surface returns the process-wide export surface, building it on first
// use. It panics if the surface cannot be bound.
func Surface() *ExportSurface {
	surfaceOnce.Do(func() {
		s, err := NewExportSurface(publicNames, DefaultBindings())
		if err != nil {
			panic(err)
		}
		surface = s
	})
	return surface
}

// PublicNames returns the declared public names in order.
func PublicNames() []string {
	return Surface().Names()
}

// Lookup resolves a declared public name to its type.
func Lookup(name string) (reflect.Type, error) {
	return Surface().Lookup(name)
}
