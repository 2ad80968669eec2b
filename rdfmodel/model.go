package rdfmodel

// RDFModel is embedded by every mapped struct. It carries the subject
// reference of the model instance.
type RDFModel struct {
	uri URIRefNode
}

// URI returns the subject reference, empty until set or minted.
func (m *RDFModel) URI() URIRefNode { return m.uri }

// SetURI sets the subject reference.
func (m *RDFModel) SetURI(u URIRefNode) { m.uri = u }

// HasURI reports whether a subject reference is set.
func (m *RDFModel) HasURI() bool { return !m.uri.IsZero() }

func (m *RDFModel) rdfModel() *RDFModel { return m }

// modeler is satisfied by pointers to structs embedding RDFModel.
type modeler interface {
	rdfModel() *RDFModel
}

// Classed is implemented by models declaring an rdf:type class.
type Classed interface {
	ClassIRI() string
}

// Mapper is implemented by models declaring their mappings in code
// rather than with struct tags.
type Mapper interface {
	Mappings() []MapTo
}
