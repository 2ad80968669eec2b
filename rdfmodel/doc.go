// Package rdfmodel maps Go structs to RDF graphs and back.
//
// A model is a struct that embeds RDFModel. Its fields are mapped to
// predicates either by a Mappings method returning MapTo declarations or
// by rdf struct tags:
//
//	type Person struct {
//	    rdfmodel.RDFModel
//	    Name  string                `rdf:"foaf:name,required"`
//	    Age   int                   `rdf:"foaf:age"`
//	    Knows []rdfmodel.URIRefNode `rdf:"foaf:knows"`
//	}
//
//	func (Person) ClassIRI() string { return rdf.FOAFPerson }
//
// Predicates may be absolute IRIs, CURIEs over the default prefixes or
// dotted predicates registered in vocabulary/semrdf.
//
// ToGraph validates the model, mints a subject when none is set and emits
// one triple per mapped value. FromGraph reverses the mapping. A required
// field left at its zero value is reported as a *PropertyNotSetError.
//
// Slice fields become repeated triples. A graph is a set, so slices are
// unordered: FromGraph returns their values de-duplicated and sorted by
// term, not in the order they were written.
package rdfmodel
