// Package semrdf maps Go structs to RDF graphs and back.
//
// The root package republishes the core mapping names of package rdfmodel:
//
//   - RDFModel, the base struct embedded by every model
//   - URIRefNode, a reference to an RDF resource
//   - MapTo, a field to predicate mapping
//   - PropertyNotSetException, the error for unset required properties
//
// PublicNames lists them in declaration order and Lookup resolves a name to
// its type. Term and graph types live in package graph, serializers in
// package export and model stores in package storage.
package semrdf
