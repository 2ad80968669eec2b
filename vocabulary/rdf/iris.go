// Package rdf provides namespace IRIs and well-known terms of the W3C and
// community vocabularies used when mapping models to RDF.
package rdf

import (
	"sort"
	"strings"
)

// Namespace IRIs for the standard vocabularies.
const (
	NS     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNS  = "http://www.w3.org/2001/XMLSchema#"
	OWLNS  = "http://www.w3.org/2002/07/owl#"
	DCNS   = "http://purl.org/dc/terms/"
	FOAFNS = "http://xmlns.com/foaf/0.1/"
	SKOSNS = "http://www.w3.org/2004/02/skos/core#"
	PROVNS = "http://www.w3.org/ns/prov#"
	SDONS  = "https://schema.org/"
)

// RDF terms.
const (
	// Type is rdf:type, the subject is an instance of a class.
	Type = NS + "type"
	// LangString is the datatype of language-tagged string values.
	LangString = NS + "langString"
	Property   = NS + "Property"
	First      = NS + "first"
	Rest       = NS + "rest"
	Nil        = NS + "nil"
)

// RDFS terms.
const (
	Label   = RDFSNS + "label"
	Comment = RDFSNS + "comment"
	Class   = RDFSNS + "Class"
	SeeAlso = RDFSNS + "seeAlso"
)

// XSD datatypes.
const (
	XSDString   = XSDNS + "string"
	XSDBoolean  = XSDNS + "boolean"
	XSDInteger  = XSDNS + "integer"
	XSDLong     = XSDNS + "long"
	XSDInt      = XSDNS + "int"
	XSDDecimal  = XSDNS + "decimal"
	XSDDouble   = XSDNS + "double"
	XSDFloat    = XSDNS + "float"
	XSDDateTime = XSDNS + "dateTime"
	XSDDate     = XSDNS + "date"
	XSDDuration = XSDNS + "duration"
	XSDAnyURI   = XSDNS + "anyURI"

	// XSDNonNegativeInteger is used for unsigned Go integers.
	XSDNonNegativeInteger = XSDNS + "nonNegativeInteger"
)

// OWL terms.
const (
	OWLClass          = OWLNS + "Class"
	OWLSameAs         = OWLNS + "sameAs"
	OWLObjectProperty = OWLNS + "ObjectProperty"
)

// FOAF terms.
const (
	FOAFPerson   = FOAFNS + "Person"
	FOAFName     = FOAFNS + "name"
	FOAFMbox     = FOAFNS + "mbox"
	FOAFKnows    = FOAFNS + "knows"
	FOAFAge      = FOAFNS + "age"
	FOAFHomepage = FOAFNS + "homepage"
)

// Dublin Core terms.
const (
	DCTitle       = DCNS + "title"
	DCDescription = DCNS + "description"
	DCCreator     = DCNS + "creator"
	DCCreated     = DCNS + "created"
	DCModified    = DCNS + "modified"
	DCIdentifier  = DCNS + "identifier"
)

// DefaultPrefixes returns the standard namespace prefixes.
// A fresh map is returned on every call.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    NS,
		"rdfs":   RDFSNS,
		"xsd":    XSDNS,
		"owl":    OWLNS,
		"dc":     DCNS,
		"foaf":   FOAFNS,
		"skos":   SKOSNS,
		"prov":   PROVNS,
		"schema": SDONS,
	}
}

// Expand resolves a CURIE such as "xsd:string" against prefixes.
// Values that are already absolute IRIs, or whose prefix is unknown,
// are returned unchanged with ok=false.
func Expand(curie string, prefixes map[string]string) (string, bool) {
	if IsAbsolute(curie) {
		return curie, false
	}
	prefix, local, found := strings.Cut(curie, ":")
	if !found {
		return curie, false
	}
	ns, ok := prefixes[prefix]
	if !ok {
		return curie, false
	}
	return ns + local, true
}

// Compact shortens an IRI to a CURIE using the longest matching namespace.
// The local part must be a safe prefixed-name local part, otherwise the
// IRI is returned unchanged with ok=false.
func Compact(iri string, prefixes map[string]string) (string, bool) {
	best, bestNS := "", ""
	for _, prefix := range sortedKeys(prefixes) {
		ns := prefixes[prefix]
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return iri, false
	}
	local := iri[len(bestNS):]
	if !isSafeLocal(local) {
		return iri, false
	}
	return best + ":" + local, true
}

// IsAbsolute reports whether s looks like an absolute IRI (has a scheme
// followed by a colon and at least one more character).
func IsAbsolute(s string) bool {
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return false
	}
	for j, c := range s[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	// "xsd:string" style CURIEs have no "//" and a known short prefix;
	// treat http(s), urn, mailto and anything with "//" as absolute.
	rest := s[i+1:]
	scheme := strings.ToLower(s[:i])
	return strings.HasPrefix(rest, "//") || scheme == "urn" || scheme == "mailto" || scheme == "tag"
}

func isSafeLocal(local string) bool {
	if local == "" {
		return true
	}
	for i, c := range local {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		case (c == '-' || c == '.') && i > 0 && i < len(local)-1:
		default:
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
