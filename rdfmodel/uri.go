package rdfmodel

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
)

// URIRefNode is a reference to an RDF resource: an absolute IRI, or a
// blank node written as "_:label".
type URIRefNode string

// NewURIRefNode validates s and returns it as a node.
func NewURIRefNode(s string) (URIRefNode, error) {
	u := URIRefNode(strings.TrimSpace(s))
	if u.IsZero() {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidURI)
	}
	if !u.IsBlank() && !rdf.IsAbsolute(string(u)) {
		return "", fmt.Errorf("%w: %q is not absolute", ErrInvalidURI, s)
	}
	return u, nil
}

// String returns the raw reference.
func (u URIRefNode) String() string { return string(u) }

// IsZero reports whether the reference is unset.
func (u URIRefNode) IsZero() bool { return u == "" }

// IsBlank reports whether the reference names a blank node.
func (u URIRefNode) IsBlank() bool { return strings.HasPrefix(string(u), "_:") && len(u) > 2 }

// Term returns the graph term for the reference.
func (u URIRefNode) Term() graph.Term {
	if u.IsBlank() {
		return graph.BlankNode(u[2:])
	}
	return graph.IRI(u)
}

// Join appends a path-escaped segment, inserting a separator when the
// reference does not already end in '/' or '#'.
func (u URIRefNode) Join(segment string) URIRefNode {
	base := string(u)
	if base != "" && !strings.HasSuffix(base, "/") && !strings.HasSuffix(base, "#") {
		base += "/"
	}
	return URIRefNode(base + url.PathEscape(segment))
}

// refFromTerm converts a graph term back to a reference.
func refFromTerm(t graph.Term) (URIRefNode, bool) {
	switch t.Kind() {
	case graph.KindIRI:
		return URIRefNode(t.Value()), true
	case graph.KindBlank:
		return URIRefNode("_:" + t.Value()), true
	default:
		return "", false
	}
}
