// Package graph provides RDF terms, an in-memory triple graph and the
// utilities for publishing model triples to the knowledge graph.
package graph

import (
	"sort"
	"sync"

	"github.com/c360studio/semrdf/vocabulary/rdf"
)

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

// NewTriple creates a triple.
func NewTriple(subject Term, predicate IRI, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// String returns the N-Triples line for the triple, without newline.
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Valid reports whether the triple satisfies RDF term position rules.
func (t Triple) Valid() bool {
	if t.Subject == nil || t.Object == nil || t.Predicate == "" {
		return false
	}
	return t.Subject.Kind() != KindLiteral
}

type tripleSet map[Triple]struct{}

// Graph is a concurrency-safe set of triples indexed by subject.
type Graph struct {
	mu        sync.RWMutex
	triples   tripleSet
	bySubject map[Term]tripleSet
	prefixes  map[string]string
}

// New creates an empty graph bound to the default prefixes.
func New() *Graph {
	return &Graph{
		triples:   make(tripleSet),
		bySubject: make(map[Term]tripleSet),
		prefixes:  rdf.DefaultPrefixes(),
	}
}

// Bind associates a prefix with a namespace for serialization.
func (g *Graph) Bind(prefix, namespace string) {
	g.mu.Lock()
	g.prefixes[prefix] = namespace
	g.mu.Unlock()
}

// Prefixes returns a copy of the bound namespaces.
func (g *Graph) Prefixes() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]string, len(g.prefixes))
	for k, v := range g.prefixes {
		out[k] = v
	}
	return out
}

// Add inserts a triple. It returns false for duplicates and invalid triples.
func (g *Graph) Add(t Triple) bool {
	if !t.Valid() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addLocked(t)
}

func (g *Graph) addLocked(t Triple) bool {
	if _, ok := g.triples[t]; ok {
		return false
	}
	g.triples[t] = struct{}{}
	set, ok := g.bySubject[t.Subject]
	if !ok {
		set = make(tripleSet)
		g.bySubject[t.Subject] = set
	}
	set[t] = struct{}{}
	return true
}

// AddAll inserts triples and returns how many were new.
func (g *Graph) AddAll(triples ...Triple) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	added := 0
	for _, t := range triples {
		if t.Valid() && g.addLocked(t) {
			added++
		}
	}
	return added
}

// Remove deletes every triple matching the pattern and returns the count.
// Nil positions are wildcards.
func (g *Graph) Remove(subject, predicate, object Term) int {
	matches := g.Match(subject, predicate, object)
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range matches {
		delete(g.triples, t)
		if set, ok := g.bySubject[t.Subject]; ok {
			delete(set, t)
			if len(set) == 0 {
				delete(g.bySubject, t.Subject)
			}
		}
	}
	return len(matches)
}

// Contains reports whether the exact triple is present.
func (g *Graph) Contains(t Triple) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.triples[t]
	return ok
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.triples)
}

// Triples returns all triples in deterministic order.
func (g *Graph) Triples() []Triple {
	g.mu.RLock()
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	g.mu.RUnlock()
	SortTriples(out)
	return out
}

// Match returns the triples matching the pattern in deterministic order.
// Nil positions are wildcards.
func (g *Graph) Match(subject, predicate, object Term) []Triple {
	g.mu.RLock()
	candidates := g.triples
	if subject != nil {
		candidates = g.bySubject[subject]
	}
	out := make([]Triple, 0)
	for t := range candidates {
		if predicate != nil && Term(t.Predicate) != predicate {
			continue
		}
		if object != nil && t.Object != object {
			continue
		}
		out = append(out, t)
	}
	g.mu.RUnlock()
	SortTriples(out)
	return out
}

// Objects returns the objects of subject/predicate in deterministic order.
func (g *Graph) Objects(subject Term, predicate IRI) []Term {
	matches := g.Match(subject, predicate, nil)
	out := make([]Term, len(matches))
	for i, t := range matches {
		out[i] = t.Object
	}
	return out
}

// Value returns the first object of subject/predicate.
func (g *Graph) Value(subject Term, predicate IRI) (Term, bool) {
	objects := g.Objects(subject, predicate)
	if len(objects) == 0 {
		return nil, false
	}
	return objects[0], true
}

// Subjects returns the distinct subjects having predicate/object.
// Nil positions are wildcards.
func (g *Graph) Subjects(predicate, object Term) []Term {
	seen := make(map[Term]struct{})
	out := make([]Term, 0)
	for _, t := range g.Match(nil, predicate, object) {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// SubjectsOfType returns every subject declared as an instance of class.
func (g *Graph) SubjectsOfType(class IRI) []Term {
	return g.Subjects(IRI(rdf.Type), class)
}

// Merge adds every triple of other to g and returns how many were new.
func (g *Graph) Merge(other *Graph) int {
	if other == nil || other == g {
		return 0
	}
	for prefix, ns := range other.Prefixes() {
		g.mu.Lock()
		if _, ok := g.prefixes[prefix]; !ok {
			g.prefixes[prefix] = ns
		}
		g.mu.Unlock()
	}
	return g.AddAll(other.Triples()...)
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.prefixes = g.Prefixes()
	c.AddAll(g.Triples()...)
	return c
}

// SubjectGraph returns a new graph holding only the triples of subject.
func (g *Graph) SubjectGraph(subject Term) *Graph {
	c := New()
	c.prefixes = g.Prefixes()
	c.AddAll(g.Match(subject, nil, nil)...)
	return c
}

// SortTriples orders triples by subject, predicate and object.
// rdf:type sorts before other predicates of the same subject.
func SortTriples(triples []Triple) {
	sort.Slice(triples, func(i, j int) bool {
		a, b := triples[i], triples[j]
		if as, bs := a.Subject.String(), b.Subject.String(); as != bs {
			return as < bs
		}
		if a.Predicate != b.Predicate {
			if a.Predicate == rdf.Type {
				return true
			}
			if b.Predicate == rdf.Type {
				return false
			}
			return a.Predicate < b.Predicate
		}
		return a.Object.String() < b.Object.String()
	})
}
