// Package export serializes RDF graphs to Turtle, N-Triples and JSON-LD,
// and parses N-Triples back into graphs.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
)

// ErrUnsupportedFormat is returned for unknown or unsupported formats.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Serializer writes graphs in the supported RDF formats.
type Serializer struct {
	prefixes map[string]string
	profile  Profile
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithPrefix adds a namespace prefix used for compaction.
func WithPrefix(prefix, namespace string) Option {
	return func(s *Serializer) {
		s.prefixes[prefix] = namespace
	}
}

// WithPrefixes adds several namespace prefixes.
func WithPrefixes(prefixes map[string]string) Option {
	return func(s *Serializer) {
		for k, v := range prefixes {
			s.prefixes[k] = v
		}
	}
}

// WithProfile adds the profile's alignment type assertions to every
// written graph. The input graph is not modified.
func WithProfile(profile Profile) Option {
	return func(s *Serializer) {
		s.profile = profile
	}
}

// NewSerializer creates a serializer with the default prefixes.
func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{prefixes: rdf.DefaultPrefixes(), profile: ProfileNone}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export serializes g to the specified format.
func (s *Serializer) Export(g *graph.Graph, format Format) (string, error) {
	var buf bytes.Buffer
	if err := s.Write(&buf, g, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write serializes g to w in the specified format.
func (s *Serializer) Write(w io.Writer, g *graph.Graph, format Format) error {
	if s.profile != "" && s.profile != ProfileNone {
		g = g.Clone()
		NewTypeAsserter(s.profile).Apply(g)
	}

	var out string
	switch format {
	case FormatTurtle:
		out = s.toTurtle(g)
	case FormatNTriples:
		out = toNTriples(g)
	case FormatJSONLD:
		data, err := s.toJSONLD(g)
		if err != nil {
			return fmt.Errorf("marshal json-ld: %w", err)
		}
		out = string(data)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	_, err := io.WriteString(w, out)
	return err
}

// prefixesFor merges the graph bindings under the serializer's own.
func (s *Serializer) prefixesFor(g *graph.Graph) map[string]string {
	merged := g.Prefixes()
	for k, v := range s.prefixes {
		merged[k] = v
	}
	return merged
}

// toNTriples serializes to N-Triples format.
func toNTriples(g *graph.Graph) string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// turtleWriter tracks which prefixes a Turtle document uses.
type turtleWriter struct {
	prefixes map[string]string
	used     map[string]struct{}
}

func (w *turtleWriter) iri(iri string) string {
	if curie, ok := rdf.Compact(iri, w.prefixes); ok {
		prefix, _, _ := strings.Cut(curie, ":")
		w.used[prefix] = struct{}{}
		return curie
	}
	return graph.IRI(iri).String()
}

func (w *turtleWriter) term(t graph.Term) string {
	switch v := t.(type) {
	case graph.IRI:
		return w.iri(string(v))
	case graph.Literal:
		return w.literal(v)
	default:
		return t.String()
	}
}

func (w *turtleWriter) literal(l graph.Literal) string {
	switch l.DatatypeIRI() {
	case rdf.XSDInteger:
		if _, err := strconv.ParseInt(l.Lexical, 10, 64); err == nil {
			return l.Lexical
		}
	case rdf.XSDBoolean:
		if l.Lexical == "true" || l.Lexical == "false" {
			return l.Lexical
		}
	case rdf.XSDString, rdf.LangString:
		return l.String()
	}
	return `"` + graph.EscapeString(l.Lexical) + `"^^` + w.iri(l.Datatype)
}

// toTurtle serializes to Turtle format, one block per subject.
func (s *Serializer) toTurtle(g *graph.Graph) string {
	w := &turtleWriter{prefixes: s.prefixesFor(g), used: make(map[string]struct{})}

	var body strings.Builder
	triples := g.Triples()
	for i := 0; i < len(triples); {
		subject := triples[i].Subject
		j := i
		for j < len(triples) && triples[j].Subject == subject {
			j++
		}
		writeSubjectBlock(&body, w, triples[i:j])
		body.WriteString("\n")
		i = j
	}

	var sb strings.Builder
	prefixes := make([]string, 0, len(w.used))
	for p := range w.used {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", p, w.prefixes[p]))
	}
	if len(prefixes) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(body.String())
	return sb.String()
}

// writeSubjectBlock writes the triples of one subject, grouping objects
// that share a predicate.
func writeSubjectBlock(sb *strings.Builder, w *turtleWriter, triples []graph.Triple) {
	sb.WriteString(w.term(triples[0].Subject))
	sb.WriteString("\n")
	for i := 0; i < len(triples); {
		predicate := triples[i].Predicate
		objects := make([]string, 0, 1)
		j := i
		for j < len(triples) && triples[j].Predicate == predicate {
			objects = append(objects, w.term(triples[j].Object))
			j++
		}

		p := "a"
		if predicate != rdf.Type {
			p = w.iri(string(predicate))
		}
		terminator := " ;"
		if j == len(triples) {
			terminator = " ."
		}
		sb.WriteString(fmt.Sprintf("    %s %s%s\n", p, strings.Join(objects, ", "), terminator))
		i = j
	}
}

// toJSONLD serializes to JSON-LD format.
func (s *Serializer) toJSONLD(g *graph.Graph) ([]byte, error) {
	doc := JSONLDDocument{
		Context: make(map[string]any),
		Graph:   make([]JSONLDNode, 0),
	}
	for k, v := range s.prefixesFor(g) {
		doc.Context[k] = v
	}

	var node *JSONLDNode
	var last graph.Term
	for _, t := range g.Triples() {
		if node == nil || t.Subject != last {
			doc.Graph = append(doc.Graph, JSONLDNode{
				ID:         jsonLDID(t.Subject),
				Properties: make(map[string]any),
			})
			node = &doc.Graph[len(doc.Graph)-1]
			last = t.Subject
		}
		if t.Predicate == rdf.Type && t.Object.Kind() == graph.KindIRI {
			node.Type = append(node.Type, t.Object.Value())
			continue
		}
		key := string(t.Predicate)
		values, _ := node.Properties[key].([]any)
		node.Properties[key] = append(values, jsonLDValue(t.Object))
	}

	return json.MarshalIndent(doc, "", "  ")
}

func jsonLDID(t graph.Term) string {
	if t.Kind() == graph.KindBlank {
		return t.String()
	}
	return t.Value()
}

// jsonLDValue formats an object term as a JSON-LD value object.
func jsonLDValue(t graph.Term) any {
	lit, ok := t.(graph.Literal)
	if !ok {
		return map[string]any{"@id": jsonLDID(t)}
	}
	switch {
	case lit.Lang != "":
		return map[string]any{"@value": lit.Lexical, "@language": lit.Lang}
	case lit.DatatypeIRI() == rdf.XSDString:
		return lit.Lexical
	default:
		return map[string]any{"@value": lit.Lexical, "@type": lit.Datatype}
	}
}
