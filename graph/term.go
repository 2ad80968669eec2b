package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/google/uuid"
)

// TermKind distinguishes the three RDF term types.
type TermKind int

const (
	KindIRI TermKind = iota + 1
	KindBlank
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF term: an IRI, a blank node or a literal.
// All implementations are comparable and usable as map keys.
type Term interface {
	Kind() TermKind
	// String returns the N-Triples form of the term.
	String() string
	// Value returns the raw IRI, blank label or lexical form.
	Value() string
}

// IRI is an absolute IRI reference.
type IRI string

func (i IRI) Kind() TermKind { return KindIRI }
func (i IRI) String() string { return "<" + escapeIRI(string(i)) + ">" }
func (i IRI) Value() string  { return string(i) }

// BlankNode is a blank node identified by its label (without "_:").
type BlankNode string

// NewBlankNode returns a blank node with a fresh random label.
func NewBlankNode() BlankNode {
	return BlankNode("b" + strings.ReplaceAll(uuid.New().String(), "-", ""))
}

func (b BlankNode) Kind() TermKind { return KindBlank }
func (b BlankNode) String() string { return "_:" + string(b) }
func (b BlankNode) Value() string  { return string(b) }

// Literal is an RDF literal. A literal with a language tag has datatype
// rdf:langString; an empty Datatype means xsd:string.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

func (l Literal) Kind() TermKind { return KindLiteral }
func (l Literal) Value() string  { return l.Lexical }

func (l Literal) String() string {
	s := `"` + EscapeString(l.Lexical) + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "" && l.Datatype != rdf.XSDString:
		return s + "^^<" + escapeIRI(l.Datatype) + ">"
	default:
		return s
	}
}

// DatatypeIRI returns the effective datatype of the literal.
func (l Literal) DatatypeIRI() string {
	switch {
	case l.Lang != "":
		return rdf.LangString
	case l.Datatype == "":
		return rdf.XSDString
	default:
		return l.Datatype
	}
}

// NewLiteral builds a typed literal from a Go value.
// Unknown types fall back to their fmt representation as xsd:string.
func NewLiteral(v any) Literal {
	switch x := v.(type) {
	case Literal:
		return x
	case string:
		return Literal{Lexical: x}
	case bool:
		return Literal{Lexical: strconv.FormatBool(x), Datatype: rdf.XSDBoolean}
	case int:
		return Literal{Lexical: strconv.FormatInt(int64(x), 10), Datatype: rdf.XSDInteger}
	case int8:
		return Literal{Lexical: strconv.FormatInt(int64(x), 10), Datatype: rdf.XSDInteger}
	case int16:
		return Literal{Lexical: strconv.FormatInt(int64(x), 10), Datatype: rdf.XSDInteger}
	case int32:
		return Literal{Lexical: strconv.FormatInt(int64(x), 10), Datatype: rdf.XSDInteger}
	case int64:
		return Literal{Lexical: strconv.FormatInt(x, 10), Datatype: rdf.XSDInteger}
	case uint:
		return Literal{Lexical: strconv.FormatUint(uint64(x), 10), Datatype: rdf.XSDNonNegativeInteger}
	case uint8:
		return Literal{Lexical: strconv.FormatUint(uint64(x), 10), Datatype: rdf.XSDNonNegativeInteger}
	case uint16:
		return Literal{Lexical: strconv.FormatUint(uint64(x), 10), Datatype: rdf.XSDNonNegativeInteger}
	case uint32:
		return Literal{Lexical: strconv.FormatUint(uint64(x), 10), Datatype: rdf.XSDNonNegativeInteger}
	case uint64:
		return Literal{Lexical: strconv.FormatUint(x, 10), Datatype: rdf.XSDNonNegativeInteger}
	case float32:
		return Literal{Lexical: formatDouble(float64(x)), Datatype: rdf.XSDDouble}
	case float64:
		return Literal{Lexical: formatDouble(x), Datatype: rdf.XSDDouble}
	case time.Time:
		return Literal{Lexical: x.Format(time.RFC3339Nano), Datatype: rdf.XSDDateTime}
	case time.Duration:
		return Literal{Lexical: FormatDuration(x), Datatype: rdf.XSDDuration}
	case fmt.Stringer:
		return Literal{Lexical: x.String()}
	default:
		return Literal{Lexical: fmt.Sprintf("%v", v)}
	}
}

// NewTypedLiteral builds a literal with an explicit datatype IRI.
func NewTypedLiteral(lexical, datatype string) Literal {
	if datatype == rdf.XSDString {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewLangLiteral builds a language-tagged string literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: strings.ToLower(lang)}
}

func formatDouble(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// EscapeString escapes a lexical form for N-Triples and Turtle output.
func EscapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune("<>\"{}|^`\\ ", r) {
			fmt.Fprintf(&sb, `\u%04X`, r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ParseTerm converts the raw subject or object string used on the
// semstreams wire into a term: "_:x" is a blank node, absolute IRIs are
// IRIs and everything else is a plain literal. The wire string carries no
// term kind, language tag or datatype, so a literal that reads as an IRI is
// returned as an IRI.
func ParseTerm(s string) Term {
	if label, ok := strings.CutPrefix(s, "_:"); ok && label != "" {
		return BlankNode(label)
	}
	if rdf.IsAbsolute(s) {
		return IRI(s)
	}
	return Literal{Lexical: s}
}
