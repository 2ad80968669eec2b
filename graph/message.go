package graph

import (
	"math"
	"strconv"
	"time"

	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/c360studio/semrdf/vocabulary/semrdf"
	"github.com/c360studio/semstreams/message"
)

// ToMessageTriples converts RDF triples to the semstreams wire format.
// Predicates with a registered dotted name are translated to it, literal
// objects become native JSON values where the datatype allows.
func ToMessageTriples(triples []Triple, source string, now time.Time) []message.Triple {
	out := make([]message.Triple, 0, len(triples))
	for _, t := range triples {
		predicate := string(t.Predicate)
		if dotted, ok := semrdf.DottedPredicate(predicate); ok {
			predicate = dotted
		}
		out = append(out, message.Triple{
			Subject:    wireTerm(t.Subject),
			Predicate:  predicate,
			Object:     wireObject(t.Object),
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}
	return out
}

// FromMessageTriples converts semstreams wire triples back into RDF triples.
// The conversion is lossy. Whole JSON numbers become xsd:integer. String
// objects go through ParseTerm, so a literal whose text is an absolute IRI
// or starts with "_:" comes back as an IRI or blank node. Language tags and
// datatypes other than the numeric and boolean ones are not carried on the
// wire and come back as plain literals. Triples that cannot be represented
// are skipped.
func FromMessageTriples(triples []message.Triple) []Triple {
	out := make([]Triple, 0, len(triples))
	for _, mt := range triples {
		predicate := mt.Predicate
		if semrdf.IsDotted(predicate) {
			iri, ok := semrdf.PredicateIRI(predicate)
			if !ok {
				continue
			}
			predicate = iri
		}
		subject := ParseTerm(mt.Subject)
		if subject.Kind() == KindLiteral {
			continue
		}
		t := Triple{Subject: subject, Predicate: IRI(predicate), Object: termFromWire(mt.Object)}
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

func wireTerm(t Term) string {
	if t.Kind() == KindBlank {
		return t.String()
	}
	return t.Value()
}

func wireObject(t Term) any {
	lit, ok := t.(Literal)
	if !ok {
		return wireTerm(t)
	}
	switch lit.DatatypeIRI() {
	case rdf.XSDInteger, rdf.XSDLong, rdf.XSDInt, rdf.XSDNonNegativeInteger:
		if n, err := strconv.ParseInt(lit.Lexical, 10, 64); err == nil {
			return n
		}
	case rdf.XSDDouble, rdf.XSDFloat, rdf.XSDDecimal:
		if f, err := strconv.ParseFloat(lit.Lexical, 64); err == nil {
			return f
		}
	case rdf.XSDBoolean:
		if b, err := strconv.ParseBool(lit.Lexical); err == nil {
			return b
		}
	}
	return lit.Lexical
}

func termFromWire(v any) Term {
	switch x := v.(type) {
	case string:
		return ParseTerm(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return NewLiteral(int64(x))
		}
		return NewLiteral(x)
	case nil:
		return nil
	default:
		return NewLiteral(x)
	}
}
