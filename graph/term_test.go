package graph

import (
	"testing"
	"time"

	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/stretchr/testify/assert"
)

func TestNewLiteral(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    any
		lexical  string
		datatype string
	}{
		{"string", "hello", "hello", rdf.XSDString},
		{"int", 42, "42", rdf.XSDInteger},
		{"int64", int64(-7), "-7", rdf.XSDInteger},
		{"uint", uint(7), "7", rdf.XSDNonNegativeInteger},
		{"float", 3.5, "3.5", rdf.XSDDouble},
		{"bool", true, "true", rdf.XSDBoolean},
		{"time", ts, "2024-03-01T12:00:00Z", rdf.XSDDateTime},
		{"duration", 90 * time.Second, "PT1M30S", rdf.XSDDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := NewLiteral(tt.input)
			assert.Equal(t, tt.lexical, lit.Lexical)
			assert.Equal(t, tt.datatype, lit.DatatypeIRI())
		})
	}
}

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name string
		lit  Literal
		want string
	}{
		{"plain", Literal{Lexical: "a"}, `"a"`},
		{"explicit xsd:string", NewTypedLiteral("a", rdf.XSDString), `"a"`},
		{"typed", NewLiteral(1), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"lang", NewLangLiteral("chat", "fr"), `"chat"@fr`},
		{"escaped", Literal{Lexical: "say \"hi\"\n\tnow\\"}, `"say \"hi\"\n\tnow\\"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestIRI_StringEscapesForbiddenCharacters(t *testing.T) {
	assert.Equal(t, `<http://example.org/a\u0020b>`, IRI("http://example.org/a b").String())
}

func TestBlankNode(t *testing.T) {
	b1 := NewBlankNode()
	b2 := NewBlankNode()
	assert.NotEqual(t, b1, b2)
	assert.Equal(t, KindBlank, b1.Kind())
	assert.Equal(t, "_:"+string(b1), b1.String())
}

func TestParseTerm(t *testing.T) {
	assert.Equal(t, BlankNode("x1"), ParseTerm("_:x1"))
	assert.Equal(t, IRI("http://example.org/a"), ParseTerm("http://example.org/a"))
	assert.Equal(t, Literal{Lexical: "just text"}, ParseTerm("just text"))
}
