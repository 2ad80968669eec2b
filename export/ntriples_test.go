package export_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/c360studio/semrdf/export"
	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNTriples(t *testing.T) {
	input := `# people
<http://example.org/a> <http://xmlns.com/foaf/0.1/name> "Ann\tBée" .
<http://example.org/a> <http://xmlns.com/foaf/0.1/knows> _:b1 .

_:b1 <http://xmlns.com/foaf/0.1/age> "41"^^<http://www.w3.org/2001/XMLSchema#integer> . # trailing comment
_:b1 <http://www.w3.org/2000/01/rdf-schema#label> "Bee"@EN-gb .
`
	g, err := export.ParseNTriples(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	name, ok := g.Value(graph.IRI("http://example.org/a"), rdf.FOAFName)
	require.True(t, ok)
	assert.Equal(t, graph.Literal{Lexical: "Ann\tBée"}, name)

	knows, ok := g.Value(graph.IRI("http://example.org/a"), rdf.FOAFKnows)
	require.True(t, ok)
	assert.Equal(t, graph.BlankNode("b1"), knows)

	age, ok := g.Value(graph.BlankNode("b1"), rdf.FOAFAge)
	require.True(t, ok)
	assert.Equal(t, graph.NewLiteral(41), age)

	label, ok := g.Value(graph.BlankNode("b1"), rdf.Label)
	require.True(t, ok)
	assert.Equal(t, graph.NewLangLiteral("Bee", "en-gb"), label)
}

func TestParseNTriples_Escapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  graph.Term
	}{
		{"short unicode", `<http://a> <http://p> "caf\u00E9" .`, graph.Literal{Lexical: "café"}},
		{"long unicode", `<http://a> <http://p> "\U0001F600!" .`, graph.Literal{Lexical: "\U0001F600!"}},
		{"unicode in IRI", `<http://a> <http://p> <http://example.org/\u00E9t\u00E9> .`, graph.IRI("http://example.org/été")},
		{"mixed escapes", `<http://a> <http://p> "a\"b\\c\nd" .`, graph.Literal{Lexical: "a\"b\\c\nd"}},
		{"blank label with inner dot", `<http://a> <http://p> _:b.1 .`, graph.BlankNode("b.1")},
		{"blank label before dot", `<http://a> <http://p> _:b1.`, graph.BlankNode("b1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := export.ParseNTriples(strings.NewReader(tt.input))
			require.NoError(t, err)
			got, ok := g.Value(graph.IRI("http://a"), "http://p")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNTriples_BlankSubjectWithDot(t *testing.T) {
	g, err := export.ParseNTriples(strings.NewReader(`_:node.a.b <http://p> "x" .`))
	require.NoError(t, err)
	_, ok := g.Value(graph.BlankNode("node.a.b"), "http://p")
	assert.True(t, ok)
}

func TestParseNTriples_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"missing dot", `<http://a> <http://p> "x"`, 1},
		{"literal subject", `"x" <http://p> <http://o> .`, 1},
		{"unterminated IRI", `<http://a <http://p> <http://o> .`, 1},
		{"unterminated literal", `<http://a> <http://p> "x .`, 1},
		{"bad escape", `<http://a> <http://p> "\q" .`, 1},
		{"truncated short unicode", `<http://a> <http://p> "\u00E" .`, 1},
		{"truncated long unicode", `<http://a> <http://p> "\U0001F6" .`, 1},
		{"short unicode at end of line", `<http://a> <http://p> "x\u`, 1},
		{"non-hex unicode", `<http://a> <http://p> "\u00G9" .`, 1},
		{"signed unicode", `<http://a> <http://p> "\u+0E9" .`, 1},
		{"out of range unicode", `<http://a> <http://p> "\U00110000" .`, 1},
		{"surrogate unicode", `<http://a> <http://p> "\uD800" .`, 1},
		{"non-unicode escape in IRI", `<http://a> <http://p> <http://o\n> .`, 1},
		{"empty blank label", `<http://a> <http://p> _: .`, 1},
		{"trailing junk", `<http://a> <http://p> <http://o> . extra`, 1},
		{"error on second line", "<http://a> <http://p> <http://o> .\n<http://a> <http://p>", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := export.ParseNTriples(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *export.ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse_OnlyNTriples(t *testing.T) {
	_, err := export.Parse(strings.NewReader(""), export.FormatTurtle)
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))

	g, err := export.Parse(strings.NewReader(""), export.FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    export.Format
		wantErr bool
	}{
		{"turtle", export.FormatTurtle, false},
		{"TTL", export.FormatTurtle, false},
		{"n-triples", export.FormatNTriples, false},
		{"application/ld+json", export.FormatJSONLD, false},
		{".nt", export.FormatNTriples, false},
		{"rdfxml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromFilename(t *testing.T) {
	f, ok := export.FormatFromFilename("data/people.TTL")
	assert.True(t, ok)
	assert.Equal(t, export.FormatTurtle, f)

	_, ok = export.FormatFromFilename("people.xml")
	assert.False(t, ok)
}
