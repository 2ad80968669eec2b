package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	prefixes := DefaultPrefixes()

	iri, ok := Expand("xsd:integer", prefixes)
	assert.True(t, ok)
	assert.Equal(t, XSDInteger, iri)

	iri, ok = Expand("http://example.org/x", prefixes)
	assert.False(t, ok)
	assert.Equal(t, "http://example.org/x", iri)

	_, ok = Expand("nope:x", prefixes)
	assert.False(t, ok)

	_, ok = Expand("noprefix", prefixes)
	assert.False(t, ok)
}

func TestCompact(t *testing.T) {
	prefixes := DefaultPrefixes()

	tests := []struct {
		iri    string
		want   string
		wantOK bool
	}{
		{FOAFName, "foaf:name", true},
		{Type, "rdf:type", true},
		{"http://xmlns.com/foaf/0.1/has space", "http://xmlns.com/foaf/0.1/has space", false},
		{"http://example.org/unknown", "http://example.org/unknown", false},
		{XSDNS + "bad/local", XSDNS + "bad/local", false},
	}

	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			got, ok := Compact(tt.iri, prefixes)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompactPrefersLongestNamespace(t *testing.T) {
	prefixes := map[string]string{
		"ex":  "http://example.org/",
		"exv": "http://example.org/vocab/",
	}
	got, ok := Compact("http://example.org/vocab/term", prefixes)
	assert.True(t, ok)
	assert.Equal(t, "exv:term", got)
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, IsAbsolute("http://example.org/a"))
	assert.True(t, IsAbsolute("https://example.org"))
	assert.True(t, IsAbsolute("urn:isbn:0451450523"))
	assert.True(t, IsAbsolute("mailto:alice@example.org"))
	assert.False(t, IsAbsolute("xsd:string"))
	assert.False(t, IsAbsolute("_:b0"))
	assert.False(t, IsAbsolute("plain"))
	assert.False(t, IsAbsolute("http:"))
}
