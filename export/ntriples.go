package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/c360studio/semrdf/graph"
)

// ParseError reports a malformed N-Triples line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// maxLineSize bounds a single N-Triples statement.
const maxLineSize = 4 << 20

// Parse reads a graph in the given format. Only N-Triples input is supported.
func Parse(r io.Reader, format Format) (*graph.Graph, error) {
	if format != FormatNTriples {
		return nil, fmt.Errorf("%w for input: %s", ErrUnsupportedFormat, format)
	}
	return ParseNTriples(r)
}

// ParseNTriples reads an N-Triples document into a new graph.
func ParseNTriples(r io.Reader) (*graph.Graph, error) {
	g := graph.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		t, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
		if ok {
			g.Add(t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read n-triples: %w", err)
	}
	return g, nil
}

type lineParser struct {
	s   string
	pos int
}

func parseLine(line string) (graph.Triple, bool, error) {
	p := &lineParser{s: line}
	p.skipSpace()
	if p.eof() || p.peek() == '#' {
		return graph.Triple{}, false, nil
	}

	subject, err := p.subject()
	if err != nil {
		return graph.Triple{}, false, fmt.Errorf("subject: %w", err)
	}
	p.skipSpace()
	predicate, err := p.iri()
	if err != nil {
		return graph.Triple{}, false, fmt.Errorf("predicate: %w", err)
	}
	p.skipSpace()
	object, err := p.object()
	if err != nil {
		return graph.Triple{}, false, fmt.Errorf("object: %w", err)
	}
	p.skipSpace()
	if p.eof() || p.peek() != '.' {
		return graph.Triple{}, false, errors.New("expected '.'")
	}
	p.pos++
	p.skipSpace()
	if !p.eof() && p.peek() != '#' {
		return graph.Triple{}, false, fmt.Errorf("unexpected trailing content %q", p.s[p.pos:])
	}
	return graph.NewTriple(subject, predicate, object), true, nil
}

func (p *lineParser) eof() bool  { return p.pos >= len(p.s) }
func (p *lineParser) peek() byte { return p.s[p.pos] }

func (p *lineParser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *lineParser) subject() (graph.Term, error) {
	if p.eof() {
		return nil, io.ErrUnexpectedEOF
	}
	if p.peek() == '_' {
		return p.blank()
	}
	return p.iri()
}

func (p *lineParser) object() (graph.Term, error) {
	if p.eof() {
		return nil, io.ErrUnexpectedEOF
	}
	switch p.peek() {
	case '_':
		return p.blank()
	case '"':
		return p.literal()
	default:
		return p.iri()
	}
}

func (p *lineParser) iri() (graph.IRI, error) {
	if p.eof() || p.peek() != '<' {
		return "", errors.New("expected '<'")
	}
	p.pos++
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		switch c {
		case '>':
			p.pos++
			if sb.Len() == 0 {
				return "", errors.New("empty IRI")
			}
			return graph.IRI(sb.String()), nil
		case '\\':
			r, err := p.unicodeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		case ' ', '<', '"':
			return "", fmt.Errorf("invalid character %q in IRI", c)
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", errors.New("unterminated IRI")
}

func (p *lineParser) blank() (graph.BlankNode, error) {
	if !strings.HasPrefix(p.s[p.pos:], "_:") {
		return "", errors.New("expected '_:'")
	}
	p.pos += 2
	start := p.pos
	for !p.eof() && p.peek() != ' ' && p.peek() != '\t' {
		p.pos++
	}
	// labels may contain '.' but not end with one; a trailing '.' terminates the statement
	for p.pos > start && p.s[p.pos-1] == '.' {
		p.pos--
	}
	if p.pos == start {
		return "", errors.New("empty blank node label")
	}
	return graph.BlankNode(p.s[start:p.pos]), nil
}

func (p *lineParser) literal() (graph.Literal, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	closed := false
	for !p.eof() && !closed {
		c := p.peek()
		switch c {
		case '"':
			p.pos++
			closed = true
		case '\\':
			r, err := p.stringEscape()
			if err != nil {
				return graph.Literal{}, err
			}
			sb.WriteRune(r)
		default:
			r, size := utf8.DecodeRuneInString(p.s[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	if !closed {
		return graph.Literal{}, errors.New("unterminated literal")
	}

	lexical := sb.String()
	if p.eof() {
		return graph.Literal{Lexical: lexical}, nil
	}
	switch {
	case p.peek() == '@':
		p.pos++
		start := p.pos
		for !p.eof() && isLangChar(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			return graph.Literal{}, errors.New("empty language tag")
		}
		return graph.NewLangLiteral(lexical, p.s[start:p.pos]), nil
	case strings.HasPrefix(p.s[p.pos:], "^^"):
		p.pos += 2
		dt, err := p.iri()
		if err != nil {
			return graph.Literal{}, fmt.Errorf("datatype: %w", err)
		}
		return graph.NewTypedLiteral(lexical, string(dt)), nil
	}
	return graph.Literal{Lexical: lexical}, nil
}

func isLangChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func (p *lineParser) stringEscape() (rune, error) {
	if p.pos+1 >= len(p.s) {
		return 0, errors.New("dangling escape")
	}
	switch p.s[p.pos+1] {
	case 't':
		p.pos += 2
		return '\t', nil
	case 'b':
		p.pos += 2
		return '\b', nil
	case 'n':
		p.pos += 2
		return '\n', nil
	case 'r':
		p.pos += 2
		return '\r', nil
	case 'f':
		p.pos += 2
		return '\f', nil
	case '"':
		p.pos += 2
		return '"', nil
	case '\'':
		p.pos += 2
		return '\'', nil
	case '\\':
		p.pos += 2
		return '\\', nil
	case 'u', 'U':
		return p.unicodeEscape()
	default:
		return 0, fmt.Errorf("invalid escape \\%c", p.s[p.pos+1])
	}
}

func (p *lineParser) unicodeEscape() (rune, error) {
	if p.pos+1 >= len(p.s) {
		return 0, errors.New("dangling escape")
	}
	width := 0
	switch p.s[p.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, fmt.Errorf("invalid escape \\%c", p.s[p.pos+1])
	}
	start := p.pos + 2
	if start+width > len(p.s) {
		return 0, errors.New("truncated unicode escape")
	}
	n, err := strconv.ParseUint(p.s[start:start+width], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape: %w", err)
	}
	if !utf8.ValidRune(rune(n)) {
		return 0, fmt.Errorf("invalid unicode escape: U+%X is not a valid code point", n)
	}
	p.pos = start + width
	return rune(n), nil
}
