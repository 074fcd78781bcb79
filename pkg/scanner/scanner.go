// Package scanner splits C-minus source text into classified lexemes using
// one deterministic automaton per token class.
//
// Classes are tried in a fixed priority order (keyword, comment, identifier,
// number, whitespace, symbol); the first class whose automaton ends in an
// accepting state after a greedy, non-empty match wins.
package scanner

import (
	"fmt"
	"strings"
)

// keywords is the closed keyword set. continue and switch are distinct
// entries.
var keywords = map[string]bool{
	"if":       true,
	"else":     true,
	"void":     true,
	"int":      true,
	"while":    true,
	"break":    true,
	"continue": true,
	"switch":   true,
	"default":  true,
	"case":     true,
	"return":   true,
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	return keywords[s]
}

type class struct {
	kind  Kind
	match func(src []rune, offset int) (int, bool)
}

// classes holds the token classes in priority order.
var classes = []class{
	{Keyword, matchKeyword},
	{Comment, commentDFA().run},
	{Identifier, identifierDFA().run},
	{Number, numberDFA().run},
	{Whitespace, whitespaceDFA().run},
	{Symbol, symbolDFA().run},
}

var identifier = identifierDFA()

// matchKeyword is identifier recognition filtered by the keyword set; a
// non-keyword yields zero length so matching falls through to identifiers.
func matchKeyword(src []rune, offset int) (int, bool) {
	n, ok := identifier.run(src, offset)
	if !ok || n == 0 || !IsKeyword(string(src[offset:offset+n])) {
		return 0, false
	}
	return n, true
}

// Match recognizes the lexeme starting at src[offset]. On failure the
// returned error carries the offending character only, even when a class
// consumed more before getting stuck.
func Match(src []rune, offset int) (Kind, int, error) {
	for _, c := range classes {
		if n, ok := c.match(src, offset); ok && n > 0 {
			return c.kind, n, nil
		}
	}
	return EOF, 0, &Error{Text: string(src[offset])}
}

// Scanner produces tokens one at a time from an in-memory source.
type Scanner struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func New(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1}
}

// Line returns the 1-based line of the next unread character.
func (s *Scanner) Line() int {
	return s.line
}

// Done reports whether all input has been consumed.
func (s *Scanner) Done() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) consume(n int) string {
	text := string(s.src[s.pos : s.pos+n])
	s.line += strings.Count(text, "\n")
	s.pos += n
	return text
}

// Next returns the next token, including whitespace and comments. At end of
// input it returns an EOF token. When no class accepts, Next skips exactly
// one character and returns a *Error describing it.
func (s *Scanner) Next() (Token, error) {
	line := s.line
	if s.Done() {
		return Token{Kind: EOF, Line: line}, nil
	}
	kind, n, err := Match(s.src, s.pos)
	if err != nil {
		serr := err.(*Error)
		serr.Line = line
		s.consume(1)
		return Token{}, serr
	}
	return Token{Kind: kind, Lexeme: s.consume(n), Line: line}, nil
}

// NextSignificant skips whitespace and comments. Lexical errors met on the
// way are handed to report and scanning resumes after them.
func (s *Scanner) NextSignificant(report func(*Error)) Token {
	for {
		tok, err := s.Next()
		if err != nil {
			report(err.(*Error))
			continue
		}
		if tok.Significant() {
			return tok
		}
	}
}

// Tokenize scans the whole of src. The returned tokens include whitespace and
// comments but not the final EOF.
func Tokenize(src string) ([]Token, []*Error) {
	s := New(src)
	var (
		tokens []Token
		errs   []*Error
	)
	for {
		tok, err := s.Next()
		if err != nil {
			errs = append(errs, err.(*Error))
			continue
		}
		if tok.Kind == EOF {
			return tokens, errs
		}
		tokens = append(tokens, tok)
	}
}

// Listing renders significant tokens grouped by line. Every line up to the
// last one holding a token is numbered, empty ones included:
//
//	1. (KEYWORD, int) (ID, main) (SYMBOL, ()
//	2.
func Listing(tokens []Token) string {
	byLine := map[int][]string{}
	for _, tok := range tokens {
		if tok.Significant() {
			byLine[tok.Line] = append(byLine[tok.Line], tok.String())
		}
	}
	return groupByLine(byLine)
}

// ErrorListing renders lexical errors in the same per-line layout.
func ErrorListing(errs []*Error) string {
	byLine := map[int][]string{}
	for _, e := range errs {
		byLine[e.Line] = append(byLine[e.Line], e.Error())
	}
	return groupByLine(byLine)
}

func groupByLine(byLine map[int][]string) string {
	last := 0
	for l := range byLine {
		last = max(last, l)
	}
	var sb strings.Builder
	for l := 1; l <= last; l++ {
		if entries := byLine[l]; len(entries) > 0 {
			fmt.Fprintf(&sb, "%d. %s\n", l, strings.Join(entries, " "))
		} else {
			fmt.Fprintf(&sb, "%d.\n", l)
		}
	}
	return sb.String()
}
