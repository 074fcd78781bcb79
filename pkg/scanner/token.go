package scanner

import "fmt"

// Kind classifies a lexeme.
type Kind int

const (
	EOF Kind = iota // sentinel: end of input

	Keyword
	Identifier
	Number
	Symbol
	Comment
	Whitespace
)

var kindNames = [...]string{
	EOF:        "EOF",
	Keyword:    "KEYWORD",
	Identifier: "ID",
	Number:     "NUM",
	Symbol:     "SYMBOL",
	Comment:    "COMMENT",
	Whitespace: "WHITESPACE",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Terminal names used by the grammar for classes whose lexemes vary.
const (
	TerminalID  = "ID"
	TerminalNum = "NUM"
	TerminalEnd = "$"
)

// Token is a single lexeme produced by the Scanner.
type Token struct {
	Kind   Kind
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line of the first character
}

// Significant reports whether the parser ever sees this token.
func (t Token) Significant() bool {
	return t.Kind != Comment && t.Kind != Whitespace
}

// Terminal returns the grammar terminal this token stands for. Keywords and
// symbols are their own terminals; identifiers and numbers collapse to ID and
// NUM.
func (t Token) Terminal() string {
	switch t.Kind {
	case Identifier:
		return TerminalID
	case Number:
		return TerminalNum
	case EOF:
		return TerminalEnd
	default:
		return t.Lexeme
	}
}

func (t Token) String() string {
	return fmt.Sprintf("(%s, %s)", t.Kind, t.Lexeme)
}

// Error reports input that no token class accepts. Text is the single
// offending character, so it never spans lines.
type Error struct {
	Text string
	Line int
}

func (e *Error) Error() string {
	return fmt.Sprintf("(%s, invalid input)", e.Text)
}
