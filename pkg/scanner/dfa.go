package scanner

// charClass partitions the input alphabet. Every DFA in this package is a
// table indexed by (state, charClass).
type charClass int

const (
	cLetter  charClass = iota // a-z A-Z
	cDigit                    // 0-9
	cNewline                  // \n
	cBlank                    // space \t \r \v \f
	cSlash                    // /
	cStar                     // *
	cEquals                   // =
	cPunct                    // ; : , [ ] ( ) { } + - <
	cOther                    // anything else, including non-ASCII

	numClasses
)

func classOf(r rune) charClass {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return cLetter
	case r >= '0' && r <= '9':
		return cDigit
	}
	switch r {
	case '\n':
		return cNewline
	case ' ', '\t', '\r', '\v', '\f':
		return cBlank
	case '/':
		return cSlash
	case '*':
		return cStar
	case '=':
		return cEquals
	case ';', ':', ',', '[', ']', '(', ')', '{', '}', '+', '-', '<':
		return cPunct
	}
	return cOther
}

const noState = -1

// dfa is a deterministic automaton over character classes. State 0 is the
// start state.
type dfa struct {
	trans  [][numClasses]int
	accept []bool
}

func newDFA(states int) *dfa {
	d := &dfa{
		trans:  make([][numClasses]int, states),
		accept: make([]bool, states),
	}
	for i := range d.trans {
		for c := range d.trans[i] {
			d.trans[i][c] = noState
		}
	}
	return d
}

// on adds from --c--> to for each listed class.
func (d *dfa) on(from, to int, classes ...charClass) *dfa {
	for _, c := range classes {
		d.trans[from][c] = to
	}
	return d
}

// otherwise routes every class not yet defined in from to to.
func (d *dfa) otherwise(from, to int) *dfa {
	for c := range d.trans[from] {
		if d.trans[from][c] == noState {
			d.trans[from][c] = to
		}
	}
	return d
}

func (d *dfa) accepting(states ...int) *dfa {
	for _, s := range states {
		d.accept[s] = true
	}
	return d
}

// run extends greedily from src[offset] while a transition is defined and
// returns the number of runes consumed and whether the final state accepts.
func (d *dfa) run(src []rune, offset int) (int, bool) {
	state := 0
	n := 0
	for offset+n < len(src) {
		next := d.trans[state][classOf(src[offset+n])]
		if next == noState {
			break
		}
		state = next
		n++
	}
	return n, d.accept[state]
}

// identifierDFA: [a-zA-Z][a-zA-Z0-9]*
func identifierDFA() *dfa {
	return newDFA(2).
		on(0, 1, cLetter).
		on(1, 1, cLetter, cDigit).
		accepting(1)
}

// numberDFA: [0-9]+
func numberDFA() *dfa {
	return newDFA(2).
		on(0, 1, cDigit).
		on(1, 1, cDigit).
		accepting(1)
}

// whitespaceDFA: [ \t\r\v\f]*\n?
func whitespaceDFA() *dfa {
	return newDFA(2).
		on(0, 0, cBlank).
		on(0, 1, cNewline).
		accepting(0, 1)
}

// commentDFA: //[^\n]*\n? and /* ... */ where a run of '*' only closes the
// comment when followed by '/'.
func commentDFA() *dfa {
	const (
		start = iota
		slash
		line
		lineEnd
		block
		blockStar
		blockEnd
		count
	)
	d := newDFA(count).
		on(start, slash, cSlash).
		on(slash, line, cSlash).
		on(slash, block, cStar).
		on(line, lineEnd, cNewline).
		otherwise(line, line).
		on(block, blockStar, cStar).
		otherwise(block, block).
		on(blockStar, blockStar, cStar).
		on(blockStar, blockEnd, cSlash).
		otherwise(blockStar, block)
	return d.accepting(line, lineEnd, blockEnd)
}

// symbolDFA: single-character punctuation and operators, plus "==".
func symbolDFA() *dfa {
	return newDFA(3).
		on(0, 1, cPunct, cStar).
		on(0, 2, cEquals).
		on(2, 1, cEquals).
		accepting(1, 2)
}
