// Package parser simulates the grammar's transition diagrams with a stack of
// (nonterminal, state) frames, one terminal at a time.
//
// Choices between edges are made with FIRST and FOLLOW sets. When no edge
// fits, the parser recovers in panic mode: it either pretends the expected
// symbol was present or asks the caller to drop the current token.
package parser

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
	"github.com/aliasadiiii/CompilerProject/pkg/scanner"
)

// Actions receives the semantic side of the parse.
type Actions interface {
	Run(a grammar.Action) error
	PushText(text string)
	PushNumber(text string) error
}

// StepKind is the outcome of one Advance call.
type StepKind int

const (
	Consumed   StepKind = iota // the terminal was matched; feed the next one
	Retry                      // progress was made without reading; feed the same terminal again
	Missing                    // an expected symbol was assumed present; feed the same terminal again
	Unexpected                 // the terminal fits nowhere; the caller drops it
)

var stepNames = [...]string{"Consumed", "Retry", "Missing", "Unexpected"}

func (k StepKind) String() string { return stepNames[k] }

// Step is returned by Advance. Message is set for Missing and Unexpected.
type Step struct {
	Kind    StepKind
	Message string
}

// Node is one entry of the parse history: a terminal matched or a nonterminal
// entered, with the stack depth at that moment.
type Node struct {
	Symbol string
	Depth  int
}

type frame struct {
	automaton *grammar.Automaton
	state     int
}

// Parser is the pushdown recognizer of one compilation.
type Parser struct {
	g       *grammar.Grammar
	actions Actions
	stack   []frame
	history []Node
	trace   *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTrace logs every step to l.
func WithTrace(l *log.Logger) Option {
	return func(p *Parser) { p.trace = l }
}

// New starts a parse at the grammar's start symbol.
func New(g *grammar.Grammar, actions Actions, opts ...Option) *Parser {
	start, ok := g.Automaton(g.Start)
	if !ok {
		panic(fmt.Sprintf("grammar has no automaton for start symbol %q", g.Start))
	}
	p := &Parser{
		g:       g,
		actions: actions,
		stack:   []frame{{automaton: start}},
		history: []Node{{Symbol: g.Start, Depth: 0}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Done reports whether the parse stack is empty.
func (p *Parser) Done() bool { return len(p.stack) == 0 }

// Depth is the number of frames on the parse stack.
func (p *Parser) Depth() int { return len(p.stack) }

// Trace returns the parse history.
func (p *Parser) Trace() []Node {
	out := make([]Node, len(p.history))
	copy(out, p.history)
	return out
}

// Advance makes one move on terminal, whose source text is text. The error
// is whatever an action run during the move returned; the step is valid
// either way.
func (p *Parser) Advance(terminal, text string) (Step, error) {
	if len(p.stack) == 0 {
		return p.logStep(terminal, Step{Kind: Unexpected, Message: unexpected(terminal)}), nil
	}
	top := &p.stack[len(p.stack)-1]
	a := top.automaton
	if top.state == a.Accept() {
		p.stack = p.stack[:len(p.stack)-1]
		return p.logStep(terminal, Step{Kind: Retry}), nil
	}

	edges := a.Edges[top.state]
	for _, e := range edges {
		switch e.Label.Kind {
		case grammar.ActionTag:
			top.state = e.To
			err := p.actions.Run(e.Label.Action)
			return p.logStep(terminal, Step{Kind: Retry}), err

		case grammar.Empty:
			if p.g.Follow(a.Nonterminal).Has(terminal) {
				top.state = e.To
				return p.logStep(terminal, Step{Kind: Retry}), nil
			}

		case grammar.Terminal:
			if e.Label.Name != terminal {
				continue
			}
			top.state = e.To
			err := p.bridge(terminal, text)
			p.history = append(p.history, Node{Symbol: terminal, Depth: len(p.stack)})
			return p.logStep(terminal, Step{Kind: Consumed}), err

		case grammar.Nonterminal:
			if !p.selects(e.Label.Name, terminal) {
				continue
			}
			next, _ := p.g.Automaton(e.Label.Name)
			top.state = e.To
			p.history = append(p.history, Node{Symbol: e.Label.Name, Depth: len(p.stack)})
			p.stack = append(p.stack, frame{automaton: next})
			return p.logStep(terminal, Step{Kind: Retry}), nil
		}
	}

	// panic mode, decided by the highest-priority edge
	e := edges[0]
	if e.Label.Kind != grammar.Nonterminal || p.g.Follow(e.Label.Name).Has(terminal) {
		top.state = e.To
		return p.logStep(terminal, Step{Kind: Missing, Message: "Syntax Error! Missing #" + e.Label.Name}), nil
	}
	return p.logStep(terminal, Step{Kind: Unexpected, Message: unexpected(terminal)}), nil
}

func unexpected(terminal string) string {
	return "Syntax Error! Unexpected #" + terminal
}

// selects reports whether entering n is right on lookahead terminal.
func (p *Parser) selects(n, terminal string) bool {
	first := p.g.First(n)
	if first.Has(terminal) {
		return true
	}
	return first.Has(grammar.Epsilon) && p.g.Follow(n).Has(terminal)
}

// bridge hands the lexeme of a matched terminal to the code generator.
func (p *Parser) bridge(terminal, text string) error {
	switch terminal {
	case scanner.TerminalID, "int", "void":
		p.actions.PushText(text)
	case scanner.TerminalNum:
		return p.actions.PushNumber(text)
	}
	return nil
}

func (p *Parser) logStep(terminal string, s Step) Step {
	if p.trace == nil {
		return s
	}
	where := "-"
	if n := len(p.stack); n > 0 {
		top := p.stack[n-1]
		where = fmt.Sprintf("%s:%d", top.automaton.Nonterminal, top.state)
	}
	if s.Message != "" {
		p.trace.Printf("%-10s %-24s %s (%s)", terminal, where, s.Kind, s.Message)
	} else {
		p.trace.Printf("%-10s %-24s %s", terminal, where, s.Kind)
	}
	return s
}

// WriteTree prints the history as an indented tree, one symbol per line.
func WriteTree(w io.Writer, history []Node) error {
	for _, n := range history {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", n.Depth), n.Symbol); err != nil {
			return err
		}
	}
	return nil
}
