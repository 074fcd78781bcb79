package parser

import (
	"bytes"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
)

// recorder logs the semantic calls made by the parser.
type recorder struct {
	calls []string
}

func (r *recorder) Run(a grammar.Action) error {
	r.calls = append(r.calls, "#"+a.String())
	return nil
}

func (r *recorder) PushText(text string) { r.calls = append(r.calls, text) }

func (r *recorder) PushNumber(text string) error {
	r.calls = append(r.calls, "num:"+text)
	return nil
}

func mustLoad(t *testing.T, rules string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Load(rules, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return g
}

// feed advances p on terminal until it is consumed or rejected, and returns
// the kinds of the steps taken and the diagnostics produced.
func feed(t *testing.T, p *Parser, terminal, text string) ([]StepKind, []string) {
	t.Helper()
	var kinds []StepKind
	var msgs []string
	for i := 0; i < 1000; i++ {
		step, err := p.Advance(terminal, text)
		if err != nil {
			t.Fatalf("Advance(%q): %v", terminal, err)
		}
		kinds = append(kinds, step.Kind)
		if step.Message != "" {
			msgs = append(msgs, step.Message)
		}
		if step.Kind == Consumed || step.Kind == Unexpected {
			return kinds, msgs
		}
	}
	t.Fatalf("Advance(%q) did not settle", terminal)
	return nil, nil
}

func TestAdvance(t *testing.T) {
	const rules = `
S -> a #int-dec X c $
X -> ID Y | NUM
Y -> b | eps
`
	t.Run("Accepts", func(t *testing.T) {
		rec := &recorder{}
		p := New(mustLoad(t, rules), rec)
		for _, tok := range [][2]string{{"a", "a"}, {"ID", "foo"}, {"b", "b"}, {"c", "c"}, {"$", "$"}} {
			if _, msgs := feed(t, p, tok[0], tok[1]); len(msgs) != 0 {
				t.Fatalf("unexpected diagnostics on %s: %v", tok[0], msgs)
			}
		}
		if want := []string{"#int-dec", "foo"}; !reflect.DeepEqual(rec.calls, want) {
			t.Errorf("semantic calls = %v, want %v", rec.calls, want)
		}
	})

	t.Run("EpsilonOnFollow", func(t *testing.T) {
		p := New(mustLoad(t, rules), &recorder{})
		feed(t, p, "a", "a")
		feed(t, p, "ID", "x")
		kinds, msgs := feed(t, p, "c", "c")
		if len(msgs) != 0 {
			t.Errorf("diagnostics = %v", msgs)
		}
		// Y via eps, pop Y, pop X, then c
		want := []StepKind{Retry, Retry, Retry, Retry, Consumed}
		if !reflect.DeepEqual(kinds, want) {
			t.Errorf("steps = %v, want %v", kinds, want)
		}
	})

	t.Run("NumberBridged", func(t *testing.T) {
		rec := &recorder{}
		p := New(mustLoad(t, rules), rec)
		feed(t, p, "a", "a")
		feed(t, p, "NUM", "42")
		if rec.calls[len(rec.calls)-1] != "num:42" {
			t.Errorf("calls = %v", rec.calls)
		}
	})

	t.Run("MissingNonterminal", func(t *testing.T) {
		p := New(mustLoad(t, rules), &recorder{})
		feed(t, p, "a", "a")
		kinds, msgs := feed(t, p, "c", "c")
		if !reflect.DeepEqual(msgs, []string{"Syntax Error! Missing #X"}) {
			t.Errorf("diagnostics = %v", msgs)
		}
		if kinds[len(kinds)-1] != Consumed {
			t.Errorf("c should be consumed after recovery, steps %v", kinds)
		}
	})

	t.Run("MissingTerminal", func(t *testing.T) {
		p := New(mustLoad(t, rules), &recorder{})
		feed(t, p, "a", "a")
		feed(t, p, "NUM", "1")
		_, msgs := feed(t, p, "$", "$")
		if !reflect.DeepEqual(msgs, []string{"Syntax Error! Missing #c"}) {
			t.Errorf("diagnostics = %v", msgs)
		}
	})

	t.Run("Unexpected", func(t *testing.T) {
		p := New(mustLoad(t, rules), &recorder{})
		feed(t, p, "a", "a")
		before := p.Depth()
		kinds, msgs := feed(t, p, "z", "z")
		if kinds[len(kinds)-1] != Unexpected || !reflect.DeepEqual(msgs, []string{"Syntax Error! Unexpected #z"}) {
			t.Errorf("steps %v, diagnostics %v", kinds, msgs)
		}
		if p.Depth() != before {
			t.Errorf("an unexpected token changed the stack depth")
		}
		// recovery: the next token still parses
		if _, msgs := feed(t, p, "NUM", "1"); len(msgs) != 0 {
			t.Errorf("diagnostics after recovery: %v", msgs)
		}
	})

	t.Run("EmptyStack", func(t *testing.T) {
		p := New(mustLoad(t, "S -> a"), &recorder{})
		feed(t, p, "a", "a")
		step, _ := p.Advance("b", "b")
		if step.Kind != Retry || !p.Done() {
			t.Fatalf("expected the accepted frame to be popped, got %v", step.Kind)
		}
		step, _ = p.Advance("b", "b")
		if step.Kind != Unexpected {
			t.Errorf("expected Unexpected on an empty stack, got %v", step.Kind)
		}
	})
}

func TestTraceAndTree(t *testing.T) {
	var logBuf bytes.Buffer
	p := New(mustLoad(t, "S -> a X\nX -> b"), &recorder{}, WithTrace(log.New(&logBuf, "", 0)))
	feed(t, p, "a", "a")
	feed(t, p, "b", "b")

	want := []Node{{"S", 0}, {"a", 1}, {"X", 1}, {"b", 2}}
	if got := p.Trace(); !reflect.DeepEqual(got, want) {
		t.Errorf("Trace() = %v, want %v", got, want)
	}

	var tree bytes.Buffer
	if err := WriteTree(&tree, p.Trace()); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if got := tree.String(); got != "S\n  a\n  X\n    b\n" {
		t.Errorf("tree = %q", got)
	}
	if !strings.Contains(logBuf.String(), "Consumed") {
		t.Errorf("trace log missing steps:\n%s", logBuf.String())
	}
}

func TestDefaultGrammarStatements(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"Declaration", []string{"int", "ID", ";"}},
		{"EmptyMain", []string{"void", "ID", "(", "void", ")", "{", "}"}},
		{"IfElse", []string{"void", "ID", "(", ")", "{", "if", "(", "ID", "<", "NUM", ")", "ID", "=", "NUM", ";", "else", ";", "}"}},
		{"WhileBreak", []string{"void", "ID", "(", ")", "{", "while", "(", "NUM", ")", "{", "break", ";", "continue", ";", "}", "}"}},
		{"Switch", []string{"void", "ID", "(", ")", "{", "switch", "(", "ID", ")", "{", "case", "NUM", ":", "ID", "(", "NUM", ")", ";", "default", ":", "return", ";", "}", "}"}},
		{"ArrayParamAndCall", []string{"int", "ID", "(", "int", "ID", "[", "]", ",", "int", "ID", ")", "{", "return", "ID", "[", "ID", "]", "*", "-", "ID", "+", "NUM", "==", "NUM", ";", "}"}},
	}
	g := grammar.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(g, &recorder{})
			for _, tok := range append(tt.tokens, "$") {
				kinds, msgs := feed(t, p, tok, tok)
				if len(msgs) != 0 || kinds[len(kinds)-1] != Consumed {
					t.Fatalf("token %q: steps %v diagnostics %v", tok, kinds, msgs)
				}
			}
		})
	}
}
