// Package grammar holds the production-rule table of the language and
// compiles it into one transition diagram per nonterminal.
//
// Each alternative of a nonterminal becomes a chain of fresh states from the
// shared start state 0 to the shared accept state 1. Choosing between
// alternatives is left to the parser, which consults FIRST and FOLLOW sets.
package grammar

import (
	"fmt"
	"strings"
)

// Epsilon marks an empty alternative in rules and nullability in FIRST sets.
const Epsilon = "eps"

// EndMarker is the terminal fed once the input is exhausted.
const EndMarker = "$"

// SymbolKind distinguishes the labels an automaton edge can carry.
type SymbolKind int

const (
	Terminal SymbolKind = iota
	Nonterminal
	Empty
	ActionTag
)

// Symbol is one element of an alternative.
type Symbol struct {
	Kind   SymbolKind
	Name   string // terminal or nonterminal name; Epsilon for Empty; tag for ActionTag
	Action Action // set for ActionTag
}

func (s Symbol) String() string {
	if s.Kind == ActionTag {
		return "#" + s.Name
	}
	return s.Name
}

// Rule lists the alternatives of one nonterminal.
type Rule struct {
	LHS          string
	Alternatives [][]Symbol
}

// Edge is a labeled transition.
type Edge struct {
	Label Symbol
	To    int
}

const (
	StartState  = 0
	AcceptState = 1
)

// Automaton is the transition diagram of one nonterminal. Edges[s] lists the
// outgoing edges of state s in priority order.
type Automaton struct {
	Nonterminal string
	Edges       [][]Edge
}

// Accept is the single accepting state.
func (a *Automaton) Accept() int {
	return AcceptState
}

func buildAutomaton(r Rule) *Automaton {
	a := &Automaton{Nonterminal: r.LHS, Edges: make([][]Edge, 2)}
	for _, alt := range r.Alternatives {
		from := StartState
		for i, sym := range alt {
			to := AcceptState
			if i < len(alt)-1 {
				to = len(a.Edges)
				a.Edges = append(a.Edges, nil)
			}
			a.Edges[from] = append(a.Edges[from], Edge{Label: sym, To: to})
			from = to
		}
	}
	return a
}

// Grammar is the immutable automaton set together with the FIRST and FOLLOW
// tables the parser needs.
type Grammar struct {
	Start    string
	Rules    []Rule
	automata map[string]*Automaton
	first    Sets
	follow   Sets
}

// Build compiles rules into automata. The first rule's LHS is the start
// symbol. When first or follow is nil the missing table is computed from the
// rules.
func Build(rules []Rule, first, follow Sets) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar has no rules")
	}
	g := &Grammar{
		Start:    rules[0].LHS,
		Rules:    rules,
		automata: make(map[string]*Automaton, len(rules)),
	}
	for _, r := range rules {
		if _, dup := g.automata[r.LHS]; dup {
			return nil, fmt.Errorf("nonterminal %q defined twice", r.LHS)
		}
		g.automata[r.LHS] = nil
	}
	for _, r := range rules {
		for _, alt := range r.Alternatives {
			if len(alt) == 0 {
				return nil, fmt.Errorf("empty alternative for %q (use %s)", r.LHS, Epsilon)
			}
			for _, sym := range alt {
				if sym.Kind == Nonterminal {
					if _, ok := g.automata[sym.Name]; !ok {
						return nil, fmt.Errorf("%s refers to undefined nonterminal %q", r.LHS, sym.Name)
					}
				}
			}
		}
	}
	for _, r := range rules {
		g.automata[r.LHS] = buildAutomaton(r)
	}

	if first == nil {
		first = computeFirst(rules)
	}
	if follow == nil {
		follow = computeFollow(rules, first)
	}
	g.first = first
	g.follow = follow
	return g, nil
}

// Automaton returns the diagram of nonterminal n.
func (g *Grammar) Automaton(n string) (*Automaton, bool) {
	a, ok := g.automata[n]
	return a, ok
}

// First returns FIRST(n); it contains Epsilon when n is nullable.
func (g *Grammar) First(n string) Set {
	return g.first[n]
}

// Follow returns FOLLOW(n).
func (g *Grammar) Follow(n string) Set {
	return g.follow[n]
}

// FirstSets and FollowSets expose the tables, e.g. for writing them out.
func (g *Grammar) FirstSets() Sets  { return g.first }
func (g *Grammar) FollowSets() Sets { return g.follow }

// String renders the rules in the text format accepted by ParseRules.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, r := range g.Rules {
		alts := make([]string, len(r.Alternatives))
		for i, alt := range r.Alternatives {
			parts := make([]string, len(alt))
			for j, sym := range alt {
				parts[j] = sym.String()
			}
			alts[i] = strings.Join(parts, " ")
		}
		fmt.Fprintf(&sb, "%s -> %s\n", r.LHS, strings.Join(alts, " | "))
	}
	return sb.String()
}
