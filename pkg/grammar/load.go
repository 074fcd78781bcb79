package grammar

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed cminus.grammar
var cminusRules string

// Default returns the built-in C-minus grammar with computed FIRST and
// FOLLOW sets.
func Default() *Grammar {
	rules, err := ParseRules(cminusRules)
	if err != nil {
		panic(fmt.Sprintf("built-in grammar: %v", err))
	}
	g, err := Build(rules, nil, nil)
	if err != nil {
		panic(fmt.Sprintf("built-in grammar: %v", err))
	}
	return g
}

// Load builds a grammar from rule text and optional FIRST / FOLLOW set text.
// Empty set text means "compute from the rules".
func Load(rulesText, firstText, followText string) (*Grammar, error) {
	rules, err := ParseRules(rulesText)
	if err != nil {
		return nil, err
	}
	var first, follow Sets
	if strings.TrimSpace(firstText) != "" {
		if first, err = ParseSets(firstText); err != nil {
			return nil, fmt.Errorf("first sets: %w", err)
		}
	}
	if strings.TrimSpace(followText) != "" {
		if follow, err = ParseSets(followText); err != nil {
			return nil, fmt.Errorf("follow sets: %w", err)
		}
	}
	return Build(rules, first, follow)
}

// ParseRules reads one rule per line:
//
//	Declaration -> TypeSpecifier ID DeclarationTail
//	TypeSpecifier -> int | void
//
// Names that appear on a left-hand side are nonterminals, "eps" is the empty
// alternative, "#name" is an action tag, and everything else is a terminal.
func ParseRules(text string) ([]Rule, error) {
	type rawRule struct {
		lineNo int
		lhs    string
		alts   [][]string
	}
	var raws []rawRule
	lhsSet := map[string]bool{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lhs, rhs, ok := strings.Cut(line, "->")
		lhs = strings.TrimSpace(lhs)
		if !ok || lhs == "" || strings.ContainsAny(lhs, " \t") {
			return nil, fmt.Errorf("malformed rule on line %d: %q", i+1, line)
		}
		raw := rawRule{lineNo: i + 1, lhs: lhs}
		for _, alt := range strings.Split(rhs, " | ") {
			fields := strings.Fields(alt)
			if len(fields) == 0 {
				return nil, fmt.Errorf("empty alternative on line %d", i+1)
			}
			raw.alts = append(raw.alts, fields)
		}
		raws = append(raws, raw)
		lhsSet[lhs] = true
	}

	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		r := Rule{LHS: raw.lhs}
		for _, alt := range raw.alts {
			syms := make([]Symbol, 0, len(alt))
			for _, name := range alt {
				sym, err := classify(name, lhsSet)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", raw.lineNo, err)
				}
				syms = append(syms, sym)
			}
			r.Alternatives = append(r.Alternatives, syms)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func classify(name string, nonterminals map[string]bool) (Symbol, error) {
	switch {
	case name == Epsilon:
		return Symbol{Kind: Empty, Name: Epsilon}, nil
	case strings.HasPrefix(name, "#") && len(name) > 1:
		a, ok := ParseAction(name[1:])
		if !ok {
			return Symbol{}, fmt.Errorf("unknown action %q", name)
		}
		return Symbol{Kind: ActionTag, Name: name[1:], Action: a}, nil
	case nonterminals[name]:
		return Symbol{Kind: Nonterminal, Name: name}, nil
	default:
		return Symbol{Kind: Terminal, Name: name}, nil
	}
}

// ParseSets reads one line per nonterminal, "A t1 t2 ...".
func ParseSets(text string) (Sets, error) {
	sets := Sets{}
	for i, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if _, dup := sets[fields[0]]; dup {
			return nil, fmt.Errorf("line %d: %q listed twice", i+1, fields[0])
		}
		sets[fields[0]] = NewSet(fields[1:]...)
	}
	return sets, nil
}
