package grammar

import (
	"sort"
	"strings"
)

// Set is a set of terminal names, possibly including Epsilon.
type Set map[string]struct{}

func NewSet(items ...string) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s Set) Has(t string) bool {
	_, ok := s[t]
	return ok
}

// add inserts t and reports whether the set grew.
func (s Set) add(t string) bool {
	if s.Has(t) {
		return false
	}
	s[t] = struct{}{}
	return true
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Sets maps a nonterminal to its FIRST or FOLLOW set.
type Sets map[string]Set

// String renders one line per nonterminal, "A t1 t2 ...", sorted by name.
func (ss Sets) String() string {
	names := make([]string, 0, len(ss))
	for n := range ss {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		for _, t := range ss[n].Sorted() {
			sb.WriteByte(' ')
			sb.WriteString(t)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// firstOfSequence adds FIRST(seq) minus Epsilon into dst and reports whether
// seq can derive the empty string. Action tags derive nothing and are
// skipped.
func firstOfSequence(seq []Symbol, first Sets, dst Set) (nullable, grew bool) {
	for _, sym := range seq {
		switch sym.Kind {
		case ActionTag, Empty:
			continue
		case Terminal:
			return false, dst.add(sym.Name) || grew
		case Nonterminal:
			for t := range first[sym.Name] {
				if t != Epsilon && dst.add(t) {
					grew = true
				}
			}
			if !first[sym.Name].Has(Epsilon) {
				return false, grew
			}
		}
	}
	return true, grew
}

func computeFirst(rules []Rule) Sets {
	first := make(Sets, len(rules))
	for _, r := range rules {
		first[r.LHS] = NewSet()
	}
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			for _, alt := range r.Alternatives {
				nullable, grew := firstOfSequence(alt, first, first[r.LHS])
				if grew {
					changed = true
				}
				if nullable && first[r.LHS].add(Epsilon) {
					changed = true
				}
			}
		}
	}
	return first
}

func computeFollow(rules []Rule, first Sets) Sets {
	follow := make(Sets, len(rules))
	for _, r := range rules {
		follow[r.LHS] = NewSet()
	}
	follow[rules[0].LHS].add(EndMarker)
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			for _, alt := range r.Alternatives {
				for i, sym := range alt {
					if sym.Kind != Nonterminal {
						continue
					}
					dst := follow[sym.Name]
					nullable, grew := firstOfSequence(alt[i+1:], first, dst)
					if grew {
						changed = true
					}
					if !nullable {
						continue
					}
					for t := range follow[r.LHS] {
						if dst.add(t) {
							changed = true
						}
					}
				}
			}
		}
	}
	return follow
}
