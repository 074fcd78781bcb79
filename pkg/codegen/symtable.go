package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the declared type of a variable or the return type of a function.
type Type int

const (
	TypeInt Type = iota
	TypeVoid
)

func (t Type) String() string {
	if t == TypeVoid {
		return "void"
	}
	return "int"
}

type Kind int

const (
	KindScalar   Kind = iota
	KindArray         // Address is the base of the storage
	KindArrayRef      // array parameter; Address holds a base address
	KindFunction
)

var kindNames = [...]string{"scalar", "array", "array-ref", "function"}

func (k Kind) String() string { return kindNames[k] }

// Symbol is one entry of the table.
type Symbol struct {
	Name    string
	Kind    Kind
	Depth   int
	Address int // scalar address, array base, array-ref slot, or function frame base
	Size    int

	// functions only
	Entry  int
	Return Type
	Params int
}

// ReturnSlot is the address holding a function's return address; the result
// is stored in the next address.
func (s Symbol) ReturnSlot() int { return s.Address + s.Params }

type symKey struct {
	name  string
	depth int
}

// SymbolTable maps (name, depth) to symbols. Lookups see the innermost
// visible declaration.
type SymbolTable struct {
	entries map[symKey]Symbol
	depth   int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[symKey]Symbol)}
}

// Depth is the current nesting depth; 0 is global.
func (s *SymbolTable) Depth() int { return s.depth }

func (s *SymbolTable) EnterScope() { s.depth++ }

// ExitScope drops every non-function entry at the current depth or deeper.
func (s *SymbolTable) ExitScope() {
	if s.depth == 0 {
		panic("ExitScope called at global scope")
	}
	for k, sym := range s.entries {
		if k.depth >= s.depth && sym.Kind != KindFunction {
			delete(s.entries, k)
		}
	}
	s.depth--
}

// Outdent lowers the depth without dropping entries. Parameters are declared
// one level down and stay visible when the function body reopens that level.
func (s *SymbolTable) Outdent() {
	if s.depth == 0 {
		panic("Outdent called at global scope")
	}
	s.depth--
}

// Define records sym at the current depth, replacing an entry of the same
// name declared at that depth.
func (s *SymbolTable) Define(sym Symbol) Symbol {
	sym.Depth = s.depth
	s.entries[symKey{sym.Name, s.depth}] = sym
	return sym
}

// Lookup returns the visible declaration of name.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	for d := s.depth; d >= 0; d-- {
		if sym, ok := s.entries[symKey{name, d}]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Function finds a function by name regardless of the current depth.
func (s *SymbolTable) Function(name string) (Symbol, bool) {
	best, found := Symbol{}, false
	for k, sym := range s.entries {
		if k.name == name && sym.Kind == KindFunction && (!found || sym.Depth < best.Depth) {
			best, found = sym, true
		}
	}
	return best, found
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	syms := make([]Symbol, 0, len(s.entries))
	for _, sym := range s.entries {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].Depth != syms[j].Depth {
			return syms[i].Depth < syms[j].Depth
		}
		return syms[i].Name < syms[j].Name
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Depth: %d\n", s.depth)
	for _, sym := range syms {
		switch sym.Kind {
		case KindFunction:
			fmt.Fprintf(&sb, "  [%d] %-16s %s %s entry=%d frame=%d params=%d\n",
				sym.Depth, sym.Name, sym.Kind, sym.Return, sym.Entry, sym.Address, sym.Params)
		case KindArray:
			fmt.Fprintf(&sb, "  [%d] %-16s %s base=%d size=%d\n", sym.Depth, sym.Name, sym.Kind, sym.Address, sym.Size)
		default:
			fmt.Fprintf(&sb, "  [%d] %-16s %s addr=%d\n", sym.Depth, sym.Name, sym.Kind, sym.Address)
		}
	}
	return sb.String()
}
