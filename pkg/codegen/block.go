package codegen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPatchResolved  = errors.New("patch already resolved")
	ErrNotPlaceholder = errors.New("slot is not a reserved placeholder")
	ErrUnresolved     = errors.New("placeholder never resolved")
)

// Patch is a handle to a reserved slot of a ProgramBlock.
type Patch struct {
	index int
}

// Index is the position of the reserved slot.
func (p Patch) Index() int { return p.index }

// ProgramBlock is the append-only instruction sequence. Slots whose target is
// not yet known are reserved and later resolved exactly once.
type ProgramBlock struct {
	code    []Instruction
	pending map[int]bool // reserved slot -> still unresolved
}

func NewProgramBlock() *ProgramBlock {
	return &ProgramBlock{pending: make(map[int]bool)}
}

// Emit appends in and returns its index.
func (b *ProgramBlock) Emit(in Instruction) int {
	b.code = append(b.code, in)
	return len(b.code) - 1
}

// Reserve appends a placeholder.
func (b *ProgramBlock) Reserve() Patch {
	i := b.Emit(Instruction{})
	b.pending[i] = true
	return Patch{index: i}
}

// Resolve fills a reserved slot.
func (b *ProgramBlock) Resolve(p Patch, in Instruction) error {
	unresolved, reserved := b.pending[p.index]
	switch {
	case !reserved:
		return fmt.Errorf("resolve %d: %w", p.index, ErrNotPlaceholder)
	case !unresolved:
		return fmt.Errorf("resolve %d: %w", p.index, ErrPatchResolved)
	case in.IsPlaceholder():
		return fmt.Errorf("resolve %d with an empty instruction", p.index)
	}
	b.code[p.index] = in
	b.pending[p.index] = false
	return nil
}

// Len is the index the next emitted instruction will get.
func (b *ProgramBlock) Len() int { return len(b.code) }

// At returns the instruction at i. Reading a slot that is still reserved is
// an error.
func (b *ProgramBlock) At(i int) (Instruction, error) {
	if i < 0 || i >= len(b.code) {
		return Instruction{}, fmt.Errorf("instruction %d out of range [0,%d)", i, len(b.code))
	}
	if b.pending[i] {
		return Instruction{}, fmt.Errorf("instruction %d: %w", i, ErrUnresolved)
	}
	return b.code[i], nil
}

// Unresolved lists the reserved slots that were never filled.
func (b *ProgramBlock) Unresolved() []int {
	var out []int
	for i := range b.code {
		if b.pending[i] {
			out = append(out, i)
		}
	}
	return out
}

// Instructions returns a copy of the code; unresolved slots are placeholders.
func (b *ProgramBlock) Instructions() []Instruction {
	out := make([]Instruction, len(b.code))
	copy(out, b.code)
	return out
}

func (b *ProgramBlock) String() string {
	var sb strings.Builder
	for i, in := range b.code {
		fmt.Fprintf(&sb, "%d\t%s\n", i, in)
	}
	return sb.String()
}
