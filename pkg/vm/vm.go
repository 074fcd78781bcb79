// Package vm executes three-address programs.
//
// Memory is a sparse map of integer cells, all zero at start. The program
// halts when the program counter reaches one past the last instruction.
package vm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aliasadiiii/CompilerProject/pkg/codegen"
)

// DefaultMaxSteps bounds Run so that a program that never terminates still
// returns.
const DefaultMaxSteps = 1_000_000

var ErrStepLimit = errors.New("step limit exceeded")

// Machine is the interpreter state.
type Machine struct {
	Code   []codegen.Instruction
	Memory map[int]int
	PC     int
	Halted bool
	Steps  int

	// MaxSteps stops Run after that many instructions. Zero means
	// DefaultMaxSteps.
	MaxSteps int

	// Output is where PRINT writes, one value per line. If nil, os.Stdout is
	// used.
	Output io.Writer
}

func NewMachine(code []codegen.Instruction) *Machine {
	return &Machine{
		Code:   code,
		Memory: make(map[int]int),
	}
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

// Read returns the cell at addr.
func (m *Machine) Read(addr int) int { return m.Memory[addr] }

// Write stores val at addr.
func (m *Machine) Write(addr, val int) { m.Memory[addr] = val }

func (m *Machine) value(o codegen.Operand) (int, error) {
	switch o.Mode {
	case codegen.Immediate:
		return o.Value, nil
	case codegen.Absolute:
		return m.Read(o.Value), nil
	case codegen.Indirect:
		return m.Read(m.Read(o.Value)), nil
	}
	return 0, fmt.Errorf("missing operand")
}

// address resolves a destination or jump target.
func (m *Machine) address(o codegen.Operand) (int, error) {
	switch o.Mode {
	case codegen.Absolute:
		return o.Value, nil
	case codegen.Indirect:
		return m.Read(o.Value), nil
	}
	return 0, fmt.Errorf("operand %q is not an address", o)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	if m.PC == len(m.Code) {
		m.Halted = true
		return nil
	}
	if m.PC < 0 || m.PC > len(m.Code) {
		m.Halted = true
		return fmt.Errorf("pc %d outside program of %d instructions", m.PC, len(m.Code))
	}

	in := m.Code[m.PC]
	if err := m.exec(in); err != nil {
		m.Halted = true
		return fmt.Errorf("instruction %d %s: %w", m.PC, in, err)
	}
	m.Steps++
	return nil
}

func (m *Machine) exec(in codegen.Instruction) error {
	next := m.PC + 1
	switch in.Op {
	case codegen.OpAdd, codegen.OpMult, codegen.OpSub, codegen.OpEq, codegen.OpLt:
		a, err := m.value(in.A)
		if err != nil {
			return err
		}
		b, err := m.value(in.B)
		if err != nil {
			return err
		}
		dst, err := m.address(in.C)
		if err != nil {
			return err
		}
		var r int
		switch in.Op {
		case codegen.OpAdd:
			r = a + b
		case codegen.OpMult:
			r = a * b
		case codegen.OpSub:
			r = a - b
		case codegen.OpEq:
			r = boolInt(a == b)
		case codegen.OpLt:
			r = boolInt(a < b)
		}
		m.Write(dst, r)

	case codegen.OpAssign:
		v, err := m.value(in.A)
		if err != nil {
			return err
		}
		dst, err := m.address(in.B)
		if err != nil {
			return err
		}
		m.Write(dst, v)

	case codegen.OpJpf:
		v, err := m.value(in.A)
		if err != nil {
			return err
		}
		if v == 0 {
			if next, err = m.address(in.B); err != nil {
				return err
			}
		}

	case codegen.OpJp:
		var err error
		if next, err = m.address(in.A); err != nil {
			return err
		}

	case codegen.OpPrint:
		v, err := m.value(in.A)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.outputSink(), v)

	case codegen.OpNone:
		return fmt.Errorf("unresolved placeholder")

	default:
		return fmt.Errorf("unknown opcode %v", in.Op)
	}
	m.PC = next
	return nil
}

// Run steps until the machine halts, an instruction fails, or the step limit
// is reached.
func (m *Machine) Run() error {
	limit := m.MaxSteps
	if limit == 0 {
		limit = DefaultMaxSteps
	}
	for !m.Halted {
		if m.Steps >= limit {
			return fmt.Errorf("after %d instructions at pc %d: %w", m.Steps, m.PC, ErrStepLimit)
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
