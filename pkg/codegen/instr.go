package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a three-address opcode. The zero Op marks a placeholder slot.
type Op int

const (
	OpNone Op = iota
	OpAdd
	OpMult
	OpSub
	OpEq
	OpLt
	OpAssign
	OpJpf
	OpJp
	OpPrint
)

var opNames = [...]string{
	OpNone:   "",
	OpAdd:    "ADD",
	OpMult:   "MULT",
	OpSub:    "SUB",
	OpEq:     "EQ",
	OpLt:     "LT",
	OpAssign: "ASSIGN",
	OpJpf:    "JPF",
	OpJp:     "JP",
	OpPrint:  "PRINT",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp resolves a mnemonic such as "ASSIGN".
func ParseOp(s string) (Op, bool) {
	for op := OpAdd; int(op) < len(opNames); op++ {
		if opNames[op] == s {
			return op, true
		}
	}
	return OpNone, false
}

// Mode is the addressing mode of an operand.
type Mode int

const (
	ModeNone Mode = iota
	Absolute
	Immediate
	Indirect
)

// Operand is one field of an instruction: "n" absolute, "#n" immediate,
// "@n" indirect, "" empty.
type Operand struct {
	Mode  Mode
	Value int
}

func Abs(addr int) Operand { return Operand{Mode: Absolute, Value: addr} }
func Imm(n int) Operand    { return Operand{Mode: Immediate, Value: n} }
func Ind(addr int) Operand { return Operand{Mode: Indirect, Value: addr} }

// IsNone reports whether the field is empty.
func (o Operand) IsNone() bool { return o.Mode == ModeNone }

// Writable reports whether the operand can be the target of an assignment.
func (o Operand) Writable() bool { return o.Mode == Absolute || o.Mode == Indirect }

func (o Operand) String() string {
	switch o.Mode {
	case Absolute:
		return strconv.Itoa(o.Value)
	case Immediate:
		return "#" + strconv.Itoa(o.Value)
	case Indirect:
		return "@" + strconv.Itoa(o.Value)
	}
	return ""
}

// ParseOperand is the inverse of Operand.String.
func ParseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Operand{}, nil
	}
	mode := Absolute
	switch s[0] {
	case '#':
		mode, s = Immediate, s[1:]
	case '@':
		mode, s = Indirect, s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Operand{}, fmt.Errorf("invalid operand %q", s)
	}
	return Operand{Mode: mode, Value: n}, nil
}

// Instruction is a quadruple (Op, A, B, C).
type Instruction struct {
	Op      Op
	A, B, C Operand
}

// IsPlaceholder reports whether the slot was reserved and never filled.
func (in Instruction) IsPlaceholder() bool { return in.Op == OpNone }

func (in Instruction) String() string {
	return fmt.Sprintf("(%s,%s,%s,%s)", in.Op, in.A, in.B, in.C)
}

func jp(target int) Instruction { return Instruction{Op: OpJp, A: Abs(target)} }

func jpf(cond Operand, target int) Instruction {
	return Instruction{Op: OpJpf, A: cond, B: Abs(target)}
}

func assign(src, dst Operand) Instruction {
	return Instruction{Op: OpAssign, A: src, B: dst}
}
