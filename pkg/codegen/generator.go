// Package codegen turns semantic actions fired by the parser into three-address
// code.
//
// The generator is a stack machine: the parser pushes identifier text, type
// keywords and number literals, and each action pops the cells it needs,
// emits instructions into the ProgramBlock and pushes its result. Jumps whose
// target is not known yet are reserved and resolved once the construct closes.
package codegen

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
)

// Config sets the start of the two address ranges.
type Config struct {
	DataBase int // variables, parameters and function frames
	TempBase int // temporaries
}

func DefaultConfig() Config {
	return Config{DataBase: 200, TempBase: 500}
}

// OutputFunc is the predeclared printing function.
const OutputFunc = "output"

// Generator owns the semantic stack, the symbol table and the program block
// of one compilation.
type Generator struct {
	cfg     Config
	block   *ProgramBlock
	symbols *SymbolTable
	stack   semanticStack

	nextData int
	nextTemp int

	mainJump Patch
	failed   bool
}

// New returns a generator whose program block already holds the slot for the
// jump to main and the body of output.
func New(cfg Config) *Generator {
	g := &Generator{
		cfg:      cfg,
		block:    NewProgramBlock(),
		symbols:  NewSymbolTable(),
		nextData: cfg.DataBase,
		nextTemp: cfg.TempBase,
	}
	g.mainJump = g.block.Reserve()

	// output(x): parameter, return address, result.
	frame := g.allocData(3)
	entry := g.block.Emit(assign(Imm(0), Abs(frame+2)))
	g.block.Emit(Instruction{Op: OpPrint, A: Abs(frame)})
	g.block.Emit(Instruction{Op: OpJp, A: Ind(frame + 1)})
	g.symbols.Define(Symbol{
		Name:    OutputFunc,
		Kind:    KindFunction,
		Address: frame,
		Entry:   entry,
		Return:  TypeVoid,
		Params:  1,
	})
	return g
}

// Program is the code generated so far.
func (g *Generator) Program() *ProgramBlock { return g.block }

// Symbols is the symbol table; entries of closed scopes are gone.
func (g *Generator) Symbols() *SymbolTable { return g.symbols }

// Failed reports whether a routine has failed. Once it has, Run does nothing.
func (g *Generator) Failed() bool { return g.failed }

// Depth is the number of cells on the semantic stack.
func (g *Generator) Depth() int { return g.stack.len() }

// PushText bridges an ID or type keyword token onto the semantic stack.
func (g *Generator) PushText(text string) {
	if g.failed {
		return
	}
	switch text {
	case "int":
		g.stack.push(TypeInt)
	case "void":
		g.stack.push(TypeVoid)
	default:
		g.stack.push(name(text))
	}
}

// PushNumber bridges a NUM token as an immediate operand.
func (g *Generator) PushNumber(text string) error {
	if g.failed {
		return nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		g.failed = true
		return errRange(text)
	}
	g.stack.push(Imm(n))
	return nil
}

// Run executes the routine bound to a. A returned *SemanticError is a
// diagnostic for the program; any other error means the semantic stack did
// not have the expected shape. Either way every later call is a no-op.
func (g *Generator) Run(a grammar.Action) error {
	if g.failed {
		return nil
	}
	if err := g.dispatch(a); err != nil {
		g.failed = true
		return err
	}
	return nil
}

// IsSemantic reports whether err is a diagnostic rather than an internal
// failure.
func IsSemantic(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

func (g *Generator) dispatch(a grammar.Action) error {
	switch a {
	case grammar.ActIntDec:
		return g.intDec()
	case grammar.ActArrDec:
		return g.arrDec()
	case grammar.ActStartFuncDec:
		return g.startFuncDec()
	case grammar.ActFuncIntDec:
		return g.paramDec(KindScalar)
	case grammar.ActFuncArrDec:
		return g.paramDec(KindArrayRef)
	case grammar.ActEndFuncDec:
		return g.endFuncDec()
	case grammar.ActEndFunc:
		return g.endFunc()
	case grammar.ActStartScope:
		g.symbols.EnterScope()
		return nil
	case grammar.ActEndScope:
		return g.endScope()

	case grammar.ActGetInt:
		return g.getInt()
	case grammar.ActGetArr:
		return g.getArr()
	case grammar.ActAssign:
		return g.assign()
	case grammar.ActNegate:
		return g.negate()
	case grammar.ActMultiply:
		return g.binary(OpMult)
	case grammar.ActSubChar:
		g.stack.push(markMinus)
		return nil
	case grammar.ActCheckNegate:
		return g.checkNegate()
	case grammar.ActAddOp:
		return g.binary(OpAdd)
	case grammar.ActLtChar:
		g.stack.push(markLess)
		return nil
	case grammar.ActEqChar:
		g.stack.push(markEqual)
		return nil
	case grammar.ActRelOp:
		return g.relop()
	case grammar.ActPop:
		_, err := g.stack.popOperand()
		return err

	case grammar.ActStartCall:
		return g.startCall()
	case grammar.ActAddCallArg:
		return g.addCallArg()
	case grammar.ActEndCall:
		return g.endCall()
	case grammar.ActReturnValue:
		return g.returnValue()
	case grammar.ActReturnCall:
		return g.returnCall()
	case grammar.ActEndProgram:
		return g.endProgram()

	case grammar.ActSave:
		g.stack.push(g.block.Reserve())
		return nil
	case grammar.ActIfJump:
		return g.ifJump()
	case grammar.ActIfEnd:
		return g.ifEnd()
	case grammar.ActElseJump:
		return g.elseJump()
	case grammar.ActLabel:
		return g.label()
	case grammar.ActWhileSave:
		g.stack.push(markWhile)
		g.stack.push(g.block.Reserve())
		return nil
	case grammar.ActWhile:
		return g.while()
	case grammar.ActContinue:
		return g.continueLoop()
	case grammar.ActBreak:
		return g.breakLoop()
	case grammar.ActStartSwitch:
		g.stack.push(markSwitch)
		return nil
	case grammar.ActSwitchSave:
		return g.switchSave()
	case grammar.ActCase:
		return g.caseEnd()
	case grammar.ActAdd2:
		g.block.Emit(jp(g.block.Len() + 1))
		g.block.Emit(jp(g.block.Len() + 1))
		return nil
	case grammar.ActSwitch:
		return g.switchEnd()
	}
	return fmt.Errorf("no routine for action %v", a)
}

func (g *Generator) allocData(n int) int {
	addr := g.nextData
	g.nextData += n
	return addr
}

func (g *Generator) allocTemp() int {
	addr := g.nextTemp
	g.nextTemp++
	return addr
}

// emitTemp emits op a, b -> t for a fresh temporary t and pushes t.
func (g *Generator) emitTemp(op Op, a, b Operand) {
	t := Abs(g.allocTemp())
	g.block.Emit(Instruction{Op: op, A: a, B: b, C: t})
	g.stack.push(t)
}
