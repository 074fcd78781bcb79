package codegen

import "fmt"

// cell is one entry of the semantic stack. The set of implementations is
// closed: every routine pops through a typed helper below.
type cell interface {
	cellName() string
}

// name is raw identifier text pushed by the parser.
type name string

// opMarker records a pending operator between two operands.
type opMarker string

const (
	markMinus opMarker = "-"
	markLess  opMarker = "<"
	markEqual opMarker = "=="
)

// loopMarker opens a construct that break (and, for while, continue) can
// leave.
type loopMarker string

const (
	markWhile  loopMarker = "while"
	markSwitch loopMarker = "switch"
)

// label is pushed by the label routine: head is where continue jumps, exit is
// the slot that break jumps to and that is resolved once the construct ends.
type label struct {
	head int
	exit Patch
}

// funcDecl is live between the opening parenthesis of a definition and the
// end of its parameter list.
type funcDecl struct {
	name      string
	ret       Type
	skip      Patch
	frameBase int
	params    int
}

// funcFrame is live for the body of a definition.
type funcFrame struct {
	name       string
	skip       Patch
	returnSlot int
	exits      []Patch // return statements of main, resolved at end-func
}

// callSite is live between the parentheses of a call.
type callSite struct {
	callee    string
	entry     int
	next      int // next parameter slot
	remaining int
	retSlot   int
}

func (Operand) cellName() string    { return "operand" }
func (Type) cellName() string       { return "type" }
func (name) cellName() string       { return "name" }
func (opMarker) cellName() string   { return "operator" }
func (loopMarker) cellName() string { return "loop marker" }
func (label) cellName() string      { return "label" }
func (Patch) cellName() string      { return "patch" }
func (*funcDecl) cellName() string  { return "function declaration" }
func (*funcFrame) cellName() string { return "function frame" }
func (*callSite) cellName() string  { return "call site" }

type semanticStack struct {
	cells []cell
}

func (s *semanticStack) push(c cell) { s.cells = append(s.cells, c) }

func (s *semanticStack) len() int { return len(s.cells) }

func (s *semanticStack) pop() (cell, error) {
	if len(s.cells) == 0 {
		return nil, fmt.Errorf("semantic stack underflow")
	}
	c := s.cells[len(s.cells)-1]
	s.cells = s.cells[:len(s.cells)-1]
	return c, nil
}

// peek returns the cell depth positions below the top; peek(0) is the top.
func (s *semanticStack) peek(depth int) (cell, bool) {
	i := len(s.cells) - 1 - depth
	if i < 0 {
		return nil, false
	}
	return s.cells[i], true
}

func mismatch(want string, got cell) error {
	return fmt.Errorf("semantic stack: expected %s, found %s", want, got.cellName())
}

// popAs pops the top cell and asserts its variant.
func popAs[T cell](s *semanticStack, want string) (T, error) {
	var zero T
	c, err := s.pop()
	if err != nil {
		return zero, err
	}
	v, ok := c.(T)
	if !ok {
		return zero, mismatch(want, c)
	}
	return v, nil
}

func (s *semanticStack) popOperand() (Operand, error) { return popAs[Operand](s, "operand") }
func (s *semanticStack) popType() (Type, error) { return popAs[Type](s, "type") }
func (s *semanticStack) popName() (string, error) {
	n, err := popAs[name](s, "name")
	return string(n), err
}
func (s *semanticStack) popPatch() (Patch, error) { return popAs[Patch](s, "patch") }
func (s *semanticStack) popLabel() (label, error) { return popAs[label](s, "label") }
func (s *semanticStack) popLoop() (loopMarker, error) { return popAs[loopMarker](s, "loop marker") }
func (s *semanticStack) popOp() (opMarker, error) { return popAs[opMarker](s, "operator") }
func (s *semanticStack) popFuncDecl() (*funcDecl, error) { return popAs[*funcDecl](s, "function declaration") }
func (s *semanticStack) popFuncFrame() (*funcFrame, error) { return popAs[*funcFrame](s, "function frame") }
func (s *semanticStack) popCall() (*callSite, error) { return popAs[*callSite](s, "call site") }

// nearestLoop finds the innermost loop marker accepted by match and returns
// the label two cells below it.
func (s *semanticStack) nearestLoop(match func(loopMarker) bool) (label, bool) {
	for i := len(s.cells) - 1; i >= 2; i-- {
		m, ok := s.cells[i].(loopMarker)
		if !ok || !match(m) {
			continue
		}
		if l, ok := s.cells[i-2].(label); ok {
			return l, true
		}
	}
	return label{}, false
}

// nearestFrame finds the innermost function frame.
func (s *semanticStack) nearestFrame() (*funcFrame, bool) {
	for i := len(s.cells) - 1; i >= 0; i-- {
		if f, ok := s.cells[i].(*funcFrame); ok {
			return f, true
		}
	}
	return nil, false
}
