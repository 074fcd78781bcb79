package codegen

import "fmt"

// getInt replaces a name with the operand that reads it.
func (g *Generator) getInt() error {
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	sym, ok := g.symbols.Lookup(n)
	if !ok {
		return errUndefined(n)
	}
	switch sym.Kind {
	case KindScalar, KindArrayRef:
		g.stack.push(Abs(sym.Address))
	case KindArray:
		// arrays are passed by address
		g.stack.push(Imm(sym.Address))
	default:
		return errMismatch()
	}
	return nil
}

// getArr replaces name, index with an indirect operand for the element.
func (g *Generator) getArr() error {
	idx, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	sym, ok := g.symbols.Lookup(n)
	if !ok {
		return errUndefined(n)
	}
	var base Operand
	switch sym.Kind {
	case KindArray:
		base = Imm(sym.Address)
	case KindArrayRef:
		base = Abs(sym.Address)
	default:
		return errMismatch()
	}
	t := g.allocTemp()
	g.block.Emit(Instruction{Op: OpAdd, A: idx, B: base, C: Abs(t)})
	g.stack.push(Ind(t))
	return nil
}

func (g *Generator) assign() error {
	src, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	dst, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	if !dst.Writable() {
		return errMismatch()
	}
	g.block.Emit(assign(src, dst))
	g.stack.push(dst)
	return nil
}

func (g *Generator) negate() error {
	x, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	g.emitTemp(OpSub, Imm(0), x)
	return nil
}

// binary pops b then a and pushes the temporary holding a op b.
func (g *Generator) binary(op Op) error {
	b, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	a, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	g.emitTemp(op, a, b)
	return nil
}

// checkNegate folds a pending '-' into the term above it, so that the
// following addop always adds.
func (g *Generator) checkNegate() error {
	below, ok := g.stack.peek(1)
	if !ok {
		return nil
	}
	if m, isOp := below.(opMarker); !isOp || m != markMinus {
		return nil
	}
	x, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	g.stack.pop()
	g.emitTemp(OpSub, Imm(0), x)
	return nil
}

func (g *Generator) relop() error {
	b, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	m, err := g.stack.popOp()
	if err != nil {
		return err
	}
	a, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	switch m {
	case markLess:
		g.emitTemp(OpLt, a, b)
	case markEqual:
		g.emitTemp(OpEq, a, b)
	default:
		return fmt.Errorf("relop: unexpected operator %q", m)
	}
	return nil
}

func (g *Generator) startCall() error {
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	sym, ok := g.symbols.Lookup(n)
	if !ok {
		return errUndefined(n)
	}
	if sym.Kind != KindFunction {
		return errMismatch()
	}
	g.stack.push(&callSite{
		callee:    sym.Name,
		entry:     sym.Entry,
		next:      sym.Address,
		remaining: sym.Params,
		retSlot:   sym.ReturnSlot(),
	})
	return nil
}

func (g *Generator) addCallArg() error {
	arg, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	top, ok := g.stack.peek(0)
	if !ok {
		return fmt.Errorf("argument outside a call")
	}
	call, ok := top.(*callSite)
	if !ok {
		return mismatch("call site", top)
	}
	if call.remaining == 0 {
		return errArgCount(call.callee)
	}
	g.block.Emit(assign(arg, Abs(call.next)))
	call.next++
	call.remaining--
	return nil
}

func (g *Generator) endCall() error {
	call, err := g.stack.popCall()
	if err != nil {
		return err
	}
	if call.remaining != 0 {
		return errArgCount(call.callee)
	}
	i := g.block.Len()
	g.block.Emit(assign(Imm(i+2), Abs(call.retSlot)))
	g.block.Emit(jp(call.entry))
	t := Abs(g.allocTemp())
	g.block.Emit(assign(Abs(call.retSlot+1), t))
	g.stack.push(t)
	return nil
}

func (g *Generator) returnValue() error {
	x, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	frame, ok := g.stack.nearestFrame()
	if !ok {
		return fmt.Errorf("return outside a function")
	}
	g.block.Emit(assign(x, Abs(frame.returnSlot+1)))
	return nil
}

func (g *Generator) returnCall() error {
	frame, ok := g.stack.nearestFrame()
	if !ok {
		return fmt.Errorf("return outside a function")
	}
	if frame.name == "main" {
		frame.exits = append(frame.exits, g.block.Reserve())
		return nil
	}
	g.block.Emit(Instruction{Op: OpJp, A: Ind(frame.returnSlot)})
	return nil
}
