package codegen

// Conditional code is laid out as
//
//	cond
//	JPF cond, F     <- reserved by save
//	...then...
//	JP  E           <- reserved by if-jump, only with an else
//	F: ...else...
//	E:
//
// popCondition pops the reserved JPF slot and the condition below it.
func (g *Generator) popCondition() (Patch, Operand, error) {
	p, err := g.stack.popPatch()
	if err != nil {
		return Patch{}, Operand{}, err
	}
	cond, err := g.stack.popOperand()
	return p, cond, err
}

func (g *Generator) ifJump() error {
	p, cond, err := g.popCondition()
	if err != nil {
		return err
	}
	if err := g.block.Resolve(p, jpf(cond, g.block.Len()+1)); err != nil {
		return err
	}
	g.stack.push(g.block.Reserve())
	return nil
}

func (g *Generator) ifEnd() error {
	p, cond, err := g.popCondition()
	if err != nil {
		return err
	}
	return g.block.Resolve(p, jpf(cond, g.block.Len()))
}

func (g *Generator) elseJump() error {
	p, err := g.stack.popPatch()
	if err != nil {
		return err
	}
	return g.block.Resolve(p, jp(g.block.Len()))
}

// label opens a while or switch:
//
//	i:   JP i+2
//	i+1: JP exit    <- reserved, target of break
//	i+2: head       <- target of continue
func (g *Generator) label() error {
	i := g.block.Len()
	g.block.Emit(jp(i + 2))
	exit := g.block.Reserve()
	g.stack.push(label{head: i + 2, exit: exit})
	return nil
}

func (g *Generator) while() error {
	p, err := g.stack.popPatch()
	if err != nil {
		return err
	}
	if _, err := g.stack.popLoop(); err != nil {
		return err
	}
	cond, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	l, err := g.stack.popLabel()
	if err != nil {
		return err
	}
	if err := g.block.Resolve(p, jpf(cond, g.block.Len()+1)); err != nil {
		return err
	}
	g.block.Emit(jp(l.head))
	return g.block.Resolve(l.exit, jp(g.block.Len()))
}

func (g *Generator) continueLoop() error {
	l, ok := g.stack.nearestLoop(func(m loopMarker) bool { return m == markWhile })
	if !ok {
		return semanticf("No 'while' found for 'continue'.")
	}
	g.block.Emit(jp(l.head))
	return nil
}

func (g *Generator) breakLoop() error {
	l, ok := g.stack.nearestLoop(func(loopMarker) bool { return true })
	if !ok {
		return semanticf("No 'while' or 'switch' found for 'break'.")
	}
	g.block.Emit(jp(l.exit.Index()))
	return nil
}

// Each case is
//
//	EQ  x, lit, t
//	JPF t, next     <- reserved by switch-save
//	...body...
//	JP  body of the next case (fallthrough)
//	next:
func (g *Generator) switchSave() error {
	lit, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	m, err := g.stack.popLoop()
	if err != nil {
		return err
	}
	x, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	t := Abs(g.allocTemp())
	g.block.Emit(Instruction{Op: OpEq, A: x, B: lit, C: t})
	g.stack.push(x)
	g.stack.push(m)
	g.stack.push(t)
	g.stack.push(g.block.Reserve())
	return nil
}

func (g *Generator) caseEnd() error {
	p, t, err := g.popCondition()
	if err != nil {
		return err
	}
	if err := g.block.Resolve(p, jpf(t, g.block.Len()+1)); err != nil {
		return err
	}
	g.block.Emit(jp(g.block.Len() + 3))
	return nil
}

func (g *Generator) switchEnd() error {
	if _, err := g.stack.popLoop(); err != nil {
		return err
	}
	if _, err := g.stack.popOperand(); err != nil {
		return err
	}
	l, err := g.stack.popLabel()
	if err != nil {
		return err
	}
	return g.block.Resolve(l.exit, jp(g.block.Len()))
}
