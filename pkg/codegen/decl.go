package codegen

import "fmt"

func (g *Generator) intDec() error {
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	t, err := g.stack.popType()
	if err != nil {
		return err
	}
	if t == TypeVoid {
		return errVoid()
	}
	g.symbols.Define(Symbol{Name: n, Kind: KindScalar, Address: g.allocData(1), Size: 1})
	return nil
}

func (g *Generator) arrDec() error {
	count, err := g.stack.popOperand()
	if err != nil {
		return err
	}
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	t, err := g.stack.popType()
	if err != nil {
		return err
	}
	if t == TypeVoid {
		return errVoid()
	}
	if count.Mode != Immediate || count.Value < 0 {
		return fmt.Errorf("array %s: bad length %v", n, count)
	}
	g.symbols.Define(Symbol{Name: n, Kind: KindArray, Address: g.allocData(count.Value), Size: count.Value})
	return nil
}

func (g *Generator) startFuncDec() error {
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	t, err := g.stack.popType()
	if err != nil {
		return err
	}
	g.symbols.EnterScope()
	g.stack.push(&funcDecl{
		name:      n,
		ret:       t,
		skip:      g.block.Reserve(),
		frameBase: g.nextData,
	})
	return nil
}

// paramDec declares one parameter of the function being defined; kind is
// KindScalar or KindArrayRef.
func (g *Generator) paramDec(kind Kind) error {
	n, err := g.stack.popName()
	if err != nil {
		return err
	}
	t, err := g.stack.popType()
	if err != nil {
		return err
	}
	top, ok := g.stack.peek(0)
	if !ok {
		return fmt.Errorf("parameter %s outside a function declaration", n)
	}
	decl, ok := top.(*funcDecl)
	if !ok {
		return mismatch("function declaration", top)
	}
	decl.params++
	if t == TypeVoid {
		return errVoid()
	}
	g.symbols.Define(Symbol{Name: n, Kind: kind, Address: g.allocData(1), Size: 1})
	return nil
}

func (g *Generator) endFuncDec() error {
	// "(void)" leaves its type keyword behind.
	if top, ok := g.stack.peek(0); ok {
		if t, isType := top.(Type); isType && t == TypeVoid {
			g.stack.pop()
		}
	}
	decl, err := g.stack.popFuncDecl()
	if err != nil {
		return err
	}
	g.symbols.Outdent()
	fn := g.symbols.Define(Symbol{
		Name:    decl.name,
		Kind:    KindFunction,
		Address: decl.frameBase,
		Entry:   g.block.Len(),
		Return:  decl.ret,
		Params:  decl.params,
	})
	slot := g.allocData(2)
	if slot != fn.ReturnSlot() {
		return fmt.Errorf("function %s: frame of %d parameters at %d, return slot at %d", fn.Name, fn.Params, fn.Address, slot)
	}
	g.block.Emit(assign(Imm(0), Abs(slot+1)))
	g.stack.push(&funcFrame{name: decl.name, skip: decl.skip, returnSlot: slot})
	return nil
}

func (g *Generator) endFunc() error {
	frame, err := g.stack.popFuncFrame()
	if err != nil {
		return err
	}
	if frame.name == "main" {
		for _, p := range frame.exits {
			if err := g.block.Resolve(p, jp(g.block.Len())); err != nil {
				return err
			}
		}
	} else {
		g.block.Emit(Instruction{Op: OpJp, A: Ind(frame.returnSlot)})
	}
	return g.block.Resolve(frame.skip, jp(g.block.Len()))
}

func (g *Generator) endScope() error {
	if g.symbols.Depth() == 0 {
		return fmt.Errorf("scope closed at global depth")
	}
	g.symbols.ExitScope()
	return nil
}

func (g *Generator) endProgram() error {
	main, ok := g.symbols.Function("main")
	if !ok {
		return errNoMain()
	}
	return g.block.Resolve(g.mainJump, jp(main.Entry))
}
