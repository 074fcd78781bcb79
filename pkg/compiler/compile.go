package compiler

import (
	"io"
	"log"

	"github.com/aliasadiiii/CompilerProject/pkg/codegen"
	"github.com/aliasadiiii/CompilerProject/pkg/grammar"
	"github.com/aliasadiiii/CompilerProject/pkg/listing"
	"github.com/aliasadiiii/CompilerProject/pkg/parser"
	"github.com/aliasadiiii/CompilerProject/pkg/scanner"
	"github.com/aliasadiiii/CompilerProject/pkg/vm"
)

const (
	msgEndOfFile = "Syntax Error! Unexpected EndOfFile"
	msgMalformed = "Syntax Error! Malformed Input"
)

type options struct {
	cfg     codegen.Config
	grammar *grammar.Grammar
	trace   *log.Logger
}

// Option configures a Compilation.
type Option func(*options)

// WithDataBase sets the first address of program data. The frame of output
// occupies the first three addresses.
func WithDataBase(addr int) Option {
	return func(o *options) { o.cfg.DataBase = addr }
}

// WithTempBase sets the first temporary address.
func WithTempBase(addr int) Option {
	return func(o *options) { o.cfg.TempBase = addr }
}

// WithGrammar replaces the built-in grammar.
func WithGrammar(g *grammar.Grammar) Option {
	return func(o *options) { o.grammar = g }
}

// WithTrace logs every parser step.
func WithTrace(l *log.Logger) Option {
	return func(o *options) { o.trace = l }
}

// Compilation owns every piece of state of one run. Independent compilations
// share nothing.
type Compilation struct {
	src     *scanner.Scanner
	parser  *parser.Parser
	gen     *codegen.Generator
	lexical Diagnostics
	syntax  Diagnostics
	sem     Diagnostics

	// failures counts recoveries since the last consumed token.
	failures int
}

func NewCompilation(src string, opts ...Option) *Compilation {
	o := options{cfg: codegen.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.grammar == nil {
		o.grammar = grammar.Default()
	}
	var popts []parser.Option
	if o.trace != nil {
		popts = append(popts, parser.WithTrace(o.trace))
	}
	gen := codegen.New(o.cfg)
	return &Compilation{
		src:    scanner.New(src),
		gen:    gen,
		parser: parser.New(o.grammar, gen, popts...),
	}
}

// Compile runs a whole compilation of src.
func Compile(src string, opts ...Option) *Result {
	return NewCompilation(src, opts...).Run()
}

// Run consumes the entire source. It always returns a result, whatever errors
// were found.
func (c *Compilation) Run() *Result {
	var tok scanner.Token
	for {
		tok = c.src.NextSignificant(func(e *scanner.Error) {
			c.lexical = append(c.lexical, Diagnostic{Line: e.Line, Msg: e.Error()})
		})
		if tok.Kind == scanner.EOF {
			break
		}
		c.feed(tok)
	}
	c.finish(tok.Line)

	return &Result{
		Program:    c.gen.Program().Instructions(),
		Unresolved: c.gen.Program().Unresolved(),
		Lexical:    c.lexical,
		Syntax:     c.syntax,
		Semantic:   c.sem,
		Tree:       c.parser.Trace(),
		Symbols:    c.gen.Symbols().String(),
	}
}

// feed advances the parser until tok is consumed or dropped.
func (c *Compilation) feed(tok scanner.Token) {
	terminal := tok.Terminal()
	for {
		step, err := c.parser.Advance(terminal, tok.Lexeme)
		c.semantic(err, tok.Line)
		switch step.Kind {
		case parser.Consumed:
			c.failures = 0
			return
		case parser.Missing:
			c.syntaxError(tok.Line, step.Message)
		case parser.Unexpected:
			c.syntaxError(tok.Line, step.Message)
			return
		}
	}
}

// finish feeds the end marker until the parse stack is empty.
func (c *Compilation) finish(line int) {
	for !c.parser.Done() {
		step, err := c.parser.Advance(scanner.TerminalEnd, scanner.TerminalEnd)
		c.semantic(err, line)
		switch step.Kind {
		case parser.Missing:
			c.syntaxError(line, step.Message)
		case parser.Unexpected:
			if c.failures > 0 {
				c.syntax = append(c.syntax, Diagnostic{Line: line, Msg: msgEndOfFile})
			} else {
				c.syntax = append(c.syntax, Diagnostic{Line: line, Msg: msgMalformed})
			}
			return
		}
	}
}

func (c *Compilation) syntaxError(line int, msg string) {
	c.syntax = append(c.syntax, Diagnostic{Line: line, Msg: msg})
	c.failures++
}

// semantic records an error returned by a code generation routine. Errors
// that only say the semantic stack lost its shape are expected after syntax
// recovery and are kept only when the parse had been clean.
func (c *Compilation) semantic(err error, line int) {
	if err == nil {
		return
	}
	if !codegen.IsSemantic(err) && len(c.syntax) > 0 {
		return
	}
	c.sem = append(c.sem, Diagnostic{Line: line, Msg: err.Error()})
}

// Result is the outcome of a compilation.
type Result struct {
	Program    []codegen.Instruction
	Unresolved []int // reserved slots left as placeholders after a failure
	Lexical    Diagnostics
	Syntax     Diagnostics
	Semantic   Diagnostics
	Tree       []parser.Node
	Symbols    string // symbol table dump at the end of the run
}

// OK reports whether no diagnostics were raised.
func (r *Result) OK() bool {
	return len(r.Lexical) == 0 && len(r.Syntax) == 0 && len(r.Semantic) == 0
}

// WriteProgram writes the instruction listing.
func (r *Result) WriteProgram(w io.Writer) error {
	return listing.Write(w, r.Program)
}

// WriteErrors writes lexical, then syntax, then semantic diagnostics.
func (r *Result) WriteErrors(w io.Writer) error {
	return writeListings(w, r.Lexical, r.Syntax, r.Semantic)
}

// Execute runs the program on a fresh machine, printing to out. maxSteps of
// zero uses the machine's default limit.
func (r *Result) Execute(out io.Writer, maxSteps int) (*vm.Machine, error) {
	m := vm.NewMachine(r.Program)
	m.Output = out
	m.MaxSteps = maxSteps
	return m, m.Run()
}
