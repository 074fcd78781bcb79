package codegen

import "fmt"

// SemanticError is a diagnostic about the meaning of a well-formed program.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string { return e.Msg }

func semanticf(format string, args ...any) *SemanticError {
	return &SemanticError{Msg: fmt.Sprintf(format, args...)}
}

func errVoid() error { return semanticf("Illegal type of void.") }
func errUndefined(n string) error { return semanticf("'%s' is not defined.", n) }
func errMismatch() error { return semanticf("Type mismatch in operands.") }
func errArgCount(f string) error { return semanticf("Mismatch in numbers of arguments of '%s'.", f) }
func errNoMain() error { return semanticf("main function not found!") }
func errRange(lit string) error { return semanticf("'%s' is out of range.", lit) }
