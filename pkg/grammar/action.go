package grammar

import "fmt"

// Action names a semantic routine of the code generator. Grammar rules refer
// to actions with a '#' prefix, e.g. "#int-dec".
type Action int

const (
	ActNone Action = iota

	// Declarations and scopes
	ActIntDec
	ActArrDec
	ActStartFuncDec
	ActFuncIntDec
	ActFuncArrDec
	ActEndFuncDec
	ActEndFunc
	ActStartScope
	ActEndScope

	// Operands and expressions
	ActGetInt
	ActGetArr
	ActAssign
	ActNegate
	ActMultiply
	ActSubChar
	ActCheckNegate
	ActAddOp
	ActLtChar
	ActEqChar
	ActRelOp
	ActPop

	// Calls and returns
	ActStartCall
	ActAddCallArg
	ActEndCall
	ActReturnValue
	ActReturnCall
	ActEndProgram

	// Control flow
	ActSave
	ActIfJump
	ActIfEnd
	ActElseJump
	ActLabel
	ActWhileSave
	ActWhile
	ActContinue
	ActBreak
	ActStartSwitch
	ActSwitchSave
	ActCase
	ActAdd2
	ActSwitch

	numActions
)

var actionNames = [...]string{
	ActNone:         "",
	ActIntDec:       "int-dec",
	ActArrDec:       "arr-dec",
	ActStartFuncDec: "start-func-dec",
	ActFuncIntDec:   "func-int-dec",
	ActFuncArrDec:   "func-arr-dec",
	ActEndFuncDec:   "end-func-dec",
	ActEndFunc:      "end-func",
	ActStartScope:   "start-scope",
	ActEndScope:     "end-scope",
	ActGetInt:       "get-int",
	ActGetArr:       "get-arr",
	ActAssign:       "assign",
	ActNegate:       "negate",
	ActMultiply:     "multiply",
	ActSubChar:      "sub-char",
	ActCheckNegate:  "check-negate",
	ActAddOp:        "addop",
	ActLtChar:       "lt-char",
	ActEqChar:       "eq-char",
	ActRelOp:        "relop",
	ActPop:          "pop",
	ActStartCall:    "start-call",
	ActAddCallArg:   "add-call-arg",
	ActEndCall:      "end-call",
	ActReturnValue:  "return-value",
	ActReturnCall:   "return-call",
	ActEndProgram:   "end-program",
	ActSave:         "save",
	ActIfJump:       "if-jump",
	ActIfEnd:        "if-end",
	ActElseJump:     "else-jump",
	ActLabel:        "label",
	ActWhileSave:    "while-save",
	ActWhile:        "while",
	ActContinue:     "continue",
	ActBreak:        "break",
	ActStartSwitch:  "start-switch",
	ActSwitchSave:   "switch-save",
	ActCase:         "case",
	ActAdd2:         "add2",
	ActSwitch:       "switch",
}

// the array literal above must cover every action
var _ = [1]struct{}{}[len(actionNames)-int(numActions)]

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		if name != "" {
			m[name] = Action(a)
		}
	}
	return m
}()

// ParseAction resolves a tag name (without the leading '#').
func ParseAction(name string) (Action, bool) {
	a, ok := actionsByName[name]
	return a, ok
}

func (a Action) String() string {
	if a > ActNone && a < numActions {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}
