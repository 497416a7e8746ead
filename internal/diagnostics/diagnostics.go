// Package diagnostics implements the fault taxonomy inference can raise.
// Unlike an analyzer that collects many diagnostics and keeps going,
// inference here is fatal on the first fault: there is exactly one error
// in flight per run, surfaced as a single Fault.
package diagnostics

import (
	"fmt"

	"github.com/halcyonlang/halcyon/internal/token"
)

// Code identifies a fault kind. Values are stable and safe to switch on.
type Code string

const (
	CodeUninitializedConstant Code = "uninitialized_constant"
	CodeUndefinedMethod       Code = "undefined_method"
	CodeUndefinedLocal        Code = "undefined_local_or_method"
	CodeSuperclassMismatch    Code = "superclass_mismatch"
	CodeArityMismatch         Code = "arity_mismatch"
)

// Fault is the single fatal error an inference run can produce. It
// implements error so it can be returned/wrapped through normal Go error
// handling, and carries enough structure (Code, Position, RunID) for a
// caller to format it however it likes.
type Fault struct {
	Code     Code
	Message  string
	Position token.Position
	RunID    string
}

func (f *Fault) Error() string {
	if f.Position.Known() {
		return fmt.Sprintf("%s: %s", f.Position, f.Message)
	}
	return f.Message
}

// UninitializedConstant builds the "uninitialized constant <Name>" fault
//.
func UninitializedConstant(name string, pos token.Position) *Fault {
	return &Fault{
		Code:     CodeUninitializedConstant,
		Message:  fmt.Sprintf("uninitialized constant %s", name),
		Position: pos,
	}
}

// UndefinedMethod builds the "undefined method '<name>' for <TypeName>"
// fault.
func UndefinedMethod(name, typeName string, pos token.Position) *Fault {
	return &Fault{
		Code:     CodeUndefinedMethod,
		Message:  fmt.Sprintf("undefined method '%s' for %s", name, typeName),
		Position: pos,
	}
}

// UndefinedLocal builds the "undefined local variable or method '<name>'"
// fault.
func UndefinedLocal(name string, pos token.Position) *Fault {
	return &Fault{
		Code:     CodeUndefinedLocal,
		Message:  fmt.Sprintf("undefined local variable or method '%s'", name),
		Position: pos,
	}
}

// SuperclassMismatch builds the
// "superclass mismatch for class <C> (<ExpectedParent> for <ActualParent>)"
// fault. expected is the superclass named on the reopening declaration,
// actual is the one the class already has from its first declaration.
func SuperclassMismatch(class, expected, actual string, pos token.Position) *Fault {
	return &Fault{
		Code:     CodeSuperclassMismatch,
		Message:  fmt.Sprintf("superclass mismatch for class %s (%s for %s)", class, expected, actual),
		Position: pos,
	}
}

// ArityMismatch builds the "wrong number of arguments" fault.
func ArityMismatch(pos token.Position) *Fault {
	return &Fault{
		Code:     CodeArityMismatch,
		Message:  "wrong number of arguments",
		Position: pos,
	}
}
