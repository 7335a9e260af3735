// Package ir defines the instruction set the VM executes, and the
// module/package/import-graph model a frontend lowers its source into.
//
// Modeled as typed nodes assembled by a builder, then traversed by a
// DFS loader, generalized into a flat operation sequence plus a module
// import graph.
package ir

import "github.com/intuicio-go/intuicio/registry"

// Opcode is the stable textual label an operation reports for
// persistence and inter-component exchange; wire formats built on top
// of it are frontend-owned.
type Opcode string

const (
	OpExpression                  Opcode = "expression"
	OpDefineRegister               Opcode = "define_register"
	OpDropRegister                 Opcode = "drop_register"
	OpPushFromRegister             Opcode = "push_from_register"
	OpPopToRegister                Opcode = "pop_to_register"
	OpMoveRegister                 Opcode = "move_register"
	OpCallFunction                 Opcode = "call_function"
	OpBranchScope                  Opcode = "branch_scope"
	OpLoopScope                    Opcode = "loop_scope"
	OpPushScope                    Opcode = "push_scope"
	OpPopScope                     Opcode = "pop_scope"
	OpContinueScopeConditionally   Opcode = "continue_scope_conditionally"
	OpSuspend                      Opcode = "suspend"
)

// ScriptOperation is the closed set of IR instructions; every concrete
// type below implements it. The set is sealed by convention (unexported
// marker method) since vm.Interpreter's type switch must be exhaustive.
type ScriptOperation interface {
	Opcode() Opcode
	isScriptOperation()
}

// Expression runs a host-provided closure that may push or pop
// arbitrary values on the active Context's stack.
type Expression struct {
	Eval func(ctx any) error
}

func (Expression) Opcode() Opcode   { return OpExpression }
func (Expression) isScriptOperation() {}

// DefineRegister resolves Query against the Registry and pushes a new,
// uninitialized register slot of that type.
type DefineRegister struct {
	Query registry.Query
}

func (DefineRegister) Opcode() Opcode   { return OpDefineRegister }
func (DefineRegister) isScriptOperation() {}

// DropRegister finalizes the value held in register Index; the slot
// itself remains reserved.
type DropRegister struct {
	Index int
}

func (DropRegister) Opcode() Opcode   { return OpDropRegister }
func (DropRegister) isScriptOperation() {}

// PushFromRegister copies register Index's payload onto the stack,
// leaving the register uninitialized.
type PushFromRegister struct {
	Index int
}

func (PushFromRegister) Opcode() Opcode   { return OpPushFromRegister }
func (PushFromRegister) isScriptOperation() {}

// PopToRegister copies the top stack value into register Index,
// finalizing the register's prior contents first.
type PopToRegister struct {
	Index int
}

func (PopToRegister) Opcode() Opcode   { return OpPopToRegister }
func (PopToRegister) isScriptOperation() {}

// MoveRegister moves a payload between two register slots, finalizing
// To's prior contents first (from == to is a no-op; moving from an
// uninitialized From is an error).
type MoveRegister struct {
	From, To int
}

func (MoveRegister) Opcode() Opcode   { return OpMoveRegister }
func (MoveRegister) isScriptOperation() {}

// CallFunction resolves a function via Query and invokes it with the
// active Context and Registry.
type CallFunction struct {
	Query registry.Query
}

func (CallFunction) Opcode() Opcode   { return OpCallFunction }
func (CallFunction) isScriptOperation() {}

// BranchScope pops a boolean and enters Success as a new scope if it
// was true, otherwise Failure (when present; if absent and the
// condition was false, no scope is entered).
type BranchScope struct {
	Success Script
	Failure Script
}

func (BranchScope) Opcode() Opcode   { return OpBranchScope }
func (BranchScope) isScriptOperation() {}

// LoopScope enters Body repeatedly; Body breaks out by executing
// ContinueScopeConditionally with a false condition.
type LoopScope struct {
	Body Script
}

func (LoopScope) Opcode() Opcode   { return OpLoopScope }
func (LoopScope) isScriptOperation() {}

// PushScope enters Body as an unconditional nested scope.
type PushScope struct {
	Body Script
}

func (PushScope) Opcode() Opcode   { return OpPushScope }
func (PushScope) isScriptOperation() {}

// PopScope returns from the current scope early, as if its body had
// run to completion.
type PopScope struct{}

func (PopScope) Opcode() Opcode   { return OpPopScope }
func (PopScope) isScriptOperation() {}

// ContinueScopeConditionally pops a boolean; false exits the nearest
// loop scope (or returns from the current function if there is none).
type ContinueScopeConditionally struct{}

func (ContinueScopeConditionally) Opcode() Opcode   { return OpContinueScopeConditionally }
func (ContinueScopeConditionally) isScriptOperation() {}

// Suspend is a cooperative yield point; the reference interpreter
// treats it as a no-op sentinel a host-supplied Driver may observe.
type Suspend struct{}

func (Suspend) Opcode() Opcode   { return OpSuspend }
func (Suspend) isScriptOperation() {}
