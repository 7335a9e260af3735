package vm

import (
	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/ir"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/stack"
)

// BoolHash is the well-known type hash frontends use to push/pop the
// boolean conditions BranchScope and ContinueScopeConditionally consume.
var BoolHash = registry.HashType("", "bool", "native")

// ScopeKind distinguishes the three scope-nesting shapes the scope
// stack tracks; only ScopeLoop absorbs a break signal from
// ContinueScopeConditionally.
type ScopeKind int

const (
	ScopeNormal ScopeKind = iota
	ScopeBranch
	ScopeLoop
)

type scopeFrame struct {
	kind            ScopeKind
	storeToken      stack.StoreToken
	registersBefore int
}

// signal is the internal control-flow outcome of running one scope's
// operation list, threaded back through the call stack instead of a
// panic/recover pair.
type signal int

const (
	// sigNormal: every operation ran; fell off the end of the list.
	sigNormal signal = iota
	// sigPopScope: PopScope fired; consumed by the nearest enclosing
	// scope boundary, converting back to sigNormal there.
	sigPopScope
	// sigBreakLoop: ContinueScopeConditionally popped false; propagates
	// through any number of non-loop scopes until a ScopeLoop absorbs it,
	// or all the way out of Run — returning from the current function —
	// if there is no enclosing loop.
	sigBreakLoop
)

// Interpreter walks an ir.Script's operations against a Context and
// Registry. scopes is maintained purely for introspection (current
// nesting depth/kind); control flow itself is carried by runScope's
// return values, the Go-idiomatic substitute for the reference
// interpreter's enter/leave recursion.
type Interpreter struct {
	scopes []scopeFrame
	driver Driver
}

// NewInterpreter creates an Interpreter. driver may be nil, in which
// case Suspend is a pure no-op.
func NewInterpreter(driver Driver) *Interpreter {
	return &Interpreter{driver: driver}
}

// Run executes handle's script as the function's top-level (Normal)
// scope.
func (vmi *Interpreter) Run(ctx *Context, reg *registry.Registry, handle *ir.ScriptHandle) error {
	_, err := vmi.runScope(ctx, reg, handle.Script(), ScopeNormal)
	return err
}

// runScope stores the stack position and register count, runs ops, and
// restores both to that position — finalizing everything the scope
// created — only if the scope was broken out of by an enclosing loop's
// exit condition, or failed with an error. A normal fall-through, and a
// PopScope early return, both leave the scope's pushed values and
// defined registers visible to whatever continues after the scope: that
// is what lets a BranchScope arm's pushed result become the caller's new
// stack top, and a function's own top-level scope keep the registers
// (and any pushed return value) it defined for CallFunction's caller to
// read. PopScope only ends the current scope's own operation list early
// — "behaves as if its end was reached" — it is not an unwind signal, so
// it must not trigger a Restore. An error is treated as an early exit,
// so a failed scope still unwinds cleanly.
func (vmi *Interpreter) runScope(ctx *Context, reg *registry.Registry, ops ir.Script, kind ScopeKind) (signal, error) {
	tok := ctx.Stack.Store()
	registersBefore := len(ctx.registers)
	vmi.scopes = append(vmi.scopes, scopeFrame{kind: kind, storeToken: tok, registersBefore: registersBefore})
	defer func() { vmi.scopes = vmi.scopes[:len(vmi.scopes)-1] }()

	sig, err := vmi.execOps(ctx, reg, ops)

	if sig == sigPopScope {
		sig = sigNormal
	}

	earlyExit := err != nil || sig == sigBreakLoop

	if earlyExit {
		ctx.registers = ctx.registers[:registersBefore]
		if restoreErr := ctx.Stack.Restore(tok); restoreErr != nil && err == nil {
			err = restoreErr
		}
	}
	return sig, err
}

// runLoop repeatedly runs body as a ScopeLoop until it reports
// sigBreakLoop (ContinueScopeConditionally popped false) or an error.
func (vmi *Interpreter) runLoop(ctx *Context, reg *registry.Registry, body ir.Script) error {
	for {
		sig, err := vmi.runScope(ctx, reg, body, ScopeLoop)
		if err != nil {
			return err
		}
		if sig == sigBreakLoop {
			return nil
		}
	}
}

func (vmi *Interpreter) execOps(ctx *Context, reg *registry.Registry, ops ir.Script) (signal, error) {
	for _, op := range ops {
		switch o := op.(type) {
		case ir.Expression:
			if err := o.Eval(ctx); err != nil {
				return sigNormal, err
			}

		case ir.DefineRegister:
			t, ok := reg.FindType(o.Query)
			if !ok {
				return sigNormal, errs.ErrNotFound
			}
			idx, err := stack.PushRegisterRaw(ctx.Stack, t)
			if err != nil {
				return sigNormal, err
			}
			ctx.registers = append(ctx.registers, idx)

		case ir.DropRegister:
			idx, ok := ctx.registerAt(o.Index)
			if !ok {
				return sigNormal, errs.ErrInvariantViolated
			}
			if err := ctx.Stack.DropRegister(idx); err != nil {
				return sigNormal, err
			}

		case ir.PushFromRegister:
			idx, ok := ctx.registerAt(o.Index)
			if !ok {
				return sigNormal, errs.ErrInvariantViolated
			}
			if err := stack.PushFromRegister(ctx.Stack, idx); err != nil {
				return sigNormal, err
			}

		case ir.PopToRegister:
			idx, ok := ctx.registerAt(o.Index)
			if !ok {
				return sigNormal, errs.ErrInvariantViolated
			}
			if err := stack.PopToRegister(ctx.Stack, idx); err != nil {
				return sigNormal, err
			}

		case ir.MoveRegister:
			from, ok := ctx.registerAt(o.From)
			if !ok {
				return sigNormal, errs.ErrInvariantViolated
			}
			to, ok := ctx.registerAt(o.To)
			if !ok {
				return sigNormal, errs.ErrInvariantViolated
			}
			if err := stack.MoveRegister(ctx.Stack, from, to); err != nil {
				return sigNormal, err
			}

		case ir.CallFunction:
			if err := vmi.callFunction(ctx, reg, o.Query); err != nil {
				return sigNormal, err
			}

		case ir.BranchScope:
			cond, err := stack.Pop[bool](ctx.Stack, BoolHash)
			if err != nil {
				return sigNormal, err
			}
			var sig signal
			if cond {
				sig, err = vmi.runScope(ctx, reg, o.Success, ScopeBranch)
			} else if o.Failure != nil {
				sig, err = vmi.runScope(ctx, reg, o.Failure, ScopeBranch)
			}
			if err != nil || sig != sigNormal {
				return sig, err
			}

		case ir.LoopScope:
			if err := vmi.runLoop(ctx, reg, o.Body); err != nil {
				return sigNormal, err
			}

		case ir.PushScope:
			sig, err := vmi.runScope(ctx, reg, o.Body, ScopeNormal)
			if err != nil || sig != sigNormal {
				return sig, err
			}

		case ir.PopScope:
			return sigPopScope, nil

		case ir.ContinueScopeConditionally:
			cond, err := stack.Pop[bool](ctx.Stack, BoolHash)
			if err != nil {
				return sigNormal, err
			}
			if !cond {
				return sigBreakLoop, nil
			}

		case ir.Suspend:
			if vmi.driver != nil {
				vmi.driver.OnSuspend(ctx)
			}

		default:
			return sigNormal, errs.New(errs.KindInvariantViolated, "unknown script operation")
		}
	}
	return sigNormal, nil
}

// callFunction resolves q against the registry and invokes whichever
// body kind it finds: a native PointerBody runs directly against ctx; a
// ScriptBody recurses into Run with a fresh Context sharing ctx's Stack
// but starting with an empty register window, since a callee's register
// indices are its own and must not alias the caller's.
func (vmi *Interpreter) callFunction(ctx *Context, reg *registry.Registry, q registry.Query) error {
	fn, ok := reg.FindFunction(q)
	if !ok {
		return errs.ErrNotFound
	}
	switch body := fn.Body.(type) {
	case registry.PointerBody:
		return body.Call(ctx, reg)
	case ScriptBody:
		callee := &Context{Stack: ctx.Stack}
		return vmi.Run(callee, reg, body.Handle)
	default:
		return errs.New(errs.KindInvariantViolated, "unsupported function body kind")
	}
}
