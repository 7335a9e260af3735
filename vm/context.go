// Package vm implements the reference interpreter: a Context binding one
// execution's stack and register window, a scope stack tracking
// Branch/Loop/Normal nesting, and the Run dispatch loop that walks an
// ir.Script's operations.
//
// Built on a recursive tree-scoped traversal (enter/leave with a
// restore point per level) and a begin/apply/commit frame discipline,
// generalized to "one interpreter scope."
package vm

import (
	"github.com/intuicio-go/intuicio/stack"
)

// Context is one interpreter execution's state: its data stack and the
// registers it has defined so far, addressed by position (register
// index 0 is the first register DefineRegister created in this
// Context's lifetime).
type Context struct {
	Stack     *stack.Stack
	registers []stack.RegisterIndex
}

// NewContext creates a Context over a fresh Stack accepting both value
// and register frames.
func NewContext() *Context {
	return &Context{Stack: stack.New(stack.ModeAll)}
}

// registerAt resolves a script-relative register index to the Stack's
// absolute RegisterIndex.
func (c *Context) registerAt(i int) (stack.RegisterIndex, bool) {
	if i < 0 || i >= len(c.registers) {
		return 0, false
	}
	return c.registers[i], true
}

// Register exposes registerAt for host-provided Expression closures,
// which only ever see ctx as the generic "any" the ir.Expression.Eval
// signature requires and must type-assert it back to *Context.
func (c *Context) Register(i int) (stack.RegisterIndex, bool) {
	return c.registerAt(i)
}
