package vm

import (
	"github.com/intuicio-go/intuicio/ir"
	"github.com/intuicio-go/intuicio/registry"
)

// ScriptBody is the interpreted-function counterpart to
// registry.PointerBody: its Body is an ir.ScriptHandle the Interpreter
// runs rather than a native Go closure.
type ScriptBody struct {
	registry.BodyBase
	Handle *ir.ScriptHandle
}

// ScriptFunctionGenerator is the reference backend satisfying the
// backend-to-core contract: given an ir.ScriptFunction and a Registry,
// it produces an executable registry.Function.
type ScriptFunctionGenerator struct{}

// Generate wraps fn's body as a ScriptBody under fn's signature. reg is
// unused here; it is accepted to match the Backend contract's shape —
// a generator for a different backend kind may need it to resolve
// signature types before installing the function.
func (ScriptFunctionGenerator) Generate(fn ir.ScriptFunction, reg *registry.Registry) (*registry.Function, error) {
	return &registry.Function{
		Signature: fn.Signature,
		Body:      ScriptBody{Handle: fn.Body},
	}, nil
}
