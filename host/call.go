package host

import (
	"context"
	"reflect"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/stack"
	"github.com/intuicio-go/intuicio/vm"
)

// CallFunction resolves name/module (optionally narrowed to a method of
// owningType), pushes args's fields as arguments in reverse declaration
// order (so the first input ends up on top of the stack), invokes, and
// pops results into an Out value starting from its last declared field,
// since the function leaves its last output on top.
//
// In and Out must be structs whose exported fields, in declaration
// order, line up positionally with the resolved function's Inputs and
// Outputs parameter lists.
func CallFunction[In, Out any](ctx context.Context, name, module string, owningType *registry.TypeHash, args In) (Out, error) {
	var zero Out
	h, ok := FromContext(ctx)
	if !ok {
		return zero, errs.New(errs.KindInvariantViolated, "no Host installed on context")
	}

	q := registry.Query{Name: &name, Module: &module}
	if owningType != nil {
		q.Func = &registry.FunctionQuery{OwningType: owningType}
	}
	fn, ok := h.Registry.FindFunction(q)
	if !ok {
		return zero, errs.ErrNotFound
	}

	argsVal := reflect.ValueOf(args)
	for i := len(fn.Signature.Inputs) - 1; i >= 0; i-- {
		p := fn.Signature.Inputs[i]
		if err := stack.PushReflect(h.Ctx.Stack, p.Type.Hash, p.Type.Finalizer, argsVal.Field(i)); err != nil {
			return zero, err
		}
	}

	if err := invoke(h, fn); err != nil {
		return zero, err
	}

	var out Out
	outVal := reflect.ValueOf(&out).Elem()
	for i := len(fn.Signature.Outputs) - 1; i >= 0; i-- {
		p := fn.Signature.Outputs[i]
		field := outVal.Field(i)
		v, err := stack.PopReflect(h.Ctx.Stack, p.Type.Hash, field.Type())
		if err != nil {
			return zero, err
		}
		field.Set(v)
	}
	return out, nil
}

func invoke(h *Host, fn *registry.Function) error {
	switch body := fn.Body.(type) {
	case registry.PointerBody:
		return body.Call(h.Ctx, h.Registry)
	case vm.ScriptBody:
		return h.Interpreter.Run(h.Ctx, h.Registry, body.Handle)
	default:
		return errs.New(errs.KindInvariantViolated, "unsupported function body kind")
	}
}
