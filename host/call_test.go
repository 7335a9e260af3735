package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/host"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/stack"
	"github.com/intuicio-go/intuicio/vm"
)

var hostI32Hash = registry.HashType("", "i32", "native")

func hostI32Type() *registry.Type {
	return registry.NativeType("i32", "", hostI32Hash, registry.Layout{Size: 4, Align: 4}, nil, nil)
}

func newAddRegistry() *registry.Registry {
	reg := registry.New()
	reg.AddType(hostI32Type())
	reg.AddFunction(registry.NewPointerFunction(registry.Signature{
		Name: "add",
		Inputs: []registry.Parameter{
			{Name: "a", Type: hostI32Type()},
			{Name: "b", Type: hostI32Type()},
		},
		Outputs: []registry.Parameter{{Name: "sum", Type: hostI32Type()}},
	}, func(ctxAny any, reg *registry.Registry) error {
		c := ctxAny.(*vm.Context)
		a, err := stack.Pop[int32](c.Stack, hostI32Hash)
		if err != nil {
			return err
		}
		b, err := stack.Pop[int32](c.Stack, hostI32Hash)
		if err != nil {
			return err
		}
		return stack.Push[int32](c.Stack, hostI32Hash, nil, a+b)
	}))
	return reg
}

type addArgs struct {
	A int32
	B int32
}

type addResult struct {
	Sum int32
}

func TestCallFunction_AdditionRoundTrip(t *testing.T) {
	reg := newAddRegistry()
	interp := vm.NewInterpreter(nil)
	h := host.New(reg, interp)

	var out addResult
	err := host.WithGlobal(context.Background(), h, func(ctx context.Context) error {
		var callErr error
		out, callErr = host.CallFunction[addArgs, addResult](ctx, "add", "", nil, addArgs{A: 2, B: 3})
		return callErr
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), out.Sum)
}

func TestCallFunction_NoHostInstalledErrors(t *testing.T) {
	_, err := host.CallFunction[addArgs, addResult](context.Background(), "add", "", nil, addArgs{A: 2, B: 3})
	require.Error(t, err)
}

func TestCallFunction_UnknownNameErrors(t *testing.T) {
	reg := newAddRegistry()
	interp := vm.NewInterpreter(nil)
	h := host.New(reg, interp)

	err := host.WithGlobal(context.Background(), h, func(ctx context.Context) error {
		_, callErr := host.CallFunction[addArgs, addResult](ctx, "subtract", "", nil, addArgs{A: 2, B: 3})
		require.ErrorIs(t, callErr, errs.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
