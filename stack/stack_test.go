package stack_test

import (
	"testing"
	"unsafe"

	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var i32Hash = registry.HashType("", "i32", "native")
var f64Hash = registry.HashType("", "f64", "native")
var i32Layout = registry.Layout{Size: 4, Align: 4}

func TestPushPop_RoundTrip(t *testing.T) {
	s := stack.New(stack.ModeAll)
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 42))
	assert.Equal(t, 1, s.Len())

	v, err := stack.Pop[int32](s, i32Hash)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
	assert.Equal(t, 0, s.Len())
}

func TestPop_WrongHashFails(t *testing.T) {
	s := stack.New(stack.ModeAll)
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 1))
	_, err := stack.Pop[int32](s, f64Hash)
	assert.Error(t, err)
}

func TestPop_EmptyStackFails(t *testing.T) {
	s := stack.New(stack.ModeAll)
	_, err := stack.Pop[int32](s, i32Hash)
	assert.Error(t, err)
}

func TestStoreRestore_Balance(t *testing.T) {
	s := stack.New(stack.ModeAll)
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 1))
	tok := s.Store()
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 2))
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 3))
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.Restore(tok))
	assert.Equal(t, 1, s.Len())

	v, err := stack.Pop[int32](s, i32Hash)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)
}

func TestRestore_FinalizesDroppedFrames(t *testing.T) {
	s := stack.New(stack.ModeAll)
	finalized := 0
	fin := registry.FinalizerFunc(func(unsafe.Pointer) { finalized++ })

	tok := s.Store()
	require.NoError(t, stack.Push[int32](s, i32Hash, fin, 1))
	require.NoError(t, stack.Push[int32](s, i32Hash, fin, 2))
	require.NoError(t, s.Restore(tok))
	assert.Equal(t, 2, finalized)
}

func TestReverse_PreservesRegisterPositions(t *testing.T) {
	s := stack.New(stack.ModeAll)
	tok := s.Store()
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 1))
	regIdx, err := stack.PushRegister[int32](s, i32Hash, i32Layout, nil)
	require.NoError(t, err)
	require.NoError(t, stack.Push[int32](s, i32Hash, nil, 2))

	require.NoError(t, s.Reverse(tok))

	// The value frames (1, 2) must have swapped, but the register must
	// still sit at its original index.
	acc, err := stack.AccessRegister(s, regIdx)
	require.NoError(t, err)
	require.NoError(t, stack.RegisterSet[int32](acc, 99))
	got, err := stack.RegisterRead[int32](acc)
	require.NoError(t, err)
	assert.Equal(t, int32(99), got)

	top, err := stack.Pop[int32](s, i32Hash)
	require.NoError(t, err)
	assert.Equal(t, int32(1), top, "top value frame must now be the one originally pushed first")
}

func TestModeValues_RejectsRegisterOps(t *testing.T) {
	s := stack.New(stack.ModeValues)
	_, err := stack.PushRegister[int32](s, i32Hash, i32Layout, nil)
	assert.Error(t, err)
}

func TestModeRegisters_RejectsValueOps(t *testing.T) {
	s := stack.New(stack.ModeRegisters)
	err := stack.Push[int32](s, i32Hash, nil, 1)
	assert.Error(t, err)
}
