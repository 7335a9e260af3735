package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuicio-go/intuicio/arena"
	"github.com/intuicio-go/intuicio/registry"
)

var anyArenaIntHash = registry.HashType("", "i32", "native")

func TestAnyArena_RoutesByRegisteredHash(t *testing.T) {
	a := arena.NewAnyArena()
	arena.RegisterArena[int](a, anyArenaIntHash)

	idx, err := a.Insert(anyArenaIntHash, 5)
	require.NoError(t, err)
	assert.Equal(t, anyArenaIntHash, idx.Hash)

	got, ok := a.Read(idx)
	require.True(t, ok)
	assert.Equal(t, 5, got)

	require.True(t, a.Write(idx, 9))
	got, ok = a.Read(idx)
	require.True(t, ok)
	assert.Equal(t, 9, got)

	assert.Equal(t, 1, a.Len(anyArenaIntHash))
	require.True(t, a.Remove(idx))
	assert.Equal(t, 0, a.Len(anyArenaIntHash))
}

func TestAnyArena_UnregisteredHashFails(t *testing.T) {
	a := arena.NewAnyArena()
	_, err := a.Insert(anyArenaIntHash, 1)
	assert.Error(t, err)
}

func TestArenaFor_RecoversConcreteTypedArena(t *testing.T) {
	a := arena.NewAnyArena()
	arena.RegisterArena[int](a, anyArenaIntHash)
	idx, err := a.Insert(anyArenaIntHash, 3)
	require.NoError(t, err)

	typed, ok := arena.ArenaFor[int](a, anyArenaIntHash)
	require.True(t, ok)
	v, ok := typed.Read(idx.Index)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}
