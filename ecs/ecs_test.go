package ecs_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuicio-go/intuicio/ecs"
	"github.com/intuicio-go/intuicio/registry"
)

var posHash = registry.HashType("", "position", "struct")
var velHash = registry.HashType("", "velocity", "struct")

var posInfo = ecs.ColumnInfo{Hash: posHash, Layout: registry.Layout{Size: 4, Align: 4}}
var velInfo = ecs.ColumnInfo{Hash: velHash, Layout: registry.Layout{Size: 4, Align: 4}}

func i32Bytes(v int32) []byte {
	b := make([]byte, 4)
	*(*int32)(unsafe.Pointer(&b[0])) = v
	return b
}

func asI32(b []byte) int32 {
	return *(*int32)(unsafe.Pointer(&b[0]))
}

func TestWorld_SpawnAndReadBack(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.Spawn([]ecs.ComponentInfo{
		{Info: posInfo, Data: i32Bytes(10)},
	})
	require.NoError(t, err)

	arch, ok := w.ArchetypeOf(e)
	require.True(t, ok)
	assert.Equal(t, 1, arch.Size())
}

func TestWorld_InsertComponentsMovesArchetypeAndKeepsOldValue(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.Spawn([]ecs.ComponentInfo{{Info: posInfo, Data: i32Bytes(7)}})
	require.NoError(t, err)

	err = w.InsertComponents(e, []ecs.ComponentInfo{{Info: velInfo, Data: i32Bytes(3)}})
	require.NoError(t, err)

	arch, ok := w.ArchetypeOf(e)
	require.True(t, ok)
	assert.True(t, arch.Has(posHash))
	assert.True(t, arch.Has(velHash))

	var gotPos, gotVel int32
	err = w.Each(ecs.Query{Read: []registry.TypeHash{posHash, velHash}}, true, func(r ecs.Row) {
		if r.Entity == e {
			gotPos = readColumn(t, r, posHash)
			gotVel = readColumn(t, r, velHash)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, int32(7), gotPos, "the original component's value must survive the archetype move")
	assert.Equal(t, int32(3), gotVel)
}

func TestWorld_RemoveComponentsMovesBack(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.Spawn([]ecs.ComponentInfo{
		{Info: posInfo, Data: i32Bytes(1)},
		{Info: velInfo, Data: i32Bytes(2)},
	})
	require.NoError(t, err)

	require.NoError(t, w.RemoveComponents(e, []registry.TypeHash{velHash}))

	arch, ok := w.ArchetypeOf(e)
	require.True(t, ok)
	assert.True(t, arch.Has(posHash))
	assert.False(t, arch.Has(velHash))
}

func TestWorld_DespawnInvalidatesEntity(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.Spawn([]ecs.ComponentInfo{{Info: posInfo, Data: i32Bytes(1)}})
	require.NoError(t, err)

	require.NoError(t, w.Despawn(e))
	_, ok := w.ArchetypeOf(e)
	assert.False(t, ok)
}

func TestWorld_Each_ExcludeFiltersArchetypes(t *testing.T) {
	w := ecs.NewWorld()
	withVel, err := w.Spawn([]ecs.ComponentInfo{
		{Info: posInfo, Data: i32Bytes(1)},
		{Info: velInfo, Data: i32Bytes(1)},
	})
	require.NoError(t, err)
	withoutVel, err := w.Spawn([]ecs.ComponentInfo{{Info: posInfo, Data: i32Bytes(1)}})
	require.NoError(t, err)

	seen := map[ecs.Entity]bool{}
	err = w.Each(ecs.Query{Include: []registry.TypeHash{posHash}, Exclude: []registry.TypeHash{velHash}}, true, func(r ecs.Row) {
		seen[r.Entity] = true
	})
	require.NoError(t, err)
	assert.True(t, seen[withoutVel])
	assert.False(t, seen[withVel])
}

func TestQuery_Validate_RejectsDuplicateWrite(t *testing.T) {
	q := ecs.Query{Write: []registry.TypeHash{posHash, posHash}}
	assert.Error(t, q.Validate())
}

func TestQuery_Validate_RejectsReadAndWriteSameColumn(t *testing.T) {
	q := ecs.Query{Read: []registry.TypeHash{posHash}, Write: []registry.TypeHash{posHash}}
	assert.Error(t, q.Validate())
}

func readColumn(t *testing.T, r ecs.Row, hash registry.TypeHash) int32 {
	t.Helper()
	col, ok := r.Archetype.ColumnData(hash, r.Index)
	require.True(t, ok)
	return asI32(col)
}
