package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuicio-go/intuicio/ecs"
)

func TestArchetype_ColumnAccessUniqueAcquireIsExclusive(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.Spawn([]ecs.ComponentInfo{{Info: posInfo, Data: i32Bytes(1)}})
	require.NoError(t, err)

	arch, _ := w.ArchetypeOf(e)
	col, ok := arch.ColumnAccess(posHash)
	require.True(t, ok)

	release, ok := col.AcquireUnique(false)
	require.True(t, ok)
	defer release()

	_, ok2 := col.AcquireUnique(false)
	assert.False(t, ok2, "a second unique acquisition must fail while one is outstanding")
}

func TestColumn_NonLockingAcquireFailsFastUnderContention(t *testing.T) {
	col := ecs.NewColumn(posInfo)

	release, ok := col.AcquireUnique(false)
	require.True(t, ok)
	defer release()

	_, ok2 := col.Acquire(false)
	assert.False(t, ok2)
}

func TestColumn_ReleaseClearsUniqueFlag(t *testing.T) {
	col := ecs.NewColumn(posInfo)

	release, ok := col.AcquireUnique(false)
	require.True(t, ok)
	release()

	_, ok2 := col.AcquireUnique(false)
	assert.True(t, ok2, "releasing must clear the unique flag for the next acquirer")
}
