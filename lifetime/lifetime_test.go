package lifetime_test

import (
	"testing"

	"github.com/intuicio-go/intuicio/lifetime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBorrow_ManyReadersAllowed(t *testing.T) {
	l := lifetime.New()

	r1, ok1 := l.Borrow()
	r2, ok2 := l.Borrow()
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, r1.Exists())
	assert.True(t, r2.Exists())

	r1.Release()
	r2.Release()
}

func TestBorrowMut_ExcludesEverything(t *testing.T) {
	l := lifetime.New()

	w, ok := l.BorrowMut()
	require.True(t, ok)

	_, ok2 := l.Borrow()
	assert.False(t, ok2, "a read borrow must not be grantable while a writer holds the lock")

	_, ok3 := l.BorrowMut()
	assert.False(t, ok3, "a second writer must not be grantable")

	w.Release()

	r, ok4 := l.Borrow()
	require.True(t, ok4, "once the writer releases, reads succeed again")
	r.Release()
}

func TestBorrow_DeniedWhileWriterHeld(t *testing.T) {
	l := lifetime.New()
	w, ok := l.BorrowMut()
	require.True(t, ok)
	defer w.Release()

	_, ok2 := l.Borrow()
	assert.False(t, ok2)
}

func TestDrop_InvalidatesAllTokens(t *testing.T) {
	l := lifetime.New()
	r, ok := l.Borrow()
	require.True(t, ok)
	r.Release()

	lz := l.LazyRef()
	require.True(t, lz.Exists())

	l.Drop()

	assert.False(t, l.Alive())
	assert.False(t, lz.Exists())

	_, ok2 := lz.Upgrade()
	assert.False(t, ok2)
	_, ok3 := lz.UpgradeMut()
	assert.False(t, ok3)
}

func TestLazy_AlwaysConstructible(t *testing.T) {
	l := lifetime.New()
	lz := l.LazyRef()
	assert.True(t, lz.Exists())

	// Upgrading is subject to the same predicates as a direct borrow.
	w, ok := l.BorrowMut()
	require.True(t, ok)
	_, ok2 := lz.Upgrade()
	assert.False(t, ok2)
	w.Release()

	r, ok3 := lz.Upgrade()
	require.True(t, ok3)
	r.Release()
}

func TestZeroValueLifetimeIsDead(t *testing.T) {
	var l lifetime.Lifetime
	assert.False(t, l.Alive())
	_, ok := l.Borrow()
	assert.False(t, ok)
}
