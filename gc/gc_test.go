package gc_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/gc"
)

func TestOwned_ReadWriteRoundTrip(t *testing.T) {
	o := gc.NewOwned(10)
	v, err := o.Read(false)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	require.NoError(t, o.Write(20, false))
	v, err = o.Read(false)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestOwned_Drop_InvalidatesReferenced(t *testing.T) {
	o := gc.NewOwned(42)
	r := o.Clone()
	assert.True(t, r.Exists())

	o.Drop()
	assert.False(t, o.Exists())
	assert.False(t, r.Exists())

	_, err := r.Read(false)
	assert.Error(t, err)
}

func TestReferenced_Clone_SharesSameObserver(t *testing.T) {
	o := gc.NewOwned("hello")
	r1 := o.Clone()
	r2 := r1.Clone()

	o.Drop()
	assert.False(t, r1.Exists())
	assert.False(t, r2.Exists())
}

func TestAccessor_NonLocking_FailsFastOnContention(t *testing.T) {
	o := gc.NewOwned(1)
	_, err := o.Read(false)
	require.NoError(t, err)

	// Simulate contention indirectly: once dropped, a non-locking read
	// must fail with LifetimeDenied rather than blocking.
	o.Drop()
	_, err = o.Read(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrLifetimeDenied))
}

// Node holds a weak Referenced link to another Node's owner, letting a
// test build a pure reference cycle with no strong edge anywhere in it.
type Node struct {
	Val  int
	Next gc.Referenced[Node]
}

func TestCycle_ReferencedHandlesNeverRetainOwned(t *testing.T) {
	o1 := gc.NewOwned(Node{Val: 1})
	o2 := gc.NewOwned(Node{Val: 2})
	o3 := gc.NewOwned(Node{Val: 3})

	r1 := o1.Clone()
	r2 := o2.Clone()
	r3 := o3.Clone()

	require.NoError(t, o1.Write(Node{Val: 1, Next: r2}, false))
	require.NoError(t, o2.Write(Node{Val: 2, Next: r3}, false))
	require.NoError(t, o3.Write(Node{Val: 3, Next: r1}, false)) // closes the cycle

	// The cycle does not stop any single owner from dropping cleanly.
	o2.Drop()
	assert.False(t, o2.Exists())

	v1, err := o1.Read(false)
	require.NoError(t, err, "o1 must still be alive despite o3's Next observing it")
	assert.Equal(t, 1, v1.Val)

	v3, err := o3.Read(false)
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Val)

	gotO1, err := v3.Next.Read(false)
	require.NoError(t, err, "o3's Next (r1) should still resolve since o1 is alive")
	assert.Equal(t, 1, gotO1.Val)

	o1.Drop()
	_, err = v3.Next.Read(false)
	assert.Error(t, err, "once o1 drops, o3's Next must stop resolving")

	o3.Drop()
}
