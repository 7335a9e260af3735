package value_test

import (
	"testing"
	"unsafe"

	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var i32Hash = registry.HashType("", "i32", "native")
var f64Hash = registry.HashType("", "f64", "native")

func newOwnedInt(v int32) (value.Dynamic, *int32) {
	box := new(int32)
	*box = v
	return value.NewOwned(i32Hash, unsafe.Pointer(box), nil), box
}

func TestRead_TypeFidelity(t *testing.T) {
	d, _ := newOwnedInt(42)
	got, ok := value.Read[int32](d, i32Hash)
	require.True(t, ok)
	assert.Equal(t, int32(42), got)

	_, ok2 := value.Read[int32](d, f64Hash)
	assert.False(t, ok2, "mismatched hash must never coerce")
}

func TestWrite_RefCannotWrite(t *testing.T) {
	d, box := newOwnedInt(1)
	r, ok := d.Borrow()
	require.True(t, ok)

	ok2 := value.Write[int32](r, i32Hash, 2)
	assert.False(t, ok2, "an immutable Ref must never permit write")
	assert.Equal(t, int32(1), *box)
}

func TestWrite_RefMutSucceeds(t *testing.T) {
	d, box := newOwnedInt(1)
	rw, ok := d.BorrowMut()
	require.True(t, ok)

	ok2 := value.Write[int32](rw, i32Hash, 9)
	require.True(t, ok2)
	assert.Equal(t, int32(9), *box)
}

func TestConsume_FailsWithOutstandingBorrow(t *testing.T) {
	d, _ := newOwnedInt(1)
	r, ok := d.Borrow()
	require.True(t, ok)
	defer r.Release()

	_, ok2 := value.Consume[int32](d, i32Hash)
	assert.False(t, ok2, "consume must fail while a borrow is outstanding")
}

func TestConsume_SucceedsAndDropsOwner(t *testing.T) {
	d, _ := newOwnedInt(7)
	got, ok := value.Consume[int32](d, i32Hash)
	require.True(t, ok)
	assert.Equal(t, int32(7), got)
	assert.False(t, d.Exists())
}

func TestNoUseAfterFree(t *testing.T) {
	d, _ := newOwnedInt(5)
	r, ok := d.Borrow()
	require.True(t, ok)
	r.Release()

	lz := d.IntoLazy()
	require.True(t, lz.Exists())

	// Drop the owner directly (normally done by the allocator once it
	// reclaims the slot).
	d.Owner().Drop()

	assert.False(t, lz.Exists())
	_, ok2 := value.Read[int32](lz, i32Hash)
	assert.False(t, ok2)
}

func TestMoveIntoSized_TransfersBytesAndDropsSource(t *testing.T) {
	src, _ := newOwnedInt(123)

	dstBox := new(int32)
	dstOwned := value.NewOwned(i32Hash, unsafe.Pointer(dstBox), nil)
	dstMut, ok := dstOwned.BorrowMut()
	require.True(t, ok)

	ok2 := value.MoveIntoSized(&dstMut, src, unsafe.Sizeof(int32(0)))
	require.True(t, ok2)
	assert.Equal(t, int32(123), *dstBox)
	assert.False(t, src.Exists(), "source owner must be dropped after the move")
}
