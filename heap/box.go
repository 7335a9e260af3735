package heap

import (
	"sync/atomic"
	"unsafe"

	"github.com/intuicio-go/intuicio/lifetime"
	"github.com/intuicio-go/intuicio/registry"
)

// BoxHeader carries everything a managed allocation needs to finalize
// and free itself correctly, independent of where its bytes live.
type BoxHeader struct {
	ObjectID  uint64
	Hash      registry.TypeHash
	Life      lifetime.Lifetime
	Layout    registry.Layout
	Finalizer registry.FinalizerFunc
	Refcount  atomic.Int32
}

// Box is a reference-counted handle to one managed allocation. Clone
// increments the refcount; Drop decrements it and, on the final drop,
// runs the finalizer and releases the backing chunks.
type Box struct {
	Header *BoxHeader
	ptr    unsafe.Pointer

	heap       *Heap
	pg         *page
	startChunk int
	numChunks  int
}

// Ptr exposes the payload pointer.
func (b *Box) Ptr() unsafe.Pointer { return b.ptr }

// Clone increments the box's reference count and returns the same
// handle (all clones of one Box alias the same memory and header).
func (b *Box) Clone() *Box {
	b.Header.Refcount.Add(1)
	return b
}

// Drop decrements the reference count; at zero it runs the header's
// finalizer and releases the chunks back to the owning page (or frees
// the dedicated page outright for an oversized allocation).
func (b *Box) Drop() {
	if b.Header.Refcount.Add(-1) > 0 {
		return
	}
	if b.Header.Finalizer != nil {
		b.Header.Finalizer(b.ptr)
	}
	b.Header.Life.Drop()
	b.heap.free(b)
}
