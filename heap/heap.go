package heap

import (
	"sync"
	"unsafe"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/lifetime"
	"github.com/intuicio-go/intuicio/registry"
)

// Heap is a managed allocator: a set of fixed-size pages plus a list of
// pages dedicated to oversized allocations. A Heap is not implicitly
// per-goroutine — callers that want goroutine-local allocation own one
// Heap per goroutine explicitly, the same choice package host makes for
// its Context (see DESIGN.md): Go has no safe, idiomatic goroutine-local
// storage to hide behind, so the caller threads the Heap it means to use
// instead of the runtime guessing which one applies.
type Heap struct {
	mu        sync.Mutex
	pages     []*page
	dedicated map[*Box]*page
	nextID    uint64
}

// New creates an empty Heap.
func New() *Heap {
	return &Heap{dedicated: make(map[*Box]*page)}
}

// Alloc reserves size bytes, tagged with hash for diagnostics and
// finalizer run on the final Drop. Allocations whose size exceeds
// PageSize get a dedicated, exclusively-owned buffer of exactly size
// bytes (tracked as a dedicated page) instead of sharing the common pool.
func (h *Heap) Alloc(size uintptr, hash registry.TypeHash, layout registry.Layout, finalizer registry.FinalizerFunc) (*Box, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	header := &BoxHeader{
		ObjectID:  h.nextID,
		Hash:      hash,
		Life:      lifetime.New(),
		Layout:    layout,
		Finalizer: finalizer,
	}
	header.Refcount.Store(1)

	if size > PageSize {
		pg := newPage()
		pg.dedicated = true
		buf := make([]byte, size)
		b := &Box{Header: header, ptr: unsafe.Pointer(&buf[0]), heap: h, pg: pg, startChunk: 0, numChunks: ChunksPerPage}
		h.dedicated[b] = pg
		return b, nil
	}

	n := chunksFor(size)
	for _, pg := range h.pages {
		if start, ok := pg.findBestFit(n); ok {
			pg.markRun(start, n, true)
			return &Box{Header: header, ptr: unsafe.Pointer(pg.ptrTo(start)), heap: h, pg: pg, startChunk: start, numChunks: n}, nil
		}
	}

	pg := newPage()
	start, ok := pg.findBestFit(n)
	if !ok {
		return nil, errs.New(errs.KindCapacityExceeded, "allocation does not fit in an empty page")
	}
	pg.markRun(start, n, true)
	h.pages = append(h.pages, pg)
	return &Box{Header: header, ptr: unsafe.Pointer(pg.ptrTo(start)), heap: h, pg: pg, startChunk: start, numChunks: n}, nil
}

func (h *Heap) free(b *Box) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b.pg.dedicated {
		delete(h.dedicated, b)
		return
	}
	b.pg.markRun(b.startChunk, b.numChunks, false)
}
