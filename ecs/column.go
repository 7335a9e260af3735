package ecs

import (
	"sync/atomic"
	"unsafe"

	"github.com/intuicio-go/intuicio/registry"
)

// ColumnInfo identifies the component type a Column stores.
type ColumnInfo struct {
	Hash      registry.TypeHash
	Layout    registry.Layout
	Finalizer registry.FinalizerFunc
}

// Column is one contiguous, densely packed array of one component type,
// shared by every row of the archetype that owns it. Its single
// "unique access" flag is the archetype's only fine-grained lock: a
// LOCKING argument at each acquisition site chooses whether to spin
// until the flag clears (true) or fail fast (false).
type Column struct {
	Info     ColumnInfo
	mem      []byte
	capacity int
	unique   atomic.Bool
}

func newColumn(info ColumnInfo) *Column {
	return &Column{Info: info}
}

// NewColumn creates a standalone Column, for tests and callers that
// want to exercise column-level access semantics without a full
// Archetype/World around it.
func NewColumn(info ColumnInfo) *Column {
	return newColumn(info)
}

// growTo ensures the column can hold at least n rows, doubling capacity
// (starting from 1) the way spec's columnar growth does.
func (c *Column) growTo(n int) {
	if n <= c.capacity {
		return
	}
	newCap := c.capacity
	if newCap == 0 {
		newCap = 1
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]byte, newCap*int(c.Info.Layout.Size))
	copy(grown, c.mem)
	c.mem = grown
	c.capacity = newCap
}

// at returns a pointer to row's slot. Callers must hold an acquired
// access (Acquire/AcquireUnique) appropriate to how they intend to use
// it, and row must be < the archetype's current size.
func (c *Column) at(row int) unsafe.Pointer {
	return unsafe.Pointer(&c.mem[row*int(c.Info.Layout.Size)])
}

// Acquire grants non-unique (shared read) access, spinning while a
// writer holds AcquireUnique if locking is true, or failing immediately
// if false.
func (c *Column) Acquire(locking bool) (release func(), ok bool) {
	for {
		if !c.unique.Load() {
			return func() {}, true
		}
		if !locking {
			return nil, false
		}
	}
}

// AcquireUnique grants exclusive access via compare-and-swap, spinning
// (locking=true) or failing fast (locking=false) on contention.
func (c *Column) AcquireUnique(locking bool) (release func(), ok bool) {
	for {
		if c.unique.CompareAndSwap(false, true) {
			return func() { c.unique.Store(false) }, true
		}
		if !locking {
			return nil, false
		}
	}
}

func (c *Column) finalizeRow(row int) {
	if c.Info.Finalizer != nil {
		c.Info.Finalizer(c.at(row))
	}
}

func (c *Column) copyRow(dst, src int) {
	size := int(c.Info.Layout.Size)
	copy(c.mem[dst*size:dst*size+size], c.mem[src*size:src*size+size])
}
