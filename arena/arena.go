// Package arena implements a generational slot arena: Insert returns a
// stable Index that survives Remove/Insert churn elsewhere in the
// arena, and a stale Index (one whose slot was recycled since) is
// rejected by its generation mismatching rather than silently reading
// someone else's value.
//
// Built as a segregated, swap-remove-on-free slot manager that bumps a
// generation counter on reuse so a held handle can never alias a
// different live value.
package arena

import (
	"sync"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/lifetime"
)

// Index identifies one entry in an Arena for the lifetime of that
// entry: ID names the slot, Generation distinguishes this occupancy of
// the slot from any that came before or after it.
type Index struct {
	ID         uint32
	Generation uint32
}

type slotRecord struct {
	generation uint32
	pos        int32 // dense index, or -1 if the id is currently free
	life       lifetime.Lifetime
}

// Arena is a generational, swap-remove dense store of T. The zero value
// is ready to use.
type Arena[T any] struct {
	mu     sync.RWMutex
	dense  []T
	toID   []uint32 // dense position -> id
	slots  []slotRecord
	free   []uint32
}

// Insert places v in the arena and returns its Index.
func (a *Arena[T]) Insert(v T) Index {
	a.mu.Lock()
	defer a.mu.Unlock()

	var id uint32
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = uint32(len(a.slots))
		a.slots = append(a.slots, slotRecord{pos: -1})
	}

	pos := int32(len(a.dense))
	a.dense = append(a.dense, v)
	a.toID = append(a.toID, id)
	a.slots[id].pos = pos
	a.slots[id].life = lifetime.New()

	return Index{ID: id, Generation: a.slots[id].generation}
}

// Remove deletes the entry at i by swapping the last dense element into
// its place, and bumps the slot's generation so any Index still
// referencing this occupancy is rejected from now on. It fails if the
// entry is currently borrowed.
func (a *Arena[T]) Remove(i Index) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.validLocked(i)
	if !ok {
		return false
	}
	s := &a.slots[i.ID]
	if !s.life.Alive() {
		return false
	}
	w, ok := s.life.BorrowMut()
	if !ok {
		return false
	}
	// BorrowMut succeeded only to confirm no outstanding borrow exists;
	// release it before Drop, which otherwise spins forever waiting for
	// a writer flag that only this call itself is holding.
	w.Release()
	s.life.Drop()

	last := int32(len(a.dense)) - 1
	if pos != last {
		a.dense[pos] = a.dense[last]
		movedID := a.toID[last]
		a.toID[pos] = movedID
		a.slots[movedID].pos = pos
	}
	a.dense = a.dense[:last]
	a.toID = a.toID[:last]

	s.pos = -1
	s.generation++
	a.free = append(a.free, i.ID)
	return true
}

// Read copies the entry at i out, succeeding only for a live, matching
// generation, and grantable read borrow.
func (a *Arena[T]) Read(i Index) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var zero T
	pos, ok := a.validLocked(i)
	if !ok {
		return zero, false
	}
	r, ok := a.slots[i.ID].life.Borrow()
	if !ok {
		return zero, false
	}
	defer r.Release()
	return a.dense[pos], true
}

// Write overwrites the entry at i, succeeding only for a live, matching
// generation, and grantable write borrow.
func (a *Arena[T]) Write(i Index, v T) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	pos, ok := a.validLocked(i)
	if !ok {
		return false
	}
	w, ok := a.slots[i.ID].life.BorrowMut()
	if !ok {
		return false
	}
	defer w.Release()
	a.dense[pos] = v
	return true
}

// Len reports the number of live entries.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.dense)
}

func (a *Arena[T]) validLocked(i Index) (int32, bool) {
	if int(i.ID) >= len(a.slots) {
		return 0, false
	}
	s := a.slots[i.ID]
	if s.pos < 0 || s.generation != i.Generation {
		return 0, false
	}
	return s.pos, true
}

// Iter holds the arena's structural lock for the duration of fn,
// preventing Insert/Remove from running concurrently — a page-level
// read lock preventing structural mutation during iteration, over a
// single in-process arena.
func (a *Arena[T]) Iter(fn func(Index, T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for pos, v := range a.dense {
		id := a.toID[pos]
		fn(Index{ID: id, Generation: a.slots[id].generation}, v)
	}
}

// IterMut is Iter's mutable counterpart: fn receives a pointer straight
// into the dense storage, so its mutations land in place immediately.
// The arena's write lock is held for the whole walk.
func (a *Arena[T]) IterMut(fn func(Index, *T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for pos := range a.dense {
		id := a.toID[pos]
		fn(Index{ID: id, Generation: a.slots[id].generation}, &a.dense[pos])
	}
}

// MustRead is Read's error-returning counterpart.
func (a *Arena[T]) MustRead(i Index) (T, error) {
	v, ok := a.Read(i)
	if !ok {
		return v, errs.ErrLifetimeDenied
	}
	return v, nil
}
