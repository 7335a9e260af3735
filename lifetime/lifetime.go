// Package lifetime implements the validity-window primitive every value
// handle in Intuicio is built on: an owner holds a Lifetime, derived
// tokens (Ref, RefMut, Lazy) observe it, and once the owner drops, every
// token must observe that monotonically, never returning success again.
//
// State is kept in a shared struct reached through a pointer so that
// moving the owner around in memory does not invalidate tokens that
// still point at the same underlying state; only an explicit Drop does.
package lifetime

import "sync/atomic"

var ownerTagSeq atomic.Uint64

// state is the canonical, shared record a Lifetime and all of its
// derived tokens point at.
type state struct {
	alive    atomic.Bool
	readers  atomic.Int32
	writer   atomic.Bool
	ownerTag uint64
}

// Lifetime represents the validity window of one owned value. The owner
// of the value holds the Lifetime and calls Drop exactly once, when the
// value is finalized.
type Lifetime struct {
	s *state
}

// Ref is an immutable borrow token. Any number of Refs may coexist, but
// none may coexist with a RefMut.
type Ref struct{ s *state }

// RefMut is an exclusive mutable borrow token. At most one RefMut may
// exist, and it excludes every Ref.
type RefMut struct{ s *state }

// Lazy is a weak observer of a Lifetime. It never blocks construction;
// every read/write/upgrade attempt re-checks liveness at call time.
type Lazy struct{ s *state }

// New creates a Lifetime for a freshly constructed owned value.
func New() Lifetime {
	s := &state{ownerTag: ownerTagSeq.Add(1)}
	s.alive.Store(true)
	return Lifetime{s: s}
}

// Alive reports whether the owner has not yet dropped.
func (l Lifetime) Alive() bool {
	if l.s == nil {
		return false
	}
	return l.s.alive.Load()
}

// Borrow attempts an immutable borrow. It fails if a RefMut is
// outstanding or the owner has dropped.
func (l Lifetime) Borrow() (Ref, bool) {
	return borrow(l.s)
}

// BorrowMut attempts an exclusive mutable borrow. It fails if any Ref or
// RefMut is outstanding, or the owner has dropped.
func (l Lifetime) BorrowMut() (RefMut, bool) {
	return borrowMut(l.s)
}

// LazyRef produces a weak observer token. This always succeeds; later
// upgrade attempts are what enforce liveness.
func (l Lifetime) LazyRef() Lazy {
	return Lazy{s: l.s}
}

// Drop waits for all outstanding borrows to clear, then marks the
// Lifetime dead. Only the owner may call Drop, and it must be called at
// most once. Drop busy-waits with no time bound, so it never returns
// while a borrow is held: callers must ensure borrows are never held
// across a call that might drop their owner.
func (l Lifetime) Drop() {
	if l.s == nil {
		return
	}
	for l.s.readers.Load() != 0 || l.s.writer.Load() {
		// Busy-wait: callers are required to keep borrows shorter-lived
		// than the owner, so this window is expected to be brief.
	}
	l.s.alive.Store(false)
}

func borrow(s *state) (Ref, bool) {
	if s == nil || !s.alive.Load() {
		return Ref{}, false
	}
	if s.writer.Load() {
		return Ref{}, false
	}
	s.readers.Add(1)
	// Re-check liveness: a concurrent Drop may have completed between
	// our liveness check and the increment.
	if !s.alive.Load() {
		s.readers.Add(-1)
		return Ref{}, false
	}
	return Ref{s: s}, true
}

func borrowMut(s *state) (RefMut, bool) {
	if s == nil || !s.alive.Load() {
		return RefMut{}, false
	}
	if !s.writer.CompareAndSwap(false, true) {
		return RefMut{}, false
	}
	if s.readers.Load() != 0 || !s.alive.Load() {
		s.writer.Store(false)
		return RefMut{}, false
	}
	return RefMut{s: s}, true
}

// Exists reports whether the owner is still alive.
func (r Ref) Exists() bool { return r.s != nil && r.s.alive.Load() }

// Release gives up the borrow.
func (r Ref) Release() {
	if r.s != nil {
		r.s.readers.Add(-1)
	}
}

// Exists reports whether the owner is still alive.
func (r RefMut) Exists() bool { return r.s != nil && r.s.alive.Load() }

// Release gives up the borrow.
func (r RefMut) Release() {
	if r.s != nil {
		r.s.writer.Store(false)
	}
}

// Exists reports whether the owner is currently alive. Unlike Ref and
// RefMut this never implies a held borrow.
func (z Lazy) Exists() bool { return z.s != nil && z.s.alive.Load() }

// Upgrade attempts to obtain an immutable borrow from a lazy observer.
func (z Lazy) Upgrade() (Ref, bool) { return borrow(z.s) }

// UpgradeMut attempts to obtain a mutable borrow from a lazy observer.
func (z Lazy) UpgradeMut() (RefMut, bool) { return borrowMut(z.s) }

// Clone produces another Lazy observing the same owner.
func (z Lazy) Clone() Lazy { return Lazy{s: z.s} }
