// Package gc implements cycle-tolerant reference-counted values over
// the lifetime primitive: an Owned value finalizes immediately when its
// owner drops, and every Referenced clone derived from it is a weak
// observer that can never keep it alive — so a cycle of Referenced
// handles pointing at each other can never form a retain cycle the way
// a strong-reference GC would.
//
// Built directly on lifetime.Lazy, the weak-observer primitive this
// package generalizes from "is this byte range dirty" to "is this
// value still owned".
package gc

import (
	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/lifetime"
)

// ManagedGc is implemented by both Owned[T] and Referenced[T], letting
// callers that don't care which flavor they're holding treat them
// uniformly (e.g. to check Exists without narrowing).
type ManagedGc interface {
	Exists() bool
	isManagedGc()
}

// Owned is the single strong handle to a managed value. Only its
// holder may Drop it; every Referenced clone derived from it observes
// weakly and is invalidated the instant Drop runs.
type Owned[T any] struct {
	life lifetime.Lifetime
	data *T
}

// NewOwned boxes v as a freshly alive Owned value.
func NewOwned[T any](v T) Owned[T] {
	d := new(T)
	*d = v
	return Owned[T]{life: lifetime.New(), data: d}
}

func (Owned[T]) isManagedGc() {}

// Exists reports whether this Owned has not yet been dropped.
func (o Owned[T]) Exists() bool { return o.life.Alive() }

// Clone produces a Referenced observer of the same value.
func (o Owned[T]) Clone() Referenced[T] {
	return Referenced[T]{lazy: o.life.LazyRef(), data: o.data}
}

// Read copies the value out under a read borrow. locking=true spins
// until a borrow is grantable, returning errs.KindFatal only if the
// owner drops while waiting (a spin that would otherwise never end);
// locking=false returns errs.ErrLifetimeDenied immediately on
// contention instead of waiting.
func (o Owned[T]) Read(locking bool) (T, error) {
	return readLocked(o.life.Borrow, o.life.Alive, o.data, locking)
}

// Write overwrites the value under a write borrow, with the same
// locking semantics as Read.
func (o Owned[T]) Write(v T, locking bool) error {
	return writeLocked(o.life.BorrowMut, o.life.Alive, o.data, v, locking)
}

// Drop finalizes the Owned value, invalidating every Referenced clone
// derived from it from this point on.
func (o Owned[T]) Drop() { o.life.Drop() }

// Referenced is a weak observer of an Owned value. Any number of
// Referenced clones may exist, including ones forming a reference
// cycle among themselves — none of them retain the Owned they ultimately
// observe, so the owner still drops and frees on schedule regardless.
type Referenced[T any] struct {
	lazy lifetime.Lazy
	data *T
}

func (Referenced[T]) isManagedGc() {}

// Exists reports whether the Owned this Referenced observes is still
// alive.
func (r Referenced[T]) Exists() bool { return r.lazy.Exists() }

// Clone produces another Referenced sharing the same weak observer.
func (r Referenced[T]) Clone() Referenced[T] {
	return Referenced[T]{lazy: r.lazy.Clone(), data: r.data}
}

// Read upgrades to a read borrow and copies the value out, with the
// same locking semantics as Owned.Read.
func (r Referenced[T]) Read(locking bool) (T, error) {
	return readLocked(r.lazy.Upgrade, r.lazy.Exists, r.data, locking)
}

// Write upgrades to a write borrow and overwrites the value, with the
// same locking semantics as Owned.Write.
func (r Referenced[T]) Write(v T, locking bool) error {
	return writeLocked(r.lazy.UpgradeMut, r.lazy.Exists, r.data, v, locking)
}

func readLocked[T any](borrow func() (lifetime.Ref, bool), alive func() bool, data *T, locking bool) (T, error) {
	var zero T
	for {
		ref, ok := borrow()
		if ok {
			v := *data
			ref.Release()
			return v, nil
		}
		if !locking {
			return zero, errs.ErrLifetimeDenied
		}
		if !alive() {
			return zero, errs.New(errs.KindFatal, "owner dropped while a locking accessor waited")
		}
	}
}

func writeLocked[T any](borrowMut func() (lifetime.RefMut, bool), alive func() bool, data *T, v T, locking bool) error {
	for {
		w, ok := borrowMut()
		if ok {
			*data = v
			w.Release()
			return nil
		}
		if !locking {
			return errs.ErrLifetimeDenied
		}
		if !alive() {
			return errs.New(errs.KindFatal, "owner dropped while a locking accessor waited")
		}
	}
}
