// Package value implements type-erased value handles over the lifetime
// primitive: owned, ref, ref-mut, and lazy flavors, each checking a
// recorded type hash on every access and never coercing a mismatch.
//
// Modeled on the split between an owned, freshly-built value and a
// zero-copy reference into shared memory: Dynamic plays the "am I the
// owner, or just looking at someone else's memory" role, generalized to
// arbitrary registered types.
package value

import (
	"unsafe"

	"github.com/intuicio-go/intuicio/lifetime"
	"github.com/intuicio-go/intuicio/registry"
)

// Flavor is the ownership mode of a Dynamic handle.
type Flavor int

const (
	Owned Flavor = iota
	FlavorRef
	FlavorRefMut
	FlavorLazy
)

// Dynamic is a type-erased handle to memory of a registered type. It
// carries everything needed to check access safety without knowing the
// underlying Go type: a type hash, a pointer, an ownership flavor, and
// whichever lifetime token backs that flavor.
type Dynamic struct {
	hash      registry.TypeHash
	ptr       unsafe.Pointer
	finalizer registry.FinalizerFunc
	flavor    Flavor

	owner  lifetime.Lifetime // set iff flavor == Owned
	ref    lifetime.Ref      // set iff flavor == FlavorRef
	refMut lifetime.RefMut   // set iff flavor == FlavorRefMut
	lazy   lifetime.Lazy     // set iff flavor == FlavorLazy
}

// NewOwned wraps an already-allocated, already-initialized payload as an
// Owned handle. NewOwned runs no initializer: ptr must already point at
// a fully built payload (package stack, for instance, passes a freshly
// boxed Go value).
func NewOwned(hash registry.TypeHash, ptr unsafe.Pointer, finalizer registry.FinalizerFunc) Dynamic {
	return Dynamic{
		hash:      hash,
		ptr:       ptr,
		finalizer: finalizer,
		flavor:    Owned,
		owner:     lifetime.New(),
	}
}

// Hash returns the type hash recorded at construction.
func (d Dynamic) Hash() registry.TypeHash { return d.hash }

// Flavor returns the handle's ownership mode.
func (d Dynamic) Flavor() Flavor { return d.flavor }

// alive reports whether the backing owner is still alive, regardless of
// which flavor d is.
func (d Dynamic) alive() bool {
	switch d.flavor {
	case Owned:
		return d.owner.Alive()
	case FlavorRef:
		return d.ref.Exists()
	case FlavorRefMut:
		return d.refMut.Exists()
	case FlavorLazy:
		return d.lazy.Exists()
	default:
		return false
	}
}

// Exists reports whether the owner this handle (transitively) observes
// is still alive. For Owned/Ref/RefMut this mirrors alive(); it exists
// mainly so Lazy handles can be polled without attempting an upgrade.
func (d Dynamic) Exists() bool { return d.alive() }

// Borrow produces a Ref handle over the same memory, granted per the
// owning Lifetime's read-borrow rule. Only an Owned handle can be
// borrowed from; on a Ref, RefMut or Lazy handle Borrow always fails.
func (d Dynamic) Borrow() (Dynamic, bool) {
	r, ok := d.lifetimeFor().Borrow()
	if !ok {
		return Dynamic{}, false
	}
	return Dynamic{hash: d.hash, ptr: d.ptr, finalizer: d.finalizer, flavor: FlavorRef, ref: r}, true
}

// BorrowMut produces a RefMut handle over the same memory. As with
// Borrow, it always fails on a handle that is not Owned.
func (d Dynamic) BorrowMut() (Dynamic, bool) {
	w, ok := d.lifetimeFor().BorrowMut()
	if !ok {
		return Dynamic{}, false
	}
	return Dynamic{hash: d.hash, ptr: d.ptr, finalizer: d.finalizer, flavor: FlavorRefMut, refMut: w}, true
}

// IntoLazy produces a weak observer handle. Called on a handle that is
// not Owned, it yields a Lazy that observes no owner, so its Exists is
// false and every access through it fails.
func (d Dynamic) IntoLazy() Dynamic {
	return Dynamic{hash: d.hash, ptr: d.ptr, finalizer: d.finalizer, flavor: FlavorLazy, lazy: d.lifetimeFor().LazyRef()}
}

// lifetimeFor returns the Lifetime new tokens are derived from. Only
// Owned handles hold one; Ref/RefMut/Lazy tokens do not expose the
// underlying Lifetime (they must not be able to Drop it), so for every
// other flavor this returns the zero Lifetime, which grants no borrow
// and reports the owner as dead.
func (d Dynamic) lifetimeFor() lifetime.Lifetime {
	if d.flavor == Owned {
		return d.owner
	}
	return lifetime.Lifetime{}
}

// Read narrows the payload to T and copies it out, iff hash matches T's
// registered hash and a read borrow is grantable.
func Read[T any](d Dynamic, hash registry.TypeHash) (T, bool) {
	var zero T
	if d.hash != hash {
		return zero, false
	}
	switch d.flavor {
	case Owned:
		r, ok := d.owner.Borrow()
		if !ok {
			return zero, false
		}
		defer r.Release()
		return *(*T)(d.ptr), true
	case FlavorRef, FlavorRefMut:
		if !d.alive() {
			return zero, false
		}
		return *(*T)(d.ptr), true
	case FlavorLazy:
		r, ok := d.lazy.Upgrade()
		if !ok {
			return zero, false
		}
		defer r.Release()
		return *(*T)(d.ptr), true
	default:
		return zero, false
	}
}

// Write overwrites the payload with v, iff hash matches and a write
// borrow is grantable for this handle's flavor (never for FlavorRef).
func Write[T any](d Dynamic, hash registry.TypeHash, v T) bool {
	if d.hash != hash {
		return false
	}
	switch d.flavor {
	case Owned:
		w, ok := d.owner.BorrowMut()
		if !ok {
			return false
		}
		defer w.Release()
		*(*T)(d.ptr) = v
		return true
	case FlavorRefMut:
		if !d.alive() {
			return false
		}
		*(*T)(d.ptr) = v
		return true
	case FlavorLazy:
		w, ok := d.lazy.UpgradeMut()
		if !ok {
			return false
		}
		defer w.Release()
		*(*T)(d.ptr) = v
		return true
	default:
		return false
	}
}

// Consume reads out the payload and drops the owner, succeeding only
// for Owned handles with no outstanding borrows.
func Consume[T any](d Dynamic, hash registry.TypeHash) (T, bool) {
	var zero T
	if d.flavor != Owned || d.hash != hash {
		return zero, false
	}
	w, ok := d.owner.BorrowMut()
	if !ok {
		return zero, false
	}
	v := *(*T)(d.ptr)
	w.Release()
	d.owner.Drop()
	return v, true
}

func copyBytes(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	dstSlice := unsafe.Slice((*byte)(dst), n)
	srcSlice := unsafe.Slice((*byte)(src), n)
	copy(dstSlice, srcSlice)
}

// MoveIntoSized transfers src's payload bytes into dst's slot (Owned
// src only), finalizing dst's prior contents first and dropping src's
// owner afterwards, per the Owned→RefMut/Lazy move semantics. Both
// handles must record the same hash. size is the registered type's
// Layout.Size; Dynamic itself does not retain a Layout so collaborating
// packages (stack, arena) that already track it pass it through here.
func MoveIntoSized(dst *Dynamic, src Dynamic, size uintptr) bool {
	if dst.hash != src.hash || src.flavor != Owned {
		return false
	}
	if dst.flavor != FlavorRefMut && dst.flavor != FlavorLazy {
		return false
	}
	if dst.finalizer != nil {
		dst.finalizer(dst.ptr)
	}
	copyBytes(dst.ptr, src.ptr, size)
	src.owner.Drop()
	return true
}

// Ptr exposes the raw payload pointer for collaborating packages
// (stack, arena, ecs) that already know the type and need direct
// access; it is not part of the generic Read/Write/Consume surface.
func (d Dynamic) Ptr() unsafe.Pointer { return d.ptr }

// Finalizer exposes the recorded finalizer, for collaborating packages
// that free the backing memory themselves.
func (d Dynamic) Finalizer() registry.FinalizerFunc { return d.finalizer }

// Owner exposes the backing Lifetime for Owned handles, for
// collaborating packages (stack/arena) that need to Drop it directly
// once they reclaim the memory. It is the zero Lifetime for any other
// flavor.
func (d Dynamic) Owner() lifetime.Lifetime {
	if d.flavor == Owned {
		return d.owner
	}
	return lifetime.Lifetime{}
}
