package stack

import (
	"unsafe"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/value"
)

// PushRegister reserves a new, uninitialized register slot typed T,
// returning its absolute index.
func PushRegister[T any](s *Stack, hash registry.TypeHash, layout registry.Layout, fin registry.FinalizerFunc) (RegisterIndex, error) {
	if !s.registersAllowed() {
		return 0, errs.New(errs.KindInvariantViolated, "stack mode forbids register frames")
	}
	s.frames = append(s.frames, frame{kind: kindRegister, hash: hash, regLayout: layout, finalizer: fin})
	return RegisterIndex(len(s.frames) - 1), nil
}

// PushRegisterRaw reserves a register slot from a runtime-resolved
// type, for callers that only have a registry.Type, not a static Go T.
func PushRegisterRaw(s *Stack, t *registry.Type) (RegisterIndex, error) {
	return PushRegister[struct{}](s, t.Hash, t.Layout, t.Finalizer)
}

func (s *Stack) registerFrame(idx RegisterIndex) (*frame, error) {
	if idx < 0 || int(idx) >= len(s.frames) {
		return nil, errs.New(errs.KindInvariantViolated, "register index out of range")
	}
	f := &s.frames[idx]
	if f.kind != kindRegister {
		return nil, errs.ErrTypeMismatch
	}
	return f, nil
}

// DropRegister finalizes the value held in register idx, if any,
// leaving the slot reserved but uninitialized.
func (s *Stack) DropRegister(idx RegisterIndex) error {
	f, err := s.registerFrame(idx)
	if err != nil {
		return err
	}
	if f.initialized() {
		if f.finalizer != nil {
			f.finalizer(f.dyn.Ptr())
		}
		f.dyn = nil
	}
	return nil
}

// RegisterAccessor is a scoped handle to one register slot.
type RegisterAccessor struct {
	s   *Stack
	idx RegisterIndex
}

// AccessRegister returns an accessor for register idx.
func AccessRegister(s *Stack, idx RegisterIndex) (*RegisterAccessor, error) {
	if _, err := s.registerFrame(idx); err != nil {
		return nil, err
	}
	return &RegisterAccessor{s: s, idx: idx}, nil
}

// AccessRegistersPair returns accessors for two distinct registers,
// refusing a == b per the no-aliasing invariant.
func AccessRegistersPair(s *Stack, a, b RegisterIndex) (*RegisterAccessor, *RegisterAccessor, error) {
	if a == b {
		return nil, nil, errs.New(errs.KindInvariantViolated, "cannot access the same register twice in one pair")
	}
	aa, err := AccessRegister(s, a)
	if err != nil {
		return nil, nil, err
	}
	ba, err := AccessRegister(s, b)
	if err != nil {
		return nil, nil, err
	}
	return aa, ba, nil
}

// RegisterRead reads a copy of the register's current value.
func RegisterRead[T any](a *RegisterAccessor) (T, error) {
	var zero T
	f, err := a.s.registerFrame(a.idx)
	if err != nil {
		return zero, err
	}
	if !f.initialized() {
		return zero, errs.New(errs.KindInvariantViolated, "register is uninitialized")
	}
	v, ok := value.Read[T](*f.dyn, f.hash)
	if !ok {
		return zero, errs.ErrTypeMismatch
	}
	return v, nil
}

// RegisterSet finalizes any prior contents, then stores v.
func RegisterSet[T any](a *RegisterAccessor, v T) error {
	f, err := a.s.registerFrame(a.idx)
	if err != nil {
		return err
	}
	if f.initialized() && f.finalizer != nil {
		f.finalizer(f.dyn.Ptr())
	}
	box := new(T)
	*box = v
	dyn := value.NewOwned(f.hash, unsafe.Pointer(box), f.finalizer)
	f.dyn = &dyn
	return nil
}

// RegisterWrite overwrites an already-initialized register in place,
// without re-finalizing — distinct from Set, which finalizes prior
// contents first.
func RegisterWrite[T any](a *RegisterAccessor, v T) error {
	f, err := a.s.registerFrame(a.idx)
	if err != nil {
		return err
	}
	if !f.initialized() {
		return errs.New(errs.KindInvariantViolated, "register is uninitialized")
	}
	if !value.Write[T](*f.dyn, f.hash, v) {
		return errs.ErrTypeMismatch
	}
	return nil
}

// RegisterTake reads out the register's value and leaves it
// uninitialized, without running the finalizer (ownership of the value
// transfers to the caller).
func RegisterTake[T any](a *RegisterAccessor) (T, error) {
	var zero T
	f, err := a.s.registerFrame(a.idx)
	if err != nil {
		return zero, err
	}
	if !f.initialized() {
		return zero, errs.New(errs.KindInvariantViolated, "register is uninitialized")
	}
	v := *(*T)(f.dyn.Ptr())
	f.dyn.Owner().Drop()
	f.dyn = nil
	return v, nil
}

// Free finalizes the register's current contents (if any) and leaves it
// uninitialized; equivalent to Stack.DropRegister via an accessor.
func (a *RegisterAccessor) Free() error {
	return a.s.DropRegister(a.idx)
}

// MoveTo moves the register's contents into another register, finalizing
// the destination's prior contents first.
func (a *RegisterAccessor) MoveTo(dst RegisterIndex) error {
	return MoveRegister(a.s, a.idx, dst)
}

// MoveRegister moves from's payload into to, finalizing to's prior
// contents first. Moving from an uninitialized source is an error
// rather than silently leaving the destination untouched, since every
// frame must carry a well-defined initialization state. from == to is a
// documented no-op.
func MoveRegister(s *Stack, from, to RegisterIndex) error {
	if from == to {
		if _, err := s.registerFrame(from); err != nil {
			return err
		}
		return nil
	}
	src, err := s.registerFrame(from)
	if err != nil {
		return err
	}
	dst, err := s.registerFrame(to)
	if err != nil {
		return err
	}
	if !src.initialized() {
		return errs.New(errs.KindInvariantViolated, "cannot move from an uninitialized register")
	}
	if src.hash != dst.hash {
		return errs.ErrTypeMismatch
	}
	if dst.initialized() && dst.finalizer != nil {
		dst.finalizer(dst.dyn.Ptr())
	}
	dst.dyn = src.dyn
	src.dyn = nil
	return nil
}

// PushFromRegister moves idx's payload onto the top of the stack as a
// new value frame, leaving the register uninitialized. Ownership of the
// finalizer moves with the payload.
func PushFromRegister(s *Stack, idx RegisterIndex) error {
	if !s.valuesAllowed() {
		return errs.New(errs.KindInvariantViolated, "stack mode forbids value frames")
	}
	f, err := s.registerFrame(idx)
	if err != nil {
		return err
	}
	if !f.initialized() {
		return errs.New(errs.KindInvariantViolated, "register is uninitialized")
	}
	s.frames = append(s.frames, frame{kind: kindValue, hash: f.hash, dyn: f.dyn})
	f.dyn = nil
	return nil
}

// PopToRegister moves the top value frame's payload into register idx,
// finalizing the register's prior contents first.
func PopToRegister(s *Stack, idx RegisterIndex) error {
	if len(s.frames) == 0 {
		return errs.New(errs.KindInvariantViolated, "stack empty")
	}
	top := &s.frames[len(s.frames)-1]
	if top.kind != kindValue {
		return errs.ErrTypeMismatch
	}
	dst, err := s.registerFrame(idx)
	if err != nil {
		return err
	}
	if top.hash != dst.hash {
		return errs.ErrTypeMismatch
	}
	if dst.initialized() && dst.finalizer != nil {
		dst.finalizer(dst.dyn.Ptr())
	}
	dst.dyn = top.dyn
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}
