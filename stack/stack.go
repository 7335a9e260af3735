// Package stack implements the typed LIFO data stack and indexed
// register file the VM manipulates: tagged frames (exactly one type-hash
// terminator per payload), store/restore/reverse around scope
// boundaries, and byte-level transfer between stack and register
// storage with finalizer ownership moving with the payload.
//
// Built as a size/type-tagged slot manager with strict push/pop
// discipline and a "every slot has exactly one owner at a time"
// invariant: each frame is tagged with a registry.TypeHash.
package stack

import (
	"unsafe"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/value"
)

func ptrOf[T any](v *T) unsafe.Pointer { return unsafe.Pointer(v) }

// Mode gates which kind of frame a Stack will accept.
type Mode int

const (
	ModeValues Mode = iota
	ModeRegisters
	ModeAll
)

type frameKind int

const (
	kindValue frameKind = iota
	kindRegister
)

type frame struct {
	kind frameKind
	hash registry.TypeHash

	// Value frames keep their payload behind a value.Dynamic so package
	// value's borrow/finalize discipline is reused as-is.
	dyn *value.Dynamic

	// Register frames additionally know their declared layout and
	// finalizer; dyn is nil while the slot is uninitialized.
	regLayout registry.Layout
	finalizer registry.FinalizerFunc
}

// initialized reports whether a register frame currently holds a value.
func (f *frame) initialized() bool { return f.dyn != nil }

// StoreToken marks a position in the frame list, to be restored to
// later.
type StoreToken int

// RegisterIndex addresses a register frame by its stable position in
// the frame list (frames are only ever appended or truncated from the
// top, so an index stays valid for the slot's whole lifetime).
type RegisterIndex int

// Stack is a typed LIFO of value and register frames.
type Stack struct {
	mode   Mode
	frames []frame
}

// New creates an empty Stack accepting the given frame kinds.
func New(mode Mode) *Stack {
	return &Stack{mode: mode}
}

func (s *Stack) valuesAllowed() bool    { return s.mode == ModeValues || s.mode == ModeAll }
func (s *Stack) registersAllowed() bool { return s.mode == ModeRegisters || s.mode == ModeAll }

// Push appends a new owned value frame holding v, tagged with hash.
func Push[T any](s *Stack, hash registry.TypeHash, fin registry.FinalizerFunc, v T) error {
	if !s.valuesAllowed() {
		return errs.New(errs.KindInvariantViolated, "stack mode forbids value frames")
	}
	box := new(T)
	*box = v
	dyn := value.NewOwned(hash, ptrOf(box), fin)
	s.frames = append(s.frames, frame{kind: kindValue, hash: hash, dyn: &dyn})
	return nil
}

// Pop removes and returns the top value frame, failing if the top frame
// is a register marker or tagged with a different hash.
func Pop[T any](s *Stack, hash registry.TypeHash) (T, error) {
	var zero T
	if len(s.frames) == 0 {
		return zero, errs.New(errs.KindInvariantViolated, "stack empty")
	}
	top := &s.frames[len(s.frames)-1]
	if top.kind != kindValue || top.hash != hash {
		return zero, errs.ErrTypeMismatch
	}
	v, ok := value.Consume[T](*top.dyn, hash)
	if !ok {
		return zero, errs.New(errs.KindInvariantViolated, "value has outstanding borrows")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return v, nil
}

// Drop finalizes and removes the top value frame without returning it.
func Drop(s *Stack) error {
	if len(s.frames) == 0 {
		return errs.New(errs.KindInvariantViolated, "stack empty")
	}
	top := &s.frames[len(s.frames)-1]
	if top.kind != kindValue {
		return errs.ErrTypeMismatch
	}
	finalizeFrame(top)
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Store captures the current stack position.
func (s *Stack) Store() StoreToken { return StoreToken(len(s.frames)) }

// Restore finalizes and pops every frame above tok, in LIFO order,
// leaving the stack exactly as it was at Store() time. Register frames
// created after tok are finalized too; ones created before tok are left
// untouched, which is what lets a scope unwound by a loop break or an
// error preserve registers the outer scope already owns.
func (s *Stack) Restore(tok StoreToken) error {
	if int(tok) > len(s.frames) {
		return errs.New(errs.KindInvariantViolated, "store token out of range")
	}
	for i := len(s.frames) - 1; i >= int(tok); i-- {
		finalizeFrame(&s.frames[i])
	}
	s.frames = s.frames[:tok]
	return nil
}

// Reverse reverses the order of value frames above tok in place,
// leaving register frames at their original positions (and thus their
// original RegisterIndex values) untouched.
func (s *Stack) Reverse(tok StoreToken) error {
	if int(tok) > len(s.frames) {
		return errs.New(errs.KindInvariantViolated, "store token out of range")
	}
	above := s.frames[tok:]
	var valueSlots []int
	for i, f := range above {
		if f.kind == kindValue {
			valueSlots = append(valueSlots, i)
		}
	}
	for i, j := 0, len(valueSlots)-1; i < j; i, j = i+1, j-1 {
		above[valueSlots[i]], above[valueSlots[j]] = above[valueSlots[j]], above[valueSlots[i]]
	}
	return nil
}

// Len reports the total number of frames (value and register) on the
// stack.
func (s *Stack) Len() int { return len(s.frames) }

func finalizeFrame(f *frame) {
	switch f.kind {
	case kindValue:
		if f.dyn != nil {
			if fin := f.dyn.Finalizer(); fin != nil {
				fin(f.dyn.Ptr())
			}
			f.dyn.Owner().Drop()
		}
	case kindRegister:
		if f.initialized() && f.finalizer != nil {
			f.finalizer(f.dyn.Ptr())
		}
		f.dyn = nil
	}
}
