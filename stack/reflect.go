package stack

import (
	"reflect"
	"unsafe"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/value"
)

// PushReflect is Push's counterpart for callers that only know a
// payload's type at runtime (package host's dynamic call marshalling,
// which receives arguments as a reflect.Value derived from a generic
// argument struct's fields rather than a statically known T).
func PushReflect(s *Stack, hash registry.TypeHash, fin registry.FinalizerFunc, v reflect.Value) error {
	if !s.valuesAllowed() {
		return errs.New(errs.KindInvariantViolated, "stack mode forbids value frames")
	}
	box := reflect.New(v.Type())
	box.Elem().Set(v)
	dyn := value.NewOwned(hash, unsafe.Pointer(box.Pointer()), fin)
	s.frames = append(s.frames, frame{kind: kindValue, hash: hash, dyn: &dyn})
	return nil
}

// PopReflect is Pop's counterpart for dynamic callers: it pops the top
// value frame, copies it out as a reflect.Value of type t, and drops the
// owner.
func PopReflect(s *Stack, hash registry.TypeHash, t reflect.Type) (reflect.Value, error) {
	if len(s.frames) == 0 {
		return reflect.Value{}, errs.New(errs.KindInvariantViolated, "stack empty")
	}
	top := &s.frames[len(s.frames)-1]
	if top.kind != kindValue || top.hash != hash {
		return reflect.Value{}, errs.ErrTypeMismatch
	}
	out := reflect.New(t).Elem()
	out.Set(reflect.NewAt(t, top.dyn.Ptr()).Elem())
	top.dyn.Owner().Drop()
	s.frames = s.frames[:len(s.frames)-1]
	return out, nil
}
