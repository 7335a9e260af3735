// Package host binds a Context and Registry together for the duration
// of a call, the way a frontend embeds the VM.
//
// Built as a short-lived, call-scoped binding that threads a
// context.Context through for cancellation — binding a Context+Registry
// pair to one call's lifetime.
package host

import (
	"context"

	"github.com/intuicio-go/intuicio/registry"
	"github.com/intuicio-go/intuicio/vm"
)

// Host pairs one execution's Context with the Registry it resolves
// calls against, and the Interpreter that runs any ScriptBody it finds.
type Host struct {
	Ctx         *vm.Context
	Registry    *registry.Registry
	Interpreter *vm.Interpreter
}

// New creates a Host over a fresh Context, sharing reg and running on
// interp (interp may be shared across Hosts; it carries no per-call
// state beyond a transient scope stack it unwinds before returning).
func New(reg *registry.Registry, interp *vm.Interpreter) *Host {
	return &Host{Ctx: vm.NewContext(), Registry: reg, Interpreter: interp}
}

type hostKey struct{}

// WithGlobal installs h into ctx for the duration of f, and restores the
// previous value once f returns — which falls out naturally from
// context.Context's immutability rather than needing an explicit
// save/restore: f receives a derived context carrying h, while the
// caller's own ctx is untouched, so nested installs nest for free: the
// outer is restored on return.
func WithGlobal(ctx context.Context, h *Host, f func(context.Context) error) error {
	return f(context.WithValue(ctx, hostKey{}, h))
}

// FromContext retrieves the Host WithGlobal installed, if any.
func FromContext(ctx context.Context) (*Host, bool) {
	h, ok := ctx.Value(hostKey{}).(*Host)
	return h, ok
}
