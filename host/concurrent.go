package host

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/intuicio-go/intuicio/vm"
)

// CallConcurrent fans calls out over independent Hosts that share h's
// Registry and Interpreter but get their own Context, so each call's
// data stack and registers are private — the only thing that may
// legitimately race between them is the Registry itself, which is a
// read-only catalog once calls begin (synchronization duty is on
// the host, which this satisfies by never sharing a Context).
//
// It returns the first error any call produces; the rest run to
// completion (errgroup cancels ctx but calls aren't required to check
// it).
func CallConcurrent(ctx context.Context, h *Host, calls ...func(*Host) error) error {
	g, _ := errgroup.WithContext(ctx)
	for _, call := range calls {
		call := call
		g.Go(func() error {
			child := &Host{
				Ctx:         vm.NewContext(),
				Registry:    h.Registry,
				Interpreter: h.Interpreter,
			}
			return call(child)
		})
	}
	return g.Wait()
}
