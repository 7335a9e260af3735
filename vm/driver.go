package vm

// Driver lets a host observe Suspend points. The interpreter always
// drops through a Suspend; OnSuspend returns nothing and is purely a
// notification hook, never a halt signal, so the
// core never assumes a scheduler exists to resume it later.
type Driver interface {
	OnSuspend(ctx *Context)
}
