package registry

// Parameter is one input or output slot of a function signature.
type Parameter struct {
	Name string
	Type *Type
}

// Signature describes a callable's name, owner, and parameter lists,
// independent of how its body is implemented.
type Signature struct {
	Name       string
	Module     string
	OwningType *TypeHash
	Visibility Visibility
	Inputs     []Parameter
	Outputs    []Parameter
}

// Body is implemented by every concrete function body kind: a native Go
// pointer body, or a backend-specific body such as an interpreted
// script handle (see package vm). The marker method is unexported so a
// Body can only be built by embedding BodyBase, keeping the set of body
// kinds deliberate even though it spans packages.
type Body interface {
	isFunctionBody()
}

// BodyBase is embedded by out-of-package Body implementations (e.g.
// vm.ScriptBody) to satisfy the marker method.
type BodyBase struct{}

func (BodyBase) isFunctionBody() {}

// Function binds a Signature to a Body.
type Function struct {
	Signature Signature
	Body      Body
}

// PointerBody is a function body implemented directly in Go: it pulls
// its arguments off, and pushes its results onto, whatever stack the
// executing context owns. ctx is typed as any to avoid an import cycle
// back onto package vm (which itself depends on package registry); the
// reference interpreter always passes its own *vm.Context and native
// functions are expected to type-assert it back.
type PointerBody struct {
	Call func(ctx any, reg *Registry) error
}

func (PointerBody) isFunctionBody() {}

// NewPointerFunction builds a Function for the common case of a native
// Go function; it is not added to any Registry until AddFunction.
func NewPointerFunction(sig Signature, call func(ctx any, reg *Registry) error) *Function {
	return &Function{Signature: sig, Body: PointerBody{Call: call}}
}
