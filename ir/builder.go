package ir

import "github.com/intuicio-go/intuicio/registry"

// Builder assembles a Script fluently, one operation at a time, mirroring
// pkg/ast/builder.go's incremental tree assembly (there, nodes and
// values accumulate onto a Tree; here, operations accumulate onto a
// Script) before being sealed into a ScriptHandle.
type Builder struct {
	ops Script
}

// NewBuilder starts an empty script.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) push(op ScriptOperation) *Builder {
	b.ops = append(b.ops, op)
	return b
}

func (b *Builder) Expression(eval func(ctx any) error) *Builder {
	return b.push(Expression{Eval: eval})
}

func (b *Builder) DefineRegister(q registry.Query) *Builder {
	return b.push(DefineRegister{Query: q})
}

func (b *Builder) DropRegister(index int) *Builder {
	return b.push(DropRegister{Index: index})
}

func (b *Builder) PushFromRegister(index int) *Builder {
	return b.push(PushFromRegister{Index: index})
}

func (b *Builder) PopToRegister(index int) *Builder {
	return b.push(PopToRegister{Index: index})
}

func (b *Builder) MoveRegister(from, to int) *Builder {
	return b.push(MoveRegister{From: from, To: to})
}

func (b *Builder) CallFunction(q registry.Query) *Builder {
	return b.push(CallFunction{Query: q})
}

func (b *Builder) BranchScope(success, failure Script) *Builder {
	return b.push(BranchScope{Success: success, Failure: failure})
}

func (b *Builder) LoopScope(body Script) *Builder {
	return b.push(LoopScope{Body: body})
}

func (b *Builder) PushScope(body Script) *Builder {
	return b.push(PushScope{Body: body})
}

func (b *Builder) PopScope() *Builder {
	return b.push(PopScope{})
}

func (b *Builder) ContinueScopeConditionally() *Builder {
	return b.push(ContinueScopeConditionally{})
}

func (b *Builder) Suspend() *Builder {
	return b.push(Suspend{})
}

// Build returns the accumulated script without sealing it.
func (b *Builder) Build() Script { return b.ops }

// Seal returns the accumulated script wrapped in a published,
// immutable ScriptHandle.
func (b *Builder) Seal() *ScriptHandle { return NewScriptHandle(b.ops) }
