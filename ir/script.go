package ir

import "github.com/intuicio-go/intuicio/registry"

// Script is an ordered sequence of operations.
type Script []ScriptOperation

// ScriptHandle is a shared, immutable reference to a Script, published
// once via Seal. Backends (package vm) hold ScriptHandles rather than
// raw Scripts so a function body can be shared across callsites without
// copying the operation slice.
type ScriptHandle struct {
	script Script
	sealed bool
}

// NewScriptHandle wraps ops and seals it immediately; ops must not be
// mutated by the caller afterwards.
func NewScriptHandle(ops Script) *ScriptHandle {
	return &ScriptHandle{script: ops, sealed: true}
}

// Script returns the sealed operation sequence.
func (h *ScriptHandle) Script() Script { return h.script }

// Sealed reports whether the handle has been published. All handles
// returned by NewScriptHandle are sealed; the flag exists for builders
// that construct a handle incrementally before publishing it.
func (h *ScriptHandle) Sealed() bool { return h.sealed }

// ScriptStruct is an IR-level struct declaration a registry.Registry
// eventually installs as a registry.Type.
type ScriptStruct struct {
	Name   string
	Fields []registry.Field
}

// ScriptEnum is an IR-level enum declaration.
type ScriptEnum struct {
	Name                string
	Variants            []registry.Variant
	DefaultDiscriminant *uint8
}

// ScriptFunction is an IR-level function declaration; Body holds the
// interpreter backend's operation sequence. OwningType, if any, lives on
// Signature itself.
type ScriptFunction struct {
	Signature registry.Signature
	Body      *ScriptHandle
}

// Module collects one frontend compilation unit's declarations.
type Module struct {
	Name      string
	Structs   []ScriptStruct
	Enums     []ScriptEnum
	Functions []ScriptFunction
}

// Package collects modules together with their import graph: Imports
// maps a module's sanitized path to the sanitized paths it imports.
type Package struct {
	Modules []Module
	Imports map[string][]string
}
