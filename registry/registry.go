// Package registry is the process-wide catalog of structs, enums, and
// functions: precise memory layout, initializer/finalizer discipline,
// and query-based lookup, built on a two-tier index design (an ordered
// slot table plus a hash-keyed fast path) and a typed-error taxonomy —
// applied here to runtime types and functions instead of storage keys
// and values.
package registry

import "github.com/intuicio-go/intuicio/errs"

// Registry holds every declared type and function, in insertion order,
// with a hash-indexed fast path for exact lookups. It is mutable only
// through AddType/AddFunction (Define* also mutates a *Type already
// added here in place); concurrent readers are safe as long as
// no writer is active, a synchronization duty left to the host.
type Registry struct {
	types     []*Type
	functions []*Function

	typeByHash map[TypeHash]int
	typeByName map[string]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		typeByHash: make(map[TypeHash]int),
		typeByName: make(map[string]int),
	}
}

// AddType inserts or replaces a type. Re-registering an already-hashed
// type updates the canonical slot in place — later registrations win,
// an overwrite-on-duplicate-key policy — rather than erroring.
func (r *Registry) AddType(t *Type) {
	if idx, ok := r.typeByHash[t.Hash]; ok {
		r.types[idx] = t
	} else {
		r.types = append(r.types, t)
		r.typeByHash[t.Hash] = len(r.types) - 1
	}
	r.typeByName[qualifiedName(t.Module, t.Name)] = r.typeByHash[t.Hash]
}

// AddFunction appends a function. Unlike types, functions are not
// deduplicated by hash (signatures, not hashes, identify them); repeated
// registration of the same name/module/owner is legal overloading and
// find_function returns the first insertion-order match.
func (r *Registry) AddFunction(f *Function) {
	r.functions = append(r.functions, f)
}

// FindType returns the first insertion-order type satisfying q.
func (r *Registry) FindType(q Query) (*Type, bool) {
	if q.Hash != nil && isExactHashQuery(q) {
		idx, ok := r.typeByHash[*q.Hash]
		if !ok {
			return nil, false
		}
		return r.types[idx], true
	}
	for _, t := range r.types {
		if q.MatchType(t) {
			return t, true
		}
	}
	return nil, false
}

// isExactHashQuery reports whether q only constrains by hash, letting
// FindType take the O(1) index path instead of a linear scan.
func isExactHashQuery(q Query) bool {
	return q.Name == nil && q.Module == nil && q.Visibility == nil && q.Kind == nil && q.Fields == nil
}

// Types iterates every registered type in insertion order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, len(r.types))
	copy(out, r.types)
	return out
}

// FindFunction returns the first insertion-order function satisfying q.
func (r *Registry) FindFunction(q Query) (*Function, bool) {
	for _, f := range r.functions {
		if q.MatchFunction(f) {
			return f, true
		}
	}
	return nil, false
}

// Functions iterates every registered function in insertion order.
func (r *Registry) Functions() []*Function {
	out := make([]*Function, len(r.functions))
	copy(out, r.functions)
	return out
}

// MustFindType is a convenience wrapper returning errs.ErrNotFound
// instead of a bare bool, for call sites that want to propagate a
// typed error.
func (r *Registry) MustFindType(q Query) (*Type, error) {
	t, ok := r.FindType(q)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return t, nil
}

// MustFindFunction mirrors MustFindType for functions.
func (r *Registry) MustFindFunction(q Query) (*Function, error) {
	f, ok := r.FindFunction(q)
	if !ok {
		return nil, errs.ErrNotFound
	}
	return f, nil
}

func qualifiedName(module, name string) string {
	if module == "" {
		return name
	}
	return module + "::" + name
}
