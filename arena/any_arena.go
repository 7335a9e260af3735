package arena

import (
	"sync"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
)

// AnyIndex pairs an Index with the TypeHash of the typed Arena it
// belongs to, so a caller holding only an AnyIndex can still be routed
// back to the right typed arena inside an AnyArena.
type AnyIndex struct {
	Index Index
	Hash  registry.TypeHash
}

// anyArenaEntry type-erases one registered Arena[T] behind a closure
// vtable — the idiomatic Go substitute for a vtable pointer, since a Go
// interface cannot itself be parameterized by a type known only at
// runtime. ptr exists only so callers that already know T back can
// recover the concrete *Arena[T] via ArenaFor.
type anyArenaEntry struct {
	ptr    any // *Arena[T]
	insert func(v any) Index
	remove func(i Index) bool
	read   func(i Index) (any, bool)
	write  func(i Index, v any) bool
	len    func() int
}

// AnyArena is a heterogeneous collection of typed Arenas, keyed by the
// registered type each one holds. A type's Arena is created only by an
// explicit RegisterArena call; Insert/Remove/Read/Write route to it by
// hash, and Insert for a hash with no registered Arena fails with
// errs.ErrNotFound instead of creating one.
type AnyArena struct {
	mu     sync.Mutex
	byHash map[registry.TypeHash]*anyArenaEntry
}

// NewAnyArena creates an empty AnyArena.
func NewAnyArena() *AnyArena {
	return &AnyArena{byHash: make(map[registry.TypeHash]*anyArenaEntry)}
}

// RegisterArena creates (or replaces) hash's backing Arena[T]. Callers
// pick T to match the registry.Type hash names, the same contract
// package stack's generic Push/Pop rely on.
func RegisterArena[T any](a *AnyArena, hash registry.TypeHash) {
	typed := &Arena[T]{}
	entry := &anyArenaEntry{
		ptr:    typed,
		insert: func(v any) Index { return typed.Insert(v.(T)) },
		remove: func(i Index) bool { return typed.Remove(i) },
		read: func(i Index) (any, bool) {
			v, ok := typed.Read(i)
			return v, ok
		},
		write: func(i Index, v any) bool { return typed.Write(i, v.(T)) },
		len:   typed.Len,
	}
	a.mu.Lock()
	a.byHash[hash] = entry
	a.mu.Unlock()
}

// ArenaFor recovers the concrete *Arena[T] registered for hash, for
// callers that already statically know T and want the zero-overhead
// typed API instead of paying the any-boxing cost on every call.
func ArenaFor[T any](a *AnyArena, hash registry.TypeHash) (*Arena[T], bool) {
	a.mu.Lock()
	e, ok := a.byHash[hash]
	a.mu.Unlock()
	if !ok {
		return nil, false
	}
	typed, ok := e.ptr.(*Arena[T])
	return typed, ok
}

func (a *AnyArena) entry(hash registry.TypeHash) (*anyArenaEntry, bool) {
	a.mu.Lock()
	e, ok := a.byHash[hash]
	a.mu.Unlock()
	return e, ok
}

// Insert routes v into hash's arena, which must already be registered.
func (a *AnyArena) Insert(hash registry.TypeHash, v any) (AnyIndex, error) {
	e, ok := a.entry(hash)
	if !ok {
		return AnyIndex{}, errs.ErrNotFound
	}
	return AnyIndex{Index: e.insert(v), Hash: hash}, nil
}

// Remove deletes i's entry from its arena.
func (a *AnyArena) Remove(i AnyIndex) bool {
	e, ok := a.entry(i.Hash)
	if !ok {
		return false
	}
	return e.remove(i.Index)
}

// Read copies i's entry out as an any, for dynamic callers (the
// ecs/host boundary) that do not statically know T.
func (a *AnyArena) Read(i AnyIndex) (any, bool) {
	e, ok := a.entry(i.Hash)
	if !ok {
		return nil, false
	}
	return e.read(i.Index)
}

// Write overwrites i's entry.
func (a *AnyArena) Write(i AnyIndex, v any) bool {
	e, ok := a.entry(i.Hash)
	if !ok {
		return false
	}
	return e.write(i.Index, v)
}

// Len reports how many live entries hash's arena holds, or 0 if hash
// was never registered.
func (a *AnyArena) Len(hash registry.TypeHash) int {
	e, ok := a.entry(hash)
	if !ok {
		return 0
	}
	return e.len()
}
