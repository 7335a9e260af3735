package ecs

import (
	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
)

// Query is a filter over archetype column sets: an archetype matches
// iff it has every hash in Read, Write, and Include, and none of
// Exclude. Write columns are acquired uniquely when a query runs; Read
// columns non-uniquely; listing the same hash in Write more than once,
// or in both Read and Write, is a construction-time error: duplicate
// writes to the same column within one query item are forbidden.
type Query struct {
	Read    []registry.TypeHash
	Write   []registry.TypeHash
	Include []registry.TypeHash
	Exclude []registry.TypeHash
}

// Validate reports the one construction-time invariant a Query must
// satisfy: no type hash appears in Write more than once, or in both
// Read and Write.
func (q Query) Validate() error {
	seen := make(map[registry.TypeHash]bool, len(q.Write))
	for _, h := range q.Write {
		if seen[h] {
			return errs.New(errs.KindInvariantViolated, "duplicate write column in query")
		}
		seen[h] = true
	}
	for _, h := range q.Read {
		if seen[h] {
			return errs.New(errs.KindInvariantViolated, "column requested as both read and write")
		}
	}
	return nil
}

func (q Query) matches(a *Archetype) bool {
	for _, h := range q.Read {
		if !a.Has(h) {
			return false
		}
	}
	for _, h := range q.Write {
		if !a.Has(h) {
			return false
		}
	}
	for _, h := range q.Include {
		if !a.Has(h) {
			return false
		}
	}
	for _, h := range q.Exclude {
		if a.Has(h) {
			return false
		}
	}
	return true
}

// Row is one matched entity's row, scoped to the archetype and
// acquired columns q asked for.
type Row struct {
	Entity    Entity
	Archetype *Archetype
	Index     int
}

// Each visits every row of every archetype satisfying q, acquiring
// write columns uniquely and read columns non-uniquely for the
// duration of the whole archetype's visit (not released per-row — a
// query holds its column access for as long as it iterates one
// archetype, matching spec's "columns requested as write are acquired
// uniquely" at the query-item granularity, not the row granularity).
// locking selects CAS-spin vs fail-fast column acquisition.
func (w *World) Each(q Query, locking bool, fn func(Row)) error {
	if err := q.Validate(); err != nil {
		return err
	}
	for _, arch := range w.archetypes {
		if arch.Size() == 0 || !q.matches(arch) {
			continue
		}
		releases, ok := acquireQueryColumns(arch, q, locking)
		if !ok {
			return errs.ErrLifetimeDenied
		}
		for row := 0; row < arch.Size(); row++ {
			fn(Row{Entity: arch.dense.entAt[row], Archetype: arch, Index: row})
		}
		for _, release := range releases {
			release()
		}
	}
	return nil
}

func acquireQueryColumns(a *Archetype, q Query, locking bool) ([]func(), bool) {
	var releases []func()
	rollback := func() {
		for _, r := range releases {
			r()
		}
	}
	for _, h := range q.Write {
		release, ok := a.columns[h].AcquireUnique(locking)
		if !ok {
			rollback()
			return nil, false
		}
		releases = append(releases, release)
	}
	for _, h := range q.Read {
		release, ok := a.columns[h].Acquire(locking)
		if !ok {
			rollback()
			return nil, false
		}
		releases = append(releases, release)
	}
	return releases, true
}
