package ecs

import (
	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
)

// denseMap maps an entity to its row and back, giving O(1) swap-remove:
// removing a row only ever requires knowing which entity currently sits
// in the row being vacated.
type denseMap struct {
	rowOf  map[Entity]int
	entAt  []Entity
}

func newDenseMap() *denseMap {
	return &denseMap{rowOf: make(map[Entity]int)}
}

func (m *denseMap) insert(e Entity) int {
	row := len(m.entAt)
	m.entAt = append(m.entAt, e)
	m.rowOf[e] = row
	return row
}

func (m *denseMap) remove(e Entity) (row int, ok bool) {
	row, ok = m.rowOf[e]
	if !ok {
		return 0, false
	}
	last := len(m.entAt) - 1
	if row != last {
		moved := m.entAt[last]
		m.entAt[row] = moved
		m.rowOf[moved] = row
	}
	m.entAt = m.entAt[:last]
	delete(m.rowOf, e)
	return row, true
}

// Archetype is a columnar table for every entity sharing the exact same
// component type set. Rows are dense: removing one always swaps the
// last row into the hole, so size never drifts from the count of live
// entities.
type Archetype struct {
	columns  map[registry.TypeHash]*Column
	dense    *denseMap
	size     int
	capacity int
}

// NewArchetype creates an empty archetype over exactly the given
// component columns.
func NewArchetype(infos []ColumnInfo) *Archetype {
	columns := make(map[registry.TypeHash]*Column, len(infos))
	for _, info := range infos {
		columns[info.Hash] = newColumn(info)
	}
	return &Archetype{columns: columns, dense: newDenseMap()}
}

// Hashes returns the archetype's column set, order unspecified — used
// by World to identify an archetype by its exact component shape.
func (a *Archetype) Hashes() []registry.TypeHash {
	out := make([]registry.TypeHash, 0, len(a.columns))
	for h := range a.columns {
		out = append(out, h)
	}
	return out
}

// Has reports whether hash is one of this archetype's columns.
func (a *Archetype) Has(hash registry.TypeHash) bool {
	_, ok := a.columns[hash]
	return ok
}

// ColumnAccess exposes the *Column backing hash, for callers that want
// to acquire it directly rather than going through World.Each.
func (a *Archetype) ColumnAccess(hash registry.TypeHash) (*Column, bool) {
	c, ok := a.columns[hash]
	return c, ok
}

// Size returns the current row count.
func (a *Archetype) Size() int { return a.size }

// ColumnData returns a copy of row's bytes in hash's column, for
// callers (typically inside a World.Each visitor) that already hold an
// acquired access to that column.
func (a *Archetype) ColumnData(hash registry.TypeHash, row int) ([]byte, bool) {
	col, ok := a.columns[hash]
	if !ok {
		return nil, false
	}
	size := int(col.Info.Layout.Size)
	out := make([]byte, size)
	copy(out, col.mem[row*size:row*size+size])
	return out, true
}

// WriteColumnData overwrites row's bytes in hash's column, for callers
// holding a unique (write) access to that column.
func (a *Archetype) WriteColumnData(hash registry.TypeHash, row int, data []byte) bool {
	col, ok := a.columns[hash]
	if !ok {
		return false
	}
	size := int(col.Info.Layout.Size)
	copy(col.mem[row*size:row*size+size], data)
	return true
}

func (a *Archetype) growIfFull() {
	if a.size < a.capacity {
		return
	}
	newCap := a.capacity * 2
	if newCap == 0 {
		newCap = 1
	}
	for _, c := range a.columns {
		c.growTo(newCap)
	}
	a.capacity = newCap
}

// Insert adds e as a new row, writing bundle's values into each
// matching column. bundle must supply exactly this archetype's columns,
// no more and no fewer.
func (a *Archetype) Insert(e Entity, bundle Bundle) error {
	if len(bundle) != len(a.columns) {
		return errs.New(errs.KindInvariantViolated, "bundle does not match archetype column set")
	}
	for hash := range bundle {
		if _, ok := a.columns[hash]; !ok {
			return errs.New(errs.KindInvariantViolated, "bundle column not present in archetype")
		}
	}

	a.growIfFull()
	row := a.dense.insert(e)
	for hash, col := range a.columns {
		data := bundle[hash]
		size := int(col.Info.Layout.Size)
		copy(col.mem[row*size:row*size+size], data)
	}
	a.size++
	return nil
}

// Remove finalizes and swap-deletes e's row.
func (a *Archetype) Remove(e Entity) error {
	row, ok := a.dense.remove(e)
	if !ok {
		return errs.ErrNotFound
	}
	last := a.size - 1
	for _, col := range a.columns {
		col.finalizeRow(row)
		if row != last {
			col.copyRow(row, last)
		}
	}
	a.size = last
	return nil
}

// RowAccess lets Transfer's caller populate the columns that were
// freshly added by the move, i.e. the ones neither copied from the
// source archetype nor already present there.
type RowAccess struct {
	Archetype *Archetype
	Row       int
	ToInit    []registry.TypeHash
}

// Set copies data into the destination row's slot of the column with
// the given hash (typically one of ToInit's columns). It reports false
// if the archetype has no such column.
func (ra RowAccess) Set(hash registry.TypeHash, data []byte) bool {
	col, ok := ra.Archetype.columns[hash]
	if !ok {
		return false
	}
	size := int(col.Info.Layout.Size)
	copy(col.mem[ra.Row*size:ra.Row*size+size], data)
	return true
}

// Transfer moves e's row from a to dst, following spec's six-step
// algorithm: reserve the destination row, classify columns into
// to-move/to-finalize/to-initialize, copy what's shared, finalize
// what's dropped, compact the source, and return a handle for the
// caller to populate what's new.
func (a *Archetype) Transfer(dst *Archetype, e Entity) (RowAccess, error) {
	srcRow, ok := a.dense.rowOf[e]
	if !ok {
		return RowAccess{}, errs.ErrNotFound
	}

	dst.growIfFull()
	dstRow := dst.dense.insert(e)
	if _, ok := a.dense.remove(e); !ok {
		return RowAccess{}, errs.ErrNotFound
	}

	var toInit []registry.TypeHash
	for hash, dstCol := range dst.columns {
		srcCol, sharedInSrc := a.columns[hash]
		if sharedInSrc {
			size := int(dstCol.Info.Layout.Size)
			copy(dstCol.mem[dstRow*size:dstRow*size+size], srcCol.mem[srcRow*size:srcRow*size+size])
		} else {
			toInit = append(toInit, hash)
		}
	}
	for hash, srcCol := range a.columns {
		if _, stillPresent := dst.columns[hash]; !stillPresent {
			srcCol.finalizeRow(srcRow)
		}
	}

	last := a.size - 1
	if srcRow != last {
		for _, col := range a.columns {
			col.copyRow(srcRow, last)
		}
	}
	a.size = last
	dst.size++

	return RowAccess{Archetype: dst, Row: dstRow, ToInit: toInit}, nil
}
