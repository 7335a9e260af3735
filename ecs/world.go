package ecs

import (
	"sort"

	"github.com/intuicio-go/intuicio/errs"
	"github.com/intuicio-go/intuicio/registry"
)

type entityRecord struct {
	generation uint32
	archetype  int // index into World.archetypes, -1 if despawned
}

// World owns every entity and archetype in one simulation: a sparse
// entity table mapping id to (generation, archetype), and a slot vector
// of archetypes reused by hash-set identity so two Spawns with the same
// component shape land in the same table.
type World struct {
	entities   []entityRecord
	freeEnts   []uint32
	archetypes []*Archetype
	byShape    map[string]int // sorted-hash key -> archetype index
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{byShape: make(map[string]int)}
}

func shapeKey(hashes []registry.TypeHash) string {
	strs := make([]string, len(hashes))
	for i, h := range hashes {
		strs[i] = h.String()
	}
	sort.Strings(strs)
	key := ""
	for _, s := range strs {
		key += s + "|"
	}
	return key
}

func (w *World) archetypeForShape(infos []ColumnInfo) *Archetype {
	hashes := make([]registry.TypeHash, len(infos))
	for i, info := range infos {
		hashes[i] = info.Hash
	}
	key := shapeKey(hashes)
	if idx, ok := w.byShape[key]; ok {
		return w.archetypes[idx]
	}
	arch := NewArchetype(infos)
	w.archetypes = append(w.archetypes, arch)
	w.byShape[key] = len(w.archetypes) - 1
	return arch
}

func (w *World) archetypeIndexForShape(infos []ColumnInfo) int {
	w.archetypeForShape(infos)
	hashes := make([]registry.TypeHash, len(infos))
	for i, info := range infos {
		hashes[i] = info.Hash
	}
	return w.byShape[shapeKey(hashes)]
}

func (w *World) allocEntity() Entity {
	if n := len(w.freeEnts); n > 0 {
		id := w.freeEnts[n-1]
		w.freeEnts = w.freeEnts[:n-1]
		w.entities[id].archetype = -1
		return Entity{ID: id, Generation: w.entities[id].generation}
	}
	id := uint32(len(w.entities))
	w.entities = append(w.entities, entityRecord{archetype: -1})
	return Entity{ID: id, Generation: 0}
}

func (w *World) valid(e Entity) bool {
	if int(e.ID) >= len(w.entities) {
		return false
	}
	rec := w.entities[e.ID]
	return rec.archetype >= 0 && rec.generation == e.Generation
}

// ComponentInfo pairs a bundle's value bytes with its column shape, so
// Spawn/InsertComponents can both place data and (re)create archetypes
// without a separate registry lookup.
type ComponentInfo struct {
	Info ColumnInfo
	Data []byte
}

// Spawn creates a new entity with exactly the given components, routing
// it into the archetype with that exact column set (created on first
// use, per spec's hash-set-equality archetype identity).
func (w *World) Spawn(components []ComponentInfo) (Entity, error) {
	infos := make([]ColumnInfo, len(components))
	bundle := make(Bundle, len(components))
	for i, c := range components {
		infos[i] = c.Info
		bundle[c.Info.Hash] = c.Data
	}
	idx := w.archetypeIndexForShape(infos)
	arch := w.archetypes[idx]

	e := w.allocEntity()
	if err := arch.Insert(e, bundle); err != nil {
		return Entity{}, err
	}
	w.entities[e.ID].archetype = idx
	return e, nil
}

// Despawn removes e from its archetype and bumps its generation so any
// stale Entity value referencing it resolves to nothing from now on.
func (w *World) Despawn(e Entity) error {
	if !w.valid(e) {
		return errs.ErrNotFound
	}
	rec := &w.entities[e.ID]
	if err := w.archetypes[rec.archetype].Remove(e); err != nil {
		return err
	}
	rec.archetype = -1
	rec.generation++
	w.freeEnts = append(w.freeEnts, e.ID)
	return nil
}

// InsertComponents moves e into the archetype whose column set is its
// current columns plus added's, transferring its existing values and
// populating the newly added ones.
func (w *World) InsertComponents(e Entity, added []ComponentInfo) error {
	if !w.valid(e) {
		return errs.ErrNotFound
	}
	rec := &w.entities[e.ID]
	src := w.archetypes[rec.archetype]

	infos := append([]ColumnInfo{}, columnInfos(src)...)
	for _, c := range added {
		if src.Has(c.Info.Hash) {
			return errs.New(errs.KindInvariantViolated, "entity already has component")
		}
		infos = append(infos, c.Info)
	}
	dstIdx := w.archetypeIndexForShape(infos)
	dst := w.archetypes[dstIdx]

	ra, err := src.Transfer(dst, e)
	if err != nil {
		return err
	}
	for _, c := range added {
		ra.Set(c.Info.Hash, c.Data)
	}
	rec.archetype = dstIdx
	return nil
}

// RemoveComponents moves e into the archetype whose column set is its
// current columns minus the given hashes.
func (w *World) RemoveComponents(e Entity, removed []registry.TypeHash) error {
	if !w.valid(e) {
		return errs.ErrNotFound
	}
	rec := &w.entities[e.ID]
	src := w.archetypes[rec.archetype]

	removedSet := make(map[registry.TypeHash]bool, len(removed))
	for _, h := range removed {
		removedSet[h] = true
	}
	var infos []ColumnInfo
	for _, info := range columnInfos(src) {
		if !removedSet[info.Hash] {
			infos = append(infos, info)
		}
	}
	dstIdx := w.archetypeIndexForShape(infos)
	dst := w.archetypes[dstIdx]

	if _, err := src.Transfer(dst, e); err != nil {
		return err
	}
	rec.archetype = dstIdx
	return nil
}

func columnInfos(a *Archetype) []ColumnInfo {
	out := make([]ColumnInfo, 0, len(a.columns))
	for _, c := range a.columns {
		out = append(out, c.Info)
	}
	return out
}

// ArchetypeOf returns the archetype currently holding e, if any.
func (w *World) ArchetypeOf(e Entity) (*Archetype, bool) {
	if !w.valid(e) {
		return nil, false
	}
	return w.archetypes[w.entities[e.ID].archetype], true
}
