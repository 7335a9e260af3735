// Package ecs implements columnar archetype storage: entities are rows
// in a table whose columns are exactly the component types that entity
// carries, and changing an entity's component set moves its row to a
// different archetype rather than leaving holes in place.
//
// Built on growth-by-doubling columnar storage, and a two-tier
// dense-map-plus-hash lookup for the entity↔row map.
package ecs

// Entity identifies one row across its owning archetype's lifetime.
// Generation distinguishes this occupancy of ID from any that came
// before it, the same discipline as arena.Index.
type Entity struct {
	ID         uint32
	Generation uint32
}
