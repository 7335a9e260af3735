package ecs

import "github.com/intuicio-go/intuicio/registry"

// Bundle is the set of component values spawned together, keyed by
// type hash. Each byte slice must be exactly as long as that
// component's registered Layout.Size; Archetype.Insert copies it
// byte-for-byte into the row it allocates (the Go stand-in for the
// reference design's "initialize_into" closure, since a plain memcpy
// already is that closure once the caller has serialized the value).
type Bundle map[registry.TypeHash][]byte

// Hashes returns bundle's component types, order unspecified.
func (b Bundle) Hashes() []registry.TypeHash {
	out := make([]registry.TypeHash, 0, len(b))
	for h := range b {
		out = append(out, h)
	}
	return out
}
