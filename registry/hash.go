package registry

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

// TypeHash is the stable, 128-bit identity of a registered type. Two
// types are equal iff their hashes are equal; layout and field-wise
// compatibility are checked separately by the caller.
type TypeHash struct {
	hi uint64
	lo uint64
}

// String renders the hash as a fixed-width hex pair, for diagnostics
// only; it carries no semantic meaning beyond equality.
func (h TypeHash) String() string {
	return fmt.Sprintf("%016x%016x", h.hi, h.lo)
}

// IsZero reports whether h is the zero hash (used as "no hash recorded"
// in partial queries).
func (h TypeHash) IsZero() bool { return h.hi == 0 && h.lo == 0 }

// HashType derives a TypeHash from a language-neutral type identifier:
// a module path, a bare name, and a structural tag distinguishing
// structs, enums, and foreign/native kinds that might otherwise collide
// on name alone.
func HashType(module, name, structuralTag string) TypeHash {
	sum := fnv.New128a()
	_, _ = sum.Write([]byte(module))
	_, _ = sum.Write([]byte("::"))
	_, _ = sum.Write([]byte(name))
	_, _ = sum.Write([]byte("#"))
	_, _ = sum.Write([]byte(structuralTag))
	b := sum.Sum(nil)
	return TypeHash{
		hi: beU64(b[0:8]),
		lo: beU64(b[8:16]),
	}
}

// HashForeign derives a TypeHash for a native/plugin-supplied type that
// has no stable Go identifier of its own, keying off a caller-chosen
// namespace UUID plus a foreign tag (e.g. a C ABI type name). This is
// the one place the domain stack reaches for github.com/google/uuid: a
// stable namespace id keeps repeated registrations of the same foreign
// type converging on the same hash across processes.
func HashForeign(namespace uuid.UUID, foreignTag string) TypeHash {
	sum := fnv.New128a()
	_, _ = sum.Write(namespace[:])
	_, _ = sum.Write([]byte("#foreign#"))
	_, _ = sum.Write([]byte(foreignTag))
	b := sum.Sum(nil)
	return TypeHash{hi: beU64(b[0:8]), lo: beU64(b[8:16])}
}

func beU64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
