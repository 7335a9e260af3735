package registry

import "unsafe"

// Visibility controls whether a type, field, or function is reachable
// from outside its declaring module.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityModule
	VisibilityPrivate
)

// Kind distinguishes struct layout from tagged-union (enum) layout.
type Kind int

const (
	KindStruct Kind = iota
	KindEnum
)

// InitializerFunc initializes an uninitialized region of the type's size
// in place.
type InitializerFunc func(ptr unsafe.Pointer)

// FinalizerFunc destructs a value in place without freeing its memory.
type FinalizerFunc func(ptr unsafe.Pointer)

// Field is one ordered member of a struct, or of a single enum variant.
type Field struct {
	Name       string
	Type       *Type
	Visibility Visibility
	Offset     uintptr
}

// Variant is one case of an enum: its own discriminant byte value and
// its own ordered, independently-offset field list.
type Variant struct {
	Name         string
	Discriminant uint8
	Fields       []Field
}

// tagLayout is the mandated one-byte discriminant every enum carries at
// offset 0, for wire-format stability and so the registry can read a
// variant's tag from an arbitrary pointer.
var tagLayout = Layout{Size: 1, Align: 1}

// Type is one entry in the registry: a struct or enum's full memory
// layout, its initializer/finalizer pair, and the thread-safety/copy
// facts the host needs to decide how it may be handled.
type Type struct {
	Name        string
	Module      string
	Visibility  Visibility
	Hash        TypeHash
	Layout      Layout
	Initializer InitializerFunc
	Finalizer   FinalizerFunc
	IsSend      bool
	IsSync      bool
	IsCopy      bool
	Kind        Kind

	Fields              []Field   // struct only
	Variants            []Variant // enum only
	DefaultDiscriminant *uint8    // enum only, optional
}

// DeclareStruct builds a stub with name, hash, and a placeholder
// (zero) layout, allowing forward references among mutually recursive
// struct definitions. It inserts nothing into a Registry; AddType does
// that, and DefineStruct later fills in the same *Type in place. Call
// DefineStruct once every dependent type has itself been declared.
func DeclareStruct(name, module string) *Type {
	return &Type{
		Name:   name,
		Module: module,
		Hash:   HashType(module, name, "struct"),
		Kind:   KindStruct,
	}
}

// DefineStruct computes field offsets by successively extending t's
// layout with each field's own layout (in order), then pads the whole
// layout to its final alignment, and installs a registry-synthesized
// initializer/finalizer that walks the fields.
func DefineStruct(t *Type, fields []Field) {
	var l Layout
	for i := range fields {
		fields[i].Offset = l.Extend(fields[i].Type.Layout)
	}
	l.PadToAlign()
	t.Layout = l
	t.Fields = fields
	t.Initializer = structInitializer(fields)
	t.Finalizer = structFinalizer(fields)
}

// InstallStruct declares and defines a struct type in one call, for the
// common case where there is no forward-reference cycle to break.
func InstallStruct(name, module string, fields []Field) *Type {
	t := DeclareStruct(name, module)
	DefineStruct(t, fields)
	return t
}

// DeclareEnum builds a stub enum type; see DeclareStruct.
func DeclareEnum(name, module string) *Type {
	return &Type{
		Name:   name,
		Module: module,
		Hash:   HashType(module, name, "enum"),
		Kind:   KindEnum,
	}
}

// DefineEnum lays out each variant starting just past the one-byte tag,
// computing per-variant field offsets independently (variants overlap in
// memory, like a C union), and sizes the whole enum as the largest
// variant end (each variant's layout already includes the tag), padded
// to the widest alignment among the tag and all variant fields.
func DefineEnum(t *Type, variants []Variant, defaultDiscriminant *uint8) {
	overall := tagLayout
	for vi := range variants {
		var vl Layout
		vl.Extend(tagLayout) // reserve the tag region before variant fields
		for fi := range variants[vi].Fields {
			variants[vi].Fields[fi].Offset = vl.Extend(variants[vi].Fields[fi].Type.Layout)
		}
		vl.PadToAlign()
		overall = Max(overall, vl)
	}
	overall.PadToAlign()
	t.Layout = overall
	t.Variants = variants
	t.DefaultDiscriminant = defaultDiscriminant
	t.Initializer = enumInitializer(t)
	t.Finalizer = enumFinalizer(t)
}

// InstallEnum declares and defines an enum type in one call.
func InstallEnum(name, module string, variants []Variant, defaultDiscriminant *uint8) *Type {
	t := DeclareEnum(name, module)
	DefineEnum(t, variants, defaultDiscriminant)
	return t
}

func structInitializer(fields []Field) InitializerFunc {
	return func(ptr unsafe.Pointer) {
		for _, f := range fields {
			if f.Type.Initializer != nil {
				f.Type.Initializer(unsafe.Add(ptr, f.Offset))
			}
		}
	}
}

func structFinalizer(fields []Field) FinalizerFunc {
	return func(ptr unsafe.Pointer) {
		for _, f := range fields {
			if f.Type.Finalizer != nil {
				f.Type.Finalizer(unsafe.Add(ptr, f.Offset))
			}
		}
	}
}

func enumInitializer(t *Type) InitializerFunc {
	return func(ptr unsafe.Pointer) {
		if t.DefaultDiscriminant == nil {
			return
		}
		writeTag(ptr, *t.DefaultDiscriminant)
		for _, v := range t.Variants {
			if v.Discriminant != *t.DefaultDiscriminant {
				continue
			}
			for _, f := range v.Fields {
				if f.Type.Initializer != nil {
					f.Type.Initializer(unsafe.Add(ptr, f.Offset))
				}
			}
		}
	}
}

func enumFinalizer(t *Type) FinalizerFunc {
	return func(ptr unsafe.Pointer) {
		tag := readTag(ptr)
		for _, v := range t.Variants {
			if v.Discriminant != tag {
				continue
			}
			for _, f := range v.Fields {
				if f.Type.Finalizer != nil {
					f.Type.Finalizer(unsafe.Add(ptr, f.Offset))
				}
			}
			return
		}
	}
}

// readTag reads the one-byte discriminant mandated at offset 0 of any
// enum value.
func readTag(ptr unsafe.Pointer) uint8 {
	return *(*uint8)(ptr)
}

// writeTag writes the one-byte discriminant at offset 0 of an enum
// value.
func writeTag(ptr unsafe.Pointer, tag uint8) {
	*(*uint8)(ptr) = tag
}

// NativeType wraps an externally supplied initializer/finalizer pair and
// foreign type hash — used for types a plugin or host language owns.
func NativeType(name, module string, hash TypeHash, layout Layout, init InitializerFunc, fin FinalizerFunc) *Type {
	return &Type{
		Name:        name,
		Module:      module,
		Hash:        hash,
		Layout:      layout,
		Initializer: init,
		Finalizer:   fin,
		Kind:        KindStruct,
	}
}
