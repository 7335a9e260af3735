package registry

// Layout describes the size and alignment of a value in memory.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// padTo rounds off up to a multiple of align (align must be a power of two).
func padTo(off, align uintptr) uintptr {
	if align <= 1 {
		return off
	}
	return (off + align - 1) &^ (align - 1)
}

// Extend places a field of the given layout after the current layout's
// size, honoring the field's own alignment, and returns the field's
// offset. The receiver's Size grows to cover the field and its Align
// widens to the field's if larger; callers must call PadToAlign once
// all fields have been extended.
func (l *Layout) Extend(field Layout) (offset uintptr) {
	if field.Align > l.Align {
		l.Align = field.Align
	}
	offset = padTo(l.Size, field.Align)
	l.Size = offset + field.Size
	return offset
}

// PadToAlign rounds Size up to a multiple of Align, matching the "whole
// layout is pad_to_align'ed" rule every struct and enum layout follows.
func (l *Layout) PadToAlign() {
	l.Size = padTo(l.Size, l.Align)
}

// Max returns the larger of two layouts by Size, keeping the larger of
// the two Aligns — used to size an enum body as max(variant sizes).
func Max(a, b Layout) Layout {
	align := a.Align
	if b.Align > align {
		align = b.Align
	}
	size := a.Size
	if b.Size > size {
		size = b.Size
	}
	return Layout{Size: size, Align: align}
}
