package registry

// Query is a partial predicate over registered types or functions.
// Every field is optional (nil means "don't care"); find_* operations
// return the first insertion-order match, so resolution never depends
// on map iteration order.
type Query struct {
	Name       *string
	Module     *string
	Hash       *TypeHash
	Visibility *Visibility
	Kind       *Kind

	// Struct/Function sub-queries narrow further, by structural shape.
	Fields *StructQuery
	Func   *FunctionQuery
}

// StructQuery matches a type's field list by name/type, in order.
type StructQuery struct {
	Fields []FieldQuery
}

// FieldQuery optionally matches one field's name and/or type hash.
type FieldQuery struct {
	Name *string
	Hash *TypeHash
}

// FunctionQuery matches a function's owning type and parameter shapes.
type FunctionQuery struct {
	OwningType *TypeHash
	Inputs     []ParameterQuery
	Outputs    []ParameterQuery
}

// ParameterQuery optionally matches one parameter's name and/or type.
type ParameterQuery struct {
	Name *string
	Hash *TypeHash
}

func strEq(want *string, have string) bool  { return want == nil || *want == have }
func visEq(want *Visibility, have Visibility) bool {
	return want == nil || *want == have
}
func kindEq(want *Kind, have Kind) bool { return want == nil || *want == have }
func hashEq(want *TypeHash, have TypeHash) bool {
	return want == nil || *want == have
}

// MatchType reports whether t satisfies q.
func (q Query) MatchType(t *Type) bool {
	if !strEq(q.Name, t.Name) {
		return false
	}
	if !strEq(q.Module, t.Module) {
		return false
	}
	if !hashEq(q.Hash, t.Hash) {
		return false
	}
	if !visEq(q.Visibility, t.Visibility) {
		return false
	}
	if !kindEq(q.Kind, t.Kind) {
		return false
	}
	if q.Fields != nil && !matchFields(q.Fields.Fields, t.Fields) {
		return false
	}
	return true
}

func matchFields(want []FieldQuery, have []Field) bool {
	if len(want) == 0 {
		return true
	}
	if len(want) != len(have) {
		return false
	}
	for i, fq := range want {
		if !strEq(fq.Name, have[i].Name) {
			return false
		}
		if !hashEq(fq.Hash, have[i].Type.Hash) {
			return false
		}
	}
	return true
}

// MatchFunction reports whether f satisfies q.
func (q Query) MatchFunction(f *Function) bool {
	if !strEq(q.Name, f.Signature.Name) {
		return false
	}
	if !strEq(q.Module, f.Signature.Module) {
		return false
	}
	if !visEq(q.Visibility, f.Signature.Visibility) {
		return false
	}
	if q.Func == nil {
		return true
	}
	if q.Func.OwningType != nil {
		if f.Signature.OwningType == nil || *f.Signature.OwningType != *q.Func.OwningType {
			return false
		}
	}
	if !matchParameters(q.Func.Inputs, f.Signature.Inputs) {
		return false
	}
	if !matchParameters(q.Func.Outputs, f.Signature.Outputs) {
		return false
	}
	return true
}

func matchParameters(want []ParameterQuery, have []Parameter) bool {
	if len(want) == 0 {
		return true
	}
	if len(want) != len(have) {
		return false
	}
	for i, pq := range want {
		if !strEq(pq.Name, have[i].Name) {
			return false
		}
		if !hashEq(pq.Hash, have[i].Type.Hash) {
			return false
		}
	}
	return true
}
