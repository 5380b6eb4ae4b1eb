package types

import (
	"strings"

	"github.com/occa-go/okl/internal/exprengine"
)

// ArrayDim is one `[size]` suffix on a declarator. Size is nil for an
// unsized dimension (`[]`); otherwise it is whatever exprNode the statement
// parser built for the bracketed expression.
type ArrayDim struct {
	Size exprengine.Node
}

func (d ArrayDim) String() string {
	if d.Size == nil {
		return "[]"
	}
	return "[" + d.Size.String() + "]"
}

// equalDim compares two array dimensions per spec.md §4.E: "array sizes
// compare by evaluated value when both evaluable". When either side isn't a
// compile-time constant (or either is the unsized `[]` form), dimensions
// compare equal only if both are the exact same unsized/non-evaluable case.
func equalDim(a, b ArrayDim) bool {
	if a.Size == nil || b.Size == nil {
		return a.Size == nil && b.Size == nil
	}
	av, aok := exprengine.Evaluate(a.Size)
	bv, bok := exprengine.Evaluate(b.Size)
	if aok && bok {
		return av.String() == bv.String()
	}
	return a.Size.String() == b.Size.String()
}

// VarType is the `(baseType, qualifiers, pointer-levels[], optional-
// reference, array-dimensions[])` tuple of spec.md §3. Pointer levels are
// modeled as a qualifier set per `*`, since `int * const *` has distinct
// const-ness per indirection.
type VarType struct {
	Base        BaseType
	Qualifiers  QualifierSet
	Pointers    []QualifierSet // one entry per '*', innermost first
	IsReference bool
	Arrays      []ArrayDim
}

// IsVoid reports whether this is exactly (possibly-qualified) `void` with
// no pointer/array/reference suffix — used by the parser to reject `void`
// variables.
func (v VarType) IsVoid() bool {
	p, ok := v.Base.(*PrimitiveType)
	return ok && p.Name == "void" && len(v.Pointers) == 0 && !v.IsReference && len(v.Arrays) == 0
}

// IsPointer reports whether v has at least one pointer level.
func (v VarType) IsPointer() bool { return len(v.Pointers) > 0 }

// IsArray reports whether v has at least one array dimension.
func (v VarType) IsArray() bool { return len(v.Arrays) > 0 }

// WithPointer returns a copy of v with one more pointer level, qualified by
// quals (e.g. `int * const` is WithPointer(Const-qualified set)).
func (v VarType) WithPointer(quals QualifierSet) VarType {
	out := v
	out.Pointers = append(append([]QualifierSet{}, v.Pointers...), quals)
	return out
}

// WithArray returns a copy of v with one more array dimension appended.
func (v VarType) WithArray(dim ArrayDim) VarType {
	out := v
	out.Arrays = append(append([]ArrayDim{}, v.Arrays...), dim)
	return out
}

// Equal implements spec.md §4.E's vartype equality: base types identical,
// qualifier sets equal, pointer and array chains equal element-wise,
// reference-ness equal.
func (v VarType) Equal(other VarType) bool {
	if v.Base == nil || other.Base == nil {
		return v.Base == other.Base
	}
	a, b := unwrapTypedef(v.Base), unwrapTypedef(other.Base)
	if !a.Equal(b) {
		return false
	}
	if !v.Qualifiers.Equal(other.Qualifiers) {
		return false
	}
	if v.IsReference != other.IsReference {
		return false
	}
	if len(v.Pointers) != len(other.Pointers) {
		return false
	}
	for i, p := range v.Pointers {
		if !p.Equal(other.Pointers[i]) {
			return false
		}
	}
	if len(v.Arrays) != len(other.Arrays) {
		return false
	}
	for i, a := range v.Arrays {
		if !equalDim(a, other.Arrays[i]) {
			return false
		}
	}
	return true
}

func (v VarType) String() string {
	var b strings.Builder
	b.WriteString(v.Qualifiers.String())
	if v.Base != nil {
		b.WriteString(v.Base.String())
	}
	for _, p := range v.Pointers {
		b.WriteString(" *")
		if s := p.String(); s != "" {
			b.WriteString(s)
		}
	}
	if v.IsReference {
		b.WriteString(" &")
	}
	for _, a := range v.Arrays {
		b.WriteString(a.String())
	}
	return strings.TrimSpace(b.String())
}
