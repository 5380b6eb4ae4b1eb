package attributes

import (
	"strconv"

	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/types"
)

// KernelAttribute marks a function declaration as a device entry point
// (spec.md §4.H rule 1: "at least one statement has @kernel; each is a
// function declaration").
type KernelAttribute struct{ base }

func (a *KernelAttribute) OnFunctionLoad(f *types.Function, sink diagnostics.Sink) bool { return true }
func (a *KernelAttribute) Clone() Attribute                                             { c := *a; return &c }

// LoopAttribute is `@outer`/`@inner`, optionally parameterised by an
// explicit hierarchy dimension (`@outer(0)`, `@inner(1)`); Dim is -1 when
// omitted, meaning "next available dimension" (resolved by the backend).
type LoopAttribute struct {
	base
	Dim int
}

func (a *LoopAttribute) OnStatementLoad(s ast.Statement, sink diagnostics.Sink) bool {
	if s.Kind() != ast.ForKind {
		report(sink, a.Origin, "@%s may only be attached to a for-loop", a.name)
		return false
	}
	return true
}
func (a *LoopAttribute) String() string {
	if a.Dim < 0 {
		return "@" + a.name
	}
	return "@" + a.name + "(" + strconv.Itoa(a.Dim) + ")"
}
func (a *LoopAttribute) Clone() Attribute { c := *a; return &c }

// SharedAttribute is `@shared`: storage visible to every thread of one
// `@outer` iteration (spec.md §4.H rule 5).
type SharedAttribute struct{ base }

func (a *SharedAttribute) OnVariableLoad(v *types.Variable, sink diagnostics.Sink) bool {
	if !v.VarType.IsArray() {
		report(sink, a.Origin, "@shared variable %q must be an array", v.Name)
		return false
	}
	for _, dim := range v.VarType.Arrays {
		if dim.Size == nil {
			report(sink, a.Origin, "@shared array %q must have compile-time-evaluable dimensions", v.Name)
			return false
		}
		if _, ok := exprengine.Evaluate(dim.Size); !ok {
			report(sink, a.Origin, "@shared array %q must have compile-time-evaluable dimensions", v.Name)
			return false
		}
	}
	return true
}
func (a *SharedAttribute) Clone() Attribute { c := *a; return &c }

// ExclusiveAttribute is `@exclusive`: a per-`@inner`-iteration scalar inside
// an `@outer` scope (spec.md §4.H rule 6), lowered by the serial backend
// into an array indexed by a synthesized counter.
type ExclusiveAttribute struct{ base }

func (a *ExclusiveAttribute) Clone() Attribute { c := *a; return &c }

// DimAttribute is `@dim(size0, size1, …)`: the array-linearisation attribute
// the transform pass rewrites call-syntax accesses into subscripts against
// (spec.md §4.I).
type DimAttribute struct {
	base
	Sizes []exprengine.Node
}

func (a *DimAttribute) OnVariableLoad(v *types.Variable, sink diagnostics.Sink) bool {
	if !v.VarType.IsPointer() && !v.VarType.IsArray() {
		report(sink, a.Origin, "@dim variable %q must be a pointer or array", v.Name)
		return false
	}
	return true
}
func (a *DimAttribute) String() string {
	s := "@dim("
	for i, sz := range a.Sizes {
		if i > 0 {
			s += ", "
		}
		s += sz.String()
	}
	return s + ")"
}
func (a *DimAttribute) Clone() Attribute {
	c := *a
	c.Sizes = make([]exprengine.Node, len(a.Sizes))
	for i, sz := range a.Sizes {
		c.Sizes[i] = sz.Clone()
	}
	return &c
}

// DimOrderAttribute is `@dimOrder(p0, p1, …)`: a permutation of a companion
// `@dim`'s axes, applied by the `@dim` rewrite when both are attached to the
// same variable (spec.md §4.I).
type DimOrderAttribute struct {
	base
	Order []int
}

func (a *DimOrderAttribute) Clone() Attribute { c := *a; return &c }

// TileAttribute is `@tile(T[, attrs…])`/`@safeTile(...)`: the loop-blocking
// transform attribute of spec.md §4.I, carrying its tile size and any
// companion attributes (typically `@outer`/`@inner`) to relocate onto the
// two loops the transform produces.
type TileAttribute struct {
	base
	Size       exprengine.Node
	Safe       bool
	Companions []Attribute
}

func (a *TileAttribute) OnStatementLoad(s ast.Statement, sink diagnostics.Sink) bool {
	if s.Kind() != ast.ForKind {
		report(sink, a.Origin, "@%s may only be attached to a for-loop", a.name)
		return false
	}
	return true
}
func (a *TileAttribute) String() string { return "@" + a.name + "(" + a.Size.String() + ")" }
func (a *TileAttribute) Clone() Attribute {
	c := *a
	c.Size = a.Size.Clone()
	c.Companions = make([]Attribute, len(a.Companions))
	for i, comp := range a.Companions {
		c.Companions[i] = comp.Clone()
	}
	return &c
}
