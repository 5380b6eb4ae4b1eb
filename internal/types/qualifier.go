// Package types implements the type and variable model of spec.md §4.E: a
// vartype tree (base type + qualifiers + pointer/array/reference suffixes),
// Variable and Function, and structural equality between vartypes.
package types

import "sort"

// Qualifier is a bitset over the built-in C-family qualifiers; custom
// qualifiers registered at runtime (spec.md §3 "Types") are tracked
// separately in QualifierSet.Custom since they don't fit a fixed-width mask.
type Qualifier uint32

const (
	Const Qualifier = 1 << iota
	Volatile
	Restrict
	Extern
	ExternC
	ExternCpp
	Static
	Inline
	Register
	Mutable
)

func (q Qualifier) Has(bit Qualifier) bool { return q&bit != 0 }

var qualifierNames = []struct {
	bit  Qualifier
	name string
}{
	{Const, "const"},
	{Volatile, "volatile"},
	{Restrict, "restrict"},
	{ExternCpp, `extern "C++"`},
	{ExternC, `extern "C"`},
	{Extern, "extern"},
	{Static, "static"},
	{Inline, "inline"},
	{Register, "register"},
	{Mutable, "mutable"},
}

// QualifierSet is the full qualifier state of a vartype: the built-in bitset
// plus any custom-registered qualifier names (spec.md §3's "plus
// custom-registered" clause).
type QualifierSet struct {
	Bits   Qualifier
	Custom []string
}

func (qs QualifierSet) Has(bit Qualifier) bool { return qs.Bits.Has(bit) }

func (qs QualifierSet) HasCustom(name string) bool {
	for _, c := range qs.Custom {
		if c == name {
			return true
		}
	}
	return false
}

// WithCustom returns a copy of qs with name added to the custom set (a
// no-op if already present); QualifierSet values are otherwise immutable
// once attached to a VarType.
func (qs QualifierSet) WithCustom(name string) QualifierSet {
	if qs.HasCustom(name) {
		return qs
	}
	out := QualifierSet{Bits: qs.Bits, Custom: append(append([]string{}, qs.Custom...), name)}
	return out
}

// Equal compares two qualifier sets structurally: same bits, same custom
// names regardless of registration order (spec.md §4.E equality rule).
func (qs QualifierSet) Equal(other QualifierSet) bool {
	if qs.Bits != other.Bits {
		return false
	}
	if len(qs.Custom) != len(other.Custom) {
		return false
	}
	a := append([]string{}, qs.Custom...)
	b := append([]string{}, other.Custom...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (qs QualifierSet) String() string {
	var out string
	for _, qn := range qualifierNames {
		if qs.Bits.Has(qn.bit) {
			out += qn.name + " "
		}
	}
	for _, c := range qs.Custom {
		out += c + " "
	}
	return out
}
