// Package metadata implements the KernelMetadata record spec.md §4.J's
// "Each backend emits a rewritten source string plus a KernelMetadata list
// (kernel name, argument records {isConst, vartype})" names, round-tripped
// as JSON (spec.md §11's supplemented feature, grounded on
// original_source/include/occa/lang/kernelMetadata.hpp's argumentInfo/
// kernelMetadata and src/lang/kernelMetadata.cpp's toJson/fromJson).
//
// Unlike the original's dtype (a registry of named, possibly composite,
// machine-representation types used for C++/OKL interop), an ArgInfo here
// carries the vartype's own String() rendering: this port has no separate
// dtype registry (internal/types.VarType already is the one source of
// truth for a variable's type), so the metadata record stores the
// stringified vartype as its portable, language-agnostic type descriptor.
package metadata

import (
	"encoding/json"

	"github.com/occa-go/okl/internal/types"
)

// ArgInfo is one kernel argument's metadata: whether it was declared
// const, and its vartype's textual form, matching the original's
// argumentInfo{isConst, type}.
type ArgInfo struct {
	IsConst bool   `json:"isConst"`
	VarType string `json:"vartype"`
}

// NewArgInfo builds an ArgInfo from a parsed argument variable.
func NewArgInfo(v *types.Variable) ArgInfo {
	return ArgInfo{IsConst: v.VarType.Qualifiers.Has(types.Const), VarType: v.VarType.String()}
}

// KernelMetadata is one lowered kernel's metadata: its name and its
// argument list in declaration order, matching the original's
// kernelMetadata{name, arguments}.
type KernelMetadata struct {
	Name      string    `json:"name"`
	Arguments []ArgInfo `json:"arguments"`
}

// NewKernelMetadata builds a KernelMetadata from a kernel function's
// parsed signature.
func NewKernelMetadata(fn *types.Function) KernelMetadata {
	km := KernelMetadata{Name: fn.Name, Arguments: make([]ArgInfo, 0, len(fn.Args))}
	for _, arg := range fn.Args {
		km.Arguments = append(km.Arguments, NewArgInfo(arg))
	}
	return km
}

// ArgIsConst reports whether the argument at pos was declared const,
// matching the original's kernelMetadata::argIsConst. Out-of-range
// positions report false, mirroring the original's bounds-checked
// lookup that falls through to "not const" rather than panicking.
func (k KernelMetadata) ArgIsConst(pos int) bool {
	if pos < 0 || pos >= len(k.Arguments) {
		return false
	}
	return k.Arguments[pos].IsConst
}

// ArgMatchesVarType reports whether the argument at pos has the given
// stringified vartype, matching the original's argMatchesDtype.
func (k KernelMetadata) ArgMatchesVarType(pos int, vartype string) bool {
	if pos < 0 || pos >= len(k.Arguments) {
		return false
	}
	return k.Arguments[pos].VarType == vartype
}

// Map is a build's full set of kernel metadata keyed by kernel name,
// matching the original's kernelMetadataMap — the shape persisted
// alongside a cached build's rewritten source in internal/kernelcache.
type Map map[string]KernelMetadata

// Add records km under its own name, matching the original's
// kernelMetadata::operator+= usage pattern of accumulating one kernel at a
// time as the backend lowering pass discovers @kernel functions.
func (m Map) Add(km KernelMetadata) { m[km.Name] = km }

// ToJSON/FromJSON round-trip a Map through its JSON form, the
// persisted shape spec.md §11 names ("KernelMetadata... persisted as
// JSON").
func (m Map) ToJSON() ([]byte, error) { return json.Marshal(m) }

func FromJSON(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
