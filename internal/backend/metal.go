package backend

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/metadata"
	"github.com/occa-go/okl/internal/token"
)

// MetalBackend implements spec.md §4.J's final bullet: @outer becomes
// threadgroup_position_in_grid.{x,y,z} indexing, @inner becomes
// thread_position_in_threadgroup.{x,y,z} indexing, pointer arguments are
// qualified `device`, @shared declarations get `threadgroup`, and each
// kernel is prefixed `kernel` rather than returning a value (Metal shading
// language requires a kernel function's declared return type be void).
// Metal's host-side dispatch lives in the Objective-C/Swift calling code,
// a different language entirely from this translation unit's C-family
// grammar, so — unlike CUDA/HIP's launcher — there is no host glue to
// emit here.
type MetalBackend struct{}

func (b *MetalBackend) Name() string { return config.BackendMetal }

func (b *MetalBackend) Lower(unit *ast.BlockStatement, props config.Properties, sink diagnostics.Sink) (string, metadata.Map, bool) {
	if !validate(unit, props, sink) {
		return "", nil, false
	}
	kernels := collectKernels(unit)
	meta := metadata.Map{}
	for _, fn := range kernels {
		meta.Add(metadata.NewKernelMetadata(fn.Function))
		qualifyAddressSpaces(fn.Function, "device")
		if fn.Body != nil {
			qualifySharedDecls(fn.Body, "threadgroup")
		}
		lowerThreadIndexedLoops(fn, b.indexExpr(sink))
		fn.Function.Return.Qualifiers = fn.Function.Return.Qualifiers.WithCustom("kernel")
	}
	if sink != nil && sink.HasErrors() {
		return "", nil, false
	}
	return renderUnit(unit), meta, true
}

// indexExpr builds threadgroup_position_in_grid.{x,y,z}/
// thread_position_in_threadgroup.{x,y,z}. Metal Shading Language ordinarily
// exposes these as [[attribute]]-qualified kernel parameters rather than
// free identifiers; referencing them directly here is a deliberate
// simplification matching this port's textual-substitution approach to
// lowering, the same kind of simplification documented for @exclusive's
// index-variable synthesis.
func (b *MetalBackend) indexExpr(sink diagnostics.Sink) indexExprFunc {
	return func(tok token.Token, isOuter bool, dim int) exprengine.Node {
		letter, ok := xyzLetter(dim)
		if !ok {
			reportErr(sink, tok.Origin, "metal supports at most 3 hierarchy dimensions (x, y, z); got dimension %d", dim)
			letter = "x"
		}
		base := "thread_position_in_threadgroup"
		if isOuter {
			base = "threadgroup_position_in_grid"
		}
		return exprengine.NewIdentifier(tok, base+"."+letter)
	}
}
