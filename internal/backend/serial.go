package backend

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/metadata"
)

// SerialBackend implements spec.md §4.J's serial lowering: wrap each
// @kernel with `extern "C"`, pass non-pointer/non-reference args by
// reference, and turn @exclusive scalars into arrays indexed by a
// synthesized counter. @outer/@inner loops are left as ordinary
// for-loops — serial execution runs them exactly as written.
type SerialBackend struct{}

func (b *SerialBackend) Name() string { return config.BackendSerial }

func (b *SerialBackend) Lower(unit *ast.BlockStatement, props config.Properties, sink diagnostics.Sink) (string, metadata.Map, bool) {
	if !validate(unit, props, sink) {
		return "", nil, false
	}
	kernels := collectKernels(unit)
	meta := metadata.Map{}
	externC := make(map[*ast.FunctionDeclStatement]bool, len(kernels))
	for _, fn := range kernels {
		referenceifyArgs(fn.Function)
		lowerExclusive(fn, props, sink)
		meta.Add(metadata.NewKernelMetadata(fn.Function))
		externC[fn] = true
	}
	if sink != nil && sink.HasErrors() {
		return "", nil, false
	}
	return renderWithExternC(unit, externC), meta, true
}

// renderWithExternC renders root like renderUnit, but prefixes any
// top-level function declaration present in externC with `extern "C" `,
// matching spec.md §4.J's "wrap each @kernel with extern "C"". Statement
// rendering itself (FunctionDeclStatement.String) has no notion of a C
// linkage wrapper, so the prefix is applied at emission time rather than
// by mutating the AST with a wrapper node type nothing else needs.
func renderWithExternC(root *ast.BlockStatement, externC map[*ast.FunctionDeclStatement]bool) string {
	out := ""
	for _, c := range root.Children {
		if fn, ok := c.(*ast.FunctionDeclStatement); ok && externC[fn] {
			out += `extern "C" ` + fn.String() + "\n"
			continue
		}
		out += c.String() + "\n"
	}
	return out
}
