// Package analyzer implements the OKL semantic validator: the structural
// rules an @kernel function's @outer/@inner loop nest and @shared/@exclusive
// variables must satisfy before internal/transform can lower them to a
// target backend. Unlike internal/parser's syntax checks or internal/types'
// declaration-time checks, these rules depend on a statement's position in
// its enclosing kernel — whether it sits inside an @outer loop, an @inner
// loop, both, or neither — so the validator performs its own explicit
// top-down walk rather than querying Statement.Parent(), which is only
// wired for statements that passed through BlockStatement.Add.
package analyzer

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
)

// Analyzer runs the OKL validation rules over a parsed translation unit.
type Analyzer struct{}

// New returns an Analyzer. It carries no state of its own: every rule's
// state lives in the per-kernel kernelAnalysis built while walking each
// @kernel function in turn.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze walks root for every @kernel function declaration and validates
// it against spec.md §4.H's six rules, reporting violations to sink in
// depth-first pre-order and returning false if sink recorded any error.
func (a *Analyzer) Analyze(root *ast.BlockStatement, sink diagnostics.Sink) bool {
	kernels := collectKernels(root)
	if len(kernels) == 0 {
		reportErr(sink, root.Tok.Origin, "no @kernels found")
		return sinkOK(sink)
	}
	for _, fn := range kernels {
		analyzeKernel(sink, fn)
	}
	return sinkOK(sink)
}

func sinkOK(sink diagnostics.Sink) bool {
	if sink == nil {
		return true
	}
	return !sink.HasErrors()
}

// collectKernels finds every *ast.FunctionDeclStatement carrying @kernel
// anywhere in root, including inside nested namespaces.
func collectKernels(stmt ast.Statement) []*ast.FunctionDeclStatement {
	var out []*ast.FunctionDeclStatement
	collectKernelsInto(stmt, &out)
	return out
}

func collectKernelsInto(stmt ast.Statement, out *[]*ast.FunctionDeclStatement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, c := range s.Children {
			collectKernelsInto(c, out)
		}
	case *ast.NamespaceStatement:
		collectKernelsInto(s.Body, out)
	case *ast.FunctionDeclStatement:
		if s.Function != nil && s.Function.HasAttribute("kernel") {
			*out = append(*out, s)
		}
	}
}
