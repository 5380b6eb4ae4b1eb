// Package backend implements spec.md §4.J's backend lowering stage: five
// interchangeable rewrite passes over a validated OKL translation unit,
// one per target (serial, OpenMP, OpenCL, CUDA/HIP, Metal), each emitting
// a rewritten source string plus a metadata.Map.
//
// Grounded on the teacher's internal/backend.Backend interface
// (backend.go's Run(ctx)/Name() pair) and its two interchangeable
// implementations (treewalk.go's TreeWalkBackend, vmbackend.go's
// VMBackend) as the precedent for "one interface, several concrete
// execution strategies selected at the pipeline's edge" — generalized
// here from executing a program to lowering one.
package backend

import (
	"github.com/occa-go/okl/internal/analyzer"
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/metadata"
	"github.com/occa-go/okl/internal/transform"
)

// Backend is one target's lowering pass: spec.md §4.J's "parser subclass
// that (a) registers its attribute set, (b) installs its compiler-macros
// ..., (c) runs the OKL validator unless disabled, (d) runs the
// backend-specific rewrite". Steps (a)/(b) are ambient here (the
// attribute registry is global and append-only per spec.md §5, and
// compiler-macro installation is the preprocessor's concern, driven by
// the same Properties this Lower call receives) — only (c)/(d) are each
// backend's own job.
type Backend interface {
	// Name returns the backend's identifier, one of the config.Backend*
	// constants.
	Name() string

	// Lower validates (unless disabled by props) and rewrites unit in
	// place, returning the rewritten source text and per-kernel metadata.
	// ok is false if validation failed or a rewrite-time invariant broke;
	// in either case sink carries the diagnostic explaining why.
	Lower(unit *ast.BlockStatement, props config.Properties, sink diagnostics.Sink) (source string, meta metadata.Map, ok bool)
}

// New returns the Backend for name, or nil if name isn't recognized.
func New(name string) Backend {
	switch name {
	case config.BackendSerial:
		return &SerialBackend{}
	case config.BackendOpenMP:
		return &OpenMPBackend{}
	case config.BackendOpenCL:
		return &OpenCLBackend{}
	case config.BackendCUDA:
		return &CUDABackend{hip: false}
	case config.BackendHIP:
		return &CUDABackend{hip: true}
	case config.BackendMetal:
		return &MetalBackend{}
	default:
		return nil
	}
}

// validate first applies the @tile rewrite, whose loops carry the
// @outer/@inner attributes the validator and every lowering pass look for,
// then runs the OKL semantic validator unless props disables it
// (`okl/validate: false`), matching spec.md §4.J step (c) and the
// `okl/validate` property spec.md §6 documents.
func validate(unit *ast.BlockStatement, props config.Properties, sink diagnostics.Sink) bool {
	transform.RewriteTile(unit, sink)
	if !props.Bool("okl/validate", true) {
		return true
	}
	return analyzer.New().Analyze(unit, sink)
}

// collectKernels returns every @kernel function declaration reachable
// from root, including inside namespaces — the set each backend lowers
// and emits metadata for.
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

// renderUnit renders root's children back-to-back without root's own
// enclosing braces (ast.BlockStatement.String() always wraps in `{...}`,
// correct for a nested block but not for the translation unit itself).
func renderUnit(root *ast.BlockStatement) string {
	out := ""
	for _, c := range root.Children {
		out += c.String() + "\n"
	}
	return out
}

func hasAttr(s ast.Statement, name string) bool {
	for _, a := range s.Attributes() {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}
