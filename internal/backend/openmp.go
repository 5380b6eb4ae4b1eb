package backend

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/metadata"
)

// OpenMPBackend implements spec.md §4.J's OpenMP lowering: "parallelise
// the outermost @outer via a #pragma directive, then otherwise as
// serial" — it reuses SerialBackend's extern-C wrapping, reference
// arguments and @exclusive lowering verbatim and adds one `#pragma omp
// parallel for` per kernel, placed immediately before that kernel's
// outermost @outer loop.
type OpenMPBackend struct{}

func (b *OpenMPBackend) Name() string { return config.BackendOpenMP }

func (b *OpenMPBackend) Lower(unit *ast.BlockStatement, props config.Properties, sink diagnostics.Sink) (string, metadata.Map, bool) {
	if !validate(unit, props, sink) {
		return "", nil, false
	}
	kernels := collectKernels(unit)
	meta := metadata.Map{}
	externC := make(map[*ast.FunctionDeclStatement]bool, len(kernels))
	for _, fn := range kernels {
		referenceifyArgs(fn.Function)
		lowerExclusive(fn, props, sink)
		parallelizeOutermostOuter(fn)
		meta.Add(metadata.NewKernelMetadata(fn.Function))
		externC[fn] = true
	}
	if sink != nil && sink.HasErrors() {
		return "", nil, false
	}
	return renderWithExternC(unit, externC), meta, true
}

// parallelizeOutermostOuter inserts `#pragma omp parallel for` before
// every @outer loop at the shallowest @outer-nesting depth in fn's body
// (ordinarily exactly one, the kernel's single outermost @outer loop).
func parallelizeOutermostOuter(fn *ast.FunctionDeclStatement) {
	if fn.Body == nil {
		return
	}
	refs := collectOuterRefs(fn.Body, 0)
	if len(refs) == 0 {
		return
	}
	minDepth := refs[0].depth
	for _, r := range refs {
		if r.depth < minDepth {
			minDepth = r.depth
		}
	}
	// Insert back-to-front within each parent so earlier insertions don't
	// shift the index of a later one in the same block.
	for i := len(refs) - 1; i >= 0; i-- {
		r := refs[i]
		if r.depth != minDepth {
			continue
		}
		pragma := ast.NewPragmaStatement(r.forStmt.Tok, "omp parallel for")
		r.parent.SetChildren(insertAt(r.parent.Children, r.idx, pragma))
	}
}

type outerRef struct {
	forStmt *ast.ForStatement
	parent  *ast.BlockStatement
	idx     int
	depth   int
}

func collectOuterRefs(stmt ast.Statement, depth int) []*outerRef {
	var out []*outerRef
	collectOuterRefsInto(stmt, depth, &out)
	return out
}

func collectOuterRefsInto(stmt ast.Statement, depth int, out *[]*outerRef) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for i, c := range s.Children {
			if f, ok := c.(*ast.ForStatement); ok && hasAttr(f, "outer") {
				*out = append(*out, &outerRef{forStmt: f, parent: s, idx: i, depth: depth})
				collectOuterRefsInto(f.Body, depth+1, out)
				continue
			}
			collectOuterRefsInto(c, depth, out)
		}
	case *ast.NamespaceStatement:
		collectOuterRefsInto(s.Body, depth, out)
	case *ast.IfStatement:
		collectOuterRefsInto(s.Body, depth, out)
		if s.Next != nil {
			collectOuterRefsInto(s.Next, depth, out)
		}
	case *ast.ElifStatement:
		collectOuterRefsInto(s.Body, depth, out)
		if s.Next != nil {
			collectOuterRefsInto(s.Next, depth, out)
		}
	case *ast.ElseStatement:
		collectOuterRefsInto(s.Body, depth, out)
	case *ast.WhileStatement:
		collectOuterRefsInto(s.Body, depth, out)
	case *ast.SwitchStatement:
		collectOuterRefsInto(s.Body, depth, out)
	case *ast.ForStatement:
		collectOuterRefsInto(s.Body, depth, out)
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			collectOuterRefsInto(s.Body, depth, out)
		}
	}
}
