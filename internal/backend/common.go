package backend

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/attributes"
	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/transform"
	"github.com/occa-go/okl/internal/types"
)

// referenceifyArgs marks every one of fn's arguments that is neither a
// pointer nor already a reference as a reference, matching spec.md §4.J's
// serial-lowering step "pass non-pointer, non-reference arguments by
// reference" — shared by Serial and OpenMP, since OpenMP's rewrite is
// "otherwise as serial".
func referenceifyArgs(fn *types.Function) {
	for _, arg := range fn.Args {
		if !arg.VarType.IsPointer() && !arg.VarType.IsReference {
			arg.VarType.IsReference = true
		}
	}
}

// lowerExclusive implements spec.md §4.J's "turn @exclusive scalars into
// arrays indexed by a synthesized _occa_exclusive_index initialised to 0
// before the outermost @inner and incremented inside the innermost
// @inner". It handles the common single-chain @inner nesting shape (at
// most one @inner loop per nesting depth): the outermost/innermost
// @inner loops are the ones with, respectively, the minimum and maximum
// nesting depth found in fn's body. A kernel with sibling @inner loops
// at the same depth gets the init/increment applied at every loop at
// that depth, which is still correct (each such loop runs its own
// independent exclusive-index sequence) but is duplicated rather than
// shared between them.
func lowerExclusive(fn *ast.FunctionDeclStatement, props config.Properties, sink diagnostics.Sink) {
	if fn.Body == nil {
		return
	}
	exclusiveVars := findExclusiveVars(fn.Body)
	if len(exclusiveVars) == 0 {
		return
	}

	width := props.ExclusiveWidth()
	tok := fn.Tok
	for _, v := range exclusiveVars {
		v.VarType = v.VarType.WithArray(types.ArrayDim{Size: exprengine.NewPrimitiveInt(tok, int64(width))})
	}

	rewriteExclusiveUses(fn.Body, exclusiveVars, sink)

	refs := collectInnerRefs(fn.Body, 0)
	if len(refs) == 0 {
		reportErr(sink, tok.Origin, "@exclusive variable used but kernel has no [@inner] loop")
		return
	}
	minDepth, maxDepth := refs[0].depth, refs[0].depth
	for _, r := range refs {
		if r.depth < minDepth {
			minDepth = r.depth
		}
		if r.depth > maxDepth {
			maxDepth = r.depth
		}
	}

	indexName := "_occa_exclusive_index"
	indexVar := types.NewVariable(indexName, types.VarType{Base: &types.PrimitiveType{Name: "int"}}, tok.Origin)
	// Walk refs last to first so an insertion never shifts the recorded
	// index of a sibling still to be handled.
	for i := len(refs) - 1; i >= 0; i-- {
		r := refs[i]
		if r.depth == minDepth {
			var initStmt ast.Statement = ast.NewDeclarationStatement(tok, []*ast.VariableDeclarator{
				{Variable: indexVar.Clone(), Init: exprengine.NewPrimitiveInt(tok, 0)},
			})
			for _, e := range refs[:i] {
				if e.depth == minDepth && e.parent == r.parent {
					// An earlier sibling already declares the index in this block.
					initStmt = ast.NewExpressionStatement(tok, exprengine.NewBinary(tok, mustOp("="),
						exprengine.NewIdentifier(tok, indexName), exprengine.NewPrimitiveInt(tok, 0)))
				}
			}
			r.parent.SetChildren(insertAt(r.parent.Children, r.idx, initStmt))
		}
		if r.depth == maxDepth {
			body, ok := r.forStmt.Body.(*ast.BlockStatement)
			if !ok {
				body = ast.NewBlock(nil)
				body.Add(r.forStmt.Body)
				r.forStmt.Body = body
			}
			incr := ast.NewExpressionStatement(tok, exprengine.NewBinary(tok, mustOp("+="),
				exprengine.NewIdentifier(tok, indexName), exprengine.NewPrimitiveInt(tok, 1)))
			body.Add(incr)
		}
	}
}

func mustOp(symbol string) *token.Operator {
	op := token.Lookup(symbol)
	if op == nil {
		panic("backend: operator table missing " + symbol)
	}
	return op
}

func insertAt(stmts []ast.Statement, idx int, add ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts)+1)
	out = append(out, stmts[:idx]...)
	out = append(out, add)
	out = append(out, stmts[idx:]...)
	return out
}

// findExclusiveVars returns every @exclusive-attributed variable declared
// reachable from body.
func findExclusiveVars(body ast.Statement) []*types.Variable {
	var out []*types.Variable
	declFinder := transform.StatementKindFinder(ast.DeclarationKind)
	for _, s := range declFinder.Find(body) {
		decl := s.(*ast.DeclarationStatement)
		for _, d := range decl.Decls {
			if d.Variable.HasAttribute("exclusive") {
				out = append(out, d.Variable)
			}
		}
	}
	return out
}

// rewriteExclusiveUses rewrites every bare reference to one of vars
// (matched by name, the same scope-free shortcut internal/transform's
// tile.go uses for a loop's own iterator) into a subscript on
// _occa_exclusive_index, since every read of an @exclusive scalar after
// lowering must address its synthesized array slot.
func rewriteExclusiveUses(body ast.Statement, vars []*types.Variable, sink diagnostics.Sink) {
	names := make(map[string]bool, len(vars))
	for _, v := range vars {
		names[v.Name] = true
	}
	xform := transform.ExprTransformFunc(func(n exprengine.Node) exprengine.Node {
		id, ok := n.(*exprengine.IdentifierNode)
		if !ok || !names[id.Name] {
			return n
		}
		return exprengine.NewSubscript(id.Token(), exprengine.NewIdentifier(id.Token(), id.Name),
			exprengine.NewIdentifier(id.Token(), "_occa_exclusive_index"))
	})
	transform.ApplyExprInStatements(body, xform)
}

// innerRef locates one @inner for-loop: its statement, the block it sits
// in directly, its index within that block's Children, and its nesting
// depth among @inner loops (0 for a top-level @inner, 1 for an @inner
// nested inside another @inner, and so on — @outer and plain loops don't
// themselves increase depth).
type innerRef struct {
	forStmt *ast.ForStatement
	parent  *ast.BlockStatement
	idx     int
	depth   int
}

func collectInnerRefs(stmt ast.Statement, depth int) []*innerRef {
	var out []*innerRef
	collectInnerRefsInto(stmt, depth, &out)
	return out
}

// indexExprFunc builds the expression a thread-indexed backend (OpenCL,
// CUDA/HIP, Metal) binds a lowered @outer/@inner loop's iterator to, given
// that loop's kind and resolved hierarchy dimension.
type indexExprFunc func(tok token.Token, isOuter bool, dim int) exprengine.Node

// lowerThreadIndexedLoops implements the GPU-style half of spec.md §4.J:
// every @outer/@inner for-loop in fn's body is replaced by a block that
// declares the loop's iterator bound to indexExpr's result and inlines the
// loop's (recursively lowered) body in place — there is no loop left to
// run, since the target's own thread/workgroup grid already iterates that
// dimension. Plain loops and non-loop control flow are walked through
// unchanged. @outer dimensions and @inner dimensions are numbered
// independently, in the order each kind is first encountered, starting
// from 0, honouring an explicit @outer(n)/@inner(n) where given (spec.md
// attribute doc: "Dim is -1 when omitted, meaning next available
// dimension, resolved by the backend").
func lowerThreadIndexedLoops(fn *ast.FunctionDeclStatement, indexExpr indexExprFunc) {
	if fn.Body == nil {
		return
	}
	outerState := &loopKindState{}
	innerState := &loopKindState{}
	if block, ok := lowerLoopsIn(fn.Body, outerState, innerState, indexExpr).(*ast.BlockStatement); ok {
		fn.Body = block
	}
}

type loopKindState struct{ next int }

func resolveDim(attr *attributes.LoopAttribute, state *loopKindState) int {
	dim := state.next
	if attr != nil && attr.Dim >= 0 {
		dim = attr.Dim
	}
	if dim >= state.next {
		state.next = dim + 1
	}
	return dim
}

func findLoopAttr(s ast.Statement, name string) *attributes.LoopAttribute {
	for _, a := range s.Attributes() {
		if la, ok := a.(*attributes.LoopAttribute); ok && la.AttributeName() == name {
			return la
		}
	}
	return nil
}

func loopIterator(s *ast.ForStatement) (*types.Variable, bool) {
	decl, ok := s.Init.(*ast.DeclarationStatement)
	if !ok || len(decl.Decls) != 1 {
		return nil, false
	}
	return decl.Decls[0].Variable, true
}

func lowerLoopsIn(stmt ast.Statement, outerState, innerState *loopKindState, indexExpr indexExprFunc) ast.Statement {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		children := make([]ast.Statement, 0, len(s.Children))
		for _, c := range s.Children {
			children = append(children, lowerLoopsIn(c, outerState, innerState, indexExpr))
		}
		s.SetChildren(children)
		return s
	case *ast.NamespaceStatement:
		if block, ok := lowerLoopsIn(s.Body, outerState, innerState, indexExpr).(*ast.BlockStatement); ok {
			s.Body = block
		}
		return s
	case *ast.IfStatement:
		s.Body = lowerLoopsIn(s.Body, outerState, innerState, indexExpr)
		ast.Reparent(s.Body, s)
		if s.Next != nil {
			s.Next = lowerLoopsIn(s.Next, outerState, innerState, indexExpr)
			ast.Reparent(s.Next, s)
		}
		return s
	case *ast.ElifStatement:
		s.Body = lowerLoopsIn(s.Body, outerState, innerState, indexExpr)
		ast.Reparent(s.Body, s)
		if s.Next != nil {
			s.Next = lowerLoopsIn(s.Next, outerState, innerState, indexExpr)
			ast.Reparent(s.Next, s)
		}
		return s
	case *ast.ElseStatement:
		s.Body = lowerLoopsIn(s.Body, outerState, innerState, indexExpr)
		ast.Reparent(s.Body, s)
		return s
	case *ast.WhileStatement:
		s.Body = lowerLoopsIn(s.Body, outerState, innerState, indexExpr)
		ast.Reparent(s.Body, s)
		return s
	case *ast.SwitchStatement:
		if block, ok := lowerLoopsIn(s.Body, outerState, innerState, indexExpr).(*ast.BlockStatement); ok {
			s.Body = block
		}
		return s
	case *ast.ForStatement:
		isOuter, isInner := hasAttr(s, "outer"), hasAttr(s, "inner")
		if !isOuter && !isInner {
			s.Body = lowerLoopsIn(s.Body, outerState, innerState, indexExpr)
			ast.Reparent(s.Body, s)
			return s
		}
		return inlineThreadIndexedLoop(s, isOuter, outerState, innerState, indexExpr)
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			if block, ok := lowerLoopsIn(s.Body, outerState, innerState, indexExpr).(*ast.BlockStatement); ok {
				s.Body = block
			}
		}
		return s
	default:
		return stmt
	}
}

// inlineThreadIndexedLoop replaces one @outer/@inner for-loop with a block
// binding its iterator to indexExpr's result, followed by the (recursively
// lowered) statements of its body spliced in directly.
func inlineThreadIndexedLoop(s *ast.ForStatement, isOuter bool, outerState, innerState *loopKindState, indexExpr indexExprFunc) ast.Statement {
	state, attrName := innerState, "inner"
	if isOuter {
		state, attrName = outerState, "outer"
	}
	dim := resolveDim(findLoopAttr(s, attrName), state)
	lowered := lowerLoopsIn(s.Body, outerState, innerState, indexExpr)

	block := ast.NewBlock(nil)
	if iterVar, ok := loopIterator(s); ok {
		decl := ast.NewDeclarationStatement(s.Tok, []*ast.VariableDeclarator{
			{Variable: iterVar.Clone(), Init: indexExpr(s.Tok, isOuter, dim)},
		})
		block.Add(decl)
	}
	if bb, ok := lowered.(*ast.BlockStatement); ok {
		for _, c := range bb.Children {
			block.Add(c)
		}
	} else if lowered != nil {
		block.Add(lowered)
	}
	return block
}

// qualifyAddressSpaces tags every pointer argument of fn with a custom
// qualifier, e.g. OpenCL's `__global`. Backends that have no such
// argument-level address-space qualifier (CUDA/HIP, Metal) simply don't
// call it.
func qualifyAddressSpaces(fn *types.Function, qualifier string) {
	for _, arg := range fn.Args {
		if arg.VarType.IsPointer() {
			arg.VarType.Qualifiers = arg.VarType.Qualifiers.WithCustom(qualifier)
		}
	}
}

// xyzLetter maps a hierarchy dimension to CUDA/HIP's and Metal's built-in
// x/y/z naming; both targets cap out at 3 dimensions, unlike OpenCL's
// arbitrary get_group_id(dim)/get_local_id(dim).
func xyzLetter(dim int) (string, bool) {
	letters := [...]string{"x", "y", "z"}
	if dim < 0 || dim >= len(letters) {
		return "", false
	}
	return letters[dim], true
}

// qualifySharedDecls tags every @shared-attributed declaration reachable
// from body with a custom local-memory qualifier (OpenCL's `__local`,
// CUDA/HIP's `__shared__`, Metal's `threadgroup`).
func qualifySharedDecls(body ast.Statement, qualifier string) {
	for _, s := range transform.StatementKindFinder(ast.DeclarationKind).Find(body) {
		decl := s.(*ast.DeclarationStatement)
		for _, d := range decl.Decls {
			if d.Variable.HasAttribute("shared") {
				d.Variable.VarType.Qualifiers = d.Variable.VarType.Qualifiers.WithCustom(qualifier)
			}
		}
	}
}

func collectInnerRefsInto(stmt ast.Statement, depth int, out *[]*innerRef) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for i, c := range s.Children {
			if f, ok := c.(*ast.ForStatement); ok && hasAttr(f, "inner") {
				*out = append(*out, &innerRef{forStmt: f, parent: s, idx: i, depth: depth})
				collectInnerRefsInto(f.Body, depth+1, out)
				continue
			}
			collectInnerRefsInto(c, depth, out)
		}
	case *ast.NamespaceStatement:
		collectInnerRefsInto(s.Body, depth, out)
	case *ast.IfStatement:
		collectInnerRefsInto(s.Body, depth, out)
		if s.Next != nil {
			collectInnerRefsInto(s.Next, depth, out)
		}
	case *ast.ElifStatement:
		collectInnerRefsInto(s.Body, depth, out)
		if s.Next != nil {
			collectInnerRefsInto(s.Next, depth, out)
		}
	case *ast.ElseStatement:
		collectInnerRefsInto(s.Body, depth, out)
	case *ast.WhileStatement:
		collectInnerRefsInto(s.Body, depth, out)
	case *ast.SwitchStatement:
		collectInnerRefsInto(s.Body, depth, out)
	case *ast.ForStatement:
		collectInnerRefsInto(s.Body, depth, out)
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			collectInnerRefsInto(s.Body, depth, out)
		}
	}
}
