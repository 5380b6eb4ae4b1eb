package transform

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/attributes"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

var tileCompareOps = map[string]bool{"<": true, "<=": true, ">=": true, ">": true}

var flippedCompareOp = map[string]string{"<": ">", ">": "<", "<=": ">=", ">=": "<="}

// RewriteTile rewrites every for-loop carrying @tile/@safeTile reachable
// from root into the nested block/inner loop pair of spec.md §4.I:
//
//	for (T0 x = S; x < E; x += I)
//	->
//	for (xTile = S; xTile < E; xTile += I * T) {
//	  for (x = xTile; x < min(xTile + T, E); x += I) {
//	    body
//	  }
//	}
//
// @tile's companion attributes (typically @outer/@inner) relocate onto
// whichever new loop they name; any other companion attaches to the inner
// loop, since that is where the loop's own variable uses live. @tile is
// removed from the result so a later pass over the same tree doesn't
// re-enter it.
//
// spec.md's pseudocode states the min() clamp unconditionally for both
// @tile and @safeTile; TileAttribute.Safe is carried through unused here
// rather than gating the clamp on an ungrounded guess — nothing in
// spec.md §4.I distinguishes the two rewrites, only (per the historical
// OCCA naming) a backend's freedom to skip a bounds check it can prove
// redundant, which belongs to internal/backend, not this rewrite.
//
// Grounded structurally on original_source/parser_sandbox/src/builtins/
// transforms/tile.cpp's isValidInit/isValidCheck/isValidUpdate/
// sameVariable (the "simple for-loop" shape check, extraction-oriented
// here rather than validation-oriented like internal/analyzer's own
// separately-implemented checkSimpleInit/Check/Update, which only need to
// report pass/fail) and transformStatement/setupNewForStatements/
// setupBlockForStatement/setupInnerForStatement (the block+inner split,
// iterator renaming, and clause relocation).
func RewriteTile(root ast.Statement, sink diagnostics.Sink) ast.Statement {
	return walkTile(root, nil, sink)
}

func walkTile(stmt ast.Statement, scope *ast.Scope, sink diagnostics.Sink) ast.Statement {
	if stmt == nil {
		return nil
	}
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		children := make([]ast.Statement, 0, len(s.Children))
		for _, c := range s.Children {
			if nc := walkTile(c, s.Scope, sink); nc != nil {
				children = append(children, nc)
			}
		}
		s.SetChildren(children)
		return s
	case *ast.NamespaceStatement:
		if nc := walkTile(s.Body, scope, sink); nc != nil {
			s.Body = nc.(*ast.BlockStatement)
		}
		return s
	case *ast.IfStatement:
		s.Body = reparentedTile(walkTile(s.Body, scope, sink), s)
		if s.Next != nil {
			s.Next = reparentedTile(walkTile(s.Next, scope, sink), s)
		}
		return s
	case *ast.ElifStatement:
		s.Body = reparentedTile(walkTile(s.Body, scope, sink), s)
		if s.Next != nil {
			s.Next = reparentedTile(walkTile(s.Next, scope, sink), s)
		}
		return s
	case *ast.ElseStatement:
		s.Body = reparentedTile(walkTile(s.Body, scope, sink), s)
		return s
	case *ast.WhileStatement:
		s.Body = reparentedTile(walkTile(s.Body, scope, sink), s)
		return s
	case *ast.SwitchStatement:
		if nc := walkTile(s.Body, scope, sink); nc != nil {
			s.Body = nc.(*ast.BlockStatement)
		}
		return s
	case *ast.FunctionDeclStatement:
		if s.Body != nil {
			if nc := walkTile(s.Body, scope, sink); nc != nil {
				s.Body = nc.(*ast.BlockStatement)
			}
		}
		return s
	case *ast.ForStatement:
		if tileAttr := findTileAttribute(s); tileAttr != nil {
			rewritten := rewriteOneTile(s, tileAttr, scope, sink)
			// Re-enter through walkTile so a @tile loop nested in the
			// original body (now the inner loop's body) still gets split,
			// and so the freshly built block/inner loops (no longer
			// carrying @tile) just fall through to ordinary descent below.
			return walkTile(rewritten, scope, sink)
		}
		if s.Init != nil {
			s.Init = reparentedTile(walkTile(s.Init, scope, sink), s)
		}
		s.Body = reparentedTile(walkTile(s.Body, scope, sink), s)
		return s
	default:
		return stmt
	}
}

func reparentedTile(child, parent ast.Statement) ast.Statement {
	ast.Reparent(child, parent)
	return child
}

func findTileAttribute(s ast.Statement) *attributes.TileAttribute {
	for _, a := range s.Attributes() {
		if ta, ok := a.(*attributes.TileAttribute); ok {
			return ta
		}
	}
	return nil
}

// rewriteOneTile performs the actual split for one validated @tile loop,
// returning the block loop (whose Body is the inner loop). On a shape
// validation failure it reports the error and returns s unchanged, with
// @tile still attached — so a second pass would just fail the same way
// rather than silently dropping the loop.
func rewriteOneTile(s *ast.ForStatement, tileAttr *attributes.TileAttribute, scope *ast.Scope, sink diagnostics.Sink) *ast.ForStatement {
	iter, start, cmpOp, bound, updOp, step, ok := simpleTileFor(sink, s)
	if !ok {
		return s
	}

	tok := s.Tok
	blockIter := iter.Clone()
	blockIter.Name = "_occa_tiled_" + iter.Name
	blockIterRef := func() exprengine.Node { return exprengine.NewIdentifier(tok, blockIter.Name) }
	iterRef := func() exprengine.Node { return exprengine.NewIdentifier(tok, iter.Name) }

	innerFor := ast.NewForStatement(
		tok,
		ast.NewDeclarationStatement(tok, []*ast.VariableDeclarator{{Variable: iter, Init: blockIterRef()}}),
		exprengine.NewBinary(tok, cmpOp,
			iterRef(),
			exprengine.NewCall(tok, exprengine.NewIdentifier(tok, "min"), []exprengine.Node{
				exprengine.NewBinary(tok, mustLookup("+"), blockIterRef(), tileAttr.Size.Clone()),
				bound.Clone(),
			}),
		),
		exprengine.NewBinary(tok, updOp, iterRef(), step.Clone()),
		s.Body,
	)

	blockFor := ast.NewForStatement(
		tok,
		ast.NewDeclarationStatement(tok, []*ast.VariableDeclarator{{Variable: blockIter, Init: start.Clone()}}),
		exprengine.NewBinary(tok, cmpOp, blockIterRef(), bound.Clone()),
		exprengine.NewBinary(tok, updOp, blockIterRef(),
			exprengine.NewParentheses(tok, exprengine.NewBinary(tok, mustLookup("*"),
				exprengine.NewParentheses(tok, step.Clone()),
				exprengine.NewParentheses(tok, tileAttr.Size.Clone()),
			)),
		),
		ast.NewBlock(scope),
	)
	blockFor.Body.(*ast.BlockStatement).Add(innerFor)

	for _, companion := range tileAttr.Companions {
		if companion.AttributeName() == "outer" {
			blockFor.AddAttribute(companion)
		} else {
			innerFor.AddAttribute(companion)
		}
	}
	return blockFor
}

// simpleTileFor validates and extracts a @tile loop's shape: a single
// integer-typed iterator, a comparison of that iterator against a bound,
// and an increment/decrement or +=/-= update of that iterator — the same
// "simple for-loop" shape internal/analyzer's rule 3 requires of
// @outer/@inner loops. Duplicated rather than shared: internal/analyzer's
// checkSimpleInit/Check/Update are validation-oriented (report-and-return
// bool) while this needs the actual start/bound/step operands to build
// the replacement loops.
func simpleTileFor(sink diagnostics.Sink, s *ast.ForStatement) (iter *types.Variable, start exprengine.Node, cmpOp *token.Operator, bound exprengine.Node, updOp *token.Operator, step exprengine.Node, ok bool) {
	decl, isDecl := s.Init.(*ast.DeclarationStatement)
	if !isDecl || len(decl.Decls) != 1 {
		reportErr(sink, s.Tok.Origin, "@tile loop must declare exactly one iterator variable")
		return
	}
	d := decl.Decls[0]
	if d.Init == nil {
		reportErr(sink, s.Tok.Origin, "@tile loop iterator must be initialized")
		return
	}
	iter = d.Variable
	start = d.Init

	bin, isBin := s.Check.(*exprengine.BinaryNode)
	if !isBin || !tileCompareOps[bin.Op.Symbol] {
		reportErr(sink, s.Tok.Origin, "@tile loop check must compare its iterator with [<, <=, >=, >]")
		return
	}
	switch {
	case refersToIter(bin.Left, iter):
		cmpOp = bin.Op
		bound = bin.Right
	case refersToIter(bin.Right, iter):
		flipped, found := flippedCompareOp[bin.Op.Symbol]
		if !found {
			reportErr(sink, s.Tok.Origin, "@tile loop check must compare its iterator with [<, <=, >=, >]")
			return
		}
		cmpOp = mustLookup(flipped)
		bound = bin.Left
	default:
		reportErr(sink, s.Tok.Origin, "@tile loop check must reference its own iterator")
		return
	}

	switch u := s.Update.(type) {
	case *exprengine.LeftUnaryNode:
		if isIncDec(u.Op.Symbol) && refersToIter(u.Child, iter) {
			updOp = mustLookup(incDecToAssign(u.Op.Symbol))
			step = exprengine.NewPrimitiveInt(s.Tok, 1)
			ok = true
			return
		}
	case *exprengine.RightUnaryNode:
		if isIncDec(u.Op.Symbol) && refersToIter(u.Child, iter) {
			updOp = mustLookup(incDecToAssign(u.Op.Symbol))
			step = exprengine.NewPrimitiveInt(s.Tok, 1)
			ok = true
			return
		}
	case *exprengine.BinaryNode:
		if (u.Op.Symbol == "+=" || u.Op.Symbol == "-=") && refersToIter(u.Left, iter) {
			updOp = u.Op
			step = u.Right
			ok = true
			return
		}
	}
	reportErr(sink, s.Tok.Origin, "@tile loop update must be one of [++, --, +=, -=] on its iterator")
	return
}

func isIncDec(sym string) bool { return sym == "++" || sym == "--" }

func incDecToAssign(sym string) string {
	if sym == "++" {
		return "+="
	}
	return "-="
}

// refersToIter reports whether node is, or directly wraps, a reference to
// iter — by name, since internal/exprengine surfaces bare names as
// IdentifierNode rather than resolving them itself (see also
// internal/analyzer's refersToVariable, the same check for rule 3).
func refersToIter(node exprengine.Node, iter *types.Variable) bool {
	switch n := node.(type) {
	case *exprengine.IdentifierNode:
		return n.Name == iter.Name
	case *exprengine.VariableNode:
		v, ok := n.Ref.(*types.Variable)
		return ok && v == iter
	case *exprengine.ParenthesesNode:
		return refersToIter(n.Child, iter)
	default:
		return false
	}
}
