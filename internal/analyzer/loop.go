package analyzer

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// simpleIteratorTypes names the base types a transformable @outer/@inner
// loop's iterator may declare (spec.md §4.H rule 3).
var simpleIteratorTypes = map[string]bool{
	"char": true, "short": true, "int": true, "long": true,
}

// loopCompareOps are the comparison operators a simple loop's check clause
// may use; == and != are excluded since they can't express a bound.
var loopCompareOps = map[string]bool{
	"<": true, "<=": true, ">=": true, ">": true,
}

// loopNode is one @outer/@inner for-loop in the filtered loop-nest tree of a
// single kernel, skipping every intermediate statement that carries neither
// attribute.
type loopNode struct {
	stmt     *ast.ForStatement
	isOuter  bool
	children []*loopNode
}

func hasAttr(stmt ast.Statement, name string) bool {
	for _, a := range stmt.Attributes() {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}

// checkSimpleLoop validates spec.md §4.H rule 3 against a for-loop already
// known to carry @outer or @inner.
func checkSimpleLoop(sink diagnostics.Sink, s *ast.ForStatement) {
	v := checkSimpleInit(sink, s)
	checkSimpleCheck(sink, s, v)
	checkSimpleUpdate(sink, s, v)
}

func checkSimpleInit(sink diagnostics.Sink, s *ast.ForStatement) *types.Variable {
	decl, ok := s.Init.(*ast.DeclarationStatement)
	if !ok {
		reportErr(sink, s.Tok.Origin, "@outer/@inner loop must declare its iterator in the for-loop's init clause")
		return nil
	}
	if len(decl.Decls) != 1 {
		origin := s.Tok.Origin
		if len(decl.Decls) > 1 {
			origin = decl.Decls[1].Variable.Origin
		}
		reportErr(sink, origin, "Can only transform 1 iterator variable per @outer/@inner loop")
		if len(decl.Decls) == 0 {
			return nil
		}
	}
	v := decl.Decls[0].Variable
	if !isSimpleIteratorType(v.VarType.Base) {
		reportErr(sink, s.Tok.Origin, "@outer/@inner loop iterator %q must be one of char, short, int, long", v.Name)
	}
	return v
}

func isSimpleIteratorType(b types.BaseType) bool {
	for {
		td, ok := b.(*types.Typedef)
		if !ok || td.Target.Base == nil {
			break
		}
		b = td.Target.Base
	}
	p, ok := b.(*types.PrimitiveType)
	return ok && simpleIteratorTypes[p.Name]
}

func checkSimpleCheck(sink diagnostics.Sink, s *ast.ForStatement, v *types.Variable) {
	if v == nil {
		return
	}
	bin, ok := s.Check.(*exprengine.BinaryNode)
	if !ok || !loopCompareOps[bin.Op.Symbol] {
		reportErr(sink, s.Tok.Origin, "@outer/@inner loop check clause must compare its iterator with <, <=, >= or >")
		return
	}
	if !refersToVariable(bin.Left, v) && !refersToVariable(bin.Right, v) {
		reportErr(sink, s.Tok.Origin, "@outer/@inner loop check clause must test iterator %q", v.Name)
	}
}

func checkSimpleUpdate(sink diagnostics.Sink, s *ast.ForStatement, v *types.Variable) {
	if v == nil {
		return
	}
	switch u := s.Update.(type) {
	case *exprengine.LeftUnaryNode:
		if (u.Op.Symbol == "++" || u.Op.Symbol == "--") && refersToVariable(u.Child, v) {
			return
		}
	case *exprengine.RightUnaryNode:
		if (u.Op.Symbol == "++" || u.Op.Symbol == "--") && refersToVariable(u.Child, v) {
			return
		}
	case *exprengine.BinaryNode:
		if (u.Op.Symbol == "+=" || u.Op.Symbol == "-=") && refersToVariable(u.Left, v) {
			return
		}
	}
	reportErr(sink, s.Tok.Origin, "@outer/@inner loop update clause must increment or decrement iterator %q", v.Name)
}

// checkLoopTreeConsistency validates spec.md §4.H rule 4: every root-to-leaf
// path through the kernel's @outer/@inner loop-nest tree must traverse the
// same number of @outer loops and the same number of @inner loops.
func checkLoopTreeConsistency(sink diagnostics.Sink, kernelName string, kernelOrigin token.FileOrigin, roots []*loopNode) {
	var all [][2]int
	for _, r := range roots {
		all = append(all, leafPaths(r, 0, 0)...)
	}
	if len(all) == 0 {
		return
	}
	want := all[0]
	for _, p := range all[1:] {
		if p != want {
			reportErr(sink, kernelOrigin, "kernel %q has inconsistent [@outer]/[@inner] loop nesting depth across its loop nest", kernelName)
			return
		}
	}
}

func leafPaths(n *loopNode, outerCount, innerCount int) [][2]int {
	if n.isOuter {
		outerCount++
	} else {
		innerCount++
	}
	if len(n.children) == 0 {
		return [][2]int{{outerCount, innerCount}}
	}
	var out [][2]int
	for _, c := range n.children {
		out = append(out, leafPaths(c, outerCount, innerCount)...)
	}
	return out
}

