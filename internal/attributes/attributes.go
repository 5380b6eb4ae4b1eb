// Package attributes implements the OKL attribute-kind registry of spec.md
// §4.G: a fixed set of built-in `@name(args…)` kinds, each created through a
// registered `create(sourceToken, argRanges)` factory and each carrying the
// `onVariableLoad`/`onFunctionLoad`/`onStatementLoad`/`onUse` hooks the
// parser and analyzer invoke after attaching an instance to its target.
// Modeled on the teacher's internal/ext registration pattern
// (ext/config.go's `registerNativeFunc` / one-shot init-time registration,
// resolved later by name) adapted from Go-host-binding registration to
// attribute-kind registration.
package attributes

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// Attribute is the full interface a built-in attribute kind satisfies: the
// narrow types.Attribute view plus the load/use hooks of spec.md §4.G. The
// parser calls OnStatementLoad for every attachment, then OnFunctionLoad or
// OnVariableLoad when the statement declares a function or a single
// variable; a hook a kind does not override defaults to a no-op true.
type Attribute interface {
	types.Attribute
	OnVariableLoad(v *types.Variable, sink diagnostics.Sink) bool
	OnFunctionLoad(f *types.Function, sink diagnostics.Sink) bool
	OnStatementLoad(s ast.Statement, sink diagnostics.Sink) bool
	OnUse(sink diagnostics.Sink) bool
	Clone() Attribute
}

type base struct {
	name   string
	Origin token.FileOrigin
}

func (b base) AttributeName() string { return b.name }
func (b base) String() string        { return "@" + b.name }

func (base) OnVariableLoad(*types.Variable, diagnostics.Sink) bool  { return true }
func (base) OnFunctionLoad(*types.Function, diagnostics.Sink) bool  { return true }
func (base) OnStatementLoad(ast.Statement, diagnostics.Sink) bool   { return true }
func (base) OnUse(diagnostics.Sink) bool                            { return true }

// factory builds one attribute instance from its source token and the
// comma-separated argument token ranges found inside `(...)` (empty if the
// attribute was written bare, e.g. `@shared`).
type factory func(tok token.Token, argRanges [][]token.Token, sink diagnostics.Sink) Attribute

var registry = map[string]factory{}

func register(name string, f factory) { registry[name] = f }

// Create looks up name in the built-in registry and invokes its factory,
// reporting a diagnostic and returning ok=false for an unregistered name.
func Create(name string, tok token.Token, argRanges [][]token.Token, sink diagnostics.Sink) (Attribute, bool) {
	f, ok := registry[name]
	if !ok {
		report(sink, tok.Origin, "unknown attribute %q", name)
		return nil, false
	}
	a := f(tok, argRanges, sink)
	return a, a != nil
}

func report(sink diagnostics.Sink, origin token.FileOrigin, format string, args ...interface{}) {
	if sink != nil {
		sink.Report(diagnostics.New(diagnostics.CodeSemantic, origin, format, args...))
	}
}

func parseArg(toks []token.Token, sink diagnostics.Sink) exprengine.Node {
	return exprengine.New(toks, nil, sink).Parse()
}

func init() {
	register("kernel", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) != 0 {
			report(sink, tok.Origin, "@kernel takes no arguments")
		}
		return &KernelAttribute{base{name: "kernel", Origin: tok.Origin}}
	})
	register("outer", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		return &LoopAttribute{base: base{name: "outer", Origin: tok.Origin}, Dim: parseOptionalDim(args, sink)}
	})
	register("inner", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		return &LoopAttribute{base: base{name: "inner", Origin: tok.Origin}, Dim: parseOptionalDim(args, sink)}
	})
	register("shared", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) != 0 {
			report(sink, tok.Origin, "@shared takes no arguments")
		}
		return &SharedAttribute{base{name: "shared", Origin: tok.Origin}}
	})
	register("exclusive", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) != 0 {
			report(sink, tok.Origin, "@exclusive takes no arguments")
		}
		return &ExclusiveAttribute{base{name: "exclusive", Origin: tok.Origin}}
	})
	register("dim", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) == 0 {
			report(sink, tok.Origin, "@dim requires at least one dimension size")
			return nil
		}
		sizes := make([]exprengine.Node, len(args))
		for i, a := range args {
			sizes[i] = parseArg(a, sink)
		}
		return &DimAttribute{base: base{name: "dim", Origin: tok.Origin}, Sizes: sizes}
	})
	register("dimOrder", func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) == 0 {
			report(sink, tok.Origin, "@dimOrder requires at least one index")
			return nil
		}
		order := make([]int, len(args))
		for i, a := range args {
			n := parseArg(a, sink)
			v, ok := exprengine.Evaluate(n)
			if !ok || v.Int == nil {
				report(sink, tok.Origin, "@dimOrder argument %d must be a compile-time integer", i)
				continue
			}
			order[i] = int(v.Int.Int64())
		}
		return &DimOrderAttribute{base: base{name: "dimOrder", Origin: tok.Origin}, Order: order}
	})
	register("tile", tileFactory("tile"))
	register("safeTile", tileFactory("safeTile"))
}

func parseOptionalDim(args [][]token.Token, sink diagnostics.Sink) int {
	if len(args) == 0 {
		return -1
	}
	n := parseArg(args[0], sink)
	v, ok := exprengine.Evaluate(n)
	if !ok || v.Int == nil {
		return -1
	}
	return int(v.Int.Int64())
}

// tileFactory builds the shared @tile/@safeTile factory: arg 0 is the tile
// size expression, remaining args are either plain expressions or nested
// companion attributes (`@outer`, `@inner`) written as `@name` inside the
// same parens, per spec.md §4.I's `@tile(T[, attrs…])` grammar.
func tileFactory(name string) factory {
	return func(tok token.Token, args [][]token.Token, sink diagnostics.Sink) Attribute {
		if len(args) == 0 {
			report(sink, tok.Origin, "@%s requires a tile size", name)
			return nil
		}
		out := &TileAttribute{base: base{name: name, Origin: tok.Origin}, Safe: name == "safeTile"}
		out.Size = parseArg(args[0], sink)
		for _, a := range args[1:] {
			if len(a) >= 2 && a[0].IsOp("@") && a[1].Kind == token.Identifier {
				companion, ok := Create(a[1].Text, a[1], nil, sink)
				if ok {
					out.Companions = append(out.Companions, companion)
				}
				continue
			}
			report(sink, tok.Origin, "unexpected @%s argument", name)
		}
		return out
	}
}
