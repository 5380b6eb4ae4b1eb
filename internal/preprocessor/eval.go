package preprocessor

import (
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
)

// evalDirectiveExpr evaluates a #if/#elif condition, per spec.md §4.B:
// rewrite `defined NAME` / `defined(NAME)` first (its operand is never
// macro-expanded), macro-expand everything else, then treat any identifier
// still standing as 0 with a warning (Open Question 4's resolution) before
// handing the flat token run to internal/exprengine.
func (p *Preprocessor) evalDirectiveExpr(raw []token.Token, origin token.FileOrigin) exprengine.Value {
	if len(raw) == 0 {
		p.reportErr(origin, "expected an expression after #if/#elif")
		return exprengine.IntValue(0)
	}
	rewritten := rewriteDefined(raw, p.lookupMacro)
	expanded := p.expandBoundedTokens(rewritten)
	final := p.rewriteUndefinedIdentifiers(expanded)
	final = append(final, token.Token{Kind: token.Eof, Origin: origin})

	eng := exprengine.New(final, noTypeNames, p.sink)
	node := eng.Parse()
	v, ok := exprengine.Evaluate(node)
	if !ok {
		return exprengine.IntValue(0)
	}
	p.checkFits32(v, origin)
	return v
}

// checkFits32 implements spec.md §8's integer-literal-widening boundary:
// a #if/#elif result computed without any wider (LL) literal in its
// operands is a 32-bit signed context, so `1 << 31` diagnoses while
// `1LL << 31` (width promoted to WidthLongLong by widerWidth) evaluates
// to 2147483648 without complaint.
func (p *Preprocessor) checkFits32(v exprengine.Value, origin token.FileOrigin) {
	if v.IsFloat || v.Width != token.WidthDefault || exprengine.Fits32(v) {
		return
	}
	p.reportErr(origin, "#if/#elif constant expression %s overflows a 32-bit signed int; widen a literal with an LL suffix", v.Int.String())
}

func noTypeNames(string) bool { return false }

// expandBoundedTokens macro-expands a fixed, already-collected token slice
// (a #if/#elif condition line), reusing the same expander the live stream
// uses but refilling from the slice instead of the lexer.
func (p *Preprocessor) expandBoundedTokens(toks []token.Token) []token.Token {
	i := 0
	refill := func() (token.Token, bool) {
		if i >= len(toks) {
			return token.Token{}, false
		}
		t := toks[i]
		i++
		return t, true
	}
	e := newExpander(refill, p.lookupMacro, p.expandSpecial, p.sink)
	var out []token.Token
	for {
		t, ok := e.Next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	return out
}

// rewriteDefined resolves the `defined` operator textually, before general
// macro expansion, so its operand is read as a bare name rather than
// itself expanded.
func rewriteDefined(toks []token.Token, lookup func(string) (*Macro, bool)) []token.Token {
	var out []token.Token
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind == token.Identifier && t.Text == "defined" {
			if i+3 < len(toks) && toks[i+1].IsOp("(") && toks[i+2].Kind == token.Identifier && toks[i+3].IsOp(")") {
				out = append(out, definedBoolToken(toks[i+2].Text, lookup, t.Origin))
				i += 4
				continue
			}
			if i+1 < len(toks) && toks[i+1].Kind == token.Identifier {
				out = append(out, definedBoolToken(toks[i+1].Text, lookup, t.Origin))
				i += 2
				continue
			}
		}
		out = append(out, t)
		i++
	}
	return out
}

func definedBoolToken(name string, lookup func(string) (*Macro, bool), origin token.FileOrigin) token.Token {
	defined := specialMacros[name]
	if !defined {
		_, defined = lookup(name)
	}
	text := "0"
	if defined {
		text = "1"
	}
	return token.Token{Kind: token.Primitive, Origin: origin, NumberText: text}
}

// rewriteUndefinedIdentifiers implements Open Question 4's resolution: an
// identifier that survives macro expansion inside a #if/#elif condition
// (i.e. names no macro) evaluates to 0, with a warning diagnostic, per the
// C convention rather than a hard error.
func (p *Preprocessor) rewriteUndefinedIdentifiers(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		if t.Kind == token.Identifier {
			p.reportWarn(t.Origin, "%q is not defined, evaluates to 0 in this #if/#elif expression", t.Text)
			out[i] = token.Token{Kind: token.Primitive, Origin: t.Origin, NumberText: "0"}
			continue
		}
		out[i] = t
	}
	return out
}
