package preprocessor

import (
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
)

// pendingTok is a token already produced by macro expansion, still carrying
// the hide set built up along the way (spec.md §4.B's "a macro is not
// re-expanded while its own expansion is in progress").
type pendingTok struct {
	tok     token.Token
	hideSet map[string]bool
}

// expander drives macro expansion over a pull-based token source. It backs
// both the live token stream (source = the lexer, via Preprocessor.refill)
// and bounded #if/#elif expression evaluation (source = a fixed slice), so
// the hide-set and argument-collection logic is written exactly once.
type expander struct {
	refill  func() (token.Token, bool)
	lookup  func(name string) (*Macro, bool)
	special func(token.Token) (token.Token, bool)
	sink    diagnostics.Sink
	pending []pendingTok
}

func newExpander(refill func() (token.Token, bool), lookup func(string) (*Macro, bool), special func(token.Token) (token.Token, bool), sink diagnostics.Sink) *expander {
	return &expander{refill: refill, lookup: lookup, special: special, sink: sink}
}

func (e *expander) pullRaw() (pendingTok, bool) {
	if len(e.pending) > 0 {
		pt := e.pending[0]
		e.pending = e.pending[1:]
		return pt, true
	}
	tok, ok := e.refill()
	if !ok {
		return pendingTok{}, false
	}
	return pendingTok{tok: tok}, true
}

func (e *expander) pushBack(pt pendingTok) {
	e.pending = append([]pendingTok{pt}, e.pending...)
}

func (e *expander) report(origin token.FileOrigin, format string, args ...interface{}) {
	if e.sink != nil {
		e.sink.Report(diagnostics.New(diagnostics.CodePreprocessor, origin, format, args...))
	}
}

// Next returns the next fully macro-expanded token, or (_, false) once the
// underlying source is permanently exhausted.
func (e *expander) Next() (token.Token, bool) {
	for {
		pt, ok := e.pullRaw()
		if !ok {
			return token.Token{}, false
		}
		tok := pt.tok
		if tok.Kind == token.Eof {
			return tok, true
		}
		if tok.Kind != token.Identifier {
			return tok, true
		}
		if e.special != nil {
			if out, ok := e.special(tok); ok {
				return out, true
			}
		}
		expanded, ok := e.tryExpand(tok, pt.hideSet)
		if !ok {
			return tok, true
		}
		hs := unionHideSet(pt.hideSet, tok.Text)
		for i := len(expanded) - 1; i >= 0; i-- {
			e.pushBack(pendingTok{tok: expanded[i], hideSet: hs})
		}
	}
}

// tryExpand expands tok as a macro invocation if it names one that isn't in
// hideSet, consuming (and, for a function-like macro, parenthesized
// arguments from) the underlying source. Returns ok=false, with any
// speculatively consumed lookahead pushed back, if tok does not name an
// active macro or a function-like macro's call parens aren't found.
func (e *expander) tryExpand(tok token.Token, hideSet map[string]bool) ([]token.Token, bool) {
	if hideSet[tok.Text] {
		return nil, false
	}
	m, ok := e.lookup(tok.Text)
	if !ok {
		return nil, false
	}
	if !m.IsFunctionLike() {
		return m.substitute(nil, e.sink), true
	}

	var lookahead []pendingTok
	foundParen := false
	for {
		pt, ok := e.pullRaw()
		if !ok {
			break
		}
		if pt.tok.Kind == token.Newline {
			lookahead = append(lookahead, pt)
			continue
		}
		if pt.tok.IsOp("(") {
			foundParen = true
		} else {
			lookahead = append(lookahead, pt)
		}
		break
	}
	if !foundParen {
		for i := len(lookahead) - 1; i >= 0; i-- {
			e.pushBack(lookahead[i])
		}
		return nil, false
	}

	args, ok := e.collectArgs(m, tok.Origin)
	if !ok {
		return nil, false
	}
	return m.substitute(args, e.sink), true
}

// collectArgs gathers the comma-separated, paren-balanced argument token
// runs of a function-like macro call, starting just after the already
// consumed '('. Arguments are kept raw (unexpanded): substitute decides
// whether to expand a given occurrence. Commas inside a nested pair, or
// beyond the named parameter count when the macro is variadic, are kept
// literal rather than splitting the argument list further.
func (e *expander) collectArgs(m *Macro, callOrigin token.FileOrigin) ([][]token.Token, bool) {
	want := len(m.Params)
	if m.HasVarArgs {
		want++
	}

	var args [][]token.Token
	var cur []token.Token
	depth := 0
	for {
		pt, ok := e.pullRaw()
		if !ok || pt.tok.Kind == token.Eof {
			e.report(callOrigin, "unterminated invocation of function-like macro %q", m.Name)
			return nil, false
		}
		tok := pt.tok
		if tok.Kind == token.Newline {
			continue
		}
		// Depth tracking is restricted to the bracket symbols themselves
		// rather than the PairOpen/PairClose category bits: those bits are
		// also set on '<'/'>' for angle-bracket constructs, which would
		// otherwise make a plain comparison inside an argument look like
		// unbalanced nesting.
		if tok.Kind == token.Operator {
			switch {
			case tok.IsOp("(") || tok.IsOp("[") || tok.IsOp("{"):
				depth++
			case tok.IsOp(")") || tok.IsOp("]") || tok.IsOp("}"):
				if tok.IsOp(")") && depth == 0 {
					args = append(args, cur)
					goto done
				}
				depth--
			case tok.IsOp(",") && depth == 0 && len(args) < want-1:
				args = append(args, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, tok)
	}
done:
	if len(args) == 1 && len(args[0]) == 0 && want == 0 {
		args = nil
	}
	for len(args) < want {
		args = append(args, nil)
	}
	return args, true
}

func unionHideSet(base map[string]bool, add string) map[string]bool {
	out := make(map[string]bool, len(base)+1)
	for k := range base {
		out[k] = true
	}
	out[add] = true
	return out
}
