package preprocessor

import (
	"strings"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/token"
)

// MacroPiece is one element of a macro's replacement list: either a literal
// token carried verbatim, or a reference to the invocation's Nth argument
// (ported from macro.hpp's macroToken, whose `arg` field plays the same
// role via isArg()).
type MacroPiece struct {
	IsArg    bool
	ArgIndex int
	Tok      token.Token
}

func isHashOp(p MacroPiece) bool  { return !p.IsArg && p.Tok.IsOp("#") }
func isPasteOp(p MacroPiece) bool { return !p.IsArg && p.Tok.IsOp("##") }

// Macro is an object-like or function-like macro definition (spec.md §4.B),
// grounded on macro.hpp's macro_t: Params/HasVarArgs mirror argCount and the
// mutable hasVarArgs flag, Body mirrors macroTokens.
type Macro struct {
	Name       string
	Params     []string // empty for an object-like macro
	HasVarArgs bool
	ArgCount   int // len(Params); -1 means "not function-like" (no parens were ever parsed)
	Body       []MacroPiece
	Origin     token.FileOrigin
}

// IsFunctionLike mirrors macro_t::isFunctionLike: a macro became
// function-like the moment its `(params)` list was parsed, even `()`.
func (m *Macro) IsFunctionLike() bool { return m.ArgCount >= 0 || m.HasVarArgs }

// IsEmpty mirrors macro_t::isEmpty.
func (m *Macro) IsEmpty() bool { return len(m.Body) == 0 }

// substitute builds this macro's replacement tokens for one invocation.
// args is nil for an object-like macro. Per spec.md §4.B's expansion
// contract, an argument used plainly is inserted unexpanded here: the
// surrounding expander's single rescanning loop macro-expands it
// immediately afterward (under the hide-set this invocation adds), which
// is observationally equivalent to pre-expanding at substitution time
// except that an argument naming the macro currently being expanded
// inherits that macro's hide-set rather than the call site's — a narrower
// hide-set rule than a full Prosser-style algorithm tracks, and only
// matters for the same macro name reappearing, unexpanded, inside its own
// call's arguments. `#` stringizes and `##` pastes always see the raw
// (unexpanded) argument tokens, per contract.
func (m *Macro) substitute(args [][]token.Token, sink diagnostics.Sink) []token.Token {
	argToks := func(idx int) []token.Token {
		if idx < 0 || idx >= len(args) {
			return nil
		}
		return args[idx]
	}

	// Pass 1: turn the body into segments of raw tokens, with a nil segment
	// marking each `##` boundary. An argument adjacent to `##` (on either
	// side) keeps its tokens raw here rather than pre-expanded, matching
	// the stringize/paste contract; `#` is resolved immediately into a
	// single stringized token.
	var segs [][]token.Token
	i := 0
	for i < len(m.Body) {
		p := m.Body[i]
		switch {
		case isHashOp(p) && i+1 < len(m.Body) && m.Body[i+1].IsArg:
			segs = append(segs, []token.Token{stringize(argToks(m.Body[i+1].ArgIndex), p.Tok.Origin)})
			i += 2
		case isPasteOp(p):
			segs = append(segs, nil)
			i++
		case p.IsArg:
			segs = append(segs, argToks(p.ArgIndex))
			i++
		default:
			segs = append(segs, []token.Token{p.Tok})
			i++
		}
	}

	// Pass 2: reduce, merging the last token before a `##` marker with the
	// first token after it. The merge becomes the new tail of out, so a
	// chain like a##b##c folds left to right.
	var out []token.Token
	pendingPaste := false
	for _, s := range segs {
		if s == nil {
			pendingPaste = true
			continue
		}
		if pendingPaste && len(out) > 0 && len(s) > 0 {
			last := out[len(out)-1]
			merged := pasteTokens(last, s[0], sink)
			out = out[:len(out)-1]
			out = append(out, merged...)
			out = append(out, s[1:]...)
		} else {
			out = append(out, s...)
		}
		pendingPaste = false
	}
	return out
}

// stringize implements the `#` operator: join the argument's raw token
// spellings with single spaces, escaping backslashes and quotes inside
// string/char literals, per the C `#` stringification rule.
func stringize(toks []token.Token, origin token.FileOrigin) token.Token {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		s := t.Spelling()
		if t.Kind == token.StringLit || t.Kind == token.CharLit {
			s = strings.ReplaceAll(s, `\`, `\\`)
			s = strings.ReplaceAll(s, `"`, `\"`)
		}
		b.WriteString(s)
	}
	return token.Token{Kind: token.StringLit, Origin: origin, Raw: b.String()}
}

// pasteTokens implements the `##` operator: concatenate two tokens'
// spellings and re-lex the result, per spec.md §4.B ("concatenates
// adjacent token spellings and re-lexes the result"). A paste that does
// not form a single valid token is diagnosed as a warning and the two
// original tokens are kept side by side, rather than throwing.
func pasteTokens(a, b token.Token, sink diagnostics.Sink) []token.Token {
	combined := a.Spelling() + b.Spelling()
	l := lexer.New("<paste>", combined, nil, nil, nil)
	var out []token.Token
	for {
		t := l.NextToken()
		if t.Kind == token.Eof {
			break
		}
		if t.Kind == token.Newline {
			continue
		}
		out = append(out, t)
	}
	if len(out) != 1 {
		if sink != nil {
			sink.Report(diagnostics.NewWarning(diagnostics.CodePreprocessor, a.Origin,
				"pasting %q and %q does not form a single valid preprocessing token", a.Spelling(), b.Spelling()))
		}
		if len(out) == 0 {
			return []token.Token{a, b}
		}
	}
	for i := range out {
		out[i].Origin = a.Origin
	}
	return out
}
