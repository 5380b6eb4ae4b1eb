// Package preprocessor implements the macro preprocessor of spec.md §4.B:
// object-like and function-like #define, hide-set-gated expansion, the `#`
// and `##` operators, conditional compilation, #include dispatch through
// the lexer's own include stack, and #if/#elif expression evaluation via
// internal/exprengine. The macro table and substitution model are ported
// from original_source/parser_sandbox/include/macro.hpp's macro_t /
// macroToken classes; the conditional stack is a push/pop state machine in
// the style of the teacher's internal/analyzer/declarations.go mode guards.
package preprocessor

import (
	"strconv"
	"strings"
	"time"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/lexer"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/tokenstream"
)

var _ tokenstream.Stream = (*Preprocessor)(nil)

var specialMacros = map[string]bool{
	"__FILE__":    true,
	"__LINE__":    true,
	"__COUNTER__": true,
	"__DATE__":    true,
	"__TIME__":    true,
}

// condState is the state of one entry on the conditional-inclusion stack,
// per spec.md §4.B: "a conditional stack of {state: taking|skipping, ...}".
type condState int

const (
	condTaking condState = iota
	condSkipping
)

type condFrame struct {
	state    condState
	satisfied bool // some branch of this #if..#endif chain has already taken
	sawElse  bool
	inert    bool // this frame's own condition was never evaluated because an outer frame was already skipping
	origin   token.FileOrigin
}

// Preprocessor wraps a *lexer.Lexer with macro expansion and conditional
// compilation, implementing tokenstream.Stream so it composes with the
// NewlineMerger/StringMerger/UnknownFilter transforms exactly like any
// other Stream.
type Preprocessor struct {
	lex            *lexer.Lexer
	sink           diagnostics.Sink
	macros         map[string]*Macro
	compilerMacros map[string]*Macro
	conds          []condFrame
	counter        int
	buildDate      string
	buildTime      string
	exp            *expander
}

// New creates a Preprocessor reading from lex, reporting diagnostics to
// sink (which may be nil).
func New(lex *lexer.Lexer, sink diagnostics.Sink) *Preprocessor {
	now := time.Now()
	p := &Preprocessor{
		lex:            lex,
		sink:           sink,
		macros:         make(map[string]*Macro),
		compilerMacros: make(map[string]*Macro),
		buildDate:      now.Format("Jan 02 2006"),
		buildTime:      now.Format("15:04:05"),
	}
	p.exp = newExpander(p.refill, p.lookupMacro, p.expandSpecial, sink)
	return p
}

// Pop implements tokenstream.Stream, pulling the next macro-expanded token.
func (p *Preprocessor) Pop() (token.Token, bool) {
	return p.exp.Next()
}

// DefineCompilerMacro registers (or overwrites) an object-like macro in the
// separate compiler-macro table a backend uses for injected constants like
// OCCA_USING_CPU (spec.md §4.B: "compiler-macro table, reset by backend").
// It is consulted after the user #define table, so a source file's own
// #define always wins.
func (p *Preprocessor) DefineCompilerMacro(name, body string) {
	l := lexer.New("<compiler-macro>", body, nil, nil, nil)
	var pieces []MacroPiece
	for {
		t := l.NextToken()
		if t.Kind == token.Eof || t.Kind == token.Newline {
			break
		}
		pieces = append(pieces, MacroPiece{Tok: t})
	}
	p.compilerMacros[name] = &Macro{Name: name, ArgCount: -1, Body: pieces}
}

// ResetCompilerMacros clears the compiler-macro table, called between
// backend targets so one target's injected defines never leak into another.
func (p *Preprocessor) ResetCompilerMacros() {
	p.compilerMacros = make(map[string]*Macro)
}

func (p *Preprocessor) lookupMacro(name string) (*Macro, bool) {
	if m, ok := p.macros[name]; ok {
		return m, true
	}
	m, ok := p.compilerMacros[name]
	return m, ok
}

func (p *Preprocessor) skipping() bool {
	for _, f := range p.conds {
		if f.state != condTaking {
			return true
		}
	}
	return false
}

func (p *Preprocessor) reportErr(origin token.FileOrigin, format string, args ...interface{}) {
	if p.sink != nil {
		p.sink.Report(diagnostics.New(diagnostics.CodePreprocessor, origin, format, args...))
	}
}

func (p *Preprocessor) reportWarn(origin token.FileOrigin, format string, args ...interface{}) {
	if p.sink != nil {
		p.sink.Report(diagnostics.NewWarning(diagnostics.CodePreprocessor, origin, format, args...))
	}
}

// expandSpecial resolves the built-in macros of spec.md §4.B that aren't
// stored in the macro table: __FILE__, __LINE__, __COUNTER__, __DATE__ and
// __TIME__. A user #define of the same name takes priority.
func (p *Preprocessor) expandSpecial(tok token.Token) (token.Token, bool) {
	if _, ok := p.macros[tok.Text]; ok {
		return token.Token{}, false
	}
	switch tok.Text {
	case "__FILE__":
		return token.Token{Kind: token.StringLit, Origin: tok.Origin, Raw: tok.Origin.File}, true
	case "__LINE__":
		return token.Token{Kind: token.Primitive, Origin: tok.Origin, NumberText: strconv.Itoa(tok.Origin.Line)}, true
	case "__COUNTER__":
		v := p.counter
		p.counter++
		return token.Token{Kind: token.Primitive, Origin: tok.Origin, NumberText: strconv.Itoa(v)}, true
	case "__DATE__":
		return token.Token{Kind: token.StringLit, Origin: tok.Origin, Raw: p.buildDate}, true
	case "__TIME__":
		return token.Token{Kind: token.StringLit, Origin: tok.Origin, Raw: p.buildTime}, true
	}
	return token.Token{}, false
}

// refill is the expander's token source for the live stream: it reads raw
// tokens from the lexer, intercepting line-start '#' directives and
// discarding tokens while a conditional branch is skipping. Every other
// token flows through to expansion unchanged.
func (p *Preprocessor) refill() (token.Token, bool) {
	for {
		tok := p.lex.NextToken()
		if tok.Kind == token.Operator && tok.IsOp("#") {
			if pragma, ok := p.handleDirective(); ok {
				return pragma, true
			}
			continue
		}
		if tok.Kind == token.Eof {
			if len(p.conds) > 0 {
				p.reportErr(p.conds[len(p.conds)-1].origin, "unterminated conditional directive (missing #endif)")
			}
			return tok, true
		}
		if p.skipping() {
			continue
		}
		return tok, true
	}
}

// handleDirective parses and executes one directive line, the token
// just past '#' already consumed as its name. Only #pragma surfaces a
// token back to refill; every other directive is fully absorbed here.
func (p *Preprocessor) handleDirective() (token.Token, bool) {
	tok := p.lex.NextToken()
	if tok.Kind == token.Newline || tok.Kind == token.Eof {
		return token.Token{}, false // the null directive, "#" alone on a line
	}
	if tok.Kind != token.Identifier {
		p.reportErr(tok.Origin, "expected a preprocessing directive name after '#', got %q", tok.String())
		p.skipLine()
		return token.Token{}, false
	}

	skip := p.skipping()
	switch tok.Text {
	case "if":
		p.directiveIf(tok.Origin)
	case "ifdef":
		p.directiveIfdefFamily(tok.Origin, true)
	case "ifndef":
		p.directiveIfdefFamily(tok.Origin, false)
	case "elif":
		p.directiveElif(tok.Origin)
	case "else":
		p.directiveElse(tok.Origin)
	case "endif":
		p.directiveEndif(tok.Origin)
	case "define":
		if skip {
			p.skipLine()
		} else {
			p.directiveDefine(tok.Origin)
		}
	case "undef":
		if skip {
			p.skipLine()
		} else {
			p.directiveUndef()
		}
	case "include":
		if skip {
			p.skipLine()
		} else {
			p.directiveInclude(tok.Origin)
		}
	case "error":
		if skip {
			p.skipLine()
		} else {
			p.reportErr(tok.Origin, "#error %s", spellLine(p.collectLineTokens()))
		}
	case "warning":
		if skip {
			p.skipLine()
		} else {
			p.reportWarn(tok.Origin, "#warning %s", spellLine(p.collectLineTokens()))
		}
	case "pragma":
		if skip {
			p.skipLine()
		} else {
			return p.directivePragma(tok.Origin), true
		}
	case "line":
		// Recognised but inert: the lexer has no facility to rewrite a
		// frame's reported file/line, so the directive is consumed and
		// otherwise has no effect.
		p.skipLine()
	default:
		if !skip {
			p.reportErr(tok.Origin, "unknown preprocessing directive #%s", tok.Text)
		}
		p.skipLine()
	}
	return token.Token{}, false
}

func (p *Preprocessor) collectLineTokens() []token.Token {
	var out []token.Token
	for {
		tok := p.lex.NextToken()
		if tok.Kind == token.Newline || tok.Kind == token.Eof {
			break
		}
		out = append(out, tok)
	}
	return out
}

func (p *Preprocessor) skipLine() {
	for {
		tok := p.lex.NextToken()
		if tok.Kind == token.Newline || tok.Kind == token.Eof {
			break
		}
	}
}

func spellLine(toks []token.Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Spelling())
	}
	return b.String()
}

func (p *Preprocessor) directivePragma(origin token.FileOrigin) token.Token {
	text := spellLine(p.collectLineTokens())
	return token.Token{Kind: token.Pragma, Origin: origin, Text: text}
}

func (p *Preprocessor) directiveUndef() {
	nameTok := p.lex.NextToken()
	p.skipLine()
	if nameTok.Kind == token.Identifier {
		delete(p.macros, nameTok.Text)
	}
}

func (p *Preprocessor) directiveInclude(origin token.FileOrigin) {
	p.lex.ExpectHeaderName(true)
	tok := p.lex.NextToken()
	if tok.Kind != token.HeaderName {
		p.reportErr(origin, "expected a header name after #include, got %q", tok.String())
		p.skipLine()
		return
	}
	p.skipLine()
	p.lex.Include(tok.Text, tok.System, origin)
}
