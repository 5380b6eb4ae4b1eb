// Package parser implements the statement parser of spec.md §4.F: a
// recursive-descent loader over the whole (preprocessed, stream-transformed)
// token slice, keyed by leading-keyword dispatch the way the teacher's
// internal/parser/statements_control.go dispatches on p.curToken.Type inside
// parseBlockStatement, generalized to the C-family statement grammar of
// spec.md §3. Expression sub-trees are delegated to internal/exprengine's
// shunting-yard Engine; declarator/type syntax is parsed here since it needs
// the running Scope to disambiguate a type name from an identifier.
package parser

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
)

// Node is the local alias internal/ast uses for exprengine.Node, kept here
// too so control-flow parsing methods read naturally.
type Node = exprengine.Node

// Parser walks a flat token slice with a single cursor, the same access
// pattern exprengine.Engine uses, so statement and expression parsing share
// one notion of position and Pos()-based resynchronization.
type Parser struct {
	toks  []token.Token
	pos   int
	sink  diagnostics.Sink
	scope *ast.Scope
}

// New creates a Parser over toks (already macro-expanded and stream
// transformed) reporting to sink. The root scope has no parent.
func New(toks []token.Token, sink diagnostics.Sink) *Parser {
	return &Parser{toks: toks, sink: sink, scope: ast.NewScope(nil)}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.cur().Kind == token.Eof
}

func (p *Parser) curIsOp(symbol string) bool { return p.cur().IsOp(symbol) }

func (p *Parser) curIsKeyword(text string) bool {
	return p.cur().Kind == token.Identifier && p.cur().Text == text
}

func (p *Parser) report(origin token.FileOrigin, format string, args ...interface{}) {
	if p.sink != nil {
		p.sink.Report(diagnostics.New(diagnostics.CodeParse, origin, format, args...))
	}
}

// expectOp advances past an operator token matching symbol, reporting a
// diagnostic and leaving the cursor in place if it doesn't match.
func (p *Parser) expectOp(symbol string) bool {
	if p.curIsOp(symbol) {
		p.advance()
		return true
	}
	p.report(p.cur().Origin, "expected %q, got %q", symbol, p.cur().String())
	return false
}

// isTypeName reports whether name currently denotes a type: a built-in
// primitive keyword or a name bound to KeywordType in the running scope
// chain. Passed to exprengine.New as the TypeNamer callback so cast
// disambiguation sees the same answer the declarator parser would.
func (p *Parser) isTypeName(name string) bool {
	if token.PrimitiveWords[name] {
		return true
	}
	b, ok := p.scope.Lookup(name)
	return ok && b.Kind == token.KeywordType
}

// parseExprUpTo runs the shunting-yard engine over the tokens starting at
// the cursor, with noComma selecting ParseNoComma over Parse (for contexts
// like a declarator's initialiser, where a bare comma ends the expression
// rather than chaining), then advances the cursor by however many tokens the
// engine consumed.
func (p *Parser) parseExprUpTo(noComma bool) exprengine.Node {
	eng := exprengine.New(p.toks[p.pos:], p.isTypeName, p.sink)
	var n exprengine.Node
	if noComma {
		n = eng.ParseNoComma()
	} else {
		n = eng.Parse()
	}
	p.pos += eng.Pos()
	return n
}

// ParseTranslationUnit parses the whole token slice as a sequence of
// top-level statements, returning the root block (its Scope is the
// translation unit's global scope).
func (p *Parser) ParseTranslationUnit() *ast.BlockStatement {
	root := ast.NewBlock(nil)
	root.Scope = p.scope
	for !p.atEnd() {
		if p.cur().Kind == token.Newline {
			p.advance()
			continue
		}
		if p.cur().Kind == token.Pragma {
			tok := p.advance()
			root.Add(ast.NewPragmaStatement(tok, tok.Text))
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			root.Add(stmt)
		}
	}
	return root
}
