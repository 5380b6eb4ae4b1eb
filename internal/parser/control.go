package parser

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/attributes"
)

// parseIf parses `if (cond) body [else if (cond) body]* [else body]`,
// chaining elif/else arms through Next the way ast.IfStatement documents.
func (p *Parser) parseIf() ast.Statement {
	tok := p.advance() // 'if'
	p.expectOp("(")
	cond := p.parseExprUpTo(false)
	p.expectOp(")")
	body := p.parseStatement()

	var next ast.Statement
	if p.curIsKeyword("else") {
		elseTok := p.advance()
		if p.curIsKeyword("if") {
			next = p.parseElif()
		} else {
			next = ast.NewElseStatement(elseTok, p.parseStatement())
		}
	}
	return ast.NewIfStatement(tok, cond, body, next)
}

func (p *Parser) parseElif() ast.Statement {
	tok := p.advance() // 'if' (the 'else' was already consumed)
	p.expectOp("(")
	cond := p.parseExprUpTo(false)
	p.expectOp(")")
	body := p.parseStatement()

	var next ast.Statement
	if p.curIsKeyword("else") {
		elseTok := p.advance()
		if p.curIsKeyword("if") {
			next = p.parseElif()
		} else {
			next = ast.NewElseStatement(elseTok, p.parseStatement())
		}
	}
	return ast.NewElifStatement(tok, cond, body, next)
}

// parseFor parses `for (init; check; update) body`, and OKL's
// `for (init; check; update; @attrs...) body` whose trailing clause attaches
// attributes to the loop. init may be a declaration or an expression
// statement (both already consume their own trailing ';'); an empty clause
// (`for (;;)`) leaves the corresponding field nil.
func (p *Parser) parseFor() ast.Statement {
	tok := p.advance() // 'for'
	p.expectOp("(")

	outer := p.scope
	loopScope := ast.NewScope(outer)
	p.scope = loopScope

	var init ast.Statement
	if p.curIsOp(";") {
		p.advance()
	} else {
		init = p.parseDeclarationOrExpression()
	}

	var check Node
	if !p.curIsOp(";") {
		check = p.parseExprUpTo(false)
	}
	p.expectOp(";")

	var update Node
	if !p.curIsOp(")") && !p.curIsOp(";") {
		update = p.parseExprUpTo(false)
	}
	var attrs []attributes.Attribute
	if p.curIsOp(";") {
		p.advance()
		attrs = p.parseAttributePrefix()
	}
	p.expectOp(")")

	body := p.parseStatement()
	p.scope = outer
	stmt := ast.NewForStatement(tok, init, check, update, body)
	applyAttributes(stmt, attrs, p.sink)
	return stmt
}

func (p *Parser) parseWhile(isDoWhile bool) ast.Statement {
	tok := p.advance() // 'while'
	p.expectOp("(")
	check := p.parseExprUpTo(false)
	p.expectOp(")")
	body := p.parseStatement()
	return ast.NewWhileStatement(tok, check, body, isDoWhile)
}

// parseDoWhile parses `do body while (check);`.
func (p *Parser) parseDoWhile() ast.Statement {
	tok := p.advance() // 'do'
	body := p.parseStatement()
	if !p.curIsKeyword("while") {
		p.report(tok.Origin, "expected 'while' after 'do' body")
		return ast.NewWhileStatement(tok, nil, body, true)
	}
	p.advance() // 'while'
	p.expectOp("(")
	check := p.parseExprUpTo(false)
	p.expectOp(")")
	p.expectOp(";")
	return ast.NewWhileStatement(tok, check, body, true)
}

func (p *Parser) parseSwitch() ast.Statement {
	tok := p.advance() // 'switch'
	p.expectOp("(")
	cond := p.parseExprUpTo(false)
	p.expectOp(")")
	body := p.parseBlock()
	return ast.NewSwitchStatement(tok, cond, body)
}

func (p *Parser) parseCase() ast.Statement {
	tok := p.advance() // 'case'
	val := p.parseExprUpTo(false)
	p.expectOp(":")
	return ast.NewCaseStatement(tok, val)
}

func (p *Parser) parseDefault() ast.Statement {
	tok := p.advance() // 'default'
	p.expectOp(":")
	return ast.NewDefaultStatement(tok)
}
