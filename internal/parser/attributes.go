package parser

import (
	"github.com/occa-go/okl/internal/attributes"
	"github.com/occa-go/okl/internal/token"
)

// parseAttributePrefix consumes zero or more `@name(args…)`/`@name` prefixes
// at the cursor, building an attribute instance for each via the registered
// kind's create hook (spec.md §4.G: "a prefix @name(args…) before a
// declaration/statement is parsed by creating an attribute instance via the
// registered kind's create(...)"). The caller attaches the result to
// whichever statement/declarator/variable follows.
func (p *Parser) parseAttributePrefix() []attributes.Attribute {
	var out []attributes.Attribute
	for p.curIsOp("@") {
		at := p.advance()
		if p.cur().Kind != token.Identifier {
			p.report(at.Origin, "expected attribute name after '@'")
			continue
		}
		nameTok := p.advance()
		var argRanges [][]token.Token
		if p.curIsOp("(") {
			argRanges = p.parseAttributeArgRanges()
		}
		a, ok := attributes.Create(nameTok.Text, nameTok, argRanges, p.sink)
		if ok {
			out = append(out, a)
		}
	}
	return out
}

// parseAttributeArgRanges consumes a `(...)` group at the cursor and splits
// its contents into comma-separated token ranges, tracking nested
// bracket/paren/brace depth so an argument like `f(a, b)` isn't split on its
// own inner comma.
func (p *Parser) parseAttributeArgRanges() [][]token.Token {
	openTok := p.advance() // '('
	var ranges [][]token.Token
	var cur []token.Token
	depth := 0
	for {
		if p.atEnd() {
			p.report(openTok.Origin, "unbalanced '(' in attribute arguments")
			break
		}
		tok := p.cur()
		if depth == 0 && tok.IsOp(")") {
			p.advance()
			break
		}
		if depth == 0 && tok.IsOp(",") {
			ranges = append(ranges, cur)
			cur = nil
			p.advance()
			continue
		}
		if tok.Kind == token.Operator && tok.Op != nil {
			switch tok.Op.Symbol {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		}
		cur = append(cur, tok)
		p.advance()
	}
	if len(cur) > 0 {
		ranges = append(ranges, cur)
	}
	return ranges
}
