package preprocessor

import "github.com/occa-go/okl/internal/token"

// directiveDefine parses `#define NAME body` or `#define NAME(params) body`,
// per spec.md §4.B. A '(' immediately adjacent to the name (no intervening
// whitespace/comment, detected via byte offsets) makes it function-like;
// otherwise the '(' belongs to the body like any other token.
func (p *Preprocessor) directiveDefine(directiveOrigin token.FileOrigin) {
	nameTok := p.lex.NextToken()
	if nameTok.Kind != token.Identifier {
		p.reportErr(nameTok.Origin, "macro name must be an identifier")
		p.skipLine()
		return
	}

	m := &Macro{Name: nameTok.Text, ArgCount: -1, Origin: nameTok.Origin}

	mark := p.lex.Push()
	peek := p.lex.NextToken()
	adjacent := peek.Kind == token.Operator && peek.IsOp("(") &&
		peek.Origin.File == nameTok.Origin.File && peek.Origin.Offset == nameTok.Origin.Offset+len(nameTok.Text)
	if adjacent {
		p.parseMacroParams(m)
	} else {
		p.lex.Pop(mark, true)
	}

	m.Body = p.parseMacroBody(m)
	p.macros[nameTok.Text] = m
}

// parseMacroParams parses the parameter list of a function-like macro,
// the '(' already consumed. Supports a trailing bare `...` (bound to
// __VA_ARGS__ in the body) after zero or more named parameters.
func (p *Preprocessor) parseMacroParams(m *Macro) {
	for {
		tok := p.lex.NextToken()
		if tok.Kind == token.Operator && tok.IsOp(")") {
			break
		}
		if tok.Kind == token.Operator && tok.IsOp("...") {
			m.HasVarArgs = true
			closeTok := p.lex.NextToken()
			if !(closeTok.Kind == token.Operator && closeTok.IsOp(")")) {
				p.reportErr(closeTok.Origin, "expected ')' after '...' in macro parameter list")
			}
			break
		}
		if tok.Kind != token.Identifier {
			p.reportErr(tok.Origin, "expected a parameter name in macro parameter list, got %q", tok.String())
			continue
		}
		m.Params = append(m.Params, tok.Text)
		next := p.lex.NextToken()
		if next.Kind == token.Operator && next.IsOp(")") {
			break
		}
		if next.Kind == token.Operator && next.IsOp(",") {
			continue
		}
		p.reportErr(next.Origin, "expected ',' or ')' in macro parameter list, got %q", next.String())
		break
	}
	m.ArgCount = len(m.Params)
}

// parseMacroBody reads the replacement-list tokens to end of line, tagging
// any occurrence of a parameter name (or __VA_ARGS__, for a variadic
// macro) as an ArgRef piece instead of a literal token.
func (p *Preprocessor) parseMacroBody(m *Macro) []MacroPiece {
	paramIndex := make(map[string]int, len(m.Params))
	for i, name := range m.Params {
		paramIndex[name] = i
	}
	vaIndex := len(m.Params)

	var pieces []MacroPiece
	for {
		tok := p.lex.NextToken()
		if tok.Kind == token.Newline || tok.Kind == token.Eof {
			break
		}
		if tok.Kind == token.Identifier {
			if i, ok := paramIndex[tok.Text]; ok {
				pieces = append(pieces, MacroPiece{IsArg: true, ArgIndex: i})
				continue
			}
			if m.HasVarArgs && tok.Text == "__VA_ARGS__" {
				pieces = append(pieces, MacroPiece{IsArg: true, ArgIndex: vaIndex})
				continue
			}
		}
		pieces = append(pieces, MacroPiece{Tok: tok})
	}
	return pieces
}
