package exprengine

import (
	"math/big"
	"strings"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
)

// TypeNamer answers whether name currently denotes a type in scope; the
// engine consults it to disambiguate a parenthesized cast from a grouped
// expression and a functional cast from an ordinary call, per spec.md
// §4.D/§4.E's interplay between the expression and type parsers.
type TypeNamer func(name string) bool

// Engine parses one token slice into an exprNode tree using a
// precedence-climbing realization of the shunting-yard algorithm:
// operators are looked up by reference in the immutable token.Operator
// table (spec.md's "Dynamic operator dispatch" design note), and pair
// tokens ( () [] {} ) are reduced by recursive descent into Parentheses /
// Subscript / Call / Tuple nodes rather than an explicit operator stack,
// which is the standard way this algorithm is realized in a recursive
// descent host parser.
type Engine struct {
	toks   []token.Token
	pos    int
	isType TypeNamer
	sink   diagnostics.Sink
}

// New creates an Engine over toks (already macro-expanded and stream
// transformed). isType may be nil, in which case no parenthesized or
// functional cast is ever recognised (every `(ident)` is a grouped
// expression).
func New(toks []token.Token, isType TypeNamer, sink diagnostics.Sink) *Engine {
	if isType == nil {
		isType = func(string) bool { return false }
	}
	return &Engine{toks: toks, isType: isType, sink: sink}
}

func (e *Engine) cur() token.Token {
	if e.pos >= len(e.toks) {
		return token.Token{Kind: token.Eof}
	}
	return e.toks[e.pos]
}

func (e *Engine) peek(n int) token.Token {
	i := e.pos + n
	if i >= len(e.toks) {
		return token.Token{Kind: token.Eof}
	}
	return e.toks[i]
}

func (e *Engine) advance() token.Token {
	t := e.cur()
	if e.pos < len(e.toks) {
		e.pos++
	}
	return t
}

func (e *Engine) atEnd() bool {
	return e.pos >= len(e.toks) || e.cur().Kind == token.Eof
}

// Pos reports how many tokens of the slice passed to New have been
// consumed, so a caller parsing a larger token stream (e.g. internal/parser
// carving one statement's worth of tokens out of the file) can resume
// exactly where the engine stopped.
func (e *Engine) Pos() int { return e.pos }

func (e *Engine) report(origin token.FileOrigin, format string, args ...interface{}) {
	if e.sink != nil {
		e.sink.Report(diagnostics.New(diagnostics.CodeParse, origin, format, args...))
	}
}

// Parse consumes the whole token slice as one comma expression. Use
// ParseNoComma for contexts (e.g. a function argument, a for-loop clause)
// where a bare comma is a separator rather than the comma operator.
func (e *Engine) Parse() Node { return e.parseComma() }

// ParseNoComma parses a single assignment-level expression without
// consuming a top-level comma operator.
func (e *Engine) ParseNoComma() Node { return e.parseAssignment() }

func (e *Engine) parseComma() Node {
	left := e.parseAssignment()
	for e.cur().IsOp(",") {
		tok := e.advance()
		right := e.parseAssignment()
		left = &BinaryNode{baseNode{tok}, tok.Op, left, right}
	}
	return left
}

func (e *Engine) parseAssignment() Node {
	left := e.parseTernary()
	op := e.cur()
	if op.Kind == token.Operator && op.Op.Is(token.Assignment) {
		e.advance()
		right := e.parseAssignment() // right-to-left
		left = &BinaryNode{baseNode{op}, op.Op, left, right}
	}
	return left
}

func (e *Engine) parseTernary() Node {
	cond := e.parseBinary(1)
	if e.cur().IsOp("?") {
		qTok := e.advance()
		then := e.parseAssignment()
		if !e.cur().IsOp(":") {
			e.report(qTok.Origin, "expected ':' in ternary expression")
			return &TernaryNode{baseNode{qTok}, cond, then, &EmptyNode{baseNode{qTok}}}
		}
		e.advance()
		els := e.parseAssignment() // right-to-left chains naturally via recursion
		return &TernaryNode{baseNode{qTok}, cond, then, els}
	}
	return cond
}

// parseBinary climbs strictly-binary operators at or above minPrec.
// Assignment/ternary/comma are excluded and handled by their own callers;
// Punctuation-category binary operators (., ->, ::) are handled in
// parsePostfix instead.
func (e *Engine) parseBinary(minPrec int) Node {
	left := e.parseUnary()
	for {
		tok := e.cur()
		if tok.Kind != token.Operator || tok.Op == nil {
			break
		}
		op := tok.Op
		if !op.Is(token.Binary) || op.Is(token.Punctuation) || op.Is(token.Assignment) || op.Is(token.Ternary) || op.Symbol == "," {
			break
		}
		if op.Precedence < minPrec {
			break
		}
		e.advance()
		nextMin := op.Precedence + 1
		if op.Assoc == token.RightToLeft {
			nextMin = op.Precedence
		}
		right := e.parseBinary(nextMin)
		left = &BinaryNode{baseNode{tok}, op, left, right}
	}
	return left
}

func (e *Engine) parseUnary() Node {
	tok := e.cur()

	if tok.Kind == token.Identifier {
		switch tok.Text {
		case "new":
			return e.parseNew()
		case "delete":
			return e.parseDelete()
		case "throw":
			e.advance()
			return &ThrowNode{baseNode{tok}, e.parseAssignment()}
		case "sizeof":
			return e.parseSizeof()
		case "static_cast", "dynamic_cast", "reinterpret_cast", "const_cast":
			return e.parseNamedCast(tok.Text)
		}
	}

	if tok.Kind == token.Operator && tok.Op != nil && tok.Op.Is(token.UnaryLeft) {
		switch tok.Op.Symbol {
		case "+", "-", "!", "~", "++", "--", "*", "&":
			e.advance()
			child := e.parseUnary()
			return &LeftUnaryNode{baseNode{tok}, tok.Op, child}
		}
	}

	return e.parsePostfix()
}

func (e *Engine) parseSizeof() Node {
	tok := e.advance() // 'sizeof'
	if e.cur().IsOp("(") {
		// sizeof(Type) or sizeof(expr) share this same parenthesized
		// form; the distinction only matters to the caller that resolves
		// type names, so we keep whichever parsePrimary builds.
		inner := e.parsePostfix()
		return &SizeofNode{baseNode{tok}, inner}
	}
	return &SizeofNode{baseNode{tok}, e.parseUnary()}
}

func (e *Engine) parseNew() Node {
	tok := e.advance() // 'new'
	typeName := ""
	if e.cur().Kind == token.Identifier {
		typeName = e.advance().Text
	}
	n := &NewNode{baseNode: baseNode{tok}, TypeName: typeName}
	if e.cur().IsOp("[") {
		e.advance()
		n.Size = e.parseComma()
		if e.cur().IsOp("]") {
			e.advance()
		}
	} else if e.cur().IsOp("(") {
		e.advance()
		if !e.cur().IsOp(")") {
			n.Init = e.parseComma()
		}
		if e.cur().IsOp(")") {
			e.advance()
		}
	}
	return n
}

func (e *Engine) parseDelete() Node {
	tok := e.advance() // 'delete'
	isArray := false
	if e.cur().IsOp("[") {
		e.advance()
		if e.cur().IsOp("]") {
			e.advance()
		}
		isArray = true
	}
	return &DeleteNode{baseNode{tok}, isArray, e.parseUnary()}
}

func (e *Engine) parseNamedCast(name string) Node {
	tok := e.advance()
	var form CastForm
	switch name {
	case "const_cast":
		form = ConstCast
	case "static_cast":
		form = StaticCast
	case "reinterpret_cast":
		form = ReinterpretCast
	case "dynamic_cast":
		form = DynamicCast
	}
	typeName := ""
	if e.cur().IsOp("<") {
		e.advance()
		if e.cur().Kind == token.Identifier {
			typeName = e.advance().Text
		}
		for !e.cur().IsOp(">") && !e.atEnd() {
			e.advance()
		}
		if e.cur().IsOp(">") {
			e.advance()
		}
	}
	var child Node = &EmptyNode{baseNode{tok}}
	if e.cur().IsOp("(") {
		e.advance()
		child = e.parseComma()
		if e.cur().IsOp(")") {
			e.advance()
		}
	}
	return &CastNode{baseNode{tok}, form, typeName, child}
}

func (e *Engine) parsePostfix() Node {
	base := e.parsePrimary()
	for {
		tok := e.cur()
		switch {
		case tok.IsOp("["):
			e.advance()
			index := e.parseComma()
			if e.cur().IsOp("]") {
				e.advance()
			} else {
				e.report(tok.Origin, "unbalanced '['")
			}
			base = &SubscriptNode{baseNode{tok}, base, index}
		case tok.IsOp("("):
			e.advance()
			var args []Node
			if !e.cur().IsOp(")") {
				args = append(args, e.parseAssignment())
				for e.cur().IsOp(",") {
					e.advance()
					args = append(args, e.parseAssignment())
				}
			}
			if e.cur().IsOp(")") {
				e.advance()
			} else {
				e.report(tok.Origin, "unbalanced '('")
			}
			base = &CallNode{baseNode{tok}, base, args}
		case tok.IsOp(".") || tok.IsOp("->") || tok.IsOp("::"):
			op := e.advance()
			var member Node
			if e.cur().Kind == token.Identifier {
				idTok := e.advance()
				member = &IdentifierNode{baseNode{idTok}, idTok.Text}
			} else {
				member = &EmptyNode{baseNode{op}}
				e.report(op.Origin, "expected identifier after %q", op.Op.Symbol)
			}
			base = &BinaryNode{baseNode{op}, op.Op, base, member}
		case tok.IsOp("++") || tok.IsOp("--"):
			e.advance()
			base = &RightUnaryNode{baseNode{tok}, tok.Op, base}
		case tok.IsOp("<<<"):
			e.advance()
			blocks := e.parseAssignment()
			if e.cur().IsOp(",") {
				e.advance()
			}
			threads := e.parseAssignment()
			if e.cur().IsOp(">>>") {
				e.advance()
			}
			base = &CudaCallNode{baseNode{tok}, base, blocks, threads}
		default:
			return base
		}
	}
}

func (e *Engine) parsePrimary() Node {
	tok := e.cur()
	switch tok.Kind {
	case token.Primitive:
		e.advance()
		return &PrimitiveNode{baseNode{tok}, parsePrimitiveValue(tok)}
	case token.CharLit:
		e.advance()
		return &CharNode{baseNode{tok}, tok.Encoding, tok.Raw}
	case token.StringLit:
		e.advance()
		return &StringNode{baseNode{tok}, tok.Encoding, tok.Raw}
	case token.Identifier:
		// functional cast: TypeName(args) where TypeName is a registered
		// type and this is not itself the start of a declaration.
		if e.isType(tok.Text) && e.peek(1).IsOp("(") {
			e.advance()
			openTok := e.advance() // '('
			var child Node = &EmptyNode{baseNode{openTok}}
			if !e.cur().IsOp(")") {
				child = e.parseComma()
			}
			if e.cur().IsOp(")") {
				e.advance()
			}
			return &CastNode{baseNode{tok}, FuncCast, tok.Text, child}
		}
		e.advance()
		return &IdentifierNode{baseNode{tok}, tok.Text}
	case token.Operator:
		if tok.IsOp("(") {
			// cast vs. grouped expression: `(Type)` immediately followed
			// by an operand is a ParenCast; anything else is grouping.
			if e.peek(1).Kind == token.Identifier && e.isType(e.peek(1).Text) && e.peek(2).IsOp(")") {
				e.advance() // '('
				typeTok := e.advance()
				e.advance() // ')'
				child := e.parseUnary()
				return &CastNode{baseNode{tok}, ParenCast, typeTok.Text, child}
			}
			e.advance()
			inner := e.parseComma()
			if e.cur().IsOp(")") {
				e.advance()
			} else {
				e.report(tok.Origin, "unbalanced '('")
			}
			return &ParenthesesNode{baseNode{tok}, inner}
		}
		if tok.IsOp("{") {
			e.advance()
			var args []Node
			if !e.cur().IsOp("}") {
				args = append(args, e.parseAssignment())
				for e.cur().IsOp(",") {
					e.advance()
					args = append(args, e.parseAssignment())
				}
			}
			if e.cur().IsOp("}") {
				e.advance()
			} else {
				e.report(tok.Origin, "unbalanced '{'")
			}
			return &TupleNode{baseNode{tok}, args}
		}
	}
	if tok.Kind != token.Eof {
		e.report(tok.Origin, "unexpected token %q in expression", tok.String())
		e.advance()
	}
	return &EmptyNode{baseNode{tok}}
}

// parsePrimitiveValue converts a scanned numeric literal into a Value,
// following integer/float promotion per spec.md §4.D. Hex/octal/binary
// prefixes and width suffixes were already classified by the lexer.
func parsePrimitiveValue(tok token.Token) Value {
	text := tok.NumberText
	if tok.IsFloat {
		f := parseFloatLiteral(text)
		return Value{IsFloat: true, Float: f, Width: tok.NumberWidth}
	}
	i := parseIntLiteral(text)
	return Value{Int: i, Width: tok.NumberWidth, Unsigned: tok.IsUnsigned}
}

func parseIntLiteral(text string) *big.Int {
	digits := stripIntSuffix(text)
	i := new(big.Int)
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		i.SetString(digits[2:], 16)
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		i.SetString(digits[2:], 2)
	case len(digits) > 1 && digits[0] == '0':
		i.SetString(digits[1:], 8)
	default:
		i.SetString(digits, 10)
	}
	return i
}

func stripIntSuffix(text string) string {
	end := len(text)
	for end > 0 {
		c := text[end-1]
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' {
			end--
			continue
		}
		break
	}
	if end == 0 {
		return text
	}
	return text[:end]
}

func parseFloatLiteral(text string) float64 {
	end := len(text)
	for end > 0 && (text[end-1] == 'f' || text[end-1] == 'F' || text[end-1] == 'l' || text[end-1] == 'L') {
		end--
	}
	bf, _, err := big.ParseFloat(text[:end], 10, 64, big.ToNearestEven)
	if err != nil {
		return 0
	}
	f, _ := bf.Float64()
	return f
}
