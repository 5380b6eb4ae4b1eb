package lexer

import (
	"strings"

	"github.com/occa-go/okl/internal/diagnostics"
	"github.com/occa-go/okl/internal/token"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || (c >= '0' && c <= '9') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// NextToken returns the next lexical token. At end of input with a
// non-empty include stack it pops to the enclosing source and synthesizes
// a Newline, per spec.md §4.A; at true end of input it returns Eof.
// Unrecognised input is diagnosed and silently skipped so a well-formed
// token is always eventually returned.
func (l *Lexer) NextToken() token.Token {
	for {
		l.skipSpacesAndComments()

		if l.atEOF() {
			if len(l.stack) > 1 {
				origin := l.currentOrigin()
				l.stack = l.stack[:len(l.stack)-1]
				l.preprocessorLineStart = true
				return token.Token{Kind: token.Newline, Origin: origin}
			}
			return token.Token{Kind: token.Eof, Origin: l.currentOrigin()}
		}

		origin := l.currentOrigin()
		c := l.cur()
		wasLineStart := l.preprocessorLineStart
		if c != ' ' && c != '\t' {
			l.preprocessorLineStart = false
		}

		switch {
		case c == '\n':
			l.advance()
			l.preprocessorLineStart = true
			return token.Token{Kind: token.Newline, Origin: origin}
		case l.headerNameContext && (c == '<' || c == '"'):
			l.headerNameContext = false
			return l.scanHeaderName(origin)
		case c == '#' && wasLineStart:
			l.advance()
			return token.Token{Kind: token.Operator, Origin: origin, Op: token.Lookup("#")}
		case isIdentStart(c):
			return l.scanIdentifierOrPrefixedLiteral(origin)
		case isDigit(c):
			return l.scanNumber(origin)
		case c == '.' && isDigit(l.peekByte(1)):
			return l.scanNumber(origin)
		case c == '\'':
			return l.scanChar(origin, "")
		case c == '"':
			return l.scanString(origin, "")
		default:
			if op, n := token.DefaultTrie().LongestMatch(l.remainder(), 0); op != nil {
				for i := 0; i < n; i++ {
					l.advance()
				}
				return token.Token{Kind: token.Operator, Origin: origin, Op: op}
			}
			l.report(diagnostics.CodeLex, origin, "unrecognised character %q", string(c))
			l.advance()
			continue
		}
	}
}

// remainder exposes the unread text of the current frame so the operator
// trie can match against it without copying on every call site.
func (l *Lexer) remainder() string {
	f := l.top()
	return f.text[f.pos:]
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		c := l.cur()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			for !l.atEOF() && l.cur() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByte(1) == '*':
			origin := l.currentOrigin()
			l.advance()
			l.advance()
			closed := false
			for !l.atEOF() {
				if l.cur() == '*' && l.peekByte(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.report(diagnostics.CodeLex, origin, "unterminated block comment")
			}
		default:
			// Step over any line continuation ahead of the next token so
			// its origin reports the line its first character is on.
			f := l.top()
			for next := l.skipSplices(f.pos); f.pos < next; f.pos++ {
				if f.text[f.pos] == '\n' {
					f.line++
					f.lineStart = f.pos + 1
				}
			}
			return
		}
	}
}

// scanIdentifierOrPrefixedLiteral handles plain identifiers as well as the
// encoding-prefixed character/string literals (u8"...", u"...", U"...",
// L"...", R"delim(...)delim").
func (l *Lexer) scanIdentifierOrPrefixedLiteral(origin token.FileOrigin) token.Token {
	start := l.top().pos
	for isIdentPart(l.cur()) {
		l.advance()
	}
	text := l.top().text[start:l.top().pos]

	switch text {
	case "u8", "u", "U", "L", "R":
		if l.cur() == '"' {
			l.advance()
			if text == "R" {
				return l.scanRawString(origin)
			}
			return l.scanString(origin, text)
		}
		if l.cur() == '\'' && text != "R" {
			l.advance()
			return l.scanChar(origin, text)
		}
	}
	return token.Token{Kind: token.Identifier, Origin: origin, Text: text}
}

func (l *Lexer) scanNumber(origin token.FileOrigin) token.Token {
	start := l.top().pos
	isFloat := false

	if l.cur() == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.cur()) {
			l.advance()
		}
	} else if l.cur() == '0' && (l.peekByte(1) == 'b' || l.peekByte(1) == 'B') {
		l.advance()
		l.advance()
		for l.cur() == '0' || l.cur() == '1' {
			l.advance()
		}
	} else {
		for isDigit(l.cur()) {
			l.advance()
		}
		if l.cur() == '.' {
			isFloat = true
			l.advance()
			for isDigit(l.cur()) {
				l.advance()
			}
		}
		if l.cur() == 'e' || l.cur() == 'E' {
			isFloat = true
			l.advance()
			if l.cur() == '+' || l.cur() == '-' {
				l.advance()
			}
			for isDigit(l.cur()) {
				l.advance()
			}
		}
	}

	width := token.WidthDefault
	unsigned := false
	for {
		switch l.cur() {
		case 'u', 'U':
			unsigned = true
			l.advance()
			continue
		case 'l':
			if l.peekByte(1) == 'l' {
				width = token.WidthLongLong
				l.advance()
				l.advance()
			} else {
				width = token.WidthLong
				l.advance()
			}
			continue
		case 'L':
			if l.peekByte(1) == 'L' {
				width = token.WidthLongLong
				l.advance()
				l.advance()
			} else {
				width = token.WidthLong
				l.advance()
			}
			continue
		case 'f', 'F':
			isFloat = true
			width = token.WidthFloat
			l.advance()
			continue
		}
		break
	}
	if isFloat && width == token.WidthDefault {
		width = token.WidthDouble
	}

	text := l.top().text[start:l.top().pos]
	return token.Token{
		Kind: token.Primitive, Origin: origin, NumberText: text,
		NumberWidth: width, IsUnsigned: unsigned, IsFloat: isFloat,
	}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *Lexer) scanChar(origin token.FileOrigin, encoding string) token.Token {
	var b strings.Builder
	for !l.atEOF() && l.cur() != '\'' {
		if l.cur() == '\\' {
			l.scanEscape(&b)
			continue
		}
		if l.cur() == '\n' {
			break
		}
		c, _ := l.advance()
		b.WriteByte(c)
	}
	if l.cur() != '\'' {
		l.report(diagnostics.CodeLex, origin, "unterminated character literal")
		return token.Token{Kind: token.CharLit, Origin: origin, Encoding: encoding, Raw: b.String()}
	}
	l.advance()
	suffix := l.scanUserDefinedSuffix()
	return token.Token{Kind: token.CharLit, Origin: origin, Encoding: encoding, Raw: b.String(), UserQuote: suffix}
}

func (l *Lexer) scanString(origin token.FileOrigin, encoding string) token.Token {
	var b strings.Builder
	for !l.atEOF() && l.cur() != '"' {
		if l.cur() == '\\' {
			l.scanEscape(&b)
			continue
		}
		if l.cur() == '\n' {
			break
		}
		c, _ := l.advance()
		b.WriteByte(c)
	}
	if l.cur() != '"' {
		l.report(diagnostics.CodeLex, origin, "unterminated string literal")
		return token.Token{Kind: token.StringLit, Origin: origin, Encoding: encoding, Raw: b.String()}
	}
	l.advance()
	suffix := l.scanUserDefinedSuffix()
	return token.Token{Kind: token.StringLit, Origin: origin, Encoding: encoding, Raw: b.String(), UserQuote: suffix}
}

// scanRawString handles R"delim(...)delim" raw strings, echoing the
// delimiter to find the matching close sequence per spec.md §4.A.
func (l *Lexer) scanRawString(origin token.FileOrigin) token.Token {
	var delim strings.Builder
	for !l.atEOF() && l.cur() != '(' {
		c, _ := l.advance()
		delim.WriteByte(c)
	}
	if l.cur() == '(' {
		l.advance()
	}
	closeSeq := ")" + delim.String() + "\""
	var b strings.Builder
	for !l.atEOF() {
		if strings.HasPrefix(l.remainder(), closeSeq) {
			for i := 0; i < len(closeSeq); i++ {
				l.advance()
			}
			return token.Token{Kind: token.StringLit, Origin: origin, Encoding: "R", Raw: b.String(), UserQuote: delim.String()}
		}
		c, _ := l.advance()
		b.WriteByte(c)
	}
	l.report(diagnostics.CodeLex, origin, "unterminated raw string literal")
	return token.Token{Kind: token.StringLit, Origin: origin, Encoding: "R", Raw: b.String()}
}

func (l *Lexer) scanEscape(b *strings.Builder) {
	b.WriteByte('\\')
	l.advance()
	if l.atEOF() {
		return
	}
	c, _ := l.advance()
	b.WriteByte(c)
}

// scanUserDefinedSuffix consumes a trailing identifier suffix on a
// char/string literal (e.g. "..."_foo), per spec.md's CharLit/StringLit
// user-defined-suffix field.
func (l *Lexer) scanUserDefinedSuffix() string {
	if !isIdentStart(l.cur()) {
		return ""
	}
	start := l.top().pos
	for isIdentPart(l.cur()) {
		l.advance()
	}
	return l.top().text[start:l.top().pos]
}

// scanHeaderName lexes a `#include` target, <system> or "local".
func (l *Lexer) scanHeaderName(origin token.FileOrigin) token.Token {
	system := l.cur() == '<'
	closeCh := byte('>')
	if !system {
		closeCh = '"'
	}
	l.advance()
	start := l.top().pos
	for !l.atEOF() && l.cur() != closeCh && l.cur() != '\n' {
		l.advance()
	}
	text := l.top().text[start:l.top().pos]
	if l.cur() != closeCh {
		l.report(diagnostics.CodeLex, origin, "unterminated header name")
	} else {
		l.advance()
	}
	return token.Token{Kind: token.HeaderName, Origin: origin, Text: text, System: system}
}
