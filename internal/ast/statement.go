// Package ast implements the statement model of spec.md §4.F: tagged
// Statement variants carrying a parent back-link, plus the lexical Scope
// chain each Block owns. Like internal/exprengine, variants are matched
// exhaustively by type switch rather than double-dispatched through a
// Visitor, per the "Polymorphism" design note (sum types over RTTI).
package ast

import (
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// Kind tags which Statement variant a value carries.
type Kind int

const (
	EmptyKind Kind = iota
	PragmaKind
	BlockKind
	NamespaceKind
	TypeDeclKind
	ClassAccessKind
	ExpressionKind
	DeclarationKind
	GotoKind
	GotoLabelKind
	IfKind
	ElifKind
	ElseKind
	ForKind
	WhileKind
	SwitchKind
	CaseKind
	DefaultKind
	ContinueKind
	BreakKind
	ReturnKind
	AttributeStatementKind
	FunctionDeclKind
)

// Statement is the interface every statement variant satisfies. parent is
// set by whichever Block absorbs the statement as a child (spec.md §3's
// cyclic-AST-links note: the child never sets its own parent).
type Statement interface {
	Kind() Kind
	Token() token.Token
	Parent() Statement
	setParent(Statement)
	Attributes() []types.Attribute
	AddAttribute(types.Attribute)
	Clone() Statement
	String() string
}

type baseStatement struct {
	Tok        token.Token
	ParentStmt Statement
	Attrs      []types.Attribute
}

func (b *baseStatement) Token() token.Token            { return b.Tok }
func (b *baseStatement) Parent() Statement             { return b.ParentStmt }
func (b *baseStatement) setParent(p Statement)         { b.ParentStmt = p }
func (b *baseStatement) Attributes() []types.Attribute { return b.Attrs }
func (b *baseStatement) AddAttribute(a types.Attribute) {
	b.Attrs = append(b.Attrs, a)
}

func cloneAttrs(in []types.Attribute) []types.Attribute {
	return append([]types.Attribute{}, in...)
}

// Reparent sets child's parent to parent. Exposed for internal/transform,
// which rewrites a singular statement-valued field in place (e.g. a
// ForStatement's Body or Init) and must keep Parent() correct afterward,
// the same way BlockStatement.Add/SetChildren do for block children.
func Reparent(child, parent Statement) {
	if child != nil {
		child.setParent(parent)
	}
}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ baseStatement }

func NewEmptyStatement(tok token.Token) *EmptyStatement {
	return &EmptyStatement{baseStatement{Tok: tok}}
}

func (s *EmptyStatement) Kind() Kind     { return EmptyKind }
func (s *EmptyStatement) String() string { return ";" }
func (s *EmptyStatement) Clone() Statement {
	return &EmptyStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}}
}

// PragmaStatement carries a `#pragma` line through to backend emission
// verbatim.
type PragmaStatement struct {
	baseStatement
	Text string
}

func NewPragmaStatement(tok token.Token, text string) *PragmaStatement {
	return &PragmaStatement{baseStatement{Tok: tok}, text}
}

func (s *PragmaStatement) Kind() Kind     { return PragmaKind }
func (s *PragmaStatement) String() string { return "#pragma " + s.Text }
func (s *PragmaStatement) Clone() Statement {
	return &PragmaStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Text}
}

// ClassAccessStatement is a bare `public:`/`private:`/`protected:` label
// inside a class body.
type ClassAccessStatement struct {
	baseStatement
	Access string
}

func NewClassAccessStatement(tok token.Token, access string) *ClassAccessStatement {
	return &ClassAccessStatement{baseStatement{Tok: tok}, access}
}

func (s *ClassAccessStatement) Kind() Kind     { return ClassAccessKind }
func (s *ClassAccessStatement) String() string { return s.Access + ":" }
func (s *ClassAccessStatement) Clone() Statement {
	return &ClassAccessStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Access}
}

// ExpressionStatement is `expr;`.
type ExpressionStatement struct {
	baseStatement
	Expr exprengine.Node
}

func NewExpressionStatement(tok token.Token, expr exprengine.Node) *ExpressionStatement {
	return &ExpressionStatement{baseStatement{Tok: tok}, expr}
}

func (s *ExpressionStatement) Kind() Kind     { return ExpressionKind }
func (s *ExpressionStatement) String() string { return s.Expr.String() + ";" }
func (s *ExpressionStatement) Clone() Statement {
	return &ExpressionStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Expr.Clone()}
}

// GotoStatement is `goto label;`.
type GotoStatement struct {
	baseStatement
	Label string
}

func NewGotoStatement(tok token.Token, label string) *GotoStatement {
	return &GotoStatement{baseStatement{Tok: tok}, label}
}

func (s *GotoStatement) Kind() Kind     { return GotoKind }
func (s *GotoStatement) String() string { return "goto " + s.Label + ";" }
func (s *GotoStatement) Clone() Statement {
	return &GotoStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Label}
}

// GotoLabelStatement is `label:`.
type GotoLabelStatement struct {
	baseStatement
	Label string
}

func NewGotoLabelStatement(tok token.Token, label string) *GotoLabelStatement {
	return &GotoLabelStatement{baseStatement{Tok: tok}, label}
}

func (s *GotoLabelStatement) Kind() Kind     { return GotoLabelKind }
func (s *GotoLabelStatement) String() string { return s.Label + ":" }
func (s *GotoLabelStatement) Clone() Statement {
	return &GotoLabelStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Label}
}

// ContinueStatement is `continue;`.
type ContinueStatement struct{ baseStatement }

func NewContinueStatement(tok token.Token) *ContinueStatement {
	return &ContinueStatement{baseStatement{Tok: tok}}
}

func (s *ContinueStatement) Kind() Kind     { return ContinueKind }
func (s *ContinueStatement) String() string { return "continue;" }
func (s *ContinueStatement) Clone() Statement {
	return &ContinueStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}}
}

// BreakStatement is `break;`.
type BreakStatement struct{ baseStatement }

func NewBreakStatement(tok token.Token) *BreakStatement {
	return &BreakStatement{baseStatement{Tok: tok}}
}

func (s *BreakStatement) Kind() Kind     { return BreakKind }
func (s *BreakStatement) String() string { return "break;" }
func (s *BreakStatement) Clone() Statement {
	return &BreakStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}}
}

// ReturnStatement is `return;` or `return value;`.
type ReturnStatement struct {
	baseStatement
	Value exprengine.Node // nil for a bare `return;`
}

func NewReturnStatement(tok token.Token, value exprengine.Node) *ReturnStatement {
	return &ReturnStatement{baseStatement{Tok: tok}, value}
}

func (s *ReturnStatement) Kind() Kind { return ReturnKind }
func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
func (s *ReturnStatement) Clone() Statement {
	var v exprengine.Node
	if s.Value != nil {
		v = s.Value.Clone()
	}
	return &ReturnStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, v}
}

// AttributeStatement is a standalone `@attr(...);` that was not attached to
// a following declaration (e.g. a namespace-scoped pragma-like attribute).
type AttributeStatement struct {
	baseStatement
	Attr types.Attribute
}

func NewAttributeStatement(tok token.Token, attr types.Attribute) *AttributeStatement {
	return &AttributeStatement{baseStatement{Tok: tok}, attr}
}

func (s *AttributeStatement) Kind() Kind { return AttributeStatementKind }
func (s *AttributeStatement) String() string {
	return "@" + s.Attr.AttributeName() + ";"
}
func (s *AttributeStatement) Clone() Statement {
	return &AttributeStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Attr}
}
