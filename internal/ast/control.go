package ast

import (
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
)

// IfStatement is `if (cond) body`, optionally chained to an ElifStatement
// or ElseStatement via Next (nil if this is the final arm).
type IfStatement struct {
	baseStatement
	Cond Node
	Body Statement
	Next Statement // *ElifStatement, *ElseStatement, or nil
}

// Node is the narrow alias exprengine.Node is referenced under within this
// package, kept local so control-flow statement fields read naturally.
type Node = exprengine.Node

func NewIfStatement(tok token.Token, cond Node, body, next Statement) *IfStatement {
	return &IfStatement{baseStatement{Tok: tok}, cond, body, next}
}

func (s *IfStatement) Kind() Kind { return IfKind }
func (s *IfStatement) String() string {
	out := "if (" + s.Cond.String() + ") " + s.Body.String()
	if s.Next != nil {
		out += " " + s.Next.String()
	}
	return out
}
func (s *IfStatement) Clone() Statement {
	out := &IfStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Cond.Clone(), s.Body.Clone(), nil}
	if s.Next != nil {
		out.Next = s.Next.Clone()
	}
	return out
}

// ElifStatement is `else if (cond) body`, chained the same way as If.
type ElifStatement struct {
	baseStatement
	Cond Node
	Body Statement
	Next Statement
}

func NewElifStatement(tok token.Token, cond Node, body, next Statement) *ElifStatement {
	return &ElifStatement{baseStatement{Tok: tok}, cond, body, next}
}

func (s *ElifStatement) Kind() Kind { return ElifKind }
func (s *ElifStatement) String() string {
	out := "else if (" + s.Cond.String() + ") " + s.Body.String()
	if s.Next != nil {
		out += " " + s.Next.String()
	}
	return out
}
func (s *ElifStatement) Clone() Statement {
	out := &ElifStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Cond.Clone(), s.Body.Clone(), nil}
	if s.Next != nil {
		out.Next = s.Next.Clone()
	}
	return out
}

// ElseStatement is the terminal `else body` of an if-chain.
type ElseStatement struct {
	baseStatement
	Body Statement
}

func NewElseStatement(tok token.Token, body Statement) *ElseStatement {
	return &ElseStatement{baseStatement{Tok: tok}, body}
}

func (s *ElseStatement) Kind() Kind     { return ElseKind }
func (s *ElseStatement) String() string { return "else " + s.Body.String() }
func (s *ElseStatement) Clone() Statement {
	return &ElseStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Body.Clone()}
}

// ForStatement is `for (init; check; update) body`. Init is itself a
// Statement (a DeclarationStatement or ExpressionStatement) since OKL
// validation needs to inspect the declared iterator (spec.md §4.H rule 3).
type ForStatement struct {
	baseStatement
	Init   Statement
	Check  Node
	Update Node
	Body   Statement
}

func NewForStatement(tok token.Token, init Statement, check, update Node, body Statement) *ForStatement {
	return &ForStatement{baseStatement{Tok: tok}, init, check, update, body}
}

func (s *ForStatement) Kind() Kind { return ForKind }
func (s *ForStatement) String() string {
	init := ""
	if s.Init != nil {
		init = s.Init.String()
	}
	return "for (" + init + " " + nodeOrEmpty(s.Check) + "; " + nodeOrEmpty(s.Update) + ") " + s.Body.String()
}
func (s *ForStatement) Clone() Statement {
	out := &ForStatement{baseStatement: baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, Body: s.Body.Clone()}
	if s.Init != nil {
		out.Init = s.Init.Clone()
	}
	if s.Check != nil {
		out.Check = s.Check.Clone()
	}
	if s.Update != nil {
		out.Update = s.Update.Clone()
	}
	return out
}

func nodeOrEmpty(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// WhileStatement is `while (check) body` or, when IsDoWhile, `do body
// while (check);`.
type WhileStatement struct {
	baseStatement
	Check     Node
	Body      Statement
	IsDoWhile bool
}

func NewWhileStatement(tok token.Token, check Node, body Statement, isDoWhile bool) *WhileStatement {
	return &WhileStatement{baseStatement{Tok: tok}, check, body, isDoWhile}
}

func (s *WhileStatement) Kind() Kind { return WhileKind }
func (s *WhileStatement) String() string {
	if s.IsDoWhile {
		return "do " + s.Body.String() + " while (" + s.Check.String() + ");"
	}
	return "while (" + s.Check.String() + ") " + s.Body.String()
}
func (s *WhileStatement) Clone() Statement {
	return &WhileStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Check.Clone(), s.Body.Clone(), s.IsDoWhile}
}

// SwitchStatement is `switch (cond) { case/default labelled statements }`;
// the labels are CaseStatement/DefaultStatement children of Body.
type SwitchStatement struct {
	baseStatement
	Cond Node
	Body *BlockStatement
}

func NewSwitchStatement(tok token.Token, cond Node, body *BlockStatement) *SwitchStatement {
	return &SwitchStatement{baseStatement{Tok: tok}, cond, body}
}

func (s *SwitchStatement) Kind() Kind { return SwitchKind }
func (s *SwitchStatement) String() string {
	return "switch (" + s.Cond.String() + ") " + s.Body.String()
}
func (s *SwitchStatement) Clone() Statement {
	return &SwitchStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Cond.Clone(), s.Body.Clone().(*BlockStatement)}
}

// CaseStatement is a `case value:` label inside a switch body.
type CaseStatement struct {
	baseStatement
	Value Node
}

func NewCaseStatement(tok token.Token, value Node) *CaseStatement {
	return &CaseStatement{baseStatement{Tok: tok}, value}
}

func (s *CaseStatement) Kind() Kind     { return CaseKind }
func (s *CaseStatement) String() string { return "case " + s.Value.String() + ":" }
func (s *CaseStatement) Clone() Statement {
	return &CaseStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Value.Clone()}
}

// DefaultStatement is the `default:` label inside a switch body.
type DefaultStatement struct{ baseStatement }

func NewDefaultStatement(tok token.Token) *DefaultStatement {
	return &DefaultStatement{baseStatement{Tok: tok}}
}

func (s *DefaultStatement) Kind() Kind     { return DefaultKind }
func (s *DefaultStatement) String() string { return "default:" }
func (s *DefaultStatement) Clone() Statement {
	return &DefaultStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}}
}
