package ast

import "github.com/occa-go/okl/internal/token"

// BlockStatement is `{ stmt* }`: it owns a Scope and a list of children,
// each with parent set to this block (spec.md §3 "cyclic AST links" —
// parent is an owning-by-index back edge, not a separate allocation).
type BlockStatement struct {
	baseStatement
	Scope    *Scope
	Children []Statement
}

// NewBlock creates an empty block whose scope chains to parentScope (nil
// for the root translation unit).
func NewBlock(parentScope *Scope) *BlockStatement {
	return &BlockStatement{Scope: NewScope(parentScope)}
}

func (s *BlockStatement) Kind() Kind { return BlockKind }

// Add appends child, setting its parent to s.
func (s *BlockStatement) Add(child Statement) {
	child.setParent(s)
	s.Children = append(s.Children, child)
}

// SetChildren replaces s's children wholesale, reparenting each to s. Used
// by internal/transform to rewrite a block's contents in place (inserting,
// dropping, or replacing statements) without reaching through setParent.
func (s *BlockStatement) SetChildren(children []Statement) {
	for _, c := range children {
		c.setParent(s)
	}
	s.Children = children
}

func (s *BlockStatement) String() string {
	out := "{\n"
	for _, c := range s.Children {
		out += c.String() + "\n"
	}
	return out + "}"
}

func (s *BlockStatement) Clone() Statement {
	out := &BlockStatement{
		baseStatement: baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)},
		Scope:         NewScope(nil), // rebuilt by the caller; scopes aren't deep-cloned
	}
	for _, c := range s.Children {
		out.Add(c.Clone())
	}
	return out
}

// NamespaceStatement is `namespace name { ... }`.
type NamespaceStatement struct {
	baseStatement
	Name string
	Body *BlockStatement
}

func NewNamespaceStatement(tok token.Token, name string, body *BlockStatement) *NamespaceStatement {
	return &NamespaceStatement{baseStatement{Tok: tok}, name, body}
}

func (s *NamespaceStatement) Kind() Kind { return NamespaceKind }
func (s *NamespaceStatement) String() string {
	return "namespace " + s.Name + " " + s.Body.String()
}
func (s *NamespaceStatement) Clone() Statement {
	return &NamespaceStatement{
		baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)},
		s.Name,
		s.Body.Clone().(*BlockStatement),
	}
}
