package ast

import (
	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// VariableDeclarator is one `name = init` (or bare `name`) entry of a
// Declaration statement's comma-separated declarator list.
type VariableDeclarator struct {
	Variable *types.Variable
	Init     exprengine.Node // nil if no initializer
}

func (d *VariableDeclarator) String() string {
	if d.Init == nil {
		return d.Variable.String()
	}
	return d.Variable.String() + " = " + d.Init.String()
}

func (d *VariableDeclarator) Clone() *VariableDeclarator {
	out := &VariableDeclarator{Variable: d.Variable.Clone()}
	if d.Init != nil {
		out.Init = d.Init.Clone()
	}
	return out
}

// DeclarationStatement is `type decl1, decl2 = init, ...;`.
type DeclarationStatement struct {
	baseStatement
	Decls []*VariableDeclarator
}

func NewDeclarationStatement(tok token.Token, decls []*VariableDeclarator) *DeclarationStatement {
	return &DeclarationStatement{baseStatement{Tok: tok}, decls}
}

func (s *DeclarationStatement) Kind() Kind { return DeclarationKind }
func (s *DeclarationStatement) String() string {
	out := ""
	for i, d := range s.Decls {
		if i > 0 {
			out += ", "
		}
		out += d.String()
	}
	return out + ";"
}
func (s *DeclarationStatement) Clone() Statement {
	decls := make([]*VariableDeclarator, len(s.Decls))
	for i, d := range s.Decls {
		decls[i] = d.Clone()
	}
	return &DeclarationStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, decls}
}

// TypeDeclStatement declares or defines a named type: a class/struct/union
// body, an enum, or a `typedef`.
type TypeDeclStatement struct {
	baseStatement
	TypeName  string
	Base      types.BaseType
	IsTypedef bool
}

func NewTypeDeclStatement(tok token.Token, typeName string, base types.BaseType, isTypedef bool) *TypeDeclStatement {
	return &TypeDeclStatement{baseStatement{Tok: tok}, typeName, base, isTypedef}
}

func (s *TypeDeclStatement) Kind() Kind { return TypeDeclKind }
func (s *TypeDeclStatement) String() string {
	if s.IsTypedef {
		return "typedef " + s.Base.String() + " " + s.TypeName + ";"
	}
	return s.Base.String() + ";"
}
func (s *TypeDeclStatement) Clone() Statement {
	return &TypeDeclStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.TypeName, s.Base, s.IsTypedef}
}

// FunctionDeclStatement is `returnType name(args) { body }` (Body nil for a
// forward declaration ending in `;`).
type FunctionDeclStatement struct {
	baseStatement
	Function *types.Function
	Body     *BlockStatement
}

func NewFunctionDeclStatement(tok token.Token, fn *types.Function, body *BlockStatement) *FunctionDeclStatement {
	return &FunctionDeclStatement{baseStatement{Tok: tok}, fn, body}
}

func (s *FunctionDeclStatement) Kind() Kind { return FunctionDeclKind }
func (s *FunctionDeclStatement) String() string {
	if s.Body == nil {
		return s.Function.String() + ";"
	}
	return s.Function.String() + " " + s.Body.String()
}
func (s *FunctionDeclStatement) Clone() Statement {
	out := &FunctionDeclStatement{baseStatement{Tok: s.Tok, Attrs: cloneAttrs(s.Attrs)}, s.Function, nil}
	if s.Body != nil {
		out.Body = s.Body.Clone().(*BlockStatement)
	}
	return out
}
