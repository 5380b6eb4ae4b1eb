package types

import "github.com/occa-go/okl/internal/token"

// Attribute is the narrow view types needs of an attribute attached to a
// Variable or Function — enough to print and to look up by name during
// equality/cloning, without importing internal/attributes (which in turn
// needs Variable/Function to implement onUse hooks). internal/attributes'
// concrete Attribute type satisfies this.
type Attribute interface {
	AttributeName() string
	String() string
}

// Body is the narrow view of a function body types needs: enough to carry
// and print it without importing internal/ast (which depends on types for
// declarations). internal/ast's block-statement type satisfies this.
type Body interface {
	String() string
}

// Variable is `(vartype, sourceIdent, attributes[])` from spec.md §3. It
// implements exprengine.VariableRef so expression nodes can reference it
// without internal/exprengine importing internal/types.
type Variable struct {
	VarType    VarType
	Name       string
	Origin     token.FileOrigin
	Attributes []Attribute
}

func NewVariable(name string, vt VarType, origin token.FileOrigin) *Variable {
	return &Variable{VarType: vt, Name: name, Origin: origin}
}

func (v *Variable) VarName() string { return v.Name }

func (v *Variable) HasAttribute(name string) bool {
	for _, a := range v.Attributes {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}

func (v *Variable) Attribute(name string) Attribute {
	for _, a := range v.Attributes {
		if a.AttributeName() == name {
			return a
		}
	}
	return nil
}

func (v *Variable) String() string {
	if v.VarType.Base == nil {
		return v.Name
	}
	return v.VarType.String() + " " + v.Name
}

// Clone returns a shallow copy of v with its own Attributes slice; VarType
// is a value type and is copied with it, but array-size expression nodes
// and the base type are shared (they're immutable after parsing).
func (v *Variable) Clone() *Variable {
	out := *v
	out.Attributes = append([]Attribute{}, v.Attributes...)
	return &out
}

// Function is `(name, returnVartype, args[variable], body?, attributes[])`.
type Function struct {
	Name       string
	Return     VarType
	Args       []*Variable
	Body       Body // nil for a declaration without a definition
	Origin     token.FileOrigin
	Attributes []Attribute
}

func NewFunction(name string, ret VarType, args []*Variable, origin token.FileOrigin) *Function {
	return &Function{Name: name, Return: ret, Args: args, Origin: origin}
}

func (f *Function) HasAttribute(name string) bool {
	for _, a := range f.Attributes {
		if a.AttributeName() == name {
			return true
		}
	}
	return false
}

func (f *Function) Attribute(name string) Attribute {
	for _, a := range f.Attributes {
		if a.AttributeName() == name {
			return a
		}
	}
	return nil
}

// Signature returns the FunctionType describing f's shape, used when f is
// referenced as a value (function pointer) or compared for redeclaration.
func (f *Function) Signature() *FunctionType {
	argTypes := make([]VarType, len(f.Args))
	for i, a := range f.Args {
		argTypes[i] = a.VarType
	}
	return &FunctionType{Return: f.Return, Args: argTypes}
}

func (f *Function) String() string {
	s := f.Return.String() + " " + f.Name + "("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
