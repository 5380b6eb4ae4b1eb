package types

// BaseKind tags which BaseType variant a value carries, the closed set
// matched exhaustively by equality and the backend lowering passes.
type BaseKind int

const (
	PrimitiveKind BaseKind = iota
	ClassKind
	StructKind
	UnionKind
	EnumKind
	TypedefKind
	FunctionKind
)

// BaseType is the named-entity half of a vartype (spec.md §4.E): a
// primitive, a class/struct/union, an enum, a typedef or a function
// signature. Two base types compare equal by structural identity up to
// qualifiers (Equal), never by pointer identity, since typedefs to the same
// structural shape must unify.
type BaseType interface {
	Kind() BaseKind
	TypeName() string
	String() string
	Equal(other BaseType) bool
}

// PrimitiveType is a built-in scalar (int, float, bool, size_t, ...).
// Primitives compare equal by name alone.
type PrimitiveType struct {
	Name string
}

func (t *PrimitiveType) Kind() BaseKind    { return PrimitiveKind }
func (t *PrimitiveType) TypeName() string  { return t.Name }
func (t *PrimitiveType) String() string    { return t.Name }
func (t *PrimitiveType) Equal(o BaseType) bool {
	op, ok := o.(*PrimitiveType)
	return ok && op.Name == t.Name
}

// registry of the built-in primitives named in internal/token.PrimitiveWords;
// parsers look these up by name rather than constructing PrimitiveType
// literals, so every "int" in a program shares one *PrimitiveType.
var primitiveRegistry = map[string]*PrimitiveType{}

func init() {
	for _, name := range []string{
		"void", "bool", "char", "short", "int", "long", "long long",
		"float", "double", "signed", "unsigned",
		"unsigned char", "unsigned short", "unsigned int", "unsigned long",
		"unsigned long long",
		"size_t", "int8_t", "int16_t", "int32_t", "int64_t",
		"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	} {
		primitiveRegistry[name] = &PrimitiveType{Name: name}
	}
}

// LookupPrimitive returns the shared PrimitiveType for name, or nil if name
// isn't a registered primitive.
func LookupPrimitive(name string) *PrimitiveType { return primitiveRegistry[name] }

// RecordKind distinguishes class/struct/union member records, which share
// shape but differ in default member access and C-layout rules applied by
// the backend.
type RecordType struct {
	kind    BaseKind // ClassKind, StructKind or UnionKind
	Name    string
	Members []*Variable
}

func NewClassType(name string, members []*Variable) *RecordType {
	return &RecordType{kind: ClassKind, Name: name, Members: members}
}

func NewStructType(name string, members []*Variable) *RecordType {
	return &RecordType{kind: StructKind, Name: name, Members: members}
}

func NewUnionType(name string, members []*Variable) *RecordType {
	return &RecordType{kind: UnionKind, Name: name, Members: members}
}

func (t *RecordType) Kind() BaseKind   { return t.kind }
func (t *RecordType) TypeName() string { return t.Name }
func (t *RecordType) String() string   { return t.Name }

func (t *RecordType) Equal(o BaseType) bool {
	ot, ok := o.(*RecordType)
	if !ok || ot.kind != t.kind || ot.Name != t.Name {
		return false
	}
	if t.Name != "" {
		// Named records compare nominally, like C/C++: two distinct
		// struct definitions with the same member shape are not the same
		// type.
		return true
	}
	// Anonymous records compare structurally, member by member.
	if len(t.Members) != len(ot.Members) {
		return false
	}
	for i, m := range t.Members {
		if !m.VarType.Equal(ot.Members[i].VarType) {
			return false
		}
	}
	return true
}

// EnumType is `enum Name : Underlying`.
type EnumType struct {
	Name       string
	Underlying BaseType
	Values     []string
}

func (t *EnumType) Kind() BaseKind   { return EnumKind }
func (t *EnumType) TypeName() string { return t.Name }
func (t *EnumType) String() string   { return t.Name }
func (t *EnumType) Equal(o BaseType) bool {
	ot, ok := o.(*EnumType)
	return ok && ot.Name == t.Name
}

// Typedef aliases Name to Target. VarType.Equal unwraps typedefs to their
// target base type before comparing (spec.md §4.E: typedefs to the same
// shape unify); Typedef.Equal itself only covers the case where a Typedef
// is compared directly as a BaseType without going through unwrap.
type Typedef struct {
	Name   string
	Target VarType
}

func (t *Typedef) Kind() BaseKind   { return TypedefKind }
func (t *Typedef) TypeName() string { return t.Name }
func (t *Typedef) String() string   { return t.Name }
func (t *Typedef) Equal(o BaseType) bool {
	ot, ok := o.(*Typedef)
	return ok && ot.Name == t.Name
}

// unwrapTypedef follows a chain of typedefs to the underlying base type, so
// `typedef int myint` compares equal to plain `int` regardless of which
// side of the comparison names the alias.
func unwrapTypedef(b BaseType) BaseType {
	for {
		td, ok := b.(*Typedef)
		if !ok || td.Target.Base == nil {
			return b
		}
		b = td.Target.Base
	}
}

// FunctionType is a function's signature as a base type, used for function
// pointers and function-typed declarators.
type FunctionType struct {
	Return VarType
	Args   []VarType
}

func (t *FunctionType) Kind() BaseKind   { return FunctionKind }
func (t *FunctionType) TypeName() string { return "" }
func (t *FunctionType) String() string {
	s := t.Return.String() + "("
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
func (t *FunctionType) Equal(o BaseType) bool {
	ot, ok := o.(*FunctionType)
	if !ok || len(t.Args) != len(ot.Args) || !t.Return.Equal(ot.Return) {
		return false
	}
	for i, a := range t.Args {
		if !a.Equal(ot.Args[i]) {
			return false
		}
	}
	return true
}
