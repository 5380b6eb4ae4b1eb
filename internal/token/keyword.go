package token

// KeywordKind names what a Scope binds an identifier to: a type, a
// variable, a function, a qualifier, or a reserved word that cannot be
// redeclared (spec.md §3 "Scopes").
type KeywordKind int

const (
	KeywordType KeywordKind = iota
	KeywordVariable
	KeywordFunction
	KeywordQualifier
	KeywordReserved
)

func (k KeywordKind) String() string {
	switch k {
	case KeywordType:
		return "type"
	case KeywordVariable:
		return "variable"
	case KeywordFunction:
		return "function"
	case KeywordQualifier:
		return "qualifier"
	case KeywordReserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// ReservedWords are C-family keywords that can never be redefined as a
// variable or type name.
var ReservedWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "return": true, "goto": true, "namespace": true,
	"typedef": true, "struct": true, "class": true, "union": true,
	"enum": true, "public": true, "private": true, "protected": true,
	"new": true, "delete": true, "sizeof": true, "throw": true,
	"static_cast": true, "dynamic_cast": true, "reinterpret_cast": true,
	"const_cast": true, "true": true, "false": true, "nullptr": true,
	"this": true, "template": true, "operator": true,
}

// QualifierWords are the built-in qualifier keywords; custom ones may be
// registered at runtime (spec.md §3 "Types").
var QualifierWords = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "extern": true,
	"static": true, "inline": true, "register": true, "mutable": true,
	"__restrict__": true, "__restrict": true,
}

// PrimitiveWords are the base primitive type keywords.
var PrimitiveWords = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true,
	"unsigned": true, "size_t": true, "int8_t": true, "int16_t": true,
	"int32_t": true, "int64_t": true, "uint8_t": true, "uint16_t": true,
	"uint32_t": true, "uint64_t": true,
}
