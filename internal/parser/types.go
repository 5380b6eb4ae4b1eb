package parser

import (
	"github.com/occa-go/okl/internal/ast"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
)

// qualifierBits maps a built-in qualifier keyword (other than "extern",
// handled separately below for its "C"/"C++" string-literal form) to its
// QualifierSet bit.
var qualifierBits = map[string]types.Qualifier{
	"const":        types.Const,
	"volatile":     types.Volatile,
	"restrict":     types.Restrict,
	"__restrict__": types.Restrict,
	"__restrict":   types.Restrict,
	"static":       types.Static,
	"inline":       types.Inline,
	"register":     types.Register,
	"mutable":      types.Mutable,
}

// primitiveWordSet is the fixed set of keywords that may appear in a
// multi-word primitive spelling ("unsigned long long"), consulted by
// collectPrimitiveWords.
var primitiveWordSet = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "signed": true, "unsigned": true,
	"size_t": true, "int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
}

// parseQualifiers consumes a run of qualifier keywords (built-in or
// scope-registered custom ones) at the cursor.
func (p *Parser) parseQualifiers() types.QualifierSet {
	var qs types.QualifierSet
	for p.cur().Kind == token.Identifier {
		name := p.cur().Text
		if name == "extern" {
			p.advance()
			if p.cur().Kind == token.StringLit && p.cur().Raw == "C++" {
				p.advance()
				qs.Bits |= types.ExternCpp
			} else if p.cur().Kind == token.StringLit && p.cur().Raw == "C" {
				p.advance()
				qs.Bits |= types.ExternC
			} else {
				qs.Bits |= types.Extern
			}
			continue
		}
		if bit, ok := qualifierBits[name]; ok {
			p.advance()
			qs.Bits |= bit
			continue
		}
		if b, ok := p.scope.Lookup(name); ok && b.Kind == token.KeywordQualifier {
			p.advance()
			qs = qs.WithCustom(name)
			continue
		}
		break
	}
	return qs
}

// collectPrimitiveWords consumes a run of primitive keywords ("unsigned",
// "long", "long", "int") and normalizes them to one of the names registered
// in types.LookupPrimitive.
func (p *Parser) collectPrimitiveWords() (string, bool) {
	var words []string
	for p.cur().Kind == token.Identifier && primitiveWordSet[p.cur().Text] {
		words = append(words, p.advance().Text)
	}
	if len(words) == 0 {
		return "", false
	}
	var unsigned, signed bool
	var longCount int
	var short, char, isFloat, isDouble, isBool, isVoid, other bool
	var otherName string
	for _, w := range words {
		switch w {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "long":
			longCount++
		case "short":
			short = true
		case "char":
			char = true
		case "float":
			isFloat = true
		case "double":
			isDouble = true
		case "bool":
			isBool = true
		case "void":
			isVoid = true
		default:
			other = true
			otherName = w
		}
	}
	if other {
		return otherName, true // size_t, intN_t, uintN_t stand alone
	}
	if isFloat {
		return "float", true
	}
	if isDouble {
		return "double", true
	}
	if isBool {
		return "bool", true
	}
	if isVoid {
		return "void", true
	}
	base := "int"
	switch {
	case longCount >= 2:
		base = "long long"
	case longCount == 1:
		base = "long"
	case short:
		base = "short"
	case char:
		base = "char"
	}
	if unsigned {
		if base == "int" {
			return "unsigned", true
		}
		return "unsigned " + base, true
	}
	if signed && base == "int" {
		return "int", true
	}
	return base, true
}

// parseBaseType parses one base-type spelling: a primitive, a
// struct/class/union, an enum, or a previously-declared type name. Returns
// ok=false (without consuming anything) if the cursor isn't the start of a
// type.
func (p *Parser) parseBaseType() (types.BaseType, bool) {
	switch {
	case p.curIsKeyword("struct"), p.curIsKeyword("class"), p.curIsKeyword("union"):
		return p.parseRecordType()
	case p.curIsKeyword("enum"):
		return p.parseEnumType()
	}
	if p.cur().Kind == token.Identifier && primitiveWordSet[p.cur().Text] {
		name, _ := p.collectPrimitiveWords()
		if prim := types.LookupPrimitive(name); prim != nil {
			return prim, true
		}
		return types.LookupPrimitive("int"), true
	}
	if p.cur().Kind == token.Identifier {
		if b, ok := p.scope.Lookup(p.cur().Text); ok && b.Kind == token.KeywordType {
			p.advance()
			return b.Type, true
		}
	}
	return nil, false
}

func (p *Parser) parseRecordType() (types.BaseType, bool) {
	kindWord := p.advance().Text // struct/class/union
	name := ""
	if p.cur().Kind == token.Identifier {
		name = p.advance().Text
	}
	var members []*types.Variable
	hasBody := p.curIsOp("{")
	if hasBody {
		members = p.parseMemberList()
	}
	var rt *types.RecordType
	switch kindWord {
	case "class":
		rt = types.NewClassType(name, members)
	case "union":
		rt = types.NewUnionType(name, members)
	default:
		rt = types.NewStructType(name, members)
	}
	if name != "" && hasBody {
		p.scope.Define(name, ast.Binding{Kind: token.KeywordType, TypeName: name, Type: rt}, p.sink)
	}
	return rt, true
}

func (p *Parser) parseMemberList() []*types.Variable {
	p.advance() // '{'
	var members []*types.Variable
	for !p.curIsOp("}") && !p.atEnd() {
		if p.cur().Kind == token.Newline {
			p.advance()
			continue
		}
		if p.curIsKeyword("public") || p.curIsKeyword("private") || p.curIsKeyword("protected") {
			p.advance()
			p.expectOp(":")
			continue
		}
		vt, ok := p.parseVarTypePrefix()
		if !ok {
			p.advance()
			continue
		}
		for {
			name, full, nameTok := p.parseDeclaratorSuffix(vt)
			members = append(members, types.NewVariable(name, full, nameTok.Origin))
			if p.curIsOp(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectOp(";")
	}
	if p.curIsOp("}") {
		p.advance()
	}
	return members
}

func (p *Parser) parseEnumType() (types.BaseType, bool) {
	p.advance() // 'enum'
	name := ""
	if p.cur().Kind == token.Identifier {
		name = p.advance().Text
	}
	var underlying types.BaseType
	if p.curIsOp(":") {
		p.advance()
		underlying, _ = p.parseBaseType()
	}
	var values []string
	hasBody := p.curIsOp("{")
	if hasBody {
		p.advance()
		for !p.curIsOp("}") && !p.atEnd() {
			if p.cur().Kind == token.Identifier {
				values = append(values, p.advance().Text)
			}
			if p.curIsOp("=") {
				p.advance()
				p.parseExprUpTo(true)
			}
			if p.curIsOp(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectOp("}")
	}
	et := &types.EnumType{Name: name, Underlying: underlying, Values: values}
	if name != "" && hasBody {
		p.scope.Define(name, ast.Binding{Kind: token.KeywordType, TypeName: name, Type: et}, p.sink)
	}
	return et, true
}

// parseVarTypePrefix parses the qualifier/base-type portion shared by every
// declarator in one declaration statement, e.g. the "const unsigned int" of
// "const unsigned int a, *b;".
func (p *Parser) parseVarTypePrefix() (types.VarType, bool) {
	leading := p.parseQualifiers()
	base, ok := p.parseBaseType()
	if !ok {
		return types.VarType{}, false
	}
	trailing := p.parseQualifiers()
	quals := types.QualifierSet{
		Bits:   leading.Bits | trailing.Bits,
		Custom: append(append([]string{}, leading.Custom...), trailing.Custom...),
	}
	return types.VarType{Base: base, Qualifiers: quals}, true
}

// parseDeclaratorSuffix parses the pointer/reference/name/array portion of
// one declarator against the shared vt prefix.
func (p *Parser) parseDeclaratorSuffix(vt types.VarType) (name string, full types.VarType, nameTok token.Token) {
	t := vt
	for p.curIsOp("*") {
		p.advance()
		t = t.WithPointer(p.parseQualifiers())
	}
	if p.curIsOp("&") {
		p.advance()
		t.IsReference = true
	}
	if p.cur().Kind == token.Identifier {
		nameTok = p.advance()
		name = nameTok.Text
	}
	for p.curIsOp("[") {
		p.advance()
		var dim types.ArrayDim
		if !p.curIsOp("]") {
			dim.Size = p.parseExprUpTo(true)
		}
		p.expectOp("]")
		t = t.WithArray(dim)
	}
	full = t
	return
}
