package types_test

import (
	"testing"

	"github.com/occa-go/okl/internal/exprengine"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
	"github.com/stretchr/testify/require"
)

func intLit(n int64) exprengine.Node {
	return &exprengine.PrimitiveNode{Value: exprengine.IntValue(n)}
}

func TestPrimitivesShareRegistry(t *testing.T) {
	a := types.LookupPrimitive("int")
	b := types.LookupPrimitive("int")
	require.Same(t, a, b)
	require.Nil(t, types.LookupPrimitive("not-a-type"))
}

func TestVarTypeEqualIgnoresQualifierOrderOfCustomSet(t *testing.T) {
	base := types.LookupPrimitive("int")
	a := types.VarType{Base: base, Qualifiers: types.QualifierSet{Bits: types.Const}.WithCustom("kernel").WithCustom("shared")}
	b := types.VarType{Base: base, Qualifiers: types.QualifierSet{Bits: types.Const}.WithCustom("shared").WithCustom("kernel")}
	require.True(t, a.Equal(b))
}

func TestVarTypeNotEqualWithDifferentQualifiers(t *testing.T) {
	base := types.LookupPrimitive("int")
	a := types.VarType{Base: base, Qualifiers: types.QualifierSet{Bits: types.Const}}
	b := types.VarType{Base: base}
	require.False(t, a.Equal(b))
}

func TestPointerLevelsCompareElementwise(t *testing.T) {
	base := types.LookupPrimitive("int")
	// int * const *
	a := types.VarType{Base: base}.
		WithPointer(types.QualifierSet{Bits: types.Const}).
		WithPointer(types.QualifierSet{})
	b := types.VarType{Base: base}.
		WithPointer(types.QualifierSet{Bits: types.Const}).
		WithPointer(types.QualifierSet{})
	require.True(t, a.Equal(b))

	c := types.VarType{Base: base}.
		WithPointer(types.QualifierSet{}).
		WithPointer(types.QualifierSet{Bits: types.Const})
	require.False(t, a.Equal(c))
}

func TestArrayDimsCompareByEvaluatedValue(t *testing.T) {
	base := types.LookupPrimitive("float")
	// float[2+2] vs float[4]
	a := types.VarType{Base: base}.WithArray(types.ArrayDim{Size: &exprengine.BinaryNode{
		Op: token.Lookup("+"), Left: intLit(2), Right: intLit(2),
	}})
	b := types.VarType{Base: base}.WithArray(types.ArrayDim{Size: intLit(4)})
	require.True(t, a.Equal(b))
}

func TestArrayDimsDifferentSizesNotEqual(t *testing.T) {
	base := types.LookupPrimitive("float")
	a := types.VarType{Base: base}.WithArray(types.ArrayDim{Size: intLit(4)})
	b := types.VarType{Base: base}.WithArray(types.ArrayDim{Size: intLit(8)})
	require.False(t, a.Equal(b))
}

func TestUnsizedArrayOnlyEqualsUnsized(t *testing.T) {
	base := types.LookupPrimitive("float")
	unsized := types.VarType{Base: base}.WithArray(types.ArrayDim{})
	sized := types.VarType{Base: base}.WithArray(types.ArrayDim{Size: intLit(4)})
	require.True(t, unsized.Equal(types.VarType{Base: base}.WithArray(types.ArrayDim{})))
	require.False(t, unsized.Equal(sized))
}

func TestNamedStructsCompareNominally(t *testing.T) {
	a := types.NewStructType("Point", []*types.Variable{types.NewVariable("x", types.VarType{Base: types.LookupPrimitive("float")}, token.FileOrigin{})})
	b := types.NewStructType("Point", nil)
	require.True(t, a.Equal(b))

	c := types.NewStructType("Other", nil)
	require.False(t, a.Equal(c))
}

func TestAnonymousStructsCompareStructurally(t *testing.T) {
	memberF := func() *types.Variable {
		return types.NewVariable("x", types.VarType{Base: types.LookupPrimitive("float")}, token.FileOrigin{})
	}
	a := types.NewStructType("", []*types.Variable{memberF()})
	b := types.NewStructType("", []*types.Variable{memberF()})
	require.True(t, a.Equal(b))

	c := types.NewStructType("", []*types.Variable{types.NewVariable("x", types.VarType{Base: types.LookupPrimitive("int")}, token.FileOrigin{})})
	require.False(t, a.Equal(c))
}

func TestTypedefUnwrapsToTargetShape(t *testing.T) {
	intType := types.VarType{Base: types.LookupPrimitive("int")}
	alias := types.VarType{Base: &types.Typedef{Name: "myint", Target: intType}}
	require.True(t, alias.Equal(intType))
	require.True(t, intType.Equal(alias))
}

func TestVariableImplementsVariableRef(t *testing.T) {
	v := types.NewVariable("n", types.VarType{Base: types.LookupPrimitive("int")}, token.FileOrigin{})
	var ref exprengine.VariableRef = v
	require.Equal(t, "n", ref.VarName())
}

func TestFunctionSignatureEquality(t *testing.T) {
	intType := types.VarType{Base: types.LookupPrimitive("int")}
	f1 := types.NewFunction("add", intType, []*types.Variable{
		types.NewVariable("a", intType, token.FileOrigin{}),
		types.NewVariable("b", intType, token.FileOrigin{}),
	}, token.FileOrigin{})
	f2 := types.NewFunction("add2", intType, []*types.Variable{
		types.NewVariable("x", intType, token.FileOrigin{}),
		types.NewVariable("y", intType, token.FileOrigin{}),
	}, token.FileOrigin{})
	require.True(t, f1.Signature().Equal(f2.Signature()))
}

func TestIsVoidOnlyForBareVoid(t *testing.T) {
	void := types.VarType{Base: types.LookupPrimitive("void")}
	require.True(t, void.IsVoid())

	voidPtr := void.WithPointer(types.QualifierSet{})
	require.False(t, voidPtr.IsVoid())
}
