package metadata_test

import (
	"testing"

	"github.com/occa-go/okl/internal/metadata"
	"github.com/occa-go/okl/internal/token"
	"github.com/occa-go/okl/internal/types"
	"github.com/stretchr/testify/require"
)

func primitiveArg(name string, constQualified bool) *types.Variable {
	vt := types.VarType{Base: &types.PrimitiveType{Name: "float"}}
	vt = vt.WithPointer(types.QualifierSet{})
	if constQualified {
		vt.Qualifiers = types.QualifierSet{Bits: types.Const}
	}
	return types.NewVariable(name, vt, token.FileOrigin{})
}

func TestKernelMetadataRoundTripsThroughJSON(t *testing.T) {
	fn := types.NewFunction("addVectors", types.VarType{Base: &types.PrimitiveType{Name: "void"}},
		[]*types.Variable{primitiveArg("a", true), primitiveArg("b", false)}, token.FileOrigin{})

	m := metadata.Map{}
	m.Add(metadata.NewKernelMetadata(fn))

	require.True(t, m["addVectors"].ArgIsConst(0))
	require.False(t, m["addVectors"].ArgIsConst(1))
	require.False(t, m["addVectors"].ArgIsConst(5), "out-of-range position reports not const")

	data, err := m.ToJSON()
	require.NoError(t, err)

	back, err := metadata.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, m, back)
}

func TestArgMatchesVarType(t *testing.T) {
	fn := types.NewFunction("k", types.VarType{Base: &types.PrimitiveType{Name: "void"}},
		[]*types.Variable{primitiveArg("a", false)}, token.FileOrigin{})
	km := metadata.NewKernelMetadata(fn)
	require.True(t, km.ArgMatchesVarType(0, km.Arguments[0].VarType))
	require.False(t, km.ArgMatchesVarType(0, "not a real vartype"))
	require.False(t, km.ArgMatchesVarType(-1, km.Arguments[0].VarType))
}
