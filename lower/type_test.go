package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ir"
)

// parseType parses a single type expression through a synthetic alias.
func parseType(t *testing.T, src string) dts.Type {
	t.Helper()
	file, err := dts.Parse("test.d.ts", "type __t = "+src+";")
	require.NoError(t, err)
	require.Len(t, file.Decls, 1)
	return file.Decls[0].(*dts.Alias).RHS
}

func lowerText(t *testing.T, c *Context, src string) ir.Type {
	t.Helper()
	return c.Lower(parseType(t, src))
}

func TestLowerPrimitives(t *testing.T) {
	c := NewContext(nil)
	tests := []struct {
		src  string
		want ir.PrimitiveKind
	}{
		{"string", ir.PrimitiveString},
		{"number", ir.PrimitiveF64},
		{"boolean", ir.PrimitiveBool},
		{"void", ir.PrimitiveUnit},
		{"undefined", ir.PrimitiveUnit},
	}
	for _, tt := range tests {
		// Lowering is referentially transparent: same IR every call.
		for i := 0; i < 2; i++ {
			got := lowerText(t, c, tt.src)
			prim, ok := got.(*ir.Primitive)
			require.True(t, ok, "lower(%q)", tt.src)
			assert.Equal(t, tt.want, prim.PrimitiveKind, "lower(%q)", tt.src)
		}
	}
}

func TestLowerMissingTypeIsUnit(t *testing.T) {
	c := NewContext(nil)
	prim, ok := c.Lower(nil).(*ir.Primitive)
	require.True(t, ok)
	assert.Equal(t, ir.PrimitiveUnit, prim.PrimitiveKind)
}

func TestLowerArray(t *testing.T) {
	c := NewContext(nil)
	arr, ok := lowerText(t, c, "number[]").(*ir.Array)
	require.True(t, ok)
	assert.Equal(t, 0, arr.Len)
	assert.Equal(t, ir.PrimitiveF64, arr.Elem.(*ir.Primitive).PrimitiveKind)
}

func TestLowerHomogeneousTupleCollapses(t *testing.T) {
	c := NewContext(nil)

	arr, ok := lowerText(t, c, "[number, number]").(*ir.Array)
	require.True(t, ok, "homogeneous tuple should collapse to fixed array")
	assert.Equal(t, 2, arr.Len)
	assert.Equal(t, ir.PrimitiveF64, arr.Elem.(*ir.Primitive).PrimitiveKind)

	arr, ok = lowerText(t, c, "[number, number, number, number, number, number, number, number, number]").(*ir.Array)
	require.True(t, ok)
	assert.Equal(t, 9, arr.Len)
}

func TestLowerHeterogeneousTupleStaysTuple(t *testing.T) {
	c := NewContext(nil)
	tuple, ok := lowerText(t, c, "[string, number]").(*ir.Tuple)
	require.True(t, ok)
	assert.Len(t, tuple.Elems, 2)
}

func TestLowerOptionCollapseBothPositions(t *testing.T) {
	c := NewContext(nil)

	left := lowerText(t, c, "number | undefined")
	right := lowerText(t, c, "undefined | number")

	for _, got := range []ir.Type{left, right} {
		opt, ok := got.(*ir.Option)
		require.True(t, ok)
		assert.Equal(t, ir.PrimitiveF64, opt.Inner.(*ir.Primitive).PrimitiveKind)
	}
	assert.Equal(t, Signature([]ir.Type{left}), Signature([]ir.Type{right}))
}

func TestLowerIrreducibleUnion(t *testing.T) {
	c := NewContext(nil)
	union, ok := lowerText(t, c, "string | number | boolean").(*ir.Union)
	require.True(t, ok)
	assert.Len(t, union.Variants, 3)
}

func TestLowerUnionPreservesAliasNames(t *testing.T) {
	c := NewContext(nil)
	file, err := dts.Parse("g.d.ts", "type SimplePolygon = Vec2[];")
	require.NoError(t, err)
	require.NoError(t, c.RegisterAliases(file, ir.CategoryGlobal))
	c.Freeze()

	union, ok := lowerText(t, c, "SimplePolygon | number").(*ir.Union)
	require.True(t, ok)
	named, ok := union.Variants[0].(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "SimplePolygon", named.Name)
}

func TestLowerTypeof(t *testing.T) {
	c := NewContext(nil)
	named, ok := lowerText(t, c, "typeof triangulate").(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "triangulate", named.Name)
}

func TestLowerFunctionType(t *testing.T) {
	c := NewContext(nil)
	named, ok := lowerText(t, c, "(v: number) => void").(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "fn()", named.Name)
}

func TestLowerFallbackCleansQualifiers(t *testing.T) {
	c := NewContext(nil)
	file, err := dts.Parse("g.d.ts", "type Mesh = MeshHandle;")
	require.NoError(t, err)
	require.NoError(t, c.RegisterAliases(file, ir.CategoryGlobal))
	c.Freeze()

	named, ok := lowerText(t, c, "Module.Mesh").(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "Mesh", named.Name)

	named, ok = lowerText(t, c, "Float32Array").(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "Float32Array", named.Name)
}

func TestLowerMapping(t *testing.T) {
	c := NewContext(nil)
	require.NoError(t, c.AddMapping("DoubleArray", "Vec<f64>"))

	named, ok := lowerText(t, c, "DoubleArray").(*ir.Named)
	require.True(t, ok)
	assert.Equal(t, "Vec<f64>", named.Name)
}

func TestLowerAnonymousObjectDegrades(t *testing.T) {
	c := NewContext(nil)
	_, ok := lowerText(t, c, "{ a: number }").(*ir.Opaque)
	assert.True(t, ok)
}
