package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ir"
)

func parseDecls(t *testing.T, src string) []dts.Decl {
	t.Helper()
	file, err := dts.Parse("test.d.ts", src)
	require.NoError(t, err)
	return file.Decls
}

func lowerOneDecl(t *testing.T, c *Context, src string, cat ir.Category) ir.Decl {
	t.Helper()
	decls := parseDecls(t, src)
	require.Len(t, decls, 1)
	return c.LowerDecl(decls[0], cat)
}

func TestLowerInterfaceToStruct(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
interface Smoothness {
  halfedge: number;
  smoothness?: number;
  runOriginalID: number;
}`, ir.CategoryGlobal)

	s, ok := got.(*ir.Struct)
	require.True(t, ok)
	assert.Equal(t, "Smoothness", s.Name)
	assert.Equal(t, ir.DefaultDerives, s.Derives)
	assert.Equal(t, ir.CategoryGlobal, s.Cat())
	require.Len(t, s.Fields, 3)

	assert.Equal(t, "halfedge", s.Fields[0].Name)
	assert.Equal(t, "halfedge", s.Fields[0].WireName)
	assert.False(t, s.Fields[0].Optional)
	assert.Equal(t, ir.PrimitiveF64, s.Fields[0].Type.(*ir.Primitive).PrimitiveKind)

	// Optional property: Option-wrapped and flagged for skip-serializing.
	assert.True(t, s.Fields[1].Optional)
	opt, ok := s.Fields[1].Type.(*ir.Option)
	require.True(t, ok)
	assert.Equal(t, ir.PrimitiveF64, opt.Inner.(*ir.Primitive).PrimitiveKind)

	// Field naming is mechanical, acronyms included.
	assert.Equal(t, "run_original_i_d", s.Fields[2].Name)
	assert.Equal(t, "runOriginalID", s.Fields[2].WireName)
}

func TestLowerOptionalUndefinedUnionStacksOption(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
interface Opts {
  tolerance?: number | undefined;
}`, ir.CategoryGlobal)

	s := got.(*ir.Struct)
	outer, ok := s.Fields[0].Type.(*ir.Option)
	require.True(t, ok)
	_, ok = outer.Inner.(*ir.Option)
	assert.True(t, ok, "optionality and the undefined variant wrap independently")
}

func TestLowerEncapsulatedClassToExtern(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
class CrossSection {
  constructor(width: number, height: number);
  static square(size: number): CrossSection;
  area(): number;
  translate(v: [number, number]): CrossSection;
}`, ir.CategoryEncapsulated)

	block, ok := got.(*ir.ExternBlock)
	require.True(t, ok)
	assert.Equal(t, "CrossSection", block.Name)
	require.Len(t, block.Methods, 4)

	ctor := block.Methods[0]
	assert.Equal(t, ir.MethodConstructor, ctor.Kind)
	assert.Equal(t, "new", ctor.Name)
	require.Len(t, ctor.Params, 2)
	assert.Equal(t, "width", ctor.Params[0].Name)
	assert.Equal(t, ir.PrimitiveF64, ctor.Params[0].Type.(*ir.Primitive).PrimitiveKind)
	assert.Equal(t, "CrossSection", ctor.Return.(*ir.Named).Name)

	static := block.Methods[1]
	assert.Equal(t, ir.MethodStatic, static.Kind)
	assert.Equal(t, "square", static.Name)
	assert.Equal(t, "square", static.JSName)

	area := block.Methods[2]
	assert.Equal(t, ir.MethodInstance, area.Kind)
	assert.Equal(t, ir.PrimitiveF64, area.Return.(*ir.Primitive).PrimitiveKind)

	translate := block.Methods[3]
	arr, ok := translate.Params[0].Type.(*ir.Array)
	require.True(t, ok)
	assert.Equal(t, 2, arr.Len)
}

func TestLowerExternVoidReturn(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
class Mesh {
  merge(): void;
  delete();
}`, ir.CategoryEncapsulated)

	block := got.(*ir.ExternBlock)
	require.Len(t, block.Methods, 2)
	for _, m := range block.Methods {
		prim, ok := m.Return.(*ir.Primitive)
		require.True(t, ok, m.Name)
		assert.Equal(t, ir.PrimitiveUnit, prim.PrimitiveKind, m.Name)
	}
}

func TestLowerExternOptionalParam(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
class Manifold {
  static cylinder(height: number, radiusLow?: number): Manifold;
}`, ir.CategoryEncapsulated)

	block := got.(*ir.ExternBlock)
	m := block.Methods[0]
	assert.Equal(t, "radius_low", m.Params[1].Name)
	assert.True(t, m.Params[1].Optional)
	_, ok := m.Params[1].Type.(*ir.Option)
	assert.True(t, ok)
}

func TestLowerMainClassWithoutProps(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `
class ManifoldToplevel {
  setup(): void;
}`, ir.CategoryMain)

	alias, ok := got.(*ir.TypeAlias)
	require.True(t, ok, "a main-category class without fields becomes an opaque alias")
	assert.Equal(t, "ManifoldToplevel", alias.Name)
	_, ok = alias.Target.(*ir.Opaque)
	assert.True(t, ok)
}

func TestLowerSealedArrays(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	for name, elem := range map[string]string{
		"SealedUint32Array":  "u32",
		"SealedFloat32Array": "f32",
	} {
		got := lowerOneDecl(t, c, "class "+name+" { }", ir.CategoryGlobal)
		alias, ok := got.(*ir.TypeAlias)
		require.True(t, ok, name)
		assert.Equal(t, "N", alias.ConstGeneric)
		arr := alias.Target.(*ir.Array)
		assert.Equal(t, elem, arr.Elem.(*ir.Named).Name)
	}
}

func TestLowerAliasDecl(t *testing.T) {
	c := NewContext(nil)
	registerSource(t, c, `type Vec2 = [number, number];`)
	c.Freeze()

	got := lowerOneDecl(t, c, `type Vec2 = [number, number];`, ir.CategoryGlobal)
	alias := got.(*ir.TypeAlias)
	assert.Equal(t, "Vec2", alias.Name)
	arr := alias.Target.(*ir.Array)
	assert.Equal(t, 2, arr.Len)
}

func TestLowerSelfReferentialAlias(t *testing.T) {
	c := NewContext(nil)
	registerSource(t, c, `type Mesh = Mesh;`)
	c.Freeze()

	got := lowerOneDecl(t, c, `type Mesh = Mesh;`, ir.CategoryGlobal)
	alias := got.(*ir.TypeAlias)
	_, ok := alias.Target.(*ir.Opaque)
	assert.True(t, ok)
}

func TestLowerSynthesizedAliasSkipped(t *testing.T) {
	c := NewContext(nil)
	registerSource(t, c, `type FillRule = "EvenOdd" | "NonZero";`)
	c.Freeze()

	got := lowerOneDecl(t, c, `type FillRule = "EvenOdd" | "NonZero";`, ir.CategoryGlobal)
	assert.Nil(t, got, "enum-synthesized aliases are emitted from the registry")
}

func TestLowerEnumDecl(t *testing.T) {
	c := NewContext(nil)
	c.Freeze()

	got := lowerOneDecl(t, c, `enum JobPriority { low, high }`, ir.CategoryGlobal)
	e := got.(*ir.Enum)
	assert.Equal(t, ir.EnumDerives, e.Derives)
	require.Len(t, e.Variants, 2)
	assert.Equal(t, "Low", e.Variants[0].Name)
	assert.Equal(t, "low", e.Variants[0].WireName)
}
