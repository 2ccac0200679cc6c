package manifoldgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/daccad/manifoldgen/ir"
	"github.com/daccad/manifoldgen/sink"
)

// extractTestdata unpacks a txtar fixture into a fresh temp directory.
func extractTestdata(t *testing.T, path string) string {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, f := range ar.Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0644))
	}
	return dir
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want ir.Category
	}{
		{"manifold-global-types.d.ts", ir.CategoryGlobal},
		{"manifold-encapsulated-types.d.ts", ir.CategoryEncapsulated},
		{"manifold.d.ts", ir.CategoryMain},
	}
	for _, tt := range tests {
		got, err := Categorize(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := Categorize("three.d.ts")
	assert.ErrorIs(t, err, ErrUnknownArtifact)
}

func TestGenerateToEndToEnd(t *testing.T) {
	defs := extractTestdata(t, filepath.Join("testdata", "manifold.txtar"))
	out := sink.NewMemorySink()

	err := GenerateTo(context.Background(), &Config{DefsDir: defs}, out)
	require.NoError(t, err)

	files := out.Files()
	require.Len(t, files, 4)
	for _, name := range []string{"global_types.rs", "encapsulated_types.rs", "manifold_main.rs", "todo_unions.rs"} {
		assert.Contains(t, files, name)
	}

	global := string(files["global_types.rs"])
	assert.Contains(t, global, "// Auto-generated Rust types from manifold-global-types.d.ts\n")
	assert.Contains(t, global, "use serde::{Serialize, Deserialize};\n")
	assert.Contains(t, global, "pub type Vec2 = [f64; 2];")
	assert.Contains(t, global, "pub type Vec3 = [f64; 3];")
	assert.Contains(t, global, "pub type SimplePolygon = Vec<Vec2>;")
	// The built-in normalization rule rewrites the union form.
	assert.Contains(t, global, "pub type Polygons = Vec<SimplePolygon>;")
	assert.Contains(t, global, "pub enum FillRule {")
	assert.Contains(t, global, "#[serde(rename = \"EvenOdd\")]")
	assert.Contains(t, global, "pub enum JoinType {")
	assert.Contains(t, global, "#[serde(rename = \"numProp\")]")
	assert.Contains(t, global, "#[serde(skip_serializing_if = \"Option::is_none\")]")
	assert.Contains(t, global, "pub num_prop: Option<f64>,")
	assert.Contains(t, global, "pub run_original_i_d: Option<f64>,")
	assert.Contains(t, global, "pub type SealedUint32Array<const N: usize> = [u32; N];")
	assert.Contains(t, global, "pub type SealedFloat32Array<const N: usize> = [f32; N];")

	encap := string(files["encapsulated_types.rs"])
	assert.Contains(t, encap, "use wasm_bindgen::prelude::*;\n")
	assert.Contains(t, encap, "use super::todo_unions::*;\n")
	assert.Contains(t, encap, "extern \"C\" {\n    type CrossSection;")
	assert.Contains(t, encap, "#[wasm_bindgen(constructor)]\n    fn new(polygons: Polygons, fill_rule: Option<FillRule>) -> CrossSection;")
	assert.Contains(t, encap, "#[wasm_bindgen(static_method_of = CrossSection, js_name = square)]")
	assert.Contains(t, encap, "fn area(this: &CrossSection) -> f64;")
	assert.Contains(t, encap, "#[wasm_bindgen(method, js_name = toPolygons)]\n    fn to_polygons(this: &CrossSection) -> Vec<SimplePolygon>;")
	assert.Contains(t, encap, "fn split(this: &Manifold, cutter: Manifold) -> Todo001Union;")
	assert.Contains(t, encap, "fn delete(this: &Manifold);")

	main := string(files["manifold_main.rs"])
	assert.Contains(t, main, "// Auto-generated Rust types from manifold.d.ts\n")
	assert.Contains(t, main, "pub struct ManifoldToplevel {")
	assert.Contains(t, main, "#[serde(rename = \"CrossSection\")]\n    pub cross_section: CrossSection,")
	assert.NotContains(t, main, "use wasm_bindgen::prelude::*;")

	todos := string(files["todo_unions.rs"])
	assert.Contains(t, todos, "// Auto-generated placeholder types")
	assert.Contains(t, todos, "pub struct Todo001Union {")
	assert.Contains(t, todos, "///   - Manifold")
	assert.Contains(t, todos, "///   - Vec<Manifold>")
	assert.Contains(t, todos, "unimplemented!(\"Todo001Union: construct from one of the variants above\")")
}

func TestGenerateToIdempotent(t *testing.T) {
	defs := extractTestdata(t, filepath.Join("testdata", "manifold.txtar"))

	run := func() map[string][]byte {
		out := sink.NewMemorySink()
		require.NoError(t, GenerateTo(context.Background(), &Config{DefsDir: defs}, out))
		return out.Files()
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	for name, content := range first {
		assert.Equal(t, string(content), string(second[name]), name)
	}
}

func TestGenerateWritesFilesystem(t *testing.T) {
	defs := extractTestdata(t, filepath.Join("testdata", "manifold.txtar"))
	outDir := t.TempDir()

	require.NoError(t, Generate(&Config{DefsDir: defs, OutDir: outDir}))

	content, err := os.ReadFile(filepath.Join(outDir, "global_types.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "pub type Vec2 = [f64; 2];")
}

func TestGenerateRequiresOutDir(t *testing.T) {
	assert.Error(t, Generate(&Config{DefsDir: "somewhere"}))
}

func TestGenerateToConfigValidation(t *testing.T) {
	err := GenerateTo(context.Background(), &Config{}, sink.NewMemorySink())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestGenerateToMissingDefsDir(t *testing.T) {
	err := GenerateTo(context.Background(), &Config{DefsDir: filepath.Join(t.TempDir(), "absent")}, sink.NewMemorySink())
	assert.Error(t, err)
}

func TestGenerateToEmptyDirWritesNothing(t *testing.T) {
	out := sink.NewMemorySink()
	err := GenerateTo(context.Background(), &Config{DefsDir: t.TempDir()}, out)
	require.NoError(t, err)
	assert.Empty(t, out.Files())
}

func TestGenerateToUnknownArtifactFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "three.d.ts"), []byte("type V = number;"), 0644))

	err := GenerateTo(context.Background(), &Config{DefsDir: dir}, sink.NewMemorySink())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownArtifact)
}

func TestGenerateToIgnoresNonDeclarationFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifold-global-types.d.ts"),
		[]byte("export type Vec2 = [number, number];"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifold.ts"), []byte("const x = 1;"), 0644))

	out := sink.NewMemorySink()
	require.NoError(t, GenerateTo(context.Background(), &Config{DefsDir: dir}, out))
	assert.Contains(t, out.Files(), "global_types.rs")
}

func TestGenerateToDuplicateDeclarationLastWins(t *testing.T) {
	dir := t.TempDir()
	src := `
export interface Box { min: number; }
export interface Box { max: number; }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifold-global-types.d.ts"), []byte(src), 0644))

	out := sink.NewMemorySink()
	require.NoError(t, GenerateTo(context.Background(), &Config{DefsDir: dir}, out))

	global := string(out.Get("global_types.rs"))
	assert.Contains(t, global, "pub max: f64,")
	assert.NotContains(t, global, "pub min: f64,")
}

func TestRulesFile(t *testing.T) {
	dir := t.TempDir()
	src := `
export type Weird = string | number;
export interface Holder { values: DoubleArray; }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifold-global-types.d.ts"), []byte(src), 0644))

	rulesPath := filepath.Join(dir, "rules.toml")
	rules := `
[aliases]
Weird = "string"

[mappings]
DoubleArray = "Vec<f64>"
`
	require.NoError(t, os.WriteFile(rulesPath, []byte(rules), 0644))

	out := sink.NewMemorySink()
	cfg := &Config{DefsDir: dir, RulesFile: rulesPath}
	require.NoError(t, GenerateTo(context.Background(), cfg, out))

	global := string(out.Get("global_types.rs"))
	assert.Contains(t, global, "pub type Weird = String;")
	assert.Contains(t, global, "pub values: Vec<f64>,")
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
