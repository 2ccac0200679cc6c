package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"numProp", "num_prop"},
		{"vertProperties", "vert_properties"},
		{"NumProp", "num_prop"},
		{"volume", "volume"},
		{"runOriginalID", "run_original_i_d"},
		{"x", "x"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToSnakeCase(tt.in), "ToSnakeCase(%q)", tt.in)
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EvenOdd", "EvenOdd"},
		{"NonZero", "NonZero"},
		{"Positive", "Positive"},
		{"round", "Round"},
		{"no error", "NoError"},
		{"non_finite_vertex", "NonFiniteVertex"},
		{"kebab-case-name", "KebabCaseName"},
		{"mixedUp name", "MixedUpName"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPascalCase(tt.in), "ToPascalCase(%q)", tt.in)
	}
}

func TestRustKeywordEscaping(t *testing.T) {
	assert.Equal(t, "r#type", Rust("type"))
	assert.Equal(t, "r#fn", Rust("fn"))
	assert.Equal(t, "r#move", Rust("move"))
	assert.Equal(t, "Box", Rust("Box"))
	assert.Equal(t, "volume", Rust("volume"))
}
