package rust

import (
	"bytes"
	"strings"

	"github.com/daccad/manifoldgen/ir"
)

// TodoFileName is the shared artifact holding every placeholder union.
const TodoFileName = "todo_unions.rs"

// FileName returns the output artifact name for a category.
func FileName(cat ir.Category) string {
	switch cat {
	case ir.CategoryGlobal:
		return "global_types.rs"
	case ir.CategoryEncapsulated:
		return "encapsulated_types.rs"
	default:
		return "manifold_main.rs"
	}
}

// File assembles one category artifact: a generated-from header, imports
// inferred from the emitted body, and the declarations in input order.
func (e *Emitter) File(sourceName string, decls []ir.Decl) []byte {
	var body bytes.Buffer
	for _, d := range decls {
		e.EmitDecl(&body, d)
	}

	var out bytes.Buffer
	out.WriteString("// Auto-generated Rust types from " + sourceName + "\n\n")
	writeImports(&out, body.String(), true)
	out.Write(body.Bytes())
	return normalizeTrailing(out.Bytes())
}

// TodoFile assembles the shared placeholder-union artifact. Placeholders
// are iterated by index because rendering a variant list can allocate
// further placeholders for unions nested inside it.
func (e *Emitter) TodoFile() []byte {
	var body bytes.Buffer
	for i := 0; i < e.unions.Len(); i++ {
		p := e.unions.Placeholders()[i]
		e.EmitPlaceholder(&body, p)
		body.WriteString("\n")
	}

	var out bytes.Buffer
	out.WriteString("// Auto-generated placeholder types for TypeScript unions\n")
	out.WriteString("// that have no direct Rust representation. Finish by hand.\n\n")
	writeImports(&out, body.String(), false)
	out.Write(body.Bytes())
	return normalizeTrailing(out.Bytes())
}

// writeImports infers the artifact's use lines by scanning its emitted
// body for marker substrings. Imports are never hard-coded per category.
func writeImports(out *bytes.Buffer, body string, linkTodo bool) {
	var imports []string
	if strings.Contains(body, "wasm_bindgen") {
		imports = append(imports, "use wasm_bindgen::prelude::*;")
	}
	if strings.Contains(body, "Serialize") || strings.Contains(body, "Deserialize") {
		imports = append(imports, "use serde::{Serialize, Deserialize};")
	}
	if linkTodo && strings.Contains(body, "Todo") {
		imports = append(imports, "use super::todo_unions::*;")
	}
	for _, line := range imports {
		out.WriteString(line + "\n")
	}
	if len(imports) > 0 {
		out.WriteString("\n")
	}
}

// normalizeTrailing collapses trailing blank lines to a single newline.
func normalizeTrailing(b []byte) []byte {
	return append(bytes.TrimRight(b, "\n"), '\n')
}
