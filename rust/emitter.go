// Package rust serializes declaration IR to Rust source text and
// partitions the result into per-category output artifacts.
package rust

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/daccad/manifoldgen/ident"
	"github.com/daccad/manifoldgen/ir"
	"github.com/daccad/manifoldgen/lower"
)

// Emitter renders IR declarations. Irreducible unions are resolved to
// placeholder names through the shared registry, which allocates them
// lazily as rendering encounters them.
type Emitter struct {
	unions *lower.UnionRegistry
}

// NewEmitter constructs an emitter over the run's union registry.
func NewEmitter(unions *lower.UnionRegistry) *Emitter {
	return &Emitter{unions: unions}
}

// RenderType renders one type node to Rust type syntax.
func (e *Emitter) RenderType(t ir.Type) string {
	switch t := t.(type) {
	case *ir.Primitive:
		switch t.PrimitiveKind {
		case ir.PrimitiveString:
			return "String"
		case ir.PrimitiveF64:
			return "f64"
		case ir.PrimitiveBool:
			return "bool"
		default:
			return "()"
		}
	case *ir.Array:
		if t.Len > 0 {
			return fmt.Sprintf("[%s; %d]", e.RenderType(t.Elem), t.Len)
		}
		return "Vec<" + e.RenderType(t.Elem) + ">"
	case *ir.Tuple:
		parts := make([]string, len(t.Elems))
		for i, el := range t.Elems {
			parts[i] = e.RenderType(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ir.Union:
		return e.unions.Name(t.Variants)
	case *ir.Option:
		return "Option<" + e.RenderType(t.Inner) + ">"
	case *ir.Named:
		return ident.Rust(t.Name)
	case *ir.Generic:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = e.RenderType(a)
		}
		return ident.Rust(t.Base) + "<" + strings.Join(parts, ", ") + ">"
	case *ir.Opaque:
		return "wasm_bindgen::JsValue"
	default:
		return "wasm_bindgen::JsValue"
	}
}

// EmitDecl emits one declaration followed by a blank line.
func (e *Emitter) EmitDecl(buf *bytes.Buffer, decl ir.Decl) {
	switch d := decl.(type) {
	case *ir.Struct:
		e.emitStruct(buf, d)
	case *ir.Enum:
		e.emitEnum(buf, d)
	case *ir.ExternBlock:
		e.emitExtern(buf, d)
	case *ir.TypeAlias:
		e.emitAlias(buf, d)
	}
	buf.WriteString("\n")
}

func (e *Emitter) emitStruct(buf *bytes.Buffer, d *ir.Struct) {
	if d.Doc != "" {
		for _, line := range strings.Split(d.Doc, "\n") {
			fmt.Fprintf(buf, "/// %s\n", line)
		}
	}
	fmt.Fprintf(buf, "#[derive(%s)]\n", strings.Join(d.Derives, ", "))
	fmt.Fprintf(buf, "pub struct %s {\n", ident.Rust(d.Name))
	for _, f := range d.Fields {
		if f.WireName != "" && f.WireName != f.Name {
			fmt.Fprintf(buf, "    #[serde(rename = %q)]\n", f.WireName)
		}
		if f.Optional {
			buf.WriteString("    #[serde(skip_serializing_if = \"Option::is_none\")]\n")
		}
		fmt.Fprintf(buf, "    pub %s: %s,\n", ident.Rust(f.Name), e.RenderType(f.Type))
	}
	buf.WriteString("}\n")
}

func (e *Emitter) emitEnum(buf *bytes.Buffer, d *ir.Enum) {
	fmt.Fprintf(buf, "#[derive(%s)]\n", strings.Join(d.Derives, ", "))
	fmt.Fprintf(buf, "pub enum %s {\n", ident.Rust(d.Name))
	for _, v := range d.Variants {
		fmt.Fprintf(buf, "    #[serde(rename = %q)]\n", v.WireName)
		fmt.Fprintf(buf, "    %s,\n", v.Name)
	}
	buf.WriteString("}\n")
}

func (e *Emitter) emitAlias(buf *bytes.Buffer, d *ir.TypeAlias) {
	if d.ConstGeneric != "" {
		if arr, ok := d.Target.(*ir.Array); ok {
			fmt.Fprintf(buf, "pub type %s<const %s: usize> = [%s; %s];\n",
				ident.Rust(d.Name), d.ConstGeneric, e.RenderType(arr.Elem), d.ConstGeneric)
			return
		}
	}
	fmt.Fprintf(buf, "pub type %s = %s;\n", ident.Rust(d.Name), e.RenderType(d.Target))
}

func (e *Emitter) emitExtern(buf *bytes.Buffer, d *ir.ExternBlock) {
	name := ident.Rust(d.Name)
	buf.WriteString("#[wasm_bindgen]\n")
	buf.WriteString("extern \"C\" {\n")
	fmt.Fprintf(buf, "    type %s;\n", name)

	for _, m := range d.Methods {
		buf.WriteString("\n")
		switch m.Kind {
		case ir.MethodConstructor:
			buf.WriteString("    #[wasm_bindgen(constructor)]\n")
		case ir.MethodStatic:
			fmt.Fprintf(buf, "    #[wasm_bindgen(static_method_of = %s, js_name = %s)]\n", name, m.JSName)
		case ir.MethodInstance:
			if m.JSName != "" && m.JSName != m.Name {
				fmt.Fprintf(buf, "    #[wasm_bindgen(method, js_name = %s)]\n", m.JSName)
			} else {
				buf.WriteString("    #[wasm_bindgen(method)]\n")
			}
		}

		var params []string
		if m.Kind == ir.MethodInstance {
			params = append(params, fmt.Sprintf("this: &%s", name))
		}
		for _, p := range m.Params {
			params = append(params, fmt.Sprintf("%s: %s", ident.Rust(p.Name), e.RenderType(p.Type)))
		}

		fmt.Fprintf(buf, "    fn %s(%s)", ident.Rust(m.Name), strings.Join(params, ", "))
		if !isUnitType(m.Return) {
			fmt.Fprintf(buf, " -> %s", e.RenderType(m.Return))
		}
		buf.WriteString(";\n")
	}
	buf.WriteString("}\n")
}

// EmitPlaceholder emits one deduplicated union placeholder: a doc comment
// listing the original variant shapes, a single opaque payload field, and
// an unimplemented constructor.
func (e *Emitter) EmitPlaceholder(buf *bytes.Buffer, p lower.Placeholder) {
	buf.WriteString("/// TODO: placeholder for a TypeScript union with no Rust equivalent.\n")
	buf.WriteString("/// Variants:\n")
	for _, v := range p.Variants {
		fmt.Fprintf(buf, "///   - %s\n", e.RenderType(v))
	}
	buf.WriteString("#[derive(Debug, Clone, Serialize, Deserialize)]\n")
	fmt.Fprintf(buf, "pub struct %s {\n", p.Name)
	buf.WriteString("    pub value: String,\n")
	buf.WriteString("}\n\n")
	fmt.Fprintf(buf, "impl %s {\n", p.Name)
	buf.WriteString("    pub fn new() -> Self {\n")
	fmt.Fprintf(buf, "        unimplemented!(\"%s: construct from one of the variants above\")\n", p.Name)
	buf.WriteString("    }\n")
	buf.WriteString("}\n")
}

func isUnitType(t ir.Type) bool {
	p, ok := t.(*ir.Primitive)
	return ok && p.PrimitiveKind == ir.PrimitiveUnit
}
