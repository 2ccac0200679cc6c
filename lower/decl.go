package lower

import (
	"go.uber.org/zap"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ident"
	"github.com/daccad/manifoldgen/ir"
)

// sealedArrayElems maps the sealed typed-array declarations to the element
// kind of the const-generic fixed array they alias to.
var sealedArrayElems = map[string]string{
	"SealedUint32Array":  "u32",
	"SealedFloat32Array": "f32",
}

// LowerDecl converts one source declaration into zero or one emittable
// declaration. A nil return means the declaration was skipped (anonymous,
// or an alias already synthesized into an enum); skipping never fails the
// run.
func (c *Context) LowerDecl(decl dts.Decl, cat ir.Category) ir.Decl {
	name := decl.DeclName()
	if name == "" {
		c.log.Warn("skipping anonymous declaration", zap.String("category", cat.String()))
		return nil
	}

	if elem, ok := sealedArrayElems[name]; ok {
		return &ir.TypeAlias{
			Name:         name,
			Target:       ir.Vec(ir.Ref(elem)),
			ConstGeneric: "N",
			Category:     cat,
		}
	}

	switch d := decl.(type) {
	case *dts.Alias:
		if _, ok := c.SynthesizedEnum(name); ok {
			// Emitted from the synthesis registry instead.
			return nil
		}
		target := c.Lower(d.RHS)
		if named, ok := target.(*ir.Named); ok && named.Name == name {
			// A self-referential alias marks an externally-managed handle.
			c.log.Debug("self-referential alias treated as opaque handle", zap.String("name", name))
			target = ir.Foreign()
		}
		return &ir.TypeAlias{Name: name, Target: target, Category: cat}

	case *dts.Interface:
		return c.lowerStruct(name, d.Props, cat)

	case *dts.Class:
		if cat == ir.CategoryEncapsulated {
			return c.lowerExtern(d, cat)
		}
		if len(d.Props) == 0 {
			// No fields and no foreign binding path: callers implement
			// methods by hand against an opaque handle.
			return &ir.TypeAlias{Name: name, Target: ir.Foreign(), Category: cat}
		}
		return c.lowerStruct(name, d.Props, cat)

	case *dts.Enum:
		variants := make([]ir.EnumVariant, len(d.Members))
		for i, m := range d.Members {
			variants[i] = ir.EnumVariant{Name: ident.ToPascalCase(m), WireName: m}
		}
		return &ir.Enum{Name: name, Variants: variants, Derives: ir.EnumDerives, Category: cat}

	default:
		c.log.Warn("skipping unsupported declaration kind", zap.String("name", name))
		return nil
	}
}

func (c *Context) lowerStruct(name string, props []dts.Prop, cat ir.Category) ir.Decl {
	fields := make([]ir.Field, 0, len(props))
	for _, p := range props {
		t := c.Lower(p.Type)
		if p.Optional {
			// Wrapped in addition to any Option produced by union collapse;
			// the resulting double Option is deliberately not deduplicated.
			t = ir.OptionOf(t)
		}
		fields = append(fields, ir.Field{
			Name:     ident.ToSnakeCase(p.Name),
			WireName: p.Name,
			Type:     t,
			Optional: p.Optional,
		})
	}
	return &ir.Struct{Name: name, Fields: fields, Derives: ir.DefaultDerives, Category: cat}
}

// lowerExtern converts an encapsulated-category class into a foreign
// binding block. Constructors become `new`, then statics, then instance
// methods, each group in declaration order. This is the only path that
// produces foreign-call bindings.
func (c *Context) lowerExtern(d *dts.Class, cat ir.Category) ir.Decl {
	block := &ir.ExternBlock{Name: d.Name, Category: cat}

	for _, params := range d.Ctors {
		block.Methods = append(block.Methods, ir.Method{
			Name:   "new",
			JSName: "new",
			Kind:   ir.MethodConstructor,
			Params: c.lowerParams(params),
			Return: ir.Ref(d.Name),
		})
	}
	for _, m := range d.Statics {
		block.Methods = append(block.Methods, c.lowerMethod(m, ir.MethodStatic))
	}
	for _, m := range d.Methods {
		block.Methods = append(block.Methods, c.lowerMethod(m, ir.MethodInstance))
	}
	return block
}

func (c *Context) lowerMethod(m dts.Method, kind ir.MethodKind) ir.Method {
	ret := ir.Type(ir.Unit())
	if m.Return != nil {
		ret = c.Lower(m.Return)
	}
	return ir.Method{
		Name:   ident.ToSnakeCase(m.Name),
		JSName: m.Name,
		Kind:   kind,
		Params: c.lowerParams(m.Params),
		Return: ret,
	}
}

func (c *Context) lowerParams(params []dts.Param) []ir.Param {
	out := make([]ir.Param, 0, len(params))
	for _, p := range params {
		t := c.Lower(p.Type)
		if p.Optional {
			if _, already := t.(*ir.Option); !already {
				t = ir.OptionOf(t)
			}
		}
		out = append(out, ir.Param{
			Name:     ident.ToSnakeCase(p.Name),
			Type:     t,
			Optional: p.Optional,
		})
	}
	return out
}
