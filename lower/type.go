package lower

import (
	"strings"

	"go.uber.org/zap"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ir"
)

// Lower converts one source type expression into its Rust IR shape.
// It is total: unrepresentable shapes degrade to placeholders, and a
// missing type lowers to the unit primitive.
func (c *Context) Lower(t dts.Type) ir.Type {
	if t == nil {
		return ir.Unit()
	}

	switch t := t.(type) {
	case *dts.Name:
		return c.lowerName(t.Text)

	case *dts.StringLit:
		// Literal types have no dedicated lowering rule; like the general
		// fallback they keep their textual form, which also keeps distinct
		// literal unions structurally distinct.
		return ir.Ref(`"` + t.Value + `"`)

	case *dts.NumberLit:
		return ir.Ref(t.Text)

	case *dts.Array:
		return ir.Vec(c.Lower(t.Elem))

	case *dts.Tuple:
		return c.lowerTuple(t)

	case *dts.Union:
		return c.lowerUnion(t)

	case *dts.TypeOf:
		// The referenced value's type, not a "typeof" wrapper.
		return ir.Ref(lastSegment(t.Target))

	case *dts.Func:
		// Callable placeholder; the signature is not modeled.
		return ir.Ref("fn()")

	case *dts.Generic:
		args := make([]ir.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.Lower(a)
		}
		return ir.Apply(t.Base, args...)

	case *dts.Object:
		c.log.Debug("degrading anonymous object type to opaque handle")
		return ir.Foreign()

	default:
		return ir.Foreign()
	}
}

// lowerTuple converts each element; a tuple whose elements all reduce to
// the same primitive kind collapses to a fixed-size array, the preferred
// Rust surface for homogeneous fixed tuples.
func (c *Context) lowerTuple(t *dts.Tuple) ir.Type {
	elems := make([]ir.Type, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = c.Lower(e)
	}

	if len(elems) > 0 {
		if first, ok := elems[0].(*ir.Primitive); ok {
			uniform := true
			for _, e := range elems[1:] {
				p, ok := e.(*ir.Primitive)
				if !ok || p.PrimitiveKind != first.PrimitiveKind {
					uniform = false
					break
				}
			}
			if uniform {
				return ir.FixedArray(first, len(elems))
			}
		}
	}
	return ir.TupleOf(elems...)
}

// lowerUnion applies the union precedence rules: registered alias names
// stay as named references, a two-variant union with one absent variant
// collapses to Option, and anything else stays an irreducible union for
// the deduplicator to resolve at emission time.
func (c *Context) lowerUnion(t *dts.Union) ir.Type {
	variants := make([]ir.Type, len(t.Variants))
	for i, v := range t.Variants {
		if name, ok := v.(*dts.Name); ok && c.IsAlias(name.Text) {
			// Original alias names are more legible than their expansions.
			variants[i] = ir.Ref(name.Text)
			continue
		}
		variants[i] = c.Lower(v)
	}

	if len(variants) == 2 {
		if isUnit(variants[0]) {
			return ir.OptionOf(variants[1])
		}
		if isUnit(variants[1]) {
			return ir.OptionOf(variants[0])
		}
	}

	return ir.UnionOf(variants...)
}

func isUnit(t ir.Type) bool {
	p, ok := t.(*ir.Primitive)
	return ok && p.PrimitiveKind == ir.PrimitiveUnit
}

// lowerName resolves a bare type name: primitive table first, then
// configured mappings, then qualifier cleanup with alias-registry lookup,
// and finally the cleaned text verbatim.
func (c *Context) lowerName(text string) ir.Type {
	if kind, ok := c.primitives[text]; ok {
		return &ir.Primitive{PrimitiveKind: kind}
	}
	if mapped, ok := c.mappings[text]; ok {
		return ir.Ref(mapped)
	}

	cleaned := cleanQualifiers(text)
	if c.IsAlias(cleaned) {
		return ir.Ref(cleaned)
	}
	if suffix := lastSegment(cleaned); suffix != cleaned && c.IsAlias(suffix) {
		return ir.Ref(suffix)
	}
	if cleaned != text {
		c.log.Debug("cleaned qualified type name",
			zap.String("from", text), zap.String("to", cleaned))
	}
	return ir.Ref(cleaned)
}

// cleanQualifiers strips import-path prefixes (`import("...").X`) and a
// trailing `.default` module qualifier.
func cleanQualifiers(text string) string {
	if strings.HasPrefix(text, "import(") {
		if idx := strings.Index(text, ")."); idx >= 0 {
			text = text[idx+2:]
		}
	}
	text = strings.TrimSuffix(text, ".default")
	return text
}

func lastSegment(text string) string {
	if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
		return text[idx+1:]
	}
	return text
}
