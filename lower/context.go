// Package lower converts parsed declaration syntax into the Rust IR.
// It hosts the pipeline context (alias registry, placeholder-union registry,
// normalization rules), the type-shape lowering engine, and declaration
// lowering.
package lower

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/daccad/manifoldgen/dts"
	"github.com/daccad/manifoldgen/ident"
	"github.com/daccad/manifoldgen/ir"
)

// Context carries all state for one generation run. Lifecycle:
// construct, populate via RegisterAliases (pass 1), Freeze, then read-only
// use during declaration lowering and emission (pass 2). A Context is never
// reused across runs.
type Context struct {
	log *zap.Logger

	// aliases maps every declared alias name to its parsed definition,
	// after normalization rules are applied.
	aliases map[string]dts.Type

	// enums holds enum declarations synthesized from all-string-literal
	// alias unions, keyed by alias name.
	enums map[string]*ir.Enum

	// rules maps alias names to replacement definitions applied at
	// registration time.
	rules map[string]dts.Type

	// primitives is the name -> scalar kind table consulted first during
	// name lowering.
	primitives map[string]ir.PrimitiveKind

	// mappings rewrites otherwise-unknown type names to target names.
	mappings map[string]string

	Unions *UnionRegistry

	frozen bool
}

// NewContext constructs a fresh pipeline context with the built-in
// primitive table and the built-in alias normalization rules.
func NewContext(log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Context{
		log:     log,
		aliases: make(map[string]dts.Type),
		enums:   make(map[string]*ir.Enum),
		rules:   make(map[string]dts.Type),
		primitives: map[string]ir.PrimitiveKind{
			"string":    ir.PrimitiveString,
			"number":    ir.PrimitiveF64,
			"boolean":   ir.PrimitiveBool,
			"void":      ir.PrimitiveUnit,
			"undefined": ir.PrimitiveUnit,
		},
		mappings: make(map[string]string),
		Unions:   NewUnionRegistry(),
	}

	// Polygons is declared as `SimplePolygon | SimplePolygon[]`, which has
	// no unambiguous Rust surface; the list form subsumes the single one.
	if err := c.AddRule("Polygons", "SimplePolygon[]"); err != nil {
		panic(err) // built-in rule text is a constant
	}
	return c
}

// AddRule registers an alias normalization rule: whenever an alias with
// this name is registered, its definition is replaced by def.
func (c *Context) AddRule(name, def string) error {
	if c.frozen {
		return errors.New("context is frozen")
	}
	rhs, err := parseRuleType(def)
	if err != nil {
		return errors.Wrapf(err, "normalization rule for %s", name)
	}
	c.rules[name] = rhs
	return nil
}

// AddMapping rewrites an otherwise-unknown type name to a target name
// during fallback lowering.
func (c *Context) AddMapping(from, to string) error {
	if c.frozen {
		return errors.New("context is frozen")
	}
	c.mappings[from] = to
	return nil
}

// parseRuleType parses a replacement definition by wrapping it in a
// synthetic alias declaration.
func parseRuleType(def string) (dts.Type, error) {
	file, err := dts.Parse("rule", "type __rule = "+def+";")
	if err != nil {
		return nil, err
	}
	for _, d := range file.Decls {
		if a, ok := d.(*dts.Alias); ok {
			return a.RHS, nil
		}
	}
	return nil, errors.Newf("not a type expression: %q", def)
}

// RegisterAliases records every type alias in the file and synthesizes
// enum declarations for all-string-literal unions. This must run for all
// artifacts before any declaration lowering, so unions lowered later can
// resolve aliases declared in files processed after theirs.
func (c *Context) RegisterAliases(file *dts.File, cat ir.Category) error {
	if c.frozen {
		return errors.New("context is frozen")
	}

	for _, decl := range file.Decls {
		alias, ok := decl.(*dts.Alias)
		if !ok || alias.Name == "" {
			continue
		}

		rhs := alias.RHS
		if fixed, ok := c.rules[alias.Name]; ok {
			c.log.Debug("applying alias normalization rule", zap.String("alias", alias.Name))
			rhs = fixed
		}
		c.aliases[alias.Name] = rhs

		if literals, ok := stringLiteralUnion(rhs); ok {
			variants := make([]ir.EnumVariant, len(literals))
			for i, lit := range literals {
				variants[i] = ir.EnumVariant{Name: ident.ToPascalCase(lit), WireName: lit}
			}
			c.enums[alias.Name] = &ir.Enum{
				Name:     alias.Name,
				Variants: variants,
				Derives:  ir.EnumDerives,
				Category: cat,
			}
			c.log.Debug("synthesized enum from string-literal union",
				zap.String("alias", alias.Name), zap.Int("variants", len(variants)))
		}
	}
	return nil
}

// Freeze marks the end of the registry pass. Registration afterwards is an
// error; lowering may begin.
func (c *Context) Freeze() { c.frozen = true }

// IsAlias reports whether name was registered as a type alias.
func (c *Context) IsAlias(name string) bool {
	_, ok := c.aliases[name]
	return ok
}

// Alias returns the registered definition for name.
func (c *Context) Alias(name string) (dts.Type, bool) {
	t, ok := c.aliases[name]
	return t, ok
}

// SynthesizedEnum returns the enum synthesized for an alias name, if any.
// Such aliases bypass generic alias lowering.
func (c *Context) SynthesizedEnum(name string) (*ir.Enum, bool) {
	e, ok := c.enums[name]
	return e, ok
}

// stringLiteralUnion reports whether t is a union of more than one string
// literal, returning the literal values in source order.
func stringLiteralUnion(t dts.Type) ([]string, bool) {
	union, ok := t.(*dts.Union)
	if !ok || len(union.Variants) < 2 {
		return nil, false
	}
	literals := make([]string, len(union.Variants))
	for i, v := range union.Variants {
		lit, ok := v.(*dts.StringLit)
		if !ok {
			return nil, false
		}
		literals[i] = lit.Value
	}
	return literals, true
}

// Placeholder is one deduplicated irreducible union, pending emission into
// the shared todo artifact.
type Placeholder struct {
	// Name is the stable synthetic struct name, e.g. "Todo001Union".
	Name string

	// Variants is the variant list from the first encounter, in its
	// original order.
	Variants []ir.Type
}

// UnionRegistry assigns stable names to irreducible unions, keyed by an
// order-independent structural signature. Entries are created lazily the
// first time a union is rendered; re-encountering a set-equal variant list
// anywhere returns the same name.
type UnionRegistry struct {
	names map[string]string
	order []Placeholder
	seq   int
}

// NewUnionRegistry constructs an empty registry.
func NewUnionRegistry() *UnionRegistry {
	return &UnionRegistry{names: make(map[string]string)}
}

// Name returns the placeholder name for the given variant list, allocating
// a new one on first encounter.
func (r *UnionRegistry) Name(variants []ir.Type) string {
	sig := Signature(variants)
	if name, ok := r.names[sig]; ok {
		return name
	}
	r.seq++
	name := fmt.Sprintf("Todo%03dUnion", r.seq)
	r.names[sig] = name
	r.order = append(r.order, Placeholder{Name: name, Variants: variants})
	return name
}

// Placeholders returns every registered placeholder in allocation order.
func (r *UnionRegistry) Placeholders() []Placeholder {
	return r.order
}

// Len returns the number of registered placeholders.
func (r *UnionRegistry) Len() int { return len(r.order) }

// Signature computes the canonical structural signature of a variant list:
// each variant is serialized to a stable textual form, the forms are
// sorted, and joined. Variant order in the source never affects the result.
func Signature(variants []ir.Type) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = typeSignature(v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func typeSignature(t ir.Type) string {
	switch t := t.(type) {
	case *ir.Primitive:
		return "prim:" + t.PrimitiveKind.String()
	case *ir.Array:
		return fmt.Sprintf("arr[%d]:%s", t.Len, typeSignature(t.Elem))
	case *ir.Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = typeSignature(e)
		}
		return "tuple(" + strings.Join(parts, ",") + ")"
	case *ir.Union:
		return "union(" + Signature(t.Variants) + ")"
	case *ir.Option:
		return "opt:" + typeSignature(t.Inner)
	case *ir.Named:
		return "named:" + t.Name
	case *ir.Generic:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = typeSignature(a)
		}
		return "generic:" + t.Base + "(" + strings.Join(parts, ",") + ")"
	case *ir.Opaque:
		return "opaque"
	default:
		return "unknown"
	}
}
