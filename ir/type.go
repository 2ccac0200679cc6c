// Package ir defines the intermediate representation for Rust type shapes and
// declarations. These are language-level IR nodes that the lowering engine
// produces from TypeScript declaration syntax and the emitter serializes to
// Rust source text.
package ir

// TypeKind identifies the category of a type node.
type TypeKind int

const (
	KindPrimitive TypeKind = iota // Built-in scalar (String, f64, bool, unit)
	KindArray                     // Vec<T> or [T; N]
	KindTuple                     // (A, B, ...)
	KindUnion                     // Irreducible union, resolved to a placeholder at emission
	KindOption                    // Option<T>
	KindNamed                     // Bare reference to another declaration
	KindGeneric                   // Base<Args...>
	KindOpaque                    // Foreign handle with no Rust shape (JsValue)
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindUnion:
		return "Union"
	case KindOption:
		return "Option"
	case KindNamed:
		return "Named"
	case KindGeneric:
		return "Generic"
	case KindOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Type is the base interface for all type nodes. The variant set is closed:
// only types in this package implement it, so emitters may switch exhaustively.
type Type interface {
	// Kind returns the type kind for type switching.
	Kind() TypeKind

	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}

// PrimitiveKind identifies a built-in scalar type.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota // TS string -> Rust String
	PrimitiveF64                         // TS number -> Rust f64
	PrimitiveBool                        // TS boolean -> Rust bool
	PrimitiveUnit                        // TS void/undefined -> Rust ()
)

// String returns the string representation of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveString:
		return "String"
	case PrimitiveF64:
		return "F64"
	case PrimitiveBool:
		return "Bool"
	case PrimitiveUnit:
		return "Unit"
	default:
		return "Unknown"
	}
}

// Primitive represents a built-in scalar type.
type Primitive struct {
	typeBase
	PrimitiveKind PrimitiveKind
}

// Kind returns KindPrimitive.
func (t *Primitive) Kind() TypeKind { return KindPrimitive }

// Array represents an ordered collection: Vec<T> when Len is 0,
// a fixed-size [T; Len] otherwise.
type Array struct {
	typeBase

	// Elem is the element type.
	Elem Type

	// Len is 0 for Vec<T>, or >0 for a fixed-size array.
	Len int
}

// Kind returns KindArray.
func (t *Array) Kind() TypeKind { return KindArray }

// Tuple represents a heterogeneous fixed-length tuple.
// Homogeneous primitive tuples never reach the emitter: the lowering engine
// collapses them into fixed-size arrays first.
type Tuple struct {
	typeBase
	Elems []Type
}

// Kind returns KindTuple.
func (t *Tuple) Kind() TypeKind { return KindTuple }

// Union represents a union of variants with no clean Rust equivalent.
// The emitter replaces every Union with a deduplicated placeholder struct
// name; Union nodes never appear verbatim in output.
type Union struct {
	typeBase
	Variants []Type
}

// Kind returns KindUnion.
func (t *Union) Kind() TypeKind { return KindUnion }

// Option represents Option<Inner>.
//
// Invariant: the lowering engine only produces Option from a two-variant
// union where one variant reduced to the unit primitive. Declaration lowering
// additionally wraps optional properties, which can stack a second Option on
// top of the first.
type Option struct {
	typeBase
	Inner Type
}

// Kind returns KindOption.
func (t *Option) Kind() TypeKind { return KindOption }

// Named is a bare reference to another emitted or external declaration.
type Named struct {
	typeBase
	Name string
}

// Kind returns KindNamed.
func (t *Named) Kind() TypeKind { return KindNamed }

// Generic represents an applied generic type: Base<Args...>.
type Generic struct {
	typeBase
	Base string
	Args []Type
}

// Kind returns KindGeneric.
func (t *Generic) Kind() TypeKind { return KindGeneric }

// Opaque represents a foreign handle type that cannot be translated.
// It renders as wasm_bindgen::JsValue.
type Opaque struct {
	typeBase
}

// Kind returns KindOpaque.
func (t *Opaque) Kind() TypeKind { return KindOpaque }

// Convenience constructors, mirroring how the emitter and tests build shapes.

// Str returns the String primitive.
func Str() *Primitive { return &Primitive{PrimitiveKind: PrimitiveString} }

// F64 returns the f64 primitive.
func F64() *Primitive { return &Primitive{PrimitiveKind: PrimitiveF64} }

// Bool returns the bool primitive.
func Bool() *Primitive { return &Primitive{PrimitiveKind: PrimitiveBool} }

// Unit returns the unit primitive.
func Unit() *Primitive { return &Primitive{PrimitiveKind: PrimitiveUnit} }

// Vec returns a growable array of elem.
func Vec(elem Type) *Array { return &Array{Elem: elem} }

// FixedArray returns a fixed-size array of elem.
func FixedArray(elem Type, n int) *Array { return &Array{Elem: elem, Len: n} }

// TupleOf returns a tuple of the given element types.
func TupleOf(elems ...Type) *Tuple { return &Tuple{Elems: elems} }

// UnionOf returns a union of the given variants.
func UnionOf(variants ...Type) *Union { return &Union{Variants: variants} }

// OptionOf returns Option<inner>.
func OptionOf(inner Type) *Option { return &Option{Inner: inner} }

// Ref returns a bare reference to name.
func Ref(name string) *Named { return &Named{Name: name} }

// Apply returns base applied to args.
func Apply(base string, args ...Type) *Generic { return &Generic{Base: base, Args: args} }

// Foreign returns the opaque handle type.
func Foreign() *Opaque { return &Opaque{} }
