// Package dts models the declaration-file subset this tool consumes:
// interfaces, classes, enums, and type aliases, with union, tuple, array,
// generic, literal, function, and typeof type expressions.
//
// Type expressions form a closed node set so that lowering is a pattern
// match over tagged variants instead of string inspection of rendered
// type text.
package dts

// TypeKind identifies the category of a type expression node.
type TypeKind int

const (
	KindName TypeKind = iota
	KindStringLit
	KindNumberLit
	KindArray
	KindTuple
	KindUnion
	KindGeneric
	KindFunc
	KindTypeOf
	KindObject
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindName:
		return "Name"
	case KindStringLit:
		return "StringLit"
	case KindNumberLit:
		return "NumberLit"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindUnion:
		return "Union"
	case KindGeneric:
		return "Generic"
	case KindFunc:
		return "Func"
	case KindTypeOf:
		return "TypeOf"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Type is the base interface for all type expression nodes.
// The variant set is closed; only types in this package implement it.
type Type interface {
	Kind() TypeKind
	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}

// Name is a bare (possibly dotted or import-qualified) type reference.
// Unparsable type text also degrades to a Name carrying the raw text.
type Name struct {
	typeBase
	Text string
}

// Kind returns KindName.
func (t *Name) Kind() TypeKind { return KindName }

// StringLit is a string literal type such as "EvenOdd".
type StringLit struct {
	typeBase
	Value string
}

// Kind returns KindStringLit.
func (t *StringLit) Kind() TypeKind { return KindStringLit }

// NumberLit is a numeric literal type.
type NumberLit struct {
	typeBase
	Text string
}

// Kind returns KindNumberLit.
func (t *NumberLit) Kind() TypeKind { return KindNumberLit }

// Array is the postfix T[] form.
type Array struct {
	typeBase
	Elem Type
}

// Kind returns KindArray.
func (t *Array) Kind() TypeKind { return KindArray }

// Tuple is the [A, B, ...] form.
type Tuple struct {
	typeBase
	Elems []Type
}

// Kind returns KindTuple.
func (t *Tuple) Kind() TypeKind { return KindTuple }

// Union is the A | B | ... form. Variants keep source order.
type Union struct {
	typeBase
	Variants []Type
}

// Kind returns KindUnion.
func (t *Union) Kind() TypeKind { return KindUnion }

// Generic is an applied generic type Base<Args...>.
type Generic struct {
	typeBase
	Base string
	Args []Type
}

// Kind returns KindGeneric.
func (t *Generic) Kind() TypeKind { return KindGeneric }

// Func is a function type. The signature is not modeled; lowering emits a
// callable placeholder for it.
type Func struct {
	typeBase
}

// Kind returns KindFunc.
func (t *Func) Kind() TypeKind { return KindFunc }

// TypeOf is a `typeof X` query referring to the type of a declared value.
type TypeOf struct {
	typeBase
	Target string
}

// Kind returns KindTypeOf.
func (t *TypeOf) Kind() TypeKind { return KindTypeOf }

// Object is an anonymous object type literal. Members are not modeled;
// lowering degrades it to an opaque handle.
type Object struct {
	typeBase
}

// Kind returns KindObject.
func (t *Object) Kind() TypeKind { return KindObject }

// Prop is a property inside an interface or class body.
type Prop struct {
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// Param is a parameter of a method, constructor, or function.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Method is a named class member with a call signature.
type Method struct {
	Name   string
	Params []Param
	Return Type
}

// Decl is one top-level declaration in an artifact.
type Decl interface {
	// DeclName returns the declared name. Anonymous declarations
	// return the empty string and are skipped by lowering.
	DeclName() string
}

// Interface is an interface declaration.
type Interface struct {
	Name    string
	Extends []string
	Props   []Prop
}

// DeclName returns the interface's name.
func (d *Interface) DeclName() string { return d.Name }

// Class is a class declaration. Constructors, static methods, and instance
// methods are kept separate, each in declaration order.
type Class struct {
	Name    string
	Extends string
	Ctors   [][]Param
	Statics []Method
	Methods []Method
	Props   []Prop
}

// DeclName returns the class's name.
func (d *Class) DeclName() string { return d.Name }

// Enum is an enum declaration. Only member names are modeled.
type Enum struct {
	Name    string
	Members []string
}

// DeclName returns the enum's name.
func (d *Enum) DeclName() string { return d.Name }

// Alias is a type alias declaration.
type Alias struct {
	Name       string
	TypeParams []string
	RHS        Type
}

// DeclName returns the alias's name.
func (d *Alias) DeclName() string { return d.Name }

// File is one parsed declaration artifact.
type File struct {
	// Name is the artifact's base filename, e.g. "manifold-global-types.d.ts".
	Name string

	// Decls holds every top-level declaration in source order.
	Decls []Decl
}
