package ir

// Category classifies an input artifact and every declaration lowered from it.
// It is computed once per artifact and never changes afterwards.
type Category int

const (
	// CategoryMain holds declarations from the top-level manifold artifact.
	CategoryMain Category = iota

	// CategoryGlobal holds simple value and enum-like types.
	CategoryGlobal

	// CategoryEncapsulated holds opaque handle classes bound through
	// wasm_bindgen extern blocks.
	CategoryEncapsulated
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryMain:
		return "main"
	case CategoryGlobal:
		return "global"
	case CategoryEncapsulated:
		return "encapsulated"
	default:
		return "unknown"
	}
}

// DeclKind identifies the category of a declaration node.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclEnum
	DeclExternBlock
	DeclTypeAlias
)

// String returns the string representation of the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "Struct"
	case DeclEnum:
		return "Enum"
	case DeclExternBlock:
		return "ExternBlock"
	case DeclTypeAlias:
		return "TypeAlias"
	default:
		return "Unknown"
	}
}

// Decl is the base interface for all emittable top-level declarations.
// The variant set is closed; only types in this package implement it.
type Decl interface {
	// Kind returns the declaration kind for type switching.
	Kind() DeclKind

	// DeclName returns the declared Rust identifier.
	DeclName() string

	// Cat returns the originating artifact's category, used for
	// output partitioning.
	Cat() Category

	sealed()
}

// Field is a single struct field.
type Field struct {
	// Name is the Rust field identifier, already snake_case-converted.
	Name string

	// WireName is the original TypeScript property name, used for serde
	// rename attributes when it differs from Name.
	WireName string

	// Type is the field's lowered type.
	Type Type

	// Optional marks properties declared with `?` in the source.
	Optional bool
}

// Struct represents a Rust struct declaration.
type Struct struct {
	Name     string
	Fields   []Field
	Derives  []string
	Doc      string
	Category Category
}

// Kind returns DeclStruct.
func (d *Struct) Kind() DeclKind { return DeclStruct }

// DeclName returns the struct's name.
func (d *Struct) DeclName() string { return d.Name }

// Cat returns the struct's originating category.
func (d *Struct) Cat() Category { return d.Category }

func (*Struct) sealed() {}

// EnumVariant is a single enum variant.
type EnumVariant struct {
	// Name is the PascalCase-converted variant identifier.
	Name string

	// WireName is the original string literal, kept for serde rename.
	WireName string
}

// Enum represents a Rust enum declaration.
type Enum struct {
	Name     string
	Variants []EnumVariant
	Derives  []string
	Category Category
}

// Kind returns DeclEnum.
func (d *Enum) Kind() DeclKind { return DeclEnum }

// DeclName returns the enum's name.
func (d *Enum) DeclName() string { return d.Name }

// Cat returns the enum's originating category.
func (d *Enum) Cat() Category { return d.Category }

func (*Enum) sealed() {}

// MethodKind tags how a method descriptor is dispatched.
type MethodKind int

const (
	MethodConstructor MethodKind = iota
	MethodStatic
	MethodInstance
)

// String returns the string representation of the method kind.
func (k MethodKind) String() string {
	switch k {
	case MethodConstructor:
		return "constructor"
	case MethodStatic:
		return "static"
	case MethodInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Param is a single method argument.
type Param struct {
	Name     string
	Type     Type
	Optional bool
}

// Method describes one binding inside an extern block.
type Method struct {
	// Name is the Rust fn identifier (snake_case).
	Name string

	// JSName is the original TypeScript method name, emitted as js_name
	// when it differs from Name.
	JSName string

	Kind   MethodKind
	Params []Param
	Return Type
}

// ExternBlock represents a wasm_bindgen extern "C" block binding one
// opaque class and its methods.
type ExternBlock struct {
	Name     string
	Methods  []Method
	Category Category
}

// Kind returns DeclExternBlock.
func (d *ExternBlock) Kind() DeclKind { return DeclExternBlock }

// DeclName returns the bound type's name.
func (d *ExternBlock) DeclName() string { return d.Name }

// Cat returns the block's originating category.
func (d *ExternBlock) Cat() Category { return d.Category }

func (*ExternBlock) sealed() {}

// TypeAlias represents a `pub type Name = Target;` declaration.
type TypeAlias struct {
	Name     string
	Target   Type
	Category Category

	// ConstGeneric, when non-empty, emits the alias with a const-generic
	// parameter of that name (used for the sealed typed-array aliases).
	ConstGeneric string
}

// Kind returns DeclTypeAlias.
func (d *TypeAlias) Kind() DeclKind { return DeclTypeAlias }

// DeclName returns the alias's name.
func (d *TypeAlias) DeclName() string { return d.Name }

// Cat returns the alias's originating category.
func (d *TypeAlias) Cat() Category { return d.Category }

func (*TypeAlias) sealed() {}

// DefaultDerives is the derive set for data structs.
var DefaultDerives = []string{"Debug", "Clone", "Serialize", "Deserialize"}

// EnumDerives is the derive set for synthesized enums.
var EnumDerives = []string{"Debug", "Clone", "PartialEq", "Eq", "Serialize", "Deserialize"}
