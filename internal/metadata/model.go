// Package metadata defines the decoded type metadata of a compiled library:
// declared types, their members and the type references used at each site.
//
// The package does not read binaries. A Provider hands out an already-decoded
// descriptor graph; the YAML manifest loader in this package is one such
// provider.
package metadata

import (
	"strconv"
	"strings"
)

// TypeKind identifies the category of a declared type.
type TypeKind int

const (
	Class     TypeKind = iota // Reference type
	Struct                    // Value type
	Interface                 // Interface
	Enum                      // Enumeration
)

// String returns the declaration keyword of the kind.
func (k TypeKind) String() string {
	switch k {
	case Class:
		return "class"
	case Struct:
		return "struct"
	case Interface:
		return "interface"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// Visibility is the declared accessibility of a type, member or accessor.
// Values are ordered from narrowest to widest.
type Visibility int

const (
	Private Visibility = iota
	Internal
	Protected
	ProtectedInternal
	Public
)

// String returns the access keyword(s) of the visibility.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case ProtectedInternal:
		return "protected internal"
	case Internal:
		return "internal"
	default:
		return "private"
	}
}

// Exposed reports whether the visibility survives public-only filtering
// (public or reachable from derived types).
func (v Visibility) Exposed() bool {
	return v == Public || v == Protected || v == ProtectedInternal
}

// MemberKind identifies the category of a type member.
type MemberKind int

const (
	Constructor MemberKind = iota
	Field
	Property
	Event
	Method
)

// String returns the human-readable name of the member kind.
func (k MemberKind) String() string {
	switch k {
	case Constructor:
		return "constructor"
	case Field:
		return "field"
	case Property:
		return "property"
	case Event:
		return "event"
	case Method:
		return "method"
	default:
		return "unknown"
	}
}

// ByRefMode is how a parameter is passed.
type ByRefMode int

const (
	ByValue ByRefMode = iota
	ByRef
	Out
)

// TypeDescriptor describes a declared type.
type TypeDescriptor struct {
	Name          string          // Simple name, without arity marker
	Namespace     string          // Dotted namespace path (may be empty)
	DeclaringType *TypeDescriptor // Outer type of a nested type
	Kind          TypeKind
	Visibility    Visibility
	Abstract      bool
	Sealed        bool
	Base          *TypeRef   // nil when the type has no base (interfaces, the root type)
	Interfaces    []*TypeRef // Declared interfaces, in declaration order
	GenericParams []string   // Own declared generic parameter names
	Members       []*MemberDescriptor
}

// AllGenericParams returns the generic parameters visible inside the type:
// every outer type's parameters first, then the type's own. Positions in
// this slice are the declaring-type index space of documentation ids.
func (t *TypeDescriptor) AllGenericParams() []string {
	if t.DeclaringType == nil {
		return t.GenericParams
	}
	outer := t.DeclaringType.AllGenericParams()
	all := make([]string, 0, len(outer)+len(t.GenericParams))
	all = append(all, outer...)
	return append(all, t.GenericParams...)
}

// Arity returns the number of generic parameters the type declares itself.
func (t *TypeDescriptor) Arity() int {
	return len(t.GenericParams)
}

// FullName returns the dotted, arity-free name of the type including its
// namespace and outer types.
func (t *TypeDescriptor) FullName() string {
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "." + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Key returns the name segment of the type as it appears in documentation
// ids and the namespace tree: the simple name, followed by a backtick and
// the arity when the type declares generic parameters.
func (t *TypeDescriptor) Key() string {
	if len(t.GenericParams) == 0 {
		return t.Name
	}
	return t.Name + "`" + strconv.Itoa(len(t.GenericParams))
}

// TreePath returns the path segments of the type: namespace segments, then
// one Key per nesting level.
func (t *TypeDescriptor) TreePath() []string {
	if t.DeclaringType != nil {
		return append(t.DeclaringType.TreePath(), t.Key())
	}
	var segs []string
	if t.Namespace != "" {
		segs = strings.Split(t.Namespace, ".")
	}
	return append(segs, t.Key())
}

// IsValueType reports whether the type is a struct or an enum.
func (t *TypeDescriptor) IsValueType() bool {
	return t.Kind == Struct || t.Kind == Enum
}

// SelfRef returns a reference to the generic definition of the type bound
// to its own parameters, e.g. Box<T> inside Box<T>. A nested type's
// reference binds each nesting level to that level's parameters.
func (t *TypeDescriptor) SelfRef() *TypeRef {
	var args []*TypeRef
	for _, name := range t.GenericParams {
		args = append(args, GenericParam(name))
	}
	if t.DeclaringType != nil {
		return NestedIn(t.DeclaringType.SelfRef(), t.Name, args...)
	}
	return Named(t.FullName(), args...)
}

// Accessor is a property accessor.
type Accessor struct {
	Visibility Visibility
}

// Parameter is a formal parameter of a method, constructor or indexer.
type Parameter struct {
	Name string
	Type *TypeRef
	Mode ByRefMode
}

// Normalized folds a by-reference parameter type into the parameter's
// mode: a ByRefRef type is unwrapped once, and a by-value mode becomes
// ByRef. Formatting and identifier encoding both read parameters through
// it.
func (p Parameter) Normalized() Parameter {
	if p.Type != nil && p.Type.Kind == ByRefRef {
		p.Type = p.Type.Elem
		if p.Mode == ByValue {
			p.Mode = ByRef
		}
	}
	return p
}

// MemberDescriptor describes a declared member.
type MemberDescriptor struct {
	Kind          MemberKind
	Name          string
	DeclaringType *TypeDescriptor
	Visibility    Visibility
	Static        bool
	Abstract      bool
	Virtual       bool
	Const         bool
	ReadOnly      bool
	SpecialName   bool // Compiler-synthesized or operator member
	Params        []Parameter
	Type          *TypeRef // Return, field, property or event handler type
	GenericParams []string // Method generic parameter names
	Getter        *Accessor
	Setter        *Accessor
	Value         string // Literal value of an enum field or constant
}

// IsEnumValue reports whether the member is a value of an enum.
func (m *MemberDescriptor) IsEnumValue() bool {
	return m.Kind == Field && m.DeclaringType != nil && m.DeclaringType.Kind == Enum
}

// IsIndexer reports whether the member is a property taking parameters.
func (m *MemberDescriptor) IsIndexer() bool {
	return m.Kind == Property && len(m.Params) > 0
}

// IsOperator reports whether the member is a user-defined operator or
// conversion.
func (m *MemberDescriptor) IsOperator() bool {
	return m.Kind == Method && m.SpecialName && strings.HasPrefix(m.Name, "op_")
}

// EffectiveVisibility returns the visibility used for filtering. Properties
// take the widest of their accessors when accessors are present.
func (m *MemberDescriptor) EffectiveVisibility() Visibility {
	if m.Kind != Property || (m.Getter == nil && m.Setter == nil) {
		return m.Visibility
	}
	var v Visibility
	if m.Getter != nil {
		v = m.Getter.Visibility
	}
	if m.Setter != nil && m.Setter.Visibility > v {
		v = m.Setter.Visibility
	}
	return v
}
