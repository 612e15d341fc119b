package metadata

import "strings"

// RefKind selects the active variant of a TypeRef.
type RefKind int

const (
	NamedRef        RefKind = iota // Named type, possibly with bound generic arguments
	GenericParamRef                // Generic parameter, by name
	ArrayRef                       // Array of Elem with Rank dimensions
	PointerRef                     // Pointer to Elem
	ByRefRef                       // Managed reference to Elem
)

// TypeRef describes how a type is used at one site. Exactly one variant is
// active, selected by Kind; use the constructors below rather than building
// values by hand.
type TypeRef struct {
	Kind RefKind

	// NamedRef: dotted, arity-free full name and the arguments bound at
	// this nesting level. A type nested in another carries the reference
	// to its declaring type, with that level's arguments, in Outer.
	// GenericParamRef: the parameter name.
	Name  string
	Args  []*TypeRef
	Outer *TypeRef

	// ArrayRef, PointerRef, ByRefRef.
	Elem *TypeRef
	Rank int
}

// Named returns a reference to a named type.
func Named(fullName string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: NamedRef, Name: fullName, Args: args}
}

// NestedIn returns a reference to the type name declared inside outer,
// with args bound to the nested type's own generic parameters.
func NestedIn(outer *TypeRef, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: NamedRef, Name: outer.Name + "." + name, Args: args, Outer: outer}
}

// GenericParam returns a reference to a generic parameter of the declaring
// type or method.
func GenericParam(name string) *TypeRef {
	return &TypeRef{Kind: GenericParamRef, Name: name}
}

// ArrayOf returns an array of elem with the given rank (minimum 1).
func ArrayOf(elem *TypeRef, rank int) *TypeRef {
	if rank < 1 {
		rank = 1
	}
	return &TypeRef{Kind: ArrayRef, Elem: elem, Rank: rank}
}

// PointerTo returns a pointer to elem.
func PointerTo(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: PointerRef, Elem: elem}
}

// ByRefTo returns a managed reference to elem.
func ByRefTo(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: ByRefRef, Elem: elem}
}

// SimpleName returns the last dotted segment of a named reference.
func (r *TypeRef) SimpleName() string {
	if i := strings.LastIndexByte(r.Name, '.'); i >= 0 {
		return r.Name[i+1:]
	}
	return r.Name
}

// AllArgs returns the bound arguments of every nesting level, outermost
// first, in the index space of TypeDescriptor.AllGenericParams.
func (r *TypeRef) AllArgs() []*TypeRef {
	if r.Outer == nil {
		return r.Args
	}
	outer := r.Outer.AllArgs()
	all := make([]*TypeRef, 0, len(outer)+len(r.Args))
	all = append(all, outer...)
	return append(all, r.Args...)
}

// IsGeneric reports whether the reference is a named type with bound
// generic arguments at any nesting level.
func (r *TypeRef) IsGeneric() bool {
	return r.Kind == NamedRef && len(r.AllArgs()) > 0
}

// Is reports whether r names the non-generic type fullName.
func (r *TypeRef) Is(fullName string) bool {
	return r != nil && r.Kind == NamedRef && !r.IsGeneric() && r.Name == fullName
}

// SameDefinition reports whether r is an instantiation of the generic
// definition of t (same full name, same total arity).
func (r *TypeRef) SameDefinition(t *TypeDescriptor) bool {
	if r.Kind != NamedRef || t == nil {
		return false
	}
	return r.Name == t.FullName() && len(r.AllArgs()) == len(t.AllGenericParams())
}

// Nest rebuilds a flat reference to t, whose args cover every nesting
// level, as a chain of per-level references. It returns nil when the
// argument count does not match t's total arity.
func Nest(t *TypeDescriptor, args []*TypeRef) *TypeRef {
	if len(args) != len(t.AllGenericParams()) {
		return nil
	}
	split := len(args) - len(t.GenericParams)
	var own []*TypeRef
	if split < len(args) {
		own = args[split:]
	}
	if t.DeclaringType == nil {
		return Named(t.FullName(), own...)
	}
	return NestedIn(Nest(t.DeclaringType, args[:split]), t.Name, own...)
}

// Well-known full names.
const (
	ObjectType   = "System.Object"
	NullableType = "System.Nullable"
	VoidType     = "System.Void"
)
