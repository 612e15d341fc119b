// Package signature renders types and members as one-line, source-like
// declarations.
//
// Every function takes the declaring context explicitly: it decides when a
// type may be written with its simple name instead of its full name.
package signature

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-apiref/internal/metadata"
)

// ErrUnknownOperator is returned for a synthesized operator name that has
// no source symbol.
var ErrUnknownOperator = errors.New("unknown operator")

var primitives = map[string]string{
	"System.String":  "string",
	"System.Char":    "char",
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Boolean": "bool",
	"System.Void":    "void",
	"System.Object":  "object",
}

// FormatType renders ref as it would be written inside ctx. ctx may be nil
// when there is no declaring type.
func FormatType(ref *metadata.TypeRef, ctx *metadata.TypeDescriptor) string {
	var b strings.Builder
	writeType(&b, ref, ctx)
	return b.String()
}

// FormatParameter renders a parameter as "Type name", with a leading "ref"
// or "out" for parameters passed by reference.
func FormatParameter(p metadata.Parameter, ctx *metadata.TypeDescriptor) string {
	var b strings.Builder
	p = p.Normalized()
	switch p.Mode {
	case metadata.ByRef:
		b.WriteString("ref ")
	case metadata.Out:
		b.WriteString("out ")
	}
	writeType(&b, p.Type, ctx)
	if p.Name != "" {
		b.WriteByte(' ')
		b.WriteString(p.Name)
	}
	return b.String()
}

func writeType(b *strings.Builder, ref *metadata.TypeRef, ctx *metadata.TypeDescriptor) {
	if ref == nil {
		b.WriteString("void")
		return
	}
	switch ref.Kind {
	case metadata.ByRefRef:
		writeType(b, ref.Elem, ctx)
		b.WriteByte('&')
	case metadata.ArrayRef:
		writeType(b, ref.Elem, ctx)
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", ref.Rank-1))
		b.WriteByte(']')
	case metadata.PointerRef:
		writeType(b, ref.Elem, ctx)
		b.WriteByte('*')
	case metadata.GenericParamRef:
		b.WriteString(ref.Name)
	default:
		writeNamed(b, ref, ctx)
	}
}

func writeNamed(b *strings.Builder, ref *metadata.TypeRef, ctx *metadata.TypeDescriptor) {
	if !ref.IsGeneric() {
		if p, ok := primitives[ref.Name]; ok {
			b.WriteString(p)
			return
		}
	}
	switch {
	case ref.Name == metadata.NullableType && ref.Outer == nil && len(ref.Args) == 1:
		writeType(b, ref.Args[0], ctx)
		b.WriteByte('?')
	case ref.SameDefinition(ctx) || (ctx != nil && !ref.IsGeneric() && ref.Name == ctx.FullName()):
		// Inside itself a type is written by simple name, bound to the
		// arguments of every nesting level.
		b.WriteString(ref.SimpleName())
		writeArgs(b, ref.AllArgs(), ctx)
	case ref.Outer != nil:
		writeType(b, ref.Outer, ctx)
		b.WriteByte('.')
		b.WriteString(ref.SimpleName())
		writeArgs(b, ref.Args, ctx)
	default:
		b.WriteString(ref.Name)
		writeArgs(b, ref.Args, ctx)
	}
}

func writeArgs(b *strings.Builder, args []*metadata.TypeRef, ctx *metadata.TypeDescriptor) {
	if len(args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeType(b, arg, ctx)
	}
	b.WriteByte('>')
}

// SelfName renders the type's own name as written inside itself, e.g.
// "Box<T>".
func SelfName(t *metadata.TypeDescriptor) string {
	if len(t.AllGenericParams()) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('<')
	b.WriteString(strings.Join(t.AllGenericParams(), ","))
	b.WriteByte('>')
	return b.String()
}

// FormatTypeAsDeclaration renders the header of a type declaration, e.g.
// "public sealed class Box<T> : Container".
func FormatTypeAsDeclaration(t *metadata.TypeDescriptor, base *metadata.TypeRef) string {
	var b strings.Builder
	b.WriteString(t.Visibility.String())
	switch {
	case t.Kind == metadata.Class && t.Abstract && t.Sealed:
		b.WriteString(" static")
	case t.Kind == metadata.Class && t.Abstract:
		b.WriteString(" abstract")
	case t.Kind == metadata.Class && t.Sealed:
		b.WriteString(" sealed")
	}
	b.WriteByte(' ')
	b.WriteString(t.Kind.String())
	b.WriteByte(' ')
	b.WriteString(SelfName(t))

	var supers []string
	if base != nil && !t.IsValueType() && !base.Is(metadata.ObjectType) {
		supers = append(supers, formatSuper(base, t))
	}
	for _, iface := range t.Interfaces {
		supers = append(supers, formatSuper(iface, t))
	}
	if len(supers) > 0 {
		b.WriteString(" : ")
		b.WriteString(strings.Join(supers, ", "))
	}
	return b.String()
}

// formatSuper renders a base type or interface of t. Types declared directly
// in t's namespace are written with their simple name.
func formatSuper(ref *metadata.TypeRef, t *metadata.TypeDescriptor) string {
	prefix := t.Namespace + "."
	if ref.Kind != metadata.NamedRef || t.Namespace == "" || !strings.HasPrefix(ref.Name, prefix) ||
		strings.Contains(ref.Name[len(prefix):], ".") {
		return FormatType(ref, t)
	}
	short := *ref
	short.Name = ref.SimpleName()
	return FormatType(&short, t)
}

// FormatMemberAsCode renders a one-line declaration of m without a body.
func FormatMemberAsCode(m *metadata.MemberDescriptor) (string, error) {
	ctx := m.DeclaringType
	var b strings.Builder
	switch m.Kind {
	case metadata.Field:
		b.WriteString(m.Visibility.String())
		switch {
		case m.Const:
			b.WriteString(" const")
		case m.Static:
			b.WriteString(" static")
		}
		if m.ReadOnly && !m.Const {
			b.WriteString(" readonly")
		}
		fmt.Fprintf(&b, " %s %s", FormatType(m.Type, ctx), m.Name)
		if m.Const && m.Value != "" {
			fmt.Fprintf(&b, " = %s", m.Value)
		}
		b.WriteByte(';')
	case metadata.Property:
		b.WriteString(m.EffectiveVisibility().String())
		writeModifiers(&b, m)
		fmt.Fprintf(&b, " %s ", FormatType(m.Type, ctx))
		if m.IsIndexer() {
			b.WriteString("this[")
			writeParams(&b, m.Params, ctx)
			b.WriteByte(']')
		} else {
			b.WriteString(m.Name)
		}
		b.WriteString(" { ")
		writeAccessor(&b, "get", m.Getter, m.EffectiveVisibility())
		writeAccessor(&b, "set", m.Setter, m.EffectiveVisibility())
		b.WriteByte('}')
	case metadata.Event:
		b.WriteString(m.Visibility.String())
		writeModifiers(&b, m)
		fmt.Fprintf(&b, " event %s %s;", FormatType(m.Type, ctx), m.Name)
	case metadata.Constructor:
		b.WriteString(m.Visibility.String())
		if m.Static {
			b.WriteString(" static")
		}
		fmt.Fprintf(&b, " %s(", SelfName(ctx))
		writeParams(&b, m.Params, ctx)
		b.WriteString(");")
	default:
		b.WriteString(m.Visibility.String())
		writeModifiers(&b, m)
		if m.IsOperator() {
			sym, ok := metadata.OperatorSymbol(m.Name)
			if !ok {
				return "", fmt.Errorf("%w %q in %s", ErrUnknownOperator, m.Name, ctx.FullName())
			}
			if metadata.IsConversion(m.Name) {
				fmt.Fprintf(&b, " %s operator %s(", sym, FormatType(m.Type, ctx))
			} else {
				fmt.Fprintf(&b, " %s operator %s(", FormatType(m.Type, ctx), sym)
			}
		} else {
			fmt.Fprintf(&b, " %s %s", FormatType(m.Type, ctx), m.Name)
			writeGenerics(&b, m.GenericParams)
			b.WriteByte('(')
		}
		writeParams(&b, m.Params, ctx)
		b.WriteString(");")
	}
	return b.String(), nil
}

// MemberDisplayName renders the name of m used in headings and link text:
// constructors use the declaring type's name, operators their symbol, and
// methods, constructors and indexers list their parameter types.
func MemberDisplayName(m *metadata.MemberDescriptor) (string, error) {
	ctx := m.DeclaringType
	var b strings.Builder
	switch {
	case m.Kind == metadata.Constructor:
		b.WriteString(SelfName(ctx))
	case m.IsOperator():
		sym, ok := metadata.OperatorSymbol(m.Name)
		if !ok {
			return "", fmt.Errorf("%w %q in %s", ErrUnknownOperator, m.Name, ctx.FullName())
		}
		if metadata.IsConversion(m.Name) {
			return sym + " operator", nil
		}
		b.WriteString("operator ")
		b.WriteString(sym)
		return b.String(), nil
	case m.IsIndexer():
		b.WriteString("this")
	default:
		b.WriteString(m.Name)
	}
	if m.Kind == metadata.Method {
		writeGenerics(&b, m.GenericParams)
	}
	switch {
	case m.IsIndexer():
		b.WriteByte('[')
		writeParamTypes(&b, m.Params, ctx)
		b.WriteByte(']')
	case m.Kind == metadata.Method || m.Kind == metadata.Constructor:
		b.WriteByte('(')
		writeParamTypes(&b, m.Params, ctx)
		b.WriteByte(')')
	}
	return b.String(), nil
}

func writeModifiers(b *strings.Builder, m *metadata.MemberDescriptor) {
	inInterface := m.DeclaringType != nil && m.DeclaringType.Kind == metadata.Interface
	switch {
	case m.Static:
		b.WriteString(" static")
	case m.Abstract && !inInterface:
		b.WriteString(" abstract")
	case m.Virtual && !inInterface:
		b.WriteString(" virtual")
	}
}

func writeAccessor(b *strings.Builder, name string, acc *metadata.Accessor, prop metadata.Visibility) {
	if acc == nil {
		return
	}
	if acc.Visibility < prop {
		b.WriteString(acc.Visibility.String())
		b.WriteByte(' ')
	}
	b.WriteString(name)
	b.WriteString("; ")
}

func writeGenerics(b *strings.Builder, names []string) {
	if len(names) == 0 {
		return
	}
	b.WriteByte('<')
	b.WriteString(strings.Join(names, ","))
	b.WriteByte('>')
}

func writeParams(b *strings.Builder, params []metadata.Parameter, ctx *metadata.TypeDescriptor) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatParameter(p, ctx))
	}
}

func writeParamTypes(b *strings.Builder, params []metadata.Parameter, ctx *metadata.TypeDescriptor) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		p.Name = ""
		b.WriteString(FormatParameter(p, ctx))
	}
}
