// Package docid computes documentation identifiers: the "T:Ns.Type",
// "M:Ns.Type.Method(System.Int32)" strings that key entries of a
// documentation-comment XML file.
package docid

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-apiref/internal/metadata"
)

// ErrUnboundGenericParameter is returned when a type reference names a
// generic parameter declared by neither the member nor its declaring type.
var ErrUnboundGenericParameter = errors.New("unbound generic parameter")

// Kind prefixes.
const (
	NamespacePrefix = 'N'
	TypePrefix      = 'T'
	FieldPrefix     = 'F'
	PropertyPrefix  = 'P'
	EventPrefix     = 'E'
	MethodPrefix    = 'M'
)

// Namespace returns the identifier of a dotted namespace path.
func Namespace(path string) string {
	return "N:" + path
}

// Type returns the identifier of a declared type.
func Type(t *metadata.TypeDescriptor) string {
	return "T:" + TypePath(t)
}

// TypePath returns the dotted path of t with a backtick arity marker after
// every generic nesting level, e.g. "Ns.Outer`1.Inner`2".
func TypePath(t *metadata.TypeDescriptor) string {
	return strings.Join(t.TreePath(), ".")
}

// Member returns the identifier of a declared member.
func Member(m *metadata.MemberDescriptor) (string, error) {
	key, err := MemberKey(m)
	if err != nil {
		return "", err
	}
	return string(Prefix(m)) + ":" + TypePath(m.DeclaringType) + "." + key, nil
}

// Prefix returns the kind letter of a member identifier.
func Prefix(m *metadata.MemberDescriptor) byte {
	switch m.Kind {
	case metadata.Field:
		return FieldPrefix
	case metadata.Property:
		return PropertyPrefix
	case metadata.Event:
		return EventPrefix
	default:
		return MethodPrefix
	}
}

// MemberKey returns the member portion of the member's identifier: the name
// with '.' replaced by '#', a double-backtick method arity when generic, and
// the parenthesized parameter encoding when parameters exist.
//
// The key is empty for members that have no documentation page of their
// own: compiler-synthesized members, property and event accessors, and
// operators without a symbol.
func MemberKey(m *metadata.MemberDescriptor) (string, error) {
	if Synthesized(m) {
		return "", nil
	}
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(m.Name, ".", "#"))
	if n := len(m.GenericParams); n > 0 && m.Kind == metadata.Method {
		b.WriteString("``")
		b.WriteString(strconv.Itoa(n))
	}
	if len(m.Params) > 0 {
		idx := newIndex(m)
		b.WriteByte('(')
		for i, p := range m.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			p = p.Normalized()
			if err := idx.encode(&b, p.Type); err != nil {
				return "", fmt.Errorf("%s.%s parameter %s: %w", m.DeclaringType.FullName(), m.Name, p.Name, err)
			}
			if p.Mode != metadata.ByValue {
				b.WriteByte('@')
			}
		}
		b.WriteByte(')')
	}
	// Conversion operators are overloaded on return type.
	if metadata.IsConversion(m.Name) {
		idx := newIndex(m)
		b.WriteByte('~')
		if err := idx.encode(&b, m.Type); err != nil {
			return "", fmt.Errorf("%s.%s return type: %w", m.DeclaringType.FullName(), m.Name, err)
		}
	}
	return b.String(), nil
}

// EncodeType encodes ref as it appears inside a parameter list, resolving
// generic parameters against the member's and its declaring type's
// generic parameter lists.
func EncodeType(ref *metadata.TypeRef, m *metadata.MemberDescriptor) (string, error) {
	var b strings.Builder
	if err := newIndex(m).encode(&b, ref); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Synthesized reports whether m is a compiler-generated member that is
// documented through another member or not at all.
func Synthesized(m *metadata.MemberDescriptor) bool {
	if strings.HasPrefix(m.Name, "<") || m.Name == "value__" {
		return true
	}
	if !m.SpecialName || m.Kind == metadata.Constructor {
		return false
	}
	if m.IsOperator() {
		_, ok := metadata.OperatorSymbol(m.Name)
		return !ok
	}
	// Accessors: get_X, set_X, add_X, remove_X, raise_X.
	return m.Kind == metadata.Method
}

type index struct {
	typeParams   []string
	methodParams []string
}

func newIndex(m *metadata.MemberDescriptor) index {
	var idx index
	if m.DeclaringType != nil {
		idx.typeParams = m.DeclaringType.AllGenericParams()
	}
	if m.Kind == metadata.Method {
		idx.methodParams = m.GenericParams
	}
	return idx
}

func (idx index) encode(b *strings.Builder, ref *metadata.TypeRef) error {
	if ref == nil {
		return fmt.Errorf("%w: missing type", metadata.ErrTypeSyntax)
	}
	switch ref.Kind {
	case metadata.GenericParamRef:
		// Method parameters shadow type parameters of the same name.
		if i := slices.Index(idx.methodParams, ref.Name); i >= 0 {
			b.WriteString("``")
			b.WriteString(strconv.Itoa(i))
			return nil
		}
		if i := slices.Index(idx.typeParams, ref.Name); i >= 0 {
			b.WriteByte('`')
			b.WriteString(strconv.Itoa(i))
			return nil
		}
		return fmt.Errorf("%w %q", ErrUnboundGenericParameter, ref.Name)
	case metadata.ArrayRef:
		if err := idx.encode(b, ref.Elem); err != nil {
			return err
		}
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", ref.Rank-1))
		b.WriteByte(']')
	case metadata.PointerRef:
		if err := idx.encode(b, ref.Elem); err != nil {
			return err
		}
		b.WriteByte('*')
	case metadata.ByRefRef:
		if err := idx.encode(b, ref.Elem); err != nil {
			return err
		}
		b.WriteByte('@')
	default:
		// Each nesting level carries its own arguments: Outer{`0}.Inner.
		if ref.Outer != nil {
			if err := idx.encode(b, ref.Outer); err != nil {
				return err
			}
			b.WriteByte('.')
			b.WriteString(ref.SimpleName())
		} else {
			b.WriteString(ref.Name)
		}
		if len(ref.Args) > 0 {
			b.WriteByte('{')
			for i, arg := range ref.Args {
				if i > 0 {
					b.WriteByte(',')
				}
				if err := idx.encode(b, arg); err != nil {
					return err
				}
			}
			b.WriteByte('}')
		}
	}
	return nil
}
