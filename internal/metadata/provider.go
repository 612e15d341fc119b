package metadata

import "slices"

// Provider yields the visible types of one library and, per type, its
// declared members.
//
// ListTypes returns outer types before the types nested in them.
// ListMembers returns members ordered constructors, fields, properties,
// events, methods, with declaration order kept within each kind. With
// publicOnly set both keep public, protected and protected internal
// entities only.
type Provider interface {
	ListTypes(publicOnly bool) ([]*TypeDescriptor, error)
	ListMembers(t *TypeDescriptor, publicOnly bool) []*MemberDescriptor
}

// Library is an in-memory Provider over a decoded descriptor graph.
type Library struct {
	Name  string
	Types []*TypeDescriptor // Outer types before nested ones
}

var _ Provider = (*Library)(nil)

// ListTypes returns the library's types, filtered by visibility. A nested
// type is visible only when every enclosing type is visible too.
func (l *Library) ListTypes(publicOnly bool) ([]*TypeDescriptor, error) {
	out := make([]*TypeDescriptor, 0, len(l.Types))
	for _, t := range l.Types {
		if publicOnly && !typeExposed(t) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ListMembers returns the declared members of t in provider order.
func (l *Library) ListMembers(t *TypeDescriptor, publicOnly bool) []*MemberDescriptor {
	out := make([]*MemberDescriptor, 0, len(t.Members))
	for _, m := range t.Members {
		if publicOnly && !m.EffectiveVisibility().Exposed() {
			continue
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b *MemberDescriptor) int {
		return int(a.Kind) - int(b.Kind)
	})
	return out
}

func typeExposed(t *TypeDescriptor) bool {
	for ; t != nil; t = t.DeclaringType {
		if !t.Visibility.Exposed() {
			return false
		}
	}
	return true
}
