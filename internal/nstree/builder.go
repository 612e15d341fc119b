package nstree

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentflare-ai/go-apiref/internal/docid"
	"github.com/agentflare-ai/go-apiref/internal/metadata"
)

// Builder assembles a namespace tree one type at a time.
type Builder struct {
	root       *Node
	frozen     bool
	duplicates []Duplicate
	log        zerolog.Logger
}

// NewBuilder returns an empty builder. Pass zerolog.Nop() to discard
// diagnostics.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		root: newNode(NamespaceNode, "", "", docid.Namespace(""), nil),
		log:  log,
	}
}

// Insert adds t under its namespace path, creating namespace nodes as
// needed, then adds one member node per member with a non-empty member key.
// Members are expected in provider order.
//
// A type or member key already present under the same parent replaces the
// earlier node and is recorded in Duplicates.
func (b *Builder) Insert(t *metadata.TypeDescriptor, members []*metadata.MemberDescriptor) error {
	if b.frozen {
		return ErrFrozen
	}
	path := t.TreePath()
	parent := b.root
	for i, seg := range path[:len(path)-1] {
		next, ok := parent.Child(seg)
		if !ok {
			full := strings.Join(path[:i+1], ".")
			next = newNode(NamespaceNode, seg, full, docid.Namespace(full), parent)
			parent.put(next)
		}
		parent = next
	}

	key := path[len(path)-1]
	node := newNode(TypeNode, key, strings.Join(path, "."), docid.Type(t), parent)
	node.typ = t
	if prev, ok := parent.Child(key); ok {
		if prev.kind == NamespaceNode {
			// A namespace sharing the type's name keeps its contents.
			for _, c := range prev.children {
				c.parent = node
				node.put(c)
			}
		} else {
			d := Duplicate{Type: parent.docID, Key: key}
			b.duplicates = append(b.duplicates, d)
			b.log.Warn().Str("type", d.Type).Str("key", d.Key).Msg("duplicate type key overwritten")
		}
	}
	parent.put(node)

	for _, m := range members {
		if err := b.insertMember(node, m); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) insertMember(owner *Node, m *metadata.MemberDescriptor) error {
	key, err := docid.MemberKey(m)
	if err != nil {
		return fmt.Errorf("insert %s: %w", owner.docID, err)
	}
	if key == "" {
		return nil
	}
	id, err := docid.Member(m)
	if err != nil {
		return fmt.Errorf("insert %s: %w", owner.docID, err)
	}
	child := newNode(MemberNode, key, owner.fullName+"."+key, id, owner)
	child.member = m
	if owner.put(child) {
		d := Duplicate{Type: owner.docID, Key: key}
		b.duplicates = append(b.duplicates, d)
		b.log.Warn().Str("type", d.Type).Str("key", d.Key).Msg("duplicate member key overwritten")
	}
	return nil
}

// Duplicates returns every type or member key that overwrote an earlier
// node.
// A correct encoding never produces any.
func (b *Builder) Duplicates() []Duplicate {
	return b.duplicates
}

// Freeze ends construction and returns the read-only tree. Later calls to
// Insert fail with ErrFrozen.
func (b *Builder) Freeze() *Tree {
	b.frozen = true
	return &Tree{root: b.root}
}

// Build loads every visible type from p and returns the frozen tree along
// with the duplicate keys met while building.
func Build(p metadata.Provider, publicOnly bool, log zerolog.Logger) (*Tree, []Duplicate, error) {
	types, err := p.ListTypes(publicOnly)
	if err != nil {
		return nil, nil, fmt.Errorf("list types: %w", err)
	}
	b := NewBuilder(log)
	for _, t := range types {
		if err := b.Insert(t, p.ListMembers(t, publicOnly)); err != nil {
			return nil, nil, err
		}
	}
	log.Debug().Int("types", len(types)).Msg("namespace tree built")
	return b.Freeze(), b.Duplicates(), nil
}
