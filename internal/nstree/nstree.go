// Package nstree builds the namespace tree: an index from namespace path to
// type to member, with each node carrying its documentation identifier.
//
// A tree is assembled by a Builder and frozen before any rendering starts;
// a frozen *Tree is read-only and safe for concurrent use.
package nstree

import (
	"errors"
	"fmt"

	"github.com/agentflare-ai/go-apiref/internal/metadata"
)

// ErrFrozen is returned by Insert once the builder has been frozen.
var ErrFrozen = errors.New("namespace tree is frozen")

// Kind is the variant of a node.
type Kind int

const (
	NamespaceNode Kind = iota // Pure container, no payload
	TypeNode                  // Declared type; children are its members and nested types
	MemberNode                // Declared member; no children
)

func (k Kind) String() string {
	switch k {
	case NamespaceNode:
		return "namespace"
	case TypeNode:
		return "type"
	case MemberNode:
		return "member"
	default:
		return "unknown"
	}
}

// Node is one entry of the namespace tree. The active payload is selected
// by Kind: Type is set only on type nodes, Member only on member nodes.
type Node struct {
	kind     Kind
	key      string
	fullName string
	docID    string
	parent   *Node
	typ      *metadata.TypeDescriptor
	member   *metadata.MemberDescriptor
	children []*Node
	index    map[string]int
}

func newNode(kind Kind, key, fullName, id string, parent *Node) *Node {
	return &Node{
		kind:     kind,
		key:      key,
		fullName: fullName,
		docID:    id,
		parent:   parent,
		index:    make(map[string]int),
	}
}

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// Key returns the node's key within its parent.
func (n *Node) Key() string { return n.key }

// FullName returns the dotted path of the node from the root.
func (n *Node) FullName() string { return n.fullName }

// DocID returns the documentation identifier computed at insertion.
func (n *Node) DocID() string { return n.docID }

// Parent returns the enclosing node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Type returns the type payload of a type node.
func (n *Node) Type() *metadata.TypeDescriptor { return n.typ }

// Member returns the member payload of a member node.
func (n *Node) Member() *metadata.MemberDescriptor { return n.member }

// Children returns the child nodes in insertion order. The slice must not
// be modified.
func (n *Node) Children() []*Node { return n.children }

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// put stores child under its key, replacing any earlier child with the same
// key in place. It reports whether a child was replaced.
func (n *Node) put(child *Node) bool {
	if i, ok := n.index[child.key]; ok {
		n.children[i] = child
		return true
	}
	n.index[child.key] = len(n.children)
	n.children = append(n.children, child)
	return false
}

// Tree is a frozen namespace tree.
type Tree struct {
	root *Node
}

// Root returns the root namespace node, whose full name is empty.
func (t *Tree) Root() *Node { return t.root }

// Walk visits every node below the root depth first, in insertion order.
// Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			if fn(c) {
				walk(c)
			}
		}
	}
	walk(t.root)
}

// Lookup returns the node at the given path of keys.
func (t *Tree) Lookup(path ...string) (*Node, bool) {
	n := t.root
	for _, key := range path {
		next, ok := n.Child(key)
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

// Duplicate records a type or member key that was inserted twice under one
// parent.
type Duplicate struct {
	Type string // Documentation id of the enclosing namespace or type
	Key  string
}

func (d Duplicate) String() string {
	return fmt.Sprintf("%s: %s", d.Type, d.Key)
}
