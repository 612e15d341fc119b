// Package resolve turns documentation identifiers found in cross-references
// back into links to generated pages.
package resolve

import (
	"path"
	"strings"

	"github.com/agentflare-ai/go-apiref/internal/nstree"
	"github.com/agentflare-ai/go-apiref/internal/signature"
)

// NotFoundText replaces a link whose target is not in the tree.
const NotFoundText = "[Not found!]"

// PageExt is the file extension of generated pages.
const PageExt = ".md"

// Link is a resolved cross-reference.
type Link struct {
	Text  string // Display text
	Title string // Text with generic brackets escaped for Markdown
	Path  string // Page path relative to the link root's parent
}

// Resolver resolves identifiers against a frozen tree. Root is the
// directory name links are prefixed with.
type Resolver struct {
	Tree *nstree.Tree
	Root string
}

// Resolve looks id up in the tree. Namespace identifiers never resolve.
// The walk skips segments it cannot match and lands on the first type
// crossed, which is the page the link targets.
func (r Resolver) Resolve(id string) (Link, bool) {
	if len(id) < 2 || id[1] != ':' || id[0] == 'N' {
		return Link{}, false
	}
	segs, params := split(id[2:])
	root := r.Tree.Root()
	var page *nstree.Node
	last := root
	for i, seg := range segs {
		key := seg
		if i == len(segs)-1 {
			key += params
		}
		next, ok := last.Child(key)
		if !ok && i == len(segs)-1 {
			next, ok = overload(last, seg)
		}
		if !ok {
			continue
		}
		last = next
		if page == nil && last.Kind() == nstree.TypeNode {
			page = last
		}
	}
	if page == nil || last == root {
		return Link{}, false
	}

	var text string
	switch last.Kind() {
	case nstree.TypeNode:
		t := last.Type()
		text = signature.FormatType(t.SelfRef(), t)
	case nstree.MemberNode:
		m := last.Member()
		name, err := signature.MemberDisplayName(m)
		if err != nil {
			return Link{}, false
		}
		text = signature.FormatType(m.DeclaringType.SelfRef(), m.DeclaringType) + "." + name
	default:
		return Link{}, false
	}
	return Link{
		Text:  text,
		Title: EscapeMarkdown(text),
		Path:  PagePath(r.Root, page),
	}, true
}

// PagePath returns the link path of a page type node:
// root/Ns/Sub/Type.md. The arity backtick of generic pages is
// percent-encoded so it cannot open a code span.
func PagePath(root string, page *nstree.Node) string {
	rel := strings.ReplaceAll(page.FullName(), ".", "/") + PageExt
	rel = strings.ReplaceAll(rel, "`", "%60")
	if root == "" {
		return rel
	}
	return path.Join(root, rel)
}

// EscapeMarkdown escapes generic angle brackets.
func EscapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "<", `\<`)
}

// split separates the dotted path of an identifier body from a trailing
// parameter list. Dots inside the parameter list do not split.
func split(body string) ([]string, string) {
	var params string
	if i := strings.IndexByte(body, '('); i >= 0 {
		body, params = body[:i], body[i:]
	}
	return strings.Split(body, "."), params
}

// overload returns the only member of n whose key is name followed by a
// generic arity marker or a parameter list.
func overload(n *nstree.Node, name string) (*nstree.Node, bool) {
	if n.Kind() != nstree.TypeNode {
		return nil, false
	}
	var found *nstree.Node
	for _, c := range n.Children() {
		if c.Kind() != nstree.MemberNode {
			continue
		}
		k := c.Key()
		if !strings.HasPrefix(k, name) {
			continue
		}
		rest := k[len(name):]
		if !strings.HasPrefix(rest, "(") && !strings.HasPrefix(rest, "``") {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = c
	}
	return found, found != nil
}
