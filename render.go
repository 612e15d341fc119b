package main

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/agentflare-ai/go-apiref/internal/docblock"
	"github.com/agentflare-ai/go-apiref/internal/docsource"
	"github.com/agentflare-ai/go-apiref/internal/markdown"
	"github.com/agentflare-ai/go-apiref/internal/metadata"
	"github.com/agentflare-ai/go-apiref/internal/nstree"
	"github.com/agentflare-ai/go-apiref/internal/resolve"
	"github.com/agentflare-ai/go-apiref/internal/signature"
)

// Heading levels of the documentation sections under a type and under a
// member.
const (
	typeSectionLevel   = 2
	memberSectionLevel = 3
)

var enumColumns = []string{"Name", "Value", "Description"}

// pageRenderer renders the pages of a frozen tree. It only reads shared
// state, so one value serves every page goroutine.
type pageRenderer struct {
	docs   *docsource.Source
	blocks docblock.Renderer
	log    zerolog.Logger
}

func newPageRenderer(docs *docsource.Source, links docblock.LinkResolver, log zerolog.Logger) *pageRenderer {
	return &pageRenderer{
		docs:   docs,
		blocks: docblock.Renderer{Links: links},
		log:    log,
	}
}

// renderPage renders a top-level type and everything nested in it.
func (r *pageRenderer) renderPage(page *nstree.Node) ([]byte, error) {
	var b markdown.Builder
	if err := r.renderType(&b, page); err != nil {
		return nil, err
	}
	r.log.Debug().Str("type", page.DocID()).Int("bytes", b.Len()).Msg("page rendered")
	return []byte(b.String()), nil
}

func (r *pageRenderer) renderType(b *markdown.Builder, n *nstree.Node) error {
	t := n.Type()
	b.H(1, resolve.EscapeMarkdown(signature.FormatType(t.SelfRef(), t)))
	b.Code(signature.FormatTypeAsDeclaration(t, t.Base))

	if doc, ok := r.docs.Lookup(n.DocID()); ok {
		r.blocks.Summary(b, doc, true)
		r.sections(b, doc, typeSectionLevel)
	}
	if t.Kind == metadata.Enum {
		if !b.AtLineStart() {
			b.Nl()
		}
		b.Nl()
		b.TableHeader(enumColumns...)
	}

	for _, c := range n.Children() {
		var err error
		switch c.Kind() {
		case nstree.TypeNode:
			err = r.renderType(b, c)
		case nstree.MemberNode:
			err = r.renderMember(b, c)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *pageRenderer) renderMember(b *markdown.Builder, n *nstree.Node) error {
	m := n.Member()
	doc, hasDoc := r.docs.Lookup(n.DocID())
	if m.IsEnumValue() {
		var desc string
		if hasDoc {
			var cell markdown.Builder
			r.blocks.Summary(&cell, doc, false)
			desc = cell.String()
		}
		b.TableRow(m.Name, m.Value, markdown.TableCell(desc))
		return nil
	}

	name, err := signature.MemberDisplayName(m)
	if err != nil {
		return fmt.Errorf("render %s: %w", n.DocID(), err)
	}
	code, err := signature.FormatMemberAsCode(m)
	if err != nil {
		return fmt.Errorf("render %s: %w", n.DocID(), err)
	}
	b.H(2, resolve.EscapeMarkdown(name))
	b.Code(code)
	if hasDoc {
		r.blocks.Summary(b, doc, true)
		r.sections(b, doc, memberSectionLevel)
	}
	return nil
}

func (r *pageRenderer) sections(b *markdown.Builder, doc *etree.Element, level int) {
	r.blocks.ParamsAndReturns(b, doc)
	r.blocks.Exceptions(b, doc, level)
	r.blocks.Remarks(b, doc, level)
	r.blocks.Example(b, doc, level)
}

// summaryLine returns the first line of a node's summary, for the table of
// contents.
func (r *pageRenderer) summaryLine(n *nstree.Node) string {
	doc, ok := r.docs.Lookup(n.DocID())
	if !ok {
		return ""
	}
	var b markdown.Builder
	r.blocks.Summary(&b, doc, false)
	line, _, _ := strings.Cut(strings.TrimSpace(b.String()), "\n")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), strings.TrimSpace(markdown.Br)))
}
