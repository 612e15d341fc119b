// Package docblock renders documentation-comment blocks (<summary>,
// <param>, <returns>, <exception>, <remarks>, <example> and their inline
// tags) as Markdown.
package docblock

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/agentflare-ai/go-apiref/internal/markdown"
	"github.com/agentflare-ai/go-apiref/internal/resolve"
)

// Section labels.
const (
	ReturnsLabel    = "Returns"
	SeeAlsoLabel    = "See also"
	ExceptionsTitle = "Exceptions"
	RemarksTitle    = "Remarks"
	ExamplesTitle   = "Examples"
)

// LinkResolver resolves a documentation identifier to a link.
type LinkResolver interface {
	Resolve(id string) (resolve.Link, bool)
}

// Renderer writes documentation blocks through a LinkResolver. It holds no
// per-call state and may be shared by concurrent page renders.
type Renderer struct {
	Links LinkResolver
}

// Summary writes the <summary> of member, followed by a line break when
// breakLine is set.
func (r Renderer) Summary(b *markdown.Builder, member *etree.Element, breakLine bool) {
	summary := member.SelectElement("summary")
	if summary == nil {
		return
	}
	r.Text(b, summary)
	if breakLine {
		b.Br()
	}
}

// ParamsAndReturns writes <param>, <typeparam> and <returns> entries in
// document order.
func (r Renderer) ParamsAndReturns(b *markdown.Builder, member *etree.Element) {
	for _, el := range member.ChildElements() {
		switch el.Tag {
		case "param", "typeparam":
			b.Bold(el.SelectAttrValue("name", ""))
			b.Text(": ")
		case "returns":
			b.Bold(ReturnsLabel)
			b.Text(": ")
		default:
			continue
		}
		r.Text(b, el)
		b.Br()
	}
}

// Exceptions writes the <exception> entries under one heading of the given
// level. Nothing is written when there are none.
func (r Renderer) Exceptions(b *markdown.Builder, member *etree.Element, level int) {
	titled := false
	for _, el := range member.SelectElements("exception") {
		if !titled {
			titled = true
			b.H(level, ExceptionsTitle)
		}
		b.Bold(stripPrefix(el.SelectAttrValue("cref", "")))
		b.Text(": ")
		r.Text(b, el)
		b.Br()
	}
}

// Remarks writes the <remarks> section.
func (r Renderer) Remarks(b *markdown.Builder, member *etree.Element, level int) {
	r.section(b, member, "remarks", RemarksTitle, level)
}

// Example writes the <example> section.
func (r Renderer) Example(b *markdown.Builder, member *etree.Element, level int) {
	r.section(b, member, "example", ExamplesTitle, level)
}

func (r Renderer) section(b *markdown.Builder, member *etree.Element, tag, title string, level int) {
	el := member.SelectElement(tag)
	if el == nil {
		return
	}
	b.H(level, title)
	r.Text(b, el)
	b.Br()
}

// Text writes the content of el: text and inline tags in order.
func (r Renderer) Text(b *markdown.Builder, el *etree.Element) {
	w := &inline{b: b}
	r.content(w, el)
}

// inline tracks whether a word boundary is owed before the next piece of
// inline output.
type inline struct {
	b     *markdown.Builder
	space bool
}

func (w *inline) sep() {
	if w.space && !w.b.EndsWithSpace() {
		w.b.Text(" ")
	}
	w.space = false
}

// text writes s with runs of whitespace collapsed. Whitespace at either
// end only marks a word boundary.
func (w *inline) text(s string) {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			w.space = true
		}
		return
	}
	if isSpace(s[0]) {
		w.space = true
	}
	w.sep()
	w.b.Text(strings.Join(words, " "))
	w.space = isSpace(s[len(s)-1])
}

func (w *inline) block() {
	w.space = false
}

func (r Renderer) content(w *inline, el *etree.Element) {
	for i, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			w.text(t.Data)
		case *etree.Element:
			r.element(w, t, previousTag(el.Child, i))
		}
	}
}

// element writes one tag. prev is the tag of the previous significant
// sibling, "#text" for text and "" when there is none.
func (r Renderer) element(w *inline, el *etree.Element, prev string) {
	b := w.b
	switch el.Tag {
	case "c":
		w.sep()
		b.InlineCode(innerText(el))
	case "code":
		b.Code(dedent(innerText(el)))
		w.block()
	case "para":
		if prev != "" && prev != "para" {
			b.Br()
		}
		w.block()
		r.content(w, el)
		b.Br()
		w.block()
	case "value":
		r.content(w, el)
	case "see", "seealso":
		w.sep()
		if el.Tag == "seealso" {
			b.Bold(SeeAlsoLabel)
			b.Text(": ")
		}
		r.reference(b, el)
		w.space = false
	case "paramref", "typeparamref":
		if name := el.SelectAttrValue("name", ""); name != "" {
			w.sep()
			b.InlineCode(name)
		}
	case "list":
		r.list(w, el)
	}
}

func (r Renderer) reference(b *markdown.Builder, el *etree.Element) {
	if href := el.SelectAttr("href"); href != nil {
		text := strings.TrimSpace(innerText(el))
		if text == "" {
			text = href.Value
		}
		b.Link(text, href.Value, "")
		return
	}
	if word := el.SelectAttrValue("langword", ""); word != "" {
		b.InlineCode(word)
		return
	}
	cref := el.SelectAttrValue("cref", "")
	if cref == "" {
		return
	}
	if r.Links != nil {
		if link, ok := r.Links.Resolve(cref); ok {
			b.Link(link.Text, link.Path, link.Title)
			return
		}
	}
	b.Text(resolve.NotFoundText)
}

// list renders <list><item><term/><description/></item></list> as bullet
// items, one per line.
func (r Renderer) list(w *inline, el *etree.Element) {
	b := w.b
	if !b.AtLineStart() {
		b.Nl()
	}
	for _, item := range el.SelectElements("item") {
		w.block()
		b.Text("- ")
		if term := item.SelectElement("term"); term != nil {
			b.Bold(strings.TrimSpace(innerText(term)))
			b.Text(" - ")
		}
		if desc := item.SelectElement("description"); desc != nil {
			r.content(w, desc)
		} else {
			r.content(w, item)
		}
		b.Nl()
	}
	w.block()
}

// previousTag returns the tag of the nearest token before i that is an
// element or non-blank text. Blank text and comments are skipped.
func previousTag(tokens []etree.Token, i int) string {
	for j := i - 1; j >= 0; j-- {
		switch t := tokens[j].(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return "#text"
			}
		case *etree.Element:
			return t.Tag
		}
	}
	return ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func innerText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}

func stripPrefix(id string) string {
	if len(id) > 2 && id[1] == ':' {
		return id[2:]
	}
	return id
}

// dedent trims blank leading and trailing lines and removes the common
// indentation of the remaining ones.
func dedent(src string) string {
	src = strings.ReplaceAll(src, "\r", "")
	lines := strings.Split(src, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent > 0 {
		for i, line := range lines {
			if len(line) >= minIndent {
				lines[i] = line[minIndent:]
			}
		}
	}
	return strings.Join(lines, "\n")
}
