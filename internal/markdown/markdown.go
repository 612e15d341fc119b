// Package markdown is the text sink pages are written into.
package markdown

import (
	"fmt"
	"strings"
)

// Br is the hard line break used between documentation lines.
const Br = "<br />\n"

// CodeLang is the info string of fenced code blocks.
const CodeLang = "csharp"

// Builder accumulates Markdown text.
type Builder struct {
	sb strings.Builder
}

// H writes a heading of the given level (1-6).
func (b *Builder) H(level int, text string) {
	if level < 1 {
		level = 1
	}
	if !b.AtLineStart() {
		b.sb.WriteByte('\n')
	}
	b.sb.WriteString(strings.Repeat("#", level))
	b.sb.WriteByte(' ')
	b.sb.WriteString(text)
	b.sb.WriteByte('\n')
}

// Text writes text verbatim.
func (b *Builder) Text(s string) {
	b.sb.WriteString(s)
}

// Bold writes **s**.
func (b *Builder) Bold(s string) {
	fmt.Fprintf(&b.sb, "**%s**", s)
}

// Br writes a hard line break.
func (b *Builder) Br() {
	b.sb.WriteString(Br)
}

// Nl writes a newline.
func (b *Builder) Nl() {
	b.sb.WriteByte('\n')
}

// InlineCode writes `s`. Backticks inside s widen the fence.
func (b *Builder) InlineCode(s string) {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if fence != "`" {
		s = " " + s + " "
	}
	b.sb.WriteString(fence)
	b.sb.WriteString(s)
	b.sb.WriteString(fence)
}

// Code writes a fenced code block.
func (b *Builder) Code(code string) {
	if !b.AtLineStart() {
		b.sb.WriteByte('\n')
	}
	b.sb.WriteString("```")
	b.sb.WriteString(CodeLang)
	b.sb.WriteByte('\n')
	b.sb.WriteString(code)
	b.sb.WriteString("\n```\n")
}

// Link writes [text](target "title"). The title is omitted when empty.
func (b *Builder) Link(text, target, title string) {
	if title == "" {
		fmt.Fprintf(&b.sb, "[%s](%s)", text, target)
		return
	}
	fmt.Fprintf(&b.sb, `[%s](%s "%s")`, text, target, strings.ReplaceAll(title, `"`, `\"`))
}

// TableHeader writes a header row and its delimiter row.
func (b *Builder) TableHeader(columns ...string) {
	b.sb.WriteString("|" + strings.Join(columns, "|") + "|\n")
	b.sb.WriteString("|" + strings.Repeat("---|", len(columns)) + "\n")
}

// TableRow writes one table row.
func (b *Builder) TableRow(values ...string) {
	b.sb.WriteString("|" + strings.Join(values, "|") + "|\n")
}

// AtLineStart reports whether the last byte written is a newline or
// nothing has been written.
func (b *Builder) AtLineStart() bool {
	s := b.sb.String()
	return s == "" || s[len(s)-1] == '\n'
}

// EndsWithSpace reports whether the last byte written is whitespace.
func (b *Builder) EndsWithSpace() bool {
	s := b.sb.String()
	if s == "" {
		return true
	}
	switch s[len(s)-1] {
	case ' ', '\n', '\t':
		return true
	}
	return false
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// String returns the accumulated text.
func (b *Builder) String() string {
	return b.sb.String()
}

// TableCell makes s safe for a single table cell: carriage returns are
// dropped, line breaks become a literal <br /> and pipes are escaped.
func TableCell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, strings.TrimSpace(Br)))
	s = strings.ReplaceAll(s, Br, "\n")
	s = strings.ReplaceAll(s, "\n", "<br />")
	return strings.ReplaceAll(s, "|", `\|`)
}
