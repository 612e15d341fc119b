package resolve

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-apiref/internal/metadata"
	"github.com/agentflare-ai/go-apiref/internal/nstree"
)

func newResolver(t *testing.T) Resolver {
	t.Helper()
	widget := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App", Visibility: metadata.Public}
	i32 := metadata.Named("System.Int32")
	widget.Members = []*metadata.MemberDescriptor{
		{Kind: metadata.Method, Name: "Draw", DeclaringType: widget, Visibility: metadata.Public},
		{Kind: metadata.Method, Name: "Move", DeclaringType: widget, Visibility: metadata.Public,
			Params: []metadata.Parameter{{Name: "x", Type: i32}}},
		{Kind: metadata.Method, Name: "Move", DeclaringType: widget, Visibility: metadata.Public,
			Params: []metadata.Parameter{{Name: "x", Type: i32}, {Name: "y", Type: i32}}},
		{Kind: metadata.Property, Name: "Size", DeclaringType: widget, Visibility: metadata.Public, Type: i32},
	}
	box := &metadata.TypeDescriptor{Name: "Box", Namespace: "App", Visibility: metadata.Public, GenericParams: []string{"T"}}
	box.Members = []*metadata.MemberDescriptor{
		{Kind: metadata.Method, Name: "Map", DeclaringType: box, Visibility: metadata.Public, GenericParams: []string{"U"},
			Params: []metadata.Parameter{{Name: "f", Type: metadata.Named("System.Func", metadata.GenericParam("T"), metadata.GenericParam("U"))}}},
	}
	slot := &metadata.TypeDescriptor{Name: "Slot", Namespace: "App", DeclaringType: box, Visibility: metadata.Public}
	slot.Members = []*metadata.MemberDescriptor{
		{Kind: metadata.Field, Name: "Value", DeclaringType: slot, Visibility: metadata.Public, Type: metadata.GenericParam("T")},
	}

	tree, _, err := nstree.Build(&metadata.Library{Types: []*metadata.TypeDescriptor{widget, box, slot}}, true, zerolog.Nop())
	require.NoError(t, err)
	return Resolver{Tree: tree, Root: "api"}
}

func TestResolveMember(t *testing.T) {
	link, ok := newResolver(t).Resolve("M:App.Widget.Draw")
	require.True(t, ok)
	assert.Contains(t, link.Path, "App/Widget")
	assert.Contains(t, link.Text, "Draw")
	assert.Equal(t, Link{Text: "Widget.Draw()", Title: "Widget.Draw()", Path: "api/App/Widget.md"}, link)
}

func TestResolve(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		id   string
		text string
		path string
	}{
		{"T:App.Widget", "Widget", "api/App/Widget.md"},
		{"P:App.Widget.Size", "Widget.Size", "api/App/Widget.md"},
		{"M:App.Widget.Move(System.Int32,System.Int32)", "Widget.Move(int, int)", "api/App/Widget.md"},
		{"M:App.Widget.Move(System.Int32)", "Widget.Move(int)", "api/App/Widget.md"},
		{"T:App.Box`1", "Box<T>", "api/App/Box%601.md"},
		{"M:App.Box`1.Map``1(System.Func{`0,``0})", "Box<T>.Map<U>(System.Func<T,U>)", "api/App/Box%601.md"},
		{"M:App.Box`1.Map", "Box<T>.Map<U>(System.Func<T,U>)", "api/App/Box%601.md"},
		{"T:App.Box`1.Slot", "Slot<T>", "api/App/Box%601.md"},
		{"F:App.Box`1.Slot.Value", "Slot<T>.Value", "api/App/Box%601.md"},
		// Unknown segments are skipped.
		{"M:App.Legacy.Widget.Draw", "Widget.Draw()", "api/App/Widget.md"},
		// An ambiguous overload falls back to the type.
		{"M:App.Widget.Move", "Widget", "api/App/Widget.md"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			link, ok := r.Resolve(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.text, link.Text)
			assert.Equal(t, EscapeMarkdown(tt.text), link.Title)
			assert.Equal(t, tt.path, link.Path)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	r := newResolver(t)
	for _, id := range []string{
		"T:App.Missing",
		"N:App",
		"M:Other.Thing",
		"",
		"Widget",
	} {
		t.Run(id, func(t *testing.T) {
			_, ok := r.Resolve(id)
			assert.False(t, ok)
		})
	}
}

func TestPagePathWithoutRoot(t *testing.T) {
	r := newResolver(t)
	page, ok := r.Tree.Lookup("App", "Widget")
	require.True(t, ok)
	assert.Equal(t, "App/Widget.md", PagePath("", page))
	assert.Equal(t, "docs/ref/App/Widget.md", PagePath("docs/ref", page))
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `Box\<T>.Map\<U>`, EscapeMarkdown("Box<T>.Map<U>"))
	assert.Equal(t, "Widget", EscapeMarkdown("Widget"))
}
