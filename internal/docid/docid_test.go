package docid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflare-ai/go-apiref/internal/metadata"
)

func boxType() *metadata.TypeDescriptor {
	return &metadata.TypeDescriptor{Name: "Box", Namespace: "App", GenericParams: []string{"T"}}
}

func method(owner *metadata.TypeDescriptor, name string, generics []string, params ...*metadata.TypeRef) *metadata.MemberDescriptor {
	m := &metadata.MemberDescriptor{Kind: metadata.Method, Name: name, DeclaringType: owner, GenericParams: generics}
	for i, p := range params {
		m.Params = append(m.Params, metadata.Parameter{Name: string(rune('a' + i)), Type: p})
	}
	return m
}

func TestTypeIdentifiers(t *testing.T) {
	box := boxType()
	slot := &metadata.TypeDescriptor{Name: "Slot", DeclaringType: box, GenericParams: []string{"K", "V"}}
	plain := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App.UI"}
	global := &metadata.TypeDescriptor{Name: "Loose"}

	assert.Equal(t, "T:App.Box`1", Type(box))
	assert.Equal(t, "T:App.Box`1.Slot`2", Type(slot))
	assert.Equal(t, "T:App.UI.Widget", Type(plain))
	assert.Equal(t, "T:Loose", Type(global))
	assert.Equal(t, "N:App.UI", Namespace("App.UI"))
}

func TestMemberIdentifiers(t *testing.T) {
	widget := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App"}
	box := boxType()
	i32 := metadata.Named("System.Int32")

	tests := []struct {
		name string
		m    *metadata.MemberDescriptor
		want string
	}{
		{"no params", method(widget, "Draw", nil), "M:App.Widget.Draw"},
		{"params", method(widget, "Move", nil, i32, metadata.Named("System.String")), "M:App.Widget.Move(System.Int32,System.String)"},
		{"ctor", &metadata.MemberDescriptor{Kind: metadata.Constructor, Name: ".ctor", SpecialName: true, DeclaringType: widget,
			Params: []metadata.Parameter{{Name: "x", Type: i32}}}, "M:App.Widget.#ctor(System.Int32)"},
		{"static ctor", &metadata.MemberDescriptor{Kind: metadata.Constructor, Name: ".cctor", SpecialName: true, DeclaringType: widget}, "M:App.Widget.#cctor"},
		{"field", &metadata.MemberDescriptor{Kind: metadata.Field, Name: "Count", DeclaringType: widget}, "F:App.Widget.Count"},
		{"property", &metadata.MemberDescriptor{Kind: metadata.Property, Name: "Name", DeclaringType: widget}, "P:App.Widget.Name"},
		{"indexer", &metadata.MemberDescriptor{Kind: metadata.Property, Name: "Item", DeclaringType: widget,
			Params: []metadata.Parameter{{Name: "i", Type: i32}}}, "P:App.Widget.Item(System.Int32)"},
		{"event", &metadata.MemberDescriptor{Kind: metadata.Event, Name: "Changed", DeclaringType: widget}, "E:App.Widget.Changed"},
		{"by ref", &metadata.MemberDescriptor{Kind: metadata.Method, Name: "Swap", DeclaringType: widget,
			Params: []metadata.Parameter{{Name: "a", Type: i32, Mode: metadata.ByRef}, {Name: "b", Type: i32, Mode: metadata.Out}}},
			"M:App.Widget.Swap(System.Int32@,System.Int32@)"},
		{"explicit interface", method(widget, "App.IDrawable.Draw", nil), "M:App.Widget.App#IDrawable#Draw"},
		{"type generic", method(box, "Set", nil, metadata.GenericParam("T")), "M:App.Box`1.Set(`0)"},
		{"method generic", method(box, "Map", []string{"U"}, metadata.Named("System.Func", metadata.GenericParam("T"), metadata.GenericParam("U"))),
			"M:App.Box`1.Map``1(System.Func{`0,``0})"},
		{"constructed", method(widget, "Fill", nil, metadata.Named("App.Box", metadata.Named("System.String"))), "M:App.Widget.Fill(App.Box{System.String})"},
		{"multi dim", method(widget, "Grid", nil, metadata.ArrayOf(i32, 3)), "M:App.Widget.Grid(System.Int32[,,])"},
		{"pointer", method(widget, "Raw", nil, metadata.PointerTo(metadata.Named("System.Byte"))), "M:App.Widget.Raw(System.Byte*)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Member(tt.m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrayOfPointerToArrayEncodesInNestingOrder(t *testing.T) {
	box := boxType()
	ref := metadata.ArrayOf(metadata.PointerTo(metadata.ArrayOf(metadata.GenericParam("T"), 1)), 1)

	got, err := EncodeType(ref, method(box, "Load", nil, ref))
	require.NoError(t, err)
	assert.Equal(t, "`0[]*[]", got)
}

func TestMethodParametersShadowTypeParameters(t *testing.T) {
	box := boxType()
	m := method(box, "Echo", []string{"T"}, metadata.GenericParam("T"))

	key, err := MemberKey(m)
	require.NoError(t, err)
	assert.Equal(t, "Echo``1(``0)", key)
}

func TestNestedTypeUsesOuterParameterIndexes(t *testing.T) {
	box := boxType()
	slot := &metadata.TypeDescriptor{Name: "Slot", DeclaringType: box, GenericParams: []string{"K"}}
	m := method(slot, "Put", nil, metadata.GenericParam("T"), metadata.GenericParam("K"))

	got, err := Member(m)
	require.NoError(t, err)
	assert.Equal(t, "M:App.Box`1.Slot`1.Put(`0,`1)", got)
}

func TestTypeNestedInGenericTypeCarriesArgumentsPerLevel(t *testing.T) {
	box := boxType()
	slot := &metadata.TypeDescriptor{Name: "Slot", DeclaringType: box}
	got, err := Member(method(box, "Put", nil, slot.SelfRef()))
	require.NoError(t, err)
	assert.Equal(t, "M:App.Box`1.Put(App.Box{`0}.Slot)", got)

	entry := &metadata.TypeDescriptor{Name: "Entry", DeclaringType: box, GenericParams: []string{"K"}}
	i32 := metadata.Named("System.Int32")
	ref := metadata.Nest(entry, []*metadata.TypeRef{metadata.GenericParam("T"), i32})
	require.NotNil(t, ref)
	got, err = Member(method(box, "Add", nil, ref))
	require.NoError(t, err)
	assert.Equal(t, "M:App.Box`1.Add(App.Box{`0}.Entry{System.Int32})", got)

	// Inside the nested type, both levels bind to its own parameters.
	got, err = Member(method(entry, "Copy", nil, entry.SelfRef()))
	require.NoError(t, err)
	assert.Equal(t, "M:App.Box`1.Entry`1.Copy(App.Box{`0}.Entry{`1})", got)
}

func TestByRefTypeAndModeEncodeOneMarker(t *testing.T) {
	widget := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App"}
	i32 := metadata.Named("System.Int32")
	for name, p := range map[string]metadata.Parameter{
		"type and mode": {Name: "a", Type: metadata.ByRefTo(i32), Mode: metadata.ByRef},
		"type only":     {Name: "a", Type: metadata.ByRefTo(i32)},
		"mode only":     {Name: "a", Type: i32, Mode: metadata.ByRef},
		"out":           {Name: "a", Type: metadata.ByRefTo(i32), Mode: metadata.Out},
	} {
		t.Run(name, func(t *testing.T) {
			m := &metadata.MemberDescriptor{Kind: metadata.Method, Name: "Swap", DeclaringType: widget,
				Params: []metadata.Parameter{p}}
			got, err := Member(m)
			require.NoError(t, err)
			assert.Equal(t, "M:App.Widget.Swap(System.Int32@)", got)
		})
	}
}

func TestConversionOperatorCarriesReturnType(t *testing.T) {
	vec := &metadata.TypeDescriptor{Name: "Vector", Namespace: "App", Kind: metadata.Struct}
	m := method(vec, "op_Implicit", nil, vec.SelfRef())
	m.SpecialName = true
	m.Type = metadata.Named("System.Double")

	got, err := Member(m)
	require.NoError(t, err)
	assert.Equal(t, "M:App.Vector.op_Implicit(App.Vector)~System.Double", got)

	eq := method(vec, "op_Equality", nil, vec.SelfRef(), vec.SelfRef())
	eq.SpecialName = true
	got, err = Member(eq)
	require.NoError(t, err)
	assert.Equal(t, "M:App.Vector.op_Equality(App.Vector,App.Vector)", got)
}

func TestUnboundGenericParameter(t *testing.T) {
	widget := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App"}
	_, err := MemberKey(method(widget, "Bad", nil, metadata.GenericParam("Q")))
	assert.ErrorIs(t, err, ErrUnboundGenericParameter)
}

func TestSynthesizedMembersHaveNoKey(t *testing.T) {
	widget := &metadata.TypeDescriptor{Name: "Widget", Namespace: "App"}
	tests := map[string]*metadata.MemberDescriptor{
		"getter":        {Kind: metadata.Method, Name: "get_Name", SpecialName: true, DeclaringType: widget},
		"adder":         {Kind: metadata.Method, Name: "add_Changed", SpecialName: true, DeclaringType: widget},
		"backing field": {Kind: metadata.Field, Name: "<Name>k__BackingField", DeclaringType: widget},
		"enum value":    {Kind: metadata.Field, Name: "value__", SpecialName: true, DeclaringType: widget},
		"bad operator":  {Kind: metadata.Method, Name: "op_Nonsense", SpecialName: true, DeclaringType: widget},
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			key, err := MemberKey(m)
			require.NoError(t, err)
			assert.Empty(t, key)
			assert.True(t, Synthesized(m))
		})
	}
}

func TestIdentifiersAreDeterministic(t *testing.T) {
	box := boxType()
	m := method(box, "Map", []string{"U"}, metadata.ArrayOf(metadata.GenericParam("U"), 2), metadata.GenericParam("T"))
	first, err := Member(m)
	require.NoError(t, err)
	for range 5 {
		again, err := Member(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
