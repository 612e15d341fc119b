package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
library: Sample
types:
  - namespace: App
    name: Shape
    abstract: true
    members:
      - kind: method
        name: Area
        abstract: true
        returns: double
      - kind: property
        name: Label
        type: string
        set: private
  - namespace: App
    name: Point
    kind: struct
    members:
      - kind: constructor
        params:
          - { name: x, type: int }
          - { name: y, type: "int&" }
      - kind: constructor
        static: true
  - namespace: App
    name: Mode
    kind: enum
    members:
      - { name: Off, value: "0" }
      - { name: On, value: "1" }
  - namespace: App
    name: IDrawable
    kind: interface
  - namespace: App
    name: Box
    generics: [T]
    base: none
    members:
      - kind: method
        name: Take
        returns: "App.Box<T>.Slot<string>"
        params:
          - { name: slot, type: "App.Box.Slot<T,int>" }
          - { name: count, type: "ref int", mode: ref }
    nested:
      - name: Slot
        generics: [U]
        members:
          - kind: method
            name: Swap
            generics: [V]
            returns: V
            params:
              - { name: a, type: T }
              - { name: b, type: U, mode: out }
  - namespace: App
    name: Tools
    static: true
    visibility: internal
`

func decodeSample(t *testing.T) *Library {
	t.Helper()
	lib, err := DecodeManifest(strings.NewReader(sampleManifest))
	require.NoError(t, err)
	return lib
}

func findType(t *testing.T, lib *Library, fullName string) *TypeDescriptor {
	t.Helper()
	for _, ty := range lib.Types {
		if ty.FullName() == fullName {
			return ty
		}
	}
	t.Fatalf("type %s not found", fullName)
	return nil
}

func TestDecodeManifestTypes(t *testing.T) {
	lib := decodeSample(t)
	assert.Equal(t, "Sample", lib.Name)
	require.Len(t, lib.Types, 7)

	shape := findType(t, lib, "App.Shape")
	assert.Equal(t, Class, shape.Kind)
	assert.True(t, shape.Abstract)
	assert.True(t, shape.Base.Is(ObjectType))

	point := findType(t, lib, "App.Point")
	assert.Equal(t, Struct, point.Kind)
	assert.True(t, point.Sealed)
	assert.True(t, point.Base.Is("System.ValueType"))

	mode := findType(t, lib, "App.Mode")
	assert.True(t, mode.Base.Is("System.Enum"))
	assert.True(t, mode.IsValueType())

	iface := findType(t, lib, "App.IDrawable")
	assert.Nil(t, iface.Base)
	assert.True(t, iface.Abstract)

	box := findType(t, lib, "App.Box")
	assert.Nil(t, box.Base)
	assert.Equal(t, "Box`1", box.Key())

	tools := findType(t, lib, "App.Tools")
	assert.True(t, tools.Abstract && tools.Sealed)
	assert.Equal(t, Internal, tools.Visibility)
}

func TestDecodeManifestNestedTypes(t *testing.T) {
	lib := decodeSample(t)
	slot := findType(t, lib, "App.Box.Slot")

	assert.Same(t, findType(t, lib, "App.Box"), slot.DeclaringType)
	assert.Equal(t, "App", slot.Namespace)
	assert.Equal(t, []string{"T", "U"}, slot.AllGenericParams())
	assert.Equal(t, []string{"App", "Box`1", "Slot`1"}, slot.TreePath())
	assert.Equal(t, 1, slot.Arity())

	swap := slot.Members[0]
	assert.Equal(t, GenericParam("V"), swap.Type)
	require.Len(t, swap.Params, 2)
	assert.Equal(t, GenericParam("T"), swap.Params[0].Type)
	assert.Equal(t, Out, swap.Params[1].Mode)

	// Outer types come before the types nested in them.
	var boxIdx, slotIdx int
	for i, ty := range lib.Types {
		switch ty.FullName() {
		case "App.Box":
			boxIdx = i
		case "App.Box.Slot":
			slotIdx = i
		}
	}
	assert.Less(t, boxIdx, slotIdx)
}

func TestDecodeManifestNestsReferencesToNestedTypes(t *testing.T) {
	lib := decodeSample(t)
	box := findType(t, lib, "App.Box")
	take := box.Members[0]
	require.Len(t, take.Params, 2)

	self := Named("App.Box", GenericParam("T"))
	assert.Equal(t, NestedIn(self, "Slot", Named("System.Int32")), take.Params[0].Type)
	assert.Equal(t, NestedIn(self, "Slot", Named("System.String")), take.Type)

	count := take.Params[1]
	assert.Equal(t, Named("System.Int32"), count.Type)
	assert.Equal(t, ByRef, count.Mode)
}

func TestDecodeManifestMembers(t *testing.T) {
	lib := decodeSample(t)

	shape := findType(t, lib, "App.Shape")
	area := shape.Members[0]
	assert.Equal(t, Method, area.Kind)
	assert.True(t, area.Abstract && area.Virtual)
	assert.Equal(t, Named("System.Double"), area.Type)

	label := shape.Members[1]
	require.NotNil(t, label.Getter)
	require.NotNil(t, label.Setter)
	assert.Equal(t, Public, label.Getter.Visibility)
	assert.Equal(t, Private, label.Setter.Visibility)
	assert.Equal(t, Public, label.Visibility)

	point := findType(t, lib, "App.Point")
	ctor := point.Members[0]
	assert.Equal(t, ".ctor", ctor.Name)
	assert.True(t, ctor.SpecialName)
	assert.Equal(t, ByRef, ctor.Params[1].Mode)
	assert.Equal(t, Named("System.Int32"), ctor.Params[1].Type)
	assert.Equal(t, ".cctor", point.Members[1].Name)

	mode := findType(t, lib, "App.Mode")
	off := mode.Members[0]
	assert.Equal(t, Field, off.Kind)
	assert.True(t, off.IsEnumValue())
	assert.True(t, off.Static && off.Const)
	assert.Equal(t, "0", off.Value)
	assert.True(t, off.Type.SameDefinition(mode))
}

func TestDecodeManifestErrors(t *testing.T) {
	tests := map[string]string{
		"unknown kind":       "types:\n  - name: A\n    kind: union\n",
		"unknown visibility": "types:\n  - name: A\n    visibility: friend\n",
		"member kind":        "types:\n  - name: A\n    members:\n      - name: B\n",
		"type name":          "types:\n  - namespace: A\n",
		"param mode":         "types:\n  - name: A\n    members:\n      - { kind: method, name: M, params: [{ name: p, type: int, mode: in }] }\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(src))
			assert.ErrorIs(t, err, ErrManifest)
		})
	}

	_, err := DecodeManifest(strings.NewReader("types:\n  - name: A\n    members:\n      - { kind: method, name: Draw, visibility: friend }\n"))
	assert.ErrorIs(t, err, ErrManifest)
	assert.ErrorContains(t, err, "member Draw")

	_, err = DecodeManifest(strings.NewReader("types:\n  - name: A\n    members:\n      - { kind: property, name: Size, type: int, set: friend }\n"))
	assert.ErrorContains(t, err, "member Size setter")

	_, err = DecodeManifest(strings.NewReader("types:\n  - namespace: App\n    name: A\n    kind: union\n"))
	assert.ErrorContains(t, err, "type App.A")

	_, err = DecodeManifest(strings.NewReader("types:\n  - name: A\n    colour: red\n"))
	assert.Error(t, err)

	_, err = DecodeManifest(strings.NewReader("types:\n  - name: A\n    members:\n      - { kind: field, name: F, type: List< }\n"))
	assert.ErrorIs(t, err, ErrTypeSyntax)
}

func TestLoadManifestDefaultsLibraryName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Acme.Core.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  - name: A\n"), 0o644))

	lib, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Core", lib.Name)
}
