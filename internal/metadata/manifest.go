package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrManifest is returned when a metadata manifest is structurally invalid.
var ErrManifest = errors.New("invalid metadata manifest")

// manifest is the YAML document describing a library.
type manifest struct {
	Library string      `yaml:"library"`
	Types   []typeEntry `yaml:"types"`
}

type typeEntry struct {
	Namespace  string        `yaml:"namespace"`
	Name       string        `yaml:"name"`
	Kind       string        `yaml:"kind"`
	Visibility string        `yaml:"visibility"`
	Abstract   bool          `yaml:"abstract"`
	Sealed     bool          `yaml:"sealed"`
	Static     bool          `yaml:"static"`
	Base       string        `yaml:"base"`
	Interfaces []string      `yaml:"interfaces"`
	Generics   []string      `yaml:"generics"`
	Members    []memberEntry `yaml:"members"`
	Nested     []typeEntry   `yaml:"nested"`
}

type memberEntry struct {
	Kind       string       `yaml:"kind"`
	Name       string       `yaml:"name"`
	Visibility string       `yaml:"visibility"`
	Static     bool         `yaml:"static"`
	Abstract   bool         `yaml:"abstract"`
	Virtual    bool         `yaml:"virtual"`
	Const      bool         `yaml:"const"`
	ReadOnly   bool         `yaml:"readonly"`
	Special    bool         `yaml:"special"`
	Type       string       `yaml:"type"`
	Returns    string       `yaml:"returns"`
	Generics   []string     `yaml:"generics"`
	Params     []paramEntry `yaml:"params"`
	Get        string       `yaml:"get"`
	Set        string       `yaml:"set"`
	Value      string       `yaml:"value"`
}

type paramEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Mode string `yaml:"mode"`
}

// LoadManifest reads a YAML metadata manifest from path. When the manifest
// does not name its library, the file's base name without extension is
// used.
func LoadManifest(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lib, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if lib.Name == "" {
		lib.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return lib, nil
}

// DecodeManifest decodes a YAML metadata manifest.
func DecodeManifest(r io.Reader) (*Library, error) {
	var doc manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	lib := &Library{Name: doc.Library}
	for i := range doc.Types {
		if err := lib.addType(&doc.Types[i], nil); err != nil {
			return nil, err
		}
	}
	lib.nestRefs()
	return lib, nil
}

// nestRefs rewrites flat references to nested library types, such as
// "App.Box.Slot<T>", into per-level references (App.Box<T>.Slot), so each
// level carries the arguments of its own generic parameters.
func (l *Library) nestRefs() {
	nested := make(map[string][]*TypeDescriptor)
	for _, t := range l.Types {
		if t.DeclaringType != nil {
			nested[t.FullName()] = append(nested[t.FullName()], t)
		}
	}
	if len(nested) == 0 {
		return
	}
	var fix func(*TypeRef) *TypeRef
	fix = func(r *TypeRef) *TypeRef {
		if r == nil {
			return nil
		}
		switch r.Kind {
		case NamedRef:
			for i, arg := range r.Args {
				r.Args[i] = fix(arg)
			}
			if r.Outer != nil {
				r.Outer = fix(r.Outer)
				return r
			}
			for _, t := range nested[r.Name] {
				if n := Nest(t, r.Args); n != nil {
					return n
				}
			}
		case ArrayRef, PointerRef, ByRefRef:
			r.Elem = fix(r.Elem)
		}
		return r
	}
	for _, t := range l.Types {
		t.Base = fix(t.Base)
		for i, iface := range t.Interfaces {
			t.Interfaces[i] = fix(iface)
		}
		for _, m := range t.Members {
			m.Type = fix(m.Type)
			for i := range m.Params {
				m.Params[i].Type = fix(m.Params[i].Type)
			}
		}
	}
}

func (l *Library) addType(entry *typeEntry, outer *TypeDescriptor) error {
	if entry.Name == "" {
		return fmt.Errorf("%w: type without name", ErrManifest)
	}
	name := entry.Name
	if outer != nil {
		name = outer.FullName() + "." + name
	} else if entry.Namespace != "" {
		name = entry.Namespace + "." + name
	}
	kind, err := parseTypeKind(entry.Kind)
	if err != nil {
		return fmt.Errorf("type %s: %w", name, err)
	}
	vis, err := parseVisibility(entry.Visibility)
	if err != nil {
		return fmt.Errorf("type %s: %w", name, err)
	}
	t := &TypeDescriptor{
		Name:          entry.Name,
		Namespace:     entry.Namespace,
		DeclaringType: outer,
		Kind:          kind,
		Visibility:    vis,
		Abstract:      entry.Abstract || entry.Static || kind == Interface,
		Sealed:        entry.Sealed || entry.Static || kind == Struct || kind == Enum,
		GenericParams: entry.Generics,
	}
	if outer != nil {
		t.Namespace = outer.Namespace
	}
	scope := Scope(t.AllGenericParams())
	if t.Base, err = parseBase(entry.Base, kind, scope); err != nil {
		return fmt.Errorf("type %s: %w", t.FullName(), err)
	}
	for _, expr := range entry.Interfaces {
		ref, err := ParseTypeRef(expr, scope)
		if err != nil {
			return fmt.Errorf("type %s: %w", t.FullName(), err)
		}
		t.Interfaces = append(t.Interfaces, ref)
	}
	for i := range entry.Members {
		m, err := buildMember(&entry.Members[i], t)
		if err != nil {
			return fmt.Errorf("type %s: %w", t.FullName(), err)
		}
		t.Members = append(t.Members, m)
	}
	l.Types = append(l.Types, t)
	for i := range entry.Nested {
		if err := l.addType(&entry.Nested[i], t); err != nil {
			return err
		}
	}
	return nil
}

func parseBase(expr string, kind TypeKind, scope Scope) (*TypeRef, error) {
	switch {
	case expr == "none" || kind == Interface:
		return nil, nil
	case expr != "":
		return ParseTypeRef(expr, scope)
	case kind == Struct:
		return Named("System.ValueType"), nil
	case kind == Enum:
		return Named("System.Enum"), nil
	default:
		return Named(ObjectType), nil
	}
}

func buildMember(entry *memberEntry, owner *TypeDescriptor) (*MemberDescriptor, error) {
	kind, err := parseMemberKind(entry.Kind, owner)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", entry.Name, err)
	}
	vis, err := parseVisibility(entry.Visibility)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", entry.Name, err)
	}
	m := &MemberDescriptor{
		Kind:          kind,
		Name:          entry.Name,
		DeclaringType: owner,
		Visibility:    vis,
		Static:        entry.Static,
		Abstract:      entry.Abstract,
		Virtual:       entry.Virtual || entry.Abstract,
		Const:         entry.Const,
		ReadOnly:      entry.ReadOnly,
		SpecialName:   entry.Special || strings.HasPrefix(entry.Name, "op_"),
		GenericParams: entry.Generics,
		Value:         entry.Value,
	}
	if kind == Constructor {
		m.SpecialName = true
		if m.Name == "" {
			m.Name = ".ctor"
			if m.Static {
				m.Name = ".cctor"
			}
		}
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%w: %s without name", ErrManifest, kind)
	}
	if m.IsEnumValue() {
		m.Static, m.Const = true, true
		m.Type = owner.SelfRef()
	}

	scope := append(Scope{}, owner.AllGenericParams()...)
	scope = append(scope, entry.Generics...)

	typeExpr := entry.Type
	if kind == Method {
		typeExpr = entry.Returns
		if typeExpr == "" {
			typeExpr = "void"
		}
	}
	if typeExpr != "" {
		if m.Type, err = ParseTypeRef(typeExpr, scope); err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
	}
	if kind == Property {
		// The getter takes the property's visibility unless given or "none".
		m.Getter = &Accessor{Visibility: vis}
		if entry.Get != "" {
			if m.Getter, err = parseAccessor(entry.Get); err != nil {
				return nil, fmt.Errorf("member %s getter: %w", m.Name, err)
			}
		}
		if m.Setter, err = parseAccessor(entry.Set); err != nil {
			return nil, fmt.Errorf("member %s setter: %w", m.Name, err)
		}
		m.Visibility = m.EffectiveVisibility()
	}
	for _, ps := range entry.Params {
		ref, err := ParseTypeRef(ps.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("member %s parameter %s: %w", m.Name, ps.Name, err)
		}
		mode, err := parseByRefMode(ps.Mode)
		if err != nil {
			return nil, fmt.Errorf("member %s parameter %s: %w", m.Name, ps.Name, err)
		}
		m.Params = append(m.Params, Parameter{Name: ps.Name, Type: ref, Mode: mode}.Normalized())
	}
	return m, nil
}

func parseTypeKind(s string) (TypeKind, error) {
	switch strings.ToLower(s) {
	case "", "class":
		return Class, nil
	case "struct":
		return Struct, nil
	case "interface":
		return Interface, nil
	case "enum":
		return Enum, nil
	default:
		return 0, fmt.Errorf("%w: unknown type kind %q", ErrManifest, s)
	}
}

func parseMemberKind(s string, owner *TypeDescriptor) (MemberKind, error) {
	switch strings.ToLower(s) {
	case "":
		if owner.Kind == Enum {
			return Field, nil
		}
		return 0, fmt.Errorf("%w: member kind is required outside enums", ErrManifest)
	case "constructor", "ctor":
		return Constructor, nil
	case "field":
		return Field, nil
	case "property":
		return Property, nil
	case "event":
		return Event, nil
	case "method":
		return Method, nil
	default:
		return 0, fmt.Errorf("%w: unknown member kind %q", ErrManifest, s)
	}
}

func parseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "", "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "protected internal":
		return ProtectedInternal, nil
	case "internal":
		return Internal, nil
	case "private":
		return Private, nil
	default:
		return 0, fmt.Errorf("%w: unknown visibility %q", ErrManifest, s)
	}
}

func parseAccessor(s string) (*Accessor, error) {
	if s == "" || s == "none" {
		return nil, nil
	}
	vis, err := parseVisibility(s)
	if err != nil {
		return nil, err
	}
	return &Accessor{Visibility: vis}, nil
}

func parseByRefMode(s string) (ByRefMode, error) {
	switch strings.ToLower(s) {
	case "", "value":
		return ByValue, nil
	case "ref":
		return ByRef, nil
	case "out":
		return Out, nil
	default:
		return 0, fmt.Errorf("%w: unknown parameter mode %q", ErrManifest, s)
	}
}
