package metadata

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrTypeSyntax is returned for malformed type expressions.
var ErrTypeSyntax = errors.New("invalid type expression")

// keywordTypes maps source keywords accepted in type expressions to the
// full names they stand for.
var keywordTypes = map[string]string{
	"string": "System.String",
	"char":   "System.Char",
	"byte":   "System.Byte",
	"sbyte":  "System.SByte",
	"short":  "System.Int16",
	"ushort": "System.UInt16",
	"int":    "System.Int32",
	"uint":   "System.UInt32",
	"long":   "System.Int64",
	"ulong":  "System.UInt64",
	"float":  "System.Single",
	"double": "System.Double",
	"bool":   "System.Boolean",
	"void":   "System.Void",
	"object": "System.Object",
}

// Scope lists the generic parameter names a type expression may refer to.
// A bare identifier found in Scope parses as a generic parameter.
type Scope []string

// ParseTypeRef parses a type expression such as "int", "List<T>",
// "Dictionary<string,int[]>", "T[,]", "byte*", "int?", "ref int" or
// "List<T>.Enumerator".
//
// Grammar:
//
//	expr   = ["ref "] base { suffix }
//	base   = name [ args { "." name [ args ] } ]
//	name   = ident { "." ident }
//	args   = "<" expr { "," expr } ">"
//	suffix = "[" { "," } "]" | "*" | "?" | "&"
func ParseTypeRef(expr string, scope Scope) (*TypeRef, error) {
	p := &typeParser{src: expr, scope: scope}
	p.skipSpace()
	byRef := false
	if strings.HasPrefix(p.src[p.pos:], "ref ") {
		byRef = true
		p.pos += len("ref ")
	}
	ref, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	if byRef {
		ref = ByRefTo(ref)
	}
	return ref, nil
}

type typeParser struct {
	src   string
	pos   int
	scope Scope
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w %q at offset %d: %s", ErrTypeSyntax, p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) parseExpr() (*TypeRef, error) {
	ref, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '[':
			p.pos++
			rank := 1
			for p.peek() == ',' {
				rank++
				p.pos++
			}
			if p.peek() != ']' {
				return nil, p.errorf("expected ']'")
			}
			p.pos++
			ref = ArrayOf(ref, rank)
		case '*':
			p.pos++
			ref = PointerTo(ref)
		case '&':
			p.pos++
			ref = ByRefTo(ref)
		case '?':
			p.pos++
			ref = Named(NullableType, ref)
		default:
			return ref, nil
		}
	}
}

func (p *typeParser) parseBase() (*TypeRef, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '<' {
		if slices.Contains(p.scope, name) {
			return GenericParam(name), nil
		}
		if full, ok := keywordTypes[name]; ok {
			return Named(full), nil
		}
		return Named(name), nil
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	ref := Named(name, args...)

	// Types nested in a constructed generic type: Outer<A>.Inner<B>.
	for p.peek() == '.' {
		p.pos++
		inner, err := p.parseName()
		if err != nil {
			return nil, err
		}
		segs := strings.Split(inner, ".")
		for _, seg := range segs[:len(segs)-1] {
			ref = NestedIn(ref, seg)
		}
		var innerArgs []*TypeRef
		p.skipSpace()
		if p.peek() == '<' {
			if innerArgs, err = p.parseArgs(); err != nil {
				return nil, err
			}
		}
		ref = NestedIn(ref, segs[len(segs)-1], innerArgs...)
	}
	return ref, nil
}

func (p *typeParser) parseName() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return "", p.errorf("expected type name")
	}
	return name, nil
}

// parseArgs parses a bracketed argument list; the cursor is on '<'.
func (p *typeParser) parseArgs() ([]*TypeRef, error) {
	p.pos++
	var args []*TypeRef
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return args, nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
