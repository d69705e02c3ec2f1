package synthesizer

import (
	"strings"

	"attrdoc/internal/ast"
)

const variadicMarker = "..."

// tagSpec describes one tag to render.
type tagSpec struct {
	kind    ast.Kind
	attr    AttrKind
	arg     *ast.Arg
	of      *ast.Arg
	useName bool
	name    string // overrides arg.Name when set
	prefix  string
}

// render builds the tag text, e.g. `@param string $x`. It fails only when the
// table has no tag name for the attribute on this kind.
func (s *Synthesizer) render(spec tagSpec) (string, bool) {
	tagName, ok := s.table.TagName(spec.kind, spec.attr)
	if !ok {
		return "", false
	}
	if spec.prefix != "" {
		tagName = spec.prefix + "-" + tagName
	}

	var b strings.Builder
	b.WriteString("@")
	b.WriteString(tagName)
	if spec.arg == nil {
		return b.String(), true
	}

	typ := s.value(spec.arg.Value)
	if typ != "" {
		b.WriteString(" ")
		b.WriteString(typ)
	}
	if spec.of != nil {
		if of := s.value(spec.of.Value); of != "" {
			b.WriteString(" of ")
			b.WriteString(of)
		}
	}
	if spec.useName {
		name := spec.name
		if name == "" {
			name = spec.arg.Name
		}
		if name != "" {
			// Variadic types such as `string...` are written flush against the variable.
			if !strings.HasSuffix(typ, variadicMarker) {
				b.WriteString(" ")
			}
			b.WriteString("$")
			b.WriteString(name)
		}
	}
	return b.String(), true
}

// value renders an argument value. Expressions other than string literals and
// class references render as empty text.
func (s *Synthesizer) value(v ast.Value) string {
	switch v := v.(type) {
	case ast.StringLit:
		return v.Value
	case ast.ClassRef:
		name := strings.TrimPrefix(v.Name, `\`)
		if s.mode == ModePHPStan {
			return `\` + name
		}
		return name
	}
	return ""
}
