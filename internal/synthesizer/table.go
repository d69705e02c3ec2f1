package synthesizer

import (
	"slices"
	"strings"

	"attrdoc/internal/ast"
)

// AttrKind is the canonical, namespace-qualified name of an attribute.
type AttrKind string

const attrNamespace = `PhpStaticAnalysis\Attributes\`

const (
	Deprecated            AttrKind = attrNamespace + "Deprecated"
	Immutable             AttrKind = attrNamespace + "Immutable"
	Impure                AttrKind = attrNamespace + "Impure"
	Internal              AttrKind = attrNamespace + "Internal"
	IsReadOnly            AttrKind = attrNamespace + "IsReadOnly"
	Method                AttrKind = attrNamespace + "Method"
	Mixin                 AttrKind = attrNamespace + "Mixin"
	Param                 AttrKind = attrNamespace + "Param"
	ParamOut              AttrKind = attrNamespace + "ParamOut"
	Property              AttrKind = attrNamespace + "Property"
	PropertyRead          AttrKind = attrNamespace + "PropertyRead"
	PropertyWrite         AttrKind = attrNamespace + "PropertyWrite"
	Pure                  AttrKind = attrNamespace + "Pure"
	RequireExtends        AttrKind = attrNamespace + "RequireExtends"
	RequireImplements     AttrKind = attrNamespace + "RequireImplements"
	Returns               AttrKind = attrNamespace + "Returns"
	SelfOut               AttrKind = attrNamespace + "SelfOut"
	Template              AttrKind = attrNamespace + "Template"
	TemplateContravariant AttrKind = attrNamespace + "TemplateContravariant"
	TemplateCovariant     AttrKind = attrNamespace + "TemplateCovariant"
	TemplateExtends       AttrKind = attrNamespace + "TemplateExtends"
	TemplateImplements    AttrKind = attrNamespace + "TemplateImplements"
	TemplateUse           AttrKind = attrNamespace + "TemplateUse"
	Throws                AttrKind = attrNamespace + "Throws"
	Type                  AttrKind = attrNamespace + "Type"
)

// Short returns the unqualified attribute name.
func (a AttrKind) Short() string {
	s := string(a)
	if i := strings.LastIndex(s, `\`); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Shape governs how an attribute's arguments become tag text.
type Shape int

const (
	ShapeNone Shape = iota + 1
	ShapeNoneWithPrefix
	ShapeOne
	ShapeOneOptional
	ShapeOneWithPrefix
	ShapeTwoWithType
	ShapeManyInUse
	ShapeManyWithName
	ShapeManyWithoutName
	ShapeManyWithoutNameAndPrefix
)

var shapeNames = [...]string{
	ShapeNone:                     "none",
	ShapeNoneWithPrefix:           "none with prefix",
	ShapeOne:                      "one",
	ShapeOneOptional:              "one optional",
	ShapeOneWithPrefix:            "one with prefix",
	ShapeTwoWithType:              "two with type",
	ShapeManyInUse:                "many in use",
	ShapeManyWithName:             "many with name",
	ShapeManyWithoutName:          "many without name",
	ShapeManyWithoutNameAndPrefix: "many without name and prefix",
}

func (s Shape) String() string {
	if s > 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "invalid"
}

// anyKind keys the fallback entry used when a declaration kind has no entry
// of its own.
const anyKind ast.Kind = 0

// Table is the static dispatch configuration. It is read-only after
// construction and safe to share.
type Table struct {
	aliases map[string]AttrKind
	allowed map[ast.Kind]map[AttrKind]struct{}
	tags    map[AttrKind]map[ast.Kind]string
	shapes  map[AttrKind]map[ast.Kind]Shape
}

// Resolve maps a written attribute name to its canonical kind. Unknown short
// names resolve to themselves.
func (t *Table) Resolve(name string) AttrKind {
	name = strings.TrimPrefix(name, `\`)
	if a, ok := t.aliases[name]; ok {
		return a
	}
	return AttrKind(name)
}

// Allowed reports whether attribute a may appear on a declaration of kind k.
func (t *Table) Allowed(k ast.Kind, a AttrKind) bool {
	_, ok := t.allowed[k][a]
	return ok
}

// TagName returns the output tag name for a on kind k.
func (t *Table) TagName(k ast.Kind, a AttrKind) (string, bool) {
	return lookup(t.tags[a], k)
}

// Shape returns the argument shape for a on kind k.
func (t *Table) Shape(k ast.Kind, a AttrKind) (Shape, bool) {
	return lookup(t.shapes[a], k)
}

// Kinds returns every canonical attribute kind the table knows, in short-name
// order.
func (t *Table) Kinds() []AttrKind {
	out := make([]AttrKind, 0, len(t.aliases))
	for _, a := range t.aliases {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y AttrKind) int { return strings.Compare(x.Short(), y.Short()) })
	return out
}

func lookup[V any](m map[ast.Kind]V, k ast.Kind) (V, bool) {
	if v, ok := m[k]; ok {
		return v, true
	}
	v, ok := m[anyKind]
	return v, ok
}

var classLikeAttrs = []AttrKind{
	Deprecated, Immutable, Internal, Method, Mixin, Property, PropertyRead, PropertyWrite,
	Template, TemplateContravariant, TemplateCovariant,
}

var allowedAttrs = map[ast.Kind][]AttrKind{
	ast.KindClass:      append(slices.Clone(classLikeAttrs), TemplateExtends, TemplateImplements, TemplateUse),
	ast.KindInterface:  classLikeAttrs,
	ast.KindTrait:      append(slices.Clone(classLikeAttrs), RequireExtends, RequireImplements),
	ast.KindClassConst: {Deprecated, Internal, Type},
	ast.KindMethod: {
		Deprecated, Impure, Internal, Param, ParamOut, Pure, Returns, SelfOut, Template, Throws, Type,
	},
	ast.KindFunction: {
		Deprecated, Impure, Internal, Param, ParamOut, Pure, Returns, Template, Throws, Type,
	},
	ast.KindProperty: {Deprecated, Internal, IsReadOnly, Property, Type},
}

type entry struct {
	tag   string
	shape Shape
}

func all(tag string, shape Shape) map[ast.Kind]entry {
	return map[ast.Kind]entry{anyKind: {tag, shape}}
}

var entries = map[AttrKind]map[ast.Kind]entry{
	Deprecated:    all("deprecated", ShapeNone),
	Immutable:     all("immutable", ShapeNoneWithPrefix),
	Impure:        all("impure", ShapeNoneWithPrefix),
	Internal:      all("internal", ShapeOneOptional),
	IsReadOnly:    all("readonly", ShapeNone),
	Method:        all("method", ShapeManyWithoutName),
	Mixin:         all("mixin", ShapeManyWithoutName),
	Param:         all("param", ShapeManyWithName),
	ParamOut:      all("param-out", ShapeManyWithName),
	PropertyRead:  all("property-read", ShapeManyWithName),
	PropertyWrite: all("property-write", ShapeManyWithName),
	Property: {
		ast.KindClass:    {"property", ShapeManyWithName},
		ast.KindProperty: {"var", ShapeOne},
	},
	Pure:                  all("pure", ShapeNoneWithPrefix),
	RequireExtends:        all("require-extends", ShapeOneWithPrefix),
	RequireImplements:     all("require-implements", ShapeManyWithoutNameAndPrefix),
	Returns:               all("return", ShapeOne),
	SelfOut:               all("self-out", ShapeOneWithPrefix),
	Template:              all("template", ShapeTwoWithType),
	TemplateContravariant: all("template-contravariant", ShapeTwoWithType),
	TemplateCovariant:     all("template-covariant", ShapeTwoWithType),
	TemplateExtends:       all("template-extends", ShapeOne),
	TemplateImplements:    all("template-implements", ShapeManyWithoutName),
	TemplateUse:           all("template-use", ShapeManyInUse),
	Throws:                all("throws", ShapeManyWithoutName),
	Type: {
		ast.KindClassConst: {"var", ShapeOne},
		ast.KindMethod:     {"return", ShapeOne},
		ast.KindFunction:   {"return", ShapeOne},
		ast.KindProperty:   {"var", ShapeOne},
	},
}

var defaultTable = buildTable()

// DefaultTable returns the built-in dispatch table.
func DefaultTable() *Table { return defaultTable }

func buildTable() *Table {
	t := &Table{
		aliases: make(map[string]AttrKind, len(entries)),
		allowed: make(map[ast.Kind]map[AttrKind]struct{}, len(allowedAttrs)),
		tags:    make(map[AttrKind]map[ast.Kind]string, len(entries)),
		shapes:  make(map[AttrKind]map[ast.Kind]Shape, len(entries)),
	}
	for kind, attrs := range allowedAttrs {
		set := make(map[AttrKind]struct{}, len(attrs))
		for _, a := range attrs {
			set[a] = struct{}{}
		}
		t.allowed[kind] = set
	}
	for a, byKind := range entries {
		t.aliases[a.Short()] = a
		t.tags[a] = make(map[ast.Kind]string, len(byKind))
		t.shapes[a] = make(map[ast.Kind]Shape, len(byKind))
		for k, e := range byKind {
			t.tags[a][k] = e.tag
			t.shapes[a][k] = e.shape
		}
	}
	return t
}
