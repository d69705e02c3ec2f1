package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"attrdoc/internal/ast"
)

// phpBuilder converts a tree-sitter PHP syntax tree into declarations.
type phpBuilder struct {
	src   []byte
	toks  *tokenIndex
	decls []ast.Decl
}

var classKinds = map[string]ast.Kind{
	"class_declaration":     ast.KindClass,
	"interface_declaration": ast.KindInterface,
	"trait_declaration":     ast.KindTrait,
}

// collect walks n and records every declaration that is not a class member.
func (b *phpBuilder) collect(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if kind, ok := classKinds[child.Type()]; ok {
			b.classLike(child, kind)
			continue
		}
		if child.Type() == "enum_declaration" {
			b.enum(child)
			continue
		}
		if body := anonymousClassBody(child); body != nil {
			b.anonymousClass(child, body)
			continue
		}
		if child.Type() == "function_definition" {
			fn := ast.NewFunction(b.text(child.ChildByFieldName("name")), b.params(child), b.attrGroups(child)...)
			b.fill(fn, child)
			b.decls = append(b.decls, fn)
			b.collectBody(child)
			continue
		}
		b.collect(child)
	}
}

func (b *phpBuilder) collectBody(n *sitter.Node) {
	if body := n.ChildByFieldName("body"); body != nil {
		b.collect(body)
	}
}

func (b *phpBuilder) classLike(n *sitter.Node, kind ast.Kind) {
	c := ast.NewClassLike(kind, b.text(n.ChildByFieldName("name")), b.attrGroups(n)...)
	b.fill(c, n)
	b.decls = append(b.decls, c)
	c.Stmts = b.members(n.ChildByFieldName("body"))
}

// anonymousClassBody returns the declaration list of `new class {...}`, or
// nil when n is not an anonymous class. The grammar has no node of its own
// for these; they parse as an object creation with a body.
func anonymousClassBody(n *sitter.Node) *sitter.Node {
	if n.Type() != "object_creation_expression" {
		return nil
	}
	return childOfType(n, "declaration_list")
}

func (b *phpBuilder) anonymousClass(n, body *sitter.Node) {
	c := ast.NewClassLike(ast.KindClass, "", b.attrGroups(n)...)
	b.fill(c, n)
	b.decls = append(b.decls, c)
	c.Stmts = b.members(body)
	// Constructor arguments may hold closures or further anonymous classes.
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == "arguments" {
			b.collect(child)
		}
	}
}

// enum handles enum declarations. Enums take no attributes of their own, but
// their methods and constants do.
func (b *phpBuilder) enum(n *sitter.Node) {
	for _, s := range b.members(n.ChildByFieldName("body")) {
		if d, ok := s.(ast.Decl); ok {
			b.decls = append(b.decls, d)
		}
	}
}

// members builds the statements of a class-like or enum body, then collects
// declarations nested in method bodies.
func (b *phpBuilder) members(body *sitter.Node) []ast.Stmt {
	if body == nil {
		return nil
	}
	var stmts []ast.Stmt
	var methods []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			m := ast.NewMethod(b.text(member.ChildByFieldName("name")), b.params(member), b.attrGroups(member)...)
			b.fill(m, member)
			stmts = append(stmts, m)
			methods = append(methods, member)
		case "property_declaration":
			p := ast.NewProperty(b.propertyName(member), b.attrGroups(member)...)
			b.fill(p, member)
			stmts = append(stmts, p)
		case "const_declaration":
			k := ast.NewClassConst(b.constName(member), b.attrGroups(member)...)
			b.fill(k, member)
			stmts = append(stmts, k)
		case "use_declaration":
			stmts = append(stmts, b.traitUse(member))
		}
	}
	for _, m := range methods {
		b.collectBody(m)
	}
	return stmts
}

func (b *phpBuilder) traitUse(n *sitter.Node) *ast.TraitUse {
	u := &ast.TraitUse{Span: b.toks.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "name", "qualified_name":
			u.Traits = append(u.Traits, b.text(child))
		}
	}
	u.Doc = b.docSlot(n)
	return u
}

// fill sets the span and doc comment of a declaration.
func (b *phpBuilder) fill(d ast.Decl, n *sitter.Node) {
	*d.Comments() = b.docSlot(n)
	d.SetPos(b.toks.span(n))
}

// docSlot finds the doc comment closest before n, skipping other comments.
func (b *phpBuilder) docSlot(n *sitter.Node) ast.DocSlot {
	var doc *ast.Doc
	for prev := n.PrevSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevSibling() {
		text := b.text(prev)
		if isDocComment(text) {
			doc = &ast.Doc{Text: text, Span: b.toks.span(prev)}
			break
		}
	}
	return ast.NewDocSlot(doc, int(n.StartByte()), b.indent(n.StartByte()))
}

func isDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && len(text) > len("/**/") && strings.HasSuffix(text, "*/")
}

// indent returns the whitespace between the start of the line and offset, or
// "" when other text precedes offset on that line.
func (b *phpBuilder) indent(offset uint32) string {
	start := int(offset)
	for start > 0 && b.src[start-1] != '\n' {
		start--
	}
	prefix := string(b.src[start:offset])
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func (b *phpBuilder) attrGroups(n *sitter.Node) []*ast.AttrGroup {
	list := n.ChildByFieldName("attributes")
	if list == nil {
		list = childOfType(n, "attribute_list")
	}
	if list == nil {
		return nil
	}

	var groups []*ast.AttrGroup
	var loose *ast.AttrGroup
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "attribute_group":
			g := &ast.AttrGroup{}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if a := child.NamedChild(j); a.Type() == "attribute" {
					g.Attrs = append(g.Attrs, b.attribute(a))
				}
			}
			groups = append(groups, g)
		case "attribute":
			// Older grammars put attributes directly under the list.
			if loose == nil {
				loose = &ast.AttrGroup{}
				groups = append(groups, loose)
			}
			loose.Attrs = append(loose.Attrs, b.attribute(child))
		}
	}
	return groups
}

func (b *phpBuilder) attribute(n *sitter.Node) *ast.Attribute {
	a := &ast.Attribute{Span: b.toks.span(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "name", "qualified_name":
			if a.Name == "" {
				a.Name = strings.TrimPrefix(b.text(child), `\`)
			}
		case "arguments":
			a.Args = b.arguments(child)
		}
	}
	return a
}

func (b *phpBuilder) arguments(n *sitter.Node) []ast.Arg {
	var args []ast.Arg
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "argument" {
			continue
		}
		args = append(args, b.argument(child))
	}
	return args
}

func (b *phpBuilder) argument(n *sitter.Node) ast.Arg {
	var arg ast.Arg
	if name := n.ChildByFieldName("name"); name != nil {
		arg.Name = b.text(name)
	} else if first := n.Child(0); first != nil && first.Type() == "name" {
		if next := first.NextSibling(); next != nil && next.Type() == ":" {
			arg.Name = b.text(first)
		}
	}
	count := int(n.NamedChildCount())
	if count == 0 {
		arg.Value = ast.Expr{Text: b.text(n)}
		return arg
	}
	arg.Value = b.value(n.NamedChild(count - 1))
	return arg
}

func (b *phpBuilder) value(n *sitter.Node) ast.Value {
	text := b.text(n)
	switch n.Type() {
	case "string", "encapsed_string":
		if !hasInterpolation(n) {
			if s, ok := unquote(text); ok {
				return ast.StringLit{Value: s}
			}
		}
	case "class_constant_access_expression":
		// The member may be a keyword token rather than a named node.
		if n.NamedChildCount() > 0 && n.ChildCount() >= 3 {
			scope, member := n.NamedChild(0), n.Child(int(n.ChildCount())-1)
			if !strings.EqualFold(b.text(member), "class") {
				break
			}
			switch scope.Type() {
			case "name", "qualified_name":
				return ast.ClassRef{Name: strings.TrimPrefix(b.text(scope), `\`)}
			case "relative_scope":
				// self, static or parent
				return ast.ClassRef{Name: b.text(scope)}
			}
		}
	}
	return ast.Expr{Text: text}
}

var literalParts = map[string]bool{
	"string_value":    true,
	"string_content":  true,
	"escape_sequence": true,
}

func hasInterpolation(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if !literalParts[n.NamedChild(i).Type()] {
			return true
		}
	}
	return false
}

func (b *phpBuilder) params(n *sitter.Node) []*ast.Param {
	list := n.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var params []*ast.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
		default:
			continue
		}
		params = append(params, &ast.Param{
			Name:   b.paramName(child),
			Groups: b.attrGroups(child),
		})
	}
	return params
}

// paramName returns the bound name without `$`, or "" for dynamic names.
func (b *phpBuilder) paramName(n *sitter.Node) string {
	v := n.ChildByFieldName("name")
	if v == nil {
		v = childOfType(n, "variable_name")
	}
	if v == nil || v.Type() != "variable_name" {
		return ""
	}
	name := childOfType(v, "name")
	if name == nil {
		return ""
	}
	return b.text(name)
}

func (b *phpBuilder) propertyName(n *sitter.Node) string {
	if el := childOfType(n, "property_element"); el != nil {
		if v := childOfType(el, "variable_name"); v != nil {
			return strings.TrimPrefix(b.text(v), "$")
		}
	}
	return ""
}

func (b *phpBuilder) constName(n *sitter.Node) string {
	if el := childOfType(n, "const_element"); el != nil {
		if name := childOfType(el, "name"); name != nil {
			return b.text(name)
		}
	}
	return ""
}

func (b *phpBuilder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.src)
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
