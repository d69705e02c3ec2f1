package ast

// Value is an attribute argument value. The set of implementations is closed.
type Value interface {
	value()
}

// StringLit is a string literal with quotes removed and escapes resolved.
type StringLit struct {
	Value string
}

// ClassRef is a `Name::class` expression. Name is the qualified name as
// written, without a leading namespace separator.
type ClassRef struct {
	Name string
}

// Expr is any other expression, kept as source text.
type Expr struct {
	Text string
}

func (StringLit) value() {}
func (ClassRef) value()  {}
func (Expr) value()      {}

// Arg is one attribute argument. Name is empty for positional arguments.
type Arg struct {
	Name  string
	Value Value
}

// Attribute is a single attribute such as `#[Returns('int')]`.
type Attribute struct {
	Name string
	Args []Arg
	Span Span
}

// AttrGroup is one `#[...]` block; it may hold several attributes.
type AttrGroup struct {
	Attrs []*Attribute
}
