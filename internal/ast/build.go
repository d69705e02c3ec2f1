package ast

func newBase(name string, groups []*AttrGroup) declBase {
	return declBase{DeclName: name, Groups: groups}
}

// NewClassLike returns a class, interface or trait declaration.
func NewClassLike(kind Kind, name string, groups ...*AttrGroup) *ClassLike {
	return &ClassLike{declBase: newBase(name, groups), ClassKind: kind}
}

func NewClassConst(name string, groups ...*AttrGroup) *ClassConst {
	return &ClassConst{declBase: newBase(name, groups)}
}

func NewMethod(name string, params []*Param, groups ...*AttrGroup) *Method {
	return &Method{declBase: newBase(name, groups), Params: params}
}

func NewFunction(name string, params []*Param, groups ...*AttrGroup) *Function {
	return &Function{declBase: newBase(name, groups), Params: params}
}

func NewProperty(name string, groups ...*AttrGroup) *Property {
	return &Property{declBase: newBase(name, groups)}
}

// Group wraps attributes into a single attribute group.
func Group(attrs ...*Attribute) *AttrGroup {
	return &AttrGroup{Attrs: attrs}
}

// Attr returns an attribute with the given name and arguments.
func Attr(name string, args ...Arg) *Attribute {
	return &Attribute{Name: name, Args: args}
}

// Str returns a positional string argument.
func Str(s string) Arg {
	return Arg{Value: StringLit{Value: s}}
}

// Named returns a named string argument.
func Named(name, s string) Arg {
	return Arg{Name: name, Value: StringLit{Value: s}}
}

// Class returns a positional `Name::class` argument.
func Class(name string) Arg {
	return Arg{Value: ClassRef{Name: name}}
}
