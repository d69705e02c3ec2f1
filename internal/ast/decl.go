package ast

// Kind identifies a declaration kind.
type Kind int

const (
	KindClass Kind = iota + 1
	KindInterface
	KindTrait
	KindClassConst
	KindMethod
	KindFunction
	KindProperty
)

var kindNames = map[Kind]string{
	KindClass:      "class",
	KindInterface:  "interface",
	KindTrait:      "trait",
	KindClassConst: "class constant",
	KindMethod:     "method",
	KindFunction:   "function",
	KindProperty:   "property",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Stmt is anything that may appear in a class-like body: a declaration or a
// trait use.
type Stmt interface {
	Comments() *DocSlot
	Pos() Span
	stmt()
}

// Decl is a declaration that may carry attributes. Implementations are
// *ClassLike, *ClassConst, *Method, *Function and *Property.
type Decl interface {
	Stmt
	Kind() Kind
	Name() string
	AttrGroups() []*AttrGroup
	SetPos(Span)
}

type declBase struct {
	DeclName string
	Groups   []*AttrGroup
	Doc      DocSlot
	Span     Span
}

func (d *declBase) Name() string             { return d.DeclName }
func (d *declBase) AttrGroups() []*AttrGroup { return d.Groups }
func (d *declBase) Comments() *DocSlot       { return &d.Doc }
func (d *declBase) Pos() Span                { return d.Span }
func (d *declBase) SetPos(s Span)            { d.Span = s }
func (d *declBase) stmt()                    {}

// ClassLike is a class, interface or trait.
type ClassLike struct {
	declBase
	ClassKind Kind
	Stmts     []Stmt
}

// ClassConst is a class constant declaration.
type ClassConst struct{ declBase }

// Method is a method declaration.
type Method struct {
	declBase
	Params []*Param
}

// Function is a free function declaration.
type Function struct {
	declBase
	Params []*Param
}

// Property is a property declaration.
type Property struct{ declBase }

func (c *ClassLike) Kind() Kind { return c.ClassKind }
func (*ClassConst) Kind() Kind  { return KindClassConst }
func (*Method) Kind() Kind      { return KindMethod }
func (*Function) Kind() Kind    { return KindFunction }
func (*Property) Kind() Kind    { return KindProperty }

// TraitUses returns the trait-use statements of the body in order.
func (c *ClassLike) TraitUses() []*TraitUse {
	var uses []*TraitUse
	for _, s := range c.Stmts {
		if u, ok := s.(*TraitUse); ok {
			uses = append(uses, u)
		}
	}
	return uses
}

// Param is a formal parameter. Name is the bound variable name without the
// sigil, or empty when the parameter has no simple name.
type Param struct {
	Name   string
	Groups []*AttrGroup
}

// TraitUse is a `use A, B;` statement inside a class-like body. Traits holds
// the names as written.
type TraitUse struct {
	Traits []string
	Doc    DocSlot
	Span   Span
}

func (u *TraitUse) Comments() *DocSlot { return &u.Doc }
func (u *TraitUse) Pos() Span          { return u.Span }
func (*TraitUse) stmt()                {}

// Params returns the formal parameters of methods and functions, and nil for
// every other declaration.
func Params(d Decl) []*Param {
	switch d := d.(type) {
	case *Method:
		return d.Params
	case *Function:
		return d.Params
	}
	return nil
}
