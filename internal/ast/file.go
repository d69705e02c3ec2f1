package ast

// File is a parsed source file. Decls holds the declarations that are not
// members of a class-like body, in source order.
type File struct {
	Path      string
	Namespace string
	Source    []byte
	Decls     []Decl
}

// Inspect walks the declarations of f in pre-order, visiting each one exactly
// once. Members of a class-like are visited after the class itself. If fn
// returns false the members of that declaration are skipped.
func Inspect(f *File, fn func(Decl) bool) {
	for _, d := range f.Decls {
		inspect(d, fn)
	}
}

func inspect(d Decl, fn func(Decl) bool) {
	if !fn(d) {
		return
	}
	c, ok := d.(*ClassLike)
	if !ok {
		return
	}
	for _, s := range c.Stmts {
		if m, ok := s.(Decl); ok {
			inspect(m, fn)
		}
	}
}

// Modified returns every statement of f whose doc comment was replaced, in
// pre-order, trait uses following their enclosing class.
func Modified(f *File) []Stmt {
	var out []Stmt
	Inspect(f, func(d Decl) bool {
		if d.Comments().Modified() {
			out = append(out, d)
		}
		if c, ok := d.(*ClassLike); ok {
			for _, u := range c.TraitUses() {
				if u.Doc.Modified() {
					out = append(out, u)
				}
			}
		}
		return true
	})
	return out
}
