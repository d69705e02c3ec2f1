// Package synthesizer turns static-analysis attributes on PHP declarations
// into doc-comment tags that tools which only read comments understand.
//
// A Synthesizer holds only immutable configuration; all per-declaration state
// lives inside a single Visit call, so one instance may serve many goroutines.
package synthesizer

import (
	"go.uber.org/zap"

	"attrdoc/internal/ast"
)

// Tag is a rendered tag line and the statement it was attached to.
type Tag struct {
	Text   string
	Attr   AttrKind
	Target ast.Stmt
}

// Result describes what visiting one declaration produced.
type Result struct {
	// Tags were appended to the declaration's own doc comment, in order.
	Tags []Tag
	// Span covers the attributes that produced Tags. It is empty when Tags is.
	Span ast.Span
	// Bound were attached to trait-use statements in the declaration body.
	Bound []Tag
	// Dropped holds trait-use keys that matched no statement.
	Dropped []string
}

// Stats aggregates results over a file.
type Stats struct {
	Decls     int
	Rewritten int
	Tags      int
	Bound     int
	Dropped   int
}

// Add folds the result of one Visit into st.
func (st *Stats) Add(r Result) {
	st.Decls++
	if len(r.Tags) > 0 {
		st.Rewritten++
	}
	st.Tags += len(r.Tags)
	st.Bound += len(r.Bound)
	st.Dropped += len(r.Dropped)
}

// Synthesizer rewrites doc comments from attributes.
type Synthesizer struct {
	table  *Table
	mode   Mode
	logger *zap.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMode sets the target tool.
func WithMode(m Mode) Option {
	return func(s *Synthesizer) { s.mode = m }
}

// WithLogger logs skipped attributes at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synthesizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTable replaces the dispatch table.
func WithTable(t *Table) Option {
	return func(s *Synthesizer) {
		if t != nil {
			s.table = t
		}
	}
}

// New returns a Synthesizer using the default table and no tool mode.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		table:  DefaultTable(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured tool mode.
func (s *Synthesizer) Mode() Mode { return s.mode }

// Run visits every declaration of f in pre-order.
func (s *Synthesizer) Run(f *ast.File) Stats {
	var st Stats
	ast.Inspect(f, func(d ast.Decl) bool {
		st.Add(s.Visit(d))
		return true
	})
	return st
}

// Visit synthesizes tags for a single declaration and rewrites its doc
// comment when at least one tag was produced. Members of class-likes are not
// visited.
func (s *Synthesizer) Visit(d ast.Decl) Result {
	var res Result
	kind := d.Kind()
	span := ast.EmptySpan()
	pending := newPendingUses()

	for _, group := range d.AttrGroups() {
		for _, attr := range group.Attrs {
			ak := s.table.Resolve(attr.Name)
			texts, uses := s.expand(kind, ak, attr)
			if len(texts) > 0 {
				span = span.Merge(attr.Span)
			}
			for _, t := range texts {
				res.Tags = append(res.Tags, Tag{Text: t, Attr: ak, Target: d})
			}
			for _, u := range uses {
				pending.put(u)
			}
		}
	}

	if params := ast.Params(d); len(params) > 0 {
		var tags []Tag
		tags, span = s.paramTags(d, params, span)
		res.Tags = append(res.Tags, tags...)
	}

	if len(res.Tags) > 0 {
		lines := make([]string, len(res.Tags))
		for i, t := range res.Tags {
			lines[i] = t.Text
		}
		rewriteDoc(d.Comments(), lines, span)
	}
	res.Span = span

	if pending.len() > 0 {
		if c, ok := d.(*ast.ClassLike); ok {
			res.Bound, res.Dropped = bindTraitUses(c, pending)
			for _, key := range res.Dropped {
				s.logger.Debug("no trait use matches tag",
					zap.String("declaration", d.Name()), zap.String("key", key))
			}
		}
	}
	return res
}

// expand renders one attribute according to its shape. Tags for the
// trait-use shape are returned separately, keyed for later binding.
func (s *Synthesizer) expand(kind ast.Kind, ak AttrKind, attr *ast.Attribute) ([]string, []pendingUse) {
	if !s.table.Allowed(kind, ak) {
		s.logger.Debug("attribute not allowed",
			zap.String("attribute", attr.Name), zap.Stringer("kind", kind))
		return nil, nil
	}
	shape, ok := s.table.Shape(kind, ak)
	if !ok {
		s.logger.Debug("attribute has no shape",
			zap.String("attribute", attr.Name), zap.Stringer("kind", kind))
		return nil, nil
	}

	var out []string
	emit := func(spec tagSpec) {
		if t, ok := s.render(spec); ok {
			out = append(out, t)
		}
	}
	base := tagSpec{kind: kind, attr: ak}
	first := argAt(attr.Args, 0)

	switch shape {
	case ShapeNone:
		emit(base)
	case ShapeNoneWithPrefix:
		base.prefix = string(s.mode)
		emit(base)
	case ShapeOne, ShapeOneWithPrefix:
		if first == nil {
			s.logger.Debug("attribute missing argument", zap.String("attribute", attr.Name))
			break
		}
		base.arg = first
		if shape == ShapeOneWithPrefix {
			base.prefix = string(s.mode)
		}
		emit(base)
	case ShapeOneOptional:
		if first != nil {
			base.arg = first
			if s.mode == ModePsalm {
				base.prefix = string(s.mode)
			}
		}
		emit(base)
	case ShapeTwoWithType:
		if first == nil {
			s.logger.Debug("attribute missing argument", zap.String("attribute", attr.Name))
			break
		}
		base.arg = first
		base.of = argAt(attr.Args, 1)
		emit(base)
	case ShapeManyWithName, ShapeManyWithoutName, ShapeManyWithoutNameAndPrefix:
		base.useName = shape == ShapeManyWithName
		if shape == ShapeManyWithoutNameAndPrefix {
			base.prefix = string(s.mode)
		}
		for i := range attr.Args {
			spec := base
			spec.arg = &attr.Args[i]
			emit(spec)
		}
	case ShapeManyInUse:
		var uses []pendingUse
		for i := range attr.Args {
			lit, ok := attr.Args[i].Value.(ast.StringLit)
			if !ok {
				continue
			}
			spec := base
			spec.arg = &attr.Args[i]
			if t, ok := s.render(spec); ok {
				uses = append(uses, pendingUse{
					key:  lit.Value,
					tag:  Tag{Text: t, Attr: ak},
					span: attr.Span,
				})
			}
		}
		return nil, uses
	}
	return out, nil
}

// paramTags renders Param and ParamOut attributes found on formal parameters.
// The tag uses the parameter's own name; names given on the argument are
// ignored.
func (s *Synthesizer) paramTags(d ast.Decl, params []*ast.Param, span ast.Span) ([]Tag, ast.Span) {
	var tags []Tag
	for _, p := range params {
		for _, group := range p.Groups {
			for _, attr := range group.Attrs {
				ak := s.table.Resolve(attr.Name)
				if ak != Param && ak != ParamOut {
					continue
				}
				first := argAt(attr.Args, 0)
				if first == nil || p.Name == "" {
					s.logger.Debug("parameter attribute skipped",
						zap.String("attribute", attr.Name), zap.String("declaration", d.Name()))
					continue
				}
				t, ok := s.render(tagSpec{kind: d.Kind(), attr: ak, arg: first, useName: true, name: p.Name})
				if !ok {
					continue
				}
				tags = append(tags, Tag{Text: t, Attr: ak, Target: d})
				span = span.Merge(attr.Span)
			}
		}
	}
	return tags, span
}

func argAt(args []ast.Arg, i int) *ast.Arg {
	if i < len(args) {
		return &args[i]
	}
	return nil
}
