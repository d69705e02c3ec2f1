package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrdoc/internal/ast"
)

func TestNewExtractor(t *testing.T) {
	ext, err := NewExtractor("php")
	require.NoError(t, err)
	assert.Equal(t, "php", ext.Language())

	_, err = NewExtractor("go")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestExtractor_ExtractFromFile(t *testing.T) {
	ext, err := NewExtractor("php")
	require.NoError(t, err)

	f, err := ext.ExtractFromFile(context.Background(), filepath.Join("testdata", "sample.php"))
	require.NoError(t, err)

	declsByName := make(map[string]ast.Decl)
	ast.Inspect(f, func(d ast.Decl) bool {
		declsByName[d.Name()] = d
		return true
	})

	t.Run("Namespace", func(t *testing.T) {
		assert.Equal(t, `App\Model`, f.Namespace)
	})

	t.Run("Top level declarations", func(t *testing.T) {
		require.Len(t, f.Decls, 4)
		assert.Equal(t, ast.KindClass, f.Decls[0].Kind())
		assert.Equal(t, ast.KindInterface, f.Decls[1].Kind())
		assert.Equal(t, ast.KindTrait, f.Decls[2].Kind())
		assert.Equal(t, ast.KindFunction, f.Decls[3].Kind())
	})

	t.Run("Class", func(t *testing.T) {
		c, ok := declsByName["Collection"].(*ast.ClassLike)
		require.True(t, ok)

		doc := c.Comments().DocComment()
		require.NotNil(t, doc)
		assert.Equal(t, "/**\n * A typed collection.\n */", doc.Text)
		assert.Equal(t, 10, doc.Span.Start.Line)
		assert.Equal(t, 12, doc.Span.End.Line)
		assert.False(t, c.Comments().Modified())

		groups := c.AttrGroups()
		require.Len(t, groups, 2)
		require.Len(t, groups[0].Attrs, 1)
		assert.Equal(t, "Template", groups[0].Attrs[0].Name)
		assert.Equal(t, []ast.Arg{{Value: ast.StringLit{Value: "T"}}}, groups[0].Attrs[0].Args)
		assert.Equal(t, 13, groups[0].Attrs[0].Span.Start.Line)

		uses := c.TraitUses()
		require.Len(t, uses, 1)
		assert.Equal(t, []string{"Iterates"}, uses[0].Traits)
		assert.Nil(t, uses[0].Comments().DocComment())
		assert.Equal(t, "    ", uses[0].Comments().Indent)

		// Insertion anchor is the first attribute, not the keyword.
		src := string(f.Source)
		assert.Equal(t, "#[Template('T')]", src[c.Comments().Anchor:c.Comments().Anchor+len("#[Template('T')]")])
	})

	t.Run("Property", func(t *testing.T) {
		p, ok := declsByName["items"].(*ast.Property)
		require.True(t, ok)
		require.Len(t, p.AttrGroups(), 1)
		attr := p.AttrGroups()[0].Attrs[0]
		assert.Equal(t, `PhpStaticAnalysis\Attributes\Type`, attr.Name)
		assert.Equal(t, ast.StringLit{Value: "array<T>"}, attr.Args[0].Value)
	})

	t.Run("Class constant", func(t *testing.T) {
		k, ok := declsByName["LIMIT"].(*ast.ClassConst)
		require.True(t, ok)
		assert.Equal(t, "Type", k.AttrGroups()[0].Attrs[0].Name)
	})

	t.Run("Method attributes", func(t *testing.T) {
		m, ok := declsByName["first"].(*ast.Method)
		require.True(t, ok)
		require.Len(t, m.AttrGroups(), 1)
		attrs := m.AttrGroups()[0].Attrs
		require.Len(t, attrs, 2)
		assert.Equal(t, "Returns", attrs[0].Name)
		assert.Equal(t, "Throws", attrs[1].Name)
		assert.Equal(t, ast.ClassRef{Name: "RuntimeException"}, attrs[1].Args[0].Value)
	})

	t.Run("Parameters", func(t *testing.T) {
		m, ok := declsByName["add"].(*ast.Method)
		require.True(t, ok)
		require.Len(t, m.Params, 3)

		assert.Equal(t, "item", m.Params[0].Name)
		assert.Equal(t, "Param", m.Params[0].Groups[0].Attrs[0].Name)

		assert.Equal(t, "out", m.Params[1].Name)
		out := m.Params[1].Groups[0].Attrs[0]
		assert.Equal(t, "ParamOut", out.Name)
		assert.Equal(t, ast.Arg{Name: "type", Value: ast.StringLit{Value: "list<T>"}}, out.Args[0])

		assert.Equal(t, "rest", m.Params[2].Name)
		assert.Equal(t, "Param", m.Params[2].Groups[0].Attrs[0].Name)
	})

	t.Run("Function", func(t *testing.T) {
		fn, ok := declsByName["helper"].(*ast.Function)
		require.True(t, ok)
		assert.Equal(t, "Pure", fn.AttrGroups()[0].Attrs[0].Name)
		assert.Empty(t, fn.AttrGroups()[0].Attrs[0].Args)
		require.Len(t, fn.Params, 1)
		assert.Empty(t, fn.Params[0].Groups)
		assert.Equal(t, "", fn.Comments().Indent)
	})

	t.Run("Spans", func(t *testing.T) {
		m := declsByName["first"]
		span := m.Pos()
		assert.Equal(t, 25, span.Start.Line)
		assert.Less(t, span.Start.Offset, span.End.Offset)
		assert.Less(t, span.Start.Token, span.End.Token)
	})
}

func TestExtract_Values(t *testing.T) {
	src := []byte(`<?php
#[Returns("list<\$x>"), Returns('it\'s'), Returns(self::class), Returns(PHP_EOL), Returns("a{$b}")]
function f() {}
`)
	ext, err := NewExtractor("php")
	require.NoError(t, err)
	f, err := ext.Extract(context.Background(), "inline.php", src)
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)

	attrs := f.Decls[0].AttrGroups()[0].Attrs
	require.Len(t, attrs, 5)
	assert.Equal(t, ast.StringLit{Value: "list<$x>"}, attrs[0].Args[0].Value)
	assert.Equal(t, ast.StringLit{Value: "it's"}, attrs[1].Args[0].Value)
	assert.Equal(t, ast.ClassRef{Name: "self"}, attrs[2].Args[0].Value)
	assert.Equal(t, ast.Expr{Text: "PHP_EOL"}, attrs[3].Args[0].Value)
	assert.IsType(t, ast.Expr{}, attrs[4].Args[0].Value)
}

func TestExtract_RelativeScopeClassRefs(t *testing.T) {
	src := []byte(`<?php
#[Returns(static::class), Returns(parent::class), Returns(Foo::BAR)]
function f() {}
`)
	ext, err := NewExtractor("php")
	require.NoError(t, err)
	f, err := ext.Extract(context.Background(), "inline.php", src)
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)

	attrs := f.Decls[0].AttrGroups()[0].Attrs
	require.Len(t, attrs, 3)
	assert.Equal(t, ast.ClassRef{Name: "static"}, attrs[0].Args[0].Value)
	assert.Equal(t, ast.ClassRef{Name: "parent"}, attrs[1].Args[0].Value)
	assert.Equal(t, ast.Expr{Text: "Foo::BAR"}, attrs[2].Args[0].Value)
}

func TestExtract_AnonymousClass(t *testing.T) {
	src := []byte(`<?php
$x = new class {
    #[Pure]
    public function anon() {}
};
`)
	ext, err := NewExtractor("php")
	require.NoError(t, err)
	f, err := ext.Extract(context.Background(), "inline.php", src)
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)

	c, ok := f.Decls[0].(*ast.ClassLike)
	require.True(t, ok)
	assert.Equal(t, ast.KindClass, c.Kind())
	assert.Equal(t, "", c.Name())
	assert.Empty(t, c.AttrGroups())

	require.Len(t, c.Stmts, 1)
	m, ok := c.Stmts[0].(*ast.Method)
	require.True(t, ok)
	assert.Equal(t, "anon", m.Name())
	require.Len(t, m.AttrGroups(), 1)
	assert.Equal(t, "Pure", m.AttrGroups()[0].Attrs[0].Name)
	assert.Equal(t, "    ", m.Comments().Indent)

	t.Run("Nested in a function", func(t *testing.T) {
		src := []byte(`<?php
function make() {
    return new class(fn() => 1) extends Base {
        #[Type('int')]
        public $n;
    };
}
`)
		f, err := ext.Extract(context.Background(), "inline.php", src)
		require.NoError(t, err)
		require.Len(t, f.Decls, 2)
		assert.Equal(t, ast.KindFunction, f.Decls[0].Kind())

		c, ok := f.Decls[1].(*ast.ClassLike)
		require.True(t, ok)
		assert.Equal(t, "", c.Name())
		require.Len(t, c.Stmts, 1)
		assert.Equal(t, ast.KindProperty, c.Stmts[0].(ast.Decl).Kind())
	})
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`'plain'`, "plain", true},
		{`'A\B'`, `A\B`, true},
		{`'a\\b'`, `a\b`, true},
		{`"tab\there"`, "tab\there", true},
		{`b'bytes'`, "bytes", true},
		{`'unterminated`, "", false},
		{`x`, "", false},
	}
	for _, tt := range tests {
		got, ok := unquote(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
