package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"attrdoc/internal/ast"
)

func TestLocation(t *testing.T) {
	decl := ast.Span{Start: ast.Position{Line: 9}, End: ast.Position{Line: 12}}

	oneLine := ast.Span{Start: ast.Position{Line: 4}, End: ast.Position{Line: 4}}
	assert.Equal(t, "a.php:4", location("a.php", oneLine, decl))

	attrs := ast.EmptySpan().
		Merge(ast.Span{Start: ast.Position{Line: 5}, End: ast.Position{Line: 5}}).
		Merge(ast.Span{Start: ast.Position{Line: 7}, End: ast.Position{Line: 8}})
	assert.Equal(t, "a.php:5-8", location("a.php", attrs, decl))

	assert.Equal(t, "a.php:9-12", location("a.php", ast.EmptySpan(), decl))
}
