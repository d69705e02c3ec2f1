package extractor

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"attrdoc/internal/ast"
)

// tokenIndex numbers the leaves of a syntax tree so node positions can carry
// a token index alongside line and byte offset.
type tokenIndex struct {
	starts []uint32
}

func newTokenIndex(root *sitter.Node) *tokenIndex {
	idx := &tokenIndex{}
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	var visit func(*sitter.TreeCursor)
	visit = func(c *sitter.TreeCursor) {
		n := c.CurrentNode()
		if n.ChildCount() == 0 {
			if n.EndByte() > n.StartByte() {
				idx.starts = append(idx.starts, n.StartByte())
			}
			return
		}
		if c.GoToFirstChild() {
			visit(c)
			for c.GoToNextSibling() {
				visit(c)
			}
			c.GoToParent()
		}
	}
	visit(cursor)
	return idx
}

// first returns the index of the first token starting at or after offset.
func (t *tokenIndex) first(offset uint32) int {
	return sort.Search(len(t.starts), func(i int) bool { return t.starts[i] >= offset })
}

// span returns the position range of n. The end offset is inclusive.
func (t *tokenIndex) span(n *sitter.Node) ast.Span {
	end := max(int(n.EndByte())-1, int(n.StartByte()))
	return ast.Span{
		Start: ast.Position{
			Line:   int(n.StartPoint().Row) + 1,
			Offset: int(n.StartByte()),
			Token:  t.first(n.StartByte()),
		},
		End: ast.Position{
			Line:   int(n.EndPoint().Row) + 1,
			Offset: end,
			Token:  max(t.first(n.EndByte())-1, t.first(n.StartByte())),
		},
	}
}
