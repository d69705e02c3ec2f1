package synthesizer

import (
	"strings"

	"attrdoc/internal/ast"
)

const (
	docOpener = "/**\n"
	docCloser = " */"
	docLine   = " * "
)

// rewriteDoc appends one line per tag to the doc comment in slot, creating the
// comment when there is none. span covers the attributes that produced the
// tags; the existing comment's span is folded into it.
func rewriteDoc(slot *ast.DocSlot, tags []string, span ast.Span) {
	var b strings.Builder
	b.WriteString(docOpener)
	if doc := slot.DocComment(); doc != nil {
		if prefix, ok := stripCloser(doc.Text); ok {
			span = span.Merge(doc.Span)
			b.Reset()
			b.WriteString(prefix)
		}
	}
	for _, t := range tags {
		b.WriteString(docLine)
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString(docCloser)
	slot.SetDocComment(&ast.Doc{Text: b.String(), Span: span})
}

// stripCloser removes the trailing `*/` and whatever blank run precedes it,
// leaving text that ends in a newline.
func stripCloser(text string) (string, bool) {
	i := strings.LastIndex(text, "*/")
	if i < 0 {
		return "", false
	}
	prefix := strings.TrimRight(text[:i], " \t")
	if !strings.HasSuffix(prefix, "\n") {
		prefix += "\n"
	}
	return prefix, true
}
