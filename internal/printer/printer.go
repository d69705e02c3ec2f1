// Package printer writes rewritten doc comments back into source text. Only
// the bytes of changed comments are touched; everything else in the file is
// reproduced as parsed.
package printer

import (
	"fmt"
	"sort"
	"strings"

	"attrdoc/internal/ast"
)

// Edit replaces Length bytes at Offset with Text. A zero Length inserts.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// Edits computes one edit per statement of f whose doc comment changed.
func Edits(f *ast.File) []Edit {
	var edits []Edit
	for _, stmt := range ast.Modified(f) {
		slot := stmt.Comments()
		if slot.Doc == nil {
			continue
		}
		text := reindent(slot.Doc.Text, slot.Indent)
		if orig := slot.Original; orig != nil {
			edits = append(edits, Edit{
				Offset: orig.Span.Start.Offset,
				Length: orig.Span.End.Offset - orig.Span.Start.Offset + 1,
				Text:   text,
			})
			continue
		}
		edits = append(edits, Edit{
			Offset: slot.Anchor,
			Text:   text + "\n" + slot.Indent,
		})
	}
	return edits
}

// Apply returns a copy of src with edits applied. Edits must not overlap.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset > sorted[j].Offset })

	out := append([]byte(nil), src...)
	limit := len(src)
	for _, e := range sorted {
		end := e.Offset + e.Length
		if e.Offset < 0 || e.Length < 0 || end > limit {
			return nil, fmt.Errorf("edit at offset %d (length %d) out of range or overlapping", e.Offset, e.Length)
		}
		tail := append([]byte(e.Text), out[end:]...)
		out = append(out[:e.Offset], tail...)
		limit = e.Offset
	}
	return out, nil
}

// Print renders f with every changed doc comment written back.
func Print(f *ast.File) ([]byte, error) {
	out, err := Apply(f.Source, Edits(f))
	if err != nil {
		return nil, fmt.Errorf("failed to print %s: %w", f.Path, err)
	}
	return out, nil
}

// reindent aligns the star column of every line after the first with indent.
// Lines that do not start with a star are left alone.
func reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(trimmed, "*") {
			lines[i] = indent + " " + trimmed
		}
	}
	return strings.Join(lines, "\n")
}
