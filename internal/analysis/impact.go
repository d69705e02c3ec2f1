package analysis

import (
	"attrdoc/internal/ast"
)

// ImpactReport summarizes the declarations affected by changed lines.
type ImpactReport struct {
	// DirectlyAffected declarations span at least one changed line.
	DirectlyAffected []ast.Decl
	// IndirectlyAffected are the class-likes enclosing a directly affected
	// member that were not touched themselves.
	IndirectlyAffected []ast.Decl
}

// AnalyzeImpact identifies which declarations of f cover the given lines of
// the new file version.
func AnalyzeImpact(f *ast.File, lines []int) *ImpactReport {
	report := &ImpactReport{
		DirectlyAffected:   []ast.Decl{},
		IndirectlyAffected: []ast.Decl{},
	}
	if len(lines) == 0 {
		return report
	}

	for _, d := range f.Decls {
		direct := isAffected(d, lines)
		if direct {
			report.DirectlyAffected = append(report.DirectlyAffected, d)
		}
		c, ok := d.(*ast.ClassLike)
		if !ok {
			continue
		}
		var members bool
		for _, s := range c.Stmts {
			if m, ok := s.(ast.Decl); ok && isAffected(m, lines) {
				report.DirectlyAffected = append(report.DirectlyAffected, m)
				members = true
			}
		}
		if members && !direct {
			report.IndirectlyAffected = append(report.IndirectlyAffected, c)
		}
	}
	return report
}

// isAffected reports whether a changed line falls inside the declaration or
// its doc comment.
func isAffected(d ast.Decl, lines []int) bool {
	span := d.Pos()
	if doc := d.Comments().Original; doc != nil {
		span = span.Merge(doc.Span)
	}
	for _, line := range lines {
		if line >= span.Start.Line && line <= span.End.Line {
			return true
		}
	}
	return false
}
