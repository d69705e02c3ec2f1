package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"attrdoc/internal/ast"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <file>...",
	Short: "List the tags that would be added to each declaration",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTags,
}

func runTags(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.cleanup()

	loc := color.New(color.FgCyan).SprintFunc()
	name := color.New(color.Bold).SprintFunc()
	tag := color.New(color.FgGreen).SprintFunc()
	out := cmd.OutOrStdout()

	for _, path := range args {
		f, err := a.ext.ExtractFromFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		ast.Inspect(f, func(d ast.Decl) bool {
			r := a.synth.Visit(d)
			// Own tags point at the attributes they came from; bound tags at
			// their trait-use statement.
			for _, t := range r.Tags {
				fmt.Fprintf(out, "%s\t%s %s\t%s\n",
					loc(location(path, r.Span, d.Pos())), d.Kind(), name(d.Name()), tag(t.Text))
			}
			for _, t := range r.Bound {
				fmt.Fprintf(out, "%s\t%s %s\t%s\n",
					loc(location(path, t.Target.Pos(), t.Target.Pos())), d.Kind(), name(d.Name()), tag(t.Text))
			}
			for _, key := range r.Dropped {
				fmt.Fprintf(out, "%s\t%s %s\t%s\n",
					loc(fmt.Sprintf("%s:%d", path, d.Pos().Start.Line)), d.Kind(), name(d.Name()),
					color.YellowString("no trait use matches %q", key))
			}
			return true
		})
	}
	return nil
}

// location formats span as path:line or path:first-last, falling back to
// def when span is empty.
func location(path string, span, def ast.Span) string {
	if span.IsEmpty() {
		span = def
	}
	if span.End.Line > span.Start.Line {
		return fmt.Sprintf("%s:%d-%d", path, span.Start.Line, span.End.Line)
	}
	return fmt.Sprintf("%s:%d", path, span.Start.Line)
}
