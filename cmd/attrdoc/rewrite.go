package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"attrdoc/internal/crawler"
	"attrdoc/internal/pipeline"
	"attrdoc/internal/storage"
)

var (
	rewriteWrite   bool
	rewriteChanged bool
	rewriteBase    string
	rewriteForce   bool
	rewriteWorkers int
	rewriteNoDB    bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [path]",
	Short: "Add doc comment tags for every attribute under path",
	Long: `Scan path (default: the configured root) for PHP files and add a doc comment
tag for every supported attribute. Without --write a unified diff is printed
and nothing is changed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().BoolVarP(&rewriteWrite, "write", "w", false, "Rewrite files in place instead of printing a diff")
	rewriteCmd.Flags().BoolVar(&rewriteChanged, "changed", false, "Only process files changed according to git")
	rewriteCmd.Flags().StringVar(&rewriteBase, "base", "HEAD", "Git ref to diff against with --changed")
	rewriteCmd.Flags().BoolVarP(&rewriteForce, "force", "f", false, "Process files the ledger marks as up to date")
	rewriteCmd.Flags().IntVarP(&rewriteWorkers, "workers", "j", 0, "Number of files processed in parallel (default from config)")
	rewriteCmd.Flags().BoolVar(&rewriteNoDB, "no-ledger", false, "Do not read or record the processed-file ledger")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.cleanup()

	root := a.cfg.Root
	if len(args) > 0 {
		root = args[0]
	}

	var ledger storage.Ledger
	if !rewriteNoDB {
		store, err := storage.NewSQLiteStore(a.cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open ledger %s: %w", a.cfg.DB, err)
		}
		defer store.Close()
		ledger = store
	}

	cr := crawler.NewCrawler(a.cfg.Extensions, a.cfg.Ignore)
	s := pipeline.NewIncrementalSync(cr, a.ext, a.synth, ledger, a.logger)
	s.ProjectRoot = root
	s.Write = rewriteWrite
	s.Diff = cmd.OutOrStdout()
	s.Changed = rewriteChanged
	s.BaseRef = rewriteBase
	s.Force = rewriteForce
	s.Workers = a.cfg.Workers
	if rewriteWorkers > 0 {
		s.Workers = rewriteWorkers
	}

	report, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}
	printReport(report)
	if report.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", report.Failed)
	}
	return nil
}

func printReport(r *pipeline.Report) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	verb := "to rewrite"
	if rewriteWrite {
		verb = "rewritten"
	}
	fmt.Fprintf(os.Stderr, "%s files: %s %s, %s unchanged since last run, %s failed\n",
		bold(r.Files),
		green(r.Rewritten), verb,
		yellow(r.Skipped),
		red(r.Failed),
	)
	fmt.Fprintf(os.Stderr, "%s tags on %s declarations, %s on trait uses, %s unmatched\n",
		green(r.Stats.Tags), bold(r.Stats.Rewritten), green(r.Stats.Bound), yellow(r.Stats.Dropped))
	if rewriteChanged {
		fmt.Fprintf(os.Stderr, "%s declarations touched by the diff against %s\n", bold(r.Affected), rewriteBase)
	}
}
