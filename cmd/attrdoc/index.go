package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"attrdoc/internal/crawler"
	"attrdoc/internal/index"
)

var indexOutput string

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Write a JSON index of attributed declarations and their tags",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "attrdoc-index.json", "Path of the JSON index")
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.cleanup()

	root := a.cfg.Root
	if len(args) > 0 {
		root = args[0]
	}

	cr := crawler.NewCrawler(a.cfg.Extensions, a.cfg.Ignore)
	idx, err := index.NewIndexer(cr, a.ext, a.synth).Build(cmd.Context(), root)
	if err != nil {
		return err
	}
	if err := index.Save(idx, indexOutput); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s declarations indexed in %s\n", color.GreenString("%d", len(idx.Entries)), indexOutput)
	return nil
}
