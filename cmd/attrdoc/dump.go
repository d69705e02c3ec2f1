package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var dumpSynthesized bool

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print the declaration tree of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVarP(&dumpSynthesized, "synthesize", "s", false, "Dump the tree after tags were added")
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.cleanup()

	f, err := a.ext.ExtractFromFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if dumpSynthesized {
		a.synth.Run(f)
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(cmd.OutOrStdout(), f.Namespace, f.Decls)
	return nil
}
