package main

import (
	"os"

	"github.com/spf13/cobra"

	"kabi-tools/internal/cliutil"
	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/symtypes"
	"kabi-tools/internal/worker"
)

var (
	splitJobs   int
	splitOutput string
)

var splitCmd = &cobra.Command{
	Use:   "split <consolidated-file>",
	Short: "Regenerate per-object symtypes files from a consolidated file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if splitOutput == "" {
			return kerrors.New(kerrors.OutputError, "split requires -o/--output <directory>")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return kerrors.Wrap(kerrors.IO, args[0], err)
		}
		defer f.Close()

		in := intern.New()
		c, err := symtypes.ReadConsolidated(args[0], f, in)
		if err != nil {
			return err
		}

		jobs := cliutil.ResolveJobs(splitJobs, cfg)
		pool := worker.New(jobs)
		return c.SplitAll(cmd.Context(), splitOutput, pool)
	},
}

func init() {
	splitCmd.Flags().IntVarP(&splitJobs, "jobs", "j", 0, "number of parallel emit workers (default: NumCPU, capped at 16)")
	splitCmd.Flags().StringVarP(&splitOutput, "output", "o", "", "output directory (required)")
}
