package main

import (
	"os"

	"github.com/spf13/cobra"

	"kabi-tools/internal/cliutil"
	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/worker"
)

var (
	consolidateJobs   int
	consolidateOutput string
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <directory>",
	Short: "Merge a directory of per-object symtypes files into one consolidated file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if consolidateOutput == "" {
			return kerrors.New(kerrors.OutputError, "The consolidate output is missing")
		}

		jobs := cliutil.ResolveJobs(consolidateJobs, cfg)
		pool := worker.New(jobs)
		in := intern.New()

		c, err := loadCorpus(cmd.Context(), args[0], in, pool)
		if err != nil {
			return err
		}

		out := os.Stdout
		if consolidateOutput != "-" {
			f, err := os.Create(consolidateOutput)
			if err != nil {
				return kerrors.Wrap(kerrors.OutputError, consolidateOutput, err)
			}
			defer f.Close()
			out = f
		}

		if err := c.WriteConsolidated(out); err != nil {
			return kerrors.Wrap(kerrors.OutputError, consolidateOutput, err)
		}
		return nil
	},
}

func init() {
	consolidateCmd.Flags().IntVarP(&consolidateJobs, "jobs", "j", 0, "number of parallel parse workers (default: NumCPU, capped at 16)")
	consolidateCmd.Flags().StringVarP(&consolidateOutput, "output", "o", "", "output file, or '-' for stdout (required)")
}
