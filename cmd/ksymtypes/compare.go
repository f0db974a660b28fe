package main

import (
	"os"

	"github.com/spf13/cobra"

	"kabi-tools/internal/cliutil"
	"kabi-tools/internal/filter"
	"kabi-tools/internal/format"
	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/symtypes"
	"kabi-tools/internal/worker"
)

var (
	compareJobs       int
	compareFormat     string
	compareFilterList string
)

var compareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare two symtypes corpora (directories or consolidated files)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs := cliutil.ResolveJobs(compareJobs, cfg)
		pool := worker.New(jobs)

		oldC, err := loadCorpus(cmd.Context(), args[0], intern.New(), pool)
		if err != nil {
			return err
		}
		newC, err := loadCorpus(cmd.Context(), args[1], intern.New(), pool)
		if err != nil {
			return err
		}

		diffs := symtypes.Compare(oldC, newC)

		if compareFilterList != "" {
			f, err := os.Open(compareFilterList)
			if err != nil {
				return kerrors.Wrap(kerrors.IO, compareFilterList, err)
			}
			defer f.Close()
			flt, err := filter.Load(compareFilterList, f)
			if err != nil {
				return err
			}
			kept := diffs[:0]
			for _, d := range diffs {
				if flt.Matches(d.Export) {
					kept = append(kept, d)
				}
			}
			diffs = kept
		}

		spec := format.ParseSpec(cliutil.ResolveFormat(compareFormat, cfg))
		dest, err := format.Open(spec, false, cfg != nil && !cfg.Color)
		if err != nil {
			return err
		}
		defer dest.Close()

		if err := symtypes.WriteDiffs(dest, diffs, symtypes.FormatKind(spec.Type), dest.Color); err != nil {
			return kerrors.Wrap(kerrors.OutputError, spec.Dest, err)
		}

		if len(diffs) > 0 {
			return kerrors.ErrDiffersFound
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().IntVarP(&compareJobs, "jobs", "j", 0, "number of parallel workers for loading directory corpora; the comparison itself is single-threaded (default: NumCPU, capped at 16)")
	compareCmd.Flags().StringVar(&compareFormat, "format", "", "output format: null, symbols, mod-symbols, short, pretty [:FILE]")
	compareCmd.Flags().StringVar(&compareFilterList, "filter-symbol-list", "", "only report exports matching patterns in FILE")
}
