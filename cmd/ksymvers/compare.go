package main

import (
	"os"

	"github.com/spf13/cobra"

	"kabi-tools/internal/cliutil"
	"kabi-tools/internal/format"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/rules"
	"kabi-tools/internal/symvers"
)

var (
	compareFormat   string
	compareRulesPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare <old.symvers> <new.symvers>",
	Short: "Compare two Module.symvers files and classify changes by severity rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldC, err := loadSymvers(args[0])
		if err != nil {
			return err
		}
		newC, err := loadSymvers(args[1])
		if err != nil {
			return err
		}

		var rs *rules.Rules
		if compareRulesPath != "" {
			f, err := os.Open(compareRulesPath)
			if err != nil {
				return kerrors.Wrap(kerrors.IO, compareRulesPath, err)
			}
			defer f.Close()
			rs, err = rules.Parse(compareRulesPath, f)
			if err != nil {
				return err
			}
		}

		diffs := symvers.Compare(oldC, newC, rs)

		spec := format.ParseSpec(cliutil.ResolveFormat(compareFormat, cfg))
		dest, err := format.Open(spec, false, false)
		if err != nil {
			return err
		}
		defer dest.Close()

		if err := symvers.WriteDiffs(dest, diffs, symvers.FormatKind(spec.Type)); err != nil {
			return kerrors.Wrap(kerrors.OutputError, spec.Dest, err)
		}

		if symvers.HasFailures(diffs) {
			return kerrors.ErrDiffersFound
		}
		return nil
	},
}

func loadSymvers(path string) (*symvers.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	defer f.Close()
	return symvers.Load(path, f)
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", "", "output format: null, symbols, pretty [:FILE]")
	compareCmd.Flags().StringVarP(&compareRulesPath, "rules", "r", "", "severity rules file")
}
