// Package cliutil holds the small pieces shared by the ksymtypes and
// ksymvers command trees: jobs-flag resolution and the exit-code
// mapping applied once at the top of main().
package cliutil

import (
	"errors"
	"fmt"
	"os"

	"kabi-tools/internal/config"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/worker"
)

// ResolveJobs applies the precedence flag > config file > built-in
// default for the -j/--jobs setting. flagValue is 0 when the user did
// not pass -j explicitly (cobra's IntVar default).
func ResolveJobs(flagValue int, cfg *config.Config) int {
	if flagValue > 0 {
		return flagValue
	}
	if cfg != nil && cfg.Jobs > 0 {
		return cfg.Jobs
	}
	return worker.DefaultJobs()
}

// ResolveFormat applies flag > config file > built-in default for
// --format.
func ResolveFormat(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Format != "" {
		return cfg.Format
	}
	return "pretty"
}

// Exit maps err to the process exit code policy: 0 on success,
// 1 when a compare command found differences, 2 for any other failure.
// It prints a message for unexpected failures before exiting.
func Exit(err error) {
	code := kerrors.ExitCode(err)
	if code == 2 {
		var kerr *kerrors.Error
		if errors.As(err, &kerr) {
			fmt.Fprintf(os.Stderr, "error: %s\n", kerr.Error())
		} else if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	os.Exit(code)
}
