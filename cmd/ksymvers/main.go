// Command ksymvers compares kernel Module.symvers export summaries
// against a severity rule set.
package main

import "kabi-tools/internal/cliutil"

func main() {
	err := rootCmd.Execute()
	cliutil.Exit(err)
}
