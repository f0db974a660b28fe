// Command ksymtypes consolidates, splits, and compares kernel symtypes
// corpora.
package main

import "kabi-tools/internal/cliutil"

func main() {
	err := rootCmd.Execute()
	cliutil.Exit(err)
}
