package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ahi",
		Short: "Development tools for the nbtkit grammars",
		Long: `Ahi checks EBNF grammars and runs inputs through their lexer and syntax.
Without a grammar file the published grammar of the text notation is used.`,
	}

	rootCmd.AddCommand(newEbnfCmd())

	return rootCmd
}
