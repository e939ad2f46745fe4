package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/lsp"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server for text notation documents",
		Long: `Lsp serves diagnostics and completion over standard input and output.
Use --log to write the server log to a file, since stdout carries the
protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Infof("starting language server %s", version)
			return lsp.NewServer(version).RunStdio()
		},
	}

	// Editors pass --stdio; it is the only transport.
	cmd.Flags().Bool("stdio", true, "communicate over standard input and output")

	return cmd
}
