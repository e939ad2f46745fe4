package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/format"
)

func newDigestCmd(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "digest <file|->...",
		Short: "Print the BLAKE3 digest of tag trees",
		Long: `Digest hashes the binary encoding of each tree with compound keys in
sorted order, so equal trees have equal digests whatever their key order or
input format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				data, err := readInput(cmd, name)
				if err != nil {
					return err
				}
				tag, err := a.decode(inputFormat(from, name, "nbt"), data)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				sum, err := format.Digest(tag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (default from the file extension, else nbt)")

	return cmd
}
