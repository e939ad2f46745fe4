package main

import (
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert a tag tree between formats",
		Long: `Convert reads a tag tree, binary NBT unless --from or the file extension
says otherwise, and writes it in the output format selected with --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tag, err := a.decode(inputFormat(from, args[0], "nbt"), data)
			if err != nil {
				return err
			}
			return a.encode(cmd, tag)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (default from the file extension, else nbt)")

	return cmd
}
