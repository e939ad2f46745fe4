package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/snbt"
)

func newCompleteCmd() *cobra.Command {
	var cursor int

	cmd := &cobra.Command{
		Use:   "complete <text>",
		Short: "List completions for text notation at a cursor",
		Long: `Complete prints one suggestion per line, prefixed with the offset the
suggestion replaces from. The cursor defaults to the end of the text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if cursor < 0 || cursor > len(text) {
				cursor = len(text)
			}
			suggestions := snbt.NewTagParser(nil).Suggest(text[:cursor], 0)
			for _, v := range suggestions.Values {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", suggestions.Start, v)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cursor, "cursor", -1, "byte offset of the cursor")

	return cmd
}
