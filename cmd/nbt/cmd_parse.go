package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/nbt"
	"github.com/dhamidi/nbtkit/snbt"
)

func newParseCmd(a *app) *cobra.Command {
	var compound bool

	cmd := &cobra.Command{
		Use:   "parse <snbt|->",
		Short: "Parse a tag in text notation and write it in the output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := readInput(cmd, text)
				if err != nil {
					return err
				}
				text = strings.TrimSpace(string(data))
			}

			p := snbt.NewTagParser(nil)
			var tag nbt.Tag
			var err error
			if compound {
				tag, err = p.ParseCompoundFully(text)
			} else {
				tag, err = p.ParseFully(text)
			}
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			return a.encode(cmd, tag)
		},
	}

	cmd.Flags().BoolVar(&compound, "compound", false, "require a compound root")

	return cmd
}
