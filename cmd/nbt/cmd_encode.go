package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/format"
)

func newEncodeCmd(a *app) *cobra.Command {
	var from string
	var output string

	cmd := &cobra.Command{
		Use:   "encode <file|->",
		Short: "Encode JSON, YAML, TOML or CBOR as binary NBT",
		Long: `Encode reads a tree of plain values and writes it as binary NBT with
sorted keys. Numbers take the smallest type that holds them. JSON input may
contain comments and trailing commas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			tag, err := a.decode(inputFormat(from, args[0], "json"), data)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			return format.NewBinaryEncoder(w).Encode(tag)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (default from the file extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default is stdout)")

	return cmd
}
