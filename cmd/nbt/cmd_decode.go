package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/nbt"
)

func newDecodeCmd(a *app) *cobra.Command {
	var selects []string

	cmd := &cobra.Command{
		Use:   "decode <file|->",
		Short: "Decode binary NBT, optionally keeping only selected fields",
		Long: `Decode reads binary NBT within the configured --quota and --depth limits.
With --select only the given dot-separated paths of a compound root are
collected and the rest of the input is skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			dec := nbt.NewDecoder(bytes.NewReader(data), nbt.WithAccounter(cfg.Accounter()))

			if len(selects) == 0 {
				tag, err := dec.Decode()
				if err != nil {
					return fmt.Errorf("decode: %w", err)
				}
				return a.encode(cmd, tag)
			}

			selector := nbt.NewFieldSelector(selects...)
			if err := dec.Visit(selector); err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			result, ok := selector.Result()
			if !ok {
				return fmt.Errorf("decode: --select needs a compound root")
			}
			if !selector.Complete() {
				log.Warningf("not every selected path was found")
			}
			log.Debugf("decode charged %d of %d bytes", dec.Accounter().Usage(), dec.Accounter().Quota())
			return a.encode(cmd, result)
		},
	}

	cmd.Flags().StringSliceVar(&selects, "select", nil, "dot-separated path to keep (repeatable)")

	return cmd
}
