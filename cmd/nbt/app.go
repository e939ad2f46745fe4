package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/nbtkit/config"
	"github.com/dhamidi/nbtkit/format"
	"github.com/dhamidi/nbtkit/nbt"
)

// app carries the configuration shared by the subcommands. It is loaded on
// first use, after the flags have been parsed.
type app struct {
	loader *config.Loader
	cfg    *config.Config
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, path, err := a.loader.Load()
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debugf("using config file %s", path)
	}
	a.cfg = cfg
	return cfg, nil
}

// encode writes t in the configured output format.
func (a *app) encode(cmd *cobra.Command, t nbt.Tag) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	enc, err := format.NewEncoder(cfg.Output.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode %s: %w", cfg.Output.Format, err)
	}
	return nil
}

// decode reads a tag tree from data written in the named format. Binary
// input is charged against the configured limits.
func (a *app) decode(name string, data []byte) (nbt.Tag, error) {
	if strings.ToLower(name) != "nbt" {
		return format.Decode(name, data)
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return nbt.Unmarshal(data, cfg.Accounter())
}

// readInput reads the named file, or standard input for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

var formatsByExt = map[string]string{
	".json":  "json",
	".jsonc": "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".cbor":  "cbor",
	".nbt":   "nbt",
	".dat":   "nbt",
}

// inputFormat returns from when set and otherwise guesses from the file
// extension, falling back to def.
func inputFormat(from, name, def string) string {
	if from != "" {
		return from
	}
	if f, ok := formatsByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return def
}
