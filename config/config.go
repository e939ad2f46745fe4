// Package config resolves decode limits and CLI defaults. Values come, in
// increasing precedence, from built-in defaults, an optional config file,
// NBT_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dhamidi/nbtkit/format"
	"github.com/dhamidi/nbtkit/nbt"
)

const (
	// AppName names the directory below the user config dir.
	AppName = "nbt"
	// ConfigFileName is the config file name without extension; yaml, toml
	// and json are read.
	ConfigFileName = "nbt"
	// EnvPrefix prefixes environment variables, as in NBT_LIMITS_QUOTA.
	EnvPrefix = "NBT"
)

type Config struct {
	Limits Limits `mapstructure:"limits"`
	Output Output `mapstructure:"output"`
}

// Limits bound binary decodes. A quota of zero or less means unlimited.
type Limits struct {
	Quota int64 `mapstructure:"quota"`
	Depth int   `mapstructure:"depth"`
}

type Output struct {
	Format string `mapstructure:"format"`
}

func Default() Config {
	return Config{
		Limits: Limits{Quota: nbt.DefaultQuota, Depth: nbt.DefaultMaxDepth},
		Output: Output{Format: "json"},
	}
}

// Accounter returns a fresh accounter enforcing the configured limits.
func (c Config) Accounter() *nbt.Accounter {
	quota := c.Limits.Quota
	if quota <= 0 {
		quota = math.MaxInt64
	}
	return nbt.NewAccounter(quota, c.Limits.Depth)
}

func (c Config) validate() error {
	if c.Limits.Depth <= 0 {
		return fmt.Errorf("limits.depth must be positive, got %d", c.Limits.Depth)
	}
	if !slices.Contains(format.Names(), strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// Loader owns the viper instance the configuration is resolved from.
type Loader struct {
	v          *viper.Viper
	configFile string
	configDir  string
}

func New() *Loader {
	v := viper.New()
	defaults := Default()
	v.SetDefault("limits.quota", defaults.Limits.Quota)
	v.SetDefault("limits.depth", defaults.Limits.Depth)
	v.SetDefault("output.format", defaults.Output.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// SetConfigDir replaces the directory searched for the config file.
func (l *Loader) SetConfigDir(dir string) {
	l.configDir = dir
}

// BindFlags registers --config, --quota, --depth and --format on fs and
// binds them so that flags set on the command line win over every other
// source.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	defaults := Default()
	fs.StringVar(&l.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/nbt/nbt.yaml)")
	fs.Int64("quota", defaults.Limits.Quota, "byte quota of binary decodes, 0 for unlimited")
	fs.Int("depth", defaults.Limits.Depth, "maximum nesting depth of binary decodes")
	fs.StringP("format", "f", defaults.Output.Format, "output format: "+strings.Join(format.Names(), ", "))

	for key, name := range map[string]string{
		"limits.quota":  "quota",
		"limits.depth":  "depth",
		"output.format": "format",
	} {
		if err := l.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load resolves the configuration and reports the config file that was
// read, if any. An explicit --config file must exist; a missing file in the
// config directory is not an error.
func (l *Loader) Load() (*Config, string, error) {
	if l.configFile != "" {
		if _, err := os.Stat(l.configFile); err != nil {
			return nil, "", fmt.Errorf("config file not found: %w", err)
		}
		l.v.SetConfigFile(l.configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config %s: %w", l.configFile, err)
		}
	} else if dir, err := l.dir(); err == nil {
		l.v.SetConfigName(ConfigFileName)
		l.v.AddConfigPath(dir)
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, "", err
	}
	return &cfg, l.v.ConfigFileUsed(), nil
}

func (l *Loader) dir() (string, error) {
	if l.configDir != "" {
		return l.configDir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}
