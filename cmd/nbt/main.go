package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/nbtkit/config"
)

const version = "0.1.0"

var log = commonlog.GetLogger("nbt.cli")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int
	var logPath string

	a := &app{loader: config.New()}

	rootCmd := &cobra.Command{
		Use:          "nbt",
		Short:        "Read, write and convert tagged binary trees",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if logPath != "" {
				path = &logPath
			}
			commonlog.Configure(verbose, path)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&verbose, "verbose", "v", "log verbosity (repeat for more)")
	flags.StringVar(&logPath, "log", "", "log file (default is stderr)")
	if err := a.loader.BindFlags(flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newDecodeCmd(a))
	rootCmd.AddCommand(newEncodeCmd(a))
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newDigestCmd(a))
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}
