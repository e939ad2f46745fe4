package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/nbtkit/ebnf/parse"
	"github.com/dhamidi/nbtkit/ebnflex"
	"github.com/dhamidi/nbtkit/snbt"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfLexCmd())
	cmd.AddCommand(newEbnfParseCmd())

	return cmd
}

// loadGrammar parses the named grammar file, or the published grammar of
// the text notation when no file is given.
func loadGrammar(args []string) (ebnf.Grammar, error) {
	if len(args) == 0 {
		return ebnflex.ParseGrammar("snbt.ebnf", strings.NewReader(snbt.EBNF))
	}
	return ebnflex.LoadGrammar(args[0])
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file",
		Long:          "Check verifies the given grammar, or the text notation grammar when no file is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := startProduction
			if len(args) == 0 && start == "" {
				start = snbt.StartProduction
			}

			grammar, err := loadGrammar(args)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			if start == "" {
				return nil
			}
			if err := ebnf.Verify(grammar, start); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfLexCmd() *cobra.Command {
	var grammarFile string
	var kinds []string
	var keepSpace bool

	cmd := &cobra.Command{
		Use:           "lex <input|->",
		Short:         "Print the tokens of an input",
		Long:          "Lex splits the input into tokens of the text notation grammar, or of --grammar with the --kinds token productions.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if grammarFile != "" {
				files = append(files, grammarFile)
			} else if len(kinds) == 0 {
				kinds = snbt.TokenKinds
			}
			grammar, err := loadGrammar(files)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			lexer, err := ebnflex.New(grammar, kinds...)
			if err != nil {
				return err
			}

			filename, input, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			tokens := lexer.Tokenize(filename, input)
			if !keepSpace && len(kinds) > 0 {
				tokens = ebnflex.Without(tokens, "WhiteSpace")
			}
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			if errs := ebnflex.Errors(tokens); len(errs) > 0 {
				return fmt.Errorf("%d invalid tokens", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "grammar file (default is the text notation grammar)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "token productions of --grammar")
	cmd.Flags().BoolVar(&keepSpace, "space", false, "print WhiteSpace tokens")

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var grammarFile string
	var kinds []string
	var startProduction string

	cmd := &cobra.Command{
		Use:           "parse <input|->",
		Short:         "Check an input against the syntax productions of a grammar",
		Long:          "Parse recognizes the input with the text notation grammar, or with --grammar, its --kinds token productions and --start.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			start := startProduction
			if grammarFile != "" {
				files = append(files, grammarFile)
			} else {
				if len(kinds) == 0 {
					kinds = snbt.TokenKinds
				}
				if start == "" {
					start = snbt.StartProduction
				}
			}
			if start == "" {
				return fmt.Errorf("--start is required with --grammar")
			}
			grammar, err := loadGrammar(files)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}
			lexer, err := ebnflex.New(grammar, kinds...)
			if err != nil {
				return err
			}
			parser, err := parse.NewEarleyParser(lexer)
			if err != nil {
				return err
			}

			filename, input, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if err := parser.ParseString(filename, input, start); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "grammar file (default is the text notation grammar)")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "token productions of --grammar")
	cmd.Flags().StringVar(&startProduction, "start", "", "start production (default Document for the text notation grammar)")

	return cmd
}

// readInput returns the argument itself, or standard input for "-".
func readInput(cmd *cobra.Command, arg string) (string, string, error) {
	if arg != "-" {
		return "<arg>", arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("read input: %w", err)
	}
	return "<stdin>", string(data), nil
}

func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
