package main

import (
	"fmt"
	"os"

	"github.com/minilux/minilux/internal/format"
	"github.com/minilux/minilux/lexer"
	"github.com/minilux/minilux/parser"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:           "fmt PATH",
	Short:         "Print or rewrite a script in canonical formatting",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite PATH in place instead of printing to stdout")
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minilux: %v\n", err)
		return err
	}

	if _, errs := parser.ParseProgram(lexer.New(string(src))); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintf(os.Stderr, "%s: parse error: %s\n", path, msg)
		}
		return fmt.Errorf("%s: parse failed", path)
	}

	formatted, err := format.Source(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return err
	}

	if fmtWrite {
		info, statErr := os.Stat(path)
		mode := os.FileMode(0644)
		if statErr == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(path, []byte(formatted), mode); err != nil {
			fmt.Fprintf(os.Stderr, "minilux: %v\n", err)
			return err
		}
		return nil
	}

	fmt.Fprint(os.Stdout, formatted)
	return nil
}
