package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "minilux PATH",
	Short:         "Run a minilux script",
	Long:          "minilux runs the .mi program at PATH. With no argument it prints usage and exits 1.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}

// Execute runs the root command, returning any error the caller
// should turn into a nonzero exit status. runRoot and runFmt write
// their own diagnostics to stderr before returning an error; cobra's
// own argument-count and flag errors are returned without being
// printed, since both commands set SilenceErrors. The boolean-shaped
// error is only there to drive main's exit code.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, cmd.UsageString())
		return fmt.Errorf("no script given")
	}
	return runFile(args[0])
}
