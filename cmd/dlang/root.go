package main

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	_ "github.com/jaimegonzalezfabregas/datalang/internal/parser"
)

var verbose bool

// newRootCmd builds the dlang CLI, following the cobra root-plus-subcommand
// wiring used by _examples/cue-lang-cue's cmd/cue: a bare root command that
// only carries persistent flags, with each subcommand defined in its own
// file and attached via AddCommand.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dlang",
		Short:         "run programs against a small deductive database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log statement dispatch and query completeness at debug level")
	root.AddCommand(newRunCmd(), newReplCmd())
	return root
}

func newLogger() hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "dlang",
		Level: level,
	})
}
