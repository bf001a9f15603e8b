package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaimegonzalezfabregas/datalang/dlang"
)

// newRunCmd builds `dlang run <file>`: load a program file and feed it to
// Engine.Input in one shot.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "load a program file and print its query results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			engine := dlang.NewEngine(dlang.WithLogger(newLogger()))
			out, err := engine.Input(string(src), verbose)
			if out != "" {
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
			if err != nil {
				return fmt.Errorf("running %s: %w", args[0], err)
			}
			return nil
		},
	}
}
