package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jaimegonzalezfabregas/datalang/dlang"
)

// newReplCmd builds `dlang repl`: read lines from stdin, accumulating them
// into one program buffer per logical run; a blank line flushes the buffer
// through Engine.Input against a single long-lived engine, so facts and
// rules asserted in one buffer are visible to queries in the next.
func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "read program chunks from stdin until EOF, evaluating each on a blank line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := dlang.NewEngine(dlang.WithLogger(newLogger()))
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			var buf strings.Builder
			flush := func() error {
				if buf.Len() == 0 {
					return nil
				}
				chunk := buf.String()
				buf.Reset()
				result, err := engine.Input(chunk, verbose)
				if result != "" {
					fmt.Fprint(out, result)
				}
				return err
			}

			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" {
					if err := flush(); err != nil {
						return err
					}
					continue
				}
				buf.WriteString(line)
				buf.WriteString("\n")
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			return flush()
		},
	}
}
