// Command dlang runs dlang programs: ground facts, rules, and pattern
// queries over a small deductive database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
