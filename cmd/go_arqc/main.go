package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andrei-cloud/go_arqc/internal/commands/cli"
)

// main builds the command tree and executes it.
func main() {
	rootCmd, err := cli.NewRootCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
