// Command filesort sorts the comma-separated tokens of a file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/filesort/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Flag and argument errors come straight from cobra and were not
		// reported by any command.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
