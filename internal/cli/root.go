package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	Config  string // optional CUE config file
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the filesort CLI.
// The root command itself sorts; history is the only subcommand.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := newSortCommand(opts)
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !isValidFormat(opts.Format) {
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
		}
		return nil
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE config file")

	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
