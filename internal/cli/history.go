package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/filesort/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB     string
	Source string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List sort runs recorded with --db",
		Long: `List the sort runs recorded in a run log, oldest first.

Each run shows its id, sequence number, source path, algorithm, class,
token count and the digest of the output it printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the SQLite run log (required)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only list runs of this source path")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, err := history.Open(opts.DB)
	if err != nil {
		return formatter.fail(ErrCodeHistoryFailed, fmt.Sprintf("opening run log: %v", err), err)
	}
	defer store.Close()

	runs, err := store.Runs(ctx, opts.Source)
	if err != nil {
		return formatter.fail(ErrCodeHistoryFailed, fmt.Sprintf("reading run log: %v", err), err)
	}
	formatter.VerboseLog("Found %d run(s) in %s", len(runs), opts.DB)

	if formatter.Format != "text" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%d  %s  %s  %s/%s  %d token(s)  %s\n",
			r.Seq, r.ID, r.Source, r.Algorithm, r.Class, r.TokenCount, shortDigest(r.Digest))
	}
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
