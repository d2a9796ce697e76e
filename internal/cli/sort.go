package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/filesort/internal/classify"
	"github.com/roach88/filesort/internal/compare"
	"github.com/roach88/filesort/internal/config"
	"github.com/roach88/filesort/internal/history"
	"github.com/roach88/filesort/internal/printer"
	"github.com/roach88/filesort/internal/source"
	"github.com/roach88/filesort/internal/sorter"
)

// SortOptions holds flags for the sort (root) command.
type SortOptions struct {
	*RootOptions
	Insertion bool
	Quick     bool
	Encoding  string
	MaxDepth  int // negative means unbounded
	Reverse   bool
	DB        string
	Output    string
}

// sortSettings is the result of merging config file values and flags.
type sortSettings struct {
	Algorithm string
	Format    printer.Format
	Encoding  string
	MaxDepth  int
	Reverse   bool
	DB        string
	Output    string
}

func newSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filesort (-i | -q) <path>",
		Short: "filesort - sort comma-separated tokens",
		Long: `Sort the comma-separated tokens of a file with insertion sort or quicksort.

The first letter or digit in the file decides whether every token is
sorted as a string or as a number. Whitespace is ignored, and any byte
that is not an ASCII letter, digit or comma is dropped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Insertion, "insertion", "i", false, "sort with insertion sort")
	cmd.Flags().BoolVarP(&opts.Quick, "quick", "q", false, "sort with quicksort")
	cmd.MarkFlagsMutuallyExclusive("insertion", "quick")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", source.EncodingUTF8, "source encoding (utf-8|utf-16|utf-16le|utf-16be|latin1)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", -1, "quicksort recursion limit; deeper partitions use insertion sort (-1 = unbounded)")
	cmd.Flags().BoolVarP(&opts.Reverse, "reverse", "r", false, "sort in descending order")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write sorted output to a file instead of stdout")

	return cmd
}

func runSort(ctx context.Context, opts *SortOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics go to stderr to avoid corrupting output
		Verbose:   opts.Verbose,
	}

	settings, err := resolveSortSettings(opts, cmd)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			return formatter.fail(ErrCodeConfigInvalid, cfgErr.Error(), nil)
		}
		return formatter.fail(ErrCodeInvalidOption, err.Error(), nil)
	}
	formatter.Format = string(settings.Format)

	if settings.Algorithm == "" {
		return formatter.fail(ErrCodeNoMode, "sort flag is missing; try adding the flags `-q` or `-i`", nil)
	}
	sortFn, err := sorter.Lookup(settings.Algorithm)
	if err != nil {
		return formatter.fail(ErrCodeInvalidOption, err.Error(), nil)
	}
	if settings.Algorithm == sorter.Quick && settings.MaxDepth >= 0 {
		sortFn = sorter.BoundedQuicksort(settings.MaxDepth)
		formatter.VerboseLog("Quicksort recursion bounded at depth %d", settings.MaxDepth)
	}

	res, err := readSource(path, settings.Encoding, formatter)
	if err != nil {
		return err
	}

	if res.Empty() {
		formatter.Warn("no tokens found in %s", path)
	}

	cmp := compare.Select(res.Class)
	if settings.Reverse {
		cmp = compare.Reverse(cmp)
	}
	head := sortFn(res.Head, cmp)
	formatter.VerboseLog("Sorted %d %s token(s) with %s sort", res.Stats.Tokens, res.Class, settings.Algorithm)

	// Render fully before writing anything so a failure leaves no partial output.
	var out bytes.Buffer
	doc := printer.NewDocument(head, res.Class, settings.Algorithm)
	if err := printer.Print(&out, settings.Format, doc); err != nil {
		return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("rendering output: %v", err), err)
	}

	if settings.DB != "" {
		run, err := recordRun(ctx, settings.DB, history.Run{
			Source:     path,
			Algorithm:  settings.Algorithm,
			Class:      res.Class.String(),
			TokenCount: doc.Count,
			Digest:     history.Digest(out.Bytes()),
		})
		if err != nil {
			return formatter.fail(ErrCodeHistoryFailed, fmt.Sprintf("recording run: %v", err), err)
		}
		formatter.VerboseLog("Recorded run %s (seq %d) in %s", run.ID, run.Seq, settings.DB)
	}

	if settings.Output != "" {
		if err := os.WriteFile(settings.Output, out.Bytes(), 0644); err != nil {
			return formatter.fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), err)
		}
		formatter.VerboseLog("Wrote sorted output to %s", settings.Output)
		return nil
	}

	if _, err := formatter.Writer.Write(out.Bytes()); err != nil {
		return WrapExitError(ExitFailure, "writing output", err)
	}
	return nil
}

// readSource opens path, tokenizes it and releases it on every path out.
func readSource(path, encoding string, formatter *OutputFormatter) (*classify.Result, error) {
	src, err := source.Open(path, encoding)
	if err != nil {
		if errors.Is(err, source.ErrUnknownEncoding) {
			return nil, formatter.fail(ErrCodeInvalidOption, err.Error(), nil)
		}
		return nil, formatter.fail(ErrCodeSourceUnreadable, fmt.Sprintf("cannot read %s; please give a readable file after the sort flag", path), err)
	}
	defer src.Close()

	res, err := classify.Tokenize(src)
	if err != nil {
		return nil, formatter.fail(ErrCodeReadFailed, fmt.Sprintf("reading %s: %v", path, err), err)
	}

	formatter.VerboseLog("Read %d byte(s) from %s: %d token(s), class %s", res.Stats.BytesRead, path, res.Stats.Tokens, res.Class)
	if res.Stats.Ignored > 0 {
		formatter.VerboseLog("Ignored %d byte(s) outside [A-Za-z0-9,]", res.Stats.Ignored)
	}
	if res.Stats.Unparsable > 0 {
		formatter.VerboseLog("%d numeric token(s) could not be parsed and were read as 0", res.Stats.Unparsable)
	}
	return res, nil
}

func recordRun(ctx context.Context, dbPath string, run history.Run) (history.Run, error) {
	store, err := history.Open(dbPath)
	if err != nil {
		return history.Run{}, err
	}
	defer store.Close()
	return store.Record(ctx, run)
}

// resolveSortSettings merges the config file (if any) with flags. Flags that
// were set explicitly always win.
func resolveSortSettings(opts *SortOptions, cmd *cobra.Command) (sortSettings, error) {
	s := sortSettings{
		Encoding: opts.Encoding,
		MaxDepth: opts.MaxDepth,
		Reverse:  opts.Reverse,
		DB:       opts.DB,
		Output:   opts.Output,
	}
	format := opts.Format

	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return s, err
		}
		flags := cmd.Flags()
		s.Algorithm = cfg.Algorithm
		if cfg.Format != "" && !flags.Changed("format") {
			format = cfg.Format
		}
		if cfg.Encoding != "" && !flags.Changed("encoding") {
			s.Encoding = cfg.Encoding
		}
		if cfg.MaxDepth != nil && !flags.Changed("max-depth") {
			s.MaxDepth = *cfg.MaxDepth
		}
		if cfg.Reverse && !flags.Changed("reverse") {
			s.Reverse = true
		}
		if cfg.DB != "" && !flags.Changed("db") {
			s.DB = cfg.DB
		}
		if cfg.Output != "" && !flags.Changed("output") {
			s.Output = cfg.Output
		}
	}

	switch {
	case opts.Insertion:
		s.Algorithm = sorter.Insertion
	case opts.Quick:
		s.Algorithm = sorter.Quick
	}

	f, err := printer.ParseFormat(format)
	if err != nil {
		return s, err
	}
	s.Format = f
	return s, nil
}
