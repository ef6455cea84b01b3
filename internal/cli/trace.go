package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ripplekit/ripple/internal/record"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Run    string
	Stream string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <trace.db>",
		Short: "Inspect recorded runs",
		Long: `Inspect a trace database written by "ripple run --db".

Without --run, lists the recorded runs. With --run, prints that run's
emissions in delivery order; --stream restricts output to one sink.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", "", "run ID to inspect")
	cmd.Flags().StringVar(&opts.Stream, "stream", "", "restrict output to one stream")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error("E401", fmt.Sprintf("trace database not found: %s", path), nil)
		return NewExitError(ExitCommandError, "trace database not found")
	}

	recorder, err := record.Open(path)
	if err != nil {
		_ = formatter.Error("E402", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer recorder.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Run == "" {
		return outputRunListing(formatter, ctx, recorder)
	}
	return outputEmissions(formatter, ctx, recorder, opts.Run, opts.Stream)
}

// outputRunListing prints the recorded runs.
func outputRunListing(formatter *OutputFormatter, ctx context.Context, recorder *record.Recorder) error {
	runs, err := recorder.Runs(ctx)
	if err != nil {
		_ = formatter.Error("E403", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no recorded runs")
		return nil
	}
	for _, info := range runs {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s  %d emission(s)\n",
			info.ID, info.Pipeline, info.StartedAt, info.Emissions)
	}
	return nil
}

// outputEmissions prints one run's trace.
func outputEmissions(formatter *OutputFormatter, ctx context.Context, recorder *record.Recorder, runID, stream string) error {
	emissions, err := recorder.Emissions(ctx, runID, stream)
	if err != nil {
		_ = formatter.Error("E403", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read emissions", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(emissions)
	}
	if len(emissions) == 0 {
		fmt.Fprintln(formatter.Writer, "no emissions")
		return nil
	}
	for _, e := range emissions {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %v\n", e.Seq, e.Stream, e.Value)
	}
	return nil
}
