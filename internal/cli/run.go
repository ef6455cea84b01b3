package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ripplekit/ripple/internal/pipeline"
	"github.com/ripplekit/ripple/internal/record"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Feeds    []string
	Database string
}

// RunReport is the run command's output payload.
type RunReport struct {
	Pipeline  string        `json:"pipeline"`
	RunID     string        `json:"run_id,omitempty"`
	Emissions []RunEmission `json:"emissions"`
}

// RunEmission is one delivered value in the report.
type RunEmission struct {
	Sink  string `json:"sink"`
	Value any    `json:"value"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <pipeline.yaml>",
		Short: "Build a pipeline, feed it values, and print what the sinks deliver",
		Long: `Build the pipeline and feed values into its sources.

Each --feed takes source=value; values are parsed as YAML scalars, so
numbers and booleans keep their types. Feeds apply in flag order. The
report includes replay deliveries from graph construction.

With --db, the run is also recorded to a SQLite trace database for
later inspection with "ripple trace".

Example:
  ripple run pipeline.yaml --feed raw=21 --feed raw=22
  ripple run pipeline.yaml --feed raw=21 --db ./trace.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Feeds, "feed", nil, "value to feed, as source=value (repeatable)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")

	return cmd
}

func runPipeline(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	feeds, err := parseFeeds(opts.Feeds)
	if err != nil {
		_ = formatter.Error("E201", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --feed", err)
	}

	cfg, errs := pipeline.Load(path)
	if len(errs) > 0 {
		err := errors.Join(errs...)
		_ = formatter.Error("E202", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load pipeline", err)
	}
	slog.Debug("pipeline loaded", "name", cfg.Name, "sources", len(cfg.Sources), "nodes", len(cfg.Nodes), "sinks", len(cfg.Sinks))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report := &RunReport{Pipeline: cfg.Name, Emissions: []RunEmission{}}

	var run *record.Run
	if opts.Database != "" {
		recorder, err := record.Open(opts.Database)
		if err != nil {
			_ = formatter.Error("E203", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := recorder.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
		run, err = recorder.BeginRun(ctx, cfg.Name)
		if err != nil {
			_ = formatter.Error("E203", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to begin trace run", err)
		}
		report.RunID = run.ID()
		slog.Info("recording trace", "db", opts.Database, "run", run.ID())
	}

	g, err := pipeline.Build(cfg, func(e pipeline.Emission) error {
		report.Emissions = append(report.Emissions, RunEmission{Sink: e.Sink, Value: e.Value})
		if run != nil {
			return run.Record(ctx, e.Sink, e.Value)
		}
		return nil
	})
	if err != nil {
		_ = formatter.Error("E204", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build pipeline", err)
	}
	defer func() {
		if closeErr := g.Close(); closeErr != nil {
			slog.Error("error closing graph", "error", closeErr)
		}
	}()

	for _, feed := range feeds {
		slog.Debug("feeding", "source", feed.source, "value", feed.value)
		if err := g.Feed(feed.source, feed.value); err != nil {
			_ = formatter.Error("E205", err.Error(), nil)
			return WrapExitError(ExitFailure, "delivery failed", err)
		}
	}

	return outputRunReport(formatter, report)
}

type feedArg struct {
	source string
	value  any
}

// parseFeeds parses --feed source=value arguments. Values go through
// the YAML scalar parser so "21" is an int and "on" is a bool.
func parseFeeds(raw []string) ([]feedArg, error) {
	feeds := make([]feedArg, 0, len(raw))
	for _, arg := range raw {
		source, encoded, ok := strings.Cut(arg, "=")
		if !ok || source == "" {
			return nil, fmt.Errorf("malformed feed %q: want source=value", arg)
		}
		var value any
		if err := yaml.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, fmt.Errorf("malformed feed value %q: %w", encoded, err)
		}
		feeds = append(feeds, feedArg{source: source, value: value})
	}
	return feeds, nil
}

// outputRunReport renders the report in the configured format.
func outputRunReport(formatter *OutputFormatter, report *RunReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "pipeline %s: %d emission(s)\n", report.Pipeline, len(report.Emissions))
	for _, e := range report.Emissions {
		fmt.Fprintf(formatter.Writer, "  %s <- %v\n", e.Sink, e.Value)
	}
	if report.RunID != "" {
		fmt.Fprintf(formatter.Writer, "recorded as run %s\n", report.RunID)
	}
	return nil
}
