package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripplekit/ripple/internal/pipeline"
)

// TopicsResult is the topics command's output payload.
type TopicsResult struct {
	Pipeline string   `json:"pipeline"`
	Topics   []string `json:"topics"`
}

// NewTopicsCommand creates the topics command.
func NewTopicsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics <pipeline.yaml>",
		Short: "List the hub topics a pipeline exposes",
		Long: `Build the pipeline without feeding it and list its hub topics.

Every source and node publishes to a topic carrying its name; these
are the attachment points for external subscribers and for tracing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopics(rootOpts, args[0], cmd)
		},
	}
}

func runTopics(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, errs := pipeline.Load(path)
	if len(errs) > 0 {
		err := errors.Join(errs...)
		_ = formatter.Error("E202", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load pipeline", err)
	}

	g, err := pipeline.Build(cfg, nil)
	if err != nil {
		_ = formatter.Error("E204", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build pipeline", err)
	}
	defer g.Close()

	result := TopicsResult{Pipeline: cfg.Name, Topics: g.Hub().Names()}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	for _, name := range result.Topics {
		fmt.Fprintln(formatter.Writer, name)
	}
	return nil
}
