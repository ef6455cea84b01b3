package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripplekit/ripple/internal/pipeline"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Errors []*pipeline.ConfigError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pipeline.yaml>",
		Short: "Validate a pipeline definition without running it",
		Long: `Validate a pipeline definition against the schema and semantic rules.

Checks YAML structure, operator kinds and arguments, and that every
reference resolves to a declared source or node. Reports all errors,
not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, errs := pipeline.Load(path)
	if len(errs) == 0 {
		formatter.VerboseLog("pipeline %q: %d source(s), %d node(s), %d sink(s)",
			cfg.Name, len(cfg.Sources), len(cfg.Nodes), len(cfg.Sinks))
		return outputValidateSuccess(formatter)
	}

	configErrs := make([]*pipeline.ConfigError, 0, len(errs))
	for _, err := range errs {
		var ce *pipeline.ConfigError
		if errors.As(err, &ce) {
			configErrs = append(configErrs, ce)
			continue
		}
		configErrs = append(configErrs, &pipeline.ConfigError{Code: "E000", Message: err.Error()})
	}

	// A file that cannot be read or decoded is a command error; a file
	// that decodes but does not validate is a validation failure.
	code := ExitFailure
	if configErrs[0].Code == pipeline.ErrCodeRead || configErrs[0].Code == pipeline.ErrCodeParse {
		code = ExitCommandError
	}
	return outputValidationErrors(formatter, configErrs, code)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Pipeline valid")
	return nil
}

// outputValidationErrors outputs validation errors and maps them to an
// exit code.
func outputValidationErrors(formatter *OutputFormatter, errs []*pipeline.ConfigError, code int) error {
	if formatter.Format == "json" {
		if err := formatter.Error(errs[0].Code, errs[0].Message, ValidationResult{Valid: false, Errors: errs}); err != nil {
			return err
		}
		return NewExitError(code, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Path != "" {
			fmt.Fprintf(formatter.Writer, "  %s at %s: %s\n", err.Code, err.Path, err.Message)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", err.Code, err.Message)
	}
	return NewExitError(code, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
