package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripplekit/ripple/internal/harness"
)

// ScenarioReport summarizes one scenario run.
type ScenarioReport struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	RunToken string   `json:"run_token"`
	Failures []string `json:"failures,omitempty"`
}

// TestReport is the test command's output payload.
type TestReport struct {
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Scenarios []ScenarioReport `json:"scenarios"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <scenario.yaml>...",
		Short: "Run conformance scenarios against their pipelines",
		Long: `Run one or more scenario files and report assertion results.

Exit code 1 means at least one assertion failed; exit code 2 means a
scenario could not be executed at all.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(rootOpts, args, cmd)
		},
	}
}

func runScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	report := &TestReport{}
	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			_ = formatter.Error("E301", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load scenario %s", path), err)
		}
		formatter.VerboseLog("running scenario %q", scenario.Name)

		result, err := harness.Run(scenario)
		if err != nil {
			_ = formatter.Error("E302", err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run scenario %q", scenario.Name), err)
		}

		report.Total++
		if result.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Scenarios = append(report.Scenarios, ScenarioReport{
			Name:     scenario.Name,
			Passed:   result.Passed(),
			RunToken: result.RunToken,
			Failures: result.Failures,
		})
	}

	if err := outputTestReport(formatter, report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", report.Failed, report.Total))
	}
	return nil
}

// outputTestReport renders the report in the configured format.
func outputTestReport(formatter *OutputFormatter, report *TestReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	for _, s := range report.Scenarios {
		if s.Passed {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n", s.Name)
		for _, failure := range s.Failures {
			fmt.Fprintf(formatter.Writer, "    %s\n", failure)
		}
	}
	fmt.Fprintf(formatter.Writer, "%d passed, %d failed\n", report.Passed, report.Failed)
	return nil
}
