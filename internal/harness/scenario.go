package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a pipeline, the values
// fed into it, and assertions over the delivered trace.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed
	// by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pipeline is the path to the pipeline definition, relative to the
	// scenario file.
	Pipeline string `yaml:"pipeline"`

	// Feed lists the values emitted into sources, in order.
	Feed []FeedStep `yaml:"feed"`

	// Assertions validate the delivered trace and final topic values.
	Assertions []Assertion `yaml:"assertions"`

	// RunToken optionally fixes the run identifier for deterministic
	// golden output. When empty a random UUID is used and the token is
	// omitted from snapshots.
	RunToken string `yaml:"run_token,omitempty"`
}

// FeedStep emits one value into a named source.
type FeedStep struct {
	Source string `yaml:"source"`
	Value  any    `yaml:"value"`
}

// Assertion validates the trace or a final topic value.
type Assertion struct {
	// Type selects the assertion:
	//   - "emissions": a sink delivered exactly these values, in order
	//   - "emission_count": a sink delivered exactly N values
	//   - "contains": a sink delivered this value at least once
	//   - "final_value": a topic holds this value after all feeds
	Type string `yaml:"type"`

	// Sink names the sink under test (emissions, emission_count,
	// contains).
	Sink string `yaml:"sink,omitempty"`

	// Topic names the topic under test (final_value).
	Topic string `yaml:"topic,omitempty"`

	// Values is the expected ordered delivery (emissions).
	Values []any `yaml:"values,omitempty"`

	// Value is the expected single value (contains, final_value).
	Value any `yaml:"value,omitempty"`

	// Count is the expected delivery count (emission_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertEmissions     = "emissions"
	AssertEmissionCount = "emission_count"
	AssertContains      = "contains"
	AssertFinalValue    = "final_value"
)

// LoadScenario reads and parses a scenario YAML file. The pipeline
// path is resolved relative to the scenario file's directory. Unknown
// fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // reject typos like "assertion:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Pipeline != "" && !filepath.IsAbs(scenario.Pipeline) {
		scenario.Pipeline = filepath.Join(filepath.Dir(path), scenario.Pipeline)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Pipeline == "" {
		return fmt.Errorf("pipeline is required")
	}
	if _, err := os.Stat(s.Pipeline); os.IsNotExist(err) {
		return fmt.Errorf("pipeline file not found: %s", s.Pipeline)
	}
	if len(s.Feed) == 0 {
		return fmt.Errorf("feed list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Feed {
		if step.Source == "" {
			return fmt.Errorf("feed[%d]: source is required", i)
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertEmissions:
		if a.Sink == "" {
			return fmt.Errorf("assertions[%d]: sink is required for emissions", index)
		}
	case AssertEmissionCount:
		if a.Sink == "" {
			return fmt.Errorf("assertions[%d]: sink is required for emission_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertContains:
		if a.Sink == "" {
			return fmt.Errorf("assertions[%d]: sink is required for contains", index)
		}
	case AssertFinalValue:
		if a.Topic == "" {
			return fmt.Errorf("assertions[%d]: topic is required for final_value", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
