package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a decoded pipeline definition. Obtain one through Parse or
// Load; a hand-built Config should go through Check before Build.
type Config struct {
	Name    string   `yaml:"name"`
	Sources []Source `yaml:"sources"`
	Nodes   []Node   `yaml:"nodes"`
	Sinks   []Sink   `yaml:"sinks"`
}

// Source declares a named root publisher. When Initial is absent the
// source starts undefined and replays nothing until first fed.
type Source struct {
	Name    string `yaml:"name"`
	Initial *any   `yaml:"initial"`
}

// Node declares an operator chain. From names the input topics: one
// entry feeds the chain directly, several are merged by combining the
// latest value of each. EmitOn restricts which inputs trigger a
// combined emission; empty means all of them.
type Node struct {
	Name   string     `yaml:"name"`
	From   StringList `yaml:"from"`
	Ops    []OpSpec   `yaml:"ops"`
	EmitOn []string   `yaml:"emit_on"`
}

// OpSpec declares a single operator. Which fields apply depends on
// Kind; Check rejects mismatches.
type OpSpec struct {
	Kind        string   `yaml:"kind"`
	Seed        *any     `yaml:"seed"`
	Size        int      `yaml:"size"`
	EmitPartial bool     `yaml:"emit_partial"`
	Interval    Duration `yaml:"interval"`
}

// Sink declares a named terminal consumer of a topic.
type Sink struct {
	Name string `yaml:"name"`
	From string `yaml:"from"`
}

// StringList decodes either a YAML scalar or a sequence of scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var ss []string
	if err := node.Decode(&ss); err != nil {
		return err
	}
	*l = StringList(ss)
	return nil
}

// Duration decodes a Go duration string ("250ms", "1s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Parse decodes, schema-validates, and semantically checks a pipeline
// definition. On failure it returns every error found, not just the
// first.
func Parse(data []byte) (*Config, []error) {
	// Generic decode first: the CUE schema sees the document exactly as
	// written, including fields the Config struct would silently drop.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, []error{&ConfigError{Code: ErrCodeParse, Message: fmt.Sprintf("decoding YAML: %v", err)}}
	}
	if errs := validateSchema(raw); len(errs) > 0 {
		return nil, errs
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, []error{&ConfigError{Code: ErrCodeParse, Message: fmt.Sprintf("decoding YAML: %v", err)}}
	}
	if errs := Check(&cfg); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// Load reads and parses a pipeline definition file.
func Load(path string) (*Config, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&ConfigError{Code: ErrCodeRead, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}
	return Parse(data)
}

// Check runs the semantic validations the schema cannot express:
// name uniqueness, reference resolution, and per-kind operator
// arguments. It collects all errors.
func Check(cfg *Config) []error {
	var errs []error

	names := make(map[string]string) // name -> element path
	declare := func(name, path string) {
		if prev, ok := names[name]; ok {
			errs = append(errs, &ConfigError{
				Code:    ErrCodeDuplicateName,
				Path:    path,
				Message: fmt.Sprintf("name %q already declared at %s", name, prev),
			})
			return
		}
		names[name] = path
	}

	for i, src := range cfg.Sources {
		declare(src.Name, fmt.Sprintf("sources[%d]", i))
	}
	for i, node := range cfg.Nodes {
		declare(node.Name, fmt.Sprintf("nodes[%d]", i))
	}

	for i, node := range cfg.Nodes {
		inputs := make(map[string]bool, len(node.From))
		for _, from := range node.From {
			inputs[from] = true
			if _, ok := names[from]; !ok {
				errs = append(errs, &ConfigError{
					Code:    ErrCodeUnknownRef,
					Path:    fmt.Sprintf("nodes[%d].from", i),
					Message: fmt.Sprintf("%q is not a declared source or node", from),
				})
			}
		}
		for _, trigger := range node.EmitOn {
			if !inputs[trigger] {
				errs = append(errs, &ConfigError{
					Code:    ErrCodeEmitOn,
					Path:    fmt.Sprintf("nodes[%d].emit_on", i),
					Message: fmt.Sprintf("%q is not one of the node's inputs", trigger),
				})
			}
		}
		for j, op := range node.Ops {
			if err := checkOp(op, fmt.Sprintf("nodes[%d].ops[%d]", i, j)); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for i, sink := range cfg.Sinks {
		if _, ok := names[sink.From]; !ok {
			errs = append(errs, &ConfigError{
				Code:    ErrCodeUnknownRef,
				Path:    fmt.Sprintf("sinks[%d].from", i),
				Message: fmt.Sprintf("%q is not a declared source or node", sink.From),
			})
		}
	}

	return errs
}

// checkOp validates per-kind operator arguments.
func checkOp(op OpSpec, path string) error {
	argErr := func(msg string) error {
		return &ConfigError{Code: ErrCodeOpArgs, Path: path, Message: msg}
	}
	switch op.Kind {
	case "cache":
		if op.Seed == nil {
			return argErr("cache requires a seed")
		}
	case "distinct", "true", "false":
		// No required arguments.
	case "sliding_window":
		if op.Size <= 0 {
			return argErr("sliding_window requires size > 0")
		}
	case "delay", "debounce", "throttle":
		if op.Interval <= 0 {
			return argErr(op.Kind + " requires a positive interval")
		}
	default:
		return &ConfigError{Code: ErrCodeUnknownKind, Path: path, Message: fmt.Sprintf("unknown operator kind %q", op.Kind)}
	}
	return nil
}
