package pipeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplekit/ripple/internal/pipeline"
)

func TestParse_Valid(t *testing.T) {
	cfg, errs := pipeline.Parse([]byte(`
name: demo
sources:
  - name: raw
    initial: 20
nodes:
  - name: dedup
    from: raw
    ops:
      - kind: distinct
  - name: slow
    from: dedup
    ops:
      - kind: debounce
        interval: 250ms
sinks:
  - name: out
    from: slow
`))
	require.Empty(t, errs)
	require.NotNil(t, cfg)

	assert.Equal(t, "demo", cfg.Name)
	require.Len(t, cfg.Sources, 1)
	require.NotNil(t, cfg.Sources[0].Initial)
	assert.Equal(t, 20, *cfg.Sources[0].Initial)

	require.Len(t, cfg.Nodes, 2)
	assert.Equal(t, pipeline.StringList{"raw"}, cfg.Nodes[0].From)
	assert.Equal(t, 250*time.Millisecond, cfg.Nodes[1].Ops[0].Interval.Std())

	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, "slow", cfg.Sinks[0].From)
}

func TestParse_FromAcceptsScalarAndList(t *testing.T) {
	cfg, errs := pipeline.Parse([]byte(`
name: demo
sources:
  - name: a
  - name: b
nodes:
  - name: single
    from: a
  - name: pair
    from: [a, b]
`))
	require.Empty(t, errs)
	assert.Equal(t, pipeline.StringList{"a"}, cfg.Nodes[0].From)
	assert.Equal(t, pipeline.StringList{"a", "b"}, cfg.Nodes[1].From)
}

func TestParse_SchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown top-level field",
			doc: `
name: demo
bogus: 3
sources:
  - name: a
`,
		},
		{
			name: "unknown operator kind",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: a
    ops:
      - kind: squash
`,
		},
		{
			name: "empty sources",
			doc: `
name: demo
sources: []
`,
		},
		{
			name: "malformed interval",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: a
    ops:
      - kind: delay
        interval: soon
`,
		},
		{
			name: "nonpositive window size",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: a
    ops:
      - kind: sliding_window
        size: 0
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := pipeline.Parse([]byte(tt.doc))
			assert.Nil(t, cfg)
			require.NotEmpty(t, errs)
			assert.True(t, pipeline.IsConfigError(errs[0]))
		})
	}
}

func TestParse_NotYAML(t *testing.T) {
	cfg, errs := pipeline.Parse([]byte("\t{nope"))
	assert.Nil(t, cfg)
	require.Len(t, errs, 1)
	assert.True(t, pipeline.IsConfigError(errs[0]))
}

func TestCheck_SemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{
			name: "duplicate name across sources and nodes",
			doc: `
name: demo
sources:
  - name: x
nodes:
  - name: x
    from: x
`,
			code: "E101",
		},
		{
			name: "dangling from",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: ghost
`,
			code: "E102",
		},
		{
			name: "dangling sink",
			doc: `
name: demo
sources:
  - name: a
sinks:
  - name: out
    from: ghost
`,
			code: "E102",
		},
		{
			name: "emit_on not an input",
			doc: `
name: demo
sources:
  - name: a
  - name: b
nodes:
  - name: pair
    from: [a, b]
    emit_on: [ghost]
`,
			code: "E105",
		},
		{
			name: "cache without seed",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: a
    ops:
      - kind: cache
`,
			code: "E104",
		},
		{
			name: "delay without interval",
			doc: `
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: a
    ops:
      - kind: delay
`,
			code: "E104",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := pipeline.Parse([]byte(tt.doc))
			assert.Nil(t, cfg)
			require.NotEmpty(t, errs)
			var found bool
			for _, err := range errs {
				ce, ok := err.(*pipeline.ConfigError)
				require.True(t, ok)
				if ce.Code == tt.code {
					found = true
				}
			}
			assert.True(t, found, "expected code %s in %v", tt.code, errs)
		})
	}
}

func TestCheck_CollectsAllErrors(t *testing.T) {
	_, errs := pipeline.Parse([]byte(`
name: demo
sources:
  - name: a
nodes:
  - name: n
    from: ghost1
sinks:
  - name: out
    from: ghost2
`))
	assert.Len(t, errs, 2)
}

func TestCheck_UnknownKindOnHandBuiltConfig(t *testing.T) {
	cfg := &pipeline.Config{
		Name:    "demo",
		Sources: []pipeline.Source{{Name: "a"}},
		Nodes: []pipeline.Node{{
			Name: "n",
			From: pipeline.StringList{"a"},
			Ops:  []pipeline.OpSpec{{Kind: "squash"}},
		}},
	}
	errs := pipeline.Check(cfg)
	require.Len(t, errs, 1)
	ce, ok := errs[0].(*pipeline.ConfigError)
	require.True(t, ok)
	assert.Equal(t, "E103", ce.Code)
}

func TestLoad_File(t *testing.T) {
	cfg, errs := pipeline.Load("testdata/thermostat.yaml")
	require.Empty(t, errs)
	assert.Equal(t, "thermostat", cfg.Name)
	assert.Len(t, cfg.Nodes, 2)
}

func TestLoad_Missing(t *testing.T) {
	cfg, errs := pipeline.Load("testdata/absent.yaml")
	assert.Nil(t, cfg)
	require.Len(t, errs, 1)
	ce, ok := errs[0].(*pipeline.ConfigError)
	require.True(t, ok)
	assert.Equal(t, "E001", ce.Code)
}
