package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTextOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/thermostat.yaml", "--feed", "raw=21", "--feed", "raw=21"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	// Replay of the initial value plus one distinct change.
	assert.Contains(t, output, "2 emission(s)")
	assert.Contains(t, output, "display <- 20")
	assert.Contains(t, output, "display <- 21")
}

func TestRunJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/thermostat.yaml", "--feed", "raw=22"})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "thermostat", data["pipeline"])
	emissions, ok := data["emissions"].([]any)
	require.True(t, ok)
	assert.Len(t, emissions, 2)
}

func TestRunMalformedFeed(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/thermostat.yaml", "--feed", "no-equals-sign"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunUnknownSource(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/thermostat.yaml", "--feed", "ghost=1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunRecordsTrace(t *testing.T) {
	db := filepath.Join(t.TempDir(), "trace.db")

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"testdata/thermostat.yaml", "--feed", "raw=25", "--db", db})

	require.NoError(t, cmd.Execute())

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	runID, ok := data["run_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, runID)

	// The recorded trace is readable through the trace command.
	traceBuf := &bytes.Buffer{}
	traceCmd := NewTraceCommand(&RootOptions{Format: "json"})
	traceCmd.SetOut(traceBuf)
	traceCmd.SetArgs([]string{db, "--run", runID})

	require.NoError(t, traceCmd.Execute())

	var traceResp Response
	require.NoError(t, json.Unmarshal(traceBuf.Bytes(), &traceResp))
	emissions := traceResp.Data.([]any)
	require.Len(t, emissions, 2)
	first := emissions[0].(map[string]any)
	assert.Equal(t, "display", first["stream"])
	assert.Equal(t, float64(20), first["value"])
}

func TestParseFeeds(t *testing.T) {
	feeds, err := parseFeeds([]string{"raw=21", "mode=eco", "on=true", "pair=[1, 2]"})
	require.NoError(t, err)
	require.Len(t, feeds, 4)

	assert.Equal(t, feedArg{source: "raw", value: 21}, feeds[0])
	assert.Equal(t, feedArg{source: "mode", value: "eco"}, feeds[1])
	assert.Equal(t, feedArg{source: "on", value: true}, feeds[2])
	assert.Equal(t, feedArg{source: "pair", value: []any{1, 2}}, feeds[3])
}
