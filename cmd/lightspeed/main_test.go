package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/lightspeed"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := runWith(&app{}, &out, &bytes.Buffer{}, args)
	return out.String(), err
}

// closeSpy records whether the log output was closed.
type closeSpy struct{ closed bool }

func (c *closeSpy) Close() error { c.closed = true; return nil }

func TestRunWith_ClosesLogOutputWhenCommandFails(t *testing.T) {
	requireShell(t)

	path := filepath.Join(t.TempDir(), "lightspeed.log")
	a := &app{}
	err := runWith(a, &bytes.Buffer{}, &bytes.Buffer{},
		[]string{"--log-file", path, "--log-level", "DEBUG", "run", "--", "sh", "-c", "exit 2"})
	require.Error(t, err)
	assert.Nil(t, a.closer, "log output closed after a failed command")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "configuration loaded")

	spy := &closeSpy{}
	a = &app{closer: spy}
	require.NoError(t, a.teardown())
	require.NoError(t, a.teardown())
	assert.True(t, spy.closed)
}

func TestRunCommand_Echo(t *testing.T) {
	requireShell(t)

	out, err := execute(t, "run", "--", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunCommand_YAMLOutput(t *testing.T) {
	requireShell(t)

	out, err := execute(t, "--output", "yaml", "run", "-e", "NAME=world", "--", "sh", "-c", "echo hi $NAME")
	require.NoError(t, err)

	var res Result
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "hi world\n", res.Output)
}

func TestRunCommand_FailureIsInvocationError(t *testing.T) {
	requireShell(t)

	_, err := execute(t, "run", "--", "sh", "-c", "echo boom; exit 3")
	require.Error(t, err)
	assert.ErrorIs(t, err, lightspeed.ErrInvocation)
	assert.Contains(t, err.Error(), "status 3")
	assert.Contains(t, err.Error(), "boom")
}

func TestMultiplyCommand_OutputsInSubmissionOrder(t *testing.T) {
	requireShell(t)

	// Later indexes finish first.
	script := `sleep "0.$((3 - LIGHTSPEED_INDEX))"; echo $LIGHTSPEED_INDEX`
	out, err := execute(t, "--max-workers", "3", "multiply", "-n", "3", "--", "sh", "-c", script)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestMultiplyCommand_CommandsOverlap(t *testing.T) {
	requireShell(t)

	// Each command waits until all four have started, so they can only succeed
	// when they run at the same time.
	dir := t.TempDir()
	script := `touch "$DIR/$LIGHTSPEED_INDEX"
i=0
while [ "$(ls "$DIR" | wc -l)" -lt 4 ]; do
  i=$((i+1)); [ "$i" -gt 100 ] && exit 1
  sleep 0.05
done
echo ok`
	out, err := execute(t, "--max-workers", "4", "multiply", "-n", "4", "-e", "DIR="+dir, "--", "sh", "-c", script)
	require.NoError(t, err)
	assert.Equal(t, "ok\nok\nok\nok\n", out)
}

func TestMultiplyCommand_SerialRunsOneAtATime(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	// Fails if another command is running.
	script := `mkdir "$DIR/running" || exit 1; sleep 0.05; rmdir "$DIR/running"; echo $LIGHTSPEED_INDEX`
	out, err := execute(t, "--serial", "--max-workers", "3", "multiply", "-n", "3", "-e", "DIR="+dir, "--", "sh", "-c", script)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestMultiplyCommand_JSONWithStats(t *testing.T) {
	requireShell(t)

	out, err := execute(t, "--output", "json", "multiply", "-n", "2", "--stats", "-e", "GREETING=hi", "--", "sh", "-c", "echo $GREETING")
	require.NoError(t, err)

	var report multiplyReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 2)
	for i, r := range report.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "hi\n", r.Output)
	}
	require.NotNil(t, report.Stats)
	assert.EqualValues(t, 2, report.Stats.Count)
}

func TestMultiplyCommand_ZeroCount(t *testing.T) {
	out, err := execute(t, "multiply", "-n", "0", "--", "definitely-not-a-command")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMultiplyCommand_NegativeCount(t *testing.T) {
	_, err := execute(t, "multiply", "-n", "-1", "--", "echo")
	assert.ErrorIs(t, err, lightspeed.ErrInvalidCount)
}

func TestFormatCommand(t *testing.T) {
	out, err := execute(t, "format", "--profile", "ascii", "--bold", "--color", "red", "hi", "there")
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", out)

	out, err = execute(t, "format", "--profile", "truecolor", "--underline", "--color", "rgb(255,255,10)", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "38;2;255;255;10")
	assert.Contains(t, out, "hi")

	_, err = execute(t, "format", "--profile", "sepia", "hi")
	assert.Error(t, err)
}

func TestInvalidGlobalConfig(t *testing.T) {
	_, err := execute(t, "--output", "xml", "run", "--", "echo")
	assert.Error(t, err)
}

func TestParseEnv(t *testing.T) {
	env, err := parseEnv(nil)
	require.NoError(t, err)
	assert.Nil(t, env)

	env, err = parseEnv([]string{"A=1", "B=x=y", "C="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": "1", "B": "x=y", "C": ""}, env)

	_, err = parseEnv([]string{"NOEQUALS"})
	assert.Error(t, err)
	_, err = parseEnv([]string{"=value"})
	assert.Error(t, err)
}

func TestLatencyStats(t *testing.T) {
	results := make([]Result, 100)
	for i := range results {
		results[i].Elapsed = time.Duration(i+1) * time.Millisecond
	}

	s := latencyStats(results)
	assert.EqualValues(t, 100, s.Count)
	assert.InDelta(t, 1.0, s.MinMs, 0.01)
	assert.InDelta(t, 100.0, s.MaxMs, 0.1)
	assert.InDelta(t, 50.0, s.P50Ms, 0.1)
	assert.InDelta(t, 50.5, s.MeanMs, 0.1)

	assert.Equal(t, Stats{}, latencyStats(nil))
}
