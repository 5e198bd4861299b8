package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLevelsCheckEmbedded(t *testing.T) {
	out, err := execute(t, "levels", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Logic OR")
	assert.Contains(t, out, "wire.level")
	assert.NotContains(t, out, "mismatch")
}

func TestVerifyEmbedded(t *testing.T) {
	out, err := execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  wire.level: 1/1 exercises in 5 ticks")
	assert.Contains(t, out, "PASS  or.level: 3/3 exercises in 21 ticks")
	assert.Contains(t, out, "PASS  free.level")
}

func brokenDir(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "levels", "wire.level"))
	require.NoError(t, err)
	broken := strings.Replace(string(data), "E W w w w W E", "E W w . w W E", 1)
	require.NotEqual(t, string(data), broken)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.level"), []byte(broken), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wire.level"), data, 0o644))
	return dir
}

func TestVerifyDirectoryReportsFailures(t *testing.T) {
	dir := brokenDir(t)
	out, err := execute(t, "verify", dir)
	require.EqualError(t, err, "1 of 2 levels failed")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "FAIL  broken.level: exercise 1 of 1"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "PASS  wire.level"), lines[1])
}

func TestVerifyJSON(t *testing.T) {
	dir := brokenDir(t)
	out, err := execute(t, "--levels", dir, "verify", "--json")
	require.Error(t, err)

	var results []struct {
		Level  string `json:"level"`
		Passed bool   `json:"passed"`
		Failed int    `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.False(t, results[0].Passed)
	assert.Equal(t, 0, results[0].Failed)
	assert.True(t, results[1].Passed)
	assert.Equal(t, -1, results[1].Failed)
}

func TestConfigFileAndValidation(t *testing.T) {
	_, err := execute(t, "--scale", "0", "levels")
	assert.ErrorContains(t, err, "Scale")

	path := filepath.Join(t.TempDir(), "wireworld.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))
	_, err = execute(t, "--config", path, "levels")
	assert.ErrorContains(t, err, "Level")

	_, err = execute(t, "--config", path, "--log-level", "debug", "levels")
	assert.NoError(t, err, "flags override the file")
}

func TestWatchNeedsDirectory(t *testing.T) {
	_, err := execute(t, "watch")
	assert.ErrorContains(t, err, "directory")
}
