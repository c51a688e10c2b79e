// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/humantyper/internal/humanoid"
)

// fastConfig keeps typing tests quick: no inter-key delay and no correction pauses.
const fastConfig = `
logger:
  level: fatal
typing:
  average_cpm: 600000
  error_rate: 0.2
  recognition_pause: {min: 0s, max: 0s}
  reposition_pause: {min: 0s, max: 0s}
device:
  backend: buffer
`

// writeConfig stores a YAML config in a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "humantyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// run executes a fresh command tree and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "humantyper "+Version)

	out, err = run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestTypeCmd_BufferBackend(t *testing.T) {
	cfgPath := writeConfig(t, fastConfig)

	out, err := run(t, "", "--config", cfgPath, "type", "--seed", "7", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestTypeCmd_Stdin(t *testing.T) {
	cfgPath := writeConfig(t, fastConfig)

	out, err := run(t, "the quick brown fox\n", "--config", cfgPath, "type")
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox\n", out)
}

func TestTypeCmd_File(t *testing.T) {
	orig := appFs
	t.Cleanup(func() { appFs = orig })
	appFs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(appFs, "/notes.txt", []byte("bonjour\n"), 0o644))

	cfgPath := writeConfig(t, fastConfig)
	out, err := run(t, "", "--config", cfgPath, "type", "-f", "/notes.txt", "--layout", "azerty")
	require.NoError(t, err)
	assert.Equal(t, "bonjour\n", out)

	_, err = run(t, "", "--config", cfgPath, "type", "-f", "/missing.txt")
	assert.ErrorContains(t, err, "failed to read /missing.txt")
}

func TestTypeCmd_StdoutBackend(t *testing.T) {
	cfgPath := writeConfig(t, fastConfig)

	out, err := run(t, "", "--config", cfgPath, "type", "--backend", "stdout", "--seed", "1", "ok")
	require.NoError(t, err)
	// Without a terminal each erase is a bare backspace; the newline closes the line.
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "k")
}

func TestTypeCmd_Errors(t *testing.T) {
	cfgPath := writeConfig(t, fastConfig)

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "EmptyInput", args: []string{"type"}, wantErr: "nothing to type"},
		{name: "UnknownLayout", args: []string{"type", "--layout", "dvorak", "x"}, wantErr: "layout"},
		{name: "BadCPM", args: []string{"type", "--cpm", "-5", "x"}, wantErr: "average_cpm"},
		{name: "BadSink", args: []string{"type", "--sink", "telepathy", "x"}, wantErr: "sink"},
		{name: "PTYWithoutCommand", args: []string{"type", "--backend", "pty", "x"}, wantErr: "device.command"},
		{name: "StrictRejectsUnknown", args: []string{"type", "--strict", "snow ☃"}, wantErr: "☃"},
		{name: "ElementNeedsSelector", args: []string{"type", "--sink", "element", "x"}, wantErr: "--selector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, append([]string{"--config", cfgPath}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTypeCmd_ElementWithoutBrowser(t *testing.T) {
	orig := browserAvailable
	t.Cleanup(func() { browserAvailable = orig })
	browserAvailable = func(string) bool { return false }

	cfgPath := writeConfig(t, fastConfig)
	_, err := run(t, "", "--config", cfgPath, "type", "--sink", "element", "--selector", "#q", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, humanoid.ErrConfiguration)
}

func TestLayoutCmd(t *testing.T) {
	out, err := run(t, "", "layout", "list")
	require.NoError(t, err)
	assert.Equal(t, "azerty\nqwerty\n", out)

	out, err = run(t, "", "layout", "show", "qwerty")
	require.NoError(t, err)
	assert.Contains(t, out, "# level 0")
	assert.Contains(t, out, "# level 1")
	assert.Contains(t, out, "q w e r t y u i o p")

	out, err = run(t, "", "layout", "distance", "qwerty", "q", "w")
	require.NoError(t, err)
	assert.Equal(t, "1.0000\n", out)

	out, err = run(t, "", "layout", "neighbors", "qwerty", "g", "-n", "2")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	_, err = run(t, "", "layout", "show", "dvorak")
	assert.Error(t, err)

	_, err = run(t, "", "layout", "neighbors", "qwerty", "gh")
	assert.ErrorContains(t, err, "single character")
}

func TestConfigShow(t *testing.T) {
	cfgPath := writeConfig(t, "typing:\n  layout: azerty\n  average_cpm: 250\n")
	t.Setenv("HUMANTYPER_DEVICE_BACKEND", "buffer")

	out, err := run(t, "", "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# azerty: 3 levels")
	assert.Contains(t, out, "layout: azerty")
	assert.Contains(t, out, "average_cpm: 250")
	assert.Contains(t, out, "backend: buffer")
	assert.Contains(t, out, "min: 400ms")
}
