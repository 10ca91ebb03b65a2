package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()

	return buf.String(), err
}

// The root command initializes process wide configuration, so these tests do not run in parallel.

func TestRootCommandRegistersCommands(t *testing.T) {
	root, err := NewRootCommand()
	require.NoError(t, err)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"arqc", "verify", "keys", "iad", "scheme", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommandInitializesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root, err := NewRootCommand()
	require.NoError(t, err)

	output, err := executeCommand(root, "--log-level", "error", "scheme", "5413330089010434")
	require.NoError(t, err)
	assert.Contains(t, output, "MASTERCARD")
	assert.FileExists(t, filepath.Join(home, ".go_arqc", "config.yaml"))
}

func TestRootCommandBadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server: [unclosed"), 0o600))

	root, err := NewRootCommand()
	require.NoError(t, err)

	_, err = executeCommand(root, "--config", file, "scheme", "4111111111111111")
	assert.ErrorContains(t, err, "failed to initialize configuration")
}
