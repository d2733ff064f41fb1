package node

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	c := GetCommand()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs(args)
	require.NoError(t, c.Execute())
	return out.String()
}

func TestPartnerCommands(t *testing.T) {
	dir := t.TempDir()
	execute(t, "partner", "add", "alice", "-d", dir,
		"--url", "quic://alice.example.org:7513",
		"--accept-password", "secret",
		"--schedule", "0 * * * *",
	)
	out := execute(t, "partner", "list", "-d", dir)
	require.Contains(t, out, "alice")
	require.Contains(t, out, "quic://alice.example.org:7513")
	require.Contains(t, out, "never")
	require.Contains(t, out, "false")

	execute(t, "partner", "kick", "alice", "-d", dir)
	require.Contains(t, execute(t, "partner", "list", "-d", dir), "true")

	execute(t, "partner", "unkick", "alice", "--reset", "-d", dir)
	require.Contains(t, execute(t, "partner", "list", "-d", dir), "false")

	// administrative commands don't mark a clean shutdown
	require.NoFileExists(t, filepath.Join(dir, "CLEAN_SHUTDOWN"))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"main": {"data-folder": "`+first+`"}}`), 0o600))

	execute(t, "partner", "add", "bob", "-c", path)
	require.Contains(t, execute(t, "partner", "list", "-c", path), "bob")

	// the flag wins over the file
	require.NotContains(t, execute(t, "partner", "list", "-c", path, "-d", second), "bob")
}

func TestInvalidPartner(t *testing.T) {
	c := GetCommand()
	c.SetOut(&bytes.Buffer{})
	c.SetArgs([]string{"partner", "add", "carol", "-d", t.TempDir(), "--control-probability", "2"})
	require.ErrorContains(t, c.Execute(), "control probability")
}

func TestVersion(t *testing.T) {
	require.Equal(t, "dev\n", execute(t, "version"))
}
