package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestCollect_Unreachable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	out, err := execute(t, "collect",
		"--dsn", "postgres://postgres@127.0.0.1:1/postgres?sslmode=disable&connect_timeout=2",
		"--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "State: init")
	assert.Contains(t, out, "Issue (connect)")

	data, err := os.ReadFile(filepath.Join(dir, "postgresql.conf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Could not connect to PostgreSQL to get config: "))

	_, err = os.Stat(filepath.Join(dir, "copyspec.yaml"))
	assert.NoError(t, err)
}

func TestCollect_InvalidRuntime(t *testing.T) {
	_, err := execute(t, "collect", "--container-runtime", "lxc", "--output", t.TempDir())
	assert.ErrorContains(t, err, "container.runtime")
}

func TestCollect_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pgcollect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  dsn: postgresql://file@db/postgres\ncontainer:\n  id: from-file\n"), 0o644))

	cmd := newCollectCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--container-id", "from-flag"}))

	f := collectFlags{configPath: path, containerID: "from-flag"}
	cfg, err := resolveConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, "postgresql://file@db/postgres", cfg.Source.DSN)
	assert.Equal(t, "from-flag", cfg.Container.ID)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}
