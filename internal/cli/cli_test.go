package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cabinet/internal/paths"
	"github.com/mesh-intelligence/cabinet/internal/sqlite"
)

// env is a throwaway config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	root := t.TempDir()
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDataDir, "")
	t.Setenv("CABINET_BACKEND", "")
	t.Setenv("CABINET_PRECONDITION", "")
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// cabinet runs the CLI and returns stdout, stderr and the exit code.
func (e env) cabinet(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (e env) ok(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := e.cabinet(t, args...)
	require.Equal(t, exitSuccess, code, "cabinet %v failed: %s", args, stderr)
	return stdout
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	stdout := e.ok(t, "version")
	assert.Contains(t, stdout, "cabinet v"+Version)
	assert.Contains(t, stdout, modulePath)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	stdout := e.ok(t, "init")
	assert.Contains(t, stdout, "initialized")

	data, err := os.ReadFile(filepath.Join(e.configDir, paths.ConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	_, err = os.Stat(filepath.Join(e.dataDir, sqlite.DatabaseFile))
	assert.NoError(t, err)

	// Idempotent, and an existing config is left alone.
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, paths.ConfigFile), []byte("backend: sqlite\nlog_level: error\n"), 0o644))
	e.ok(t, "init")
	data, err = os.ReadFile(filepath.Join(e.configDir, paths.ConfigFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: error")
}

func TestItemLifecycle(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "init")

	assert.Equal(t, "b\tsecond\n", e.ok(t, "set", "b", "second"))
	e.ok(t, "set", "a", `{"n": 1}`)
	e.ok(t, "set", "c", "3")

	assert.Equal(t, "b\tsecond\na\tmap[n:1]\nc\t3\n3 items\n", e.ok(t, "list"))
	assert.Equal(t, "b\tsecond\nc\t3\n3 items\n", e.ok(t, "list", "--from", "b"))

	var got entry
	require.NoError(t, json.Unmarshal([]byte(e.ok(t, "--json", "get", "a")), &got))
	assert.Equal(t, "a", got.Key)
	assert.Equal(t, map[string]any{"n": 1.0}, got.Value)

	_, stderr, code := e.cabinet(t, "set", "a", "other")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "key already in use")

	assert.Equal(t, "c\na\nb\n", e.ok(t, "order", "c", "a", "b"))
	_, _, code = e.cabinet(t, "order", "c", "a")
	assert.Equal(t, exitUserError, code)

	e.ok(t, "delete", "a")
	_, _, code = e.cabinet(t, "get", "a")
	assert.Equal(t, exitUserError, code)
	_, _, code = e.cabinet(t, "delete", "a")
	assert.Equal(t, exitUserError, code)

	var entries []entry
	require.NoError(t, json.Unmarshal([]byte(e.ok(t, "--json", "list")), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
}

func TestInvalidNames(t *testing.T) {
	e := newEnv(t)
	_, _, code := e.cabinet(t, "set", "", "x")
	assert.Equal(t, exitUserError, code)
	_, _, code = e.cabinet(t, "set", "only-key")
	assert.Equal(t, exitUserError, code)
}

func TestChooseName(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "set", "foo.old.rst", "x")
	assert.Equal(t, "foo.old-2.rst\n", e.ok(t, "choose-name", "foo.old.rst"))
	assert.Equal(t, "object\n", e.ok(t, "choose-name"))
}

func TestBuckets(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "--bucket", "notes", "set", "a", "1")
	e.ok(t, "set", "b", "2")
	assert.Equal(t, "notes\nroot\n", e.ok(t, "buckets"))
	assert.Equal(t, "0 items\n", e.ok(t, "--bucket", "empty", "list"))
	assert.Equal(t, "a\t1\n1 item\n", e.ok(t, "--bucket", "notes", "list"))
}

func TestExportImport(t *testing.T) {
	e := newEnv(t)
	e.ok(t, "set", "z", "last")
	e.ok(t, "set", "a", "first")

	path := filepath.Join(t.TempDir(), "dump.jsonl")
	assert.Equal(t, "exported 2 items\n", e.ok(t, "export", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	assert.Equal(t, "imported 2 items\n", e.ok(t, "--bucket", "copy", "import", path))
	assert.Equal(t, "z\tlast\na\tfirst\n2 items\n", e.ok(t, "--bucket", "copy", "list"))

	_, _, code := e.cabinet(t, "--bucket", "copy", "import", path)
	assert.Equal(t, exitUserError, code, "existing keys are not overwritten")
}

func TestConfigPolicy(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	cfg := "backend: sqlite\nreserved_names: [index]\nprecondition: 'not (name startsWith \"Z\")'\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, paths.ConfigFile), []byte(cfg), 0o644))

	_, stderr, code := e.cabinet(t, "set", "Zed", "x")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "constraint not satisfied")

	_, _, code = e.cabinet(t, "choose-name", "index")
	assert.Equal(t, exitUserError, code)

	e.ok(t, "set", "alpha", "x")
}

func TestConfigErrors(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, paths.ConfigFile), []byte("backend: postgres\n"), 0o644))

	_, stderr, code := e.cabinet(t, "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "unknown backend")

	// version does not read the configuration.
	e.ok(t, "version")
}

func TestMemoryBackend(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CABINET_BACKEND", "memory")

	e.ok(t, "set", "a", "1")
	assert.Equal(t, "0 items\n", e.ok(t, "list"), "nothing persists in memory")

	_, _, code := e.cabinet(t, "buckets")
	assert.Equal(t, exitUserError, code)
}

func TestVerboseLogging(t *testing.T) {
	e := newEnv(t)
	_, stderr, code := e.cabinet(t, "--verbose", "set", "a", "1")
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, stderr, "containment event")
	assert.Contains(t, stderr, "level=DEBUG")
}
