package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain builds the cabinet binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "cabinet-test-*")
	if err != nil {
		SetBuildErr(err)
		os.Exit(1)
	}
	binPath := filepath.Join(tmpDir, "cabinet")
	SetCabinetBin(binPath)

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/cabinet")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		SetBuildErr(&BuildError{Err: err, Output: string(output)})
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInitCreatesDatabase(t *testing.T) {
	env := NewTestEnv(t)

	result := env.MustRunCabinet("init")
	assert.Contains(t, result.Stdout, "initialized")

	_, err := os.Stat(filepath.Join(env.DataDir, "cabinet.db"))
	assert.NoError(t, err)
}

func TestOrderSurvivesRestart(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunCabinet("init")

	for _, key := range []string{"gamma", "alpha", "beta"} {
		env.MustRunCabinet("set", key, `"`+key+`"`)
	}

	entries := ParseJSON[[]Entry](t, env.MustRunCabinet("--json", "list").Stdout)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, keysOf(entries))

	env.MustRunCabinet("order", "beta", "gamma", "alpha")
	entries = ParseJSON[[]Entry](t, env.MustRunCabinet("--json", "list").Stdout)
	assert.Equal(t, []string{"beta", "gamma", "alpha"}, keysOf(entries))

	env.MustRunCabinet("delete", "gamma")
	entries = ParseJSON[[]Entry](t, env.MustRunCabinet("--json", "list").Stdout)
	assert.Equal(t, []string{"beta", "alpha"}, keysOf(entries))
}

func TestRefusedWritesLeaveNoTrace(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteConfig("backend: sqlite\ndata_dir: " + env.DataDir + "\nprecondition: 'len(keys) < 2'\n")

	env.MustRunCabinet("set", "one", "1")
	env.MustRunCabinet("set", "two", "2")

	result := env.RunCabinet("set", "three", "3")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "constraint not satisfied")

	result = env.RunCabinet("set", "one", "other")
	assert.Equal(t, 1, result.ExitCode)

	entries := ParseJSON[[]Entry](t, env.MustRunCabinet("--json", "list").Stdout)
	assert.Equal(t, []string{"one", "two"}, keysOf(entries))
}

func TestExportImportRoundTrip(t *testing.T) {
	env := NewTestEnv(t)
	env.MustRunCabinet("set", "b", `{"title": "second"}`)
	env.MustRunCabinet("set", "a", `[1, 2]`)

	path := filepath.Join(env.TempDir, "root.jsonl")
	env.MustRunCabinet("export", path)

	records := ReadJSONLFile[Entry](t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].Key)
	assert.Equal(t, map[string]any{"title": "second"}, records[0].Value)

	env.MustRunCabinet("--bucket", "copy", "import", path)
	entries := ParseJSON[[]Entry](t, env.MustRunCabinet("--bucket", "copy", "--json", "list").Stdout)
	assert.Equal(t, []string{"b", "a"}, keysOf(entries))
	assert.Equal(t, []any{1.0, 2.0}, entries[1].Value)

	buckets := ParseJSON[[]string](t, env.MustRunCabinet("--json", "buckets").Stdout)
	assert.Equal(t, []string{"copy", "root"}, buckets)
}

func TestExitCodes(t *testing.T) {
	env := NewTestEnv(t)

	assert.Equal(t, 1, env.RunCabinet("get", "missing").ExitCode)
	assert.Equal(t, 1, env.RunCabinet("no-such-command").ExitCode)
	assert.Equal(t, 2, env.RunCabinet("import", filepath.Join(env.TempDir, "absent.jsonl")).ExitCode)

	env.WriteConfig("backend: postgres\n")
	assert.Equal(t, 1, env.RunCabinet("list").ExitCode)
	env.MustRunCabinet("version")
}

func keysOf(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
