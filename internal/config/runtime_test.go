package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuntime(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestRuntimeReadsFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.conf")
	rt := NewRuntime(path, map[string]string{KeyCallProvider: "mock"})

	// No file yet: default.
	assert.Equal(t, "mock", rt.Provider())

	// Operator switches the provider; the next read must observe it without
	// any reload call.
	writeRuntime(t, path, "call_provider=twilio\n")
	assert.Equal(t, "twilio", rt.Provider())

	writeRuntime(t, path, "# maintenance\ncall_provider = connect\n")
	assert.Equal(t, "connect", rt.Provider())
}

func TestRuntimeIgnoresMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.conf")
	writeRuntime(t, path, "garbage line\n\n# comment\nCALL_PROVIDER=Twilio\nother=1\n")

	rt := NewRuntime(path, map[string]string{KeyCallProvider: "mock"})
	assert.Equal(t, "Twilio", rt.Provider())
	assert.Equal(t, "1", rt.Get("other"))
	assert.Equal(t, "", rt.Get("missing"))
}

func TestRuntimeEmptyValueFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.conf")
	writeRuntime(t, path, "call_provider=\n")

	rt := NewRuntime(path, map[string]string{KeyCallProvider: "mock"})
	assert.Equal(t, "mock", rt.Provider())
}

func TestRuntimeNoPathPinsDefaults(t *testing.T) {
	rt := NewRuntime("", map[string]string{KeyCallProvider: "mock"})
	assert.Equal(t, "mock", rt.Provider())
}
