package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// EnvPrefix is the prefix of the variables cleared by NewEnvironment
const EnvPrefix = "YAWMS_"

// Environment is an isolated set of directories for one test
type Environment struct {
	Root       string
	ConfigHome string
	StateHome  string

	t *testing.T
}

// NewEnvironment creates the directories and points the XDG variables at them.
// Variables are restored when the test ends.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	root := t.TempDir()
	env := &Environment{
		Root:       root,
		ConfigHome: filepath.Join(root, "config"),
		StateHome:  filepath.Join(root, "state"),
		t:          t,
	}

	t.Setenv("XDG_CONFIG_HOME", env.ConfigHome)
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix) {
			Unsetenv(t, key)
		}
	}
	return env
}

// WriteFile writes content to name under the environment root
func (e *Environment) WriteFile(name, content string) string {
	e.t.Helper()
	return CreateFile(e.t, e.Root, name, content)
}

// WriteUserConfig writes the user config file read by config.Load
func (e *Environment) WriteUserConfig(content string) string {
	e.t.Helper()
	return CreateFile(e.t, filepath.Join(e.ConfigHome, "yawms"), "config.toml", content)
}

// Unsetenv removes key for the rest of the test and restores it afterwards
func Unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Failed to unset %s: %v", key, err)
	}
}
