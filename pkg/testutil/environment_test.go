package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEnvironment(t *testing.T) {
	t.Setenv("YAWMS_OUTPUT_FORMAT", "json")

	env := NewEnvironment(t)

	assert.Equal(t, env.ConfigHome, os.Getenv("XDG_CONFIG_HOME"))
	assert.Equal(t, env.StateHome, os.Getenv("XDG_STATE_HOME"))
	_, set := os.LookupEnv("YAWMS_OUTPUT_FORMAT")
	assert.False(t, set)
}

func TestEnvironment_Files(t *testing.T) {
	env := NewEnvironment(t)

	path := env.WriteFile("nested/Yawmsfile.yaml", "rule: []\n")
	assert.Equal(t, filepath.Join(env.Root, "nested", "Yawmsfile.yaml"), path)
	assert.Equal(t, "rule: []\n", ReadFile(t, path))

	cfg := env.WriteUserConfig("[log]\nverbosity = 2\n")
	assert.Equal(t, filepath.Join(env.ConfigHome, "yawms", "config.toml"), cfg)
	assert.FileExists(t, cfg)
}
