package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRosterMissingFile(t *testing.T) {
	roster, err := LoadRoster(filepath.Join(t.TempDir(), "roster.yaml"))

	require.NoError(t, err)
	assert.Nil(t, roster)
}

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	content := "mitarbeiterinnen:\n  - Berger\n  - \"  Gruber \"\n  - \"\"\n  - Wimmer\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	roster, err := LoadRoster(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Berger", "Gruber", "Wimmer"}, roster)
}

func TestLoadRosterInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mitarbeiterinnen: [unclosed"), 0644))

	_, err := LoadRoster(path)

	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(homeDir, ".leitfaden"), ExpandPath("~/.leitfaden"))
	assert.Equal(t, homeDir, ExpandPath("~"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x"))
	assert.Equal(t, "", ExpandPath(""))
}
