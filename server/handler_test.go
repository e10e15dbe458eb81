package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExportDir(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	// Matches the CLI default so local and SSH exports land together
	assert.Equal(t, filepath.Join(homeDir, ".leitfaden", "exports"), defaultExportDir())
}
