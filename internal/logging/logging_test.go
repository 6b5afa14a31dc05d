package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	w, err := openLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, logFileName), w.Filename)

	_, err = os.Stat(filepath.Join(dir, ".write-test"))
	assert.True(t, os.IsNotExist(err), "probe file should be removed")
}

func TestOpenLogFile_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := openLogFile(file)
	assert.Error(t, err)
}
