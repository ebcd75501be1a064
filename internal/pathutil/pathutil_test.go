package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := newPaths("")
	assert.Equal(t, "config.yml", p.configFileName)
	assert.Equal(t, "proctor.db", p.dbFileName)

	p = newPaths(" test ")
	assert.Equal(t, "config_test.yml", p.configFileName)
	assert.Equal(t, "proctor_test.db", p.dbFileName)
	assert.Equal(t, "proctor_test.log", p.logFileName)
}

func TestComputePaths(t *testing.T) {
	dir := t.TempDir()

	t.Cleanup(xdg.Reload)

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	xdg.Reload()

	p := newPaths("dev")
	require.NoError(t, p.computePaths())

	assert.Equal(t, filepath.Join(dir, "config", "proctor", "config_dev.yml"), p.configFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "proctor", "proctor_dev.db"), p.dbFilePath)
	assert.Equal(t, filepath.Join(dir, "data", "proctor", "log", "proctor_dev.log"), p.logFilePath)
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "samples", StripExtension("samples.jsonl"))
	assert.Equal(t, "noext", StripExtension("noext"))
}
