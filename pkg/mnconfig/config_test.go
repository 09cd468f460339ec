package mnconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig(4)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Runtime.WorkerCount)
}

func TestDefaultConfigClampsNonPositiveCPUCount(t *testing.T) {
	cfg := DefaultConfig(0)
	assert.Equal(t, 1, cfg.Runtime.WorkerCount)
}

func TestPresets(t *testing.T) {
	single, err := GetPresetConfig("single", 8)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Runtime.WorkerCount)

	throughput, err := GetPresetConfig("throughput", 4)
	require.NoError(t, err)
	assert.Equal(t, 16, throughput.Runtime.WorkerCount)

	_, err = GetPresetConfig("nonsense", 4)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Runtime.WorkerCount = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig(4)
	cfg.Runtime.StackSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig(4)
	cfg.Runtime.ShutdownTimeoutSeconds = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig(4)
	cfg.Logging.Level = "bogus"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig(4)
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnrt.json")

	cfg := DefaultConfig(4)
	cfg.Runtime.WorkerCount = 6
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadConfig(path, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, loaded.Runtime.WorkerCount)
}

func TestLoadConfigAppliesEnvOverride(t *testing.T) {
	t.Setenv("MNRT_WORKER_COUNT", "12")
	cfg, err := LoadConfig("", 4)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Runtime.WorkerCount)
}

func TestLoggerConfig(t *testing.T) {
	cfg := DefaultConfig(4)
	cfg.Logging.Format = "json"
	lc, err := cfg.LoggerConfig()
	require.NoError(t, err)
	assert.NotNil(t, lc.Output)
}
