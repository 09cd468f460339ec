package mnconfig

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcherValidation(t *testing.T) {
	_, err := NewWatcher("", 4, func(*Config) {}, nil)
	assert.Error(t, err)

	_, err = NewWatcher("/tmp/whatever.json", 4, nil, nil)
	assert.Error(t, err)
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnrt.json")

	cfg := DefaultConfig(4)
	require.NoError(t, cfg.SaveToFile(path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 4, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	cfg.Runtime.WorkerCount = 7
	require.NoError(t, cfg.SaveToFile(path))

	select {
	case got := <-reloaded:
		assert.Equal(t, 7, got.Runtime.WorkerCount)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnrt.json")

	cfg := DefaultConfig(4)
	require.NoError(t, cfg.SaveToFile(path))

	reloaded := make(chan *Config, 4)
	errs := make(chan error, 4)
	w, err := NewWatcher(path, 4,
		func(c *Config) { reloaded <- c },
		func(e error) { errs <- e })
	require.NoError(t, err)
	defer w.Close()

	cfg.Runtime.WorkerCount = -1
	require.NoError(t, cfg.SaveToFile(path))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case c := <-reloaded:
		t.Fatalf("invalid config was delivered as a reload: %+v", c)
	case <-time.After(5 * time.Second):
		t.Fatal("error callback never fired")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnrt.json")

	cfg := DefaultConfig(4)
	require.NoError(t, cfg.SaveToFile(path))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, 4, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	other := DefaultConfig(2)
	require.NoError(t, other.SaveToFile(filepath.Join(dir, "unrelated.json")))

	select {
	case <-reloaded:
		t.Fatal("reload fired for an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherCloseSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mnrt.json")
	require.NoError(t, DefaultConfig(4).SaveToFile(path))

	w, err := NewWatcher(path, 4, func(*Config) {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
