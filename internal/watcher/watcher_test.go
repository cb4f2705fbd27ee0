package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0o644))

	var fired atomic.Int32
	w, err := New(path, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o644))

	assert.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: false\n"), 0o644))

	var fired atomic.Int32
	w, err := New(path, func() { fired.Add(1) })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.yaml"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	w, err := New(filepath.Join(tmpDir, "settings.yaml"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
