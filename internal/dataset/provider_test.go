package dataset_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/meur/teamforge/internal/dataset"
)

func writeDataset(t *testing.T, path, version string) {
	t.Helper()
	raw := fmt.Sprintf(`{"version": %q, "units": [{"id": "seele", "roles": ["DPS"]}]}`, version)
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
}

func TestProviderReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	writeDataset(t, path, "v1")

	p, err := dataset.NewProvider(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "v1", p.Current().Version())

	var seen atomic.Value
	p.OnReload(func(ds *dataset.Dataset) { seen.Store(ds.Version()) })

	writeDataset(t, path, "v2")
	require.NoError(t, p.Reload())
	assert.Equal(t, "v2", p.Current().Version())
	assert.Equal(t, "v2", seen.Load())

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	assert.Error(t, p.Reload())
	assert.Equal(t, "v2", p.Current().Version(), "a failed reload keeps the previous dataset")
}

func TestProviderReloadRunsHooksInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	writeDataset(t, path, "v1")

	p, err := dataset.NewProvider(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var calls []string
	p.OnReload(func(ds *dataset.Dataset) { calls = append(calls, "first:"+ds.Version()) })
	p.OnReload(func(ds *dataset.Dataset) {
		calls = append(calls, "second:"+ds.Version())
		// Registering from a hook must not block; it takes effect next reload.
		p.OnReload(func(ds *dataset.Dataset) { calls = append(calls, "late:"+ds.Version()) })
	})

	writeDataset(t, path, "v2")
	require.NoError(t, p.Reload())
	assert.Equal(t, []string{"first:v2", "second:v2"}, calls)

	calls = nil
	writeDataset(t, path, "v3")
	require.NoError(t, p.Reload())
	assert.Equal(t, []string{"first:v3", "second:v3", "late:v3"}, calls)
}

func TestNewProviderMissingFile(t *testing.T) {
	_, err := dataset.NewProvider(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestProviderWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	writeDataset(t, path, "v1")

	p, err := dataset.NewProvider(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	var reloads atomic.Int32
	p.OnReload(func(*dataset.Dataset) { reloads.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeDataset(t, path, "v2")

	assert.Eventually(t, func() bool {
		return p.Current().Version() == "v2"
	}, 5*time.Second, 20*time.Millisecond)
	assert.Positive(t, reloads.Load())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestStaticProvider(t *testing.T) {
	ds, err := dataset.Parse([]byte(`{"version": "static", "units": []}`))
	require.NoError(t, err)

	p := dataset.NewStaticProvider(ds)
	require.NoError(t, p.Reload())
	assert.Same(t, ds, p.Current())
}
