package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Provider serves the current dataset and swaps it when the file changes.
type Provider struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[Dataset]

	mu    sync.Mutex
	hooks []func(*Dataset)
}

// NewProvider loads path and returns a provider serving it.
func NewProvider(path string, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ds, err := Load(path)
	if err != nil {
		return nil, err
	}
	p := &Provider{path: path, logger: logger}
	p.current.Store(ds)
	return p, nil
}

// NewStaticProvider wraps an in-memory dataset. Reload and Watch are no-ops.
func NewStaticProvider(ds *Dataset) *Provider {
	p := &Provider{logger: zap.NewNop()}
	p.current.Store(ds)
	return p
}

// Current returns the dataset snapshot in use.
func (p *Provider) Current() *Dataset {
	return p.current.Load()
}

// OnReload registers fn to run after every successful reload.
func (p *Provider) OnReload(fn func(*Dataset)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, fn)
}

// Reload re-reads the dataset file. On failure the previous dataset stays active.
func (p *Provider) Reload() error {
	if p.path == "" {
		return nil
	}
	ds, err := Load(p.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", p.path, err)
	}
	p.current.Store(ds)

	p.mu.Lock()
	hooks := make([]func(*Dataset), len(p.hooks))
	copy(hooks, p.hooks)
	p.mu.Unlock()
	for _, fn := range hooks {
		fn(ds)
	}

	p.logger.Info("Dataset reloaded",
		zap.String("path", p.path),
		zap.String("version", ds.Version()),
		zap.Int("units", ds.Len()))
	return nil
}

// Watch reloads the dataset whenever its file is written or replaced, until ctx is done.
func (p *Provider) Watch(ctx context.Context) (err error) {
	if p.path == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Watch the directory so editors that replace the file via rename are seen.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := p.Reload(); err != nil {
				p.logger.Warn("Dataset reload failed, keeping previous version", zap.Error(err))
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("Dataset watcher error", zap.Error(werr))
		}
	}
}
