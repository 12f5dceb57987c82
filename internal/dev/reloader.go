package dev

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/extensions"
	"github.com/vango-dev/vango-ext/pkg/host"
)

// Reloader keeps a namespace of markup components in an engine in sync
// with a directory. It only ever replaces or unloads a namespace it
// loaded itself.
type Reloader struct {
	Engine    *host.Engine
	Dir       string
	Namespace string

	// Notifier, when set, is told about every reload and failure.
	Notifier *ReloadServer

	Logger *slog.Logger

	owned bool
}

func (r *Reloader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Load reads the directory and replaces the namespace in the engine. An
// absent or empty directory unloads the namespace. On error the engine
// keeps the previous components.
//
// A namespace that is already loaded by someone else, such as the
// built-in XMLUIExtensions, is never touched: components for it are
// rejected with E232.
func (r *Reloader) Load() error {
	regs, err := r.read()
	if err != nil {
		return err
	}

	if !r.owned && slices.Contains(r.Engine.Namespaces(), r.Namespace) {
		if len(regs) == 0 {
			return nil
		}
		return errors.New("E232").
			WithDetailf("namespace %s is already loaded", r.Namespace).
			WithSuggestion("set components.namespace to a namespace of its own")
	}

	if len(regs) == 0 {
		r.Engine.Unload(r.Namespace)
		r.owned = false
		return nil
	}

	ext, err := component.NewExtension(r.Namespace, regs...)
	if err != nil {
		return err
	}
	if err := r.Engine.Reload(ext); err != nil {
		return err
	}
	r.owned = true
	return nil
}

// read loads the directory's components. An absent directory has none.
func (r *Reloader) read() ([]*component.Registration, error) {
	if _, err := os.Stat(r.Dir); os.IsNotExist(err) {
		return nil, nil
	}
	return extensions.LoadMarkupDir(os.DirFS(r.Dir))
}

// Run reloads on every change reported by w until ctx is done.
func (r *Reloader) Run(ctx context.Context, w *Watcher) error {
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			r.reload()
		}
	}
}

func (r *Reloader) reload() {
	if err := r.Load(); err != nil {
		r.logger().Error("component reload failed", "dir", r.Dir, "error", err)
		if r.Notifier != nil {
			r.Notifier.Fail(err)
		}
		return
	}
	r.logger().Info("components reloaded", "dir", r.Dir, "namespace", r.Namespace)
	if r.Notifier != nil {
		r.Notifier.Reload()
	}
}
