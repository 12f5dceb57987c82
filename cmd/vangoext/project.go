package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/config"
	"github.com/vango-dev/vango-ext/internal/dev"
	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/extensions"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/notice"
)

// project is a loaded configuration plus the paths derived from it.
type project struct {
	cfg           *config.Config
	componentsDir string
	logger        *slog.Logger
}

func (o *rootOptions) load(cmd *cobra.Command) (*project, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(o.dir)
	}
	if err != nil {
		return nil, err
	}

	dir := cfg.ComponentsPath()
	if cfg.Path() == "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(o.dir, dir)
	}
	return &project{
		cfg:           cfg,
		componentsDir: dir,
		logger:        cfg.Log.NewLogger(cmd.ErrOrStderr()),
	}, nil
}

type engineOptions struct {
	caller     bridge.Caller
	middleware []host.Middleware
}

// newEngine builds an engine with the XMLUIExtensions namespace loaded.
// Component alerts go to the log.
func (p *project) newEngine(opts engineOptions) (*host.Engine, error) {
	e := host.New(
		host.WithLogger(p.logger),
		host.WithTheme(p.cfg.Theme),
		host.WithAlerts(notice.LogEmitter(p.logger)),
		host.WithMiddleware(opts.middleware...),
	)

	ext, err := extensions.New(extensions.Options{
		Bridge:        opts.caller,
		BridgeTimeout: p.cfg.Bridge.Timeout,
		Logger:        p.logger,
	})
	if err != nil {
		return nil, err
	}
	if err := e.Load(ext); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *project) reloader(e *host.Engine) *dev.Reloader {
	return &dev.Reloader{
		Engine:    e,
		Dir:       p.componentsDir,
		Namespace: p.cfg.Components.Namespace,
		Logger:    p.logger,
	}
}

// loadEngine builds an engine with the built-in namespace and the
// project's markup components, without a backend.
func (p *project) loadEngine() (*host.Engine, error) {
	e, err := p.newEngine(engineOptions{})
	if err != nil {
		return nil, err
	}
	if err := p.reloader(e).Load(); err != nil {
		return nil, err
	}
	return e, nil
}
