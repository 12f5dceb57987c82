package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-ext/internal/backend"
	"github.com/vango-dev/vango-ext/internal/dev"
	"github.com/vango-dev/vango-ext/internal/preview"
	"github.com/vango-dev/vango-ext/pkg/bridge"
	"github.com/vango-dev/vango-ext/pkg/extensions"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/middleware"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		port     int
		bindHost string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the preview server.

The server lists the component catalog, renders component previews, exposes
Prometheus metrics and, unless the bridge is disabled or points at a remote
server, serves the Greet backend over the bridge WebSocket at /bridge.

With --watch, markup components are reloaded when their files change and
open preview pages refresh.

Examples:
  vangoext serve
  vangoext serve --port=8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				p.cfg.Server.Port = port
			}
			if bindHost != "" {
				p.cfg.Server.Host = bindHost
			}
			if watch {
				p.cfg.Server.Watch = true
			}
			if err := p.cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, p)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from vangoext.json)")
	cmd.Flags().StringVarP(&bindHost, "host", "H", "", "Host to bind to (default from vangoext.json)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload components when their files change")

	return cmd
}

func runServe(cmd *cobra.Command, p *project) error {
	ctx := cmd.Context()

	app, err := newPreviewApp(ctx, p)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              p.cfg.Addr(),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	out := cmd.OutOrStdout()
	success(out, "Serving %d components at %s", len(app.engine.Components()), p.cfg.URL())
	if p.cfg.Server.Watch {
		info(out, "Watching %s", p.componentsDir)
	}

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// previewApp is everything serve runs behind its HTTP server.
type previewApp struct {
	engine  *host.Engine
	handler http.Handler
	closers []func()
}

// Close releases the bridge and reload connections.
func (a *previewApp) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newPreviewApp wires the engine, bridge, metrics and reload support into
// the preview handler. Watching stops when ctx is done.
func newPreviewApp(ctx context.Context, p *project) (*previewApp, error) {
	app := &previewApp{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))

	caller, bridgeHandler, err := app.connectBridge(ctx, p)
	if err != nil {
		app.Close()
		return nil, err
	}
	if caller != nil {
		caller = metrics.Caller(middleware.TraceCaller(caller))
	}

	engine, err := p.newEngine(engineOptions{
		caller: caller,
		middleware: []host.Middleware{
			middleware.OpenTelemetry(middleware.WithTracerName("vangoext")),
			metrics.Renders(),
		},
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.engine = engine

	reloader := p.reloader(engine)
	if err := reloader.Load(); err != nil {
		if !p.cfg.Server.Watch {
			app.Close()
			return nil, err
		}
		// Watch mode starts anyway so the error can be fixed in place.
		p.logger.Error("loading components failed", "dir", p.componentsDir, "error", err)
	}

	cfg := preview.Config{
		Engine:         engine,
		Gatherer:       reg,
		Bridge:         bridgeHandler,
		AllowedOrigins: p.cfg.Server.AllowedOrigins,
		Stylesheets:    []string{extensions.Stylesheet()},
		Logger:         p.logger,
	}

	if p.cfg.Server.Watch {
		rs := dev.NewReloadServer(p.logger)
		app.closers = append(app.closers, rs.Close)
		cfg.Reload = rs
		cfg.ReloadPath = dev.ReloadPath
		cfg.ReloadScript = dev.ClientScript

		w, err := dev.NewWatcher(dev.WatcherConfig{Dir: p.componentsDir, Logger: p.logger})
		if err != nil {
			app.Close()
			return nil, err
		}
		reloader.Notifier = rs
		go func() {
			if err := reloader.Run(ctx, w); err != nil {
				p.logger.Warn("component watch stopped", "dir", p.componentsDir, "error", err)
			}
		}()
	}

	app.handler = preview.New(cfg)
	return app, nil
}

// connectBridge returns the caller components use and, for the in-process
// backend, the handler that serves it to other processes. A remote bridge
// that cannot be reached leaves components on their fallbacks.
func (a *previewApp) connectBridge(ctx context.Context, p *project) (bridge.Caller, http.Handler, error) {
	bc := p.cfg.Bridge
	switch {
	case bc.Disabled:
		return nil, nil, nil

	case bc.URL != "":
		client, err := bridge.Dial(ctx, bc.URL, bridge.ClientConfig{
			HandshakeTimeout: bc.Timeout,
			Logger:           p.logger,
		})
		if err != nil {
			p.logger.Warn("bridge unavailable", "url", bc.URL, "error", err)
			return nil, nil, nil
		}
		a.closers = append(a.closers, func() { client.Close() })
		return client, nil, nil

	default:
		funcs := backend.Funcs()
		srv := bridge.NewServer(funcs, bridge.ServerConfig{
			CheckOrigin: originChecker(p.cfg.Server.AllowedOrigins),
			Logger:      p.logger,
		})
		a.closers = append(a.closers, srv.Close)
		return funcs, srv, nil
	}
}

// originChecker accepts requests without an Origin header and those from
// an allowed origin. No allowed origins accepts everything.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
