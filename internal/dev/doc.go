// Package dev provides hot reload of user markup components for the
// preview server.
//
// The pieces are:
//
//   - Watcher: reports changes to component files, using fsnotify
//   - Reloader: rebuilds the component namespace and swaps it into the
//     engine
//   - ReloadServer: tells connected browsers to refresh over WebSocket
//
// # Usage
//
//	notifier := dev.NewReloadServer(logger)
//	r := &dev.Reloader{Engine: engine, Dir: "components", Namespace: "Local", Notifier: notifier}
//	if err := r.Load(); err != nil {
//	    return err
//	}
//	w, err := dev.NewWatcher(dev.WatcherConfig{Dir: "components"})
//	if err != nil {
//	    return err
//	}
//	go r.Run(ctx, w)
//
// # Hot Reload Protocol
//
// The browser connects to /_vangoext/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // refresh the page
//	{"type": "error", "error": "..."} // show the error until the next reload
package dev
