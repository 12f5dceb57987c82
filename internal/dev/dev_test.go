package dev

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-ext/internal/errors"
	"github.com/vango-dev/vango-ext/pkg/component"
	"github.com/vango-dev/vango-ext/pkg/extensions"
	"github.com/vango-dev/vango-ext/pkg/host"
	"github.com/vango-dev/vango-ext/pkg/render"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestWatcherReportsComponentChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(WatcherConfig{Dir: dir, Debounce: 20 * time.Millisecond, Logger: quiet()})
	require.NoError(t, err)
	changes, err := w.Start()
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "Card.xmlui"), `<Component name="Card"><div/></Component>`)
	waitSignal(t, changes)

	// Files in directories created after Start are seen too.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	time.Sleep(100 * time.Millisecond)
	drain(changes)
	writeFile(t, filepath.Join(dir, "nested", "Card.yaml"), "status: stable\n")
	waitSignal(t, changes)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(WatcherConfig{Dir: dir, Debounce: 20 * time.Millisecond, Logger: quiet()})
	require.NoError(t, err)
	changes, err := w.Start()
	require.NoError(t, err)
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, "Card.xmlui.swp"), "x")

	select {
	case <-changes:
		t.Fatal("irrelevant change reported")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcherMissingDir(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Dir: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	defer w.Stop()
	_, err = w.Start()
	require.Error(t, err)
}

func TestShouldIgnore(t *testing.T) {
	w := &Watcher{config: WatcherConfig{Ignore: []string{".git", "*.swp", "build/out"}}}

	tests := []struct {
		path string
		want bool
	}{
		{"/p/.git", true},
		{"/p/.git/HEAD", true},
		{"/p/Card.xmlui.swp", true},
		{"/p/build/out/Card.xmlui", true},
		{"/p/build/Card.xmlui", false},
		{"/p/Card.xmlui", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, w.shouldIgnore(tt.path), tt.path)
	}
}

func TestReloaderLoad(t *testing.T) {
	dir := t.TempDir()
	e := host.New(host.WithLogger(quiet()))
	r := &Reloader{Engine: e, Dir: dir, Namespace: "Local", Logger: quiet()}

	// Empty directory: nothing loaded.
	require.NoError(t, r.Load())
	require.Empty(t, e.Namespaces())

	writeFile(t, filepath.Join(dir, "Hello.xmlui"), `<Component name="Hello"><p>Hello ${who}</p></Component>`)
	writeFile(t, filepath.Join(dir, "Hello.yaml"), "props:\n  who:\n    type: string\n    default: you\n")
	require.NoError(t, r.Load())
	require.Equal(t, "<p>Hello you</p>", renderHTML(t, e, "Local.Hello"))

	// A broken edit keeps the previous components.
	writeFile(t, filepath.Join(dir, "Hello.xmlui"), `<Component name="Hello"><p>${</p></Component>`)
	require.Error(t, r.Load())
	require.Equal(t, "<p>Hello you</p>", renderHTML(t, e, "Local.Hello"))

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, r.Load())
	_, ok := e.Lookup("Local.Hello")
	require.False(t, ok)
}

func TestReloaderLeavesForeignNamespaceAlone(t *testing.T) {
	e := host.New(host.WithLogger(quiet()))
	builtin, err := extensions.New(extensions.Options{Logger: quiet()})
	require.NoError(t, err)
	require.NoError(t, e.Load(builtin))

	dir := t.TempDir()
	r := &Reloader{Engine: e, Dir: dir, Namespace: extensions.Namespace, Logger: quiet()}

	// Nothing on disk: the built-in namespace stays.
	require.NoError(t, r.Load())
	_, ok := e.Lookup("XMLUIExtensions.Messenger")
	require.True(t, ok)

	// A user component cannot take over the namespace.
	writeFile(t, filepath.Join(dir, "CustomButton.xmlui"), `<Component name="CustomButton"><b>mine</b></Component>`)
	err = r.Load()
	require.True(t, errors.HasCode(err, "E232"), "got %v", err)
	for _, name := range []string{"CustomButton", "StyledText", "Messenger"} {
		_, ok := e.Lookup("XMLUIExtensions." + name)
		require.True(t, ok, name)
	}
	reg, _ := e.Lookup("XMLUIExtensions.CustomButton")
	require.Same(t, builtin.Components()[0], reg)

	// Emptying the directory again does not unload the built-ins.
	require.NoError(t, os.Remove(filepath.Join(dir, "CustomButton.xmlui")))
	require.NoError(t, r.Load())
	require.Len(t, e.Components(), 3)
}

func renderHTML(t *testing.T, e *host.Engine, tag string) string {
	t.Helper()
	node, err := e.Render(context.Background(), tag, component.Props{})
	require.NoError(t, err)
	out, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	require.NoError(t, err)
	return out
}

func dialReload(t *testing.T, rs *ReloadServer) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(rs)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return rs.Clients() == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Event
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer(quiet())
	require.Equal(t, 0, rs.Clients())
	conn := dialReload(t, rs)

	rs.Fail(stderrors.New("boom"))
	require.Equal(t, Event{Type: EventError, Error: "boom"}, readMessage(t, conn))

	rs.Reload()
	require.Equal(t, Event{Type: EventReload}, readMessage(t, conn))

	rs.Close()
	require.Equal(t, 0, rs.Clients())

	// The page sees the connection close.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	// Publishing with no pages connected is a no-op.
	rs.Reload()
}

func TestReloadServerDropsDisconnectedPages(t *testing.T) {
	rs := NewReloadServer(quiet())
	conn := dialReload(t, rs)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return rs.Clients() == 0 }, 3*time.Second, 5*time.Millisecond)
	rs.Reload()
}

func TestReloaderRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Hello.xmlui"), `<Component name="Hello"><p>v1</p></Component>`)

	e := host.New(host.WithLogger(quiet()))
	rs := NewReloadServer(quiet())
	r := &Reloader{Engine: e, Dir: dir, Namespace: "Local", Notifier: rs, Logger: quiet()}
	require.NoError(t, r.Load())
	conn := dialReload(t, rs)

	w, err := NewWatcher(WatcherConfig{Dir: dir, Debounce: 20 * time.Millisecond, Logger: quiet()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, w) }()
	// Let the watcher register the directory.
	time.Sleep(50 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "Hello.xmlui"), `<Component name="Hello"><p>v2</p></Component>`)
	// A reload that caught the file half written reports an error first.
	for {
		if readMessage(t, conn).Type == EventReload {
			break
		}
	}
	require.Equal(t, "<p>v2</p>", renderHTML(t, e, "Local.Hello"))

	cancel()
	require.NoError(t, <-done)
}

func TestClientScript(t *testing.T) {
	require.Contains(t, ClientScript, "WebSocket")
	require.Contains(t, ClientScript, ReloadPath)
	require.Contains(t, ClientScript, "location.reload")
	require.Contains(t, ClientScript, EventError)
}
