package bridge

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-ext/internal/errors"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func startServer(t *testing.T, funcs Funcs) (*Server, string) {
	t.Helper()
	srv := NewServer(funcs, ServerConfig{Logger: quiet()})
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), url, ClientConfig{Logger: quiet()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientServerRoundTrip(t *testing.T) {
	_, url := startServer(t, greetFuncs())
	c := dial(t, url)

	require.ElementsMatch(t, []string{"Greet", "Fail"}, c.Actions())
	require.True(t, c.Available("Greet"))
	require.False(t, c.Available("Missing"))

	res, err := c.Call(context.Background(), "Greet", "World")
	require.NoError(t, err)
	require.Equal(t, "Hello World", res)
}

func TestClientConcurrentCalls(t *testing.T) {
	_, url := startServer(t, greetFuncs())
	c := dial(t, url)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	results := make(chan string, len(names))
	for _, n := range names {
		go func(n string) {
			res, err := c.Call(context.Background(), "Greet", n)
			if err != nil {
				results <- "error: " + err.Error()
				return
			}
			results <- res.(string)
		}(n)
	}

	var got []string
	for range names {
		got = append(got, <-results)
	}
	want := make([]string, len(names))
	for i, n := range names {
		want[i] = "Hello " + n
	}
	require.ElementsMatch(t, want, got)
}

func TestClientActionError(t *testing.T) {
	_, url := startServer(t, greetFuncs())
	c := dial(t, url)

	_, err := c.Call(context.Background(), "Fail")
	require.True(t, errors.HasCode(err, "E241"), "got %v", err)
	require.Contains(t, err.Error(), "database offline")
	require.False(t, IsUnavailable(err))
}

func TestClientUnknownActionIsUnavailable(t *testing.T) {
	_, url := startServer(t, greetFuncs())
	c := dial(t, url)

	_, err := c.Call(context.Background(), "Missing")
	require.True(t, IsUnavailable(err))
}

func TestClientServerGone(t *testing.T) {
	block := make(chan struct{})
	srv, url := startServer(t, Funcs{
		"Block": func(ctx context.Context, args []any) (any, error) {
			<-block
			return nil, nil
		},
	})
	defer close(block)
	c := dial(t, url)
	require.Eventually(t, func() bool { return srv.ConnCount() == 1 }, time.Second, 5*time.Millisecond)

	errc := make(chan error, 1)
	go func() {
		_, err := c.Call(context.Background(), "Block")
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	srv.Close()

	select {
	case err := <-errc:
		require.True(t, IsUnavailable(err), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not failed after disconnect")
	}

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("client not marked done")
	}
	require.False(t, c.Available("Block"))
}

func TestClientCallContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	_, url := startServer(t, Funcs{
		"Block": func(ctx context.Context, args []any) (any, error) {
			select {
			case <-block:
			case <-ctx.Done():
			}
			return nil, nil
		},
	})
	c := dial(t, url)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Call(ctx, "Block")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDialFailures(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/none", ClientConfig{HandshakeTimeout: 200 * time.Millisecond})
	require.True(t, errors.HasCode(err, "E240"), "got %v", err)

	// A peer that never sends a hello frame.
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(frame{Type: frameResult})
		time.Sleep(100 * time.Millisecond)
	}))
	defer ts.Close()

	_, err = Dial(context.Background(), "ws"+strings.TrimPrefix(ts.URL, "http"), ClientConfig{HandshakeTimeout: time.Second})
	require.True(t, errors.HasCode(err, "E242"), "got %v", err)
}

func TestServerMalformedFrames(t *testing.T) {
	_, url := startServer(t, greetFuncs())

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello frame
	require.NoError(t, conn.ReadJSON(&hello))
	require.Equal(t, frameHello, hello.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus","id":"1"}`)))
	var resp frame
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "1", resp.ID)
	require.Equal(t, "E242", resp.Code)

	require.NoError(t, conn.WriteJSON(frame{Type: frameCall, ID: "2", Action: "Missing"}))
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "2", resp.ID)
	require.Equal(t, "E240", resp.Code)
}
