package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// ClientConfig configures a bridge client.
type ClientConfig struct {
	// HandshakeTimeout bounds the dial and the wait for the hello frame.
	HandshakeTimeout time.Duration

	Header http.Header
	Logger *slog.Logger
}

// Client calls actions on a remote Server.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan frame
	actions map[string]bool
	closed  bool
	done    chan struct{}
}

// Dial connects to a bridge server at url (ws:// or wss://) and waits for
// its hello frame.
func Dial(ctx context.Context, url string, cfg ClientConfig) (*Client, error) {
	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, url, cfg.Header)
	if err != nil {
		return nil, errors.New("E240").WithDetail(url).Wrap(err)
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	var hello frame
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != frameHello {
		conn.Close()
		if err == nil {
			return nil, errors.New("E242").WithDetailf("expected hello frame, got %q", hello.Type)
		}
		return nil, errors.New("E242").WithDetail("reading hello frame").Wrap(err)
	}
	conn.SetReadDeadline(time.Time{})

	c := &Client{
		conn:    conn,
		logger:  logger.With("component", "bridge", "url", url),
		pending: make(map[string]chan frame),
		actions: make(map[string]bool, len(hello.Actions)),
		done:    make(chan struct{}),
	}
	for _, a := range hello.Actions {
		c.actions[a] = true
	}

	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer c.shutdown()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Debug("bridge read ended", "error", err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.logger.Warn("bridge protocol error", "error", err)
			continue
		}

		switch f.Type {
		case frameHello:
			c.mu.Lock()
			c.actions = make(map[string]bool, len(f.Actions))
			for _, a := range f.Actions {
				c.actions[a] = true
			}
			c.mu.Unlock()

		case frameResult:
			c.mu.Lock()
			ch, ok := c.pending[f.ID]
			delete(c.pending, f.ID)
			c.mu.Unlock()
			if ok {
				ch <- f
			}
		}
	}
}

// shutdown marks the client closed and fails every pending call.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.conn.Close()
}

// Available implements Prober. It reports whether the connection is up and
// the server advertised the action.
func (c *Client) Available(action string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.actions[action]
}

// Actions returns the actions the server advertised.
func (c *Client) Actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.actions))
	for a := range c.actions {
		out = append(out, a)
	}
	return out
}

// Call implements Caller.
func (c *Client) Call(ctx context.Context, action string, args ...any) (any, error) {
	id := uuid.NewString()
	ch := make(chan frame, 1)

	c.mu.Lock()
	if c.closed || !c.actions[action] {
		c.mu.Unlock()
		return nil, unavailable(action)
	}
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(frame{Type: frameCall, ID: id, Action: action, Args: args})
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		c.logger.Warn("bridge write failed", "action", action, "error", err)
		return nil, unavailable(action)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, unavailable(action)
		}
		if resp.Error != "" {
			if resp.Code == "E240" {
				return nil, unavailable(action)
			}
			return nil, actionFailed(action, resp.Error)
		}
		return resp.Result, nil

	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close closes the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	c.shutdown()
	return nil
}
