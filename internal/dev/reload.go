package dev

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReloadPath is where the preview server mounts the reload endpoint.
const ReloadPath = "/_vangoext/reload"

// Event types sent to preview pages.
const (
	EventReload = "reload"
	EventError  = "error"
)

// Event is one JSON message on the reload endpoint. A page shows the
// error of an error event until the next reload event refreshes it.
type Event struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

const (
	clientQueue  = 4
	writeTimeout = 5 * time.Second
)

// reloadClient is one connected page. Only its writer goroutine writes to
// conn.
type reloadClient struct {
	conn *websocket.Conn
	send chan []byte
}

// ReloadServer pushes reload and error events to connected preview pages.
type ReloadServer struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*reloadClient]struct{}
}

// NewReloadServer creates a reload server. Any origin may connect.
func NewReloadServer(logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger.With("component", "reload"),
		clients: make(map[*reloadClient]struct{}),
	}
}

// ServeHTTP upgrades the request and holds the connection until the page
// goes away. Anything the page sends is discarded.
func (s *ReloadServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Debug("reload upgrade failed", "error", err)
		return
	}

	c := &reloadClient{conn: conn, send: make(chan []byte, clientQueue)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.write()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(c)
}

func (c *reloadClient) write() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// drop unregisters c and stops its writer. Safe to call more than once.
func (s *ReloadServer) drop(c *reloadClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Reload tells every page to refresh.
func (s *ReloadServer) Reload() {
	s.publish(Event{Type: EventReload})
}

// Fail shows err on every page.
func (s *ReloadServer) Fail(err error) {
	s.publish(Event{Type: EventError, Error: err.Error()})
}

// publish queues ev for every client. A client whose queue is full misses
// the event; the next reload brings it up to date.
func (s *ReloadServer) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug("reload client is behind, event dropped", "type", ev.Type)
		}
	}
}

// Clients returns the number of connected pages.
func (s *ReloadServer) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every page.
func (s *ReloadServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// ClientScript is appended to preview pages in watch mode. It reloads the
// page on a reload event, shows a banner on an error event, and reconnects
// once a second after the server goes away.
const ClientScript = `<script>
(function () {
  var url = (location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '` + ReloadPath + `';
  function banner(text) {
    var el = document.getElementById('vangoext-reload-error');
    if (!el) {
      el = document.createElement('pre');
      el.id = 'vangoext-reload-error';
      el.style.cssText = 'position:fixed;left:0;right:0;bottom:0;margin:0;padding:12px;background:#7f1d1d;color:#fff;font:13px monospace;white-space:pre-wrap;z-index:2147483647';
      document.body.appendChild(el);
    }
    el.textContent = text;
  }
  function connect() {
    var ws = new WebSocket(url);
    ws.onmessage = function (e) {
      var ev = JSON.parse(e.data);
      if (ev.type === 'reload') location.reload();
      if (ev.type === 'error') banner(ev.error);
    };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }
  connect();
})();
</script>
`
