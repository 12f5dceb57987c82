package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/vango-ext/internal/errors"
)

// ServerConfig configures a bridge server.
type ServerConfig struct {
	// CheckOrigin validates the Origin header of upgrade requests.
	// Nil allows all origins.
	CheckOrigin func(r *http.Request) bool

	Logger *slog.Logger
}

// Server exposes actions over WebSocket.
type Server struct {
	actions  Funcs
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a server for actions.
func NewServer(actions Funcs, cfg ServerConfig) *Server {
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		actions: actions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With("component", "bridge"),
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and serves calls until the peer
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("bridge upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	send := func(f frame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(f); err != nil {
			s.logger.Debug("bridge write failed", "error", err)
		}
	}

	send(frame{Type: frameHello, Actions: s.actions.Actions()})

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("bridge connection closed", "error", err)
			}
			cancel()
			return
		}

		var req frame
		if err := json.Unmarshal(data, &req); err != nil || req.Type != frameCall || req.ID == "" {
			s.logger.Warn("bridge protocol error", "error", err, "type", req.Type)
			if req.ID != "" {
				send(frame{Type: frameResult, ID: req.ID, Error: "malformed call", Code: "E242"})
			}
			continue
		}

		wg.Add(1)
		go func(req frame) {
			defer wg.Done()
			send(s.handle(ctx, req))
		}(req)
	}
}

func (s *Server) handle(ctx context.Context, req frame) frame {
	resp := frame{Type: frameResult, ID: req.ID}

	result, err := Invoke(ctx, s.actions, req.Action, req.Args...)
	if err != nil {
		resp.Error = err.Error()
		resp.Code = errors.CodeOf(err)
		if resp.Code == "" {
			resp.Code = "E241"
		}
		s.logger.Info("bridge action failed", "action", req.Action, "error", err)
		return resp
	}

	resp.Result = result
	return resp
}

// ConnCount returns the number of connected peers.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close disconnects every peer.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}
