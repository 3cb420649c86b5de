// Package server exposes the table to spectators over HTTP: a JSON state
// endpoint and a WebSocket feed of table events.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"pokerarena/internal/arena"
	"pokerarena/internal/game"
)

// GameSource is what the server watches: the arena satisfies it
type GameSource interface {
	Snapshot() game.GameState
	Events() <-chan arena.Event
}

// Server serves spectator traffic for one table
type Server struct {
	addr     string
	source   GameSource
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New creates a spectator server for the given source
func New(addr string, source GameSource, logger *log.Logger) *Server {
	return &Server{
		addr:   addr,
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger.WithPrefix("server"),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Router returns the HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

// Run serves until the context is cancelled or the arena's event stream
// closes. Events are fanned out to every connected WebSocket client.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		s.broadcastLoop(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		s.logger.Error("encode state", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	// Send the current state before registering the client, so the initial
	// write cannot interleave with a broadcast.
	s.writeMessage(conn, wireEvent{Type: "state", State: s.source.Snapshot()})

	s.mu.Lock()
	s.clients[conn] = true
	count := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("spectator connected", "clients", count)

	// Spectators never send anything meaningful; reads only detect closes.
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// wireEvent is the JSON envelope sent to spectators
type wireEvent struct {
	Type   string             `json:"type"`
	State  game.GameState     `json:"state"`
	Action *game.PlayerAction `json:"action,omitempty"`
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.source.Events():
			if !ok {
				return
			}
			s.broadcast(wireEvent{
				Type:   event.Type.String(),
				State:  event.State,
				Action: event.Action,
			})
		}
	}
}

func (s *Server) broadcast(event wireEvent) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		s.writeMessage(conn, event)
	}
}

func (s *Server) writeMessage(conn *websocket.Conn, event wireEvent) {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(event); err != nil {
		s.logger.Warn("spectator write failed, dropping", "error", err)
		s.removeClient(conn)
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close()
	}
	s.mu.Unlock()
}
