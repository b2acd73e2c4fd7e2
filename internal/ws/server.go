package ws

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/studio"
)

// Server ties the hub, the request dispatcher and the event broadcaster to
// one listening socket. Start and Stop are idempotent so the enable toggle
// in settings can flip freely.
type Server struct {
	cfg        *config.Config
	dispatcher *Dispatcher
	hub        *Hub
	events     *Broadcaster

	mu       sync.Mutex
	running  bool
	listener net.Listener
	httpSrv  *http.Server
}

func NewServer(cfg *config.Config, st *studio.Studio) *Server {
	s := &Server{cfg: cfg}
	s.hub = NewHub(cfg)
	s.events = NewBroadcaster(cfg, st, s.hub)
	s.dispatcher = NewDispatcher(cfg, st, s.events)
	return s
}

// Start binds the listening socket and begins accepting clients. Passing
// port 0 picks a free port, which tests rely on.
func (s *Server) Start(port uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveWS)
	s.httpSrv = &http.Server{Handler: mux}
	s.listener = listener
	s.running = true

	go s.hub.Run()
	s.events.Start()

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("[Server] serve error: %v", err)
		}
	}()

	log.Printf("[Server] listening on %s", listener.Addr())
	return nil
}

// Stop closes the socket and tears down every connected session. Queued
// events are delivered before the hub goroutine exits.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	s.events.Stop()
	s.hub.Stop()
	if err := s.httpSrv.Close(); err != nil {
		log.Printf("[Server] close error: %v", err)
	}
	log.Printf("[Server] stopped")
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Broadcaster exposes the event broadcaster, mainly so callers can emit
// status updates outside the request path.
func (s *Server) Broadcaster() *Broadcaster { return s.events }

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Server] websocket upgrade failed: %v", err)
		return
	}

	session := newSession(conn, s, uuid.New().String(), r.RemoteAddr)
	s.hub.Register(session)

	go session.WritePump()
	go session.ReadPump()
}
