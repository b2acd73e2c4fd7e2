package ws

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/castsuite/castbridge/internal/document"
)

const sessionSendBufferSize = 256

// Session is the server-side state for one client connection: identity, the
// authenticated flag, and the private outbound queue. It lives exactly as
// long as the underlying websocket connection.
type Session struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	server     *Server
	send       chan *document.Document

	authenticated atomic.Bool

	mu     sync.Mutex
	closed bool
}

func newSession(conn *websocket.Conn, server *Server, id, remoteAddr string) *Session {
	return &Session{
		id:         id,
		remoteAddr: remoteAddr,
		conn:       conn,
		server:     server,
		send:       make(chan *document.Document, sessionSendBufferSize),
	}
}

func (s *Session) ID() string         { return s.id }
func (s *Session) RemoteAddr() string { return s.remoteAddr }

func (s *Session) Authenticated() bool     { return s.authenticated.Load() }
func (s *Session) SetAuthenticated(v bool) { s.authenticated.Store(v) }

// Enqueue appends a document to the session's private outbound queue.
// Documents that cannot be queued because the client stopped reading are
// dropped with the connection.
func (s *Session) Enqueue(doc *document.Document) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	select {
	case s.send <- doc:
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		log.Printf("[Session] %s send queue full; dropping connection", s.remoteAddr)
		go s.server.hub.Unregister(s)
	}
}

func (s *Session) ReadPump() {
	defer func() {
		s.server.hub.Unregister(s)
		if err := s.conn.Close(); err != nil {
			log.Printf("[Session] %s close error: %v", s.remoteAddr, err)
		}
	}()

	for {
		msgType, raw, err := s.conn.ReadMessage()
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			log.Printf("[Session] %s unexpected close: %v", s.remoteAddr, err)
			break
		}
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if response := s.server.dispatcher.HandleFrame(s, raw); response != nil {
			s.Enqueue(response)
		}
	}
}

func (s *Session) WritePump() {
	defer func() {
		if err := s.conn.Close(); err != nil {
			log.Printf("[Session] %s close error: %v", s.remoteAddr, err)
		}
	}()

	for doc := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, doc.JSON()); err != nil {
			log.Printf("[Session] %s write error: %v", s.remoteAddr, err)
			return
		}
	}
	if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		log.Printf("[Session] %s failed to close websocket: %v", s.remoteAddr, err)
	}
}

// CloseSend ends the write pump; any queued-but-unsent documents are
// discarded with the channel.
func (s *Session) CloseSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}
