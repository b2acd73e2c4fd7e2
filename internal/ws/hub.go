package ws

import (
	"log"
	"sync"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
)

const broadcastBufferSize = 256

// Hub owns the shared broadcast queue: events are pushed from arbitrary
// producer goroutines and fanned out to every connected session by the
// single hub goroutine. An event is delivered to exactly the sessions
// registered at fan-out time.
type Hub struct {
	cfg      *config.Config
	sessions map[*Session]struct{}

	register   chan *Session
	unregister chan *Session
	events     chan *document.Document
	done       chan struct{}

	stopped chan struct{}

	mu sync.RWMutex
}

func NewHub(cfg *config.Config) *Hub {
	return &Hub{
		cfg:        cfg,
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		events:     make(chan *document.Document, broadcastBufferSize),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)

	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session] = struct{}{}
			total := len(h.sessions)
			h.mu.Unlock()
			log.Printf("[Hub] client %s connected (%d total)", session.RemoteAddr(), total)

		case session := <-h.unregister:
			h.dropSession(session)

		case event := <-h.events:
			h.fanOut(event)

		case <-h.done:
			// deliver whatever was already queued before shutting down
			for {
				select {
				case event := <-h.events:
					h.fanOut(event)
				default:
					h.closeAll()
					return
				}
			}
		}
	}
}

func (h *Hub) dropSession(session *Session) {
	h.mu.Lock()
	_, ok := h.sessions[session]
	if ok {
		delete(h.sessions, session)
	}
	remaining := len(h.sessions)
	h.mu.Unlock()

	if ok {
		session.CloseSend()
		log.Printf("[Hub] client %s disconnected (%d remaining)", session.RemoteAddr(), remaining)
	}
}

// fanOut appends the event to every connected session's private queue.
// Sessions that are unauthenticated while auth is required never see
// events.
func (h *Hub) fanOut(event *document.Document) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for session := range h.sessions {
		if h.cfg.AuthRequired() && !session.Authenticated() {
			continue
		}
		targets = append(targets, session)
	}
	h.mu.RUnlock()

	for _, session := range targets {
		session.Enqueue(event)
	}
}

// Public API; Register/Unregister/Broadcast may be called from any
// goroutine.

func (h *Hub) Register(session *Session) {
	select {
	case h.register <- session:
	case <-h.stopped:
	}
}

func (h *Hub) Unregister(session *Session) {
	select {
	case h.unregister <- session:
	case <-h.stopped:
		h.dropSession(session)
	}
}

// Broadcast appends an event to the shared queue. Events pushed after Stop
// are discarded.
func (h *Hub) Broadcast(event *document.Document) {
	select {
	case h.events <- event:
	case <-h.stopped:
	}
}

// SessionCount reports the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Stop drains queued events and terminates the hub goroutine.
func (h *Hub) Stop() {
	close(h.done)
	<-h.stopped
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.sessions = make(map[*Session]struct{})
	h.mu.Unlock()

	for _, session := range sessions {
		session.CloseSend()
	}
}
