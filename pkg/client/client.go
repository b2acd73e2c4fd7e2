// Package client implements the remote-control protocol from the caller's
// side: request/response correlation over one websocket plus a stream of
// server-pushed events.
package client

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
)

const (
	defaultTimeout  = 10 * time.Second
	eventBufferSize = 256
)

var ErrClosed = errors.New("connection closed")

// Client is safe for concurrent Request calls; each request is stamped with
// a fresh message-id and matched to its response by the read pump.
type Client struct {
	conn *websocket.Conn
	send chan *document.Document

	events chan *document.Document
	done   chan struct{}

	mu      sync.Mutex
	pending map[string]chan *document.Document
	closed  bool

	timeout time.Duration
}

func New() *Client {
	return &Client{
		send:    make(chan *document.Document, 64),
		events:  make(chan *document.Document, eventBufferSize),
		done:    make(chan struct{}),
		pending: make(map[string]chan *document.Document),
		timeout: defaultTimeout,
	}
}

// Connect dials the server at host:port and starts the pumps.
func (c *Client) Connect(addr string) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/"}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	return nil
}

// Events returns the stream of server-pushed updates. The channel is closed
// when the connection ends; slow consumers lose events rather than stalling
// the read pump.
func (c *Client) Events() <-chan *document.Document { return c.events }

// Done is closed when the connection ends for any reason.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()

		close(c.done)
		close(c.events)
		if err := c.conn.Close(); err != nil {
			log.Printf("[Client] close error: %v", err)
		}
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Client] read error: %v", err)
			}
			return
		}

		msg, err := document.Parse(raw)
		if err != nil {
			log.Printf("[Client] malformed frame: %v", err)
			continue
		}
		c.route(msg)
	}
}

// route hands responses to their waiting Request call and everything else
// to the event stream.
func (c *Client) route(msg *document.Document) {
	if id := msg.String("message-id"); id != "" {
		c.mu.Lock()
		ch, ok := c.pending[id]
		if ok {
			delete(c.pending, id)
		}
		c.mu.Unlock()

		if ok {
			ch <- msg
			close(ch)
			return
		}
		// response for a request that already timed out
		return
	}

	if msg.Has("update-type") {
		select {
		case c.events <- msg:
		default:
			log.Printf("[Client] event buffer full, dropping %s", msg.String("update-type"))
		}
	}
}

func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg.JSON()); err != nil {
				log.Printf("[Client] write error: %v", err)
				return
			}
		case <-c.done:
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				log.Printf("[Client] failed to close websocket: %v", err)
			}
			return
		}
	}
}

// Request sends one request and blocks for its response. A nil fields
// document sends just the type and id. An error-status response is returned
// as a Go error carrying the server's reason.
func (c *Client) Request(requestType string, fields *document.Document) (*document.Document, error) {
	if fields == nil {
		fields = document.New()
	}
	id := uuid.New().String()
	fields.SetString("request-type", requestType)
	fields.SetString("message-id", id)

	ch := make(chan *document.Document, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	select {
	case c.send <- fields:
	case <-c.done:
		return nil, ErrClosed
	}

	select {
	case response, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if response.String("status") == "error" {
			return response, fmt.Errorf("%s: %s", requestType, response.String("error"))
		}
		return response, nil

	case <-time.After(c.timeout):
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: timed out after %s", requestType, c.timeout)

	case <-c.done:
		return nil, ErrClosed
	}
}

// Authenticate performs the challenge-response handshake. It is a no-op
// when the server has authentication disabled.
func (c *Client) Authenticate(password string) error {
	info, err := c.Request("GetAuthRequired", nil)
	if err != nil {
		return err
	}
	if !info.Bool("authRequired") {
		return nil
	}

	secret := config.GenerateSecret(password, info.String("salt"))
	response := config.GenerateSecret(secret, info.String("challenge"))

	fields := document.New()
	fields.SetString("auth", response)
	if _, err := c.Request("Authenticate", fields); err != nil {
		return err
	}
	return nil
}

// Close tears down the connection; in-flight requests fail with ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	err := c.conn.Close()
	<-c.done
	return err
}
