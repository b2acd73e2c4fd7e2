package ws

import (
	"fmt"
	"log"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

// HandlerFunc implements one request type. It reads named fields from the
// request document and returns an ok or error response; it must not block
// for unbounded time, since it runs synchronously in the dispatch path.
type HandlerFunc func(*Session, *document.Document) *document.Document

// Dispatcher maps request-type names to handlers and enforces the
// authentication gate. The registry is built once at startup and read-only
// afterwards, so dispatch is safe for concurrent sessions.
type Dispatcher struct {
	cfg    *config.Config
	studio *studio.Studio
	events *Broadcaster

	registry   map[string]HandlerFunc
	authExempt map[string]struct{}
}

func NewDispatcher(cfg *config.Config, st *studio.Studio, events *Broadcaster) *Dispatcher {
	d := &Dispatcher{
		cfg:        cfg,
		studio:     st,
		events:     events,
		registry:   make(map[string]HandlerFunc),
		authExempt: make(map[string]struct{}),
	}

	for _, name := range []string{"GetVersion", "GetAuthRequired", "Authenticate"} {
		d.authExempt[name] = struct{}{}
	}

	d.registerGeneral()
	d.registerScenes()
	d.registerSources()
	d.registerStreaming()
	d.registerRecording()
	d.registerReplayBuffer()
	d.registerStudioMode()
	d.registerTransitions()
	d.registerProfiles()

	return d
}

func (d *Dispatcher) register(name string, fn HandlerFunc) {
	if _, exists := d.registry[name]; exists {
		panic(fmt.Sprintf("duplicate request type registered: %s", name))
	}
	d.registry[name] = fn
}

// RequestTypes returns every registered request-type name.
func (d *Dispatcher) RequestTypes() []string {
	names := make([]string, 0, len(d.registry))
	for name := range d.registry {
		names = append(names, name)
	}
	return names
}

// HandleFrame decodes one inbound frame, authenticates, dispatches, and
// returns the response document stamped with the request's message-id.
func (d *Dispatcher) HandleFrame(s *Session, raw []byte) *document.Document {
	request, err := document.Parse(raw)
	if err != nil {
		log.Printf("[Dispatcher] invalid JSON payload from %s", s.RemoteAddr())
		return errorResponse(errInvalidPayload)
	}

	requestType := request.String(KeyRequestType)
	messageID := request.String(KeyMessageID)
	if requestType == "" || messageID == "" {
		// the response cannot be correlated without a message-id
		return errorResponse(errMissingType)
	}

	if d.cfg.DebugEnabled() {
		log.Printf("[Dispatcher] request >> %s", raw)
	}

	handler, known := d.registry[requestType]
	if !known {
		response := errorResponse(errUnknownType)
		response.SetString(KeyMessageID, messageID)
		return response
	}

	var response *document.Document
	if !d.cfg.AuthRequired() || s.Authenticated() || d.isAuthExempt(requestType) {
		response = handler(s, request)
	} else {
		response = errorResponse(errNotAuthenticated)
	}

	if response == nil {
		// a handler returning nothing is a bug in the handler
		log.Printf("[Dispatcher] handler for %q returned no response", requestType)
		response = errorResponse(errNoResponse)
	}

	response.SetString(KeyMessageID, messageID)
	return response
}

func (d *Dispatcher) isAuthExempt(requestType string) bool {
	_, ok := d.authExempt[requestType]
	return ok
}

// okResponse wraps handler payload fields with status "ok".
func okResponse(fields *document.Document) *document.Document {
	if fields == nil {
		fields = document.New()
	}
	fields.SetString(KeyStatus, StatusOK)
	return fields
}

func errorResponse(reason string) *document.Document {
	response := document.New()
	response.SetString(KeyStatus, StatusError)
	response.SetString(KeyError, reason)
	return response
}

// errorFrom maps a studio error to a protocol error response.
func errorFrom(err error) *document.Document {
	return errorResponse(err.Error())
}
