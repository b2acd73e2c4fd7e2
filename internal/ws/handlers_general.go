package ws

import (
	"sort"
	"strings"

	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

func (d *Dispatcher) registerGeneral() {
	d.register("GetVersion", d.handleGetVersion)
	d.register("GetAuthRequired", d.handleGetAuthRequired)
	d.register("Authenticate", d.handleAuthenticate)
	d.register("SetHeartbeat", d.handleSetHeartbeat)
	d.register("SetFilenameFormatting", d.handleSetFilenameFormatting)
	d.register("GetFilenameFormatting", d.handleGetFilenameFormatting)
}

// handleGetVersion reports the protocol version and the full list of
// available request types.
func (d *Dispatcher) handleGetVersion(s *Session, req *document.Document) *document.Document {
	requests := d.RequestTypes()
	sort.Strings(requests)

	response := document.New()
	response.SetFloat("version", APIVersion)
	response.SetString("castbridge-version", studio.Version)
	response.SetString("available-requests", strings.Join(requests, ","))
	return okResponse(response)
}

// handleGetAuthRequired tells the client whether authentication is needed
// and, if so, hands out the challenge and salt for the handshake. The
// challenge and salt keys are absent entirely when auth is off.
func (d *Dispatcher) handleGetAuthRequired(s *Session, req *document.Document) *document.Document {
	authRequired := d.cfg.AuthRequired()

	response := document.New()
	response.SetBool("authRequired", authRequired)
	if authRequired {
		response.SetString("challenge", d.cfg.SessionChallenge())
		response.SetString("salt", d.cfg.Salt())
	}
	return okResponse(response)
}

func (d *Dispatcher) handleAuthenticate(s *Session, req *document.Document) *document.Document {
	if !req.Has("auth") {
		return errorResponse(errMissingParameters)
	}
	auth := req.String("auth")
	if auth == "" {
		return errorResponse("auth not specified!")
	}

	if !d.cfg.CheckAuth(auth) {
		return errorResponse(errAuthFailed)
	}
	s.SetAuthenticated(true)
	return okResponse(nil)
}

func (d *Dispatcher) handleSetHeartbeat(s *Session, req *document.Document) *document.Document {
	if !req.Has("enable") {
		return errorResponse("Heartbeat <enable> parameter missing")
	}
	d.events.SetHeartbeat(req.Bool("enable"))

	response := document.New()
	response.SetBool("enable", d.events.HeartbeatActive())
	return okResponse(response)
}

func (d *Dispatcher) handleSetFilenameFormatting(s *Session, req *document.Document) *document.Document {
	if !req.Has("filename-formatting") {
		return errorResponse("<filename-formatting> parameter missing")
	}
	format := req.String("filename-formatting")
	if format == "" {
		return errorResponse(errInvalidParameters)
	}
	d.studio.SetFilenameFormatting(format)
	return okResponse(nil)
}

func (d *Dispatcher) handleGetFilenameFormatting(s *Session, req *document.Document) *document.Document {
	response := document.New()
	response.SetString("filename-formatting", d.studio.FilenameFormatting())
	return okResponse(response)
}
