package ws

import (
	"log"

	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

func (d *Dispatcher) registerStreaming() {
	d.register("GetStreamingStatus", d.handleGetStreamingStatus)
	d.register("StartStopStreaming", d.handleStartStopStreaming)
	d.register("StartStreaming", d.handleStartStreaming)
	d.register("StopStreaming", d.handleStopStreaming)
	d.register("SetStreamSettings", d.handleSetStreamSettings)
	d.register("GetStreamSettings", d.handleGetStreamSettings)
	d.register("SaveStreamSettings", d.handleSaveStreamSettings)
}

func (d *Dispatcher) handleGetStreamingStatus(s *Session, req *document.Document) *document.Document {
	streaming := d.studio.StreamingActive()
	recording := d.studio.RecordingActive()

	response := document.New()
	response.SetBool("streaming", streaming)
	response.SetBool("recording", recording)
	response.SetBool("preview-only", false)

	if streaming {
		response.SetString("stream-timecode", d.events.StreamTimecode())
	}
	if recording {
		response.SetString("rec-timecode", d.events.RecTimecode())
	}
	return okResponse(response)
}

func (d *Dispatcher) handleStartStopStreaming(s *Session, req *document.Document) *document.Document {
	if d.studio.StreamingActive() {
		return d.handleStopStreaming(s, req)
	}
	return d.handleStartStreaming(s, req)
}

// handleStartStreaming optionally applies one-shot stream settings before
// starting; they are not persisted.
func (d *Dispatcher) handleStartStreaming(s *Session, req *document.Document) *document.Document {
	if d.studio.StreamingActive() {
		return errorFrom(studio.ErrStreamingActive)
	}

	if stream := req.Doc("stream"); stream != nil {
		d.studio.SetStreamSettings(stream.String("type"), stream.Doc("settings"))
	}

	if err := d.studio.StartStreaming(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleStopStreaming(s *Session, req *document.Document) *document.Document {
	if err := d.studio.StopStreaming(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleSetStreamSettings(s *Session, req *document.Document) *document.Document {
	settings := req.Doc("settings")
	if settings == nil {
		return errorResponse("'settings' are required")
	}

	serviceType, merged := d.studio.SetStreamSettings(req.String("type"), settings)
	if req.Bool("save") {
		d.saveConfig()
	}

	response := document.New()
	response.SetString("type", serviceType)
	response.SetDoc("settings", merged)
	return okResponse(response)
}

func (d *Dispatcher) handleGetStreamSettings(s *Session, req *document.Document) *document.Document {
	serviceType, settings := d.studio.StreamSettings()

	response := document.New()
	response.SetString("type", serviceType)
	response.SetDoc("settings", settings)
	return okResponse(response)
}

func (d *Dispatcher) handleSaveStreamSettings(s *Session, req *document.Document) *document.Document {
	d.saveConfig()
	return okResponse(nil)
}

// saveConfig persists settings on demand; failure is logged, never fatal
// and never surfaced to remote clients.
func (d *Dispatcher) saveConfig() {
	if err := d.cfg.Save(); err != nil {
		log.Printf("[Dispatcher] config save failed: %v", err)
	}
}
