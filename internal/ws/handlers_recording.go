package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerRecording() {
	d.register("StartStopRecording", d.handleStartStopRecording)
	d.register("StartRecording", d.handleStartRecording)
	d.register("StopRecording", d.handleStopRecording)
	d.register("SetRecordingFolder", d.handleSetRecordingFolder)
	d.register("GetRecordingFolder", d.handleGetRecordingFolder)
}

func (d *Dispatcher) handleStartStopRecording(s *Session, req *document.Document) *document.Document {
	if d.studio.RecordingActive() {
		if err := d.studio.StopRecording(); err != nil {
			return errorFrom(err)
		}
	} else {
		if err := d.studio.StartRecording(); err != nil {
			return errorFrom(err)
		}
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleStartRecording(s *Session, req *document.Document) *document.Document {
	if err := d.studio.StartRecording(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleStopRecording(s *Session, req *document.Document) *document.Document {
	if err := d.studio.StopRecording(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleSetRecordingFolder(s *Session, req *document.Document) *document.Document {
	if !req.Has("rec-folder") {
		return errorResponse(errMissingParameters)
	}
	folder := req.String("rec-folder")
	if folder == "" {
		return errorResponse(errInvalidParameters)
	}
	d.studio.SetRecordingFolder(folder)
	return okResponse(nil)
}

func (d *Dispatcher) handleGetRecordingFolder(s *Session, req *document.Document) *document.Document {
	response := document.New()
	response.SetString("rec-folder", d.studio.RecordingFolder())
	return okResponse(response)
}
