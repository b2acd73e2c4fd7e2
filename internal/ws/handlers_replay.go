package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerReplayBuffer() {
	d.register("StartStopReplayBuffer", d.handleStartStopReplayBuffer)
	d.register("StartReplayBuffer", d.handleStartReplayBuffer)
	d.register("StopReplayBuffer", d.handleStopReplayBuffer)
	d.register("SaveReplayBuffer", d.handleSaveReplayBuffer)
}

func (d *Dispatcher) handleStartStopReplayBuffer(s *Session, req *document.Document) *document.Document {
	if d.studio.ReplayActive() {
		if err := d.studio.StopReplayBuffer(); err != nil {
			return errorFrom(err)
		}
	} else {
		if err := d.studio.StartReplayBuffer(); err != nil {
			return errorFrom(err)
		}
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleStartReplayBuffer(s *Session, req *document.Document) *document.Document {
	if err := d.studio.StartReplayBuffer(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleStopReplayBuffer(s *Session, req *document.Document) *document.Document {
	if err := d.studio.StopReplayBuffer(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleSaveReplayBuffer(s *Session, req *document.Document) *document.Document {
	if err := d.studio.SaveReplayBuffer(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}
