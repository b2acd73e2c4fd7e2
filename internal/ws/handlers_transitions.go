package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerTransitions() {
	d.register("GetTransitionList", d.handleGetTransitionList)
	d.register("GetCurrentTransition", d.handleGetCurrentTransition)
	d.register("SetCurrentTransition", d.handleSetCurrentTransition)
	d.register("SetTransitionDuration", d.handleSetTransitionDuration)
	d.register("GetTransitionDuration", d.handleGetTransitionDuration)
}

func (d *Dispatcher) handleGetTransitionList(s *Session, req *document.Document) *document.Document {
	current, all := d.studio.Transitions()

	transitions := make([]*document.Document, len(all))
	for i, name := range all {
		doc := document.New()
		doc.SetString("name", name)
		transitions[i] = doc
	}

	response := document.New()
	response.SetString("current-transition", current)
	response.SetArray("transitions", transitions)
	return okResponse(response)
}

func (d *Dispatcher) handleGetCurrentTransition(s *Session, req *document.Document) *document.Document {
	current, _ := d.studio.Transitions()

	response := document.New()
	response.SetString("name", current)
	response.SetInt("duration", d.studio.TransitionDuration())
	return okResponse(response)
}

func (d *Dispatcher) handleSetCurrentTransition(s *Session, req *document.Document) *document.Document {
	if !req.Has("transition-name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetCurrentTransition(req.String("transition-name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleSetTransitionDuration(s *Session, req *document.Document) *document.Document {
	if !req.Has("duration") {
		return errorResponse(errMissingParameters)
	}
	d.studio.SetTransitionDuration(req.Int("duration"))
	return okResponse(nil)
}

func (d *Dispatcher) handleGetTransitionDuration(s *Session, req *document.Document) *document.Document {
	response := document.New()
	response.SetInt("transition-duration", d.studio.TransitionDuration())
	return okResponse(response)
}
