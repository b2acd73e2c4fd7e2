package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerStudioMode() {
	d.register("GetStudioModeStatus", d.handleGetStudioModeStatus)
	d.register("GetPreviewScene", d.handleGetPreviewScene)
	d.register("SetPreviewScene", d.handleSetPreviewScene)
	d.register("TransitionToProgram", d.handleTransitionToProgram)
	d.register("EnableStudioMode", d.handleEnableStudioMode)
	d.register("DisableStudioMode", d.handleDisableStudioMode)
	d.register("ToggleStudioMode", d.handleToggleStudioMode)
}

func (d *Dispatcher) handleGetStudioModeStatus(s *Session, req *document.Document) *document.Document {
	response := document.New()
	response.SetBool("studio-mode", d.studio.StudioModeEnabled())
	return okResponse(response)
}

func (d *Dispatcher) handleGetPreviewScene(s *Session, req *document.Document) *document.Document {
	scene, err := d.studio.PreviewScene()
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("name", scene.Name)
	response.SetArray("sources", sceneItemDocs(scene.Items))
	return okResponse(response)
}

func (d *Dispatcher) handleSetPreviewScene(s *Session, req *document.Document) *document.Document {
	if !req.Has("scene-name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetPreviewScene(req.String("scene-name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

// handleTransitionToProgram optionally changes the active transition and
// its duration before transitioning the preview scene to program.
func (d *Dispatcher) handleTransitionToProgram(s *Session, req *document.Document) *document.Document {
	if withTransition := req.Doc("with-transition"); withTransition != nil {
		if withTransition.Has("name") {
			name := withTransition.String("name")
			if name == "" {
				return errorResponse(errInvalidParameters)
			}
			if err := d.studio.SetCurrentTransition(name); err != nil {
				return errorFrom(err)
			}
		}
		if withTransition.Has("duration") {
			d.studio.SetTransitionDuration(withTransition.Int("duration"))
		}
	}

	if err := d.studio.TransitionToProgram(); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleEnableStudioMode(s *Session, req *document.Document) *document.Document {
	d.studio.SetStudioMode(true)
	return okResponse(nil)
}

func (d *Dispatcher) handleDisableStudioMode(s *Session, req *document.Document) *document.Document {
	d.studio.SetStudioMode(false)
	return okResponse(nil)
}

func (d *Dispatcher) handleToggleStudioMode(s *Session, req *document.Document) *document.Document {
	d.studio.ToggleStudioMode()
	return okResponse(nil)
}
