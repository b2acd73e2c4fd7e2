package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerProfiles() {
	d.register("SetCurrentProfile", d.handleSetCurrentProfile)
	d.register("GetCurrentProfile", d.handleGetCurrentProfile)
	d.register("ListProfiles", d.handleListProfiles)
	d.register("SetCurrentSceneCollection", d.handleSetCurrentSceneCollection)
	d.register("GetCurrentSceneCollection", d.handleGetCurrentSceneCollection)
	d.register("ListSceneCollections", d.handleListSceneCollections)
}

func (d *Dispatcher) handleSetCurrentProfile(s *Session, req *document.Document) *document.Document {
	if !req.Has("profile-name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetCurrentProfile(req.String("profile-name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetCurrentProfile(s *Session, req *document.Document) *document.Document {
	current, _ := d.studio.Profiles()

	response := document.New()
	response.SetString("profile-name", current)
	return okResponse(response)
}

func (d *Dispatcher) handleListProfiles(s *Session, req *document.Document) *document.Document {
	_, all := d.studio.Profiles()

	profiles := make([]*document.Document, len(all))
	for i, name := range all {
		doc := document.New()
		doc.SetString("profile-name", name)
		profiles[i] = doc
	}

	response := document.New()
	response.SetArray("profiles", profiles)
	return okResponse(response)
}

func (d *Dispatcher) handleSetCurrentSceneCollection(s *Session, req *document.Document) *document.Document {
	if !req.Has("sc-name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetCurrentSceneCollection(req.String("sc-name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetCurrentSceneCollection(s *Session, req *document.Document) *document.Document {
	current, _ := d.studio.SceneCollections()

	response := document.New()
	response.SetString("sc-name", current)
	return okResponse(response)
}

func (d *Dispatcher) handleListSceneCollections(s *Session, req *document.Document) *document.Document {
	_, all := d.studio.SceneCollections()

	collections := make([]*document.Document, len(all))
	for i, name := range all {
		doc := document.New()
		doc.SetString("sc-name", name)
		collections[i] = doc
	}

	response := document.New()
	response.SetArray("scene-collections", collections)
	return okResponse(response)
}
