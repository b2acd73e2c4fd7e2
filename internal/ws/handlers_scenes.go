package ws

import (
	"github.com/castsuite/castbridge/internal/document"
)

func (d *Dispatcher) registerScenes() {
	d.register("SetCurrentScene", d.handleSetCurrentScene)
	d.register("GetCurrentScene", d.handleGetCurrentScene)
	d.register("GetSceneList", d.handleGetSceneList)
	d.register("SetSceneItemOrder", d.handleSetSceneItemOrder)
}

func (d *Dispatcher) handleSetCurrentScene(s *Session, req *document.Document) *document.Document {
	if !req.Has("scene-name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetCurrentScene(req.String("scene-name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetCurrentScene(s *Session, req *document.Document) *document.Document {
	scene := d.studio.CurrentScene()

	response := document.New()
	response.SetString("name", scene.Name)
	response.SetArray("sources", sceneItemDocs(scene.Items))
	return okResponse(response)
}

func (d *Dispatcher) handleGetSceneList(s *Session, req *document.Document) *document.Document {
	current, scenes := d.studio.Scenes()

	response := document.New()
	response.SetString("current-scene", current)
	response.SetArray("scenes", sceneDocs(scenes))
	return okResponse(response)
}

// handleSetSceneItemOrder reorders the items of a scene. Items are matched
// by id when given, otherwise by name; ids win because they are unique per
// scene.
func (d *Dispatcher) handleSetSceneItemOrder(s *Session, req *document.Document) *document.Document {
	if !req.Has("items") {
		return errorResponse("sceneItem order not specified")
	}
	items := req.Array("items")

	ids := make([]int64, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.Int("id")
		names[i] = item.String("name")
	}

	if err := d.studio.ReorderSceneItems(req.String("scene"), ids, names); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}
