package ws

import (
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

func (d *Dispatcher) registerSources() {
	d.register("GetSourcesList", d.handleGetSourcesList)
	d.register("GetSourceTypesList", d.handleGetSourceTypesList)
	d.register("GetVolume", d.handleGetVolume)
	d.register("SetVolume", d.handleSetVolume)
	d.register("GetMute", d.handleGetMute)
	d.register("SetMute", d.handleSetMute)
	d.register("ToggleMute", d.handleToggleMute)
	d.register("GetSyncOffset", d.handleGetSyncOffset)
	d.register("SetSyncOffset", d.handleSetSyncOffset)
	d.register("GetSourceSettings", d.handleGetSourceSettings)
	d.register("SetSourceSettings", d.handleSetSourceSettings)
	d.register("SetSceneItemRender", d.handleSetSceneItemRender)
	d.register("SetSceneItemPosition", d.handleSetSceneItemPosition)
	d.register("GetSceneItemProperties", d.handleGetSceneItemProperties)
	d.register("SetSceneItemProperties", d.handleSetSceneItemProperties)
	d.register("ResetSceneItem", d.handleResetSceneItem)
	d.register("DeleteSceneItem", d.handleDeleteSceneItem)
	d.register("DuplicateSceneItem", d.handleDuplicateSceneItem)
}

func (d *Dispatcher) handleGetSourcesList(s *Session, req *document.Document) *document.Document {
	sources := d.studio.Sources()

	docs := make([]*document.Document, len(sources))
	for i, source := range sources {
		doc := document.New()
		doc.SetString("name", source.Name)
		doc.SetString("typeId", source.Type)
		docs[i] = doc
	}

	response := document.New()
	response.SetArray("sources", docs)
	return okResponse(response)
}

func (d *Dispatcher) handleGetSourceTypesList(s *Session, req *document.Document) *document.Document {
	types := d.studio.SourceTypes()

	docs := make([]*document.Document, len(types))
	for i, typeID := range types {
		doc := document.New()
		doc.SetString("typeId", typeID)
		docs[i] = doc
	}

	response := document.New()
	response.SetArray("types", docs)
	return okResponse(response)
}

func (d *Dispatcher) handleGetVolume(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") {
		return errorResponse(errMissingParameters)
	}
	name := req.String("source")

	volume, muted, err := d.studio.Volume(name)
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("name", name)
	response.SetFloat("volume", volume)
	response.SetBool("muted", muted)
	return okResponse(response)
}

func (d *Dispatcher) handleSetVolume(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") || !req.Has("volume") {
		return errorResponse(errMissingParameters)
	}
	volume := req.Float("volume")
	if volume < 0 || volume > 1 {
		return errorResponse(errInvalidParameters)
	}
	if err := d.studio.SetVolume(req.String("source"), volume); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetMute(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") {
		return errorResponse(errMissingParameters)
	}
	name := req.String("source")

	_, muted, err := d.studio.Volume(name)
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("name", name)
	response.SetBool("muted", muted)
	return okResponse(response)
}

func (d *Dispatcher) handleSetMute(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") || !req.Has("mute") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.SetMute(req.String("source"), req.Bool("mute")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleToggleMute(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.ToggleMute(req.String("source")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetSyncOffset(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") {
		return errorResponse(errMissingParameters)
	}
	name := req.String("source")

	offset, err := d.studio.SyncOffset(name)
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("name", name)
	response.SetInt("offset", offset)
	return okResponse(response)
}

func (d *Dispatcher) handleSetSyncOffset(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") || !req.Has("offset") {
		return errorResponse(errMissingParameters)
	}
	offset := req.Int("offset")
	if offset < 0 {
		return errorResponse(errInvalidParameters)
	}
	if err := d.studio.SetSyncOffset(req.String("source"), offset); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetSourceSettings(s *Session, req *document.Document) *document.Document {
	if !req.Has("sourceName") {
		return errorResponse(errMissingParameters)
	}
	name := req.String("sourceName")

	sourceType, settings, err := d.studio.SourceSettings(name)
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("sourceName", name)
	response.SetString("sourceType", sourceType)
	response.SetDoc("sourceSettings", settings)
	return okResponse(response)
}

// handleSetSourceSettings overlays the supplied settings onto the source's
// existing settings and returns the merged result.
func (d *Dispatcher) handleSetSourceSettings(s *Session, req *document.Document) *document.Document {
	if !req.Has("sourceName") || !req.Has("sourceSettings") {
		return errorResponse(errMissingParameters)
	}
	name := req.String("sourceName")

	sourceType, settings, err := d.studio.SetSourceSettings(name, req.Doc("sourceSettings"))
	if err != nil {
		return errorFrom(err)
	}

	response := document.New()
	response.SetString("sourceName", name)
	response.SetString("sourceType", sourceType)
	response.SetDoc("sourceSettings", settings)
	return okResponse(response)
}

func (d *Dispatcher) handleSetSceneItemRender(s *Session, req *document.Document) *document.Document {
	if !req.Has("source") || !req.Has("render") {
		return errorResponse(errMissingParameters)
	}
	err := d.studio.SetSceneItemVisible(req.String("scene-name"), req.String("source"), req.Bool("render"))
	if err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleSetSceneItemPosition(s *Session, req *document.Document) *document.Document {
	if !req.Has("item") || !req.Has("x") || !req.Has("y") {
		return errorResponse(errMissingParameters)
	}
	err := d.studio.SetSceneItemPosition(req.String("scene-name"), req.String("item"),
		req.Float("x"), req.Float("y"))
	if err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleGetSceneItemProperties(s *Session, req *document.Document) *document.Document {
	if !req.Has("item") {
		return errorResponse(errMissingParameters)
	}

	item, err := d.studio.SceneItem(req.String("scene-name"), req.String("item"))
	if err != nil {
		return errorFrom(err)
	}

	position := document.New()
	position.SetFloat("x", item.X)
	position.SetFloat("y", item.Y)

	scale := document.New()
	scale.SetFloat("x", item.ScaleX)
	scale.SetFloat("y", item.ScaleY)

	crop := document.New()
	crop.SetInt("top", item.Crop.Top)
	crop.SetInt("bottom", item.Crop.Bottom)
	crop.SetInt("left", item.Crop.Left)
	crop.SetInt("right", item.Crop.Right)

	response := document.New()
	response.SetString("name", item.Name)
	response.SetInt("itemId", item.ID)
	response.SetDoc("position", position)
	response.SetFloat("rotation", item.Rotation)
	response.SetDoc("scale", scale)
	response.SetDoc("crop", crop)
	response.SetBool("visible", item.Visible)
	response.SetBool("locked", item.Locked)
	return okResponse(response)
}

// handleSetSceneItemProperties changes only the fields the request carries.
func (d *Dispatcher) handleSetSceneItemProperties(s *Session, req *document.Document) *document.Document {
	if !req.Has("item") {
		return errorResponse(errMissingParameters)
	}

	err := d.studio.UpdateSceneItem(req.String("scene-name"), req.String("item"), func(item *studio.SceneItem) {
		if position := req.Doc("position"); position != nil {
			if position.Has("x") {
				item.X = position.Float("x")
			}
			if position.Has("y") {
				item.Y = position.Float("y")
			}
		}
		if req.Has("rotation") {
			item.Rotation = req.Float("rotation")
		}
		if scale := req.Doc("scale"); scale != nil {
			if scale.Has("x") {
				item.ScaleX = scale.Float("x")
			}
			if scale.Has("y") {
				item.ScaleY = scale.Float("y")
			}
		}
		if crop := req.Doc("crop"); crop != nil {
			if crop.Has("top") {
				item.Crop.Top = crop.Int("top")
			}
			if crop.Has("bottom") {
				item.Crop.Bottom = crop.Int("bottom")
			}
			if crop.Has("left") {
				item.Crop.Left = crop.Int("left")
			}
			if crop.Has("right") {
				item.Crop.Right = crop.Int("right")
			}
		}
		if req.Has("locked") {
			item.Locked = req.Bool("locked")
		}
	})
	if err != nil {
		return errorFrom(err)
	}

	// visibility changes go through the studio so the event fires
	if req.Has("visible") {
		if err := d.studio.SetSceneItemVisible(req.String("scene-name"), req.String("item"), req.Bool("visible")); err != nil {
			return errorFrom(err)
		}
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleResetSceneItem(s *Session, req *document.Document) *document.Document {
	if !req.Has("item") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.ResetSceneItem(req.String("scene-name"), req.String("item")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleDeleteSceneItem(s *Session, req *document.Document) *document.Document {
	item := req.Doc("item")
	if item == nil || !item.Has("name") {
		return errorResponse(errMissingParameters)
	}
	if err := d.studio.DeleteSceneItem(req.String("scene"), item.String("name")); err != nil {
		return errorFrom(err)
	}
	return okResponse(nil)
}

func (d *Dispatcher) handleDuplicateSceneItem(s *Session, req *document.Document) *document.Document {
	item := req.Doc("item")
	if item == nil || !item.Has("name") {
		return errorResponse(errMissingParameters)
	}

	dup, err := d.studio.DuplicateSceneItem(req.String("fromScene"), req.String("toScene"), item.String("name"))
	if err != nil {
		return errorFrom(err)
	}

	itemDoc := document.New()
	itemDoc.SetInt("id", dup.ID)
	itemDoc.SetString("name", dup.Name)

	response := document.New()
	response.SetString("scene", req.String("toScene"))
	response.SetDoc("item", itemDoc)
	return okResponse(response)
}
