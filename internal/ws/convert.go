package ws

import (
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

// sceneItemDoc serializes a scene item the way scene listings expect it.
func sceneItemDoc(item *studio.SceneItem) *document.Document {
	doc := document.New()
	doc.SetInt("id", item.ID)
	doc.SetString("name", item.Name)
	doc.SetString("type", item.Type)
	doc.SetBool("render", item.Visible)
	doc.SetBool("locked", item.Locked)
	doc.SetFloat("x", item.X)
	doc.SetFloat("y", item.Y)
	doc.SetFloat("cx", item.Width)
	doc.SetFloat("cy", item.Height)
	doc.SetFloat("volume", 1)
	return doc
}

func sceneItemDocs(items []*studio.SceneItem) []*document.Document {
	docs := make([]*document.Document, len(items))
	for i, item := range items {
		docs[i] = sceneItemDoc(item)
	}
	return docs
}

func sceneDoc(scene *studio.Scene) *document.Document {
	doc := document.New()
	doc.SetString("name", scene.Name)
	doc.SetArray("sources", sceneItemDocs(scene.Items))
	return doc
}

func sceneDocs(scenes []*studio.Scene) []*document.Document {
	docs := make([]*document.Document, len(scenes))
	for i, scene := range scenes {
		docs[i] = sceneDoc(scene)
	}
	return docs
}
