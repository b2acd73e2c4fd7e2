package studio

import (
	"errors"

	"github.com/castsuite/castbridge/internal/document"
)

// Errors surfaced verbatim to remote clients. The strings are part of the
// protocol surface, so they stay fixed and carry no internal detail.
var (
	ErrSceneNotFound      = errors.New("requested scene does not exist")
	ErrSourceNotFound     = errors.New("specified source doesn't exist")
	ErrItemNotFound       = errors.New("specified scene item doesn't exist")
	ErrTransitionNotFound = errors.New("requested transition does not exist")
	ErrProfileNotFound    = errors.New("profile does not exist")
	ErrCollectionNotFound = errors.New("scene collection does not exist")
	ErrStreamingActive    = errors.New("streaming already active")
	ErrStreamingInactive  = errors.New("streaming not active")
	ErrRecordingActive    = errors.New("recording already active")
	ErrRecordingInactive  = errors.New("recording not active")
	ErrReplayActive       = errors.New("replay buffer already active")
	ErrReplayInactive     = errors.New("replay buffer not active")
	ErrStudioModeDisabled = errors.New("studio mode not enabled")
	ErrDuplicateItem      = errors.New("Duplicate sceneItem in specified order")
	ErrInvalidOrder       = errors.New("Invalid sceneItem id or name in order")
)

type Crop struct {
	Top    int64
	Bottom int64
	Left   int64
	Right  int64
}

// SceneItem is one source instance placed in a scene. IDs are unique per
// studio lifetime, not just per scene.
type SceneItem struct {
	ID       int64
	Name     string
	Type     string
	Visible  bool
	Locked   bool
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	Crop     Crop
}

type Scene struct {
	Name  string
	Items []*SceneItem
}

// Source is an input owned by the studio, independent of scene placement.
type Source struct {
	Name       string
	Type       string
	Volume     float64
	Muted      bool
	SyncOffset int64
	Settings   *document.Document
}

// StreamStats mirrors what the stream encoder reports every status tick.
type StreamStats struct {
	BytesPerSec   int64
	TotalBytes    int64
	TotalFrames   int64
	DroppedFrames int64
	FPS           float64
	Strain        float64
}

func defaultItem(id int64, name, sourceType string) *SceneItem {
	return &SceneItem{
		ID:      id,
		Name:    name,
		Type:    sourceType,
		Visible: true,
		ScaleX:  1,
		ScaleY:  1,
	}
}

func (i *SceneItem) clone() *SceneItem {
	out := *i
	return &out
}

func (s *Scene) clone() *Scene {
	items := make([]*SceneItem, len(s.Items))
	for n, item := range s.Items {
		items[n] = item.clone()
	}
	return &Scene{Name: s.Name, Items: items}
}
