package studio

// NotificationType identifies a lifecycle change pushed to subscribers.
type NotificationType string

const (
	NotifySceneSwitched              NotificationType = "scene-switched"
	NotifySceneListChanged           NotificationType = "scene-list-changed"
	NotifySceneCollectionChanged     NotificationType = "scene-collection-changed"
	NotifySceneCollectionListChanged NotificationType = "scene-collection-list-changed"
	NotifyTransitionSwitched         NotificationType = "transition-switched"
	NotifyTransitionListChanged      NotificationType = "transition-list-changed"
	NotifyTransitionDurationChanged  NotificationType = "transition-duration-changed"
	NotifyTransitionBegan            NotificationType = "transition-began"
	NotifyProfileChanged             NotificationType = "profile-changed"
	NotifyProfileListChanged         NotificationType = "profile-list-changed"
	NotifyStreamStarting             NotificationType = "stream-starting"
	NotifyStreamStarted              NotificationType = "stream-started"
	NotifyStreamStopping             NotificationType = "stream-stopping"
	NotifyStreamStopped              NotificationType = "stream-stopped"
	NotifyRecordingStarting          NotificationType = "recording-starting"
	NotifyRecordingStarted           NotificationType = "recording-started"
	NotifyRecordingStopping          NotificationType = "recording-stopping"
	NotifyRecordingStopped           NotificationType = "recording-stopped"
	NotifyReplayStarting             NotificationType = "replay-starting"
	NotifyReplayStarted              NotificationType = "replay-started"
	NotifyReplayStopping             NotificationType = "replay-stopping"
	NotifyReplayStopped              NotificationType = "replay-stopped"
	NotifyStudioModeSwitched         NotificationType = "studio-mode-switched"
	NotifyPreviewSceneChanged        NotificationType = "preview-scene-changed"
	NotifySceneItemAdded             NotificationType = "scene-item-added"
	NotifySceneItemRemoved           NotificationType = "scene-item-removed"
	NotifySceneItemsReordered        NotificationType = "scene-items-reordered"
	NotifySceneItemVisibility        NotificationType = "scene-item-visibility"
	NotifyExiting                    NotificationType = "exiting"
)

// Notification carries everything a subscriber needs to describe the change,
// so that handling one never requires calling back into the Studio.
type Notification struct {
	Type           NotificationType
	SceneName      string
	Items          []*SceneItem
	ItemName       string
	Visible        bool
	TransitionName string
	Duration       int64
	Enabled        bool
}

// Subscriber receives notifications synchronously on whichever goroutine
// performed the mutation. Implementations must be fast and must not call
// back into the Studio.
type Subscriber func(Notification)
