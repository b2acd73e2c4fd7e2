package ws

// Envelope fields shared by every frame on the wire.
const (
	KeyRequestType = "request-type"
	KeyMessageID   = "message-id"
	KeyUpdateType  = "update-type"
	KeyStatus      = "status"
	KeyError       = "error"

	StatusOK    = "ok"
	StatusError = "error"
)

// Protocol version reported by GetVersion. Fixed for compatibility with the
// original remote-control API.
const APIVersion = 1.1

// Dispatcher-level error strings. These are protocol surface; they never
// carry internal detail.
const (
	errInvalidPayload   = "invalid JSON payload"
	errMissingType      = "message type not specified"
	errUnknownType      = "invalid request type"
	errNotAuthenticated = "Not Authenticated"
	errNoResponse       = "no response given"

	errMissingParameters = "missing request parameters"
	errInvalidParameters = "invalid request parameters"
	errAuthFailed        = "Authentication Failed."
)

// Event names pushed to clients.
const (
	EventSwitchScenes               = "SwitchScenes"
	EventScenesChanged              = "ScenesChanged"
	EventSceneCollectionChanged     = "SceneCollectionChanged"
	EventSceneCollectionListChanged = "SceneCollectionListChanged"
	EventSwitchTransition           = "SwitchTransition"
	EventTransitionListChanged      = "TransitionListChanged"
	EventTransitionDurationChanged  = "TransitionDurationChanged"
	EventTransitionBegin            = "TransitionBegin"
	EventProfileChanged             = "ProfileChanged"
	EventProfileListChanged         = "ProfileListChanged"
	EventStreamStarting             = "StreamStarting"
	EventStreamStarted              = "StreamStarted"
	EventStreamStopping             = "StreamStopping"
	EventStreamStopped              = "StreamStopped"
	EventRecordingStarting          = "RecordingStarting"
	EventRecordingStarted           = "RecordingStarted"
	EventRecordingStopping          = "RecordingStopping"
	EventRecordingStopped           = "RecordingStopped"
	EventReplayStarting             = "ReplayStarting"
	EventReplayStarted              = "ReplayStarted"
	EventReplayStopping             = "ReplayStopping"
	EventReplayStopped              = "ReplayStopped"
	EventStudioModeSwitched         = "StudioModeSwitched"
	EventPreviewSceneChanged        = "PreviewSceneChanged"
	EventSourceOrderChanged         = "SourceOrderChanged"
	EventSceneItemAdded             = "SceneItemAdded"
	EventSceneItemRemoved           = "SceneItemRemoved"
	EventSceneItemVisibilityChanged = "SceneItemVisibilityChanged"
	EventStreamStatus               = "StreamStatus"
	EventHeartbeat                  = "Heartbeat"
	EventExiting                    = "Exiting"
)
