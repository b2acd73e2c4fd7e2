// Package studio is the capability surface the protocol engine drives: an
// in-memory model of the media-production application's scenes, sources,
// transitions and outputs, with lifecycle notifications delivered to
// subscribers from whichever goroutine performs a mutation.
package studio

import (
	"sort"
	"sync"

	"github.com/castsuite/castbridge/internal/document"
)

const Version = "1.0.0"

type Studio struct {
	mu sync.RWMutex

	scenes       []*Scene
	currentScene string
	sources      map[string]*Source

	transitions        []string
	currentTransition  string
	transitionDuration int64

	profiles       []string
	currentProfile string

	collections       []string
	currentCollection string

	studioMode   bool
	previewScene string

	streaming    bool
	recording    bool
	replayActive bool

	streamType     string
	streamSettings *document.Document
	stats          StreamStats

	recordingFolder    string
	filenameFormatting string

	nextItemID int64
	subs       []Subscriber
}

func New() *Studio {
	return &Studio{
		sources:            make(map[string]*Source),
		transitions:        []string{"Cut", "Fade"},
		currentTransition:  "Cut",
		transitionDuration: 300,
		profiles:           []string{"Default"},
		currentProfile:     "Default",
		collections:        []string{"Default"},
		currentCollection:  "Default",
		streamType:         "rtmp_common",
		streamSettings:     document.New(),
		recordingFolder:    "recordings",
		filenameFormatting: "%CCYY-%MM-%DD %hh-%mm-%ss",
	}
}

// Subscribe registers a notification sink. Not safe to call concurrently
// with mutations; wire subscribers up before the server starts.
func (st *Studio) Subscribe(fn Subscriber) {
	st.subs = append(st.subs, fn)
}

// notify runs with st.mu held so subscribers observe notifications in
// mutation order.
func (st *Studio) notify(n Notification) {
	for _, fn := range st.subs {
		fn(n)
	}
}

// ---- scenes ----

func (st *Studio) AddScene(name string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, s := range st.scenes {
		if s.Name == name {
			return
		}
	}
	st.scenes = append(st.scenes, &Scene{Name: name})
	if st.currentScene == "" {
		st.currentScene = name
	}
	st.notify(Notification{Type: NotifySceneListChanged})
}

func (st *Studio) sceneByName(name string) *Scene {
	for _, s := range st.scenes {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (st *Studio) CurrentScene() *Scene {
	st.mu.RLock()
	defer st.mu.RUnlock()

	scene := st.sceneByName(st.currentScene)
	if scene == nil {
		return &Scene{}
	}
	return scene.clone()
}

func (st *Studio) Scenes() (current string, scenes []*Scene) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	scenes = make([]*Scene, len(st.scenes))
	for i, s := range st.scenes {
		scenes[i] = s.clone()
	}
	return st.currentScene, scenes
}

func (st *Studio) SetCurrentScene(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	scene := st.sceneByName(name)
	if scene == nil {
		return ErrSceneNotFound
	}
	st.currentScene = name
	st.notify(Notification{
		Type:      NotifySceneSwitched,
		SceneName: name,
		Items:     scene.clone().Items,
	})
	return nil
}

// ReorderSceneItems applies the requested order, matching by id when given,
// by name otherwise. The order must reference existing items and must not
// repeat an item.
func (st *Studio) ReorderSceneItems(sceneName string, ids []int64, names []string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	scene := st.sceneByName(st.orCurrent(sceneName))
	if scene == nil {
		return ErrSceneNotFound
	}

	count := len(ids)
	newOrder := make([]*SceneItem, 0, count)
	for i := 0; i < count; i++ {
		var item *SceneItem
		for _, candidate := range scene.Items {
			if ids[i] != 0 && candidate.ID == ids[i] {
				item = candidate
				break
			}
			if ids[i] == 0 && candidate.Name == names[i] {
				item = candidate
				break
			}
		}
		if item == nil {
			return ErrInvalidOrder
		}
		for _, previous := range newOrder {
			if previous == item {
				return ErrDuplicateItem
			}
		}
		newOrder = append(newOrder, item)
	}
	if len(newOrder) != len(scene.Items) {
		return ErrInvalidOrder
	}

	scene.Items = newOrder
	st.notify(Notification{
		Type:      NotifySceneItemsReordered,
		SceneName: scene.Name,
		Items:     scene.clone().Items,
	})
	return nil
}

func (st *Studio) orCurrent(sceneName string) string {
	if sceneName == "" {
		return st.currentScene
	}
	return sceneName
}

// ---- scene items ----

func (st *Studio) AddSceneItem(sceneName, sourceName string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	scene := st.sceneByName(st.orCurrent(sceneName))
	if scene == nil {
		return ErrSceneNotFound
	}
	source, ok := st.sources[sourceName]
	if !ok {
		return ErrSourceNotFound
	}

	st.nextItemID++
	scene.Items = append(scene.Items, defaultItem(st.nextItemID, source.Name, source.Type))
	st.notify(Notification{
		Type:      NotifySceneItemAdded,
		SceneName: scene.Name,
		ItemName:  source.Name,
	})
	return nil
}

func (st *Studio) itemInScene(sceneName, itemName string) (*Scene, *SceneItem, error) {
	scene := st.sceneByName(st.orCurrent(sceneName))
	if scene == nil {
		return nil, nil, ErrSceneNotFound
	}
	for _, item := range scene.Items {
		if item.Name == itemName {
			return scene, item, nil
		}
	}
	return nil, nil, ErrItemNotFound
}

func (st *Studio) SceneItem(sceneName, itemName string) (*SceneItem, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	_, item, err := st.itemInScene(sceneName, itemName)
	if err != nil {
		return nil, err
	}
	return item.clone(), nil
}

func (st *Studio) SetSceneItemVisible(sceneName, itemName string, visible bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	scene, item, err := st.itemInScene(sceneName, itemName)
	if err != nil {
		return err
	}
	item.Visible = visible
	st.notify(Notification{
		Type:      NotifySceneItemVisibility,
		SceneName: scene.Name,
		ItemName:  item.Name,
		Visible:   visible,
	})
	return nil
}

func (st *Studio) SetSceneItemPosition(sceneName, itemName string, x, y float64) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, item, err := st.itemInScene(sceneName, itemName)
	if err != nil {
		return err
	}
	item.X = x
	item.Y = y
	return nil
}

// UpdateSceneItem applies fn to the item under the lock.
func (st *Studio) UpdateSceneItem(sceneName, itemName string, fn func(*SceneItem)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, item, err := st.itemInScene(sceneName, itemName)
	if err != nil {
		return err
	}
	fn(item)
	return nil
}

func (st *Studio) ResetSceneItem(sceneName, itemName string) error {
	return st.UpdateSceneItem(sceneName, itemName, func(item *SceneItem) {
		item.X = 0
		item.Y = 0
		item.Rotation = 0
		item.ScaleX = 1
		item.ScaleY = 1
		item.Crop = Crop{}
		item.Visible = true
	})
}

func (st *Studio) DeleteSceneItem(sceneName, itemName string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	scene, item, err := st.itemInScene(sceneName, itemName)
	if err != nil {
		return err
	}
	for i, candidate := range scene.Items {
		if candidate == item {
			scene.Items = append(scene.Items[:i], scene.Items[i+1:]...)
			break
		}
	}
	st.notify(Notification{
		Type:      NotifySceneItemRemoved,
		SceneName: scene.Name,
		ItemName:  item.Name,
	})
	return nil
}

func (st *Studio) DuplicateSceneItem(fromScene, toScene, itemName string) (*SceneItem, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	_, item, err := st.itemInScene(fromScene, itemName)
	if err != nil {
		return nil, err
	}
	target := st.sceneByName(st.orCurrent(toScene))
	if target == nil {
		return nil, ErrSceneNotFound
	}

	st.nextItemID++
	dup := item.clone()
	dup.ID = st.nextItemID
	target.Items = append(target.Items, dup)
	st.notify(Notification{
		Type:      NotifySceneItemAdded,
		SceneName: target.Name,
		ItemName:  dup.Name,
	})
	return dup.clone(), nil
}

// ---- sources ----

func (st *Studio) AddSource(name, sourceType string, settings *document.Document) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if settings == nil {
		settings = document.New()
	}
	st.sources[name] = &Source{
		Name:     name,
		Type:     sourceType,
		Volume:   1.0,
		Settings: settings,
	}
}

func (st *Studio) Sources() []*Source {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*Source, 0, len(st.sources))
	for _, s := range st.sources {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (st *Studio) SourceTypes() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, s := range st.sources {
		if _, ok := seen[s.Type]; !ok {
			seen[s.Type] = struct{}{}
			types = append(types, s.Type)
		}
	}
	sort.Strings(types)
	return types
}

func (st *Studio) source(name string) (*Source, error) {
	s, ok := st.sources[name]
	if !ok {
		return nil, ErrSourceNotFound
	}
	return s, nil
}

func (st *Studio) Volume(name string) (float64, bool, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, err := st.source(name)
	if err != nil {
		return 0, false, err
	}
	return s.Volume, s.Muted, nil
}

func (st *Studio) SetVolume(name string, volume float64) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.source(name)
	if err != nil {
		return err
	}
	s.Volume = volume
	return nil
}

func (st *Studio) SetMute(name string, muted bool) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.source(name)
	if err != nil {
		return err
	}
	s.Muted = muted
	return nil
}

func (st *Studio) ToggleMute(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.source(name)
	if err != nil {
		return err
	}
	s.Muted = !s.Muted
	return nil
}

func (st *Studio) SyncOffset(name string) (int64, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, err := st.source(name)
	if err != nil {
		return 0, err
	}
	return s.SyncOffset, nil
}

func (st *Studio) SetSyncOffset(name string, offset int64) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.source(name)
	if err != nil {
		return err
	}
	s.SyncOffset = offset
	return nil
}

func (st *Studio) SourceSettings(name string) (string, *document.Document, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, err := st.source(name)
	if err != nil {
		return "", nil, err
	}
	return s.Type, s.Settings.Clone(), nil
}

// SetSourceSettings overlays the supplied fields onto the existing settings
// and returns the merged result.
func (st *Studio) SetSourceSettings(name string, settings *document.Document) (string, *document.Document, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.source(name)
	if err != nil {
		return "", nil, err
	}
	s.Settings.Apply(settings)
	return s.Type, s.Settings.Clone(), nil
}

// ---- transitions ----

func (st *Studio) Transitions() (current string, all []string) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	all = make([]string, len(st.transitions))
	copy(all, st.transitions)
	return st.currentTransition, all
}

func (st *Studio) SetCurrentTransition(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	found := false
	for _, t := range st.transitions {
		if t == name {
			found = true
			break
		}
	}
	if !found {
		return ErrTransitionNotFound
	}
	st.currentTransition = name
	st.notify(Notification{Type: NotifyTransitionSwitched, TransitionName: name})
	return nil
}

func (st *Studio) TransitionDuration() int64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.transitionDuration
}

func (st *Studio) SetTransitionDuration(ms int64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.transitionDuration = ms
	st.notify(Notification{Type: NotifyTransitionDurationChanged, Duration: ms})
}

// ---- profiles and scene collections ----

func (st *Studio) Profiles() (current string, all []string) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	all = make([]string, len(st.profiles))
	copy(all, st.profiles)
	return st.currentProfile, all
}

func (st *Studio) SetCurrentProfile(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, p := range st.profiles {
		if p == name {
			st.currentProfile = name
			st.notify(Notification{Type: NotifyProfileChanged})
			return nil
		}
	}
	return ErrProfileNotFound
}

func (st *Studio) SceneCollections() (current string, all []string) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	all = make([]string, len(st.collections))
	copy(all, st.collections)
	return st.currentCollection, all
}

func (st *Studio) SetCurrentSceneCollection(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, c := range st.collections {
		if c == name {
			st.currentCollection = name
			st.notify(Notification{Type: NotifySceneCollectionChanged})
			return nil
		}
	}
	return ErrCollectionNotFound
}

// ---- streaming ----

func (st *Studio) StreamingActive() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.streaming
}

func (st *Studio) StartStreaming() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.streaming {
		return ErrStreamingActive
	}
	st.notify(Notification{Type: NotifyStreamStarting})
	st.streaming = true
	st.notify(Notification{Type: NotifyStreamStarted})
	return nil
}

func (st *Studio) StopStreaming() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.streaming {
		return ErrStreamingInactive
	}
	st.notify(Notification{Type: NotifyStreamStopping})
	st.streaming = false
	st.notify(Notification{Type: NotifyStreamStopped})
	return nil
}

func (st *Studio) StreamSettings() (string, *document.Document) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.streamType, st.streamSettings.Clone()
}

// SetStreamSettings overlays settings when the service type is unchanged and
// replaces them outright when it changes, as the original frontend does.
func (st *Studio) SetStreamSettings(serviceType string, settings *document.Document) (string, *document.Document) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if serviceType == "" {
		serviceType = st.streamType
	}
	if serviceType == st.streamType {
		st.streamSettings.Apply(settings)
	} else {
		st.streamType = serviceType
		st.streamSettings = document.New()
		st.streamSettings.Apply(settings)
	}
	return st.streamType, st.streamSettings.Clone()
}

func (st *Studio) StreamStats() StreamStats {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.stats
}

// SetStreamStats lets the encoder layer publish fresh output counters.
func (st *Studio) SetStreamStats(stats StreamStats) {
	st.mu.Lock()
	st.stats = stats
	st.mu.Unlock()
}

// ---- recording ----

func (st *Studio) RecordingActive() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.recording
}

func (st *Studio) StartRecording() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.recording {
		return ErrRecordingActive
	}
	st.notify(Notification{Type: NotifyRecordingStarting})
	st.recording = true
	st.notify(Notification{Type: NotifyRecordingStarted})
	return nil
}

func (st *Studio) StopRecording() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.recording {
		return ErrRecordingInactive
	}
	st.notify(Notification{Type: NotifyRecordingStopping})
	st.recording = false
	st.notify(Notification{Type: NotifyRecordingStopped})
	return nil
}

func (st *Studio) RecordingFolder() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.recordingFolder
}

func (st *Studio) SetRecordingFolder(folder string) {
	st.mu.Lock()
	st.recordingFolder = folder
	st.mu.Unlock()
}

// ---- replay buffer ----

func (st *Studio) ReplayActive() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.replayActive
}

func (st *Studio) StartReplayBuffer() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.replayActive {
		return ErrReplayActive
	}
	st.notify(Notification{Type: NotifyReplayStarting})
	st.replayActive = true
	st.notify(Notification{Type: NotifyReplayStarted})
	return nil
}

func (st *Studio) StopReplayBuffer() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.replayActive {
		return ErrReplayInactive
	}
	st.notify(Notification{Type: NotifyReplayStopping})
	st.replayActive = false
	st.notify(Notification{Type: NotifyReplayStopped})
	return nil
}

func (st *Studio) SaveReplayBuffer() error {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.replayActive {
		return ErrReplayInactive
	}
	return nil
}

// ---- studio mode ----

func (st *Studio) StudioModeEnabled() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.studioMode
}

func (st *Studio) SetStudioMode(enabled bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.studioMode == enabled {
		return
	}
	st.studioMode = enabled
	if enabled && st.previewScene == "" {
		st.previewScene = st.currentScene
	}
	st.notify(Notification{Type: NotifyStudioModeSwitched, Enabled: enabled})
}

func (st *Studio) ToggleStudioMode() {
	st.SetStudioMode(!st.StudioModeEnabled())
}

func (st *Studio) PreviewScene() (*Scene, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if !st.studioMode {
		return nil, ErrStudioModeDisabled
	}
	scene := st.sceneByName(st.previewScene)
	if scene == nil {
		return nil, ErrSceneNotFound
	}
	return scene.clone(), nil
}

func (st *Studio) SetPreviewScene(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.studioMode {
		return ErrStudioModeDisabled
	}
	scene := st.sceneByName(name)
	if scene == nil {
		return ErrSceneNotFound
	}
	st.previewScene = name
	st.notify(Notification{
		Type:      NotifyPreviewSceneChanged,
		SceneName: name,
		Items:     scene.clone().Items,
	})
	return nil
}

// TransitionToProgram makes the preview scene the program scene using the
// active transition.
func (st *Studio) TransitionToProgram() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if !st.studioMode {
		return ErrStudioModeDisabled
	}
	scene := st.sceneByName(st.previewScene)
	if scene == nil {
		return ErrSceneNotFound
	}

	st.notify(Notification{
		Type:           NotifyTransitionBegan,
		TransitionName: st.currentTransition,
		Duration:       st.transitionDuration,
	})
	st.currentScene = st.previewScene
	st.notify(Notification{
		Type:      NotifySceneSwitched,
		SceneName: st.currentScene,
		Items:     scene.clone().Items,
	})
	return nil
}

// ---- general ----

func (st *Studio) FilenameFormatting() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.filenameFormatting
}

func (st *Studio) SetFilenameFormatting(format string) {
	st.mu.Lock()
	st.filenameFormatting = format
	st.mu.Unlock()
}

// Shutdown announces that the host application is exiting.
func (st *Studio) Shutdown() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.notify(Notification{Type: NotifyExiting})
}
