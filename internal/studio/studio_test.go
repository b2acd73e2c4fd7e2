package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castsuite/castbridge/internal/document"
)

// recorder collects notifications in delivery order.
type recorder struct {
	notifications []Notification
}

func (r *recorder) record(n Notification) {
	r.notifications = append(r.notifications, n)
}

func (r *recorder) types() []NotificationType {
	out := make([]NotificationType, len(r.notifications))
	for i, n := range r.notifications {
		out[i] = n.Type
	}
	return out
}

func newTestStudio() (*Studio, *recorder) {
	st := New()
	rec := &recorder{}
	st.Subscribe(rec.record)

	st.AddSource("cam", "camera_input", nil)
	st.AddSource("mic", "audio_input", nil)
	st.AddScene("Main")
	st.AddScene("Standby")
	if err := st.AddSceneItem("Main", "cam"); err != nil {
		panic(err)
	}
	if err := st.AddSceneItem("Main", "mic"); err != nil {
		panic(err)
	}

	rec.notifications = nil
	return st, rec
}

func TestFirstSceneBecomesCurrent(t *testing.T) {
	st := New()
	st.AddScene("One")
	st.AddScene("Two")

	assert.Equal(t, "One", st.CurrentScene().Name)
}

func TestSetCurrentSceneNotifiesWithItems(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.SetCurrentScene("Main"))

	require.Len(t, rec.notifications, 1)
	n := rec.notifications[0]
	assert.Equal(t, NotifySceneSwitched, n.Type)
	assert.Equal(t, "Main", n.SceneName)
	require.Len(t, n.Items, 2)
	assert.Equal(t, "cam", n.Items[0].Name)
}

func TestSetCurrentSceneUnknown(t *testing.T) {
	st, rec := newTestStudio()

	assert.ErrorIs(t, st.SetCurrentScene("nope"), ErrSceneNotFound)
	assert.Empty(t, rec.notifications)
}

func TestAddSceneIgnoresDuplicateName(t *testing.T) {
	st, rec := newTestStudio()

	st.AddScene("Main")

	_, scenes := st.Scenes()
	assert.Len(t, scenes, 2)
	assert.Empty(t, rec.notifications)
}

func TestSceneItemVisibilityNotification(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.SetSceneItemVisible("Main", "cam", false))

	require.Len(t, rec.notifications, 1)
	n := rec.notifications[0]
	assert.Equal(t, NotifySceneItemVisibility, n.Type)
	assert.Equal(t, "cam", n.ItemName)
	assert.False(t, n.Visible)

	item, err := st.SceneItem("Main", "cam")
	require.NoError(t, err)
	assert.False(t, item.Visible)
}

func TestEmptySceneNameMeansCurrent(t *testing.T) {
	st, _ := newTestStudio()

	item, err := st.SceneItem("", "cam")
	require.NoError(t, err)
	assert.Equal(t, "cam", item.Name)
}

func TestResetSceneItemRestoresDefaults(t *testing.T) {
	st, _ := newTestStudio()

	require.NoError(t, st.SetSceneItemPosition("Main", "cam", 100, 50))
	require.NoError(t, st.UpdateSceneItem("Main", "cam", func(item *SceneItem) {
		item.Rotation = 90
		item.ScaleX = 2
		item.Crop = Crop{Top: 10}
	}))

	require.NoError(t, st.ResetSceneItem("Main", "cam"))

	item, err := st.SceneItem("Main", "cam")
	require.NoError(t, err)
	assert.Zero(t, item.X)
	assert.Zero(t, item.Rotation)
	assert.Equal(t, 1.0, item.ScaleX)
	assert.Equal(t, Crop{}, item.Crop)
	assert.True(t, item.Visible)
}

func TestDeleteSceneItem(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.DeleteSceneItem("Main", "mic"))

	scene := st.CurrentScene()
	require.Len(t, scene.Items, 1)
	assert.Equal(t, "cam", scene.Items[0].Name)

	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NotifySceneItemRemoved, rec.notifications[0].Type)

	assert.ErrorIs(t, st.DeleteSceneItem("Main", "mic"), ErrItemNotFound)
}

func TestDuplicateSceneItemGetsFreshID(t *testing.T) {
	st, _ := newTestStudio()

	original, err := st.SceneItem("Main", "cam")
	require.NoError(t, err)

	dup, err := st.DuplicateSceneItem("Main", "Standby", "cam")
	require.NoError(t, err)
	assert.Equal(t, "cam", dup.Name)
	assert.NotEqual(t, original.ID, dup.ID)

	_, scenes := st.Scenes()
	for _, scene := range scenes {
		if scene.Name == "Standby" {
			assert.Len(t, scene.Items, 1)
		}
	}
}

func TestReorderSceneItemsByName(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.ReorderSceneItems("Main", []int64{0, 0}, []string{"mic", "cam"}))

	scene := st.CurrentScene()
	assert.Equal(t, "mic", scene.Items[0].Name)
	assert.Equal(t, "cam", scene.Items[1].Name)

	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NotifySceneItemsReordered, rec.notifications[0].Type)
}

func TestReorderSceneItemsRejectsDuplicates(t *testing.T) {
	st, _ := newTestStudio()

	err := st.ReorderSceneItems("Main", []int64{0, 0}, []string{"cam", "cam"})
	assert.ErrorIs(t, err, ErrDuplicateItem)
}

func TestReorderSceneItemsRejectsUnknownAndPartialOrders(t *testing.T) {
	st, _ := newTestStudio()

	err := st.ReorderSceneItems("Main", []int64{0, 0}, []string{"cam", "ghost"})
	assert.ErrorIs(t, err, ErrInvalidOrder)

	err = st.ReorderSceneItems("Main", []int64{0}, []string{"cam"})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestVolumeAndMute(t *testing.T) {
	st, _ := newTestStudio()

	require.NoError(t, st.SetVolume("cam", 0.25))
	require.NoError(t, st.SetMute("cam", true))

	volume, muted, err := st.Volume("cam")
	require.NoError(t, err)
	assert.Equal(t, 0.25, volume)
	assert.True(t, muted)

	require.NoError(t, st.ToggleMute("cam"))
	_, muted, err = st.Volume("cam")
	require.NoError(t, err)
	assert.False(t, muted)

	_, _, err = st.Volume("ghost")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestSetSourceSettingsOverlays(t *testing.T) {
	st, _ := newTestStudio()

	initial := document.New()
	initial.SetString("device", "/dev/video0")
	initial.SetInt("fps", 30)
	st.AddSource("webcam", "camera_input", initial)

	update := document.New()
	update.SetInt("fps", 60)

	sourceType, merged, err := st.SetSourceSettings("webcam", update)
	require.NoError(t, err)
	assert.Equal(t, "camera_input", sourceType)
	assert.Equal(t, "/dev/video0", merged.String("device"))
	assert.Equal(t, int64(60), merged.Int("fps"))
}

func TestTransitionSelection(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.SetCurrentTransition("Fade"))
	current, all := st.Transitions()
	assert.Equal(t, "Fade", current)
	assert.Equal(t, []string{"Cut", "Fade"}, all)

	assert.ErrorIs(t, st.SetCurrentTransition("Wipe"), ErrTransitionNotFound)

	st.SetTransitionDuration(500)
	assert.Equal(t, int64(500), st.TransitionDuration())

	assert.Equal(t, []NotificationType{
		NotifyTransitionSwitched,
		NotifyTransitionDurationChanged,
	}, rec.types())
}

func TestStreamingLifecycleNotificationOrder(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.StartStreaming())
	assert.True(t, st.StreamingActive())
	assert.ErrorIs(t, st.StartStreaming(), ErrStreamingActive)

	require.NoError(t, st.StopStreaming())
	assert.False(t, st.StreamingActive())
	assert.ErrorIs(t, st.StopStreaming(), ErrStreamingInactive)

	assert.Equal(t, []NotificationType{
		NotifyStreamStarting,
		NotifyStreamStarted,
		NotifyStreamStopping,
		NotifyStreamStopped,
	}, rec.types())
}

func TestRecordingLifecycle(t *testing.T) {
	st, rec := newTestStudio()

	assert.ErrorIs(t, st.StopRecording(), ErrRecordingInactive)
	require.NoError(t, st.StartRecording())
	assert.ErrorIs(t, st.StartRecording(), ErrRecordingActive)
	require.NoError(t, st.StopRecording())

	assert.Equal(t, []NotificationType{
		NotifyRecordingStarting,
		NotifyRecordingStarted,
		NotifyRecordingStopping,
		NotifyRecordingStopped,
	}, rec.types())
}

func TestReplayBufferLifecycle(t *testing.T) {
	st, _ := newTestStudio()

	assert.ErrorIs(t, st.SaveReplayBuffer(), ErrReplayInactive)
	require.NoError(t, st.StartReplayBuffer())
	require.NoError(t, st.SaveReplayBuffer())
	require.NoError(t, st.StopReplayBuffer())
	assert.ErrorIs(t, st.StopReplayBuffer(), ErrReplayInactive)
}

func TestStreamSettingsOverlayVsReplace(t *testing.T) {
	st, _ := newTestStudio()

	first := document.New()
	first.SetString("server", "rtmp://a")
	first.SetString("key", "k1")
	serviceType, settings := st.SetStreamSettings("", first)
	assert.Equal(t, "rtmp_common", serviceType)
	assert.Equal(t, "rtmp://a", settings.String("server"))

	// same type overlays
	update := document.New()
	update.SetString("server", "rtmp://b")
	_, settings = st.SetStreamSettings("rtmp_common", update)
	assert.Equal(t, "rtmp://b", settings.String("server"))
	assert.Equal(t, "k1", settings.String("key"))

	// different type replaces wholesale
	custom := document.New()
	custom.SetString("server", "rtmp://custom")
	serviceType, settings = st.SetStreamSettings("rtmp_custom", custom)
	assert.Equal(t, "rtmp_custom", serviceType)
	assert.False(t, settings.Has("key"))
}

func TestStudioModeGatesPreviewOperations(t *testing.T) {
	st, _ := newTestStudio()

	_, err := st.PreviewScene()
	assert.ErrorIs(t, err, ErrStudioModeDisabled)
	assert.ErrorIs(t, st.SetPreviewScene("Main"), ErrStudioModeDisabled)
	assert.ErrorIs(t, st.TransitionToProgram(), ErrStudioModeDisabled)
}

func TestEnablingStudioModeSeedsPreviewWithProgram(t *testing.T) {
	st, _ := newTestStudio()
	require.NoError(t, st.SetCurrentScene("Main"))

	st.SetStudioMode(true)

	preview, err := st.PreviewScene()
	require.NoError(t, err)
	assert.Equal(t, "Main", preview.Name)
}

func TestTransitionToProgramEmitsBeginThenSwitch(t *testing.T) {
	st, rec := newTestStudio()
	st.SetStudioMode(true)
	require.NoError(t, st.SetPreviewScene("Standby"))
	rec.notifications = nil

	require.NoError(t, st.TransitionToProgram())

	require.Len(t, rec.notifications, 2)
	assert.Equal(t, NotifyTransitionBegan, rec.notifications[0].Type)
	assert.Equal(t, "Cut", rec.notifications[0].TransitionName)
	assert.Equal(t, int64(300), rec.notifications[0].Duration)

	assert.Equal(t, NotifySceneSwitched, rec.notifications[1].Type)
	assert.Equal(t, "Standby", rec.notifications[1].SceneName)
	assert.Equal(t, "Standby", st.CurrentScene().Name)
}

func TestToggleStudioModeNotifies(t *testing.T) {
	st, rec := newTestStudio()

	st.ToggleStudioMode()
	assert.True(t, st.StudioModeEnabled())
	st.ToggleStudioMode()
	assert.False(t, st.StudioModeEnabled())

	require.Len(t, rec.notifications, 2)
	assert.True(t, rec.notifications[0].Enabled)
	assert.False(t, rec.notifications[1].Enabled)
}

func TestProfilesAndCollections(t *testing.T) {
	st, rec := newTestStudio()

	require.NoError(t, st.SetCurrentProfile("Default"))
	assert.ErrorIs(t, st.SetCurrentProfile("Tournament"), ErrProfileNotFound)

	require.NoError(t, st.SetCurrentSceneCollection("Default"))
	assert.ErrorIs(t, st.SetCurrentSceneCollection("Other"), ErrCollectionNotFound)

	assert.Equal(t, []NotificationType{
		NotifyProfileChanged,
		NotifySceneCollectionChanged,
	}, rec.types())
}

func TestAccessorsReturnClones(t *testing.T) {
	st, _ := newTestStudio()

	scene := st.CurrentScene()
	scene.Items[0].Name = "tampered"

	fresh := st.CurrentScene()
	assert.Equal(t, "cam", fresh.Items[0].Name)
}

func TestShutdownNotifiesExiting(t *testing.T) {
	st, rec := newTestStudio()

	st.Shutdown()

	require.Len(t, rec.notifications, 1)
	assert.Equal(t, NotifyExiting, rec.notifications[0].Type)
}
