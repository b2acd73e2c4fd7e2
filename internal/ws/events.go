package ws

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
)

// statusInterval matches the frontend's bitrate update cadence.
const statusInterval = 2 * time.Second

// Broadcaster turns studio notifications into event documents on the shared
// broadcast queue. Notifications arrive synchronously from whichever
// goroutine mutated the studio; the only work done on that goroutine is
// formatting and a channel push.
type Broadcaster struct {
	cfg    *config.Config
	studio *studio.Studio
	hub    *Hub

	heartbeatActive atomic.Bool
	pulse           bool

	mu          sync.Mutex
	streamStart time.Time
	recStart    time.Time

	stopTicker chan struct{}
	tickerDone chan struct{}
}

func NewBroadcaster(cfg *config.Config, st *studio.Studio, hub *Hub) *Broadcaster {
	b := &Broadcaster{
		cfg:    cfg,
		studio: st,
		hub:    hub,
	}
	st.Subscribe(b.OnNotification)
	return b
}

// Start launches the periodic StreamStatus/Heartbeat ticker.
func (b *Broadcaster) Start() {
	b.stopTicker = make(chan struct{})
	b.tickerDone = make(chan struct{})
	go b.runTicker()
}

func (b *Broadcaster) Stop() {
	if b.stopTicker == nil {
		return
	}
	close(b.stopTicker)
	<-b.tickerDone
	b.stopTicker = nil
}

func (b *Broadcaster) runTicker() {
	defer close(b.tickerDone)

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.streamStatus()
			b.heartbeat()
		case <-b.stopTicker:
			return
		}
	}
}

// SetHeartbeat enables or disables the periodic Heartbeat event.
func (b *Broadcaster) SetHeartbeat(enabled bool) {
	b.heartbeatActive.Store(enabled)
}

func (b *Broadcaster) HeartbeatActive() bool {
	return b.heartbeatActive.Load()
}

// timecode formats an elapsed duration as HH:MM:SS.mmm.
func timecode(elapsed time.Duration) string {
	ms := elapsed.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// StreamTimecode returns elapsed time since the stream started, or "" when
// not streaming.
func (b *Broadcaster) StreamTimecode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamStart.IsZero() {
		return ""
	}
	return timecode(time.Since(b.streamStart))
}

func (b *Broadcaster) RecTimecode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.recStart.IsZero() {
		return ""
	}
	return timecode(time.Since(b.recStart))
}

func (b *Broadcaster) streamSeconds() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamStart.IsZero() {
		return 0
	}
	return int64(time.Since(b.streamStart).Seconds())
}

func (b *Broadcaster) recSeconds() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.recStart.IsZero() {
		return 0
	}
	return int64(time.Since(b.recStart).Seconds())
}

// broadcastUpdate builds the canonical event envelope and queues it.
func (b *Broadcaster) broadcastUpdate(updateType string, fields *document.Document) {
	event := document.New()
	event.SetString(KeyUpdateType, updateType)

	if tc := b.StreamTimecode(); tc != "" {
		event.SetString("stream-timecode", tc)
	}
	if tc := b.RecTimecode(); tc != "" {
		event.SetString("rec-timecode", tc)
	}
	event.Apply(fields)

	if b.cfg.DebugEnabled() {
		log.Printf("[Events] update << %s", event.JSON())
	}
	b.hub.Broadcast(event)
}

// OnNotification maps one studio notification to its wire event.
func (b *Broadcaster) OnNotification(n studio.Notification) {
	switch n.Type {
	case studio.NotifySceneSwitched:
		fields := document.New()
		fields.SetString("scene-name", n.SceneName)
		fields.SetArray("sources", sceneItemDocs(n.Items))
		b.broadcastUpdate(EventSwitchScenes, fields)

	case studio.NotifySceneListChanged:
		b.broadcastUpdate(EventScenesChanged, nil)

	case studio.NotifySceneCollectionChanged:
		b.broadcastUpdate(EventSceneCollectionChanged, nil)

	case studio.NotifySceneCollectionListChanged:
		b.broadcastUpdate(EventSceneCollectionListChanged, nil)

	case studio.NotifyTransitionSwitched:
		fields := document.New()
		fields.SetString("transition-name", n.TransitionName)
		b.broadcastUpdate(EventSwitchTransition, fields)

	case studio.NotifyTransitionListChanged:
		b.broadcastUpdate(EventTransitionListChanged, nil)

	case studio.NotifyTransitionDurationChanged:
		fields := document.New()
		fields.SetInt("new-duration", n.Duration)
		b.broadcastUpdate(EventTransitionDurationChanged, fields)

	case studio.NotifyTransitionBegan:
		fields := document.New()
		fields.SetString("name", n.TransitionName)
		fields.SetInt("duration", n.Duration)
		b.broadcastUpdate(EventTransitionBegin, fields)

	case studio.NotifyProfileChanged:
		b.broadcastUpdate(EventProfileChanged, nil)

	case studio.NotifyProfileListChanged:
		b.broadcastUpdate(EventProfileListChanged, nil)

	case studio.NotifyStreamStarting:
		fields := document.New()
		fields.SetBool("preview-only", false)
		b.broadcastUpdate(EventStreamStarting, fields)

	case studio.NotifyStreamStarted:
		b.mu.Lock()
		b.streamStart = time.Now()
		b.mu.Unlock()
		b.broadcastUpdate(EventStreamStarted, nil)

	case studio.NotifyStreamStopping:
		fields := document.New()
		fields.SetBool("preview-only", false)
		b.broadcastUpdate(EventStreamStopping, fields)

	case studio.NotifyStreamStopped:
		b.mu.Lock()
		b.streamStart = time.Time{}
		b.mu.Unlock()
		b.broadcastUpdate(EventStreamStopped, nil)

	case studio.NotifyRecordingStarting:
		b.broadcastUpdate(EventRecordingStarting, nil)

	case studio.NotifyRecordingStarted:
		b.mu.Lock()
		b.recStart = time.Now()
		b.mu.Unlock()
		b.broadcastUpdate(EventRecordingStarted, nil)

	case studio.NotifyRecordingStopping:
		b.broadcastUpdate(EventRecordingStopping, nil)

	case studio.NotifyRecordingStopped:
		b.mu.Lock()
		b.recStart = time.Time{}
		b.mu.Unlock()
		b.broadcastUpdate(EventRecordingStopped, nil)

	case studio.NotifyReplayStarting:
		b.broadcastUpdate(EventReplayStarting, nil)

	case studio.NotifyReplayStarted:
		b.broadcastUpdate(EventReplayStarted, nil)

	case studio.NotifyReplayStopping:
		b.broadcastUpdate(EventReplayStopping, nil)

	case studio.NotifyReplayStopped:
		b.broadcastUpdate(EventReplayStopped, nil)

	case studio.NotifyStudioModeSwitched:
		fields := document.New()
		fields.SetBool("new-state", n.Enabled)
		b.broadcastUpdate(EventStudioModeSwitched, fields)

	case studio.NotifyPreviewSceneChanged:
		fields := document.New()
		fields.SetString("scene-name", n.SceneName)
		fields.SetArray("sources", sceneItemDocs(n.Items))
		b.broadcastUpdate(EventPreviewSceneChanged, fields)

	case studio.NotifySceneItemsReordered:
		fields := document.New()
		fields.SetString("name", n.SceneName)
		fields.SetArray("sources", sceneItemDocs(n.Items))
		b.broadcastUpdate(EventSourceOrderChanged, fields)

	case studio.NotifySceneItemAdded:
		fields := document.New()
		fields.SetString("scene-name", n.SceneName)
		fields.SetString("item-name", n.ItemName)
		b.broadcastUpdate(EventSceneItemAdded, fields)

	case studio.NotifySceneItemRemoved:
		fields := document.New()
		fields.SetString("scene-name", n.SceneName)
		fields.SetString("item-name", n.ItemName)
		b.broadcastUpdate(EventSceneItemRemoved, fields)

	case studio.NotifySceneItemVisibility:
		fields := document.New()
		fields.SetString("scene-name", n.SceneName)
		fields.SetString("item-name", n.ItemName)
		fields.SetBool("item-visible", n.Visible)
		b.broadcastUpdate(EventSceneItemVisibilityChanged, fields)

	case studio.NotifyExiting:
		b.broadcastUpdate(EventExiting, nil)

	default:
		log.Printf("[Events] unhandled studio notification %q", n.Type)
	}
}

// streamStatus emits the periodic StreamStatus event while streaming.
func (b *Broadcaster) streamStatus() {
	if !b.studio.StreamingActive() {
		return
	}

	stats := b.studio.StreamStats()

	fields := document.New()
	fields.SetBool("streaming", true)
	fields.SetBool("recording", b.studio.RecordingActive())
	fields.SetInt("bytes-per-sec", stats.BytesPerSec)
	fields.SetInt("kbits-per-sec", stats.BytesPerSec*8/1024)
	fields.SetInt("total-stream-time", b.streamSeconds())
	fields.SetInt("num-total-frames", stats.TotalFrames)
	fields.SetInt("num-dropped-frames", stats.DroppedFrames)
	fields.SetFloat("fps", stats.FPS)
	fields.SetFloat("strain", stats.Strain)
	// retrocompat with the first remote-control protocol
	fields.SetBool("preview-only", false)

	b.broadcastUpdate(EventStreamStatus, fields)
}

// heartbeat emits the periodic Heartbeat event when enabled via
// SetHeartbeat.
func (b *Broadcaster) heartbeat() {
	if !b.heartbeatActive.Load() {
		return
	}

	b.pulse = !b.pulse
	stats := b.studio.StreamStats()
	currentProfile, _ := b.studio.Profiles()

	fields := document.New()
	fields.SetBool("pulse", b.pulse)
	fields.SetString("current-profile", currentProfile)
	fields.SetString("current-scene", b.studio.CurrentScene().Name)

	streaming := b.studio.StreamingActive()
	fields.SetBool("streaming", streaming)
	if streaming {
		fields.SetInt("total-stream-time", b.streamSeconds())
		fields.SetInt("total-stream-bytes", stats.TotalBytes)
		fields.SetInt("total-stream-frames", stats.TotalFrames)
	}

	recording := b.studio.RecordingActive()
	fields.SetBool("recording", recording)
	if recording {
		fields.SetInt("total-record-time", b.recSeconds())
		fields.SetInt("total-record-bytes", stats.TotalBytes)
		fields.SetInt("total-record-frames", stats.TotalFrames)
	}

	b.broadcastUpdate(EventHeartbeat, fields)
}
