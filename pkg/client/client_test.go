package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
	"github.com/castsuite/castbridge/internal/ws"
)

func startServer(t *testing.T, password string) (*ws.Server, *studio.Studio) {
	t.Helper()

	cfg := config.Default()
	if password != "" {
		require.NoError(t, cfg.SetPassword(password))
	}

	st := studio.New()
	st.AddSource("cam", "camera_input", nil)
	st.AddScene("Main")
	st.AddScene("Standby")
	require.NoError(t, st.AddSceneItem("Main", "cam"))

	server := ws.NewServer(cfg, st)
	require.NoError(t, server.Start(0))
	t.Cleanup(server.Stop)
	return server, st
}

func connectClient(t *testing.T, server *ws.Server, password string) *Client {
	t.Helper()

	c := New()
	require.NoError(t, c.Connect(server.Addr()))
	require.NoError(t, c.Authenticate(password))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRequestResponse(t *testing.T) {
	server, _ := startServer(t, "")
	c := connectClient(t, server, "")

	info, err := c.Request("GetVersion", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", info.String("status"))
	assert.Equal(t, 1.1, info.Float("version"))
}

func TestConcurrentRequestsCorrelate(t *testing.T) {
	server, _ := startServer(t, "")
	c := connectClient(t, server, "")

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			response, err := c.Request("GetSceneList", nil)
			if err == nil && response.String("current-scene") != "Main" {
				err = assert.AnError
			}
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		assert.NoError(t, <-done)
	}
}

func TestServerErrorSurfaced(t *testing.T) {
	server, _ := startServer(t, "")
	c := connectClient(t, server, "")

	fields := document.New()
	fields.SetString("scene-name", "ghost")
	_, err := c.Request("SetCurrentScene", fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested scene does not exist")
}

func TestAuthenticateHandshake(t *testing.T) {
	server, _ := startServer(t, "sekrit")
	c := connectClient(t, server, "sekrit")

	list, err := c.Request("GetSceneList", nil)
	require.NoError(t, err)
	assert.Equal(t, "Main", list.String("current-scene"))
}

func TestAuthenticateWrongPassword(t *testing.T) {
	server, _ := startServer(t, "sekrit")

	c := New()
	require.NoError(t, c.Connect(server.Addr()))
	defer func() { _ = c.Close() }()

	err := c.Authenticate("wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication Failed.")
}

func TestUnauthenticatedRequestsBlocked(t *testing.T) {
	server, _ := startServer(t, "sekrit")

	c := New()
	require.NoError(t, c.Connect(server.Addr()))
	defer func() { _ = c.Close() }()

	_, err := c.Request("GetSceneList", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Authenticated")
}

func TestEventsDelivered(t *testing.T) {
	server, _ := startServer(t, "")
	c := connectClient(t, server, "")

	// let the hub register the session before mutating
	time.Sleep(50 * time.Millisecond)

	fields := document.New()
	fields.SetString("scene-name", "Standby")
	_, err := c.Request("SetCurrentScene", fields)
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-c.Events():
			require.True(t, ok, "event stream closed before the event arrived")
			if event.String("update-type") == "SwitchScenes" {
				assert.Equal(t, "Standby", event.String("scene-name"))
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for SwitchScenes")
		}
	}
}

func TestRequestAfterCloseFails(t *testing.T) {
	server, _ := startServer(t, "")

	c := New()
	require.NoError(t, c.Connect(server.Addr()))
	require.NoError(t, c.Close())

	_, err := c.Request("GetVersion", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDoneClosesOnServerShutdown(t *testing.T) {
	server, _ := startServer(t, "")

	c := New()
	require.NoError(t, c.Connect(server.Addr()))
	defer func() { _ = c.Close() }()

	server.Stop()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after server shutdown")
	}
}
