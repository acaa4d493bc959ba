package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ricochet/internal/core/events/bus"
	"github.com/zeusync/ricochet/internal/core/feedback"
	"github.com/zeusync/ricochet/internal/core/observability/log"
	"github.com/zeusync/ricochet/internal/core/systems/physics"
)

func dialFeed(t *testing.T, s *httptest.Server, feed *FeedServer, want int) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(s.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool { return feed.Clients() == want }, time.Second, 5*time.Millisecond)
	return conn
}

func TestFeedBroadcastsFeedback(t *testing.T) {
	b := bus.New()
	feed, err := NewFeedServer(DefaultConfig(), b, log.NewNop())
	require.NoError(t, err)
	defer feed.Close()

	s := httptest.NewServer(feed)
	defer s.Close()

	first := dialFeed(t, s, feed, 1)
	second := dialFeed(t, s, feed, 2)

	sink := feedback.NewBusSink(b, "session-1", nil)
	sink.Notify(feedback.Event{Kind: feedback.KindWallHit, ProjectileID: 7, Position: physics.Vec2{X: 1, Y: 2}, Remaining: 2})

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "wall_hit", msg.Type)
		assert.Equal(t, "session-1", msg.Source)
		assert.Equal(t, feedback.KindWallHit, msg.Event.Kind)
		assert.Equal(t, uint64(7), msg.Event.ProjectileID)
		assert.Equal(t, physics.Vec2{X: 1, Y: 2}, msg.Event.Position)
		assert.Equal(t, 2, msg.Event.Remaining)
	}
}

func TestFeedIgnoresForeignEvents(t *testing.T) {
	b := bus.New()
	feed, err := NewFeedServer(DefaultConfig(), b, nil)
	require.NoError(t, err)
	defer feed.Close()
	s := httptest.NewServer(feed)
	defer s.Close()
	conn := dialFeed(t, s, feed, 1)

	require.NoError(t, b.Publish(bus.NewEvent("chat", "x", "hello")))
	feedback.NewBusSink(b, "s", nil).Notify(feedback.Event{Kind: feedback.KindSpawn, ProjectileID: 1})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, feedback.KindSpawn, msg.Event.Kind)
}

func TestFeedMaxClients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxClients = 1
	b := bus.New()
	feed, err := NewFeedServer(cfg, b, nil)
	require.NoError(t, err)
	defer feed.Close()
	s := httptest.NewServer(feed)
	defer s.Close()

	dialFeed(t, s, feed, 1)

	u := "ws" + strings.TrimPrefix(s.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestFeedViewerDisconnect(t *testing.T) {
	b := bus.New()
	feed, err := NewFeedServer(DefaultConfig(), b, nil)
	require.NoError(t, err)
	defer feed.Close()
	s := httptest.NewServer(feed)
	defer s.Close()

	conn := dialFeed(t, s, feed, 1)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return feed.Clients() == 0 }, time.Second, 5*time.Millisecond)
}

func TestFeedLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	b := bus.New()
	feed, err := NewFeedServer(cfg, b, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, feed.Stop(context.Background()), ErrServerNotRunning)
	require.NoError(t, feed.Start(context.Background()))
	assert.ErrorIs(t, feed.Start(context.Background()), ErrServerAlreadyRunning)
	require.NotNil(t, feed.Addr())

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+feed.Addr().String()+cfg.Path, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, feed.Close())
	assert.Zero(t, feed.Clients())
	assert.ErrorIs(t, feed.Start(context.Background()), ErrServerClosed)
}
