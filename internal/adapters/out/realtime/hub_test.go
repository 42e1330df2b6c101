package realtime_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fieldservice/internal/adapters/out/realtime"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHub() *realtime.Hub {
	return realtime.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHub_SendReachesOnlyObserversOfTheJob(t *testing.T) {
	hub := newHub()
	watched := kernel.NewUUID()
	a := hub.Subscribe(watched)
	b := hub.Subscribe(watched)
	other := hub.Subscribe(kernel.NewUUID())

	hub.Send(t.Context(), watched, ports.ChannelEvent{Name: ports.EventJobChanged, Payload: map[string]string{"to": "VISITED"}})

	for _, sub := range []*realtime.Subscription{a, b} {
		select {
		case msg := <-sub.Messages():
			assert.JSONEq(t, `{"event":"job.changed","data":{"to":"VISITED"}}`, string(msg))
		default:
			t.Fatal("event not delivered")
		}
	}
	assert.Empty(t, other.Messages())
}

func TestHub_SlowObserverDoesNotBlock(t *testing.T) {
	hub := newHub()
	id := kernel.NewUUID()
	sub := hub.Subscribe(id)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			hub.Send(context.Background(), id, ports.ChannelEvent{Name: ports.EventLocationUpdate})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full subscriber")
	}
	assert.Len(t, sub.Messages(), cap(sub.Messages()))
}

func TestHub_Close(t *testing.T) {
	hub := newHub()
	id := kernel.NewUUID()
	sub := hub.Subscribe(id)
	require.Equal(t, 1, hub.Subscribers(id))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers(id))
	_, open := <-sub.Messages()
	assert.False(t, open)
	assert.NotPanics(t, func() {
		hub.Send(t.Context(), id, ports.ChannelEvent{Name: ports.EventJobChanged})
	})
}

func TestHub_ServeWebSocket(t *testing.T) {
	hub := newHub()
	id := kernel.NewUUID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWebSocket(w, r, id)
	}))
	defer server.Close()

	conn, _, _, err := ws.Dial(t.Context(), "ws"+strings.TrimPrefix(server.URL, "http"))
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(id) == 1 }, time.Second, 5*time.Millisecond)
	hub.Send(t.Context(), id, ports.ChannelEvent{
		Name:    ports.EventTelemetryError,
		Payload: map[string]string{"cause": "TIMEOUT"},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	data, err := wsutil.ReadServerText(conn)
	require.NoError(t, err)
	var envelope struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, ports.EventTelemetryError, envelope.Event)
	assert.Equal(t, "TIMEOUT", envelope.Data["cause"])

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Subscribers(id) == 0 }, time.Second, 5*time.Millisecond)
}
