package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/shortswipe/internal/app"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return h.Clients() == 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_Publish(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Publish(app.Event{ID: "evt-1", Action: "next-item", Outcome: "swipe-up", X: 100, Y: 230})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if msg.Type != "event" || msg.Event == nil {
		t.Fatalf("unexpected message %s", data)
	}
	if msg.Event.ID != "evt-1" || msg.Event.Action != "next-item" || msg.Event.Y != 230 {
		t.Errorf("unexpected event %+v", msg.Event)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	conn.Close()
	waitFor(t, func() bool { return h.Clients() == 0 })

	// Publishing with nobody listening is a no-op.
	h.Publish(app.Event{ID: "evt-2", Action: "toggle-playback"})
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Close()

	if n := h.Clients(); n != 0 {
		t.Errorf("expected no clients after Close, got %d", n)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
}
