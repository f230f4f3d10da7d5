package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

func dial(t *testing.T, hub *Hub, recipient string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, recipient)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_DeliverToRecipient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	seeker := dial(t, hub, "seeker-1")
	other := dial(t, hub, "seeker-2")
	waitForClients(t, hub, 2)

	ev, _ := notification.New("seeker-1", "Your CV was accepted", time.Now())
	if err := hub.Deliver(context.Background(), ev); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	_ = seeker.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := seeker.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ID != ev.ID() || msg.Message != "Your CV was accepted" || msg.Type != "notification" {
		t.Errorf("message = %+v", msg)
	}

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("other recipient must not receive the event")
	}
}

func TestHub_DeliverWithoutClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ev, _ := notification.New("nobody", "m", time.Now())
	if err := hub.Deliver(context.Background(), ev); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := dial(t, hub, "seeker-1")
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := dial(t, hub, "seeker-1")
	waitForClients(t, hub, 1)

	hub.Close()
	if hub.ClientCount() != 0 {
		t.Error("expected no clients after close")
	}
	if err := hub.HealthCheck(context.Background()); err == nil {
		t.Error("expected health error after close")
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
		t.Errorf("expected close frame, got %v", err)
	}
}
