package websocket

import (
	"testing"
	"time"
)

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{hub: hub, send: make(chan []byte, buffer)}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newTestClient(hub, 4)
	b := newTestClient(hub, 4)
	hub.register <- a
	hub.register <- b

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("ClientCount = %d, want 2", got)
	}

	hub.Broadcast([]byte(`{"stream":"blueline.events"}`))

	for name, c := range map[string]*Client{"a": a, "b": b} {
		select {
		case msg := <-c.send:
			if string(msg) != `{"stream":"blueline.events"}` {
				t.Errorf("client %s got %q", name, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s never received broadcast", name)
		}
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newTestClient(hub, 4)
	hub.register <- c
	hub.unregister <- c

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("ClientCount = %d, want 0", got)
	}

	// The send channel is closed on unregister so writePump exits.
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := newTestClient(hub, 1)
	hub.register <- slow

	// Fill the buffer, then broadcast again: the second message can't be
	// delivered and the client is dropped.
	hub.Broadcast([]byte("one"))
	hub.Broadcast([]byte("two"))

	deadline := time.After(time.Second)
	for {
		if hub.ClientCount() == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("slow client never dropped")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
