package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/events/bus"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return NewHub(log)
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newTestHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{ID: "c1", UserID: "u1", hub: hub, send: make(chan []byte, 4)}
	hub.Register(client)
	waitForClients(t, hub, 1)

	hub.Broadcast(bus.NewEvent("task.created", "test", nil))

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("expected a non-empty payload")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast delivery")
	}
}

func TestHub_UnregisterAfterShutdownReturns(t *testing.T) {
	hub := newTestHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := &Client{ID: "c1", UserID: "u1", hub: hub, send: make(chan []byte, 4)}
	hub.Register(client)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)

	// A read pump exiting after shutdown must not hang on Unregister.
	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after hub shutdown")
	}
}
