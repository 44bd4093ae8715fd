package bus

import (
	"context"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/common/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "text", OutputPath: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return log
}

func waitForEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_PublishDelivers(t *testing.T) {
	b := NewMemoryEventBus(testLogger(t))
	defer b.Close()

	received := make(chan *Event, 1)
	_, err := b.Subscribe("board.created", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	event := NewEvent("board.created", "test", map[string]interface{}{"board_id": "b1"})
	if err := b.Publish(context.Background(), "board.created", event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got := waitForEvent(t, received)
	if got.Type != "board.created" {
		t.Errorf("expected type board.created, got %s", got.Type)
	}
	if got.Data["board_id"] != "b1" {
		t.Errorf("expected board_id b1, got %v", got.Data["board_id"])
	}
}

func TestMemoryEventBus_WildcardSubscription(t *testing.T) {
	b := NewMemoryEventBus(testLogger(t))
	defer b.Close()

	received := make(chan *Event, 2)
	_, err := b.Subscribe("task.*", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ctx := context.Background()
	if err := b.Publish(ctx, "task.created", NewEvent("task.created", "test", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.Publish(ctx, "board.created", NewEvent("board.created", "test", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got := waitForEvent(t, received)
	if got.Type != "task.created" {
		t.Errorf("expected task.created, got %s", got.Type)
	}

	select {
	case e := <-received:
		t.Errorf("unexpected event delivered: %s", e.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryEventBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewMemoryEventBus(testLogger(t))
	defer b.Close()

	received := make(chan *Event, 1)
	sub, err := b.Subscribe("column.updated", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := sub.Unsubscribe(); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if sub.IsValid() {
		t.Error("expected subscription to be invalid after unsubscribe")
	}

	if err := b.Publish(context.Background(), "column.updated", NewEvent("column.updated", "test", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case e := <-received:
		t.Errorf("unexpected event after unsubscribe: %s", e.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	b := NewMemoryEventBus(testLogger(t))
	b.Close()

	if b.IsConnected() {
		t.Error("expected closed bus to report disconnected")
	}
	if err := b.Publish(context.Background(), "board.created", NewEvent("board.created", "test", nil)); err == nil {
		t.Error("expected publish on closed bus to fail")
	}
}
