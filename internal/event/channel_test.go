package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestChannelDeliversInOrderPerProducer(t *testing.T) {
	ch := NewChannel(4)
	ctx := context.Background()

	if err := ch.Send(ctx, StatusCommand{}); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if err := ch.Send(ctx, ShowRule{Name: "spammer"}); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	first := <-ch.Events()
	if first.Type() != TypeStatus {
		t.Fatalf("expected status first, got %s", first.Type())
	}
	second := <-ch.Events()
	show, ok := second.(ShowRule)
	if !ok || show.Name != "spammer" {
		t.Fatalf("unexpected second event %#v", second)
	}
}

func TestChannelManyProducers(t *testing.T) {
	ch := NewChannel(1)
	ctx := context.Background()

	const producers = 8
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ch.Send(ctx, ListRules{}); err != nil {
				t.Errorf("Send error: %v", err)
			}
		}()
	}

	for i := 0; i < producers; i++ {
		select {
		case ev := <-ch.Events():
			if ev.Type() != TypeListRules {
				t.Fatalf("unexpected event %s", ev.Type())
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d events", i)
		}
	}
	wg.Wait()
}

func TestChannelClosedReceiver(t *testing.T) {
	ch := NewChannel(1)
	ch.Close()
	ch.Close()

	err := ch.Send(context.Background(), StatusCommand{})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestChannelCloseUnblocksFullSend(t *testing.T) {
	ch := NewChannel(1)
	if err := ch.Send(context.Background(), StatusCommand{}); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	result := make(chan error, 1)
	go func() {
		result <- ch.Send(context.Background(), StatusCommand{})
	}()

	ch.Close()
	select {
	case err := <-result:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked send was not released by Close")
	}
}

func TestChannelSendHonoursContext(t *testing.T) {
	ch := NewChannel(1)
	if err := ch.Send(context.Background(), StatusCommand{}); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := ch.Send(ctx, StatusCommand{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
