package event

import (
	"context"
	"errors"
	"sync"
)

const DefaultBuffer = 64

// ErrClosed is returned by Send once the consumer has closed the channel.
// Events sent after that point are dropped and the caller is told so.
var ErrClosed = errors.New("event channel closed")

type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// Channel is a bounded many-producer/single-consumer queue. Send blocks while
// the buffer is full until the consumer catches up, ctx ends, or the consumer
// closes the channel.
type Channel struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Channel{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

func (c *Channel) Send(ctx context.Context, ev Event) error {
	if ev == nil {
		return errors.New("event is nil")
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is the receive side; only the single consumer reads from it.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Close is called by the consumer when it stops reading.
func (c *Channel) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Closed is closed after Close has been called.
func (c *Channel) Closed() <-chan struct{} {
	return c.done
}
