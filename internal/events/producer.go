package events

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Writer ships events to the outside world.
type Writer interface {
	Write(ctx context.Context, topic string, e Event) error
	Close(ctx context.Context) error
}

// EventProducer decouples callers from the writer: events are queued in an
// in-memory buffer and drained by a single background goroutine, so a slow
// writer never blocks a request.
type EventProducer struct {
	buffer       *buffer
	wakeCh       chan struct{}
	doneCh       chan struct{}
	writer       Writer
	topic        string
	closeTimeout time.Duration
}

func NewEventProducer(w Writer, opts ...ProducerOption) *EventProducer {
	ep := &EventProducer{
		buffer:       newBuffer(),
		wakeCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		writer:       w,
		topic:        defaultTopic,
		closeTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(ep)
	}

	go ep.run()
	return ep
}

func (ep *EventProducer) Write(ctx context.Context, kind string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	wasEmpty := ep.buffer.Size() == 0
	if err := ep.buffer.PushBack(&message{Kind: kind, Data: data}); err != nil {
		return err
	}

	if wasEmpty {
		// the drain goroutine sleeps on an empty buffer; wake it
		ep.wakeCh <- struct{}{}
	}
	return nil
}

func (ep *EventProducer) Close() error {
	closeCtx, cancel := context.WithTimeout(context.Background(), ep.closeTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(closeCtx)
	g.Go(func() error {
		ep.doneCh <- struct{}{}
		return ep.writer.Close(ctx)
	})
	if err := g.Wait(); err != nil {
		zap.S().Named("event_producer").Errorf("event producer closed with error: %s", err)
		return err
	}

	zap.S().Named("event_producer").Info("event producer closed")
	return nil
}

func (ep *EventProducer) run() {
	for {
		select {
		case <-ep.doneCh:
			return
		default:
		}

		if ep.buffer.Size() == 0 {
			select {
			case <-ep.wakeCh:
			case <-ep.doneCh:
				return
			}
		}

		msg := ep.buffer.Pop()
		if msg == nil {
			continue
		}

		e := Event{
			ID:   uuid.NewString(),
			Kind: msg.Kind,
			Time: time.Now(),
			Data: msg.Data,
		}
		if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
			zap.S().Named("event_producer").Errorw("failed to send event", "error", err, "event", e)
		}
	}
}
