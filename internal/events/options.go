package events

import "time"

type ProducerOption func(e *EventProducer)

// WithOutputTopic overrides the topic every event is written to.
func WithOutputTopic(topic string) ProducerOption {
	return func(e *EventProducer) {
		e.topic = topic
	}
}

// WithCloseTimeout bounds how long Close waits for the writer to drain.
func WithCloseTimeout(timeout time.Duration) ProducerOption {
	return func(e *EventProducer) {
		e.closeTimeout = timeout
	}
}
