package events

import (
	"context"

	"go.uber.org/zap"
)

// StdoutWriter logs events instead of shipping them. Used in dev and tests.
type StdoutWriter struct{}

func (s *StdoutWriter) Write(ctx context.Context, topic string, e Event) error {
	zap.S().Named("stdout_writer").Infow("event written", "topic", topic, "event", e)
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}
