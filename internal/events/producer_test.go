package events

import (
	"bytes"
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("writes successfully", func() {
			w := newTestWriter()
			ep := NewEventProducer(w, WithOutputTopic("portal.events"))

			err := ep.Write(context.TODO(), SubmissionMessageKind, bytes.NewReader([]byte("msg1")))
			Expect(err).To(BeNil())

			err = ep.Write(context.TODO(), FulfillmentMessageKind, bytes.NewReader([]byte("msg2")))
			Expect(err).To(BeNil())

			Eventually(w.Count, 2*time.Second).Should(Equal(2))

			events := w.Events()
			Expect(events[0].Kind).To(Equal(SubmissionMessageKind))
			Expect(events[0].Data).To(Equal([]byte("msg1")))
			Expect(events[1].Kind).To(Equal(FulfillmentMessageKind))

			ep.Close()
		})
	})
})

type testwriter struct {
	mu     sync.Mutex
	events []Event
}

func newTestWriter() *testwriter {
	return &testwriter{events: []Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	return nil
}

func (t *testwriter) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

func (t *testwriter) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}
