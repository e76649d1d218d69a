package events

import "sync"

type message struct {
	Kind string
	Data []byte
}

// buffer is an unbounded FIFO queue guarded by a mutex.
type buffer struct {
	mu    sync.Mutex
	queue []*message
}

func newBuffer() *buffer {
	return &buffer{}
}

func (b *buffer) PushBack(msg *message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue = append(b.queue, msg)
	return nil
}

func (b *buffer) Pop() *message {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return nil
	}
	msg := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	return msg
}

func (b *buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}
