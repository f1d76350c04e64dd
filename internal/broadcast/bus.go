package broadcast

import (
	"sync"
	"sync/atomic"
)

type MessageType string

// TypeUpdate is the only message on the wire: it carries no payload, and
// receivers must re-pull the full snapshot from the store rather than trust
// their in-memory copy.
const TypeUpdate MessageType = "update"

type Message struct {
	Type MessageType
}

// Bus fans a message out to every subscriber. Each running app instance
// subscribes once; a mutation in one instance invalidates the cached task
// view of all the others. Sends never block: a subscriber that is not
// draining only bumps the dropped counter.
type Bus struct {
	mu      sync.Mutex
	subs    []chan Message
	closed  bool
	dropped uint64
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(bufferSize int) <-chan Message {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	ch := make(chan Message, bufferSize)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
			atomic.AddUint64(&b.dropped, 1)
		}
	}
}

func (b *Bus) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
