package pubsub

import "sync"

// Signal dispatches values synchronously to connected handlers, in connection
// order, on the caller's goroutine. It is the input-event counterpart of Broker:
// handlers run inside the Update that fired the signal, so they may mutate model
// state directly.
type Signal[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]func(T)
	order    []uint64
}

// NewSignal creates an empty signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{handlers: make(map[uint64]func(T))}
}

// Connection is a handle to one connected handler.
type Connection struct {
	once       sync.Once
	disconnect func()
}

// Disconnect removes the handler. Calling it again is a no-op.
func (c *Connection) Disconnect() {
	if c == nil {
		return
	}
	c.once.Do(c.disconnect)
}

// Connect registers fn and returns its connection.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.handlers[id] = fn
	s.order = append(s.order, id)

	return &Connection{disconnect: func() { s.remove(id) }}
}

func (s *Signal[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.handlers, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Fire calls every handler connected at the time of the call. Handlers that
// disconnect during dispatch are skipped if they have not run yet.
func (s *Signal[T]) Fire(value T) {
	s.mu.Lock()
	ids := make([]uint64, len(s.order))
	copy(ids, s.order)
	s.mu.Unlock()

	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.handlers[id]
		s.mu.Unlock()
		if ok {
			fn(value)
		}
	}
}

// ListenerCount returns the number of connected handlers.
func (s *Signal[T]) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}
