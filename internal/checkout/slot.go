package checkout

import "sync"

// Slot holds at most one value that is handed over exactly once. It lives in
// memory only and does not survive a restart.
type Slot[T any] struct {
	mu    sync.Mutex
	value *T
}

// Put replaces any value already held.
func (s *Slot[T]) Put(value T) {
	s.mu.Lock()
	s.value = &value
	s.mu.Unlock()
}

func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == nil {
		var zero T
		return zero, false
	}

	return *s.value, true
}

// Take returns the value and empties the slot.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.value == nil {
		var zero T
		return zero, false
	}

	value := *s.value
	s.value = nil

	return value, true
}

func (s *Slot[T]) Clear() {
	s.mu.Lock()
	s.value = nil
	s.mu.Unlock()
}
