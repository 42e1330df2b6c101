// Package keylock provides a keyed try-lock: at most one holder per key, no
// waiting. Callers that lose the race are told immediately so that duplicate
// submissions can be rejected instead of queued.
package keylock

import "sync"

// KeyedMutex hands out exclusive, non-blocking locks per key.
// The zero value is ready to use.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]struct{})}
}

// TryLock acquires key if it is free. On success it returns an unlock
// function that is safe to call more than once.
func (m *KeyedMutex) TryLock(key string) (func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held == nil {
		m.held = make(map[string]struct{})
	}
	if _, busy := m.held[key]; busy {
		return nil, false
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, true
}
