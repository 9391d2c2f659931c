package core

import "sync"

// FlightRegistry provides keyed mutual exclusion for asynchronous operations:
// at most one in-flight operation per key. Decrypts on distinct sessions stay
// independent instead of sharing one global busy flag.
type FlightRegistry struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewFlightRegistry() *FlightRegistry {
	return &FlightRegistry{
		inFlight: make(map[string]struct{}),
	}
}

// TryAcquire claims the key, returning false if an operation already holds it.
func (r *FlightRegistry) TryAcquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inFlight[key]; ok {
		return false
	}

	r.inFlight[key] = struct{}{}
	return true
}

// Release frees the key. Safe to call for a key that is not held.
func (r *FlightRegistry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, key)
}

// Active reports whether an operation currently holds the key.
func (r *FlightRegistry) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.inFlight[key]
	return ok
}
