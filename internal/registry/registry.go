package registry

import (
	"log/slog"
	"sync"
)

// Registry tracks handles of type T keyed by port. It is safe for concurrent
// use; all methods take the internal mutex.
//
// A port is in one of three states: free, reserved (a launch is in flight),
// or occupied (a handle is stored). Reservations prevent the TOCTOU race
// where two concurrent launches on the same port both miss the Get check and
// spawn two processes.
type Registry[T any] struct {
	mu       sync.Mutex
	entries  map[int]T
	reserved map[int]chan struct{} // closed on Commit or Cancel
	closed   bool                  // set by Drain; Commit rejects afterwards
	log      *slog.Logger
}

// New creates a Registry ready for use.
// If logger is nil, slog.Default() is used as a fallback.
func New[T any](logger *slog.Logger) *Registry[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry[T]{
		entries:  make(map[int]T),
		reserved: make(map[int]chan struct{}),
		log:      logger,
	}
}

// Get returns the handle stored for port, if any.
func (r *Registry[T]) Get(port int) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[port]
	return v, ok
}

// TryReserve attempts to reserve port for an in-flight launch.
//
// If the port is occupied, it returns the existing handle with existing=true.
// If the port is already reserved by another launch, it returns that
// reservation's channel (closed when the other launch resolves) with
// reserved=false; callers should wait on it and retry. Otherwise the port is
// reserved for this caller and reserved=true is returned; the caller must
// resolve the reservation with Commit or Cancel.
func (r *Registry[T]) TryReserve(port int) (existing T, wait <-chan struct{}, reserved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[port]; ok {
		return v, nil, false
	}
	if ch, ok := r.reserved[port]; ok {
		r.log.Debug("port launch already in flight, waiting", "port", port)
		var zero T
		return zero, ch, false
	}
	r.reserved[port] = make(chan struct{})
	var zero T
	return zero, nil, true
}

// Commit stores the handle for a reserved port and resolves the reservation.
// Reports false when the registry was drained while the launch was in
// flight: the handle is not stored and the caller keeps ownership, so it
// must dispose of the handle itself. Panics if the port was not reserved,
// which indicates a protocol violation by the caller.
func (r *Registry[T]) Commit(port int, v T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.reserved[port]
	if !ok {
		panic("registry: Commit on unreserved port")
	}
	delete(r.reserved, port)
	close(ch)

	if r.closed {
		r.log.Debug("commit on drained registry rejected", "port", port)
		return false
	}
	r.entries[port] = v
	return true
}

// Cancel resolves a reservation without storing a handle, returning the port
// to the free state. No-op if the port is not reserved.
func (r *Registry[T]) Cancel(port int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.reserved[port]
	if !ok {
		return
	}
	delete(r.reserved, port)
	close(ch)
}

// Remove deletes the entry for port and returns it.
// Reports false if no entry was stored for port.
func (r *Registry[T]) Remove(port int) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[port]
	if ok {
		delete(r.entries, port)
	}
	return v, ok
}

// Drain removes and returns all entries and closes the registry: any launch
// still in flight has its Commit rejected, so no handle can slip in after
// the drain. Used by scoped cleanup to stop every tracked process exactly
// once.
func (r *Registry[T]) Drain() map[int]T {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	out := r.entries
	r.entries = make(map[int]T)
	return out
}

// Len returns the number of occupied ports. Reserved ports do not count.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
