package motion

import "sync"

// ring is a fixed-capacity buffer that overwrites its oldest entries.
type ring[T any] struct {
	buf []T
	w   int // write position
	len int // current fill level
	mu  sync.Mutex
}

func newRing[T any](size int) *ring[T] {
	if size < 1 {
		size = 1
	}
	return &ring[T]{buf: make([]T, size)}
}

func (r *ring[T]) push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.w] = v
	r.w = (r.w + 1) % len(r.buf)
	if r.len < len(r.buf) {
		r.len++
	}
}

// last returns up to n most recent entries, oldest first.
func (r *ring[T]) last(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.len {
		n = r.len
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	start := (r.w - n + len(r.buf)) % len(r.buf)
	for i := range n {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

func (r *ring[T]) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.len
}

func (r *ring[T]) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = 0
	r.len = 0
}
