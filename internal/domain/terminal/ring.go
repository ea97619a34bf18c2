package terminal

// Ring is a fixed-capacity circular buffer. Once full, Push overwrites the
// oldest item. A Ring with capacity zero discards everything.
type Ring[T any] struct {
	buffer []T
	head   int
	tail   int
	size   int
}

// NewRing creates a ring holding at most capacity items.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buffer: make([]T, max(capacity, 0))}
}

// Push appends an item, evicting the oldest one when full.
func (r *Ring[T]) Push(item T) {
	if len(r.buffer) == 0 {
		return
	}
	r.buffer[r.head] = item
	r.head = (r.head + 1) % len(r.buffer)

	if r.size < len(r.buffer) {
		r.size++
	} else {
		r.tail = (r.tail + 1) % len(r.buffer)
	}
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return len(r.buffer) }

// At returns the i-th item, oldest first.
func (r *Ring[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= r.size {
		return zero, false
	}
	return r.buffer[(r.tail+i)%len(r.buffer)], true
}

// All returns all items oldest first.
func (r *Ring[T]) All() []T {
	if r.size == 0 {
		return nil
	}
	result := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		result[i] = r.buffer[(r.tail+i)%len(r.buffer)]
	}
	return result
}

// Clear drops every item.
func (r *Ring[T]) Clear() {
	clear(r.buffer)
	r.head, r.tail, r.size = 0, 0, 0
}
