package history

// Ring keeps at most Cap items, newest first. Pushing beyond capacity drops the oldest.
type Ring[T any] struct {
	items []T
	cap   int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Push prepends v and returns the items evicted to stay within capacity.
func (r *Ring[T]) Push(v T) []T {
	r.items = append(r.items, v)
	copy(r.items[1:], r.items[:len(r.items)-1])
	r.items[0] = v
	if len(r.items) <= r.cap {
		return nil
	}
	evicted := append([]T(nil), r.items[r.cap:]...)
	clear(r.items[r.cap:])
	r.items = r.items[:r.cap]
	return evicted
}

// Items returns a copy, newest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Ring[T]) Len() int { return len(r.items) }
func (r *Ring[T]) Cap() int { return r.cap }
