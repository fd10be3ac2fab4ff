// Package taglist provides the bounded, double-ended tag sequence a register
// file cache keeps for each stream.
package taglist

// A List is a ring buffer with a fixed capacity. Position 0 is the head (the
// most recently pushed element) and position Len()-1 is the tail (the oldest
// one).
type List[T any] struct {
	elements []T
	head     int
	size     int
}

// New creates an empty list that can hold up to capacity elements.
func New[T any](capacity int) *List[T] {
	if capacity < 0 {
		panic("taglist: negative capacity")
	}

	return &List[T]{
		elements: make([]T, capacity),
	}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.size
}

// Cap returns the maximum number of elements the list can hold.
func (l *List[T]) Cap() int {
	return len(l.elements)
}

// IsFull returns true if no more element can be pushed.
func (l *List[T]) IsFull() bool {
	return l.size >= len(l.elements)
}

// PushFront adds an element at the head. Pushing into a full list panics.
func (l *List[T]) PushFront(e T) {
	if l.IsFull() {
		panic("taglist: push into a full list")
	}

	l.head = l.wrap(l.head - 1)
	l.elements[l.head] = e
	l.size++
}

// PopBack removes and returns the tail element. Popping an empty list panics.
func (l *List[T]) PopBack() T {
	if l.size == 0 {
		panic("taglist: pop from an empty list")
	}

	idx := l.wrap(l.head + l.size - 1)
	e := l.elements[idx]

	var zero T
	l.elements[idx] = zero
	l.size--

	return e
}

// Back returns the tail element without removing it.
func (l *List[T]) Back() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}

	return l.At(l.size - 1), true
}

// At returns the element at position i, counting from the head.
func (l *List[T]) At(i int) T {
	if i < 0 || i >= l.size {
		panic("taglist: index out of range")
	}

	return l.elements[l.wrap(l.head+i)]
}

// Find returns the position of the first element, from head to tail, that
// satisfies match.
func (l *List[T]) Find(match func(T) bool) (int, bool) {
	for i := 0; i < l.size; i++ {
		if match(l.elements[l.wrap(l.head+i)]) {
			return i, true
		}
	}

	return -1, false
}

// Slice copies the elements out in head-to-tail order.
func (l *List[T]) Slice() []T {
	out := make([]T, 0, l.size)
	for i := 0; i < l.size; i++ {
		out = append(out, l.elements[l.wrap(l.head+i)])
	}

	return out
}

func (l *List[T]) wrap(i int) int {
	n := len(l.elements)

	i %= n
	if i < 0 {
		i += n
	}

	return i
}
