package collections

import "github.com/hkreduce/greduce/pkg/errors"

// Array is a fixed-capacity container: insert shifts the tail right by
// one, remove shifts it left, and neither ever reallocates. Go's slice
// element assignment already gives the "trivially relocatable" move the
// source distinguishes from a user-defined move constructor, so Insert and
// Remove always use a single contiguous shift; there is no separate
// element-by-element path to recover from a failed user move, since a Go
// assignment of T cannot itself fail.
type Array[T any] struct {
	data []T
	cap  int
}

// NewArray creates an Array with the given fixed capacity.
func NewArray[T any](capacity int) *Array[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Array[T]{
		data: make([]T, 0, capacity),
		cap:  capacity,
	}
}

// Len returns the number of elements currently stored.
func (a *Array[T]) Len() int { return len(a.data) }

// Cap returns the fixed capacity.
func (a *Array[T]) Cap() int { return a.cap }

// Get returns the element at index i.
func (a *Array[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(a.data) {
		return zero, errors.OutOfRange("index", i)
	}
	return a.data[i], nil
}

// Replace overwrites the element at index i and returns the previous value.
func (a *Array[T]) Replace(i int, v T) (T, error) {
	var zero T
	if i < 0 || i >= len(a.data) {
		return zero, errors.OutOfRange("index", i)
	}
	old := a.data[i]
	a.data[i] = v
	return old, nil
}

// Insert places v at index i, shifting i..end right by one. Fails with
// CapacityExhausted if the array is already at capacity, and with
// OutOfRange if i is not in [0, Len()]. On failure the array is left
// exactly as it was before the call (strong guarantee).
func (a *Array[T]) Insert(i int, v T) error {
	if i < 0 || i > len(a.data) {
		return errors.OutOfRange("index", i)
	}
	if len(a.data) >= a.cap {
		return errors.New(errors.CodeCapacityExhausted, "array is at capacity")
	}
	a.data = append(a.data, v)
	copy(a.data[i+1:], a.data[i:len(a.data)-1])
	a.data[i] = v
	return nil
}

// Append inserts v at the end; equivalent to Insert(Len(), v).
func (a *Array[T]) Append(v T) error {
	return a.Insert(len(a.data), v)
}

// Remove deletes the element at index i, shifting i+1..end left by one,
// and returns the removed value.
func (a *Array[T]) Remove(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(a.data) {
		return zero, errors.OutOfRange("index", i)
	}
	removed := a.data[i]
	copy(a.data[i:], a.data[i+1:])
	a.data = a.data[:len(a.data)-1]
	return removed, nil
}

// Clear empties the array without changing its capacity.
func (a *Array[T]) Clear() {
	a.data = a.data[:0]
}

// Slice exposes the backing elements for read-only iteration.
func (a *Array[T]) Slice() []T {
	return a.data
}
