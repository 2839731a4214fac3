package collections

import "github.com/hkreduce/greduce/pkg/errors"

// DefaultBlockSize is the growth/shrink block size used when a
// DynamicArray or Sectioned container is built without an explicit one,
// matching the source's DEFAULT_BLOCK_SIZE constant.
const DefaultBlockSize = 1024

// DynamicArray is Array plus capacity growth in multiples of a block
// size B. On insert-when-full, capacity grows to the smallest
// multiple of B fitting length+1; on remove, capacity shrinks to the
// smallest multiple of B fitting length, but only once the freed space
// equals a whole block. Growth allocates a new buffer and relocates
// before releasing the old one, so a failed growth never loses data.
type DynamicArray[T any] struct {
	data      []T
	blockSize int
}

// NewDynamicArray creates a DynamicArray with the given block size. A
// non-positive block size is rejected with InvalidArgument.
func NewDynamicArray[T any](blockSize int) (*DynamicArray[T], error) {
	if blockSize <= 0 {
		return nil, errors.InvalidArgument("block size must be positive")
	}
	return &DynamicArray[T]{
		data:      make([]T, 0, blockSize),
		blockSize: blockSize,
	}, nil
}

// Len returns the number of elements currently stored.
func (d *DynamicArray[T]) Len() int { return len(d.data) }

// Cap returns the current backing capacity (always a multiple of the
// block size).
func (d *DynamicArray[T]) Cap() int { return cap(d.data) }

func (d *DynamicArray[T]) blockCeil(n int) int {
	if n <= 0 {
		return d.blockSize
	}
	blocks := (n + d.blockSize - 1) / d.blockSize
	return blocks * d.blockSize
}

// Get returns the element at index i.
func (d *DynamicArray[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(d.data) {
		return zero, errors.OutOfRange("index", i)
	}
	return d.data[i], nil
}

// Replace overwrites the element at index i and returns the previous value.
func (d *DynamicArray[T]) Replace(i int, v T) (T, error) {
	var zero T
	if i < 0 || i >= len(d.data) {
		return zero, errors.OutOfRange("index", i)
	}
	old := d.data[i]
	d.data[i] = v
	return old, nil
}

func (d *DynamicArray[T]) growIfFull() {
	if len(d.data) < cap(d.data) {
		return
	}
	newCap := d.blockCeil(len(d.data) + 1)
	newData := make([]T, len(d.data), newCap)
	copy(newData, d.data)
	d.data = newData
}

// Insert places v at index i, growing the backing buffer first if full.
func (d *DynamicArray[T]) Insert(i int, v T) error {
	if i < 0 || i > len(d.data) {
		return errors.OutOfRange("index", i)
	}
	d.growIfFull()
	d.data = append(d.data, v)
	copy(d.data[i+1:], d.data[i:len(d.data)-1])
	d.data[i] = v
	return nil
}

// Append inserts v at the end; equivalent to Insert(Len(), v).
func (d *DynamicArray[T]) Append(v T) error {
	return d.Insert(len(d.data), v)
}

// Remove deletes the element at index i and shrinks the backing buffer
// once the freed space spans a whole block.
func (d *DynamicArray[T]) Remove(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(d.data) {
		return zero, errors.OutOfRange("index", i)
	}
	removed := d.data[i]
	copy(d.data[i:], d.data[i+1:])
	d.data = d.data[:len(d.data)-1]

	wantCap := d.blockCeil(len(d.data))
	if wantCap == 0 {
		wantCap = d.blockSize
	}
	if cap(d.data)-wantCap >= d.blockSize {
		newData := make([]T, len(d.data), wantCap)
		copy(newData, d.data)
		d.data = newData
	}
	return removed, nil
}

// Clear empties the array, shrinking the backing buffer to one block.
func (d *DynamicArray[T]) Clear() {
	d.data = make([]T, 0, d.blockSize)
}

// Slice exposes the backing elements for read-only iteration.
func (d *DynamicArray[T]) Slice() []T {
	return d.data
}
