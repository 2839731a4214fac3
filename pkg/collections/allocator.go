package collections

import "github.com/hkreduce/greduce/pkg/errors"

// Allocator is the capability a container or cursor pool borrows to obtain
// and release fixed-size scratch slots. It models the source repo's
// allocator-as-parameter pattern: a container never allocates through a
// hidden global, it is always handed a collaborator at construction.
//
// Go has no manual allocation, so Slot stands in for a raw buffer: a
// typed handle the allocator hands out and later reclaims. Most callers
// use DefaultAllocator, which simply allocates Go-managed slices and never
// fails; StackPool is the one allocator that tracks occupancy and can
// report CapacityExhausted/AllocationFailure.
type Allocator interface {
	// Allocate reserves a slot sized for n elements and returns its index
	// handle. The handle is only meaningful to the allocator that issued
	// it.
	Allocate(n int) (Slot, error)
	// Deallocate releases a previously allocated slot. Deallocating a slot
	// not issued by this allocator is a caller error.
	Deallocate(Slot)
	// MaxSize reports the largest n this allocator can ever satisfy, or -1
	// if unbounded.
	MaxSize() int
}

// Slot is an opaque handle returned by Allocator.Allocate.
type Slot struct {
	index int
	size  int
}

// DefaultAllocator is the process-wide unbounded allocator: every
// Allocate succeeds and Deallocate is a no-op, matching the source's
// "process-wide default allocator" injection point, which is set once
// and never replaced while matrices exist.
type DefaultAllocator struct{}

// NewDefaultAllocator returns the unbounded default allocator.
func NewDefaultAllocator() *DefaultAllocator {
	return &DefaultAllocator{}
}

// Allocate always succeeds for the default allocator.
func (a *DefaultAllocator) Allocate(n int) (Slot, error) {
	if n < 0 {
		return Slot{}, errors.InvalidArgument("allocate size must be non-negative")
	}
	return Slot{index: -1, size: n}, nil
}

// Deallocate is a no-op for the default allocator.
func (a *DefaultAllocator) Deallocate(Slot) {}

// MaxSize reports -1: the default allocator has no upper bound.
func (a *DefaultAllocator) MaxSize() int { return -1 }

var defaultAllocator Allocator = NewDefaultAllocator()

// DefaultAllocatorInstance returns the process-wide default allocator.
// It is installed once at program start and never replaced while any
// matrix exists.
func DefaultAllocatorInstance() Allocator {
	return defaultAllocator
}
