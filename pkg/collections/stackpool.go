package collections

import "github.com/hkreduce/greduce/pkg/errors"

// StackPool is a fixed-slot allocator sized to a known upper bound.
// It pre-allocates capacity slots once and tracks which are free with a
// Bitmap, so a traversal that pushes up to N stack frames never pays for
// more than N slot allocations. Allocate returns the first free slot;
// once the pool is exhausted it falls back to the backing allocator, and
// Deallocate recycles a pool slot deterministically (no reliance on GC
// timing, unlike a sync.Pool).
type StackPool[T any] struct {
	slots   []T
	free    *Bitmap
	backing Allocator
}

// NewStackPool creates a StackPool with the given fixed capacity,
// falling back to backing (or the process-wide default) once exhausted.
func NewStackPool[T any](capacity int, backing Allocator) (*StackPool[T], error) {
	if capacity < 0 {
		return nil, errors.InvalidArgument("stack pool capacity must be non-negative")
	}
	free, err := NewBitmapFilled(capacity, true)
	if err != nil {
		return nil, err
	}
	if backing == nil {
		backing = DefaultAllocatorInstance()
	}
	return &StackPool[T]{
		slots:   make([]T, capacity),
		free:    free,
		backing: backing,
	}, nil
}

// Cap returns the pool's fixed slot capacity.
func (p *StackPool[T]) Cap() int { return len(p.slots) }

// Allocate reserves a slot and returns its index. An index of -1
// indicates the pool was exhausted and the slot was satisfied by the
// backing allocator instead: callers must not use Slot(-1) and instead
// hold their own value out of pool. Allocate only fails if the backing
// allocator itself refuses.
func (p *StackPool[T]) Allocate() (int, error) {
	n := p.free.Len()
	for idx := 0; idx < n; idx++ {
		isFree, _ := p.free.Get(idx)
		if isFree {
			_, _ = p.free.Set(idx, false)
			return idx, nil
		}
	}
	if _, err := p.backing.Allocate(1); err != nil {
		return -1, errors.Wrap(errors.CodeAllocationFailure, "backing allocator refused", err)
	}
	return -1, nil
}

// Slot returns a pointer to the slot's storage. idx must be a value
// returned by Allocate that was not -1.
func (p *StackPool[T]) Slot(idx int) *T {
	return &p.slots[idx]
}

// Deallocate releases a previously allocated slot. idx == -1 forwards
// the release to the backing allocator.
func (p *StackPool[T]) Deallocate(idx int) {
	if idx < 0 {
		p.backing.Deallocate(Slot{})
		return
	}
	_, _ = p.free.Set(idx, true)
}
