// Package reduce implements the three graph-reduction algorithms (C9, C10,
// C11): directed relation graph (DRG), its path-flux-weighted variant
// (DRGEP), and path-flux analysis (PFA). Each operates over an
// internal/matrix.CSR and produces a Bitmap of nodes reachable from a
// source set under a coupling-strength threshold.
package reduce

import (
	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/hkreduce/greduce/pkg/collections"
	"github.com/hkreduce/greduce/pkg/errors"
)

// DRG reduces a graph by pruning edges below threshold, then computing
// forward reachability from every source, grounded on
// _examples/original_source/cpp/include/hkreduce/reducing/drg.h.
type DRG struct{}

// NewDRG returns a DRG reducer. DRG carries no state between runs.
func NewDRG() *DRG { return &DRG{} }

type drgFrame struct {
	node   int
	slot   int
	cursor *matrix.NeighbourCursor
}

func acquireCursor(m *matrix.CSR, pool *collections.StackPool[matrix.NeighbourCursor], node int) (drgFrame, error) {
	fresh, err := m.NewNeighbourCursor(node, 0)
	if err != nil {
		return drgFrame{}, err
	}
	slot, err := pool.Allocate()
	if err != nil {
		return drgFrame{}, err
	}
	if slot == -1 {
		return drgFrame{node: node, slot: -1, cursor: fresh}, nil
	}
	poolSlot := pool.Slot(slot)
	*poolSlot = *fresh
	return drgFrame{node: node, slot: slot, cursor: poolSlot}, nil
}

func releaseCursor(pool *collections.StackPool[matrix.NeighbourCursor], f drgFrame) {
	pool.Deallocate(f.slot)
}

func removeWeakEdges(m *matrix.CSR, threshold float64) error {
	for from := 0; from < m.Size(); from++ {
		cursor, err := m.NewNeighbourCursor(from, 0)
		if err != nil {
			return err
		}
		for !cursor.Stopped() {
			coef, err := cursor.Coef()
			if err != nil {
				return err
			}
			if coef < threshold {
				if _, err := cursor.SetCoef(0); err != nil {
					return err
				}
				if err := cursor.Next(); err != nil {
					return err
				}
				continue
			}
			if err := cursor.Next(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run prunes every edge with coefficient below threshold, then computes
// the set of nodes reachable from sources over the surviving edges. The
// matrix is mutated (pruned edges are zeroed in place) and must not be
// reused by the caller after this call. backing is the allocator the
// traversal's cursor pool falls back to once exhausted; nil selects the
// process-wide default.
func (d *DRG) Run(m *matrix.CSR, sources []int, threshold float64, backing collections.Allocator) (*collections.Bitmap, error) {
	achievables, _, err := d.run(m, sources, threshold, backing, false)
	return achievables, err
}

// RunTraced behaves like Run but additionally returns, for each node, the
// index within sources of the source whose DFS first discovered it (or -1
// if the node was never reached). Grounded on the original host binding's
// per-source-node diagnostics.
func (d *DRG) RunTraced(m *matrix.CSR, sources []int, threshold float64, backing collections.Allocator) (*collections.Bitmap, []int, error) {
	return d.run(m, sources, threshold, backing, true)
}

func (d *DRG) run(m *matrix.CSR, sources []int, threshold float64, backing collections.Allocator, withTrace bool) (*collections.Bitmap, []int, error) {
	if err := removeWeakEdges(m, threshold); err != nil {
		return nil, nil, err
	}

	n := m.Size()
	achievables, err := collections.NewBitmap(n)
	if err != nil {
		return nil, nil, err
	}

	var trace []int
	if withTrace {
		trace = make([]int, n)
		for i := range trace {
			trace[i] = -1
		}
	}

	pool, err := collections.NewStackPool[matrix.NeighbourCursor](n, backing)
	if err != nil {
		return nil, nil, err
	}
	stack := collections.NewStack[drgFrame](n)

	for si, src := range sources {
		if src < 0 || src >= n {
			return nil, nil, errors.OutOfRange("source", src)
		}
		already, err := achievables.Get(src)
		if err != nil {
			return nil, nil, err
		}
		if already {
			continue
		}
		if err := walkFrom(m, src, si, achievables, stack, pool, trace); err != nil {
			return nil, nil, err
		}
	}
	return achievables, trace, nil
}

func walkFrom(m *matrix.CSR, src, si int, achievables *collections.Bitmap, stack *collections.Stack[drgFrame], pool *collections.StackPool[matrix.NeighbourCursor], trace []int) error {
	frame, err := acquireCursor(m, pool, src)
	if err != nil {
		return err
	}
	if err := stack.Push(frame); err != nil {
		return err
	}
	if _, err := achievables.Set(src, true); err != nil {
		return err
	}
	if trace != nil {
		trace[src] = si
	}

	for stack.Len() > 0 {
		top, _ := stack.Peek()
		advanced := false

		for !top.cursor.Stopped() {
			neighbour, err := top.cursor.To()
			if err != nil {
				return err
			}
			seen, err := achievables.Get(neighbour)
			if err != nil {
				return err
			}
			if seen {
				if err := top.cursor.Next(); err != nil {
					return err
				}
				continue
			}
			if _, err := achievables.Set(neighbour, true); err != nil {
				return err
			}
			if trace != nil {
				trace[neighbour] = si
			}
			nextFrame, err := acquireCursor(m, pool, neighbour)
			if err != nil {
				return err
			}
			if err := stack.Push(nextFrame); err != nil {
				return err
			}
			advanced = true
			break
		}

		if !advanced {
			popped, _ := stack.Pop()
			releaseCursor(pool, popped)
		}
	}
	return nil
}
