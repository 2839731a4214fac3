package reduce

import (
	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/hkreduce/greduce/pkg/collections"
	"github.com/hkreduce/greduce/pkg/errors"
)

// pathReducer is the queue-driven traversal shared by DRGEP and PFA:
// both explore outward from a source accumulating a running value along
// each edge, accept a candidate only if it both improves on the
// neighbour's current value and clears threshold, and relocate the
// neighbour's position in an orderedQueue on acceptance instead of
// resorting the whole frontier. The two reducers differ only in
// sourceInitial, combine, and accept.
type pathReducer struct {
	sourceInitial float64
	combine       func(current, coef float64) float64
	accept        func(candidate, existing float64) bool
}

func (p pathReducer) run(m *matrix.CSR, sources []int, threshold float64) (*collections.Bitmap, error) {
	result, _, err := p.runTraced(m, sources, threshold, false)
	return result, err
}

// runTraced is run plus an optional per-node trace of which source (its
// index within sources) first caused that node's inclusion. trace is nil
// unless withTrace is set; entries default to -1 ("not kept").
func (p pathReducer) runTraced(m *matrix.CSR, sources []int, threshold float64, withTrace bool) (*collections.Bitmap, []int, error) {
	n := m.Size()
	result, err := collections.NewBitmap(n)
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

	pathsLengths := make([]float64, n)
	inQueue := make([]bool, n)
	queue := newOrderedQueue(n)

	for si, src := range sources {
		if src < 0 || src >= n {
			return nil, nil, errors.OutOfRange("source", src)
		}

		if err := p.calcPathLengths(m, src, threshold, queue, pathsLengths, inQueue); err != nil {
			return nil, nil, err
		}
		for i := 0; i < n; i++ {
			if pathsLengths[i] >= threshold || i == src {
				wasKept, err := result.Get(i)
				if err != nil {
					return nil, nil, err
				}
				if _, err := result.Set(i, true); err != nil {
					return nil, nil, err
				}
				if trace != nil && !wasKept {
					trace[i] = si
				}
			}
		}

		if si+1 < len(sources) {
			queue.Clear()
			for i := range pathsLengths {
				pathsLengths[i] = 0
				inQueue[i] = false
			}
		}
	}
	return result, trace, nil
}

// calcPathLengths drains an orderedQueue keyed by (pathsLengths[n], n),
// expanding the node with the largest accumulated value first. inQueue
// tracks which nodes are currently queued: once a node is popped it is
// never relocated again even if a later, weaker-rooted path reaches it
// with a nominally larger candidate, since queue draining in descending
// key order already finalizes it (the same invariant that lets
// Dijkstra-style algorithms never relax a settled node). This also
// guards the orderedQueue against being asked to relocate a node it no
// longer holds.
func (p pathReducer) calcPathLengths(m *matrix.CSR, from int, threshold float64, queue *orderedQueue, pathsLengths []float64, inQueue []bool) error {
	key := func(n int) float64 { return pathsLengths[n] }

	queue.insert(from, key)
	inQueue[from] = true
	pathsLengths[from] = p.sourceInitial

	for queue.Len() > 0 {
		current, _ := queue.popMax()
		inQueue[current] = false
		currentPath := pathsLengths[current]

		cursor, err := m.NewNeighbourCursor(current, 0)
		if err != nil {
			return err
		}
		for !cursor.Stopped() {
			neighbour, err := cursor.To()
			if err != nil {
				return err
			}
			coef, err := cursor.Coef()
			if err != nil {
				return err
			}

			candidate := p.combine(currentPath, coef)
			existing := pathsLengths[neighbour]
			if !p.accept(candidate, existing) || candidate < threshold {
				if err := cursor.Next(); err != nil {
					return err
				}
				continue
			}

			pathsLengths[neighbour] = candidate
			switch {
			case existing == 0:
				queue.insert(neighbour, key)
				inQueue[neighbour] = true
			case inQueue[neighbour]:
				queue.relocate(neighbour, existing, key)
			default:
				// neighbour was already finalized by a previous pop; its
				// recorded value is kept but it is not re-queued, so it is
				// never expanded a second time.
			}

			if err := cursor.Next(); err != nil {
				return err
			}
		}
	}
	return nil
}
