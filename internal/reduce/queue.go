package reduce

import "github.com/hkreduce/greduce/pkg/collections"

// orderedQueue holds a set of node indices sorted ascending by
// (key(node), node), grounded on DRGEP::insertToOrderedQueue and
// DRGEP::updateQueue. Draining from the tail yields the node with the
// largest key, which is how both DRGEP and PFA pick the next frontier
// node to expand. Backed by the fixed-capacity Array: a node enters the
// queue at most once (inQueue in core.go dedups), so a queue sized to
// the graph's node count can never need to grow past it.
type orderedQueue struct {
	data *collections.Array[int]
}

func newOrderedQueue(capacity int) *orderedQueue {
	return &orderedQueue{data: collections.NewArray[int](capacity)}
}

func (q *orderedQueue) Len() int { return q.data.Len() }

func (q *orderedQueue) Clear() { q.data.Clear() }

// insertPos returns the smallest index i such that (key(data[i]),
// data[i]) >= (key(node), node), the lower-bound insertion point for
// node under key.
func (q *orderedQueue) insertPos(node int, key func(int) float64) int {
	nodeKey := key(node)
	return collections.BSearchInsertPos(q.data.Len(), func(i int) bool {
		v, _ := q.data.Get(i)
		k := key(v)
		if k != nodeKey {
			return k > nodeKey
		}
		return v >= node
	})
}

// insert places node at its sorted position under key. node must not
// already be present. The Insert error is discarded: the queue's
// capacity is the node count and a node is never queued twice, so the
// array can never be at capacity here.
func (q *orderedQueue) insert(node int, key func(int) float64) {
	idx := q.insertPos(node, key)
	_ = q.data.Insert(idx, node)
}

// relocate moves node, whose key has just grown from oldKey to its
// current value under key, to its new sorted position. oldKey is the
// value node was last inserted or relocated under, letting the search
// for its current slot treat the rest of the queue as consistently
// sorted even though node's own key has already been overwritten by the
// caller.
func (q *orderedQueue) relocate(node int, oldKey float64, key func(int) float64) {
	keyForSearch := func(n int) float64 {
		if n == node {
			return oldKey
		}
		return key(n)
	}
	currentIdx := q.insertPos(node, keyForSearch)
	_, _ = q.data.Remove(currentIdx)

	idxToInsert := q.insertPos(node, key)
	_ = q.data.Insert(idxToInsert, node)
}

// popMax removes and returns the node with the largest key, the tail of
// the queue.
func (q *orderedQueue) popMax() (int, bool) {
	if q.data.Len() == 0 {
		return 0, false
	}
	node, _ := q.data.Remove(q.data.Len() - 1)
	return node, true
}
