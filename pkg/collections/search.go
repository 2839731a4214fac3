package collections

// BSearchInsertPos returns the smallest index in [0, n] for which ok
// reports true. ok must be monotonic: false for every index before the
// result, true for every index at or after it. This is the common core
// beneath every bsearch*ToInsert variant in the source, generalised to a
// predicate so callers that search by a derived key (DRGEP/PFA's
// (pathsLength, nodeIndex) ordering) do not need to materialise a
// comparable slice first.
func BSearchInsertPos(n int, ok func(i int) bool) int {
	lo, hi := 0, n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if ok(mid) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Ordered is the subset of types BSearchLeftToInsert/BSearchRightToInsert
// operate on.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// BSearchLeftToInsert returns the smallest index i in [start, stop) such
// that data[i] >= target (the standard lower bound), or stop if no such
// index exists. data[start:stop] must be ascending.
func BSearchLeftToInsert[T Ordered](data []T, target T, start, stop int) int {
	return start + BSearchInsertPos(stop-start, func(i int) bool {
		return data[start+i] >= target
	})
}

// BSearchRightToInsert returns the smallest index i in [start, stop)
// such that data[i] > target (the standard upper bound), or stop if no
// such index exists.
func BSearchRightToInsert[T Ordered](data []T, target T, start, stop int) int {
	return start + BSearchInsertPos(stop-start, func(i int) bool {
		return data[start+i] > target
	})
}

// BSearchLeft returns the index of the leftmost element equal to target
// within data[start:stop], or -1 if absent.
func BSearchLeft[T Ordered](data []T, target T, start, stop int) int {
	idx := BSearchLeftToInsert(data, target, start, stop)
	if idx < stop && data[idx] == target {
		return idx
	}
	return -1
}

// BSearchLeftToInsertIndexed is BSearchLeftToInsert generalised to an
// indexed accessor instead of a contiguous slice, for containers such as
// Sectioned that deliberately never expose their backing storage as one
// slice (C4's section boundaries mean there isn't one).
func BSearchLeftToInsertIndexed[T Ordered](get func(i int) T, target T, start, stop int) int {
	return start + BSearchInsertPos(stop-start, func(i int) bool {
		return get(start+i) >= target
	})
}

// CountBits is the free-function form of Bitmap.CountBits, named to
// match the source's countBits<Bitmap> specialisation.
func CountBits(b *Bitmap, value bool) int {
	return b.CountBits(value)
}
