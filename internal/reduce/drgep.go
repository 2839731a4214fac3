package reduce

import (
	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/hkreduce/greduce/pkg/collections"
)

// DRGEP (directed relation graph with error propagation) accepts a
// neighbour only when the multiplicative path coefficient along the
// best route from a source strictly improves on what is already known
// and clears threshold, grounded on
// _examples/original_source/cpp/include/hkreduce/reducing/drgep.h.
// Coefficients are expected in (0, 1] so path lengths are monotone and
// bounded; values outside that range are accepted but give
// user-defined semantics.
type DRGEP struct{}

// NewDRGEP returns a DRGEP reducer. DRGEP carries no state between runs
// and does not mutate the matrix.
func NewDRGEP() *DRGEP { return &DRGEP{} }

// Run computes, for each source, the strongest multiplicative coupling
// path to every other node and ORs together the nodes whose best path
// clears threshold across all sources.
func (d *DRGEP) Run(m *matrix.CSR, sources []int, threshold float64) (*collections.Bitmap, error) {
	return d.reducer().run(m, sources, threshold)
}

// RunTraced behaves like Run but additionally returns, for each node, the
// index within sources of the source that first caused its inclusion (or
// -1 if the node was never kept). Grounded on the original host binding's
// per-source-node diagnostics.
func (d *DRGEP) RunTraced(m *matrix.CSR, sources []int, threshold float64) (*collections.Bitmap, []int, error) {
	return d.reducer().runTraced(m, sources, threshold, true)
}

func (d *DRGEP) reducer() pathReducer {
	return pathReducer{
		sourceInitial: 1,
		combine: func(current, coef float64) float64 {
			return current * coef
		},
		accept: func(candidate, existing float64) bool {
			return candidate > existing
		},
	}
}
