package reduce

import (
	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/hkreduce/greduce/pkg/collections"
)

// PFA (path flux analysis) is structurally identical to DRGEP but
// accumulates an additive coupling sum along each path instead of a
// multiplicative product, keeps a candidate whenever it is at least as
// large as what is already known, and starts every path at 0. No
// grounding C++ header for PFA is present in the retrieved source (only
// drg.h and drgep.h); this reducer shares DRGEP's orderedQueue machinery
// (pathReducer) with the accumulation and seed rules swapped.
type PFA struct{}

// NewPFA returns a PFA reducer. PFA carries no state between runs and
// does not mutate the matrix.
func NewPFA() *PFA { return &PFA{} }

// Run computes, for each source, the largest additive coupling sum to
// every other node and ORs together, across all sources, the sources
// themselves and the nodes whose best sum clears threshold.
func (p *PFA) Run(m *matrix.CSR, sources []int, threshold float64) (*collections.Bitmap, error) {
	return p.reducer().run(m, sources, threshold)
}

// RunTraced behaves like Run but additionally returns, for each node, the
// index within sources of the source that first caused its inclusion (or
// -1 if the node was never kept). Grounded on the original host binding's
// per-source-node diagnostics.
func (p *PFA) RunTraced(m *matrix.CSR, sources []int, threshold float64) (*collections.Bitmap, []int, error) {
	return p.reducer().runTraced(m, sources, threshold, true)
}

func (p *PFA) reducer() pathReducer {
	return pathReducer{
		sourceInitial: 0,
		combine: func(current, coef float64) float64 {
			return current + coef
		},
		accept: func(candidate, existing float64) bool {
			return candidate >= existing
		},
	}
}
