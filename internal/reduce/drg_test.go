package reduce

import (
	"testing"

	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0 -> 1 -> 2 -> 3, with 0 -> 3 directly below threshold.
func buildChainMatrix(t *testing.T) *matrix.CSR {
	t.Helper()
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1, 3}, []float64{0.8, 0.05}))
	require.NoError(t, m.BuildRow(1, []int{2}, []float64{0.7}))
	require.NoError(t, m.BuildRow(2, []int{3}, []float64{0.6}))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())
	return m
}

func TestDRG_PrunesWeakEdgesBeforeTraversal(t *testing.T) {
	m := buildChainMatrix(t)
	drg := NewDRG()

	result, err := drg.Run(m, []int{0}, 0.5, nil)
	require.NoError(t, err)

	for i, want := range []bool{true, true, true, true} {
		got, err := result.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "node %d", i)
	}

	v, err := m.At(0, 3)
	require.NoError(t, err)
	assert.Equal(t, float64(0), v, "edge below threshold must be zeroed")
}

func TestDRG_UnreachableNodeExcluded(t *testing.T) {
	m, err := matrix.NewCSR(3)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, nil, nil))
	require.NoError(t, m.Finalize())

	drg := NewDRG()
	result, err := drg.Run(m, []int{0}, 0.1, nil)
	require.NoError(t, err)

	got0, _ := result.Get(0)
	got1, _ := result.Get(1)
	got2, _ := result.Get(2)
	assert.True(t, got0)
	assert.True(t, got1)
	assert.False(t, got2, "node with no incoming path from any source must be excluded")
}

func TestDRG_MultipleSourcesUnion(t *testing.T) {
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, []int{3}, []float64{0.9}))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())

	drg := NewDRG()
	result, err := drg.Run(m, []int{0, 2}, 0.1, nil)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		got, _ := result.Get(i)
		assert.True(t, got, "node %d", i)
	}
}

func TestDRG_OutOfRangeSourceFails(t *testing.T) {
	m := buildChainMatrix(t)
	drg := NewDRG()

	_, err := drg.Run(m, []int{10}, 0.1, nil)
	assert.Error(t, err)
}

func TestDRG_PrunesConsecutiveWeakEdgesInSameRow(t *testing.T) {
	// Row 0 has three outgoing edges; the first two fall below threshold
	// and the third does not. removeWeakEdges must not stop scanning the
	// row after zeroing the first weak edge.
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1, 2, 3}, []float64{0.1, 0.2, 0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, nil, nil))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())

	drg := NewDRG()
	result, err := drg.Run(m, []int{0}, 0.5, nil)
	require.NoError(t, err)

	got0, _ := result.Get(0)
	got1, _ := result.Get(1)
	got2, _ := result.Get(2)
	got3, _ := result.Get(3)
	assert.True(t, got0)
	assert.False(t, got1, "first weak edge must be pruned")
	assert.False(t, got2, "second weak edge must be pruned")
	assert.True(t, got3, "edge at or above threshold must survive pruning of its row siblings")

	v1, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(0), v1)
	v2, err := m.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, float64(0), v2)
}

func TestDRG_RunTracedRecordsOriginatingSource(t *testing.T) {
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, []int{3}, []float64{0.9}))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())

	drg := NewDRG()
	_, trace, err := drg.RunTraced(m, []int{0, 2}, 0.1, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, trace)
}

func TestDRG_CyclicGraphTerminates(t *testing.T) {
	m, err := matrix.NewCSR(3)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, []int{2}, []float64{0.9}))
	require.NoError(t, m.BuildRow(2, []int{0}, []float64{0.9}))
	require.NoError(t, m.Finalize())

	drg := NewDRG()
	result, err := drg.Run(m, []int{0}, 0.1, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, _ := result.Get(i)
		assert.True(t, got, "node %d", i)
	}
}
