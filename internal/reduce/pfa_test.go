package reduce

import (
	"testing"

	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPFA_AdditiveAccumulation(t *testing.T) {
	m, err := matrix.NewCSR(3)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.5}))
	require.NoError(t, m.BuildRow(1, []int{2}, []float64{0.3}))
	require.NoError(t, m.BuildRow(2, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	result, err := pfa.Run(m, []int{0}, 0.4)
	require.NoError(t, err)

	got0, _ := result.Get(0)
	got1, _ := result.Get(1)
	got2, _ := result.Get(2)
	assert.True(t, got0, "source always clears threshold at its own value")
	assert.True(t, got1, "0.5 >= 0.4 so node 1 clears threshold and keeps propagating")
	assert.True(t, got2, "0.5 + 0.3 = 0.8 >= 0.4")
}

func TestPFA_RejectedEdgeBlocksFurtherPropagation(t *testing.T) {
	m, err := matrix.NewCSR(3)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.2}))
	require.NoError(t, m.BuildRow(1, []int{2}, []float64{0.9}))
	require.NoError(t, m.BuildRow(2, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	result, err := pfa.Run(m, []int{0}, 0.4)
	require.NoError(t, err)

	got1, _ := result.Get(1)
	got2, _ := result.Get(2)
	assert.False(t, got1, "0.2 < 0.4 so node 1 is rejected")
	assert.False(t, got2, "node 1 was never enqueued, so its edge to node 2 is never explored")
}

func TestPFA_BelowThresholdExcluded(t *testing.T) {
	m, err := matrix.NewCSR(2)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.1}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	result, err := pfa.Run(m, []int{0}, 0.9)
	require.NoError(t, err)

	got1, _ := result.Get(1)
	assert.False(t, got1)
}

func TestPFA_ResetsBetweenSources(t *testing.T) {
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, []int{3}, []float64{0.9}))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	result, err := pfa.Run(m, []int{0, 2}, 0.5)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		got, _ := result.Get(i)
		assert.True(t, got, "node %d", i)
	}
}

func TestPFA_RunTracedRecordsOriginatingSource(t *testing.T) {
	m, err := matrix.NewCSR(4)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, []int{1}, []float64{0.9}))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.BuildRow(2, []int{3}, []float64{0.9}))
	require.NoError(t, m.BuildRow(3, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	_, trace, err := pfa.RunTraced(m, []int{0, 2}, 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, trace)
}

func TestPFA_OutOfRangeSourceFails(t *testing.T) {
	m, err := matrix.NewCSR(2)
	require.NoError(t, err)
	require.NoError(t, m.BuildRow(0, nil, nil))
	require.NoError(t, m.BuildRow(1, nil, nil))
	require.NoError(t, m.Finalize())

	pfa := NewPFA()
	_, err = pfa.Run(m, []int{9}, 0.5)
	assert.Error(t, err)
}
