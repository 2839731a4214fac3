package facade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTrivial(t *testing.T) *Facade {
	t.Helper()
	f, err := NewFacade(3)
	require.NoError(t, err)
	require.NoError(t, f.Build(context.Background(), 0, []float64{0, 0.9, 0}))
	require.NoError(t, f.Build(context.Background(), 1, []float64{0, 0, 0.9}))
	require.NoError(t, f.Build(context.Background(), 2, []float64{0, 0, 0}))
	require.NoError(t, f.Finalize(context.Background()))
	return f
}

func TestFacade_TrivialDRGEndToEnd(t *testing.T) {
	f := buildTrivial(t)
	result, err := f.RunReducing(context.Background(), MethodDRG, 0.5, []int{0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, result.Kept)
	assert.Equal(t, MethodDRG, result.Method)
	assert.Nil(t, result.Trace)
}

func TestFacade_BuildRejectsNonAscendingRow(t *testing.T) {
	f, err := NewFacade(3)
	require.NoError(t, err)
	require.NoError(t, f.Build(context.Background(), 0, []float64{0, 0, 0}))
	err = f.Build(context.Background(), 2, []float64{0, 0, 0})
	assert.Error(t, err)
}

func TestFacade_BuildRejectsWrongLengthVector(t *testing.T) {
	f, err := NewFacade(3)
	require.NoError(t, err)
	err = f.Build(context.Background(), 0, []float64{0, 0})
	assert.Error(t, err)
}

func TestFacade_BuildAfterFinalizeFails(t *testing.T) {
	f := buildTrivial(t)
	err := f.Build(context.Background(), 3, []float64{0, 0, 0})
	assert.Error(t, err)
}

func TestFacade_FinalizeTwiceFails(t *testing.T) {
	f := buildTrivial(t)
	err := f.Finalize(context.Background())
	assert.Error(t, err)
}

func TestFacade_RunReducingBeforeFinalizeFails(t *testing.T) {
	f, err := NewFacade(3)
	require.NoError(t, err)
	require.NoError(t, f.Build(context.Background(), 0, []float64{0, 0, 0}))
	_, err = f.RunReducing(context.Background(), MethodDRG, 0.5, []int{0})
	assert.Error(t, err)
}

func TestFacade_RunReducingIsPureAcrossIdenticalCalls(t *testing.T) {
	// DRGEP/PFA never mutate the matrix, so runReducing on the same
	// finalized facade with identical arguments must return identical
	// output on repeated calls.
	f := buildTrivial(t)

	first, err := f.RunReducing(context.Background(), MethodDRGEP, 0.3, []int{0})
	require.NoError(t, err)
	second, err := f.RunReducing(context.Background(), MethodDRGEP, 0.3, []int{0})
	require.NoError(t, err)

	assert.Equal(t, first.Kept, second.Kept)
}

func TestFacade_DRGConsumesMatrixAndBlocksReuse(t *testing.T) {
	// DRG prunes edges in place; the matrix is consumed and must not be
	// reduced again through the same facade.
	f := buildTrivial(t)

	_, err := f.RunReducing(context.Background(), MethodDRG, 0.5, []int{0})
	require.NoError(t, err)

	_, err = f.RunReducing(context.Background(), MethodDRGEP, 0.5, []int{0})
	assert.Error(t, err)
}

func TestFacade_RunReducingWithTracePopulatesOriginatingSource(t *testing.T) {
	f, err := NewFacade(4)
	require.NoError(t, err)
	require.NoError(t, f.Build(context.Background(), 0, []float64{0, 0.9, 0, 0}))
	require.NoError(t, f.Build(context.Background(), 1, []float64{0, 0, 0, 0}))
	require.NoError(t, f.Build(context.Background(), 2, []float64{0, 0, 0, 0.9}))
	require.NoError(t, f.Build(context.Background(), 3, []float64{0, 0, 0, 0}))
	require.NoError(t, f.Finalize(context.Background()))

	result, err := f.RunReducing(context.Background(), MethodDRG, 0.1, []int{0, 2}, WithTrace())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, result.Trace)
}

func TestFacade_OutOfRangeRowIndex(t *testing.T) {
	f, err := NewFacade(2)
	require.NoError(t, err)
	err = f.Build(context.Background(), 5, []float64{0, 0})
	assert.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"DRG", MethodDRG, false},
		{"DRGEP", MethodDRGEP, false},
		{"PFA", MethodPFA, false},
		{"pfa", "", true},
		{"bogus", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMethod(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewFacade_RejectsZeroSize(t *testing.T) {
	_, err := NewFacade(0)
	assert.Error(t, err)
}
