package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray_InsertAppendRemove(t *testing.T) {
	a := NewArray[int](4)

	require.NoError(t, a.Append(1))
	require.NoError(t, a.Append(2))
	require.NoError(t, a.Append(3))
	assert.Equal(t, []int{1, 2, 3}, a.Slice())

	require.NoError(t, a.Insert(1, 99))
	assert.Equal(t, []int{1, 99, 2, 3}, a.Slice())

	v, err := a.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.Equal(t, []int{1, 2, 3}, a.Slice())
}

func TestArray_CapacityExhausted(t *testing.T) {
	a := NewArray[int](2)
	require.NoError(t, a.Append(1))
	require.NoError(t, a.Append(2))

	err := a.Append(3)
	require.Error(t, err)
	assert.Equal(t, []int{1, 2}, a.Slice(), "failed append must not mutate the array")
}

func TestArray_OutOfRange(t *testing.T) {
	a := NewArray[int](4)
	require.NoError(t, a.Append(1))

	_, err := a.Get(5)
	require.Error(t, err)

	_, err = a.Remove(-1)
	require.Error(t, err)

	err = a.Insert(10, 1)
	require.Error(t, err)
}

func TestArray_Replace(t *testing.T) {
	a := NewArray[int](4)
	require.NoError(t, a.Append(1))
	require.NoError(t, a.Append(2))

	old, err := a.Replace(0, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, old)
	assert.Equal(t, []int{42, 2}, a.Slice())
}

func TestArray_Clear(t *testing.T) {
	a := NewArray[int](4)
	require.NoError(t, a.Append(1))
	a.Clear()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 4, a.Cap())
}
