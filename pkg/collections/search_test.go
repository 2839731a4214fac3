package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBSearchInsertPos(t *testing.T) {
	data := []int{1, 3, 3, 3, 5, 7}

	pos := BSearchInsertPos(len(data), func(i int) bool { return data[i] >= 3 })
	assert.Equal(t, 1, pos)

	pos = BSearchInsertPos(len(data), func(i int) bool { return data[i] >= 9 })
	assert.Equal(t, len(data), pos)

	pos = BSearchInsertPos(len(data), func(i int) bool { return data[i] >= 0 })
	assert.Equal(t, 0, pos)
}

func TestBSearchLeftToInsert(t *testing.T) {
	data := []int{1, 3, 3, 3, 5, 7}

	assert.Equal(t, 1, BSearchLeftToInsert(data, 3, 0, len(data)))
	assert.Equal(t, 0, BSearchLeftToInsert(data, 0, 0, len(data)))
	assert.Equal(t, len(data), BSearchLeftToInsert(data, 9, 0, len(data)))
}

func TestBSearchRightToInsert(t *testing.T) {
	data := []int{1, 3, 3, 3, 5, 7}

	assert.Equal(t, 4, BSearchRightToInsert(data, 3, 0, len(data)))
	assert.Equal(t, 0, BSearchRightToInsert(data, 0, 0, len(data)))
	assert.Equal(t, len(data), BSearchRightToInsert(data, 9, 0, len(data)))
}

func TestBSearchLeft(t *testing.T) {
	data := []int{1, 3, 3, 3, 5, 7}

	assert.Equal(t, 1, BSearchLeft(data, 3, 0, len(data)))
	assert.Equal(t, -1, BSearchLeft(data, 4, 0, len(data)))
	assert.Equal(t, 2, BSearchLeft(data, 3, 2, 3))
}

func TestBSearchWithinSubrange(t *testing.T) {
	data := []int{9, 1, 3, 3, 3, 5, 7, 9}

	assert.Equal(t, 2, BSearchLeftToInsert(data, 3, 1, 7))
	assert.Equal(t, 1, BSearchLeft(data, 1, 1, 7))
}

func TestCountBits(t *testing.T) {
	b, err := NewBitmap(10)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = b.Set(2, true)
	_, _ = b.Set(5, true)

	assert.Equal(t, 2, CountBits(b, true))
	assert.Equal(t, 8, CountBits(b, false))
}
