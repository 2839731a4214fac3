package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectioned_AppendAcrossSectionBoundary(t *testing.T) {
	s, err := NewSectioned[int](4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(i))
	}
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 3, s.SectionCount())

	for i := 0; i < 10; i++ {
		v, err := s.Get(i)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestSectioned_InsertRipplesAcrossSections(t *testing.T) {
	s, err := NewSectioned[int](4)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		require.NoError(t, s.Append(i))
	}

	require.NoError(t, s.Insert(2, 999))

	want := []int{0, 1, 999, 2, 3, 4, 5, 6, 7, 8}
	got := make([]int, s.Len())
	for i := range got {
		got[i], _ = s.Get(i)
	}
	assert.Equal(t, want, got)
}

func TestSectioned_RemoveRipplesAcrossSections(t *testing.T) {
	s, err := NewSectioned[int](4)
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		require.NoError(t, s.Append(i))
	}

	removed, err := s.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	want := []int{0, 1, 3, 4, 5, 6, 7, 8}
	got := make([]int, s.Len())
	for i := range got {
		got[i], _ = s.Get(i)
	}
	assert.Equal(t, want, got)
}

func TestSectioned_RemoveDropsEmptyTailSections(t *testing.T) {
	s, err := NewSectioned[int](4)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(i))
	}
	require.Equal(t, 2, s.SectionCount())

	for i := 0; i < 4; i++ {
		_, err := s.Remove(s.Len() - 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.SectionCount())
}

func TestSectioned_OutOfRange(t *testing.T) {
	s, err := NewSectioned[int](4)
	require.NoError(t, err)
	require.NoError(t, s.Append(1))

	_, err = s.Get(5)
	assert.Error(t, err)

	_, err = s.Remove(5)
	assert.Error(t, err)
}

func TestSectioned_RejectsNonPositiveSectionSize(t *testing.T) {
	_, err := NewSectioned[int](0)
	assert.Error(t, err)
}
