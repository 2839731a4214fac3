package collections

import "github.com/hkreduce/greduce/pkg/errors"

// DefaultSectionSize is the default inner-section length for a Sectioned
// container, matching the source's default of 1024 elements per section.
const DefaultSectionSize = 1024

// Sectioned is an outer dynamic array of fixed-length inner "sections",
// grounded on the source's SectionedCollectionCommonMethods, whose
// `sections` member is itself a DArrayCollection<Section> — here that
// outer list is a DynamicArray[[]T], growing one section at a time at
// DefaultBlockSize rather than a bare Go slice. Index i maps to (i/S,
// i%S) for O(1) indexed access. Insert at an arbitrary index ripples one
// element per section boundary: the tail element of each section from
// the insertion point to the last used section is evicted and carried
// into the front of the next section. Remove is the mirror image: each
// section borrows the front element of the next section to stay full,
// cascading down to the last section, which simply shrinks. Only the
// touched sections are ever reallocated, bounding worst-case relocation
// cost to one element move per section.
type Sectioned[T any] struct {
	sections    *DynamicArray[[]T]
	sectionSize int
	length      int
}

// NewSectioned creates a Sectioned container with the given section
// size. A non-positive size is rejected with InvalidArgument.
func NewSectioned[T any](sectionSize int) (*Sectioned[T], error) {
	return NewSectionedWithBlockSize[T](sectionSize, DefaultBlockSize)
}

// NewSectionedWithBlockSize is NewSectioned but lets the caller override
// the growth granularity of the outer sections list itself (config.Reduce.
// DynamicArrayBlock at the CLI layer), instead of always taking
// DefaultBlockSize. This only affects how often the *list of sections*
// reallocates as section count grows, not the section size.
func NewSectionedWithBlockSize[T any](sectionSize, blockSize int) (*Sectioned[T], error) {
	if sectionSize <= 0 {
		return nil, errors.InvalidArgument("section size must be positive")
	}
	sections, err := NewDynamicArray[[]T](blockSize)
	if err != nil {
		return nil, err
	}
	return &Sectioned[T]{sections: sections, sectionSize: sectionSize}, nil
}

// Len returns the number of elements currently stored.
func (s *Sectioned[T]) Len() int { return s.length }

// SectionSize returns the fixed inner-section length.
func (s *Sectioned[T]) SectionSize() int { return s.sectionSize }

// SectionCount returns the number of inner sections currently allocated.
func (s *Sectioned[T]) SectionCount() int { return s.sections.Len() }

func (s *Sectioned[T]) indexOf(i int) (sec, pos int) {
	return i / s.sectionSize, i % s.sectionSize
}

// Get returns the element at index i.
func (s *Sectioned[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= s.length {
		return zero, errors.OutOfRange("index", i)
	}
	sec, pos := s.indexOf(i)
	section, err := s.sections.Get(sec)
	if err != nil {
		return zero, err
	}
	return section[pos], nil
}

// Replace overwrites the element at index i and returns the previous value.
func (s *Sectioned[T]) Replace(i int, v T) (T, error) {
	var zero T
	if i < 0 || i >= s.length {
		return zero, errors.OutOfRange("index", i)
	}
	sec, pos := s.indexOf(i)
	section, err := s.sections.Get(sec)
	if err != nil {
		return zero, err
	}
	old := section[pos]
	section[pos] = v
	return old, nil
}

// sectionInsert inserts v at pos within section, growing it in place if
// it has spare room, or evicting and returning its tail element as the
// carry for the next section.
func sectionInsert[T any](section []T, sectionSize, pos int, v T) ([]T, T, bool) {
	var zero T
	if len(section) < sectionSize {
		section = append(section, zero)
		copy(section[pos+1:], section[pos:len(section)-1])
		section[pos] = v
		return section, zero, false
	}
	carry := section[len(section)-1]
	copy(section[pos+1:], section[pos:len(section)-1])
	section[pos] = v
	return section, carry, true
}

// Insert places v at index i, rippling one element per section boundary
// toward the tail.
func (s *Sectioned[T]) Insert(i int, v T) error {
	if i < 0 || i > s.length {
		return errors.OutOfRange("index", i)
	}
	if s.length == s.sections.Len()*s.sectionSize {
		if err := s.sections.Append(make([]T, 0, s.sectionSize)); err != nil {
			return err
		}
	}

	sec, pos := s.indexOf(i)
	carry := v
	hasCarry := true
	for k := sec; hasCarry && k < s.sections.Len(); k++ {
		insertPos := 0
		if k == sec {
			insertPos = pos
		}
		section, err := s.sections.Get(k)
		if err != nil {
			return err
		}
		var newSection []T
		newSection, carry, hasCarry = sectionInsert(section, s.sectionSize, insertPos, carry)
		if _, err := s.sections.Replace(k, newSection); err != nil {
			return err
		}
	}
	s.length++
	return nil
}

// Append inserts v at the end; equivalent to Insert(Len(), v).
func (s *Sectioned[T]) Append(v T) error {
	return s.Insert(s.length, v)
}

// Remove deletes the element at index i, rippling the gap toward the
// tail, and drops any sections left fully empty.
func (s *Sectioned[T]) Remove(i int) (T, error) {
	var zero T
	if i < 0 || i >= s.length {
		return zero, errors.OutOfRange("index", i)
	}
	sec, pos := s.indexOf(i)
	firstSection, err := s.sections.Get(sec)
	if err != nil {
		return zero, err
	}
	removed := firstSection[pos]

	for k := sec; k < s.sections.Len(); k++ {
		section, err := s.sections.Get(k)
		if err != nil {
			return zero, err
		}
		if k == sec {
			copy(section[pos:], section[pos+1:])
			section = section[:len(section)-1]
		}

		if k+1 < s.sections.Len() {
			next, err := s.sections.Get(k + 1)
			if err != nil {
				return zero, err
			}
			if len(next) > 0 {
				section = append(section, next[0])
				if _, err := s.sections.Replace(k, section); err != nil {
					return zero, err
				}
				copy(next, next[1:])
				next = next[:len(next)-1]
				if _, err := s.sections.Replace(k+1, next); err != nil {
					return zero, err
				}
				continue
			}
		}

		if _, err := s.sections.Replace(k, section); err != nil {
			return zero, err
		}
		break
	}

	s.length--
	for s.sections.Len() > 0 {
		last, err := s.sections.Get(s.sections.Len() - 1)
		if err != nil {
			return zero, err
		}
		if len(last) != 0 {
			break
		}
		if _, err := s.sections.Remove(s.sections.Len() - 1); err != nil {
			return zero, err
		}
	}
	return removed, nil
}

// Clear empties the container, releasing every section.
func (s *Sectioned[T]) Clear() {
	s.sections.Clear()
	s.length = 0
}

// Resize grows or shrinks the container by whole sections only; size
// must be a value this container can represent exactly in the current
// section granularity's terms (any non-negative size is accepted, but
// the underlying section count only ever changes by whole sections).
func (s *Sectioned[T]) Resize(size int) error {
	if size < 0 {
		return errors.InvalidArgument("size must be non-negative")
	}
	wantSections := size / s.sectionSize
	if size%s.sectionSize != 0 {
		wantSections++
	}
	for s.sections.Len() < wantSections {
		if err := s.sections.Append(make([]T, 0, s.sectionSize)); err != nil {
			return err
		}
	}
	for s.sections.Len() > wantSections {
		if _, err := s.sections.Remove(s.sections.Len() - 1); err != nil {
			return err
		}
	}
	s.length = size
	return nil
}
