package collections

import (
	"math/bits"

	"github.com/hkreduce/greduce/pkg/errors"
)

// wordBits is the section width in bits. The source parametrises
// this on the host's machine word; a fixed 64-bit uint64 section is the
// idiomatic Go equivalent and keeps math/bits.OnesCount64 directly
// applicable to countBits.
const wordBits = 64

// Bitmap is a packed boolean sequence over word-sized sections.
// Insert and Remove preserve logical bit order across section
// boundaries by rippling a single carried bit section by section, rather
// than shifting the whole backing array.
type Bitmap struct {
	sections []uint64
	length   int
}

// NewBitmap creates a Bitmap of the given length, all bits false.
func NewBitmap(length int) (*Bitmap, error) {
	return NewBitmapFilled(length, false)
}

// NewBitmapFilled creates a Bitmap of the given length with every bit set
// to value.
func NewBitmapFilled(length int, value bool) (*Bitmap, error) {
	if length < 0 {
		return nil, errors.InvalidArgument("bitmap length must be non-negative")
	}
	sectionCount := length / wordBits
	if length%wordBits != 0 {
		sectionCount++
	}
	sections := make([]uint64, sectionCount)
	if value {
		fill := ^uint64(0)
		for i := range sections {
			sections[i] = fill
		}
	}
	return &Bitmap{sections: sections, length: length}, nil
}

// Len returns the logical length of the bitmap.
func (b *Bitmap) Len() int { return b.length }

// Get returns the bit at index i.
func (b *Bitmap) Get(i int) (bool, error) {
	if i < 0 || i >= b.length {
		return false, errors.OutOfRange("index", i)
	}
	return b.sections[i/wordBits]&(uint64(1)<<uint(i%wordBits)) != 0, nil
}

// Set assigns the bit at index i and returns its previous value.
func (b *Bitmap) Set(i int, v bool) (bool, error) {
	if i < 0 || i >= b.length {
		return false, errors.OutOfRange("index", i)
	}
	sec := i / wordBits
	mask := uint64(1) << uint(i%wordBits)
	old := b.sections[sec]&mask != 0
	if v {
		b.sections[sec] |= mask
	} else {
		b.sections[sec] &^= mask
	}
	return old, nil
}

// BitRef is a one-bit lvalue: a proxy carrying the backing section and
// bit position, per the source's proxy-reference design note. It has no
// machine address of its own; Get/Assign always mask through the section
// it was built from.
type BitRef struct {
	section *uint64
	pos     uint
}

// At returns a proxy reference to the bit at index i.
func (b *Bitmap) At(i int) (BitRef, error) {
	if i < 0 || i >= b.length {
		return BitRef{}, errors.OutOfRange("index", i)
	}
	return BitRef{section: &b.sections[i/wordBits], pos: uint(i % wordBits)}, nil
}

// Get reads the referenced bit.
func (r BitRef) Get() bool {
	return *r.section&(uint64(1)<<r.pos) != 0
}

// Assign writes the referenced bit and returns its previous value.
func (r BitRef) Assign(v bool) bool {
	old := r.Get()
	if v {
		*r.section |= uint64(1) << r.pos
	} else {
		*r.section &^= uint64(1) << r.pos
	}
	return old
}

func insertBitIntoWord(word *uint64, bitIdx int, v bool) bool {
	var mask uint64
	if bitIdx > 0 {
		mask = (uint64(1) << uint(bitIdx)) - 1
	}
	leaved := *word&(uint64(1)<<(wordBits-1)) != 0
	bitsBefore := *word & mask
	bitsAfter := (*word &^ mask) << 1
	newWord := bitsBefore | bitsAfter
	if v {
		newWord |= uint64(1) << uint(bitIdx)
	} else {
		newWord &^= uint64(1) << uint(bitIdx)
	}
	*word = newWord
	return leaved
}

func removeBitFromWord(word *uint64, bitIdx int, leftestValue bool) bool {
	lowMask := uint64(0)
	if bitIdx > 0 {
		lowMask = (uint64(1) << uint(bitIdx)) - 1
	}
	highMask := (uint64(1) << uint(bitIdx+1)) - 1
	leaved := *word&(uint64(1)<<uint(bitIdx)) != 0
	bitsBefore := *word & lowMask
	bitsAfter := (*word &^ highMask) >> 1
	newWord := bitsBefore | bitsAfter
	if leftestValue {
		newWord |= uint64(1) << (wordBits - 1)
	} else {
		newWord &^= uint64(1) << (wordBits - 1)
	}
	*word = newWord
	return leaved
}

// Insert shifts bits [i, length) right by one position, placing v at i,
// and grows the length by one. The bit carried out of each section's top
// is rippled into the front of the next section, appending a fresh
// section first if every allocated section is already full.
func (b *Bitmap) Insert(i int, v bool) error {
	if i < 0 || i > b.length {
		return errors.OutOfRange("index", i)
	}
	if len(b.sections)*wordBits == b.length {
		b.sections = append(b.sections, 0)
	}

	sectionIdx, bitIdx := i/wordBits, i%wordBits
	usedSections := b.length/wordBits + 1

	leaved := insertBitIntoWord(&b.sections[sectionIdx], bitIdx, v)
	for k := sectionIdx + 1; k < usedSections; k++ {
		leaved = insertBitIntoWord(&b.sections[k], 0, leaved)
	}
	b.length++
	return nil
}

// Remove shifts bits (i, length) left by one position, deletes the bit
// at i, and shrinks the length by one. Each section's vacated top bit is
// backfilled from the front of the next section, cascading from the
// last used section down to the one containing i. Unlike the original
// source (whose remove() has an unreachable branch that skips
// size-bookkeeping), this always shrinks the length and, when the new
// length lands on a section boundary, drops the now-unused trailing
// sections.
func (b *Bitmap) Remove(i int) (bool, error) {
	if i < 0 || i >= b.length {
		return false, errors.OutOfRange("index", i)
	}
	sectionIdx, bitIdx := i/wordBits, i%wordBits
	usedSections := b.length / wordBits
	if b.length%wordBits != 0 {
		usedSections++
	}

	leaved := false
	for k := usedSections - 1; k > sectionIdx; k-- {
		leaved = removeBitFromWord(&b.sections[k], 0, leaved)
	}
	removed := removeBitFromWord(&b.sections[sectionIdx], bitIdx, leaved)

	b.length--
	if b.length%wordBits == 0 {
		b.sections = b.sections[:b.length/wordBits]
	}
	return removed, nil
}

// CountBits returns the number of bits equal to value. Padding bits
// beyond length are never read: the partial tail section is scanned bit
// by bit bounded by length, not by the section width.
func (b *Bitmap) CountBits(value bool) int {
	fullSections := b.length / wordBits
	result := 0
	for i := 0; i < fullSections; i++ {
		result += bits.OnesCount64(b.sections[i])
	}
	for i := fullSections * wordBits; i < b.length; i++ {
		if v, _ := b.Get(i); v {
			result++
		}
	}
	if !value {
		result = b.length - result
	}
	return result
}

// Indices returns, in ascending order, the indices of every bit equal to
// value. Used by the facade to enumerate a reduction's kept node set.
func (b *Bitmap) Indices(value bool) []uint32 {
	result := make([]uint32, 0, b.CountBits(value))
	for secIdx, word := range b.sections {
		base := secIdx * wordBits
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			idx := base + tz
			if idx < b.length && value {
				result = append(result, uint32(idx))
			}
			word &= word - 1
		}
	}
	if value {
		return result
	}
	result = result[:0]
	for i := 0; i < b.length; i++ {
		if v, _ := b.Get(i); !v {
			result = append(result, uint32(i))
		}
	}
	return result
}

// Clear empties the bitmap to length 0.
func (b *Bitmap) Clear() {
	b.sections = nil
	b.length = 0
}
