// Package matrix implements the compressed-sparse-row adjacency matrix
// that the reducers traverse and mutate. Rows hold prefix-sum offsets,
// cols the strictly-ascending column indices of each row, and coefs the
// coefficients aligned with cols. A coefficient may be zeroed in place to
// mark an edge removed without shifting the column arrays: cols entries
// for a zeroed edge are never deleted, only hidden from traversal by the
// neighbour cursor's skip-zero advance.
package matrix

import (
	"github.com/hkreduce/greduce/pkg/collections"
	"github.com/hkreduce/greduce/pkg/errors"
)

// CSR is a compressed-sparse-row adjacency matrix over float64
// coefficients, grounded on the source's CSRAdjacencyMatrix<TCoef>. rows
// is fixed at N entries and never grows past construction, matching the
// source's python_interface/types.cpp placement of rows as an
// ArrayCollection<size_t>, so it is backed by the fixed-capacity Array
// rather than a container with a growth policy; cols/coefs grow with
// the edge count (which can be large for a dense mechanism) and are
// backed by Sectioned rather than DynamicArray, matching the same
// source's construction of cols/coefs as SectionedCollection: an append
// there only ever touches the tail section, and an insert ripples at
// most one element per section instead of copying the whole backing
// buffer on every block-boundary growth.
type CSR struct {
	size  int
	rows  *collections.Array[int]
	cols  *collections.Sectioned[int]
	coefs *collections.Sectioned[float64]
}

// NewCSR starts a CSR matrix of the given size in build mode: rows is
// pre-sized to size with zeros, cols and coefs start empty. Callers
// append a row's non-zero columns and coefficients with AddEntry in
// ascending column order, record the row's non-zero count with
// SetRowCount, then call Finalize once every row has been added.
func NewCSR(size int) (*CSR, error) {
	return NewCSRWithOptions(size, collections.DefaultSectionSize, collections.DefaultBlockSize)
}

// NewCSRWithSectionSize is NewCSR but lets the caller override the
// Sectioned backing's section length for cols/coefs (config.Reduce.
// SectionSize at the CLI layer), instead of always taking
// collections.DefaultSectionSize. A larger section amortizes more
// inserts per allocation at the cost of a bigger single-section shift;
// a smaller one suits a sparser mechanism with many small rows.
func NewCSRWithSectionSize(size, sectionSize int) (*CSR, error) {
	return NewCSRWithOptions(size, sectionSize, collections.DefaultBlockSize)
}

// NewCSRWithOptions is NewCSR but lets the caller override both the
// Sectioned section length for cols/coefs and the growth block size of
// their outer sections list (config.Reduce.SectionSize and
// DynamicArrayBlock at the CLI layer).
func NewCSRWithOptions(size, sectionSize, blockSize int) (*CSR, error) {
	if size < 1 {
		return nil, errors.InvalidArgument("matrix size must be at least 1")
	}

	rows := collections.NewArray[int](size)
	for i := 0; i < size; i++ {
		if err := rows.Append(0); err != nil {
			return nil, err
		}
	}
	cols, err := collections.NewSectionedWithBlockSize[int](sectionSize, blockSize)
	if err != nil {
		return nil, err
	}
	coefs, err := collections.NewSectionedWithBlockSize[float64](sectionSize, blockSize)
	if err != nil {
		return nil, err
	}

	return &CSR{size: size, rows: rows, cols: cols, coefs: coefs}, nil
}

// Size returns N, the number of nodes.
func (m *CSR) Size() int { return m.size }

// AddEntry appends a (col, coef) pair to the tail of cols/coefs. Callers
// must append entries for row r in ascending column order before moving
// on to row r+1; Finalize does not re-sort.
func (m *CSR) AddEntry(col int, coef float64) error {
	if err := m.cols.Append(col); err != nil {
		return err
	}
	return m.coefs.Append(coef)
}

// SetRowCount records that row r holds count non-zero entries. Must be
// called once per row, in ascending row order, before Finalize.
func (m *CSR) SetRowCount(row, count int) error {
	_, err := m.rows.Replace(row, count)
	return err
}

// BuildRow appends row r's non-zero (col, coef) pairs, in ascending
// column order, and records its count in one call. cols and coefs must
// be the same length.
func (m *CSR) BuildRow(row int, cols []int, coefs []float64) error {
	if len(cols) != len(coefs) {
		return errors.InvalidArgument("cols and coefs must be the same length")
	}
	for i := range cols {
		if err := m.AddEntry(cols[i], coefs[i]); err != nil {
			return err
		}
	}
	return m.SetRowCount(row, len(cols))
}

// Finalize converts rows in place from per-row counts to prefix sums, so
// rows[r] becomes the exclusive end of row r's entries. Must be called
// exactly once, after every row's entries and count have been recorded.
func (m *CSR) Finalize() error {
	running := 0
	for r := 0; r < m.size; r++ {
		count, err := m.rows.Get(r)
		if err != nil {
			return err
		}
		running += count
		if _, err := m.rows.Replace(r, running); err != nil {
			return err
		}
	}
	return nil
}

func (m *CSR) rowBounds(row int) (int, int, error) {
	if row < 0 || row >= m.size {
		return 0, 0, errors.OutOfRange("row", row)
	}
	stop, err := m.rows.Get(row)
	if err != nil {
		return 0, 0, err
	}
	start := 0
	if row != 0 {
		start, err = m.rows.Get(row - 1)
		if err != nil {
			return 0, 0, err
		}
	}
	return start, stop, nil
}

// At returns the coefficient of edge (from, to), or 0 if the edge does
// not exist or has been zeroed.
func (m *CSR) At(from, to int) (float64, error) {
	start, stop, err := m.rowBounds(from)
	if err != nil {
		return 0, err
	}
	if start == stop {
		return 0, nil
	}

	idx := collections.BSearchLeftToInsertIndexed(m.colAt, to, start, stop)
	if idx >= stop || m.colAt(idx) != to {
		return 0, nil
	}
	return m.coefs.Get(idx)
}

// colAt reads cols[i], discarding the error: every call site already
// bounds i within [0, len(cols)) via rowBounds, so the only possible
// error (out of range) cannot occur here.
func (m *CSR) colAt(i int) int {
	v, _ := m.cols.Get(i)
	return v
}

// SetCoef sets the coefficient of edge (from, to) to coef and returns
// the previous value. If the edge does not yet exist and coef is
// non-zero, a new entry is inserted and every row offset from..size-1 is
// incremented; setting a non-existent edge to zero is a no-op. Setting
// an existing edge to zero keeps the entry in place (zero-in-place), so
// the neighbour cursor alone decides whether it is still traversable.
func (m *CSR) SetCoef(from, to int, coef float64) (float64, error) {
	if from < 0 || from >= m.size || to < 0 || to >= m.size {
		return 0, errors.OutOfRange("from or to", from)
	}

	start, stop, err := m.rowBounds(from)
	if err != nil {
		return 0, err
	}

	idx := collections.BSearchLeftToInsertIndexed(m.colAt, to, start, stop)
	if idx < stop && m.colAt(idx) == to {
		old, err := m.coefs.Get(idx)
		if err != nil {
			return 0, err
		}
		_, err = m.coefs.Replace(idx, coef)
		return old, err
	}

	if coef == 0 {
		return 0, nil
	}

	if err := m.cols.Insert(idx, to); err != nil {
		return 0, err
	}
	if err := m.coefs.Insert(idx, coef); err != nil {
		return 0, err
	}
	for r := from; r < m.size; r++ {
		v, err := m.rows.Get(r)
		if err != nil {
			return 0, err
		}
		if _, err := m.rows.Replace(r, v+1); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// NeighbourCursor walks the live, non-zero edges of one row of a CSR
// matrix. It never crosses into another row. A cursor constructed at a
// row with no non-zero entry at or after `to` starts stopped.
type NeighbourCursor struct {
	matrix  *CSR
	from    int
	start   int
	stop    int
	pos     int
	stopped bool
}

// NewNeighbourCursor positions a cursor at the smallest column index in
// row from with cols[pos] >= to, grounded on
// CSRAdjacencyMatrix::getNeighboursIterator.
func (m *CSR) NewNeighbourCursor(from, to int) (*NeighbourCursor, error) {
	if from < 0 || from >= m.size || to < 0 || to >= m.size {
		return nil, errors.OutOfRange("from or to", from)
	}
	start, stop, err := m.rowBounds(from)
	if err != nil {
		return nil, err
	}

	c := &NeighbourCursor{matrix: m, from: from, start: start, stop: stop}
	pos := collections.BSearchLeftToInsertIndexed(m.colAt, to, start, stop)
	c.pos = pos
	c.stopped = pos >= stop
	if !c.stopped {
		coef, err := m.coefs.Get(pos)
		if err != nil {
			return nil, err
		}
		if coef == 0 {
			if err := c.Next(); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// Reset repositions an existing cursor at row from, column to, reusing
// its slot to avoid a fresh allocation (replaceNeighboursIterator in the
// source).
func (c *NeighbourCursor) Reset(from, to int) error {
	fresh, err := c.matrix.NewNeighbourCursor(from, to)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

// Stopped reports whether the cursor has run off the end (or start) of
// its row.
func (c *NeighbourCursor) Stopped() bool { return c.stopped }

// From returns the row this cursor walks.
func (c *NeighbourCursor) From() int { return c.from }

// To returns the column of the edge the cursor currently points at. The
// cursor must be live.
func (c *NeighbourCursor) To() (int, error) {
	if c.stopped {
		return 0, errors.StateViolation("neighbour cursor is stopped")
	}
	return c.matrix.cols.Get(c.pos)
}

// Coef returns the coefficient of the edge the cursor currently points
// at. The cursor must be live.
func (c *NeighbourCursor) Coef() (float64, error) {
	if c.stopped {
		return 0, errors.StateViolation("neighbour cursor is stopped")
	}
	return c.matrix.coefs.Get(c.pos)
}

// SetCoef mutates the coefficient the cursor currently points at and
// returns the old value. Setting it to zero stops the cursor (it now
// points at a removed edge), matching the matrix's zero-in-place
// removal convention.
func (c *NeighbourCursor) SetCoef(coef float64) (float64, error) {
	if c.stopped {
		return 0, errors.StateViolation("neighbour cursor is stopped")
	}
	old, err := c.matrix.coefs.Get(c.pos)
	if err != nil {
		return 0, err
	}
	if _, err := c.matrix.coefs.Replace(c.pos, coef); err != nil {
		return 0, err
	}
	if coef == 0 {
		c.stopped = true
	}
	return old, nil
}

// Next advances the cursor to the next non-zero edge in the same row.
// If none remains, the cursor stops at the row's end.
func (c *NeighbourCursor) Next() error {
	if c.pos >= c.stop {
		return nil
	}

	if c.pos == c.start && c.stopped {
		coef, err := c.matrix.coefs.Get(c.pos)
		if err != nil {
			return err
		}
		if coef != 0 {
			c.stopped = false
			return nil
		}
	}

	for c.pos++; c.pos < c.stop; c.pos++ {
		coef, err := c.matrix.coefs.Get(c.pos)
		if err != nil {
			return err
		}
		if coef != 0 {
			c.stopped = false
			return nil
		}
	}
	c.stopped = true
	return nil
}

// Prev retreats the cursor to the previous non-zero edge in the same
// row. If none remains before the row's start, the cursor stops.
func (c *NeighbourCursor) Prev() error {
	for c.pos > c.start {
		c.pos--
		coef, err := c.matrix.coefs.Get(c.pos)
		if err != nil {
			return err
		}
		if coef != 0 {
			c.stopped = false
			return nil
		}
	}
	c.stopped = true
	return nil
}
