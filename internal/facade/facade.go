// Package facade implements the host-facing state machine:
// createMatrix/addRow/finalize/runReducing, the only surface a foreign
// host touches. A Facade owns exactly one matrix through
// its empty -> building -> finalized -> reduced lifecycle; once reduced,
// a Facade is a read-only record of the run (the matrix it wraps must
// not be rebuilt, mirroring DRG's edge-pruning mutation leaving the
// matrix consumed).
package facade

import (
	"context"
	"fmt"

	"github.com/hkreduce/greduce/internal/matrix"
	"github.com/hkreduce/greduce/internal/reduce"
	"github.com/hkreduce/greduce/pkg/collections"
	"github.com/hkreduce/greduce/pkg/errors"
	"github.com/hkreduce/greduce/pkg/utils"
	"go.opentelemetry.io/otel"
)

type state int

const (
	stateEmpty state = iota
	stateBuilding
	stateFinalized
	stateReduced
)

var tracer = otel.Tracer("greduce/facade")

// Result is runReducing's host-visible output: the ascending kept-node
// index list plus, when requested, a per-node trace of the originating
// source.
type Result struct {
	Method  Method           `json:"method"`
	Kept    []int            `json:"kept"`
	Trace   []int            `json:"trace,omitempty"` // nil unless WithTrace was passed to RunReducing
	Elapsed map[string]int64 `json:"elapsed,omitempty"`
}

// Facade is a host-facing builder/reducer over one CSR matrix: rows are
// appended in ascending index order, Finalize locks the matrix for reads,
// and RunReducing runs one of the graph-reduction methods over it (a DRG
// run prunes edges in place and leaves the matrix consumed).
type Facade struct {
	state    state
	size     int
	lastRow  int
	matrix   *matrix.CSR
	backing  collections.Allocator
	consumed bool // set once a DRG run has pruned edges in place

	logger utils.Logger
	timer  *utils.Timer
}

// Option configures a Facade at construction.
type Option func(*facadeConfig)

type facadeConfig struct {
	logger          utils.Logger
	backing         collections.Allocator
	sectionSize     int
	dynamicArrayBlk int
}

// WithLogger installs a Logger; the default is a NullLogger that discards
// everything.
func WithLogger(logger utils.Logger) Option {
	return func(c *facadeConfig) { c.logger = logger }
}

// WithBacking installs the allocator DRG's cursor pool falls back to
// once its arena is exhausted; nil selects the process-wide default.
func WithBacking(backing collections.Allocator) Option {
	return func(c *facadeConfig) { c.backing = backing }
}

// WithSectionSize overrides the matrix's cols/coefs Sectioned section
// length, normally config.Reduce.SectionSize at the CLI layer; zero (the
// default) selects collections.DefaultSectionSize.
func WithSectionSize(n int) Option {
	return func(c *facadeConfig) { c.sectionSize = n }
}

// WithDynamicArrayBlock overrides the growth block size of the matrix's
// cols/coefs Sectioned containers' outer sections list, normally
// config.Reduce.DynamicArrayBlock at the CLI layer; zero (the default)
// selects collections.DefaultBlockSize.
func WithDynamicArrayBlock(n int) Option {
	return func(c *facadeConfig) { c.dynamicArrayBlk = n }
}

// NewFacade creates an empty-state Facade over a size-N matrix.
// Precondition: size >= 1.
func NewFacade(size int, opts ...Option) (*Facade, error) {
	cfg := &facadeConfig{logger: &utils.NullLogger{}}
	for _, opt := range opts {
		opt(cfg)
	}

	sectionSize := cfg.sectionSize
	if sectionSize <= 0 {
		sectionSize = collections.DefaultSectionSize
	}
	blockSize := cfg.dynamicArrayBlk
	if blockSize <= 0 {
		blockSize = collections.DefaultBlockSize
	}
	m, err := matrix.NewCSRWithOptions(size, sectionSize, blockSize)
	if err != nil {
		return nil, err
	}

	f := &Facade{
		state:   stateEmpty,
		size:    size,
		lastRow: -1,
		matrix:  m,
		logger:  cfg.logger,
		backing: cfg.backing,
		timer:   utils.NewTimer("facade"),
	}
	return f, nil
}

func (f *Facade) log(level string, msg string, args ...interface{}) {
	if f.logger == nil {
		return
	}
	switch level {
	case "debug":
		f.logger.Debug(msg, args...)
	case "info":
		f.logger.Info(msg, args...)
	}
}

// Build appends row rowIdx's non-zero (column, coefficient) entries,
// read off a dense length-N rowVector, to the matrix under construction.
// Allowed only in empty/building state; rowIdx must be exactly one past
// the last row added (strict ascending, no gaps).
func (f *Facade) Build(ctx context.Context, rowIdx int, rowVector []float64) error {
	_, span := tracer.Start(ctx, "facade.build")
	defer span.End()
	pt := f.timer.Start(fmt.Sprintf("build[%d]", rowIdx))
	defer pt.Stop()

	if f.state != stateEmpty && f.state != stateBuilding {
		return errors.StateViolation("addRow after finalize")
	}
	if len(rowVector) != f.size {
		return errors.InvalidArgument(fmt.Sprintf("row vector length %d must equal matrix size %d", len(rowVector), f.size))
	}
	if rowIdx < 0 || rowIdx >= f.size {
		return errors.OutOfRange("rowIdx", rowIdx)
	}
	if rowIdx != f.lastRow+1 {
		return errors.InvalidArgument(fmt.Sprintf("rowIdx %d is not the next ascending row after %d", rowIdx, f.lastRow))
	}

	count := 0
	for col, coef := range rowVector {
		if coef == 0 {
			continue
		}
		if err := f.matrix.AddEntry(col, coef); err != nil {
			return err
		}
		count++
	}
	if err := f.matrix.SetRowCount(rowIdx, count); err != nil {
		return err
	}

	f.lastRow = rowIdx
	f.state = stateBuilding
	f.log("debug", "built row %d with %d non-zero entries", rowIdx, count)
	return nil
}

// Finalize converts rows from per-row counts to prefix sums. Idempotent-
// guarded: a second call is a StateViolation.
func (f *Facade) Finalize(ctx context.Context) error {
	_, span := tracer.Start(ctx, "facade.finalize")
	defer span.End()
	pt := f.timer.Start("finalize")
	defer pt.Stop()

	if f.state != stateBuilding && f.state != stateEmpty {
		return errors.StateViolation("finalize called twice")
	}
	if err := f.matrix.Finalize(); err != nil {
		return err
	}
	f.state = stateFinalized
	f.log("debug", "finalized matrix of size %d", f.size)
	return nil
}

// RunOption configures a single RunReducing call.
type RunOption func(*runConfig)

type runConfig struct {
	trace   bool
	backing collections.Allocator
}

// WithTrace requests the per-node originating-source trace,
// populating Result.Trace.
func WithTrace() RunOption {
	return func(c *runConfig) { c.trace = true }
}

// RunReducing dispatches to the chosen reducer over the finalized
// matrix, returning the ascending kept-node index list. Allowed from
// finalized or reduced state, and fails once a DRG run has consumed the
// matrix; transitions to reduced on success.
func (f *Facade) RunReducing(ctx context.Context, method Method, threshold float64, sources []int, opts ...RunOption) (*Result, error) {
	ctx, span := tracer.Start(ctx, "facade.runReducing")
	defer span.End()
	pt := f.timer.Start("runReducing")
	defer pt.Stop()

	// runReducing is a pure function of (matrix, method, threshold,
	// sources) once finalized: repeated calls on the same
	// finalized/reduced facade must return identical output, so reduced
	// is not a dead end the way building->finalized is.
	if f.state != stateFinalized && f.state != stateReduced {
		return nil, errors.StateViolation("runReducing before finalize")
	}
	if f.consumed {
		return nil, errors.StateViolation("matrix already consumed by a prior DRG run and must not be reused")
	}

	cfg := &runConfig{backing: f.backing}
	for _, opt := range opts {
		opt(cfg)
	}

	kept, trace, err := f.dispatch(ctx, method, threshold, sources, cfg)
	if err != nil {
		return nil, err
	}

	f.state = stateReduced
	if method == MethodDRG {
		f.consumed = true
	}
	f.log("info", "runReducing method=%s kept=%d/%d", method, len(kept), f.size)

	elapsed := make(map[string]int64, len(f.timer.GetPhases()))
	for _, phase := range f.timer.GetPhases() {
		elapsed[phase.Name] = phase.Duration.Milliseconds()
	}
	return &Result{Method: method, Kept: kept, Trace: trace, Elapsed: elapsed}, nil
}

func (f *Facade) dispatch(ctx context.Context, method Method, threshold float64, sources []int, cfg *runConfig) ([]int, []int, error) {
	switch method {
	case MethodDRG:
		_, span := tracer.Start(ctx, "reduce.drg")
		defer span.End()
		drg := reduce.NewDRG()
		if cfg.trace {
			bitmap, trace, err := drg.RunTraced(f.matrix, sources, threshold, cfg.backing)
			if err != nil {
				return nil, nil, err
			}
			return bitmapToIndices(bitmap), trace, nil
		}
		bitmap, err := drg.Run(f.matrix, sources, threshold, cfg.backing)
		if err != nil {
			return nil, nil, err
		}
		return bitmapToIndices(bitmap), nil, nil

	case MethodDRGEP:
		_, span := tracer.Start(ctx, "reduce.drgep")
		defer span.End()
		drgep := reduce.NewDRGEP()
		if cfg.trace {
			bitmap, trace, err := drgep.RunTraced(f.matrix, sources, threshold)
			if err != nil {
				return nil, nil, err
			}
			return bitmapToIndices(bitmap), trace, nil
		}
		bitmap, err := drgep.Run(f.matrix, sources, threshold)
		if err != nil {
			return nil, nil, err
		}
		return bitmapToIndices(bitmap), nil, nil

	case MethodPFA:
		_, span := tracer.Start(ctx, "reduce.pfa")
		defer span.End()
		pfa := reduce.NewPFA()
		if cfg.trace {
			bitmap, trace, err := pfa.RunTraced(f.matrix, sources, threshold)
			if err != nil {
				return nil, nil, err
			}
			return bitmapToIndices(bitmap), trace, nil
		}
		bitmap, err := pfa.Run(f.matrix, sources, threshold)
		if err != nil {
			return nil, nil, err
		}
		return bitmapToIndices(bitmap), nil, nil

	default:
		return nil, nil, errors.InvalidArgument(fmt.Sprintf("unknown reduction method: %q", method))
	}
}

func bitmapToIndices(b *collections.Bitmap) []int {
	raw := b.Indices(true)
	kept := make([]int, len(raw))
	for i, v := range raw {
		kept[i] = int(v)
	}
	return kept
}

// Size returns N, the number of nodes in the facade's matrix.
func (f *Facade) Size() int { return f.size }
