package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/hkreduce/greduce/internal/facade"
	"github.com/hkreduce/greduce/pkg/errors"
)

// wireInput is the parsed form of the stdin wire format:
// threshold sourcesCount src0 src1 ... size edgesCount (from to coef)*edgesCount.
type wireInput struct {
	Threshold float64
	Sources   []int
	Size      int
	Rows      [][]float64
}

func parseWireInput(r io.Reader) (*wireInput, error) {
	var in wireInput

	if _, err := fmt.Fscan(r, &in.Threshold); err != nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("reading threshold: %v", err))
	}

	var sourcesCount int
	if _, err := fmt.Fscan(r, &sourcesCount); err != nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("reading sourcesCount: %v", err))
	}
	if sourcesCount < 0 {
		return nil, errors.OutOfRange("sourcesCount", sourcesCount)
	}
	in.Sources = make([]int, sourcesCount)
	for i := range in.Sources {
		if _, err := fmt.Fscan(r, &in.Sources[i]); err != nil {
			return nil, errors.InvalidArgument(fmt.Sprintf("reading source %d: %v", i, err))
		}
	}

	if _, err := fmt.Fscan(r, &in.Size); err != nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("reading size: %v", err))
	}
	if in.Size < 1 {
		return nil, errors.OutOfRange("size", in.Size)
	}

	var edgesCount int
	if _, err := fmt.Fscan(r, &edgesCount); err != nil {
		return nil, errors.InvalidArgument(fmt.Sprintf("reading edgesCount: %v", err))
	}
	if edgesCount < 0 {
		return nil, errors.OutOfRange("edgesCount", edgesCount)
	}

	in.Rows = make([][]float64, in.Size)
	for i := range in.Rows {
		in.Rows[i] = make([]float64, in.Size)
	}

	for i := 0; i < edgesCount; i++ {
		var from, to int
		var coef float64
		if _, err := fmt.Fscan(r, &from, &to, &coef); err != nil {
			return nil, errors.InvalidArgument(fmt.Sprintf("reading edge %d: %v", i, err))
		}
		if from < 0 || from >= in.Size {
			return nil, errors.OutOfRange("edge.from", from)
		}
		if to < 0 || to >= in.Size {
			return nil, errors.OutOfRange("edge.to", to)
		}
		in.Rows[from][to] = coef
	}

	for _, s := range in.Sources {
		if s < 0 || s >= in.Size {
			return nil, errors.OutOfRange("source", s)
		}
	}

	return &in, nil
}

// buildFacade builds and finalizes a fresh Facade over in's dense rows. A
// fresh Facade is built per call so repeat runs (e.g. --sweep) never
// collide with DRG's matrix-consuming rule.
func buildFacade(ctx context.Context, in *wireInput) (*facade.Facade, error) {
	var opts []facade.Option
	if cfg != nil {
		opts = append(opts, facade.WithSectionSize(cfg.Reduce.SectionSize))
		opts = append(opts, facade.WithDynamicArrayBlock(cfg.Reduce.DynamicArrayBlock))
	}
	f, err := facade.NewFacade(in.Size, opts...)
	if err != nil {
		return nil, err
	}
	for rowIdx, row := range in.Rows {
		if err := f.Build(ctx, rowIdx, row); err != nil {
			return nil, err
		}
	}
	if err := f.Finalize(ctx); err != nil {
		return nil, err
	}
	return f, nil
}
