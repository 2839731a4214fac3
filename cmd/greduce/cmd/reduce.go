package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hkreduce/greduce/internal/facade"
	"github.com/hkreduce/greduce/pkg/compression"
	"github.com/hkreduce/greduce/pkg/writer"
)

var (
	reduceMethod    string
	reduceThreshold float64
	reduceIn        string
	reduceOut       string
	reduceFormat    string
	reduceSweep     string
	reduceTrace     bool
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Reduce a mechanism graph read from stdin or --in",
	Long: `reduce reads a wire-format mechanism graph: "threshold sourcesCount
src0 ... size edgesCount (from to coef)*" from stdin (or --in), runs the
chosen reduction method end to end, and writes the kept node indices to
stdout (or --out).`,
	RunE: runReduce,
}

func init() {
	reduceCmd.Flags().StringVar(&reduceMethod, "method", "", "reduction method: drg, drgep, or pfa (required)")
	reduceCmd.Flags().Float64Var(&reduceThreshold, "threshold", -1, "override the stdin-embedded threshold")
	reduceCmd.Flags().StringVar(&reduceIn, "in", "", "input file (default: stdin)")
	reduceCmd.Flags().StringVar(&reduceOut, "out", "", "output file (default: stdout)")
	reduceCmd.Flags().StringVar(&reduceFormat, "format", "text", "output format: text, json, json.gz, or json.zst")
	reduceCmd.Flags().StringVar(&reduceSweep, "sweep", "", "threshold sweep min:max:step, reports kept-set size per threshold")
	reduceCmd.Flags().BoolVar(&reduceTrace, "trace", false, "include the per-node originating-source trace")
	_ = reduceCmd.MarkFlagRequired("method")
	rootCmd.AddCommand(reduceCmd)
}

func runReduce(cmd *cobra.Command, args []string) error {
	method, err := facade.ParseMethod(strings.ToUpper(reduceMethod))
	if err != nil {
		return err
	}

	r, err := openInput(reduceIn)
	if err != nil {
		return err
	}
	defer r.Close()

	in, err := parseWireInput(r)
	if err != nil {
		return err
	}
	if reduceThreshold >= 0 {
		in.Threshold = reduceThreshold
	}

	w, err := openOutput(reduceOut)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := context.Background()

	if reduceSweep != "" {
		return runSweep(ctx, in, method, w)
	}

	f, err := buildFacade(ctx, in)
	if err != nil {
		return err
	}

	var opts []facade.RunOption
	if reduceTrace {
		opts = append(opts, facade.WithTrace())
	}
	result, err := f.RunReducing(ctx, method, in.Threshold, in.Sources, opts...)
	if err != nil {
		return err
	}

	return writeResult(result, in.Threshold, w)
}

// sweepPoint is one --sweep row: the threshold tried and the resulting
// kept-set size.
type sweepPoint struct {
	Threshold float64 `json:"threshold"`
	KeptCount int     `json:"keptCount"`
}

func runSweep(ctx context.Context, in *wireInput, method facade.Method, w io.Writer) error {
	minT, maxT, step, err := parseSweep(reduceSweep)
	if err != nil {
		return err
	}

	var points []sweepPoint
	for t := minT; t <= maxT+1e-12; t += step {
		f, err := buildFacade(ctx, in)
		if err != nil {
			return err
		}
		result, err := f.RunReducing(ctx, method, t, in.Sources)
		if err != nil {
			return err
		}
		points = append(points, sweepPoint{Threshold: t, KeptCount: len(result.Kept)})
	}

	switch reduceFormat {
	case "json":
		return writer.NewJSONWriter[[]sweepPoint]().Write(points, w)
	case "json.gz":
		return writer.NewGzipWriter[[]sweepPoint]().Write(points, w)
	case "json.zst":
		return writeZstJSON(points, w)
	default:
		for _, p := range points {
			fmt.Fprintf(w, "%g %d\n", p.Threshold, p.KeptCount)
		}
		return nil
	}
}

func parseSweep(s string) (min, max, step float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid --sweep %q, want min:max:step", s)
	}
	if min, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sweep min: %w", err)
	}
	if max, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sweep max: %w", err)
	}
	if step, err = strconv.ParseFloat(parts[2], 64); err != nil || step <= 0 {
		return 0, 0, 0, fmt.Errorf("invalid sweep step: %q", parts[2])
	}
	return min, max, step, nil
}

// exportResult is runReducing's JSON export shape.
type exportResult struct {
	Method    string  `json:"method"`
	Threshold float64 `json:"threshold"`
	Kept      []int   `json:"kept"`
	Trace     []int   `json:"trace,omitempty"`
}

func writeResult(result *facade.Result, threshold float64, w io.Writer) error {
	switch reduceFormat {
	case "json":
		return writer.NewJSONWriter[exportResult]().Write(toExport(result, threshold), w)
	case "json.gz":
		return writer.NewGzipWriter[exportResult]().Write(toExport(result, threshold), w)
	case "json.zst":
		return writeZstJSON(toExport(result, threshold), w)
	default:
		fmt.Fprintln(w, joinInts(result.Kept))
		return nil
	}
}

// writeZstJSON marshals v to JSON and compresses it with zstd via
// pkg/compression, for --format=json.zst.
func writeZstJSON(v any, w io.Writer) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	comp, err := compression.NewZstdCompressor(compression.LevelDefault)
	if err != nil {
		return err
	}
	defer comp.Close()
	out, err := comp.Compress(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func toExport(result *facade.Result, threshold float64) exportResult {
	return exportResult{
		Method:    result.Method.String(),
		Threshold: threshold,
		Kept:      result.Kept,
		Trace:     result.Trace,
	}
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
