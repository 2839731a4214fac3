package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hkreduce/greduce/internal/facade"
	"github.com/hkreduce/greduce/pkg/compression"
	"github.com/hkreduce/greduce/pkg/parallel"
	"github.com/hkreduce/greduce/pkg/writer"
)

var (
	batchIn       string
	batchOut      string
	batchFormat   string
	batchWorkers  int
	batchProgress bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many independent reductions concurrently",
	Long: `batch reads a JSON array of jobs (each with its own size, dense rows,
method, threshold, and sources) from stdin or --in, runs them across a
worker pool bounded by --workers (or the config's batch.max_workers),
and writes a JSON array of per-job results.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchIn, "in", "", "input file (default: stdin)")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output file (default: stdout)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "output format: json, json.gz, or json.zst")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "max concurrent workers (default: config batch.max_workers)")
	batchCmd.Flags().BoolVar(&batchProgress, "progress", false, "report completed/total job counts to stderr as the batch runs")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := decodeJobs(batchIn)
	if err != nil {
		return err
	}

	poolConfig := parallel.DefaultPoolConfig()
	if batchWorkers > 0 {
		poolConfig = poolConfig.WithWorkers(batchWorkers)
	} else if cfg != nil {
		poolConfig = poolConfig.WithWorkers(cfg.Batch.MaxWorkers)
	}

	var onProgress func(completed, total int)
	if batchProgress {
		onProgress = func(completed, total int) {
			fmt.Fprintf(os.Stderr, "completed %d/%d\n", completed, total)
		}
	}
	results := facade.ReduceManyWithProgress(context.Background(), jobs, poolConfig, onProgress)

	w, err := openOutput(batchOut)
	if err != nil {
		return err
	}
	defer w.Close()

	return writeBatchResults(results, w)
}

// decodeJobs reads path (or stdin when empty) and decodes it as a JSON job
// array, transparently accepting gzip- or zstd-compressed input alongside
// plain JSON so a batch produced by --format=json.gz/json.zst can be fed
// straight back in.
func decodeJobs(path string) ([]facade.Job, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw, err = compression.AutoDecompress(raw)
	if err != nil {
		return nil, err
	}

	var jobs []facade.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func writeBatchResults(results []facade.JobResult, w io.Writer) error {
	switch batchFormat {
	case "json.gz":
		return writer.NewGzipWriter[[]facade.JobResult]().Write(results, w)
	case "json.zst":
		return writeZstJSON(results, w)
	default:
		return writer.NewJSONWriter[[]facade.JobResult]().Write(results, w)
	}
}
