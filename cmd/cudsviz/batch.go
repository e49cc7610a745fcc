package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/cudsviz/internal/batch"
	"github.com/ajitpratap0/cudsviz/pkg/compression"
	"github.com/ajitpratap0/cudsviz/pkg/logger"
	"github.com/ajitpratap0/cudsviz/pkg/sink"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

const retryDelay = 500 * time.Millisecond

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir  string
		workers int
		retries int
	)

	cmd := &cobra.Command{
		Use:   "batch <document>...",
		Short: "Convert many container documents concurrently",
		Long: `Convert every document to legacy VTK under --out-dir, which may be a
local directory or an s3:// or gs:// prefix. A failing document does not
stop the others; the command fails if any document failed.

Example:
  cudsviz batch runs/*.yaml --out-dir gs://viz/runs --workers 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := a.cfg.Output.CompressionConfig()
			if err != nil {
				return err
			}
			dir, err := sink.ParseURI(outDir)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Batch.Workers
			}
			if !cmd.Flags().Changed("retries") {
				retries = a.cfg.Batch.Retries
			}

			jobs, err := batchJobs(args, dir, cc)
			if err != nil {
				return err
			}

			results := batch.Run(cmd.Context(), jobs, workers, func(ctx context.Context, job batch.Job) error {
				ctx = context.WithValue(ctx, logger.DocumentKey, job.Input)
				ctx = context.WithValue(ctx, logger.JobKey, job.Name)

				_, ds, err := a.decodeAndConvert(job.Input)
				if err != nil {
					return err
				}
				n, err := a.writeVTK(ctx, ds, job.Output, cc)
				if err != nil {
					return err
				}
				logger.WithContext(ctx).Debug("document written",
					zap.String("output", job.Output),
					zap.Int64("bytes", n))
				return nil
			}, batch.WithLogger(a.logger), batch.WithMetrics(a.collector), batch.WithRetries(retries, retryDelay))

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", r.Job.Input, r.Err)
					continue
				}
				fmt.Fprintf(out, "ok   %s -> %s (%s)\n", r.Job.Input, r.Job.Output, r.Duration.Round(time.Microsecond))
			}
			return batch.Err(results)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Output directory or s3:// / gs:// prefix")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent conversions (default: batch.workers, or every CPU)")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries after a timeout or connection failure (default: batch.retries)")
	return cmd
}

// batchJobs names one job per document. Two documents that would write the
// same output are rejected before anything runs.
func batchJobs(docs []string, dir sink.Location, cc *compression.Config) ([]batch.Job, error) {
	jobs := make([]batch.Job, len(docs))
	owner := make(map[string]string, len(docs))
	for i, doc := range docs {
		name := filepath.Base(documentBase(doc))
		out := dir.Join(name + ".vtk" + compression.Extension(cc.Algorithm)).String()
		if prev, ok := owner[out]; ok {
			return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "documents map to the same output").
				WithDetail("output", out).
				WithDetail("first", prev).
				WithDetail("second", doc)
		}
		owner[out] = doc
		jobs[i] = batch.Job{Name: name, Input: doc, Output: out}
	}
	return jobs, nil
}
