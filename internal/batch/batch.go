// Package batch converts independent documents concurrently.
package batch

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/cudsviz/pkg/metrics"
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Job is one unit of batch work.
type Job struct {
	Name   string // Identifies the job in logs and results
	Input  string // Source document path
	Output string // Destination path or URI
}

// Result is the outcome of a job. Results are returned in job order.
type Result struct {
	Job      Job
	Err      error
	Duration time.Duration
	Skipped  bool // Cancelled before it started
	Attempts int  // Calls made to the job func
}

// Func processes one job.
type Func func(ctx context.Context, job Job) error

type options struct {
	logger     *zap.Logger
	collector  *metrics.Collector
	retries    int
	retryDelay time.Duration
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for per-job diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics tracks in-flight jobs on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(o *options) { o.collector = collector }
}

// WithRetries retries a job up to n more times while its error is
// retryable (a timeout or connection failure), waiting delay times the
// attempt number between tries.
func WithRetries(n int, delay time.Duration) Option {
	return func(o *options) {
		o.retries = n
		o.retryDelay = delay
	}
}

// Run calls fn for every job with at most workers running at once. A
// workers value of 0 or less uses runtime.NumCPU. A failing job does not
// stop the others; once ctx is cancelled, jobs that have not started are
// skipped with ctx's error.
func Run(ctx context.Context, jobs []Job, workers int, fn Func, opts ...Option) []Result {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		results[i].Job = job
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			results[i].Skipped = true
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				results[i].Skipped = true
				return nil
			}
			if o.collector != nil {
				defer o.collector.JobStarted()()
			}

			jobStart := time.Now()
			err := o.attempt(ctx, job, fn, &results[i])
			results[i].Err = err
			results[i].Duration = time.Since(jobStart)

			if err != nil {
				o.logger.Warn("batch job failed",
					zap.String("job", job.Name),
					zap.Duration("duration", results[i].Duration),
					zap.Error(err))
			} else {
				o.logger.Debug("batch job finished",
					zap.String("job", job.Name),
					zap.Duration("duration", results[i].Duration))
			}
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info("batch finished",
		zap.Int("jobs", len(jobs)),
		zap.Int("failed", len(Failed(results))),
		zap.Duration("duration", time.Since(start)))
	return results
}

func (o *options) attempt(ctx context.Context, job Job, fn Func, r *Result) error {
	for {
		r.Attempts++
		err := fn(ctx, job)
		if err == nil || r.Attempts > o.retries || !vizerrors.IsRetryable(err) {
			return err
		}
		o.logger.Debug("retrying batch job",
			zap.String("job", job.Name),
			zap.Int("attempt", r.Attempts),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return err
		case <-time.After(o.retryDelay * time.Duration(r.Attempts)):
		}
	}
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Err joins the errors of failed results, each tagged with its job name.
// It returns nil when every job succeeded.
func Err(results []Result) error {
	var errs []error
	for _, r := range Failed(results) {
		errType := vizerrors.TypeOf(r.Err)
		if errType == "" {
			errType = vizerrors.ErrorTypeInternal
		}
		errs = append(errs, vizerrors.Wrap(r.Err, errType, "job "+r.Job.Name).
			WithDetail("job", r.Job.Name))
	}
	return errors.Join(errs...)
}
