package codeforge

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one descriptor to generate with its model.
type Job struct {
	Descriptor *TemplateDescriptor
	Model      any
}

// JobResult is the outcome of one Job. Exactly one of Result and Err is set.
type JobResult struct {
	Index  int
	Result *GenerateResult
	Err    error
}

// BatchResult collects the outcomes of GenerateBatch in job order.
type BatchResult struct {
	Jobs []JobResult
	err  error
}

// Err returns every job failure combined with multierr, or nil.
func (r *BatchResult) Err() error {
	return r.err
}

// Failed returns the number of failed jobs.
func (r *BatchResult) Failed() int {
	return len(multierr.Errors(r.err))
}

// Succeeded returns the results of the jobs that did not fail.
func (r *BatchResult) Succeeded() []*GenerateResult {
	out := make([]*GenerateResult, 0, len(r.Jobs))
	for _, j := range r.Jobs {
		if j.Err == nil {
			out = append(out, j.Result)
		}
	}
	return out
}

// GenerateBatch runs Generate for every job. A failing job is recorded on its
// JobResult and never stops the others. Up to WithBatchConcurrency jobs run at
// once; jobs not yet started when ctx is done fail with a cancellation error.
func (e *Engine) GenerateBatch(ctx context.Context, jobs []Job) *BatchResult {
	start := time.Now()
	e.logger.Debug(LogMsgBatchStart, zap.Int(LogFieldJobs, len(jobs)))

	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(e.config.batchConcurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = e.runJob(ctx, i, job)
			return nil
		})
	}
	_ = g.Wait()

	batch := &BatchResult{Jobs: results}
	for _, r := range results {
		batch.err = multierr.Append(batch.err, r.Err)
	}

	e.logger.Debug(LogMsgBatchComplete,
		zap.Int(LogFieldJobs, len(jobs)),
		zap.Int(LogFieldFailed, batch.Failed()),
		zap.Duration(LogFieldDuration, time.Since(start)))

	return batch
}

func (e *Engine) runJob(ctx context.Context, index int, job Job) JobResult {
	var sourcePath string
	if job.Descriptor != nil {
		sourcePath = job.Descriptor.SourcePath
	}

	res, err := e.Generate(ctx, job.Descriptor, job.Model)
	if err != nil {
		err = NewBatchJobError(index, sourcePath, err)
		e.logger.Warn(LogMsgBatchJobFailed,
			zap.Int(LogFieldJobIndex, index),
			zap.String(LogFieldPath, sourcePath),
			zap.Error(err))
		return JobResult{Index: index, Err: err}
	}
	return JobResult{Index: index, Result: res}
}
