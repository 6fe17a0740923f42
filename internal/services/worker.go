package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrPoolStopped   = errors.New("analysis pool stopped")
	ErrPoolSaturated = errors.New("analysis capacity exhausted")
)

// Task is one unit of analysis work run by the pool.
type Task func(ctx context.Context) error

// AnalysisPool caps the number of analyses in flight. Callers block in Submit
// until their task has run.
type AnalysisPool interface {
	Start(ctx context.Context)
	Stop()
	Submit(ctx context.Context, task Task) error
}

type poolJob struct {
	ctx  context.Context
	task Task
	done chan error
}

type analysisPool struct {
	jobQueue    chan poolJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	logger      zerolog.Logger
}

func NewAnalysisPool(concurrency, queueSize int, logger zerolog.Logger) AnalysisPool {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &analysisPool{
		jobQueue:    make(chan poolJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger.With().Str("component", "pool").Logger(),
	}
}

// Start implements AnalysisPool.
func (p *analysisPool) Start(ctx context.Context) {
	p.logger.Info().Int("concurrency", p.concurrency).Msg("🚀 Starting analysis workers")

	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.processJobs(ctx, i+1)
	}
}

// Stop implements AnalysisPool.
func (p *analysisPool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info().Msg("🛑 Stopping analysis workers...")
		close(p.stopChan)
		p.wg.Wait()
		p.logger.Info().Msg("✅ Analysis workers stopped")
	})
}

// Submit implements AnalysisPool.
func (p *analysisPool) Submit(ctx context.Context, task Task) error {
	select {
	case <-p.stopChan:
		return ErrPoolStopped
	default:
	}

	job := poolJob{ctx: ctx, task: task, done: make(chan error, 1)}

	select {
	case p.jobQueue <- job:
	case <-p.stopChan:
		return ErrPoolStopped
	case <-ctx.Done():
		return errors.Join(ErrPoolSaturated, ctx.Err())
	}

	select {
	case err := <-job.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *analysisPool) processJobs(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			p.drain()
			p.logger.Debug().Int("worker", workerID).Msg("👷 Worker stopped")
			return
		case <-ctx.Done():
			p.drain()
			return
		case job := <-p.jobQueue:
			p.run(workerID, job)
		}
	}
}

func (p *analysisPool) run(workerID int, job poolJob) {
	if err := job.ctx.Err(); err != nil {
		job.done <- err
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Int("worker", workerID).Interface("panic", r).Msg("❌ Analysis task panicked")
			job.done <- ErrInternal(errors.New("analysis task panicked"))
		}
	}()

	job.done <- job.task(job.ctx)
}

// drain fails queued jobs so their submitters do not wait forever.
func (p *analysisPool) drain() {
	for {
		select {
		case job := <-p.jobQueue:
			job.done <- ErrPoolStopped
		default:
			return
		}
	}
}
