package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/resmon/internal/models"
)

// fetchJob is one resource to fetch; index is its position in the request list.
type fetchJob struct {
	index int
	key   models.ResourceKey
}

type fetchResult struct {
	index   int
	key     models.ResourceKey
	payload *models.UsagePayload
	err     error
}

type fetchFunc func(ctx context.Context, key models.ResourceKey) (*models.UsagePayload, error)

// WorkerPool runs resource fetches concurrently
type WorkerPool struct {
	workers int
	fetch   fetchFunc
	jobs    chan fetchJob
	results chan fetchResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	mu      sync.Mutex
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(workers int, fetch fetchFunc) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		fetch:   fetch,
		jobs:    make(chan fetchJob, workers*2),
		results: make(chan fetchResult, workers*2),
	}
}

// Start starts the worker pool
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker processes jobs from the job queue
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.results <- p.run(id, job)
		}
	}
}

// run executes one job. A panic becomes an error result for that job only.
func (p *WorkerPool) run(id int, job fetchJob) (res fetchResult) {
	res = fetchResult{index: job.index, key: job.key}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker panic recovered",
				slog.Int("worker_id", id),
				slog.String("resource", string(job.key)),
				slog.String("panic", fmt.Sprint(r)),
			)
			res.payload = nil
			res.err = fmt.Errorf("panic while fetching %s: %v", job.key, r)
		}
	}()

	res.payload, res.err = p.fetch(p.ctx, job.key)
	return res
}

// Submit submits a job to the worker pool
func (p *WorkerPool) Submit(job fetchJob) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobs <- job:
	}
}

// Results returns the results channel. It is closed by Stop.
func (p *WorkerPool) Results() <-chan fetchResult {
	return p.results
}

// Stop stops the worker pool and waits for all workers to finish
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	if p.cancel != nil {
		p.cancel()
	}

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
}
