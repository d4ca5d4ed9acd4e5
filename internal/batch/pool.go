package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parsifly/pkg/logger"
	"parsifly/pkg/profile"
)

// Job is one profile lookup
type Job struct {
	Index    int
	Platform string
	Username string
	Range    profile.TimeRange
}

// Result is the outcome of a Job
type Result struct {
	Job      Job
	Profile  *profile.Profile
	Error    error
	Duration time.Duration
}

// ProfileFetcher resolves a profile for a time range
type ProfileFetcher interface {
	GetProfileByTimeRange(ctx context.Context, platform, username string, r profile.TimeRange) (*profile.Profile, error)
}

// WorkerPool runs profile lookups on a fixed number of workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     ProfileFetcher
	logger      logger.Logger
}

// NewWorkerPool creates a pool; numWorkers below 1 is treated as 1
func NewWorkerPool(ctx context.Context, numWorkers int, fetcher ProfileFetcher, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		logger:      log.WithField("component", "batch"),
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for in-flight jobs and closes Results
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Debug("Worker pool stopped")
}

// Cancel aborts in-flight lookups; Stop must still be called
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the channel results are delivered on
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	p, err := wp.fetcher.GetProfileByTimeRange(wp.ctx, job.Platform, job.Username, job.Range)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		wp.logger.WithError(err).WarnWithFields("Profile lookup failed", map[string]interface{}{
			"worker_id": workerID,
			"platform":  job.Platform,
			"username":  job.Username,
		})
		return result
	}

	result.Profile = p
	wp.logger.DebugWithFields("Profile lookup completed", map[string]interface{}{
		"worker_id": workerID,
		"platform":  job.Platform,
		"username":  job.Username,
		"source":    string(p.Source),
		"duration":  result.Duration,
	})
	return result
}

// Run fetches every username on platform with numWorkers workers and
// returns results in input order
func Run(ctx context.Context, fetcher ProfileFetcher, platform string, usernames []string, r profile.TimeRange, numWorkers int, log logger.Logger) []Result {
	wp := NewWorkerPool(ctx, numWorkers, fetcher, log)
	wp.Start()

	go func() {
		defer wp.Stop()
		for i, u := range usernames {
			if err := wp.Submit(Job{Index: i, Platform: platform, Username: u, Range: r}); err != nil {
				return
			}
		}
	}()

	results := make([]Result, len(usernames))
	seen := make([]bool, len(usernames))
	for res := range wp.Results() {
		results[res.Job.Index] = res
		seen[res.Job.Index] = true
	}

	for i, ok := range seen {
		if !ok {
			results[i] = Result{
				Job:   Job{Index: i, Platform: platform, Username: usernames[i], Range: r},
				Error: fmt.Errorf("lookup for %s not run: %w", usernames[i], context.Cause(ctx)),
			}
		}
	}
	return results
}
