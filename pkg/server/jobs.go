package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

// JobService runs clustering jobs in the background, bounded by a worker
// semaphore, and keeps finished results in memory for retrieval.
type JobService struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	cancels map[string]context.CancelFunc
	workers chan struct{}
	metrics *Metrics
}

// NewJobService creates a job service allowing maxWorkers concurrent
// engine runs.
func NewJobService(maxWorkers int, metrics *Metrics) *JobService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &JobService{
		jobs:    make(map[string]*Job),
		cancels: make(map[string]context.CancelFunc),
		workers: make(chan struct{}, maxWorkers),
		metrics: metrics,
	}
}

// Submit validates the request eagerly, queues the run and returns the
// accepted job record.
func (s *JobService) Submit(req JobRequest) (*Job, error) {
	cfg := configFromRequest(req)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	build := leiden.NewGraph
	if req.Strict {
		build = leiden.NewGraphStrict
	}
	graph, err := build(req.NumNodes, req.Edges)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.cancels[job.ID] = cancel
	s.mu.Unlock()
	s.metrics.JobsSubmitted.Inc()

	go s.run(ctx, job.ID, graph, cfg)

	log.Info().
		Str("job_id", job.ID).
		Int("nodes", graph.NumNodes()).
		Int("edges", len(req.Edges)).
		Msg("Clustering job queued")
	return s.snapshot(job.ID), nil
}

func (s *JobService) run(ctx context.Context, jobID string, graph *leiden.Graph, cfg *leiden.Config) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.update(jobID, func(job *Job) { job.Status = JobStatusRunning })

	start := time.Now()
	result, err := leiden.Run(ctx, graph, cfg)
	s.metrics.RunDuration.Observe(time.Since(start).Seconds())

	s.update(jobID, func(job *Job) {
		switch {
		case err != nil:
			job.Status = JobStatusFailed
			job.Error = err.Error()
		case result.Status == leiden.StatusCancelled:
			job.Status = JobStatusCancelled
			job.Result = result
		default:
			job.Status = JobStatusCompleted
			job.Result = result
		}
		if result != nil {
			s.metrics.LevelsPerRun.Observe(float64(result.NumLevels))
		}
		s.metrics.JobsFinished.WithLabelValues(string(job.Status)).Inc()
	})

	s.mu.Lock()
	delete(s.cancels, jobID)
	s.mu.Unlock()

	log.Info().Str("job_id", jobID).Err(err).Msg("Clustering job finished")
}

// Get returns a copy of the job record.
func (s *JobService) Get(jobID string) (*Job, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return job, nil
}

// Cancel signals a running job's context. The engine observes the signal
// between levels and the job finishes with its best hierarchy so far.
func (s *JobService) Cancel(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return fmt.Errorf("job not found: %s", jobID)
	}
	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
	}
	return nil
}

func (s *JobService) update(jobID string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}

func (s *JobService) snapshot(jobID string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func configFromRequest(req JobRequest) *leiden.Config {
	cfg := leiden.NewConfig()
	cfg.Set("logging.level", "error")
	if req.Resolution != nil {
		cfg.Set("algorithm.resolution", *req.Resolution)
	}
	if req.Randomness != nil {
		cfg.Set("algorithm.randomness", *req.Randomness)
	}
	if req.MaxLevels != nil {
		cfg.Set("algorithm.max_levels", *req.MaxLevels)
	}
	cfg.Set("algorithm.seed", req.Seed)
	cfg.Set("algorithm.strict_edges", req.Strict)
	return cfg
}
