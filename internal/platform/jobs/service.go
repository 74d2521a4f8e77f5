package jobs

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal/internal/platform/logger"
)

const (
	JobRateRefresh = "fx_rate_refresh"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type RunFunc func(context.Context) (any, error)

// RunStore records job executions.
type RunStore interface {
	Start(ctx context.Context, jobType string) (string, error)
	Finish(ctx context.Context, runID, status string, details []byte) error
}

type PGRunStore struct {
	DB *pgxpool.Pool
}

func (s PGRunStore) Start(ctx context.Context, jobType string) (string, error) {
	var runID string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id::text
  `, jobType, StatusRunning).Scan(&runID)
	return runID, err
}

func (s PGRunStore) Finish(ctx context.Context, runID, status string, details []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE job_runs
    SET status = $1, details_json = $2, completed_at = now()
    WHERE id::text = $3
  `, status, details, runID)
	return err
}

type job struct {
	Type string
	Run  RunFunc
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

type Service struct {
	runs      RunStore
	queue     chan job
	mu        sync.Mutex
	schedules []schedule
}

func New(runs RunStore) *Service {
	return &Service{
		runs:  runs,
		queue: make(chan job, 128),
	}
}

// Every registers a job enqueued on each tick. Registrations after Start are ignored.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 || run == nil {
		return
	}
	s.mu.Lock()
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
	s.mu.Unlock()
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sched := range s.schedules {
		go s.tick(ctx, sched)
	}
}

func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		logger.L().Warn().Str("jobType", jobType).Msg("job queue full")
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Str("jobType", j.Type).Msg("job run failed")
			}
		}
	}
}

func (s *Service) tick(ctx context.Context, sched schedule) {
	ticker := time.NewTicker(sched.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sched.jobType, sched.run)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	log := logger.Ctx(ctx)
	runID := ""
	if s.runs != nil {
		id, err := s.runs.Start(ctx, j.Type)
		if err != nil {
			log.Warn().Err(err).Str("jobType", j.Type).Msg("job run insert failed")
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error(), "details": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		log.Warn().Err(marshalErr).Str("jobType", j.Type).Msg("job details marshal failed")
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.Finish(ctx, runID, status, detailsJSON); updErr != nil {
			log.Warn().Err(updErr).Str("jobType", j.Type).Msg("job run update failed")
		}
	}
	return details, err
}
