package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker runs the asynq server that executes tasks and the scheduler that
// enqueues the periodic ones.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       *zap.Logger
}

type WorkerConfig struct {
	RedisURL string
	Logger   *zap.Logger
	// CronSpec schedules the expiry sweep, evaluated in Location.
	CronSpec string
	Location *time.Location
	Job      *ExpirySweepJob
}

func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Job == nil {
		return nil, errors.New("worker: expiry sweep job is required")
	}
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("worker: parse redis url: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{QueueDefault: 1},
		Logger:      log.Sugar(),
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskExpirySweep, cfg.Job.Handle)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   log.Sugar(),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
				log.Warn("enqueue expiry sweep", zap.Error(err))
			}
		},
	})
	if _, err := scheduler.Register(cfg.CronSpec, NewExpirySweepTask()); err != nil {
		return nil, fmt.Errorf("worker: register %q: %w", cfg.CronSpec, err)
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: log}, nil
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("worker: start server: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("worker: start scheduler: %w", err)
	}
	w.log.Info("worker started")

	<-ctx.Done()
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.log.Info("worker stopped")
	return ctx.Err()
}
