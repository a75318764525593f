package scheduler

import (
	"cargo_quotes/internal/usecase"
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	QueueDefault = "default"
	// TaskExpirySweep expires Sent quotations whose validity has ended.
	TaskExpirySweep = "quotations:expiry_sweep"
)

// NewExpirySweepTask builds the daily task. Unique keeps at most one sweep
// per day in the queue even when several schedulers are running.
func NewExpirySweepTask() *asynq.Task {
	return asynq.NewTask(TaskExpirySweep, nil,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Unique(23*time.Hour),
		asynq.Timeout(30*time.Minute),
	)
}

type ExpirySweepJob struct {
	sweep   usecase.IExpirySweepUseCase
	log     *zap.Logger
	metrics *Metrics
}

func NewExpirySweepJob(sweep usecase.IExpirySweepUseCase, log *zap.Logger, metrics *Metrics) *ExpirySweepJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpirySweepJob{sweep: sweep, log: log, metrics: metrics}
}

// Handle runs one sweep. Only the initial query error is returned so asynq
// retries the task; per-record failures are retried by the next run.
func (j *ExpirySweepJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.sweep == nil {
		return errors.New("expiry sweep: handler not configured")
	}
	start := time.Now()
	res, err := j.sweep.Run(ctx)
	j.metrics.observe(res.Expired, res.Skipped, res.Failed, err, time.Since(start))
	if err != nil {
		j.log.Error("expiry sweep failed", zap.Error(err))
		return err
	}
	j.log.Info("expiry sweep finished",
		zap.Int("matched", res.Matched),
		zap.Int("expired", res.Expired),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return nil
}
