package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const ExpiryReason = "System auto-expiry: validity period ended"

// SweepResult tallies one sweep run. Matched counts the records returned by the
// initial query; each of them ends up in exactly one of the other counters.
type SweepResult struct {
	Matched int `json:"matched"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type IExpirySweepUseCase interface {
	Run(ctx context.Context) (SweepResult, error)
}

type ExpirySweepUseCase struct {
	repo     interfaces.IQuotationRepository
	notifier interfaces.INotifier
	log      *zap.Logger
	clock    func() time.Time
}

var _ IExpirySweepUseCase = (*ExpirySweepUseCase)(nil)

func NewExpirySweepUseCase(repo interfaces.IQuotationRepository, notifier interfaces.INotifier, log *zap.Logger, clock func() time.Time) *ExpirySweepUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &ExpirySweepUseCase{repo: repo, notifier: notifier, log: log, clock: clock}
}

// Run expires every sent quotation whose validity ended before now. Records are
// processed independently; only a failure of the initial query is returned.
func (u *ExpirySweepUseCase) Run(ctx context.Context) (SweepResult, error) {
	now := u.clock().UTC()
	candidates, err := u.repo.FindExpirable(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("find expirable quotations: %w", err)
	}

	res := SweepResult{Matched: len(candidates)}
	for _, c := range candidates {
		if ctx.Err() != nil {
			res.Failed += res.Matched - res.Expired - res.Skipped - res.Failed
			u.log.Warn("expiry sweep interrupted", zap.Error(ctx.Err()))
			break
		}
		entry := entities.StatusHistoryEntry{
			Status:    entities.QuotationStatusExpired,
			ChangedBy: nil,
			Reason:    ExpiryReason,
			Timestamp: now,
		}
		expired, err := u.repo.ExpireIfOverdue(ctx, c.ID, entry)
		switch {
		case err == nil:
			res.Expired++
			u.notifyExpired(ctx, expired)
		case errors.Is(err, interfaces.ErrConditionNotMet):
			res.Skipped++
			u.log.Info("quotation no longer expirable",
				zap.String("quotation_id", c.ID),
				zap.String("status", string(c.Status)),
			)
		default:
			res.Failed++
			u.log.Error("expire quotation failed",
				zap.String("quotation_id", c.ID),
				zap.Error(err),
			)
		}
	}

	u.log.Info("expiry sweep finished",
		zap.Int("matched", res.Matched),
		zap.Int("expired", res.Expired),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (u *ExpirySweepUseCase) notifyExpired(ctx context.Context, q entities.Quotation) {
	if u.notifier == nil || q.ClientID == "" {
		return
	}
	err := u.notifier.Notify(ctx, entities.Notification{
		Type:            entities.NotificationQuotationExpired,
		UserID:          q.ClientID,
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
		Message:         fmt.Sprintf("Quotation %s has expired", q.QuotationNumber),
		CreatedAt:       u.clock().UTC(),
	})
	if err != nil {
		u.log.Warn("notification failed", zap.String("quotation_id", q.ID), zap.Error(err))
	}
}
