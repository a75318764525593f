package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	mock_interfaces "cargo_quotes/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestExpirySweepUseCase_Run(t *testing.T) {
	t.Run("query error is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := NewExpirySweepUseCase(repo, nil, nil, fixedNow)

		repo.EXPECT().FindExpirable(gomock.Any(), testNow).Return(nil, errors.New("db"))

		if _, err := uc.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "db") {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})

	t.Run("records are processed independently", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewExpirySweepUseCase(repo, notifier, nil, fixedNow)

		repo.EXPECT().FindExpirable(gomock.Any(), testNow).Return([]entities.Quotation{
			{ID: "a", Status: entities.QuotationStatusSent},
			{ID: "b", Status: entities.QuotationStatusSent},
			{ID: "c", Status: entities.LegacyQuotationStatusSent},
		}, nil)
		repo.EXPECT().ExpireIfOverdue(gomock.Any(), "a", gomock.Any()).DoAndReturn(
			func(_ context.Context, id string, e entities.StatusHistoryEntry) (entities.Quotation, error) {
				if e.Status != entities.QuotationStatusExpired || e.ChangedBy != nil || e.Reason != ExpiryReason || !e.Timestamp.Equal(testNow) {
					t.Fatalf("unexpected history entry: %+v", e)
				}
				return entities.Quotation{ID: id, ClientID: "client-1", Status: entities.QuotationStatusExpired}, nil
			},
		)
		repo.EXPECT().ExpireIfOverdue(gomock.Any(), "b", gomock.Any()).Return(entities.Quotation{}, interfaces.ErrConditionNotMet)
		repo.EXPECT().ExpireIfOverdue(gomock.Any(), "c", gomock.Any()).Return(entities.Quotation{}, errors.New("throttled"))
		notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, n entities.Notification) error {
				if n.QuotationID != "a" || n.Type != entities.NotificationQuotationExpired {
					t.Fatalf("unexpected notification %+v", n)
				}
				return nil
			},
		)

		res, err := uc.Run(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res != (SweepResult{Matched: 3, Expired: 1, Skipped: 1, Failed: 1}) {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("cancelled context counts the rest as failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := NewExpirySweepUseCase(repo, nil, nil, fixedNow)

		ctx, cancel := context.WithCancel(context.Background())
		repo.EXPECT().FindExpirable(gomock.Any(), testNow).DoAndReturn(
			func(context.Context, time.Time) ([]entities.Quotation, error) {
				cancel()
				return []entities.Quotation{{ID: "a"}, {ID: "b"}}, nil
			},
		)

		res, err := uc.Run(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Failed != 2 || res.Expired != 0 {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}
