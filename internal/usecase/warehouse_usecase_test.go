package usecase

import (
	"context"
	"errors"
	"testing"

	"cargo_quotes/internal/domain/entities"
	mock_interfaces "cargo_quotes/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestWarehouseUseCase_Create(t *testing.T) {
	in := CreateWarehouseInput{
		Code:    " dxb-01 ",
		Name:    "Jebel Ali Hub",
		Address: entities.Address{Line1: "Gate 5", City: "Dubai", Country: "AE"},
	}

	t.Run("admin only", func(t *testing.T) {
		uc := NewWarehouseUseCase(nil)
		if _, err := uc.Create(context.Background(), manager, in); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		uc := NewWarehouseUseCase(nil)
		_, err := uc.Create(context.Background(), admin, CreateWarehouseInput{})
		var ve *ValidationError
		if !errors.As(err, &ve) || len(ve.Fields) != 3 {
			t.Fatalf("expected three field errors, got %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIWarehouseRepository(ctrl)
		uc := NewWarehouseUseCase(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Warehouse{}, &DuplicateKeyError{Field: "code", Value: "DXB-01"})

		_, err := uc.Create(context.Background(), admin, in)
		if !errors.Is(err, ErrDuplicateWarehouse) || !errors.Is(err, ErrDuplicateKey) {
			t.Fatalf("expected duplicate errors, got %v", err)
		}
		var dup *DuplicateKeyError
		if !errors.As(err, &dup) || dup.Field != "code" {
			t.Fatalf("expected DuplicateKeyError on code, got %v", err)
		}
	})

	t.Run("normalises code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIWarehouseRepository(ctrl)
		uc := NewWarehouseUseCase(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w entities.Warehouse) (entities.Warehouse, error) {
			if w.Code != "DXB-01" || w.ID == "" || w.CreatedAt.IsZero() {
				t.Fatalf("unexpected warehouse %+v", w)
			}
			return w, nil
		})
		if _, err := uc.Create(context.Background(), admin, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestWarehouseUseCase_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIWarehouseRepository(ctrl)
		uc := NewWarehouseUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "wh-1").Return(entities.Warehouse{}, nil)
		if _, err := uc.GetByID(context.Background(), "wh-1"); !errors.Is(err, ErrWarehouseNotFound) {
			t.Fatalf("expected ErrWarehouseNotFound, got %v", err)
		}
	})

	t.Run("blank id", func(t *testing.T) {
		uc := NewWarehouseUseCase(nil)
		if _, err := uc.GetByID(context.Background(), ""); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
