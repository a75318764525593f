package usecase

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateWarehouseInput struct {
	Code    string
	Name    string
	Address entities.Address
}

type IWarehouseUseCase interface {
	Create(ctx context.Context, sess entities.Session, in CreateWarehouseInput) (entities.Warehouse, error)
	GetByID(ctx context.Context, id string) (entities.Warehouse, error)
	List(ctx context.Context) ([]entities.Warehouse, error)
}

type WarehouseUseCase struct {
	repo interfaces.IWarehouseRepository
}

var _ IWarehouseUseCase = (*WarehouseUseCase)(nil)

func NewWarehouseUseCase(repo interfaces.IWarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

func (u *WarehouseUseCase) Create(ctx context.Context, sess entities.Session, in CreateWarehouseInput) (entities.Warehouse, error) {
	if sess.Role != entities.RoleAdmin {
		return entities.Warehouse{}, ErrForbidden
	}
	fe := fieldErrors{}
	code := entities.NormalizeWarehouseCode(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" {
		fe.add("code", "is required")
	}
	if name == "" {
		fe.add("name", "is required")
	}
	if strings.TrimSpace(in.Address.City) == "" || strings.TrimSpace(in.Address.Country) == "" {
		fe.add("address", "city and country are required")
	}
	if err := fe.err(); err != nil {
		return entities.Warehouse{}, err
	}

	now := time.Now().UTC()
	w := entities.Warehouse{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := u.repo.Create(ctx, w)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return entities.Warehouse{}, fmt.Errorf("%w: %w", ErrDuplicateWarehouse, err)
		}
		return entities.Warehouse{}, err
	}
	return created, nil
}

func (u *WarehouseUseCase) GetByID(ctx context.Context, id string) (entities.Warehouse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Warehouse{}, newValidationError("id", "is required")
	}
	w, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Warehouse{}, err
	}
	if w.ID == "" {
		return entities.Warehouse{}, ErrWarehouseNotFound
	}
	return w, nil
}

func (u *WarehouseUseCase) List(ctx context.Context) ([]entities.Warehouse, error) {
	return u.repo.List(ctx)
}
