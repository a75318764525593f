package interfaces

import (
	"cargo_quotes/internal/domain/entities"
	"context"
)

// IWarehouseRepository abstracts DynamoDB persistence for Warehouse.
// Create fails with a *DuplicateKeyError when code or name is taken.
type IWarehouseRepository interface {
	Create(ctx context.Context, w entities.Warehouse) (entities.Warehouse, error)
	GetByID(ctx context.Context, id string) (entities.Warehouse, error)
	List(ctx context.Context) ([]entities.Warehouse, error)
}
