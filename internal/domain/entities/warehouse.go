package entities

import (
	"strings"
	"time"
)

// Warehouse is a drop-off location. Code is stored upper-cased and Name is unique
// ignoring case.
//
// Storage model (DynamoDB):
//   - PK: id
//   - guard items "CODE#<CODE>" and "NAME#<lower name>" enforce uniqueness
type Warehouse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NormalizeWarehouseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func NormalizeWarehouseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
