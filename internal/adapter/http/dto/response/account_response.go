package response

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
	"time"
)

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u entities.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func FromLogin(r usecase.LoginResult) LoginResponse {
	return LoginResponse{Token: r.Token, ExpiresAt: r.Session.ExpiresAt, User: FromUser(r.User)}
}

type WarehouseResponse struct {
	ID        string           `json:"id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Address   entities.Address `json:"address"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func FromWarehouse(w entities.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Code: w.Code, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt}
}

func FromWarehouses(ws []entities.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, FromWarehouse(w))
	}
	return out
}

type SweepResponse struct {
	Matched int `json:"matched"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func FromSweepResult(r usecase.SweepResult) SweepResponse {
	return SweepResponse(r)
}
