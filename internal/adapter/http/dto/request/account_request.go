package request

import (
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin manager client"`
}

func (r CreateUserRequest) ToInput() usecase.CreateUserInput {
	return usecase.CreateUserInput{Email: r.Email, Name: r.Name, Password: r.Password, Role: entities.Role(r.Role)}
}

type CreateWarehouseRequest struct {
	Code    string         `json:"code" binding:"required,max=16"`
	Name    string         `json:"name" binding:"required"`
	Address AddressRequest `json:"address" binding:"required"`
}

func (r CreateWarehouseRequest) ToInput() usecase.CreateWarehouseInput {
	return usecase.CreateWarehouseInput{Code: r.Code, Name: r.Name, Address: r.Address.ToEntity()}
}
