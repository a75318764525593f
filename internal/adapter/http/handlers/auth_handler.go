package handlers

import (
	"cargo_quotes/internal/adapter/http/dto/request"
	"cargo_quotes/internal/adapter/http/dto/response"
	"cargo_quotes/internal/adapter/http/middleware"
	"cargo_quotes/internal/usecase"
	"cargo_quotes/pkg"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, logout and user management.
type AuthHandler struct {
	usecase usecase.IAuthUseCase
}

func NewAuthHandler(uc usecase.IAuthUseCase) *AuthHandler {
	return &AuthHandler{usecase: uc}
}

// Login exchanges credentials for a bearer token.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body request.LoginRequest true "Credentials"
// @Success 200 {object} response.LoginResponse
// @Failure 401 {object} pkg.HTTPError
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var payload request.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	res, err := h.usecase.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(c, mapAuthError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromLogin(res))
}

// @Summary Log out
// @Tags auth
// @Security Bearer
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	if err := h.usecase.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, mapAuthError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} response.UserResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	u, err := h.usecase.Me(c.Request.Context(), sess)
	if err != nil {
		respondError(c, mapAuthError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromUser(u))
}

// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param payload body request.CreateUserRequest true "User"
// @Success 201 {object} response.UserResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var payload request.CreateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	u, err := h.usecase.CreateUser(c.Request.Context(), sess, payload.ToInput())
	if err != nil {
		respondError(c, mapAuthError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromUser(u))
}

func mapAuthError(err error) *pkg.AppError {
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		return pkg.NewDomainErrorSimple("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	}
	if appErr := mapCommonError(err); appErr != nil {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		return pkg.NewDomainErrorSimple("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrDuplicateUser), errors.Is(err, usecase.ErrDuplicateKey):
		return pkg.NewDomainErrorSimple("USER_ALREADY_EXISTS", "A user with this email already exists", http.StatusConflict)
	default:
		return internalError(err)
	}
}
