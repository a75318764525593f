package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"cargo_quotes/internal/adapter/http/handlers/mocks"
	"cargo_quotes/internal/adapter/http/middleware"
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

var adminSession = entities.Session{UserID: "admin-1", Role: entities.RoleAdmin, SessionID: "s3"}

func TestAuthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *AuthHandler, sess *entities.Session) *gin.Engine {
		r := gin.New()
		r.POST("/v1/auth/login", h.Login)
		auth := r.Group("/v1")
		if sess != nil {
			auth.Use(middleware.WithSession(*sess))
		}
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/auth/me", h.Me)
		auth.POST("/users", h.CreateUser)
		return r
	}

	t.Run("login requires email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)

		w := doJSON(newRouter(NewAuthHandler(uc), nil), http.MethodPost, "/v1/auth/login", `{"email":"nope","password":"x"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("login with bad credentials", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)
		uc.EXPECT().Login(gomock.Any(), "a@b.io", "wrong").Return(usecase.LoginResult{}, usecase.ErrInvalidCredentials)

		w := doJSON(newRouter(NewAuthHandler(uc), nil), http.MethodPost, "/v1/auth/login", `{"email":"a@b.io","password":"wrong"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "INVALID_CREDENTIALS" {
			t.Fatalf("expected INVALID_CREDENTIALS, got %s", body.Code)
		}
	})

	t.Run("login success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)
		uc.EXPECT().Login(gomock.Any(), "a@b.io", "secret-pass").Return(usecase.LoginResult{
			Token:   "jwt",
			User:    entities.User{ID: "u1", Email: "a@b.io", Role: entities.RoleClient},
			Session: entities.Session{ExpiresAt: time.Now().Add(time.Hour)},
		}, nil)

		w := doJSON(newRouter(NewAuthHandler(uc), nil), http.MethodPost, "/v1/auth/login", `{"email":"a@b.io","password":"secret-pass"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("logout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)
		uc.EXPECT().Logout(gomock.Any(), clientSession).Return(nil)

		w := doJSON(newRouter(NewAuthHandler(uc), &clientSession), http.MethodPost, "/v1/auth/logout", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})

	t.Run("me without session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)

		w := doJSON(newRouter(NewAuthHandler(uc), nil), http.MethodGet, "/v1/auth/me", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("create duplicate user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIAuthUseCase(ctrl)
		uc.EXPECT().CreateUser(gomock.Any(), adminSession, usecase.CreateUserInput{Email: "m@b.io", Name: "M", Password: "password1", Role: entities.RoleManager}).
			Return(entities.User{}, usecase.ErrDuplicateUser)

		w := doJSON(newRouter(NewAuthHandler(uc), &adminSession), http.MethodPost, "/v1/users",
			`{"email":"m@b.io","name":"M","password":"password1","role":"manager"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestWarehouseHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h *WarehouseHandler) *gin.Engine {
		r := gin.New()
		r.Use(middleware.WithSession(adminSession))
		r.POST("/v1/warehouses", h.CreateWarehouse)
		r.GET("/v1/warehouses", h.ListWarehouses)
		r.GET("/v1/warehouses/:id", h.GetWarehouse)
		return r
	}

	t.Run("create conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWarehouseUseCase(ctrl)
		uc.EXPECT().Create(gomock.Any(), adminSession, gomock.Any()).
			Return(entities.Warehouse{}, errors.Join(usecase.ErrDuplicateWarehouse, &usecase.DuplicateKeyError{Field: "code", Value: "LIS1"}))

		w := doJSON(newRouter(NewWarehouseHandler(uc)), http.MethodPost, "/v1/warehouses",
			`{"code":"lis1","name":"Lisbon","address":{"city":"Lisbon","country":"PT"}}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("create success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWarehouseUseCase(ctrl)
		uc.EXPECT().Create(gomock.Any(), adminSession, gomock.Any()).Return(entities.Warehouse{ID: "w1", Code: "LIS1", Name: "lisbon"}, nil)

		w := doJSON(newRouter(NewWarehouseHandler(uc)), http.MethodPost, "/v1/warehouses",
			`{"code":"lis1","name":"Lisbon","address":{"city":"Lisbon","country":"PT"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWarehouseUseCase(ctrl)
		uc.EXPECT().GetByID(gomock.Any(), "w9").Return(entities.Warehouse{}, usecase.ErrWarehouseNotFound)

		w := doJSON(newRouter(NewWarehouseHandler(uc)), http.MethodGet, "/v1/warehouses/w9", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIWarehouseUseCase(ctrl)
		uc.EXPECT().List(gomock.Any()).Return([]entities.Warehouse{{ID: "w1"}, {ID: "w2"}}, nil)

		w := doJSON(newRouter(NewWarehouseHandler(uc)), http.MethodGet, "/v1/warehouses", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestAdminHandler_RunExpirySweep(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("query failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIExpirySweepUseCase(ctrl)
		uc.EXPECT().Run(gomock.Any()).Return(usecase.SweepResult{}, errors.New("scan failed"))

		r := gin.New()
		r.POST("/v1/admin/expiry-sweep", NewAdminHandler(uc).RunExpirySweep)
		w := doJSON(r, http.MethodPost, "/v1/admin/expiry-sweep", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIExpirySweepUseCase(ctrl)
		uc.EXPECT().Run(gomock.Any()).Return(usecase.SweepResult{Matched: 2, Expired: 1, Skipped: 1}, nil)

		r := gin.New()
		r.POST("/v1/admin/expiry-sweep", NewAdminHandler(uc).RunExpirySweep)
		w := doJSON(r, http.MethodPost, "/v1/admin/expiry-sweep", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"matched":2,"expired":1,"skipped":1,"failed":0}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}
