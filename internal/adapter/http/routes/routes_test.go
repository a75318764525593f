package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cargo_quotes/internal/adapter/http/handlers/mocks"
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockIAuthUseCase, *mocks.MockIExpirySweepUseCase) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	authUC := mocks.NewMockIAuthUseCase(ctrl)
	sweepUC := mocks.NewMockIExpirySweepUseCase(ctrl)
	router := NewRouter(Dependencies{
		Quotations: mocks.NewMockIQuotationUseCase(ctrl),
		Warehouses: mocks.NewMockIWarehouseUseCase(ctrl),
		Auth:       authUC,
		Sweep:      sweepUC,
	})
	return router, authUC, sweepUC
}

func TestNewRouter(t *testing.T) {
	t.Run("health is public", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("metrics is public", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("quotations require a token", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotations", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("clients cannot approve", func(t *testing.T) {
		router, authUC, _ := newTestRouter(t)
		authUC.EXPECT().Authenticate(gomock.Any(), "tok").
			Return(entities.Session{UserID: "c-1", Role: entities.RoleClient, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/v1/quotations/q-1/approve", nil)
		req.Header.Set("Authorization", "Bearer tok")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("clients cannot requote", func(t *testing.T) {
		router, authUC, _ := newTestRouter(t)
		authUC.EXPECT().Authenticate(gomock.Any(), "tok").
			Return(entities.Session{UserID: "c-1", Role: entities.RoleClient, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/quotations/q-1/requote", nil)
		req.Header.Set("Authorization", "Bearer tok")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin runs the sweep", func(t *testing.T) {
		router, authUC, sweepUC := newTestRouter(t)
		authUC.EXPECT().Authenticate(gomock.Any(), "tok").
			Return(entities.Session{UserID: "a-1", Role: entities.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour)}, nil)
		sweepUC.EXPECT().Run(gomock.Any()).Return(usecase.SweepResult{Matched: 1, Expired: 1}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/expiry-sweep", nil)
		req.Header.Set("Authorization", "Bearer tok")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"matched":1,"expired":1,"skipped":0,"failed":0}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCorsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(corsMiddleware([]string{"https://app.example.com"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
