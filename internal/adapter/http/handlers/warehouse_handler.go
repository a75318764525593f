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

type WarehouseHandler struct {
	usecase usecase.IWarehouseUseCase
}

func NewWarehouseHandler(uc usecase.IWarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{usecase: uc}
}

// CreateWarehouse
// @Summary Register a drop-off warehouse
// @Tags warehouses
// @Accept json
// @Produce json
// @Security Bearer
// @Param payload body request.CreateWarehouseRequest true "Warehouse"
// @Success 201 {object} response.WarehouseResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /warehouses [post]
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var payload request.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	w, err := h.usecase.Create(c.Request.Context(), sess, payload.ToInput())
	if err != nil {
		respondError(c, mapWarehouseError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromWarehouse(w))
}

// @Summary Get a warehouse
// @Tags warehouses
// @Produce json
// @Security Bearer
// @Param id path string true "Warehouse ID"
// @Success 200 {object} response.WarehouseResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /warehouses/{id} [get]
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	w, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, mapWarehouseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromWarehouse(w))
}

// @Summary List warehouses
// @Tags warehouses
// @Produce json
// @Security Bearer
// @Success 200 {array} response.WarehouseResponse
// @Router /warehouses [get]
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	ws, err := h.usecase.List(c.Request.Context())
	if err != nil {
		respondError(c, mapWarehouseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromWarehouses(ws))
}

func mapWarehouseError(err error) *pkg.AppError {
	if appErr := mapCommonError(err); appErr != nil {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrWarehouseNotFound):
		return pkg.NewDomainErrorSimple("WAREHOUSE_NOT_FOUND", "Warehouse not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrDuplicateWarehouse), errors.Is(err, usecase.ErrDuplicateKey):
		return pkg.NewDomainErrorSimple("WAREHOUSE_ALREADY_EXISTS", "A warehouse with this code or name already exists", http.StatusConflict)
	default:
		return internalError(err)
	}
}
