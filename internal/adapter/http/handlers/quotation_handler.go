package handlers

import (
	"cargo_quotes/internal/adapter/http/dto/request"
	"cargo_quotes/internal/adapter/http/dto/response"
	"cargo_quotes/internal/adapter/http/middleware"
	"cargo_quotes/internal/domain/entities"
	"cargo_quotes/internal/usecase"
	"cargo_quotes/pkg"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuotationHandler exposes the quotation lifecycle over HTTP.
type QuotationHandler struct {
	usecase usecase.IQuotationUseCase
}

func NewQuotationHandler(uc usecase.IQuotationUseCase) *QuotationHandler {
	return &QuotationHandler{usecase: uc}
}

// CreateQuotation registers a new shipment request.
// @Summary Create a quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param payload body request.CreateQuotationRequest true "Shipment request"
// @Success 201 {object} response.QuotationResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 401 {object} pkg.HTTPError
// @Router /quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var payload request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	q, err := h.usecase.Create(c.Request.Context(), sess, payload.ToInput())
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromQuotation(q))
}

// GetQuotation
// @Summary Get a quotation by id
// @Tags quotations
// @Produce json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	q, err := h.usecase.GetByID(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// ListQuotations
// @Summary List quotations
// @Description Clients only see their own quotations.
// @Tags quotations
// @Produce json
// @Security Bearer
// @Param status query string false "Status filter"
// @Param client_id query string false "Client filter (staff only)"
// @Param limit query int false "Page size (1-100)"
// @Param cursor query string false "Cursor returned by the previous page"
// @Success 200 {object} response.QuotationListResponse
// @Router /quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var query request.ListQuotationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, bindError(err))
		return
	}

	page, err := h.usecase.List(c.Request.Context(), sess, query.ToInput())
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotationPage(page))
}

// UpdatePrice replaces the line items and recomputes the totals.
// @Summary Price a quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Param payload body request.UpdatePriceRequest true "Pricing"
// @Success 200 {object} response.QuotationResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /quotations/{id}/price [put]
func (h *QuotationHandler) UpdatePrice(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var payload request.UpdatePriceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	q, err := h.usecase.UpdatePricing(c.Request.Context(), sess, c.Param("id"), payload.ToInput())
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// ProvideAddress
// @Summary Switch a quotation to warehouse drop-off
// @Tags quotations
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Param payload body request.ProvideAddressRequest true "Addresses"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/address [patch]
func (h *QuotationHandler) ProvideAddress(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	var payload request.ProvideAddressRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}

	q, err := h.usecase.ProvideAddress(c.Request.Context(), sess, c.Param("id"), payload.ToInput())
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// @Summary Submit a draft quotation
// @Tags quotations
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/submit [patch]
func (h *QuotationHandler) Submit(c *gin.Context) {
	h.transition(c, h.usecase.Submit)
}

// @Summary Verify a quotation
// @Tags quotations
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/verify [patch]
func (h *QuotationHandler) Verify(c *gin.Context) {
	h.transition(c, h.usecase.Verify)
}

// @Summary Approve the current price
// @Tags quotations
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /quotations/{id}/approve [patch]
func (h *QuotationHandler) Approve(c *gin.Context) {
	h.transition(c, h.usecase.Approve)
}

// @Summary Send an approved quotation to the client
// @Tags quotations
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /quotations/{id}/send [patch]
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.usecase.Send)
}

// @Summary Accept a sent quotation
// @Tags quotations
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.QuotationResponse
// @Failure 409 {object} pkg.HTTPError
// @Router /quotations/{id}/accept [patch]
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.usecase.Accept)
}

// @Summary Reject a sent quotation
// @Tags quotations
// @Accept json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Param payload body request.ReasonRequest false "Reason"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/reject [patch]
func (h *QuotationHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, h.usecase.Reject)
}

// @Summary Ask for a new price
// @Tags quotations
// @Accept json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Param payload body request.ReasonRequest true "Reason"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/negotiate [patch]
func (h *QuotationHandler) RequestNegotiation(c *gin.Context) {
	h.transitionWithReason(c, h.usecase.RequestNegotiation)
}

// @Summary Ask the client for more information
// @Tags quotations
// @Accept json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Param payload body request.ReasonRequest true "Reason"
// @Success 200 {object} response.QuotationResponse
// @Router /quotations/{id}/request-info [patch]
func (h *QuotationHandler) RequestInfo(c *gin.Context) {
	h.transitionWithReason(c, h.usecase.RequestInfo)
}

// Requote opens the next revision of a rejected or expired quotation.
// @Summary Open a new revision of a rejected or expired quotation
// @Tags quotations
// @Produce json
// @Security Bearer
// @Param id path string true "Quotation ID"
// @Success 201 {object} response.QuotationResponse
// @Failure 404 {object} pkg.HTTPError
// @Failure 409 {object} pkg.HTTPError
// @Router /quotations/{id}/requote [post]
func (h *QuotationHandler) Requote(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	q, err := h.usecase.Requote(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromQuotation(q))
}

func (h *QuotationHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, sess entities.Session, id string) (entities.Quotation, error),
) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	q, err := apply(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

func (h *QuotationHandler) transitionWithReason(
	c *gin.Context,
	apply func(ctx context.Context, sess entities.Session, id, reason string) (entities.Quotation, error),
) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		respondError(c, errUnauthorized)
		return
	}
	// The body is optional; the use case decides whether a reason is required.
	var payload request.ReasonRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, bindError(err))
		return
	}

	q, err := apply(c.Request.Context(), sess, c.Param("id"), payload.Reason)
	if err != nil {
		respondError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

func mapQuotationError(err error) *pkg.AppError {
	if appErr := mapCommonError(err); appErr != nil {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrQuotationNotFound):
		return pkg.NewDomainErrorSimple("QUOTATION_NOT_FOUND", "Quotation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidStateTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATE_TRANSITION", "Operation not allowed in the quotation's current status", http.StatusConflict)
	case errors.Is(err, usecase.ErrQuotationExpired):
		return pkg.NewDomainErrorSimple("QUOTATION_EXPIRED", "Quotation validity has ended", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentModification):
		return pkg.NewDomainErrorSimple("CONCURRENT_MODIFICATION", "Quotation was modified concurrently, retry the request", http.StatusConflict)
	case errors.Is(err, usecase.ErrDuplicateKey):
		return pkg.NewDomainErrorSimple("DUPLICATE_QUOTATION", "Quotation already exists", http.StatusConflict)
	default:
		return internalError(err)
	}
}
