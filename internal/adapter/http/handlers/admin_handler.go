package handlers

import (
	"cargo_quotes/internal/adapter/http/dto/response"
	"cargo_quotes/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	sweep usecase.IExpirySweepUseCase
}

func NewAdminHandler(sweep usecase.IExpirySweepUseCase) *AdminHandler {
	return &AdminHandler{sweep: sweep}
}

// RunExpirySweep runs the validity sweep on demand.
// @Summary Expire overdue quotations now
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} response.SweepResponse
// @Failure 500 {object} pkg.HTTPError
// @Router /admin/expiry-sweep [post]
func (h *AdminHandler) RunExpirySweep(c *gin.Context) {
	res, err := h.sweep.Run(c.Request.Context())
	if err != nil {
		respondError(c, internalError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromSweepResult(res))
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
