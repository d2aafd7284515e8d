package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/willowtrellis/farmstand-api/internal/application/analytics"
)

// DashboardHandler admin overview.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Admin dashboard
// @Description  Orders per status, revenue of non-cancelled orders, orders today, stock per catalog and last sheet sync.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/admin/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
