package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/application/notification"
)

// NotificationHandler admin broadcasts.
type NotificationHandler struct {
	uc *notification.UseCase
}

// NewNotificationHandler builds the handler.
func NewNotificationHandler(uc *notification.UseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// Send godoc
// @Summary      Broadcast email and/or SMS
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendNotificationRequest  true  "Message and channels"
// @Success      200   {object}  dto.SendNotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendNotificationRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Send(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Overview godoc
// @Summary      Recipients and recent broadcasts
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NotificationOverviewResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
