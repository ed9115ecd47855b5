package handlers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/NovaClinicas/clinic-scheduler/internal/config"
	"github.com/NovaClinicas/clinic-scheduler/internal/dto"
	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/NovaClinicas/clinic-scheduler/internal/usecase/appointment"
)

// PaymentHandler receives the external payment collaborator's callback.
// The engine never initiates collection; it only flips payment state.
type PaymentHandler struct {
	markPaidUC *ucAppointment.MarkAsPaid
	config     *config.Config
}

func NewPaymentHandler(
	markPaidUC *ucAppointment.MarkAsPaid,
	cfg *config.Config,
) *PaymentHandler {
	return &PaymentHandler{
		markPaidUC: markPaidUC,
		config:     cfg,
	}
}

type PaymentCallbackRequest struct {
	AppointmentID uint   `json:"appointment_id" binding:"required"`
	PaymentID     string `json:"payment_id" binding:"required"`
}

func (h *PaymentHandler) Callback(c *gin.Context) {
	token := c.GetHeader("X-Webhook-Token")
	if h.config.PaymentWebhookToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.config.PaymentWebhookToken)) != 1 {
		httperr.Unauthorized(c, "invalid_webhook_token", "Invalid webhook token.")
		return
	}

	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.markPaidUC.Execute(c.Request.Context(), req.AppointmentID, req.PaymentID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}
