package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/application/order/usecases"
	"github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

const maxWebhookBytes = 256 << 10

type stripeWebhookUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleStripeWebhookCommand) error
}

type WebhookHandler struct {
	stripeUC stripeWebhookUseCase
	baseURL  string
	logger   logger.Interface
}

func NewWebhookHandler(stripeUC stripeWebhookUseCase, baseURL string, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{stripeUC: stripeUC, baseURL: baseURL, logger: logger}
}

// Stripe needs the raw body for signature verification.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Warnw("failed to read stripe webhook body", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("unreadable body"))
		return
	}

	err = h.stripeUC.Execute(c.Request.Context(), usecases.HandleStripeWebhookCommand{
		Payload:   payload,
		Signature: c.GetHeader("Stripe-Signature"),
		BaseURL:   h.baseURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "received", nil)
}
