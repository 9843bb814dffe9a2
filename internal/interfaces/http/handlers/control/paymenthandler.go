package control

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderdto "github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/application/payment/dto"
	"github.com/orris-inc/ticketry/internal/application/payment/usecases"
	"github.com/orris-inc/ticketry/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

type listProviderSettingsUseCase interface {
	Execute(ctx context.Context, eventID uint) ([]*dto.ProviderSettingsDTO, error)
}

type updateProviderSettingsUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateProviderSettingsCommand) (*dto.ProviderSettingsDTO, error)
}

type getOrderControlUseCase interface {
	Execute(ctx context.Context, eventID uint, code, locale string) (*orderdto.OrderControlDTO, error)
}

// PaymentHandler serves the payment provider settings of an event and the
// organizer view of its orders.
type PaymentHandler struct {
	listUC   listProviderSettingsUseCase
	updateUC updateProviderSettingsUseCase
	orderUC  getOrderControlUseCase
	logger   logger.Interface
}

func NewPaymentHandler(
	listUC listProviderSettingsUseCase,
	updateUC updateProviderSettingsUseCase,
	orderUC getOrderControlUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		listUC:   listUC,
		updateUC: updateUC,
		orderUC:  orderUC,
		logger:   logger,
	}
}

// ListProviders returns every provider with its settings form and values
// GET /control/event/:organizer/:event/payment-providers
func (h *PaymentHandler) ListProviders(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	resp, err := h.listUC.Execute(c.Request.Context(), eventID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// UpdateProvider stores settings of one provider
// PUT /control/event/:organizer/:event/payment-providers/:identifier
func (h *PaymentHandler) UpdateProvider(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	var req dto.UpdateProviderSettingsRequest
	if !bindJSON(c, h.logger, "update payment provider", &req) {
		return
	}

	resp, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateProviderSettingsCommand{
		EventID:    eventID,
		Identifier: c.Param("identifier"),
		Settings:   req.Settings,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Payment provider settings saved", resp)
}

// GetOrder shows an order with the provider's payment details
// GET /control/event/:organizer/:event/orders/:code
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	eventID, ok := controlEventID(c)
	if !ok {
		return
	}
	locale := c.DefaultQuery("locale", middleware.GetEventScope(c).Event.Locale())
	resp, err := h.orderUC.Execute(c.Request.Context(), eventID, c.Param("code"), locale)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", resp)
}
