package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/application/common"
	"github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/application/order/usecases"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

type getOrderPageUseCase interface {
	Execute(ctx context.Context, query usecases.GetOrderPageQuery) (*dto.OrderPageDTO, error)
}

type payOrderUseCase interface {
	Execute(ctx context.Context, cmd usecases.PayOrderCommand) (*dto.PerformResultDTO, error)
}

// OrderHandler serves the attendee's order page and the payment retry and
// provider return links below it.
type OrderHandler struct {
	getOrderPageUC getOrderPageUseCase
	payOrderUC     payOrderUseCase
	baseURL        string
	logger         logger.Interface
}

func NewOrderHandler(getOrderPageUC getOrderPageUseCase, payOrderUC payOrderUseCase, baseURL string, logger logger.Interface) *OrderHandler {
	return &OrderHandler{
		getOrderPageUC: getOrderPageUC,
		payOrderUC:     payOrderUC,
		baseURL:        baseURL,
		logger:         logger,
	}
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	page, err := h.getOrderPageUC.Execute(c.Request.Context(), usecases.GetOrderPageQuery{
		Scope:   scope,
		Code:    c.Param("code"),
		Secret:  c.Param("secret"),
		Request: paymentRequest(c, scope, session, nil, h.baseURL),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	page.Messages = popFlash(session)
	utils.SuccessResponse(c, http.StatusOK, "", page)
}

// PayOrder retries the payment and answers with the result.
func (h *OrderHandler) PayOrder(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req := paymentRequest(c, scope, session, nil, h.baseURL)
	result, err := h.pay(c, scope, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"payment":  result,
		"messages": req.Messages.All(),
	})
}

// PayOrderRedirect is PayOrder for links the visitor follows in the
// browser, including provider return URLs. It redirects to the provider
// when it asks for that and to the order page otherwise, keeping the
// messages for the order page.
func (h *OrderHandler) PayOrderRedirect(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req := paymentRequest(c, scope, session, nil, h.baseURL)
	result, err := h.pay(c, scope, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pushFlash(session, req.Messages.All())

	target := result.RedirectURL
	if target == "" {
		target = payment.OrderPath(h.baseURL, req.Event, c.Param("code"), c.Param("secret"))
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *OrderHandler) pay(c *gin.Context, scope *common.EventScope, req *payment.Request) (*dto.PerformResultDTO, error) {
	result, err := h.payOrderUC.Execute(c.Request.Context(), usecases.PayOrderCommand{
		Scope:   scope,
		Code:    c.Param("code"),
		Secret:  c.Param("secret"),
		Request: req,
	})
	if err != nil {
		h.logger.Warnw("order payment attempt failed",
			"order_code", c.Param("code"),
			"error", err)
		return nil, err
	}
	return result, nil
}
