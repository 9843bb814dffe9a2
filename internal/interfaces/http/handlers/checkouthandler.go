package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketry/internal/application/checkout/dto"
	"github.com/orris-inc/ticketry/internal/application/checkout/usecases"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/utils"
)

// paymentField names the submitted provider identifier on the payment step.
const paymentField = "payment"

// CheckoutHandler serves the cart and the payment, confirm and place order
// steps of the presale checkout.
type CheckoutHandler struct {
	addToCartUC   addToCartUseCase
	listCartUC    listCartUseCase
	clearCartUC   clearCartUseCase
	paymentStepUC getPaymentStepUseCase
	selectUC      selectPaymentUseCase
	confirmUC     getConfirmUseCase
	placeOrderUC  placeOrderUseCase
	baseURL       string
	logger        logger.Interface
}

func NewCheckoutHandler(
	addToCartUC addToCartUseCase,
	listCartUC listCartUseCase,
	clearCartUC clearCartUseCase,
	paymentStepUC getPaymentStepUseCase,
	selectUC selectPaymentUseCase,
	confirmUC getConfirmUseCase,
	placeOrderUC placeOrderUseCase,
	baseURL string,
	logger logger.Interface,
) *CheckoutHandler {
	return &CheckoutHandler{
		addToCartUC:   addToCartUC,
		listCartUC:    listCartUC,
		clearCartUC:   clearCartUC,
		paymentStepUC: paymentStepUC,
		selectUC:      selectUC,
		confirmUC:     confirmUC,
		placeOrderUC:  placeOrderUC,
		baseURL:       baseURL,
		logger:        logger,
	}
}

func (h *CheckoutHandler) AddToCart(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add to cart", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cart, err := h.addToCartUC.Execute(c.Request.Context(), scope, session, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, cart, "Added to cart")
}

func (h *CheckoutHandler) GetCart(c *gin.Context) {
	_, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", h.listCartUC.Execute(session))
}

func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	_, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.clearCartUC.Execute(session)
	utils.NoContentResponse(c)
}

// GetPaymentStep lists the enabled payment methods with their fee and form.
func (h *CheckoutHandler) GetPaymentStep(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req := paymentRequest(c, scope, session, nil, h.baseURL)
	step, err := h.paymentStepUC.Execute(c.Request.Context(), scope, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", step)
}

// SelectPayment stores the chosen method after its checkout form was
// accepted. An invalid form answers 422 with the provider's messages.
func (h *CheckoutHandler) SelectPayment(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	data, err := formData(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	identifier := data.Get(paymentField)
	if identifier == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("select a payment method"))
		return
	}

	req := paymentRequest(c, scope, session, data, h.baseURL)
	result, err := h.selectUC.Execute(c.Request.Context(), scope, identifier, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Outcome == dto.OutcomeName(payment.PrepareInvalid) {
		c.JSON(http.StatusUnprocessableEntity, utils.APIResponse{
			Success: false,
			Data:    result,
			Error: &utils.ErrorInfo{
				Type:    string(errors.ErrorTypeValidation),
				Message: "payment details are incomplete",
			},
		})
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *CheckoutHandler) GetConfirm(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	req := paymentRequest(c, scope, session, nil, h.baseURL)
	confirm, err := h.confirmUC.Execute(c.Request.Context(), scope, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", confirm)
}

// PlaceOrder creates the order from the cart and runs the payment. When
// the provider needs the visitor elsewhere, payment.redirect_url is set.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	scope, session, err := presaleScope(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var body dto.PlaceOrderRequest
	if err := c.ShouldBind(&body); err != nil {
		h.logger.Warnw("invalid request body for place order", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	req := paymentRequest(c, scope, session, nil, h.baseURL)
	result, err := h.placeOrderUC.Execute(c.Request.Context(), usecases.PlaceOrderCommand{
		Scope:   scope,
		Email:   body.Email,
		Request: req,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Order placed")
}
