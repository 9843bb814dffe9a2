package dto

import (
	"html/template"

	orderdto "github.com/orris-inc/ticketry/internal/application/order/dto"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type AnswerInput struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
	OptionIDs  []uint `json:"option_ids"`
}

// AddToCartRequest adds Count positions of one item. Answers apply to every
// added position.
type AddToCartRequest struct {
	ItemID       uint          `json:"item_id" binding:"required"`
	VariationID  *uint         `json:"variation_id"`
	Count        int           `json:"count" binding:"omitempty,min=1,max=20"`
	AttendeeName string        `json:"attendee_name" binding:"max=255"`
	Answers      []AnswerInput `json:"answers" binding:"omitempty,dive"`
}

type CartGroupDTO struct {
	ItemID        uint   `json:"item_id"`
	VariationID   *uint  `json:"variation_id,omitempty"`
	Name          string `json:"name"`
	VariationName string `json:"variation_name,omitempty"`
	Price         string `json:"price"`
	Count         int    `json:"count"`
	Total         string `json:"total"`
}

type CartDTO struct {
	Groups    []CartGroupDTO `json:"groups"`
	Positions int            `json:"positions"`
	Fee       string         `json:"fee"`
	Total     string         `json:"total"`
}

// ProviderChoiceDTO is one payment method offered on the payment step.
type ProviderChoiceDTO struct {
	Identifier string        `json:"identifier"`
	Name       string        `json:"name"`
	Fee        string        `json:"fee"`
	Total      string        `json:"total"`
	FormHTML   template.HTML `json:"form_html"`
}

type PaymentStepDTO struct {
	Cart      *CartDTO            `json:"cart"`
	Providers []ProviderChoiceDTO `json:"providers"`
	Selected  string              `json:"selected,omitempty"`
}

// PrepareResultDTO answers the payment step. Outcome is continue, redirect
// or invalid.
type PrepareResultDTO struct {
	Outcome     string            `json:"outcome"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	Messages    []payment.Message `json:"messages,omitempty"`
}

type ConfirmDTO struct {
	Cart         *CartDTO      `json:"cart"`
	Provider     string        `json:"provider"`
	ProviderName string        `json:"provider_name"`
	ConfirmHTML  template.HTML `json:"confirm_html"`
}

type PlaceOrderRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// PlaceOrderResultDTO carries the order page URL the visitor continues on
// and, when the payment needs it, the provider URL to go to first.
type PlaceOrderResultDTO struct {
	Order    *orderdto.OrderDTO         `json:"order"`
	OrderURL string                     `json:"order_url"`
	Payment  *orderdto.PerformResultDTO `json:"payment,omitempty"`
	Messages []payment.Message          `json:"messages,omitempty"`
}

func ToCartDTO(s payment.CartSnapshot) *CartDTO {
	return &CartDTO{
		Groups: mapper.MapSlice(s.Groups, func(g payment.CartGroup) CartGroupDTO {
			return CartGroupDTO{
				ItemID:        g.ItemID,
				VariationID:   g.VariationID,
				Name:          g.Name,
				VariationName: g.VariationName,
				Price:         g.Price.StringFixed(2),
				Count:         g.Count,
				Total:         g.Total.StringFixed(2),
			}
		}),
		Positions: len(s.Positions),
		Fee:       s.Fee.StringFixed(2),
		Total:     s.Total.StringFixed(2),
	}
}

func OutcomeName(o payment.PrepareOutcome) string {
	switch o {
	case payment.PrepareContinue:
		return "continue"
	case payment.PrepareRedirect:
		return "redirect"
	default:
		return "invalid"
	}
}
