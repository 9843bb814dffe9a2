package dto

import (
	"html/template"
	"time"

	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/domain/payment"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type AnswerDTO struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
	OptionIDs  []uint `json:"option_ids,omitempty"`
}

type PositionDTO struct {
	ID           uint        `json:"id"`
	ItemID       uint        `json:"item_id"`
	VariationID  *uint       `json:"variation_id,omitempty"`
	Price        string      `json:"price"`
	AttendeeName string      `json:"attendee_name,omitempty"`
	Answers      []AnswerDTO `json:"answers,omitempty"`
}

type OrderDTO struct {
	Code            string        `json:"code"`
	Status          string        `json:"status"`
	StatusName      string        `json:"status_name"`
	Email           string        `json:"email"`
	Locale          string        `json:"locale"`
	Datetime        time.Time     `json:"datetime"`
	Expires         time.Time     `json:"expires"`
	Total           string        `json:"total"`
	PaymentFee      string        `json:"payment_fee"`
	PaymentProvider string        `json:"payment_provider"`
	PaymentDate     *time.Time    `json:"payment_date,omitempty"`
	Positions       []PositionDTO `json:"positions"`
}

// OrderPageDTO is what the attendee's order page shows. PaymentHTML is the
// provider fragment for the order's current state.
type OrderPageDTO struct {
	Order       *OrderDTO         `json:"order"`
	EventName   string            `json:"event_name"`
	Currency    string            `json:"currency"`
	PaymentHTML template.HTML     `json:"payment_html"`
	CanRetry    bool              `json:"can_retry"`
	Messages    []payment.Message `json:"messages,omitempty"`
}

// OrderControlDTO is the organizer view of an order.
type OrderControlDTO struct {
	Order        *OrderDTO     `json:"order"`
	ProviderName string        `json:"provider_name"`
	PaymentHTML  template.HTML `json:"payment_html"`
}

// PerformResultDTO tells the caller where to send the visitor after a
// payment attempt.
type PerformResultDTO struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

func ToPerformResultDTO(r payment.PerformResult) *PerformResultDTO {
	out := &PerformResultDTO{Status: r.Status().String()}
	switch r.Status() {
	case payment.PerformDeferred:
		out.RedirectURL = r.URL()
	case payment.PerformDeclined:
		out.Message = r.Reason()
	}
	return out
}

func ToOrderDTO(o *order.Order) *OrderDTO {
	return &OrderDTO{
		Code:            o.Code(),
		Status:          o.Status().String(),
		StatusName:      o.Status().Name(),
		Email:           o.Email(),
		Locale:          o.Locale(),
		Datetime:        o.Datetime(),
		Expires:         o.Expires(),
		Total:           o.Total().StringFixed(2),
		PaymentFee:      o.PaymentFee().StringFixed(2),
		PaymentProvider: o.PaymentProvider(),
		PaymentDate:     o.PaymentDate(),
		Positions:       mapper.MapSlice(o.Positions(), ToPositionDTO),
	}
}

func ToPositionDTO(p *order.Position) PositionDTO {
	return PositionDTO{
		ID:           p.ID(),
		ItemID:       p.ItemID(),
		VariationID:  p.VariationID(),
		Price:        p.Price().StringFixed(2),
		AttendeeName: p.AttendeeName(),
		Answers: mapper.MapSlice(p.Answers(), func(a order.Answer) AnswerDTO {
			return AnswerDTO{QuestionID: a.QuestionID, Answer: a.Answer, OptionIDs: a.OptionIDs}
		}),
	}
}
