package dto

import (
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type CategoryDTO struct {
	ID       uint        `json:"id"`
	Name     i18n.String `json:"name"`
	Position int         `json:"position"`
}

type CategoryRequest struct {
	Name i18n.String `json:"name" binding:"required"`
}

type VariationDTO struct {
	ID       uint        `json:"id"`
	Value    i18n.String `json:"value"`
	Active   bool        `json:"active"`
	Price    *string     `json:"price,omitempty"`
	Position int         `json:"position"`
}

type ItemDTO struct {
	ID           uint           `json:"id"`
	CategoryID   *uint          `json:"category_id,omitempty"`
	Name         i18n.String    `json:"name"`
	DefaultPrice string         `json:"default_price"`
	TaxRate      string         `json:"tax_rate"`
	Active       bool           `json:"active"`
	Admission    bool           `json:"admission"`
	Position     int            `json:"position"`
	Variations   []VariationDTO `json:"variations"`
}

// VariationChange adds a variation when ID is zero and removes the
// variation with ID when Delete is set.
type VariationChange struct {
	ID     uint        `json:"id"`
	Value  i18n.String `json:"value"`
	Active bool        `json:"active"`
	Price  *string     `json:"price"`
	Delete bool        `json:"delete"`
}

type ItemRequest struct {
	CategoryID   *uint             `json:"category_id"`
	Name         i18n.String       `json:"name" binding:"required"`
	DefaultPrice string            `json:"default_price" binding:"required"`
	TaxRate      string            `json:"tax_rate"`
	Active       bool              `json:"active"`
	Admission    bool              `json:"admission"`
	Variations   []VariationChange `json:"variations" binding:"omitempty,dive"`
}

// DeleteItemResult tells whether the item was removed or only deactivated
// because orders reference it.
type DeleteItemResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

type OptionDTO struct {
	ID       uint        `json:"id"`
	Answer   i18n.String `json:"answer"`
	Position int         `json:"position"`
}

type QuestionDTO struct {
	ID       uint        `json:"id"`
	Question i18n.String `json:"question"`
	Type     string      `json:"type"`
	Required bool        `json:"required"`
	Position int         `json:"position"`
	ItemIDs  []uint      `json:"items"`
	Options  []OptionDTO `json:"options"`
}

// OptionChange adds an option when ID is zero and removes the option with
// ID when Delete is set.
type OptionChange struct {
	ID     uint        `json:"id"`
	Answer i18n.String `json:"answer"`
	Delete bool        `json:"delete"`
}

type QuestionRequest struct {
	Question i18n.String    `json:"question" binding:"required"`
	Type     string         `json:"type" binding:"required,oneof=N S T B C M"`
	Required bool           `json:"required"`
	ItemIDs  []uint         `json:"items"`
	Options  []OptionChange `json:"options"`
}

type AnswerCountDTO struct {
	Answer string `json:"answer"`
	Count  int64  `json:"count"`
}

type QuestionStatsDTO struct {
	Question *QuestionDTO     `json:"question"`
	Status   string           `json:"status,omitempty"`
	Total    int64            `json:"total"`
	Answers  []AnswerCountDTO `json:"answers"`
}

type QuotaDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Size         *int   `json:"size"`
	ItemIDs      []uint `json:"items"`
	VariationIDs []uint `json:"variations"`
}

type QuotaRequest struct {
	Name         string `json:"name" binding:"required"`
	Size         *int   `json:"size" binding:"omitempty,min=0"`
	ItemIDs      []uint `json:"items"`
	VariationIDs []uint `json:"variations"`
}

// QuotaAvailabilityDTO counts paid and pending positions against the size.
// Available is nil for unlimited quotas.
type QuotaAvailabilityDTO struct {
	Quota     *QuotaDTO `json:"quota"`
	Paid      int64     `json:"paid"`
	Pending   int64     `json:"pending"`
	Available *int64    `json:"available"`
}

// MoveRequest is the body of the move endpoints.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

func ToCategoryDTO(c *catalog.Category) *CategoryDTO {
	return &CategoryDTO{ID: c.ID(), Name: c.Name(), Position: c.Position()}
}

func ToItemDTO(i *catalog.Item) *ItemDTO {
	return &ItemDTO{
		ID:           i.ID(),
		CategoryID:   i.CategoryID(),
		Name:         i.Name(),
		DefaultPrice: i.DefaultPrice().StringFixed(2),
		TaxRate:      i.TaxRate().String(),
		Active:       i.Active(),
		Admission:    i.Admission(),
		Position:     i.Position(),
		Variations: mapper.MapSlice(i.Variations(), func(v *catalog.Variation) VariationDTO {
			out := VariationDTO{ID: v.ID(), Value: v.Value(), Active: v.Active(), Position: v.Position()}
			if v.Price() != nil {
				p := v.Price().StringFixed(2)
				out.Price = &p
			}
			return out
		}),
	}
}

func ToQuestionDTO(q *catalog.Question) *QuestionDTO {
	return &QuestionDTO{
		ID:       q.ID(),
		Question: q.Question(),
		Type:     string(q.Type()),
		Required: q.Required(),
		Position: q.Position(),
		ItemIDs:  q.ItemIDs(),
		Options: mapper.MapSlice(q.Options(), func(o *catalog.QuestionOption) OptionDTO {
			return OptionDTO{ID: o.ID(), Answer: o.Answer(), Position: o.Position()}
		}),
	}
}

func ToQuotaDTO(q *catalog.Quota) *QuotaDTO {
	return &QuotaDTO{
		ID:           q.ID(),
		Name:         q.Name(),
		Size:         q.Size(),
		ItemIDs:      q.ItemIDs(),
		VariationIDs: q.VariationIDs(),
	}
}

func ToAnswerCountDTO(c order.AnswerCount) AnswerCountDTO {
	return AnswerCountDTO{Answer: c.Answer, Count: c.Count}
}
