package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Answer is the attendee's reply to one question. Choice questions store the
// selected option ids, free text questions store the text.
type Answer struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
	OptionIDs  []uint `json:"option_ids,omitempty"`
}

// Position is one ticket or product inside an order.
type Position struct {
	id           uint
	itemID       uint
	variationID  *uint
	price        decimal.Decimal
	attendeeName string
	answers      []Answer
}

func NewPosition(itemID uint, variationID *uint, price decimal.Decimal, attendeeName string, answers []Answer) (*Position, error) {
	if itemID == 0 {
		return nil, fmt.Errorf("%w: item is required", ErrInvalidPosition)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidPosition)
	}
	return &Position{
		itemID:       itemID,
		variationID:  variationID,
		price:        price,
		attendeeName: attendeeName,
		answers:      append([]Answer(nil), answers...),
	}, nil
}

func ReconstructPosition(id, itemID uint, variationID *uint, price decimal.Decimal, attendeeName string, answers []Answer) *Position {
	return &Position{
		id:           id,
		itemID:       itemID,
		variationID:  variationID,
		price:        price,
		attendeeName: attendeeName,
		answers:      answers,
	}
}

func (p *Position) ID() uint               { return p.id }
func (p *Position) ItemID() uint           { return p.itemID }
func (p *Position) VariationID() *uint     { return p.variationID }
func (p *Position) Price() decimal.Decimal { return p.price }
func (p *Position) AttendeeName() string   { return p.attendeeName }
func (p *Position) Answers() []Answer      { return p.answers }
func (p *Position) SetID(id uint)          { p.id = id }

func (p *Position) clone() *Position {
	c := *p
	if p.variationID != nil {
		v := *p.variationID
		c.variationID = &v
	}
	c.answers = make([]Answer, len(p.answers))
	for i, a := range p.answers {
		a.OptionIDs = append([]uint(nil), a.OptionIDs...)
		c.answers[i] = a
	}
	return &c
}
