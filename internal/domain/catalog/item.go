package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

// Item is a product sold for an event, optionally in several variations.
type Item struct {
	id           uint
	eventID      uint
	categoryID   *uint
	name         i18n.String
	defaultPrice decimal.Decimal
	taxRate      decimal.Decimal
	active       bool
	admission    bool
	position     int
	variations   []*Variation
	createdAt    time.Time
	updatedAt    time.Time
}

type ItemParams struct {
	CategoryID   *uint
	Name         i18n.String
	DefaultPrice decimal.Decimal
	TaxRate      decimal.Decimal
	Active       bool
	Admission    bool
}

func (p ItemParams) validate() error {
	if p.Name.IsEmpty() {
		return ErrNameRequired
	}
	if p.DefaultPrice.IsNegative() {
		return fmt.Errorf("default price must not be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("tax rate must be between 0 and 100")
	}
	return nil
}

func NewItem(eventID uint, params ItemParams, position int) (*Item, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	return &Item{
		eventID:      eventID,
		categoryID:   params.CategoryID,
		name:         params.Name,
		defaultPrice: params.DefaultPrice,
		taxRate:      params.TaxRate,
		active:       params.Active,
		admission:    params.Admission,
		position:     position,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructItem(id, eventID uint, params ItemParams, position int, variations []*Variation, createdAt, updatedAt time.Time) *Item {
	return &Item{
		id:           id,
		eventID:      eventID,
		categoryID:   params.CategoryID,
		name:         params.Name,
		defaultPrice: params.DefaultPrice,
		taxRate:      params.TaxRate,
		active:       params.Active,
		admission:    params.Admission,
		position:     position,
		variations:   variations,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (i *Item) Update(params ItemParams) error {
	if err := params.validate(); err != nil {
		return err
	}
	i.categoryID = params.CategoryID
	i.name = params.Name
	i.defaultPrice = params.DefaultPrice
	i.taxRate = params.TaxRate
	i.active = params.Active
	i.admission = params.Admission
	i.updatedAt = biztime.NowUTC()
	return nil
}

// Deactivate hides an item from the shop. Items that were ordered are
// deactivated instead of deleted.
func (i *Item) Deactivate() {
	i.active = false
	i.updatedAt = biztime.NowUTC()
}

func (i *Item) AddVariation(value i18n.String, active bool, price *decimal.Decimal) (*Variation, error) {
	v, err := NewVariation(value, active, price, NextPosition(i.variations))
	if err != nil {
		return nil, err
	}
	i.variations = append(i.variations, v)
	i.updatedAt = biztime.NowUTC()
	return v, nil
}

func (i *Item) Variation(id uint) (*Variation, bool) {
	for _, v := range i.variations {
		if v.id == id {
			return v, true
		}
	}
	return nil, false
}

func (i *Item) RemoveVariation(id uint) error {
	for idx, v := range i.variations {
		if v.id == id {
			i.variations = append(i.variations[:idx], i.variations[idx+1:]...)
			i.updatedAt = biztime.NowUTC()
			return nil
		}
	}
	return ErrVariationNotFound
}

// PriceFor is the variation price when it has one, the item price otherwise.
func (i *Item) PriceFor(variationID *uint) (decimal.Decimal, error) {
	if variationID == nil {
		if len(i.variations) > 0 {
			return decimal.Zero, fmt.Errorf("%w: item %d requires a variation", ErrVariationNotFound, i.id)
		}
		return i.defaultPrice, nil
	}
	v, ok := i.Variation(*variationID)
	if !ok {
		return decimal.Zero, ErrVariationNotFound
	}
	if v.price != nil {
		return *v.price, nil
	}
	return i.defaultPrice, nil
}

func (i *Item) ID() uint                      { return i.id }
func (i *Item) EventID() uint                 { return i.eventID }
func (i *Item) CategoryID() *uint             { return i.categoryID }
func (i *Item) Name() i18n.String             { return i.name }
func (i *Item) DefaultPrice() decimal.Decimal { return i.defaultPrice }
func (i *Item) TaxRate() decimal.Decimal      { return i.taxRate }
func (i *Item) Active() bool                  { return i.active }
func (i *Item) Admission() bool               { return i.admission }
func (i *Item) Position() int                 { return i.position }
func (i *Item) Variations() []*Variation      { return i.variations }
func (i *Item) CreatedAt() time.Time          { return i.createdAt }
func (i *Item) UpdatedAt() time.Time          { return i.updatedAt }
func (i *Item) SetID(id uint)                 { i.id = id }

func (i *Item) SetPosition(p int) {
	i.position = p
	i.updatedAt = biztime.NowUTC()
}

// Variation is one flavor of an item, such as a shirt size.
type Variation struct {
	id       uint
	value    i18n.String
	active   bool
	price    *decimal.Decimal
	position int
}

func NewVariation(value i18n.String, active bool, price *decimal.Decimal, position int) (*Variation, error) {
	if value.IsEmpty() {
		return nil, ErrNameRequired
	}
	if price != nil && price.IsNegative() {
		return nil, fmt.Errorf("variation price must not be negative")
	}
	return &Variation{value: value, active: active, price: price, position: position}, nil
}

func ReconstructVariation(id uint, value i18n.String, active bool, price *decimal.Decimal, position int) *Variation {
	return &Variation{id: id, value: value, active: active, price: price, position: position}
}

func (v *Variation) Update(value i18n.String, active bool, price *decimal.Decimal) error {
	if value.IsEmpty() {
		return ErrNameRequired
	}
	if price != nil && price.IsNegative() {
		return fmt.Errorf("variation price must not be negative")
	}
	v.value = value
	v.active = active
	v.price = price
	return nil
}

func (v *Variation) ID() uint                { return v.id }
func (v *Variation) Value() i18n.String      { return v.value }
func (v *Variation) Active() bool            { return v.active }
func (v *Variation) Price() *decimal.Decimal { return v.price }
func (v *Variation) Position() int           { return v.position }
func (v *Variation) SetID(id uint)           { v.id = id }
func (v *Variation) SetPosition(p int)       { v.position = p }
