package payment

import (
	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/domain/order"
)

// CartPosition is one line of the cart prior to ordering.
type CartPosition struct {
	ItemID        uint            `json:"item_id"`
	VariationID   *uint           `json:"variation_id,omitempty"`
	ItemName      string          `json:"item_name"`
	VariationName string          `json:"variation_name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	AttendeeName  string          `json:"attendee_name,omitempty"`
	Answers       []order.Answer  `json:"answers,omitempty"`
}

// CartGroup aggregates positions for the same item, variation and price.
type CartGroup struct {
	ItemID        uint            `json:"item_id"`
	VariationID   *uint           `json:"variation_id,omitempty"`
	Name          string          `json:"name"`
	VariationName string          `json:"variation_name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// CartSnapshot is the read-only cart view handed to providers.
// Total includes Fee.
type CartSnapshot struct {
	Positions []CartPosition  `json:"positions"`
	Groups    []CartGroup     `json:"groups"`
	Total     decimal.Decimal `json:"total"`
	Fee       decimal.Decimal `json:"fee"`
}

// NewCartSnapshot groups positions in first-seen order.
func NewCartSnapshot(positions []CartPosition, fee decimal.Decimal) CartSnapshot {
	type groupKey struct {
		item      uint
		variation uint
		price     string
	}

	var groups []CartGroup
	index := make(map[groupKey]int)
	total := fee
	for _, p := range positions {
		total = total.Add(p.Price)

		k := groupKey{item: p.ItemID, price: p.Price.String()}
		if p.VariationID != nil {
			k.variation = *p.VariationID
		}
		if i, ok := index[k]; ok {
			groups[i].Count++
			groups[i].Total = groups[i].Total.Add(p.Price)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, CartGroup{
			ItemID:        p.ItemID,
			VariationID:   p.VariationID,
			Name:          p.ItemName,
			VariationName: p.VariationName,
			Price:         p.Price,
			Count:         1,
			Total:         p.Price,
		})
	}

	return CartSnapshot{
		Positions: append([]CartPosition(nil), positions...),
		Groups:    groups,
		Total:     total,
		Fee:       fee,
	}
}

// SubtotalOf sums the positions without the fee.
func SubtotalOf(positions []CartPosition) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.Price)
	}
	return sum
}
