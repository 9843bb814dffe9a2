package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/orris-inc/ticketry/internal/shared/biztime"
)

// Quota limits how many positions of its items are sold. A nil size is
// unlimited.
type Quota struct {
	id           uint
	eventID      uint
	name         string
	size         *int
	itemIDs      []uint
	variationIDs []uint
	createdAt    time.Time
	updatedAt    time.Time
}

func NewQuota(eventID uint, name string, size *int, itemIDs, variationIDs []uint) (*Quota, error) {
	q := &Quota{eventID: eventID, createdAt: biztime.NowUTC()}
	if err := q.Update(name, size, itemIDs, variationIDs); err != nil {
		return nil, err
	}
	return q, nil
}

func ReconstructQuota(id, eventID uint, name string, size *int, itemIDs, variationIDs []uint, createdAt, updatedAt time.Time) *Quota {
	return &Quota{
		id:           id,
		eventID:      eventID,
		name:         name,
		size:         size,
		itemIDs:      itemIDs,
		variationIDs: variationIDs,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (q *Quota) Update(name string, size *int, itemIDs, variationIDs []uint) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if size != nil && *size < 0 {
		return fmt.Errorf("quota size must not be negative")
	}
	q.name = name
	q.size = size
	q.itemIDs = append([]uint(nil), itemIDs...)
	q.variationIDs = append([]uint(nil), variationIDs...)
	q.updatedAt = biztime.NowUTC()
	return nil
}

// Available is the remaining size after used positions, nil if unlimited.
// It never goes below zero.
func (q *Quota) Available(used int64) *int64 {
	if q.size == nil {
		return nil
	}
	left := int64(*q.size) - used
	if left < 0 {
		left = 0
	}
	return &left
}

func (q *Quota) CoversVariation(id uint) bool {
	for _, v := range q.variationIDs {
		if v == id {
			return true
		}
	}
	return false
}

func (q *Quota) ID() uint             { return q.id }
func (q *Quota) EventID() uint        { return q.eventID }
func (q *Quota) Name() string         { return q.name }
func (q *Quota) Size() *int           { return q.size }
func (q *Quota) ItemIDs() []uint      { return q.itemIDs }
func (q *Quota) VariationIDs() []uint { return q.variationIDs }
func (q *Quota) CreatedAt() time.Time { return q.createdAt }
func (q *Quota) UpdatedAt() time.Time { return q.updatedAt }
func (q *Quota) SetID(id uint)        { q.id = id }
