package catalog

import "context"

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, eventID, id uint) error
	GetByID(ctx context.Context, eventID, id uint) (*Category, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*Category, error)
}

// ItemRepository persists items together with their variations. Update
// removes stored variations the item no longer holds.
type ItemRepository interface {
	Create(ctx context.Context, i *Item) error
	Update(ctx context.Context, i *Item) error
	Delete(ctx context.Context, eventID, id uint) error
	GetByID(ctx context.Context, eventID, id uint) (*Item, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*Item, error)
}

// QuestionRepository persists questions with their options and item
// assignments.
type QuestionRepository interface {
	Create(ctx context.Context, q *Question) error
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, eventID, id uint) error
	GetByID(ctx context.Context, eventID, id uint) (*Question, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*Question, error)
}

type QuotaRepository interface {
	Create(ctx context.Context, q *Quota) error
	Update(ctx context.Context, q *Quota) error
	Delete(ctx context.Context, eventID, id uint) error
	GetByID(ctx context.Context, eventID, id uint) (*Quota, error)
	ListByEvent(ctx context.Context, eventID uint) ([]*Quota, error)
}
