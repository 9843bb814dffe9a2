package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/models"
	"github.com/orris-inc/ticketry/internal/shared/db"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

// OrderRepository implements order.Repository
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create stores the order with its positions and answers.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.SetID(model.ID)
	for i, p := range o.Positions() {
		p.SetID(model.Positions[i].ID)
	}

	return nil
}

// Update writes the order row. Positions are immutable once placed.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int) error {
	model := mappers.OrderToModel(o)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"payment_provider": model.PaymentProvider,
			"payment_info":     model.PaymentInfo,
			"payment_date":     model.PaymentDate,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrVersionConflict
	}

	return nil
}

func (r *OrderRepository) GetByCode(ctx context.Context, eventID uint, code string) (*order.Order, error) {
	var model models.OrderModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("Positions", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Positions.Answers").
		Scopes(db.ForEvent(eventID)).
		Where("code = ?", code).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by code: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

func (r *OrderRepository) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	var modelList []*models.OrderModel

	q := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires < ?", vo.OrderStatusPending, now).
		Order("expires ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to get expired orders: %w", err)
	}

	return mapper.MapSliceErr(modelList, mappers.OrderToDomain)
}

func (r *OrderRepository) HasPositionsForItem(ctx context.Context, itemID uint) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderPositionModel{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check positions for item: %w", err)
	}

	return count > 0, nil
}

func (r *OrderRepository) CountPositions(ctx context.Context, itemID uint, variationID *uint, statuses []vo.OrderStatus) (int64, error) {
	var count int64

	q := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderPositionModel{}).
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("order_positions.item_id = ?", itemID)
	if variationID != nil {
		q = q.Where("order_positions.variation_id = ?", *variationID)
	}
	if len(statuses) > 0 {
		q = q.Where("orders.status IN ?", statuses)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}

	return count, nil
}

func (r *OrderRepository) AnswerCounts(ctx context.Context, questionID uint, status vo.OrderStatus) ([]order.AnswerCount, error) {
	var rows []order.AnswerCount

	q := db.GetTxFromContext(ctx, r.db).
		Table("question_answers").
		Select("question_answers.answer AS answer, COUNT(*) AS count").
		Joins("JOIN order_positions ON order_positions.id = question_answers.position_id").
		Joins("JOIN orders ON orders.id = order_positions.order_id").
		Where("question_answers.question_id = ?", questionID)
	if status != "" {
		q = q.Where("orders.status = ?", status)
	}
	err := q.Group("question_answers.answer").
		Order("count DESC").
		Order("question_answers.answer ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}

	return rows, nil
}
