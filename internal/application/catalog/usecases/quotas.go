package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	vo "github.com/orris-inc/ticketry/internal/domain/order/valueobjects"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

// QuotaUsage counts the order positions a quota covers.
type QuotaUsage struct {
	items  catalog.ItemRepository
	orders order.Repository
}

func NewQuotaUsage(items catalog.ItemRepository, orders order.Repository) *QuotaUsage {
	return &QuotaUsage{items: items, orders: orders}
}

// Count sums positions of orders in statuses. When the quota names
// variations, only those variations of its items count.
func (u *QuotaUsage) Count(ctx context.Context, q *catalog.Quota, statuses ...vo.OrderStatus) (int64, error) {
	var total int64
	for _, itemID := range q.ItemIDs() {
		it, err := u.items.GetByID(ctx, q.EventID(), itemID)
		if err != nil {
			return 0, err
		}

		if len(q.VariationIDs()) == 0 || len(it.Variations()) == 0 {
			n, err := u.orders.CountPositions(ctx, itemID, nil, statuses)
			if err != nil {
				return 0, err
			}
			total += n
			continue
		}
		for _, v := range it.Variations() {
			if !q.CoversVariation(v.ID()) {
				continue
			}
			vid := v.ID()
			n, err := u.orders.CountPositions(ctx, itemID, &vid, statuses)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}

// Covers reports whether a position of itemID in variationID counts
// against q.
func Covers(q *catalog.Quota, itemID uint, variationID *uint) bool {
	found := false
	for _, id := range q.ItemIDs() {
		if id == itemID {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(q.VariationIDs()) == 0 || variationID == nil {
		return true
	}
	return q.CoversVariation(*variationID)
}

// checkQuotaRefs makes sure items belong to the event and variations to
// those items.
func checkQuotaRefs(ctx context.Context, items catalog.ItemRepository, eventID uint, itemIDs, variationIDs []uint) error {
	if err := checkItems(ctx, items, eventID, itemIDs); err != nil {
		return err
	}
	if len(variationIDs) == 0 {
		return nil
	}
	own := make(map[uint]bool)
	for _, id := range itemIDs {
		it, err := items.GetByID(ctx, eventID, id)
		if err != nil {
			return err
		}
		for _, v := range it.Variations() {
			own[v.ID()] = true
		}
	}
	for _, id := range variationIDs {
		if !own[id] {
			return apperrors.NewValidationError(catalog.ErrVariationNotFound.Error(), fmt.Sprintf("variation %d", id))
		}
	}
	return nil
}

type ListQuotasUseCase struct {
	repo   catalog.QuotaRepository
	logger logger.Interface
}

func NewListQuotasUseCase(repo catalog.QuotaRepository, logger logger.Interface) *ListQuotasUseCase {
	return &ListQuotasUseCase{repo: repo, logger: logger}
}

func (uc *ListQuotasUseCase) Execute(ctx context.Context, eventID uint) ([]*dto.QuotaDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list quotas", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to list quotas")
	}
	return mapper.MapSlice(list, dto.ToQuotaDTO), nil
}

type CreateQuotaUseCase struct {
	repo   catalog.QuotaRepository
	items  catalog.ItemRepository
	logger logger.Interface
}

func NewCreateQuotaUseCase(repo catalog.QuotaRepository, items catalog.ItemRepository, logger logger.Interface) *CreateQuotaUseCase {
	return &CreateQuotaUseCase{repo: repo, items: items, logger: logger}
}

func (uc *CreateQuotaUseCase) Execute(ctx context.Context, eventID uint, req dto.QuotaRequest) (*dto.QuotaDTO, error) {
	if err := checkQuotaRefs(ctx, uc.items, eventID, req.ItemIDs, req.VariationIDs); err != nil {
		return nil, domainError(err)
	}
	q, err := catalog.NewQuota(eventID, req.Name, req.Size, req.ItemIDs, req.VariationIDs)
	if err != nil {
		return nil, domainError(validationOr(err))
	}
	if err := uc.repo.Create(ctx, q); err != nil {
		uc.logger.Errorw("failed to create quota", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create quota")
	}

	uc.logger.Infow("quota created", "event_id", eventID, "quota_id", q.ID())
	return dto.ToQuotaDTO(q), nil
}

type UpdateQuotaUseCase struct {
	repo   catalog.QuotaRepository
	items  catalog.ItemRepository
	logger logger.Interface
}

func NewUpdateQuotaUseCase(repo catalog.QuotaRepository, items catalog.ItemRepository, logger logger.Interface) *UpdateQuotaUseCase {
	return &UpdateQuotaUseCase{repo: repo, items: items, logger: logger}
}

func (uc *UpdateQuotaUseCase) Execute(ctx context.Context, eventID, id uint, req dto.QuotaRequest) (*dto.QuotaDTO, error) {
	q, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}
	if err := checkQuotaRefs(ctx, uc.items, eventID, req.ItemIDs, req.VariationIDs); err != nil {
		return nil, domainError(err)
	}
	if err := q.Update(req.Name, req.Size, req.ItemIDs, req.VariationIDs); err != nil {
		return nil, domainError(validationOr(err))
	}
	if err := uc.repo.Update(ctx, q); err != nil {
		uc.logger.Errorw("failed to update quota", "quota_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update quota")
	}
	return dto.ToQuotaDTO(q), nil
}

type DeleteQuotaUseCase struct {
	repo   catalog.QuotaRepository
	logger logger.Interface
}

func NewDeleteQuotaUseCase(repo catalog.QuotaRepository, logger logger.Interface) *DeleteQuotaUseCase {
	return &DeleteQuotaUseCase{repo: repo, logger: logger}
}

func (uc *DeleteQuotaUseCase) Execute(ctx context.Context, eventID, id uint) error {
	if err := uc.repo.Delete(ctx, eventID, id); err != nil {
		if mapped := domainError(err); apperrors.IsAppError(mapped) {
			return mapped
		}
		uc.logger.Errorw("failed to delete quota", "quota_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete quota")
	}
	uc.logger.Infow("quota deleted", "event_id", eventID, "quota_id", id)
	return nil
}

type QuotaAvailabilityUseCase struct {
	repo   catalog.QuotaRepository
	usage  *QuotaUsage
	logger logger.Interface
}

func NewQuotaAvailabilityUseCase(repo catalog.QuotaRepository, usage *QuotaUsage, logger logger.Interface) *QuotaAvailabilityUseCase {
	return &QuotaAvailabilityUseCase{repo: repo, usage: usage, logger: logger}
}

// Execute reports the size minus paid and pending positions.
func (uc *QuotaAvailabilityUseCase) Execute(ctx context.Context, eventID, id uint) (*dto.QuotaAvailabilityDTO, error) {
	q, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}

	paid, err := uc.usage.Count(ctx, q, vo.OrderStatusPaid)
	if err != nil {
		uc.logger.Errorw("failed to count quota usage", "quota_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to compute availability")
	}
	pending, err := uc.usage.Count(ctx, q, vo.OrderStatusPending)
	if err != nil {
		uc.logger.Errorw("failed to count quota usage", "quota_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to compute availability")
	}

	return &dto.QuotaAvailabilityDTO{
		Quota:     dto.ToQuotaDTO(q),
		Paid:      paid,
		Pending:   pending,
		Available: q.Available(paid + pending),
	}, nil
}
