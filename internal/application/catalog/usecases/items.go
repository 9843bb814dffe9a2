package usecases

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/domain/order"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type ListItemsUseCase struct {
	repo   catalog.ItemRepository
	logger logger.Interface
}

func NewListItemsUseCase(repo catalog.ItemRepository, logger logger.Interface) *ListItemsUseCase {
	return &ListItemsUseCase{repo: repo, logger: logger}
}

func (uc *ListItemsUseCase) Execute(ctx context.Context, eventID uint) ([]*dto.ItemDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list items", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to list items")
	}
	return mapper.MapSlice(list, dto.ToItemDTO), nil
}

type GetItemUseCase struct {
	repo catalog.ItemRepository
}

func NewGetItemUseCase(repo catalog.ItemRepository) *GetItemUseCase {
	return &GetItemUseCase{repo: repo}
}

func (uc *GetItemUseCase) Execute(ctx context.Context, eventID, id uint) (*dto.ItemDTO, error) {
	it, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}
	return dto.ToItemDTO(it), nil
}

// itemParams checks the category reference and parses the prices.
func itemParams(ctx context.Context, categories catalog.CategoryRepository, eventID uint, req dto.ItemRequest) (catalog.ItemParams, error) {
	price, err := parseMoney("default_price", req.DefaultPrice)
	if err != nil {
		return catalog.ItemParams{}, err
	}
	tax := decimal.Zero
	if req.TaxRate != "" {
		if tax, err = parseMoney("tax_rate", req.TaxRate); err != nil {
			return catalog.ItemParams{}, err
		}
	}
	if req.CategoryID != nil {
		if _, err := categories.GetByID(ctx, eventID, *req.CategoryID); err != nil {
			if errors.Is(err, catalog.ErrCategoryNotFound) {
				return catalog.ItemParams{}, apperrors.NewValidationError(catalog.ErrForeignEvent.Error(), "category_id")
			}
			return catalog.ItemParams{}, err
		}
	}
	params := catalog.ItemParams{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		DefaultPrice: price,
		TaxRate:      tax,
		Active:       req.Active,
		Admission:    req.Admission,
	}
	return params, nil
}

// applyVariations adds, changes and removes variations in request order.
func applyVariations(it *catalog.Item, changes []dto.VariationChange) error {
	for _, ch := range changes {
		price, err := parseOptionalMoney("variation price", ch.Price)
		if err != nil {
			return err
		}
		switch {
		case ch.ID == 0 && ch.Delete:
			continue
		case ch.ID == 0:
			if _, err := it.AddVariation(ch.Value, ch.Active, price); err != nil {
				return err
			}
		case ch.Delete:
			if err := it.RemoveVariation(ch.ID); err != nil {
				return err
			}
		default:
			v, ok := it.Variation(ch.ID)
			if !ok {
				return catalog.ErrVariationNotFound
			}
			if err := v.Update(ch.Value, ch.Active, price); err != nil {
				return err
			}
		}
	}
	return nil
}

type CreateItemUseCase struct {
	repo       catalog.ItemRepository
	categories catalog.CategoryRepository
	logger     logger.Interface
}

func NewCreateItemUseCase(repo catalog.ItemRepository, categories catalog.CategoryRepository, logger logger.Interface) *CreateItemUseCase {
	return &CreateItemUseCase{repo: repo, categories: categories, logger: logger}
}

func (uc *CreateItemUseCase) Execute(ctx context.Context, eventID uint, req dto.ItemRequest) (*dto.ItemDTO, error) {
	params, err := itemParams(ctx, uc.categories, eventID, req)
	if err != nil {
		return nil, domainError(err)
	}
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list items", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create item")
	}

	it, err := catalog.NewItem(eventID, params, catalog.NextPosition(list))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := applyVariations(it, req.Variations); err != nil {
		return nil, domainError(validationOr(err))
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		uc.logger.Errorw("failed to create item", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create item")
	}

	uc.logger.Infow("item created", "event_id", eventID, "item_id", it.ID())
	return dto.ToItemDTO(it), nil
}

type UpdateItemUseCase struct {
	repo       catalog.ItemRepository
	categories catalog.CategoryRepository
	logger     logger.Interface
}

func NewUpdateItemUseCase(repo catalog.ItemRepository, categories catalog.CategoryRepository, logger logger.Interface) *UpdateItemUseCase {
	return &UpdateItemUseCase{repo: repo, categories: categories, logger: logger}
}

func (uc *UpdateItemUseCase) Execute(ctx context.Context, eventID, id uint, req dto.ItemRequest) (*dto.ItemDTO, error) {
	it, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}
	params, err := itemParams(ctx, uc.categories, eventID, req)
	if err != nil {
		return nil, domainError(err)
	}
	if err := it.Update(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := applyVariations(it, req.Variations); err != nil {
		return nil, domainError(validationOr(err))
	}
	if err := uc.repo.Update(ctx, it); err != nil {
		uc.logger.Errorw("failed to update item", "item_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update item")
	}
	return dto.ToItemDTO(it), nil
}

// DeleteItemUseCase deletes an item, or deactivates it when any order
// position refers to it.
type DeleteItemUseCase struct {
	repo   catalog.ItemRepository
	orders order.Repository
	logger logger.Interface
}

func NewDeleteItemUseCase(repo catalog.ItemRepository, orders order.Repository, logger logger.Interface) *DeleteItemUseCase {
	return &DeleteItemUseCase{repo: repo, orders: orders, logger: logger}
}

func (uc *DeleteItemUseCase) Execute(ctx context.Context, eventID, id uint) (*dto.DeleteItemResult, error) {
	it, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}

	ordered, err := uc.orders.HasPositionsForItem(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to check item usage", "item_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to delete item")
	}

	if ordered {
		it.Deactivate()
		if err := uc.repo.Update(ctx, it); err != nil {
			uc.logger.Errorw("failed to deactivate item", "item_id", id, "error", err)
			return nil, apperrors.NewInternalError("failed to delete item")
		}
		uc.logger.Infow("item deactivated instead of deleted", "item_id", id)
		return &dto.DeleteItemResult{Deactivated: true}, nil
	}

	if err := uc.repo.Delete(ctx, eventID, id); err != nil {
		uc.logger.Errorw("failed to delete item", "item_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to delete item")
	}
	uc.logger.Infow("item deleted", "event_id", eventID, "item_id", id)
	return &dto.DeleteItemResult{Deleted: true}, nil
}

type MoveItemUseCase struct {
	repo   catalog.ItemRepository
	tx     TransactionRunner
	logger logger.Interface
}

func NewMoveItemUseCase(repo catalog.ItemRepository, tx TransactionRunner, logger logger.Interface) *MoveItemUseCase {
	return &MoveItemUseCase{repo: repo, tx: tx, logger: logger}
}

func (uc *MoveItemUseCase) Execute(ctx context.Context, eventID, id uint, up bool) ([]*dto.ItemDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list items", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to move item")
	}

	sorted, err := move(ctx, uc.tx, list, id, up, catalog.ErrItemNotFound, uc.repo.Update)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to move item", "item_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to move item")
	}
	return mapper.MapSlice(sorted, dto.ToItemDTO), nil
}

// validationOr turns plain domain validation failures into validation
// errors and keeps sentinel errors for domainError.
func validationOr(err error) error {
	if apperrors.IsAppError(err) || errors.Is(err, catalog.ErrVariationNotFound) || errors.Is(err, catalog.ErrNameRequired) {
		return err
	}
	return apperrors.NewValidationError(err.Error())
}
