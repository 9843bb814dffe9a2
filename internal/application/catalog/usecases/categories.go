package usecases

import (
	"context"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/domain/catalog"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/logger"
	"github.com/orris-inc/ticketry/internal/shared/mapper"
)

type ListCategoriesUseCase struct {
	repo   catalog.CategoryRepository
	logger logger.Interface
}

func NewListCategoriesUseCase(repo catalog.CategoryRepository, logger logger.Interface) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{repo: repo, logger: logger}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context, eventID uint) ([]*dto.CategoryDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to list categories")
	}
	return mapper.MapSlice(list, dto.ToCategoryDTO), nil
}

type CreateCategoryUseCase struct {
	repo   catalog.CategoryRepository
	logger logger.Interface
}

func NewCreateCategoryUseCase(repo catalog.CategoryRepository, logger logger.Interface) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{repo: repo, logger: logger}
}

// Execute appends the category after the existing ones.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, eventID uint, req dto.CategoryRequest) (*dto.CategoryDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create category")
	}

	c, err := catalog.NewCategory(eventID, req.Name, catalog.NextPosition(list))
	if err != nil {
		return nil, domainError(err)
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to create category", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to create category")
	}

	uc.logger.Infow("category created", "event_id", eventID, "category_id", c.ID())
	return dto.ToCategoryDTO(c), nil
}

type UpdateCategoryUseCase struct {
	repo   catalog.CategoryRepository
	logger logger.Interface
}

func NewUpdateCategoryUseCase(repo catalog.CategoryRepository, logger logger.Interface) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{repo: repo, logger: logger}
}

func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, eventID, id uint, req dto.CategoryRequest) (*dto.CategoryDTO, error) {
	c, err := uc.repo.GetByID(ctx, eventID, id)
	if err != nil {
		return nil, domainError(err)
	}
	if err := c.Rename(req.Name); err != nil {
		return nil, domainError(err)
	}
	if err := uc.repo.Update(ctx, c); err != nil {
		uc.logger.Errorw("failed to update category", "category_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to update category")
	}
	return dto.ToCategoryDTO(c), nil
}

// DeleteCategoryUseCase removes a category. Its items stay and lose their
// category.
type DeleteCategoryUseCase struct {
	repo   catalog.CategoryRepository
	items  catalog.ItemRepository
	tx     TransactionRunner
	logger logger.Interface
}

func NewDeleteCategoryUseCase(repo catalog.CategoryRepository, items catalog.ItemRepository, tx TransactionRunner, logger logger.Interface) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{repo: repo, items: items, tx: tx, logger: logger}
}

func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, eventID, id uint) error {
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		items, err := uc.items.ListByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.CategoryID() == nil || *it.CategoryID() != id {
				continue
			}
			if err := it.Update(catalog.ItemParams{
				Name:         it.Name(),
				DefaultPrice: it.DefaultPrice(),
				TaxRate:      it.TaxRate(),
				Active:       it.Active(),
				Admission:    it.Admission(),
			}); err != nil {
				return err
			}
			if err := uc.items.Update(ctx, it); err != nil {
				return err
			}
		}
		return uc.repo.Delete(ctx, eventID, id)
	})
	if err != nil {
		if mapped := domainError(err); apperrors.IsAppError(mapped) {
			return mapped
		}
		uc.logger.Errorw("failed to delete category", "category_id", id, "error", err)
		return apperrors.NewInternalError("failed to delete category")
	}

	uc.logger.Infow("category deleted", "event_id", eventID, "category_id", id)
	return nil
}

type MoveCategoryUseCase struct {
	repo   catalog.CategoryRepository
	tx     TransactionRunner
	logger logger.Interface
}

func NewMoveCategoryUseCase(repo catalog.CategoryRepository, tx TransactionRunner, logger logger.Interface) *MoveCategoryUseCase {
	return &MoveCategoryUseCase{repo: repo, tx: tx, logger: logger}
}

// Execute swaps the category with its neighbour and returns the new order.
func (uc *MoveCategoryUseCase) Execute(ctx context.Context, eventID, id uint, up bool) ([]*dto.CategoryDTO, error) {
	list, err := uc.repo.ListByEvent(ctx, eventID)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "event_id", eventID, "error", err)
		return nil, apperrors.NewInternalError("failed to move category")
	}

	sorted, err := move(ctx, uc.tx, list, id, up, catalog.ErrCategoryNotFound, uc.repo.Update)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to move category", "category_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to move category")
	}
	return mapper.MapSlice(sorted, dto.ToCategoryDTO), nil
}
