package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/ticketry/internal/domain/catalog"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
)

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// domainError maps catalog errors to what the control API answers.
func domainError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, catalog.ErrQuestionNotFound),
		errors.Is(err, catalog.ErrQuotaNotFound):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, catalog.ErrVariationNotFound),
		errors.Is(err, catalog.ErrOptionNotFound),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidType),
		errors.Is(err, catalog.ErrForeignEvent):
		return apperrors.NewValidationError(err.Error())
	}
	return err
}

// move reorders list and stores every element whose position changed.
func move[T catalog.Positioned](
	ctx context.Context,
	tx TransactionRunner,
	list []T,
	id uint,
	up bool,
	notFound error,
	update func(ctx context.Context, el T) error,
) ([]T, error) {
	changed, found := catalog.Move(list, id, up)
	if !found {
		return nil, apperrors.NewNotFoundError(notFound.Error())
	}
	if len(changed) > 0 {
		err := tx.RunInTransaction(ctx, func(ctx context.Context) error {
			for _, el := range changed {
				if err := update(ctx, el); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	catalog.SortByPosition(list)
	return list, nil
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("%s must be a decimal number", field), raw)
	}
	return d, nil
}

func parseOptionalMoney(field string, raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := parseMoney(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
