package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/application/catalog/dto"
	"github.com/orris-inc/ticketry/internal/domain/order"
	"github.com/orris-inc/ticketry/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/ticketry/internal/infrastructure/repository"
	"github.com/orris-inc/ticketry/internal/shared/db"
	apperrors "github.com/orris-inc/ticketry/internal/shared/errors"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

const eventID = 1

type catalogFixture struct {
	categories *repository.CategoryRepository
	items      *repository.ItemRepository
	questions  *repository.QuestionRepository
	quotas     *repository.QuotaRepository
	orders     *repository.OrderRepository
	tx         *db.TransactionManager
	log        logger.Interface
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	gdb := testdb.Open(t)
	return &catalogFixture{
		categories: repository.NewCategoryRepository(gdb),
		items:      repository.NewItemRepository(gdb),
		questions:  repository.NewQuestionRepository(gdb),
		quotas:     repository.NewQuotaRepository(gdb),
		orders:     repository.NewOrderRepository(gdb),
		tx:         db.NewTransactionManager(gdb),
		log:        logger.NewNopLogger(),
	}
}

func (f *catalogFixture) createItem(t *testing.T, name string, variations ...string) *dto.ItemDTO {
	t.Helper()
	req := dto.ItemRequest{Name: i18n.Plain(name), DefaultPrice: "20.00", TaxRate: "19", Active: true, Admission: true}
	for _, v := range variations {
		req.Variations = append(req.Variations, dto.VariationChange{Value: i18n.Plain(v), Active: true})
	}
	it, err := NewCreateItemUseCase(f.items, f.categories, f.log).Execute(context.Background(), eventID, req)
	require.NoError(t, err)
	return it
}

// placeOrder stores a pending order with one position per item id and
// optionally marks it paid.
func (f *catalogFixture) placeOrder(t *testing.T, paid bool, positions ...*order.Position) *order.Order {
	t.Helper()
	ctx := context.Background()
	o, err := order.NewOrder(eventID, "ada@example.org", "en", "banktransfer", "EUR", decimal.Zero, positions, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.orders.Create(ctx, o))
	if paid {
		version := o.Version()
		_, err := o.MarkPaid("banktransfer", "{}")
		require.NoError(t, err)
		require.NoError(t, f.orders.Update(ctx, o, version))
	}
	return o
}

func position(t *testing.T, itemID uint, variationID *uint, answers ...order.Answer) *order.Position {
	t.Helper()
	p, err := order.NewPosition(itemID, variationID, decimal.RequireFromString("20"), "Ada", answers)
	require.NoError(t, err)
	return p
}

func TestCategories_CreateMoveDelete(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	create := NewCreateCategoryUseCase(f.categories, f.log)

	first, err := create.Execute(ctx, eventID, dto.CategoryRequest{Name: i18n.Plain("Tickets")})
	require.NoError(t, err)
	second, err := create.Execute(ctx, eventID, dto.CategoryRequest{Name: i18n.Plain("Merch")})
	require.NoError(t, err)
	assert.Less(t, first.Position, second.Position)

	moved, err := NewMoveCategoryUseCase(f.categories, f.tx, f.log).Execute(ctx, eventID, second.ID, true)
	require.NoError(t, err)
	require.Len(t, moved, 2)
	assert.Equal(t, second.ID, moved[0].ID)
	assert.Equal(t, first.ID, moved[1].ID)

	list, err := NewListCategoriesUseCase(f.categories, f.log).Execute(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = NewMoveCategoryUseCase(f.categories, f.tx, f.log).Execute(ctx, eventID, 999, true)
	assert.True(t, apperrors.IsNotFoundError(err))

	cid := first.ID
	it, err := NewCreateItemUseCase(f.items, f.categories, f.log).Execute(ctx, eventID, dto.ItemRequest{
		CategoryID: &cid, Name: i18n.Plain("Ticket"), DefaultPrice: "10",
	})
	require.NoError(t, err)

	require.NoError(t, NewDeleteCategoryUseCase(f.categories, f.items, f.tx, f.log).Execute(ctx, eventID, first.ID))
	got, err := NewGetItemUseCase(f.items).Execute(ctx, eventID, it.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestCreateItem_RejectsForeignCategory(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	other, err := NewCreateCategoryUseCase(f.categories, f.log).Execute(ctx, 2, dto.CategoryRequest{Name: i18n.Plain("Other")})
	require.NoError(t, err)

	cid := other.ID
	_, err = NewCreateItemUseCase(f.items, f.categories, f.log).Execute(ctx, eventID, dto.ItemRequest{
		CategoryID: &cid, Name: i18n.Plain("Ticket"), DefaultPrice: "10",
	})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = NewCreateItemUseCase(f.items, f.categories, f.log).Execute(ctx, eventID, dto.ItemRequest{
		Name: i18n.Plain("Ticket"), DefaultPrice: "ten",
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestUpdateItem_Variations(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	it := f.createItem(t, "Shirt", "S", "M")
	require.Len(t, it.Variations, 2)

	price := "25.00"
	updated, err := NewUpdateItemUseCase(f.items, f.categories, f.log).Execute(ctx, eventID, it.ID, dto.ItemRequest{
		Name:         i18n.Plain("Shirt"),
		DefaultPrice: "20.00",
		Active:       true,
		Variations: []dto.VariationChange{
			{ID: it.Variations[0].ID, Value: i18n.Plain("Small"), Active: true, Price: &price},
			{ID: it.Variations[1].ID, Delete: true},
			{Value: i18n.Plain("L"), Active: false},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Variations, 2)
	assert.Equal(t, "Small", updated.Variations[0].Value.Localize("en"))
	require.NotNil(t, updated.Variations[0].Price)
	assert.Equal(t, "25.00", *updated.Variations[0].Price)
	assert.Equal(t, "L", updated.Variations[1].Value.Localize("en"))

	_, err = NewUpdateItemUseCase(f.items, f.categories, f.log).Execute(ctx, eventID, it.ID, dto.ItemRequest{
		Name:         i18n.Plain("Shirt"),
		DefaultPrice: "20.00",
		Variations:   []dto.VariationChange{{ID: 9999, Value: i18n.Plain("XL")}},
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestDeleteItem_DeactivatesWhenOrdered(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	ordered := f.createItem(t, "Ticket")
	unused := f.createItem(t, "Workshop")
	f.placeOrder(t, false, position(t, ordered.ID, nil))

	del := NewDeleteItemUseCase(f.items, f.orders, f.log)

	res, err := del.Execute(ctx, eventID, ordered.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)
	got, err := NewGetItemUseCase(f.items).Execute(ctx, eventID, ordered.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	res, err = del.Execute(ctx, eventID, unused.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	_, err = NewGetItemUseCase(f.items).Execute(ctx, eventID, unused.ID)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestQuestions_OptionsAndStats(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	it := f.createItem(t, "Ticket")

	q, err := NewCreateQuestionUseCase(f.questions, f.items, f.log).Execute(ctx, eventID, dto.QuestionRequest{
		Question: i18n.Plain("Meal"),
		Type:     "C",
		Required: true,
		ItemIDs:  []uint{it.ID},
		Options:  []dto.OptionChange{{Answer: i18n.Plain("Vegan")}, {Answer: i18n.Plain("Meat")}},
	})
	require.NoError(t, err)
	require.Len(t, q.Options, 2)

	_, err = NewCreateQuestionUseCase(f.questions, f.items, f.log).Execute(ctx, eventID, dto.QuestionRequest{
		Question: i18n.Plain("Name"),
		Type:     "S",
		Options:  []dto.OptionChange{{Answer: i18n.Plain("x")}},
	})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = NewCreateQuestionUseCase(f.questions, f.items, f.log).Execute(ctx, eventID, dto.QuestionRequest{
		Question: i18n.Plain("Name"),
		Type:     "S",
		ItemIDs:  []uint{4242},
	})
	assert.True(t, apperrors.IsValidationError(err))

	vegan := order.Answer{QuestionID: q.ID, Answer: "Vegan", OptionIDs: []uint{q.Options[0].ID}}
	meat := order.Answer{QuestionID: q.ID, Answer: "Meat", OptionIDs: []uint{q.Options[1].ID}}
	f.placeOrder(t, true, position(t, it.ID, nil, vegan), position(t, it.ID, nil, vegan))
	f.placeOrder(t, false, position(t, it.ID, nil, meat))

	stats := NewQuestionStatsUseCase(f.questions, f.orders, f.log)

	all, err := stats.Execute(ctx, eventID, q.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	require.Len(t, all.Answers, 2)
	assert.Equal(t, dto.AnswerCountDTO{Answer: "Vegan", Count: 2}, all.Answers[0])

	paid, err := stats.Execute(ctx, eventID, q.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, "p", paid.Status)
	assert.Equal(t, int64(2), paid.Total)
	require.Len(t, paid.Answers, 1)

	_, err = stats.Execute(ctx, eventID, q.ID, "bogus")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestUpdateQuestion_DropsOptionsWhenTypeChanges(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	q, err := NewCreateQuestionUseCase(f.questions, f.items, f.log).Execute(ctx, eventID, dto.QuestionRequest{
		Question: i18n.Plain("Meal"),
		Type:     "M",
		Options:  []dto.OptionChange{{Answer: i18n.Plain("Vegan")}},
	})
	require.NoError(t, err)

	updated, err := NewUpdateQuestionUseCase(f.questions, f.items, f.log).Execute(ctx, eventID, q.ID, dto.QuestionRequest{
		Question: i18n.Plain("Meal preference"),
		Type:     "T",
	})
	require.NoError(t, err)
	assert.Equal(t, "T", updated.Type)
	assert.Empty(t, updated.Options)

	require.NoError(t, NewDeleteQuestionUseCase(f.questions, f.log).Execute(ctx, eventID, q.ID))
	err = NewDeleteQuestionUseCase(f.questions, f.log).Execute(ctx, eventID, q.ID)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestQuotaAvailability(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	shirt := f.createItem(t, "Shirt", "S", "M")
	small, medium := shirt.Variations[0].ID, shirt.Variations[1].ID

	size := 3
	q, err := NewCreateQuotaUseCase(f.quotas, f.items, f.log).Execute(ctx, eventID, dto.QuotaRequest{
		Name:         "Small shirts",
		Size:         &size,
		ItemIDs:      []uint{shirt.ID},
		VariationIDs: []uint{small},
	})
	require.NoError(t, err)

	f.placeOrder(t, true, position(t, shirt.ID, &small))
	f.placeOrder(t, false, position(t, shirt.ID, &small), position(t, shirt.ID, &medium))

	avail, err := NewQuotaAvailabilityUseCase(f.quotas, NewQuotaUsage(f.items, f.orders), f.log).Execute(ctx, eventID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), avail.Paid)
	assert.Equal(t, int64(1), avail.Pending)
	require.NotNil(t, avail.Available)
	assert.Equal(t, int64(1), *avail.Available)

	_, err = NewCreateQuotaUseCase(f.quotas, f.items, f.log).Execute(ctx, eventID, dto.QuotaRequest{
		Name:         "Broken",
		ItemIDs:      []uint{shirt.ID},
		VariationIDs: []uint{small + medium + 100},
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCovers(t *testing.T) {
	f := newCatalogFixture(t)
	shirt := f.createItem(t, "Shirt", "S", "M")
	small, medium := shirt.Variations[0].ID, shirt.Variations[1].ID

	q, err := NewCreateQuotaUseCase(f.quotas, f.items, f.log).Execute(context.Background(), eventID, dto.QuotaRequest{
		Name: "Small", ItemIDs: []uint{shirt.ID}, VariationIDs: []uint{small},
	})
	require.NoError(t, err)
	quota, err := f.quotas.GetByID(context.Background(), eventID, q.ID)
	require.NoError(t, err)

	assert.True(t, Covers(quota, shirt.ID, &small))
	assert.False(t, Covers(quota, shirt.ID, &medium))
	assert.False(t, Covers(quota, shirt.ID+1, nil))
}
