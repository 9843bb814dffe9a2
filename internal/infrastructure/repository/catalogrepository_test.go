package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/domain/catalog"
	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

func TestCategoryRepository_DeleteDetachesItems(t *testing.T) {
	gdb := setupTestDB(t)
	categories := NewCategoryRepository(gdb)
	items := NewItemRepository(gdb)
	ctx := context.Background()

	c, err := catalog.NewCategory(1, i18n.Plain("Tickets"), 0)
	require.NoError(t, err)
	require.NoError(t, categories.Create(ctx, c))

	cid := c.ID()
	item, err := catalog.NewItem(1, catalog.ItemParams{CategoryID: &cid, Name: i18n.Plain("Ticket"), Active: true}, 0)
	require.NoError(t, err)
	require.NoError(t, items.Create(ctx, item))

	require.NoError(t, categories.Delete(ctx, 1, c.ID()))
	assert.ErrorIs(t, categories.Delete(ctx, 1, c.ID()), catalog.ErrCategoryNotFound)

	got, err := items.GetByID(ctx, 1, item.ID())
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID())
}

func TestCategoryRepository_ListOrdered(t *testing.T) {
	repo := NewCategoryRepository(setupTestDB(t))
	ctx := context.Background()

	for i, name := range []string{"B", "A", "C"} {
		c, err := catalog.NewCategory(1, i18n.Plain(name), []int{1, 0, 1}[i])
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, c))
	}
	foreign, err := catalog.NewCategory(2, i18n.Plain("X"), 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, foreign))

	list, err := repo.ListByEvent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Name().Localize("en"))
	assert.Equal(t, "B", list[1].Name().Localize("en"))
	assert.Equal(t, "C", list[2].Name().Localize("en"))

	_, err = repo.GetByID(ctx, 1, foreign.ID())
	assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
}

func TestItemRepository_UpdateVariations(t *testing.T) {
	repo := NewItemRepository(setupTestDB(t))
	ctx := context.Background()

	item, err := catalog.NewItem(1, catalog.ItemParams{
		Name:         i18n.Plain("Shirt"),
		DefaultPrice: decimal.RequireFromString("12.00"),
		TaxRate:      decimal.RequireFromString("19"),
		Active:       true,
	}, 0)
	require.NoError(t, err)
	_, err = item.AddVariation(i18n.Plain("S"), true, nil)
	require.NoError(t, err)
	_, err = item.AddVariation(i18n.Plain("M"), true, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.Variations()[1].ID())

	loaded, err := repo.GetByID(ctx, 1, item.ID())
	require.NoError(t, err)
	require.Len(t, loaded.Variations(), 2)

	small := loaded.Variations()[0]
	price := decimal.RequireFromString("10")
	require.NoError(t, small.Update(i18n.Plain("Small"), true, &price))
	require.NoError(t, loaded.RemoveVariation(loaded.Variations()[1].ID()))
	_, err = loaded.AddVariation(i18n.Plain("L"), false, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.GetByID(ctx, 1, item.ID())
	require.NoError(t, err)
	require.Len(t, again.Variations(), 2)
	assert.Equal(t, "Small", again.Variations()[0].Value().Localize("en"))
	require.NotNil(t, again.Variations()[0].Price())
	assert.True(t, again.Variations()[0].Price().Equal(price))
	assert.Equal(t, "L", again.Variations()[1].Value().Localize("en"))
	assert.False(t, again.Variations()[1].Active())
	assert.True(t, again.DefaultPrice().Equal(decimal.RequireFromString("12")))

	require.NoError(t, repo.Delete(ctx, 1, item.ID()))
	_, err = repo.GetByID(ctx, 1, item.ID())
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestQuestionRepository_Options(t *testing.T) {
	repo := NewQuestionRepository(setupTestDB(t))
	ctx := context.Background()

	q, err := catalog.NewQuestion(1, i18n.Plain("Size"), catalog.QuestionChoice, true, []uint{4, 5}, 0)
	require.NoError(t, err)
	require.NoError(t, q.ApplyOptions([]catalog.OptionChange{{Answer: i18n.Plain("S")}, {Answer: i18n.Plain("M")}}))
	require.NoError(t, repo.Create(ctx, q))

	loaded, err := repo.GetByID(ctx, 1, q.ID())
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 5}, loaded.ItemIDs())
	require.Len(t, loaded.Options(), 2)

	require.NoError(t, loaded.ApplyOptions([]catalog.OptionChange{
		{ID: loaded.Options()[0].ID(), Delete: true},
		{Answer: i18n.Plain("XL")},
	}))
	require.NoError(t, loaded.Update(i18n.Plain("Shirt size"), catalog.QuestionChoice, false, []uint{4}))
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.GetByID(ctx, 1, q.ID())
	require.NoError(t, err)
	assert.False(t, again.Required())
	assert.Equal(t, []uint{4}, again.ItemIDs())
	require.Len(t, again.Options(), 2)
	assert.Equal(t, "M", again.Options()[0].Answer().Localize("en"))
	assert.Equal(t, "XL", again.Options()[1].Answer().Localize("en"))

	require.NoError(t, repo.Delete(ctx, 1, q.ID()))
	assert.ErrorIs(t, repo.Delete(ctx, 1, q.ID()), catalog.ErrQuestionNotFound)
}

func TestQuotaRepository(t *testing.T) {
	repo := NewQuotaRepository(setupTestDB(t))
	ctx := context.Background()

	size := 100
	q, err := catalog.NewQuota(1, "Tickets", &size, []uint{1, 2}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, q))

	require.NoError(t, q.Update("All tickets", nil, []uint{1}, []uint{3}))
	require.NoError(t, repo.Update(ctx, q))

	got, err := repo.GetByID(ctx, 1, q.ID())
	require.NoError(t, err)
	assert.Equal(t, "All tickets", got.Name())
	assert.Nil(t, got.Size())
	assert.Equal(t, []uint{1}, got.ItemIDs())
	assert.Equal(t, []uint{3}, got.VariationIDs())

	list, err := repo.ListByEvent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, 1, q.ID()))
	_, err = repo.GetByID(ctx, 1, q.ID())
	assert.ErrorIs(t, err, catalog.ErrQuotaNotFound)
}
