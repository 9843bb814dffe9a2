package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

func TestItem_Prices(t *testing.T) {
	item, err := NewItem(1, ItemParams{
		Name:         i18n.String{"en": "Shirt", "de": "T-Shirt"},
		DefaultPrice: decimal.RequireFromString("12.00"),
		TaxRate:      decimal.RequireFromString("19"),
		Active:       true,
	}, 0)
	require.NoError(t, err)

	p, err := item.PriceFor(nil)
	require.NoError(t, err)
	assert.Equal(t, "12", p.String())

	xl := decimal.RequireFromString("14.00")
	vm, err := item.AddVariation(i18n.Plain("M"), true, nil)
	require.NoError(t, err)
	vm.SetID(10)
	vxl, err := item.AddVariation(i18n.Plain("XL"), true, &xl)
	require.NoError(t, err)
	vxl.SetID(11)
	assert.Equal(t, 1, vxl.Position())

	_, err = item.PriceFor(nil)
	assert.ErrorIs(t, err, ErrVariationNotFound)

	id := uint(10)
	p, err = item.PriceFor(&id)
	require.NoError(t, err)
	assert.Equal(t, "12", p.String())
	id = 11
	p, err = item.PriceFor(&id)
	require.NoError(t, err)
	assert.Equal(t, "14", p.String())

	require.NoError(t, item.RemoveVariation(10))
	assert.Len(t, item.Variations(), 1)
	assert.ErrorIs(t, item.RemoveVariation(10), ErrVariationNotFound)
}

func TestItem_Validation(t *testing.T) {
	_, err := NewItem(1, ItemParams{}, 0)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewItem(1, ItemParams{Name: i18n.Plain("x"), DefaultPrice: decimal.NewFromInt(-1)}, 0)
	assert.Error(t, err)

	_, err = NewItem(1, ItemParams{Name: i18n.Plain("x"), TaxRate: decimal.NewFromInt(101)}, 0)
	assert.Error(t, err)

	item, err := NewItem(1, ItemParams{Name: i18n.Plain("x"), Active: true}, 0)
	require.NoError(t, err)
	item.Deactivate()
	assert.False(t, item.Active())
}

func TestQuestion_ApplyOptions(t *testing.T) {
	q, err := NewQuestion(1, i18n.Plain("Shirt size"), QuestionChoice, true, []uint{3}, 0)
	require.NoError(t, err)
	assert.True(t, q.Type().HasOptions())
	assert.True(t, q.AppliesTo(3))
	assert.False(t, q.AppliesTo(4))

	require.NoError(t, q.ApplyOptions([]OptionChange{
		{Answer: i18n.Plain("S")},
		{Answer: i18n.Plain("M")},
		{Answer: i18n.Plain("ignored"), Delete: true},
	}))
	require.Len(t, q.Options(), 2)
	q.Options()[0].SetID(1)
	q.Options()[1].SetID(2)

	require.NoError(t, q.ApplyOptions([]OptionChange{
		{ID: 1, Answer: i18n.Plain("Small")},
		{ID: 2, Delete: true},
		{Answer: i18n.Plain("L")},
	}))
	require.Len(t, q.Options(), 2)
	assert.Equal(t, "Small", q.Options()[0].Answer().Localize("en"))
	assert.Equal(t, "L", q.Options()[1].Answer().Localize("en"))

	assert.ErrorIs(t, q.ApplyOptions([]OptionChange{{ID: 99, Answer: i18n.Plain("x")}}), ErrOptionNotFound)
	assert.ErrorIs(t, q.ApplyOptions([]OptionChange{{Answer: i18n.String{}}}), ErrNameRequired)
}

func TestQuestion_Validation(t *testing.T) {
	_, err := NewQuestion(1, i18n.Plain("?"), QuestionType("X"), false, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidType)
	_, err = NewQuestion(1, i18n.String{}, QuestionString, false, nil, 0)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestQuota_Available(t *testing.T) {
	unlimited, err := NewQuota(1, "All", nil, []uint{1}, nil)
	require.NoError(t, err)
	assert.Nil(t, unlimited.Available(100))

	size := 10
	q, err := NewQuota(1, "Tickets", &size, []uint{1}, []uint{7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), *q.Available(3))
	assert.Equal(t, int64(0), *q.Available(12))
	assert.True(t, q.CoversVariation(7))

	negative := -1
	_, err = NewQuota(1, "Bad", &negative, nil, nil)
	assert.Error(t, err)
	_, err = NewQuota(1, " ", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNameRequired)
}
