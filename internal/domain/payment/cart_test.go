package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartSnapshot(t *testing.T) {
	shirtM := uint(4)
	positions := []CartPosition{
		{ItemID: 1, ItemName: "Ticket", Price: decimal.RequireFromString("23")},
		{ItemID: 2, VariationID: &shirtM, ItemName: "Shirt", VariationName: "M", Price: decimal.RequireFromString("12")},
		{ItemID: 1, ItemName: "Ticket", Price: decimal.RequireFromString("23.00")},
	}

	snap := NewCartSnapshot(positions, decimal.RequireFromString("1.50"))

	require.Len(t, snap.Groups, 2)
	assert.Equal(t, 2, snap.Groups[0].Count)
	assert.Equal(t, "46", snap.Groups[0].Total.String())
	assert.Equal(t, "M", snap.Groups[1].VariationName)
	assert.Equal(t, "59.5", snap.Total.String())
	assert.Equal(t, "58", SubtotalOf(snap.Positions).String())
	assert.Len(t, snap.Positions, 3)
}

func TestResults(t *testing.T) {
	url, ok := RedirectTo("https://pay.example/x").Redirect()
	assert.True(t, ok)
	assert.Equal(t, "https://pay.example/x", url)
	assert.True(t, RedirectTo("u").IsValid())
	assert.False(t, Invalid().IsValid())
	_, ok = Continue().Redirect()
	assert.False(t, ok)

	assert.Equal(t, "deferred", Deferred("").Status().String())
	assert.Equal(t, "completed", Completed().Status().String())
	assert.Equal(t, "declined", Declined("x").Status().String())
}
