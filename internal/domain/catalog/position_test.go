package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/shared/i18n"
)

func categories(t *testing.T, positions ...int) []*Category {
	t.Helper()
	var out []*Category
	for i, p := range positions {
		c, err := NewCategory(1, i18n.Plain("C"), p)
		require.NoError(t, err)
		c.SetID(uint(i + 1))
		out = append(out, c)
	}
	return out
}

func ids(list []*Category) []uint {
	SortByPosition(list)
	out := make([]uint, len(list))
	for i, c := range list {
		out[i] = c.ID()
	}
	return out
}

func TestMove(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		id        uint
		up        bool
		want      []uint
	}{
		{"down first", []int{0, 1, 2}, 1, false, []uint{2, 1, 3}},
		{"up last", []int{0, 1, 2}, 3, true, []uint{1, 3, 2}},
		{"up first is noop", []int{0, 1}, 1, true, []uint{1, 2}},
		{"down last is noop", []int{0, 1}, 2, false, []uint{1, 2}},
		{"equal positions sort by id", []int{0, 0, 0}, 3, true, []uint{1, 3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := categories(t, tt.positions...)
			_, found := Move(list, tt.id, tt.up)
			require.True(t, found)
			assert.Equal(t, tt.want, ids(list))
			for i, c := range list {
				assert.Equal(t, i, c.Position())
			}
		})
	}
}

func TestMove_ReportsChanged(t *testing.T) {
	list := categories(t, 0, 1, 2)
	changed, _ := Move(list, 2, false)
	assert.Len(t, changed, 2)

	changed, _ = Move(list, 1, true)
	assert.Empty(t, changed)

	_, found := Move(list, 99, true)
	assert.False(t, found)
}

func TestNextPosition(t *testing.T) {
	assert.Equal(t, 0, NextPosition([]*Category{}))
	assert.Equal(t, 6, NextPosition(categories(t, 2, 5, 0)))
}
