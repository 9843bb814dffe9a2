package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/domain/setting"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

func TestEventSettingRepository_UpsertAndRead(t *testing.T) {
	repo := NewEventSettingRepository(setupTestDB(t), logger.NewNopLogger())
	ctx := context.Background()
	ns := setting.PaymentNamespace("banktransfer")

	s, err := setting.NewEventSetting(1, ns, "_fee_abs", setting.ValueTypeDecimal)
	require.NoError(t, err)
	require.NoError(t, s.SetValue("2.50"))
	require.NoError(t, repo.Upsert(ctx, s))
	require.NotZero(t, s.ID())

	loaded, err := repo.GetByKey(ctx, 1, ns, "_fee_abs")
	require.NoError(t, err)
	require.NoError(t, loaded.SetValue("3"))
	require.NoError(t, repo.Upsert(ctx, loaded))

	other, err := setting.NewEventSetting(2, ns, "_fee_abs", setting.ValueTypeDecimal)
	require.NoError(t, err)
	require.NoError(t, other.SetValue("9"))
	require.NoError(t, repo.Upsert(ctx, other))

	list, err := repo.GetByNamespace(ctx, 1, ns)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3", list[0].Value())

	sandbox := setting.NewSandbox(1, ns, list)
	assert.Equal(t, "3", sandbox.String("_fee_abs", ""))

	all, err := repo.GetByEvent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, 1, ns, "_fee_abs"))
	assert.ErrorIs(t, repo.Delete(ctx, 1, ns, "_fee_abs"), setting.ErrSettingNotFound)
	_, err = repo.GetByKey(ctx, 1, ns, "_fee_abs")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}
