package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/ticketry/internal/shared/logger"
)

func TestProcessExpiredOrders_DrainsFullBatches(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	batches := []int{10, 10, 3}
	var calls int
	job := BatchJobFunc(func(context.Context) (int, error) {
		n := batches[calls]
		calls++
		return n, nil
	})

	m.processExpiredOrders(context.Background(), job, 10)
	assert.Equal(t, 3, calls)
}

func TestProcessExpiredOrders_StopsOnError(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var calls int
	job := BatchJobFunc(func(context.Context) (int, error) {
		calls++
		return 10, errors.New("database is locked")
	})

	m.processExpiredOrders(context.Background(), job, 10)
	assert.Equal(t, 1, calls)
}

func TestSchedulerManager_RunsImmediately(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, m.RegisterOrderExpiryJob(BatchJobFunc(func(context.Context) (int, error) {
		runs.Add(1)
		return 0, nil
	}), time.Hour, 100))

	m.Start()
	assert.True(t, m.IsStarted())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Shutdown())
	assert.False(t, m.IsStarted())
}
