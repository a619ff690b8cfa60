package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinical-dashboard/internal/model"
	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
	"github.com/jwalitptl/clinical-dashboard/pkg/metrics"
)

func TestStore_LoadGeneratesOnce(t *testing.T) {
	var calls int32
	m := metrics.NewNop()
	store := NewStore(logger.Nop(), m, WithGenerator(func(p Params) ([]model.AdmissionRecord, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return Generate(p)
	}))

	p := DefaultParams()
	require.False(t, store.Ready(p))

	var wg sync.WaitGroup
	results := make([][]model.AdmissionRecord, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := store.Load(context.Background(), p)
			assert.NoError(t, err)
			results[i] = table
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, store.Ready(p))
	for _, table := range results {
		assert.Len(t, table, p.Count)
		assert.Equal(t, results[0], table)
	}

	_, err := store.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatasetGenerations))
	assert.Equal(t, float64(p.Count), testutil.ToFloat64(m.DatasetRecords))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.DatasetCacheLookups.WithLabelValues("hit")), float64(1))
}

func TestStore_KeyedOnParams(t *testing.T) {
	store := NewStore(logger.Nop(), metrics.NewNop())

	a := DefaultParams()
	b := DefaultParams()
	b.Count = 10

	tableA, err := store.Load(context.Background(), a)
	require.NoError(t, err)
	tableB, err := store.Load(context.Background(), b)
	require.NoError(t, err)

	assert.Len(t, tableA, 1000)
	assert.Len(t, tableB, 10)
	assert.True(t, store.Ready(a))
	assert.True(t, store.Ready(b))
}

func TestStore_InvalidParamsFailBeforeGeneration(t *testing.T) {
	var calls int32
	store := NewStore(logger.Nop(), metrics.NewNop(), WithGenerator(func(p Params) ([]model.AdmissionRecord, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}))

	p := DefaultParams()
	p.Count = 0
	_, err := store.Load(context.Background(), p)

	require.Error(t, err)
	assert.True(t, errors.IsInvalidParameter(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestStore_CanceledContext(t *testing.T) {
	release := make(chan struct{})
	store := NewStore(logger.Nop(), metrics.NewNop(), WithGenerator(func(p Params) ([]model.AdmissionRecord, error) {
		<-release
		return Generate(p)
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx, DefaultParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Warm(t *testing.T) {
	store := NewStore(logger.Nop(), metrics.NewNop())
	p := DefaultParams()

	require.NoError(t, store.Warm(context.Background(), p))
	assert.True(t, store.Ready(p))
}
