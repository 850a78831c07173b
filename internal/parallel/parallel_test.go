package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestMap_Sequential(t *testing.T) {
	var counter int64
	out, err := Map(context.Background(), 100, func(i int) (int, error) {
		atomic.AddInt64(&counter, 1)
		return i, nil
	}, Config{Enabled: false})
	require.NoError(t, err)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
	assert.Len(t, out, 100)
}

func TestMap_PreservesOrder(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

	out, err := Map(context.Background(), 50, func(i int) (int, error) {
		return i * i, nil
	}, cfg)
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestMap_CollectsAllErrors(t *testing.T) {
	for _, cfg := range []Config{
		{Enabled: false},
		{Enabled: true, NumWorkers: 3, MinChunkSize: 1},
	} {
		out, err := Map(context.Background(), 10, func(i int) (string, error) {
			if i%3 == 0 {
				return "", fmt.Errorf("item %d failed", i)
			}
			return fmt.Sprint(i), nil
		}, cfg)

		errs := multierr.Errors(err)
		require.Len(t, errs, 4)
		assert.EqualError(t, errs[0], "item 0 failed")
		assert.EqualError(t, errs[3], "item 9 failed")
		assert.Equal(t, "4", out[4])
	}
}

func TestMap_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	_, err := Map(ctx, 100, func(i int) (int, error) {
		atomic.AddInt64(&calls, 1)
		return i, nil
	}, Config{Enabled: false})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func BenchmarkMap(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000
	square := func(i int) (int, error) { return i * i, nil }

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Map(context.Background(), n, square, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			_, _ = Map(context.Background(), n, square, cfgSeq)
		}
	})
}
