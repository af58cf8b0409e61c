package tests

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
)

func RunTests(t *testing.T, s pool.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s pool.Store){
		testHappyPath,
		testDuplicateCreate,
		testUnderflow,
		testOverflow,
		testNotFound,
		testConcurrentDeltas,
	} {
		tf(t, s)
		teardown()
	}
}

func testHappyPath(t *testing.T, s pool.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		ctx := context.Background()

		start := time.Now()

		expected := &pool.Record{
			Address:   "pool",
			Bump:      254,
			Mint:      "mint",
			Authority: "authority",

			// Ignored on create
			TotalStaked: 1000,
		}

		require.NoError(t, s.Create(ctx, expected))
		assert.True(t, expected.Id > 0)
		assert.EqualValues(t, 0, expected.TotalStaked)
		assert.True(t, expected.CreatedAt.After(start))
		assert.True(t, expected.LastUpdatedAt.After(start))
		assert.True(t, expected.LastDepositAt.IsZero())
		cloned := expected.Clone()

		actual, err := s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)

		actual, err = s.GetByMint(ctx, expected.Mint)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)

		actual, err = s.ApplyDelta(ctx, expected.Address, 100)
		require.NoError(t, err)
		assert.EqualValues(t, 100, actual.TotalStaked)
		assert.False(t, actual.LastUpdatedAt.Before(cloned.LastUpdatedAt))
		assert.False(t, actual.LastDepositAt.IsZero())
		assert.False(t, actual.LastDepositAt.Before(cloned.CreatedAt))

		actual, err = s.ApplyDelta(ctx, expected.Address, 50)
		require.NoError(t, err)
		assert.EqualValues(t, 150, actual.TotalStaked)
		lastDepositAt := actual.LastDepositAt

		// Withdrawals leave the last deposit time untouched
		actual, err = s.ApplyDelta(ctx, expected.Address, -150)
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.TotalStaked)
		assert.True(t, lastDepositAt.Equal(actual.LastDepositAt))

		actual, err = s.Get(ctx, expected.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.TotalStaked)
		assert.Equal(t, cloned.Mint, actual.Mint)
		assert.Equal(t, cloned.Authority, actual.Authority)
		assert.Equal(t, cloned.Bump, actual.Bump)
		assert.True(t, lastDepositAt.Equal(actual.LastDepositAt))
	})
}

func testDuplicateCreate(t *testing.T, s pool.Store) {
	t.Run("testDuplicateCreate", func(t *testing.T) {
		ctx := context.Background()

		original := &pool.Record{
			Address:   "pool",
			Bump:      255,
			Mint:      "mint",
			Authority: "authority",
		}
		require.NoError(t, s.Create(ctx, original))

		_, err := s.ApplyDelta(ctx, original.Address, 10)
		require.NoError(t, err)

		sameAddress := &pool.Record{
			Address:   "pool",
			Bump:      255,
			Mint:      "other_mint",
			Authority: "other_authority",
		}
		assert.Equal(t, pool.ErrPoolAlreadyExists, s.Create(ctx, sameAddress))

		sameMint := &pool.Record{
			Address:   "other_pool",
			Bump:      255,
			Mint:      "mint",
			Authority: "other_authority",
		}
		assert.Equal(t, pool.ErrPoolAlreadyExists, s.Create(ctx, sameMint))

		// The existing pool is left untouched
		actual, err := s.Get(ctx, original.Address)
		require.NoError(t, err)
		assert.Equal(t, "authority", actual.Authority)
		assert.EqualValues(t, 10, actual.TotalStaked)

		_, err = s.Get(ctx, sameMint.Address)
		assert.Equal(t, pool.ErrPoolNotFound, err)
	})
}

func testUnderflow(t *testing.T, s pool.Store) {
	t.Run("testUnderflow", func(t *testing.T) {
		ctx := context.Background()

		record := &pool.Record{
			Address:   "pool",
			Mint:      "mint",
			Authority: "authority",
		}
		require.NoError(t, s.Create(ctx, record))

		_, err := s.ApplyDelta(ctx, record.Address, -1)
		assert.Equal(t, pool.ErrUnderflow, err)

		_, err = s.ApplyDelta(ctx, record.Address, 100)
		require.NoError(t, err)

		_, err = s.ApplyDelta(ctx, record.Address, -101)
		assert.Equal(t, pool.ErrUnderflow, err)

		_, err = s.ApplyDelta(ctx, record.Address, math.MinInt64)
		assert.Equal(t, pool.ErrUnderflow, err)

		actual, err := s.Get(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, 100, actual.TotalStaked)
	})
}

func testOverflow(t *testing.T, s pool.Store) {
	t.Run("testOverflow", func(t *testing.T) {
		ctx := context.Background()

		record := &pool.Record{
			Address:   "pool",
			Mint:      "mint",
			Authority: "authority",
		}
		require.NoError(t, s.Create(ctx, record))

		for i := 0; i < 2; i++ {
			_, err := s.ApplyDelta(ctx, record.Address, math.MaxInt64)
			require.NoError(t, err)
		}

		actual, err := s.ApplyDelta(ctx, record.Address, 1)
		require.NoError(t, err)
		assert.EqualValues(t, uint64(math.MaxUint64), actual.TotalStaked)

		_, err = s.ApplyDelta(ctx, record.Address, 1)
		assert.Equal(t, pool.ErrOverflow, err)

		actual, err = s.Get(ctx, record.Address)
		require.NoError(t, err)
		assert.EqualValues(t, uint64(math.MaxUint64), actual.TotalStaked)

		actual, err = s.ApplyDelta(ctx, record.Address, -1)
		require.NoError(t, err)
		assert.EqualValues(t, uint64(math.MaxUint64-1), actual.TotalStaked)
	})
}

func testNotFound(t *testing.T, s pool.Store) {
	t.Run("testNotFound", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.Get(ctx, "pool")
		assert.Equal(t, pool.ErrPoolNotFound, err)

		_, err = s.GetByMint(ctx, "mint")
		assert.Equal(t, pool.ErrPoolNotFound, err)

		_, err = s.ApplyDelta(ctx, "pool", 1)
		assert.Equal(t, pool.ErrPoolNotFound, err)

		_, err = s.ApplyDelta(ctx, "pool", -1)
		assert.Equal(t, pool.ErrPoolNotFound, err)

		assert.Error(t, s.Create(ctx, &pool.Record{Address: "pool"}))
	})
}

func testConcurrentDeltas(t *testing.T, s pool.Store) {
	t.Run("testConcurrentDeltas", func(t *testing.T) {
		ctx := context.Background()

		for i := 0; i < 2; i++ {
			require.NoError(t, s.Create(ctx, &pool.Record{
				Address:   fmt.Sprintf("pool%d", i),
				Mint:      fmt.Sprintf("mint%d", i),
				Authority: "authority",
			}))
		}

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			for j := 0; j < 2; j++ {
				wg.Add(1)
				go func(address string) {
					defer wg.Done()

					_, err := s.ApplyDelta(ctx, address, 3)
					assert.NoError(t, err)
				}(fmt.Sprintf("pool%d", j))
			}
		}
		wg.Wait()

		// Concurrent withdrawals may only drain what is there
		var successes int
		var successMu sync.Mutex
		for i := 0; i < 60; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, err := s.ApplyDelta(ctx, "pool0", -5)
				if err == pool.ErrUnderflow {
					return
				}
				if assert.NoError(t, err) {
					successMu.Lock()
					successes++
					successMu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 30, successes)

		actual, err := s.Get(ctx, "pool0")
		require.NoError(t, err)
		assert.EqualValues(t, 0, actual.TotalStaked)

		actual, err = s.Get(ctx, "pool1")
		require.NoError(t, err)
		assert.EqualValues(t, 150, actual.TotalStaked)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *pool.Record) {
	assert.Equal(t, obj1.Id, obj2.Id)
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Bump, obj2.Bump)
	assert.Equal(t, obj1.Mint, obj2.Mint)
	assert.Equal(t, obj1.Authority, obj2.Authority)
	assert.Equal(t, obj1.TotalStaked, obj2.TotalStaked)
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}
