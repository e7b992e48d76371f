package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDependsOnNameAndArgs(t *testing.T) {
	k1, err := Key("match_ids", "UEFA Women's Euro", "2022")
	require.NoError(t, err)
	k2, err := Key("match_ids", "UEFA Women's Euro", "2022")
	require.NoError(t, err)
	k3, err := Key("match_ids", "UEFA Women's Euro", "2017")
	require.NoError(t, err)
	k4, err := Key("events", "UEFA Women's Euro", "2022")
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
}

func TestDoComputesOnce(t *testing.T) {
	c := New()
	var calls int32
	compute := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Do(c, "answer", []any{1}, compute)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.Len())

	_, err := Do(c, "answer", []any{2}, compute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	fail := true
	compute := func() (string, error) {
		if fail {
			return "", boom
		}
		return "ok", nil
	}

	_, err := Do(c, "flaky", nil, compute)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	fail = false
	v, err := Do(c, "flaky", nil, compute)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestDoConcurrentCallersShareResult(t *testing.T) {
	c := New()
	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Do(c, "slow", []any{"x"}, func() ([]int, error) {
				atomic.AddInt32(&calls, 1)
				return []int{1, 2, 3}, nil
			})
			assert.NoError(t, err)
			assert.Len(t, v, 3)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
