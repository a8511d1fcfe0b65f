package mrr

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockNonce_Format(t *testing.T) {
	fixed := time.Unix(1700000000, 1000)
	src := NewClockNonce(func() time.Time { return fixed })

	assert.Equal(t, "1700000000.000001", src.Next())
}

func TestClockNonce_StrictlyIncreasingOnFrozenClock(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	src := NewClockNonce(func() time.Time { return fixed })

	assert.Equal(t, "1700000000.000000", src.Next())
	assert.Equal(t, "1700000000.000001", src.Next())
	assert.Equal(t, "1700000000.000002", src.Next())
}

func TestClockNonce_ClockStepsBackwards(t *testing.T) {
	times := []time.Time{
		time.Unix(1700000010, 0),
		time.Unix(1700000000, 0),
	}
	i := 0
	src := NewClockNonce(func() time.Time {
		now := times[i]
		if i < len(times)-1 {
			i++
		}
		return now
	})

	first := src.Next()
	second := src.Next()
	assert.Equal(t, "1700000010.000000", first)
	assert.Equal(t, "1700000010.000001", second)
}

func TestClockNonce_UniqueUnderConcurrency(t *testing.T) {
	src := NewClockNonce(nil)

	const workers, perWorker = 8, 250
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				n := src.Next()
				mu.Lock()
				seen[n] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestClockNonce_BackToBackDiffer(t *testing.T) {
	src := NewClockNonce(nil)

	a, b := src.Next(), src.Next()
	require.NotEqual(t, a, b)

	fa, err := strconv.ParseFloat(a, 64)
	require.NoError(t, err)
	fb, err := strconv.ParseFloat(b, 64)
	require.NoError(t, err)
	assert.Greater(t, fb, fa)
}
