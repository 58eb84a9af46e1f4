package fxrates

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
	got     [][]string
	mu      sync.Mutex
}

func (p *countingProvider) Rates(_ context.Context, base string, currencies []string) (RateTable, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.got = append(p.got, append([]string{base}, currencies...))
	p.mu.Unlock()
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return nil, p.err
	}
	table := RateTable{}
	for _, c := range currencies {
		table[c] = 2
	}
	return table, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCachedProvider_ReusesWithinTTL(t *testing.T) {
	next := &countingProvider{}
	clock := newClock()
	c := NewCachedProvider(next, time.Hour, logging.NewMockLogger(), WithClock(clock.Now))
	ctx := context.Background()

	_, err := c.Rates(ctx, "USD", []string{"EUR", "GBP"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	rates, err := c.Rates(ctx, "usd", []string{"GBP", "eur", "EUR"})
	require.NoError(t, err)
	assert.Equal(t, RateTable{"EUR": 2, "GBP": 2}, rates)
	assert.Equal(t, int32(1), next.calls.Load(), "same base and currency set within TTL")

	clock.Advance(time.Second)
	_, err = c.Rates(ctx, "USD", []string{"EUR", "GBP"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load(), "expired entry is refetched")
}

func TestCachedProvider_KeyIncludesCurrencySet(t *testing.T) {
	next := &countingProvider{}
	c := NewCachedProvider(next, time.Hour, logging.NewMockLogger(), WithClock(newClock().Now))
	ctx := context.Background()

	_, err := c.Rates(ctx, "USD", []string{"EUR"})
	require.NoError(t, err)
	_, err = c.Rates(ctx, "USD", []string{"EUR", "GBP"})
	require.NoError(t, err)
	_, err = c.Rates(ctx, "EUR", []string{"EUR"})
	require.NoError(t, err)

	assert.Equal(t, int32(3), next.calls.Load())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"USD", "EUR", "GBP"}, next.got[1])
}

func TestCachedProvider_DoesNotCacheFailures(t *testing.T) {
	boom := &RateUnavailableError{Base: "USD", Err: errors.New("offline")}
	next := &countingProvider{err: boom}
	c := NewCachedProvider(next, time.Hour, logging.NewMockLogger(), WithClock(newClock().Now))

	for i := 0; i < 2; i++ {
		_, err := c.Rates(context.Background(), "USD", []string{"EUR"})
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCachedProvider_ReturnsCopies(t *testing.T) {
	c := NewCachedProvider(&countingProvider{}, time.Hour, logging.NewMockLogger(), WithClock(newClock().Now))

	first, err := c.Rates(context.Background(), "USD", []string{"EUR"})
	require.NoError(t, err)
	first["EUR"] = 100

	second, err := c.Rates(context.Background(), "USD", []string{"EUR"})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, second["EUR"], 1e-9)
}

func TestCachedProvider_CollapsesConcurrentMisses(t *testing.T) {
	next := &countingProvider{release: make(chan struct{})}
	c := NewCachedProvider(next, time.Hour, logging.NewMockLogger(), WithClock(newClock().Now))

	const callers = 8
	var wg sync.WaitGroup
	results := make([]RateTable, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Rates(context.Background(), "USD", []string{"EUR"})
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(next.release)
	wg.Wait()

	assert.Equal(t, int32(1), next.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, RateTable{"EUR": 2}, results[i])
	}
}
