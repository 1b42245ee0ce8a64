package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache() (*Manager, *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(WithClock(clk.Now)), clk
}

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache()
	c.Set("tt", []string{"a", "b"}, time.Minute)

	v, ok := c.Get("tt")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestGetAfterTTLPurgesEntry(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", 1, time.Minute)

	clk.Advance(time.Minute + time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be deleted, not hidden")

	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestGetAtExactTTLIsStillValid(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", 1, time.Minute)
	clk.Advance(time.Minute)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", "v", 0)

	clk.Advance(DefaultTTL)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clk.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestRemoveAndClear(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	c.Remove("a")
	c.Remove("missing")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	c, clk := newTestCache()
	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)

	clk.Advance(2 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("long")
	assert.True(t, ok)
}

func TestGetAs(t *testing.T) {
	c, _ := newTestCache()
	c.Set("n", 42, 0)

	n, ok := GetAs[int](c, "n")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = GetAs[string](c, "n")
	assert.False(t, ok)
}
