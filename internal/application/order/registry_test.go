package order_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/application/order"
	"github.com/turtacn/titleorder/internal/testutil"
	"github.com/turtacn/titleorder/pkg/errors"
)

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
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := order.NewRegistry(&testutil.FakeTransport{}, time.Hour)
	o := r.Create()
	require.NotEmpty(t, o.ID())
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(o.ID())
	require.NoError(t, err)
	assert.Same(t, o, got)

	require.NoError(t, o.SetMatter("MAT-001"))
	assert.True(t, r.Delete(o.ID()))
	assert.False(t, r.Delete(o.ID()))
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, o.Snapshot().MatterReference)

	_, err = r.Get(o.ID())
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestRegistry_SweepExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	r := order.NewRegistry(&testutil.FakeTransport{}, 30*time.Minute, order.WithClock(clock.Now))

	idle := r.Create()
	busy := r.Create()
	clock.Advance(20 * time.Minute)
	_, err := r.Get(busy.ID())
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID())
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	_, err = r.Get(busy.ID())
	assert.NoError(t, err)
}

func TestRegistry_NonPositiveTTLDisablesExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	r := order.NewRegistry(&testutil.FakeTransport{}, 0, order.WithClock(clock.Now))
	r.Create()
	clock.Advance(48 * time.Hour)
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := order.NewRegistry(&testutil.FakeTransport{}, time.Nanosecond)
	r.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
