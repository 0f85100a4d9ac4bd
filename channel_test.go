package livemodel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/livemodel"
)

func newChannel(t *testing.T, opts ...livemodel.Option[*item]) *livemodel.Channel[*item, string] {
	t.Helper()
	reg := livemodel.NewRegistry[*item, string](opts...)
	ch, err := reg.Get("sku-1")
	require.NoError(t, err)
	return ch
}

func TestChannel_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("replays current value then live values", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

		rec := &recorder{}
		sub, err := ch.Subscribe(rec)
		require.NoError(t, err)
		defer sub.Cancel()

		assert.Equal(t, []int{1}, rec.stocks())

		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))
		assert.Equal(t, []int{1, 2}, rec.stocks())
	})

	t.Run("no replay on empty channel", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		rec := &recorder{}
		_, err := ch.SubscribeFunc(rec.OnNext)
		require.NoError(t, err)

		assert.Empty(t, rec.all())
		assert.Equal(t, 1, ch.SubscriberCount())

		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 7}))
		assert.Equal(t, []int{7}, rec.stocks())
	})

	t.Run("nil observer", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		_, err := ch.Subscribe(nil)
		assert.ErrorIs(t, err, livemodel.ErrInvalidArgument)

		var rec *recorder
		_, err = ch.Subscribe(rec)
		assert.ErrorIs(t, err, livemodel.ErrInvalidArgument)

		_, err = ch.SubscribeFunc(nil)
		assert.ErrorIs(t, err, livemodel.ErrInvalidArgument)
	})

	t.Run("every subscriber sees the same order", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		a, b := &recorder{}, &recorder{}
		_, err := ch.Subscribe(a)
		require.NoError(t, err)
		_, err = ch.Subscribe(b)
		require.NoError(t, err)

		for i := 1; i <= 5; i++ {
			require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: i}))
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5}, a.stocks())
		assert.Equal(t, a.stocks(), b.stocks())
	})
}

func TestChannel_Cancel(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	rec := &recorder{}
	sub, err := ch.Subscribe(rec)
	require.NoError(t, err)

	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))
	sub.Cancel()
	sub.Cancel()
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))

	assert.Equal(t, []int{1}, rec.stocks())
	assert.Equal(t, 0, ch.SubscriberCount())
}

func TestChannel_Publish(t *testing.T) {
	t.Parallel()

	t.Run("sequential publishes are observed in order", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		rec := &recorder{}
		_, err := ch.Subscribe(rec)
		require.NoError(t, err)

		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))

		assert.Equal(t, []int{1, 2}, rec.stocks())
		v, ok := ch.Value()
		require.True(t, ok)
		assert.Equal(t, 2, v.Stock)
	})

	t.Run("equal value is not republished", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		rec := &recorder{}
		_, err := ch.Subscribe(rec)
		require.NoError(t, err)

		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Name: "Widget", Stock: 1}))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Name: "Widget", Stock: 1}))

		assert.Len(t, rec.all(), 1)
	})

	t.Run("foreign identifier is rejected", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

		rec := &recorder{}
		_, err := ch.Subscribe(rec)
		require.NoError(t, err)

		err = ch.Publish(&item{SKU: "sku-2", Stock: 9})
		assert.ErrorIs(t, err, livemodel.ErrIdentifierMismatch)

		v, _ := ch.Value()
		assert.Equal(t, 1, v.Stock)
		assert.Equal(t, []int{1}, rec.stocks())
	})

	t.Run("nil model is rejected", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		assert.ErrorIs(t, ch.Publish(nil), livemodel.ErrInvalidArgument)
		_, ok := ch.Value()
		assert.False(t, ok)
	})

	t.Run("emit is publish", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t)
		var sink livemodel.Sink[*item] = ch
		require.NoError(t, sink.Emit(&item{SKU: "sku-1", Stock: 3}))

		v, ok := ch.Value()
		require.True(t, ok)
		assert.Equal(t, 3, v.Stock)
	})
}

func TestChannel_CompleteAndFail(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

	assert.ErrorIs(t, ch.Complete(), livemodel.ErrUnsupportedOperation)
	assert.ErrorIs(t, ch.Fail(assert.AnError), livemodel.ErrUnsupportedOperation)

	// The channel keeps working.
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))
	v, _ := ch.Value()
	assert.Equal(t, 2, v.Stock)
}

func TestChannel_Coalescer(t *testing.T) {
	t.Parallel()

	t.Run("merge non zero keeps omitted fields", func(t *testing.T) {
		t.Parallel()

		ch := newChannel(t, livemodel.WithCoalescer(livemodel.MergeNonZero[*item]()))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Name: "Widget", Stock: 1}))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 4}))

		v, _ := ch.Value()
		assert.Equal(t, &item{SKU: "sku-1", Name: "Widget", Stock: 4}, v)
	})

	t.Run("coalesced result equal to current is dropped", func(t *testing.T) {
		t.Parallel()

		keep := livemodel.CoalescerFunc[*item](func(_, current *item) *item { return current })
		ch := newChannel(t, livemodel.WithCoalescer[*item](keep))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

		rec := &recorder{}
		_, err := ch.Subscribe(rec)
		require.NoError(t, err)

		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))
		assert.Equal(t, []int{1}, rec.stocks())
	})

	t.Run("identity violation", func(t *testing.T) {
		t.Parallel()

		bad := livemodel.CoalescerFunc[*item](func(incoming, _ *item) *item {
			return &item{SKU: "other", Stock: incoming.Stock}
		})
		ch := newChannel(t, livemodel.WithCoalescer[*item](bad))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

		err := ch.Publish(&item{SKU: "sku-1", Stock: 2})
		assert.ErrorIs(t, err, livemodel.ErrCoalescingIdentityViolation)

		v, _ := ch.Value()
		assert.Equal(t, 1, v.Stock)
	})

	t.Run("nil result is an identity violation", func(t *testing.T) {
		t.Parallel()

		nilResult := livemodel.CoalescerFunc[*item](func(_, _ *item) *item { return nil })
		ch := newChannel(t, livemodel.WithCoalescer[*item](nilResult))
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

		err := ch.Publish(&item{SKU: "sku-1", Stock: 2})
		assert.ErrorIs(t, err, livemodel.ErrCoalescingIdentityViolation)
	})
}

func TestChannel_CustomEquality(t *testing.T) {
	t.Parallel()

	sameStock := func(a, b *item) bool { return a.Stock == b.Stock }
	ch := newChannel(t, livemodel.WithEquality[*item](sameStock))

	rec := &recorder{}
	_, err := ch.Subscribe(rec)
	require.NoError(t, err)

	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Name: "a", Stock: 1}))
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Name: "b", Stock: 1}))

	assert.Len(t, rec.all(), 1)
	v, _ := ch.Value()
	assert.Equal(t, "a", v.Name)
}

func TestChannel_ReentrantObserver(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	rec := &recorder{}
	nested := &recorder{}

	// Bumps stock once from inside the observer; the nested value must be
	// delivered after the current one, not in the middle of it.
	var once sync.Once
	_, err := ch.SubscribeFunc(func(v *item) {
		rec.OnNext(v)
		once.Do(func() {
			assert.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: v.Stock + 1}))
			_, err := ch.Subscribe(nested)
			assert.NoError(t, err)
		})
	})
	require.NoError(t, err)

	other := &recorder{}
	_, err = ch.Subscribe(other)
	require.NoError(t, err)

	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))

	assert.Equal(t, []int{1, 2}, rec.stocks())
	assert.Equal(t, []int{1, 2}, other.stocks())
	assert.Equal(t, []int{2}, nested.stocks(), "joined after 2 was accepted, so only its replay")
	assert.Equal(t, 3, ch.SubscriberCount())
}

func TestChannel_SubscribeWhileDelivering(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	_, err := ch.SubscribeFunc(func(v *item) {
		if v.Stock == 1 {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
	})
	require.NoError(t, err)

	published := make(chan error, 1)
	go func() {
		published <- ch.Publish(&item{SKU: "sku-1", Stock: 1})
	}()
	<-entered

	// Another goroutine is delivering 1, so these are only queued.
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))

	late := &recorder{}
	subscribed := make(chan struct{})
	go func() {
		defer close(subscribed)
		_, err := ch.Subscribe(late)
		assert.NoError(t, err)
	}()
	<-subscribed
	assert.Empty(t, late.all(), "replay waits behind the delivery in flight")

	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 3}))

	close(release)
	require.NoError(t, <-published)

	assert.Equal(t, []int{2, 3}, late.stocks())
}

func TestChannel_CancelFromObserver(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	rec := &recorder{}

	var sub *livemodel.Subscription
	var err error
	sub, err = ch.SubscribeFunc(func(v *item) {
		rec.OnNext(v)
		sub.Cancel()
	})
	require.NoError(t, err)

	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))
	require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 2}))

	assert.Equal(t, []int{1}, rec.stocks())
}

func TestChannel_ObserverPanic(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	_, err := ch.SubscribeFunc(func(*item) { panic("boom") })
	require.NoError(t, err)

	rec := &recorder{}
	_, err = ch.Subscribe(rec)
	require.NoError(t, err)

	require.NotPanics(t, func() {
		require.NoError(t, ch.Publish(&item{SKU: "sku-1", Stock: 1}))
	})
	assert.Equal(t, []int{1}, rec.stocks())
}

func TestChannel_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	ch := newChannel(t)
	rec := &recorder{}
	_, err := ch.Subscribe(rec)
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(stock int) {
			defer wg.Done()
			fut, err := ch.Ingest(context.Background(), livemodel.Just(&item{SKU: "sku-1", Stock: stock}))
			if err == nil {
				_ = fut.Await()
			}
		}(i)
	}
	wg.Wait()

	got := rec.stocks()
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), writers)

	v, _ := ch.Value()
	assert.Equal(t, v.Stock, got[len(got)-1], "last delivered value is the current value")
	for i := 1; i < len(got); i++ {
		assert.NotEqual(t, got[i-1], got[i], "no consecutive duplicates")
	}
}
