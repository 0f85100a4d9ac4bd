package livemodel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/livemodel"
	"github.com/dmitrymomot/livemodel/core/config"
)

type account struct {
	ID      int64
	Balance int64
	Owner   string
}

func (a *account) ModelID() int64 { return a.ID }

func TestFor(t *testing.T) {
	t.Cleanup(livemodel.ResetAll)

	a := livemodel.For[*account, int64]()
	b := livemodel.For[*account, int64]()
	assert.Same(t, a, b)

	other := livemodel.For[*item, string]()
	assert.NotNil(t, other)
}

func TestGet_SharedAcrossCallers(t *testing.T) {
	t.Cleanup(livemodel.ResetAll)

	a, err := livemodel.Get[*account](int64(7))
	require.NoError(t, err)
	b, err := livemodel.For[*account, int64]().Get(7)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = livemodel.Get[*account](int64(0))
	assert.ErrorIs(t, err, livemodel.ErrInvalidArgument)
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		livemodel.Configure[*account, int64](livemodel.WithCoalescer(livemodel.LastWriteWins[*account]()))
		livemodel.ResetAll()
	})

	livemodel.Configure[*account, int64](livemodel.WithCoalescer(livemodel.MergeNonZero[*account]()))

	ch, err := livemodel.Get[*account](int64(1))
	require.NoError(t, err)
	require.NoError(t, ch.Publish(&account{ID: 1, Owner: "ann", Balance: 10}))
	require.NoError(t, ch.Publish(&account{ID: 1, Balance: 20}))

	v, _ := ch.Value()
	assert.Equal(t, "ann", v.Owner)
	assert.Equal(t, int64(20), v.Balance)
}

func TestResetAll(t *testing.T) {
	ch, err := livemodel.Get[*account](int64(3))
	require.NoError(t, err)
	require.NoError(t, ch.Publish(&account{ID: 3, Balance: 1}))

	livemodel.ResetAll()

	assert.ErrorIs(t, ch.Publish(&account{ID: 3, Balance: 2}), livemodel.ErrChannelClosed)

	fresh, err := livemodel.Get[*account](int64(3))
	require.NoError(t, err)
	assert.NotSame(t, ch, fresh)
	_, ok := fresh.Value()
	assert.False(t, ok)
}

func TestLoadConfig(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("LIVEMODEL_INGEST_TIMEOUT", "250ms")

	cfg, err := livemodel.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.IngestTimeout)

	reg := livemodel.NewRegistry[*item, string](livemodel.WithConfig[*item](cfg))
	ch, err := reg.Get("sku-1")
	require.NoError(t, err)
	require.NoError(t, ch.Publish(&item{SKU: "sku-1"}))
}

func TestLoadConfig_Invalid(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("LIVEMODEL_INGEST_TIMEOUT", "soon")

	_, err := livemodel.LoadConfig()
	assert.ErrorIs(t, err, config.ErrParse)
}
