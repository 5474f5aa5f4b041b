package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/folio/internal/domain/auth"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestPrincipalStore_SaveGetDelete(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewPrincipalStore(c.now)
	ctx := context.Background()

	p := domainauth.Principal{ID: "anon-1", Anonymous: true, ExpiresAt: c.t.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Get(ctx, "anon-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, store.Delete(ctx, "anon-1"))
	_, err = store.Get(ctx, "anon-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrincipalStore_Expiry(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewPrincipalStore(c.now)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Principal{ID: "u", ExpiresAt: c.t.Add(time.Minute)}))
	c.t = c.t.Add(2 * time.Minute)

	_, err := store.Get(ctx, "u")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Save(ctx, domainauth.Principal{ID: "late", ExpiresAt: c.t.Add(-time.Second)})
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, domainauth.Principal{ExpiresAt: c.t.Add(time.Hour)}))
}

func TestPrincipalStore_SaveSweepsExpired(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewPrincipalStore(c.now)
	ctx := context.Background()

	for i := range 1000 {
		p := domainauth.Principal{ID: fmt.Sprintf("anon-%d", i), Anonymous: true, ExpiresAt: c.t.Add(time.Hour)}
		require.NoError(t, store.Save(ctx, p))
	}
	require.Equal(t, 1000, store.Len())

	c.t = c.t.Add(48 * time.Hour)
	require.NoError(t, store.Save(ctx, domainauth.Principal{ID: "fresh", ExpiresAt: c.t.Add(time.Hour)}))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.ID)
}

func TestPrincipalStore_SweepIsAmortized(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewPrincipalStore(c.now)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Principal{ID: "short", ExpiresAt: c.t.Add(time.Second)}))
	c.t = c.t.Add(2 * time.Second)
	require.NoError(t, store.Save(ctx, domainauth.Principal{ID: "a", ExpiresAt: c.t.Add(time.Hour)}))
	assert.Equal(t, 2, store.Len(), "no sweep until the interval elapses")

	c.t = c.t.Add(sweepInterval)
	require.NoError(t, store.Save(ctx, domainauth.Principal{ID: "b", ExpiresAt: c.t.Add(time.Hour)}))
	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenLedger_RedeemOnce(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	ledger := NewTokenLedger(c.now)
	ctx := context.Background()

	ok, err := ledger.Redeem(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Redeem(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	c.t = c.t.Add(2 * time.Hour)
	ok, err = ledger.Redeem(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "entries are forgotten after their ttl")

	_, err = ledger.Redeem(ctx, "", time.Hour)
	assert.Error(t, err)
}
