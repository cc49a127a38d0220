package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/libretto/pkg/adapters/redis"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunOutputStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	rec := &domain.Record{Page: "ttl-page", Scene: 0, Language: "en", Output: domain.Output{{Text: "hi", DurationMs: -1}}}
	require.NoError(t, store.Save(ctx, rec))

	records, err := store.List(ctx, "ttl-page")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ttl-page", 0, "en")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	records, err = store.List(ctx, "ttl-page")
	require.NoError(t, err)
	assert.Empty(t, records, "expired records are not listed")
}

func TestRedisStore_PrefixAndPages(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Record{Page: "intro", Scene: 1, Language: "fr"}))
	assert.True(t, mr.Exists("test:output:intro:1/fr"))
	assert.True(t, mr.Exists("test:index:intro"))

	pages, err := store.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro"}, pages)

	require.NoError(t, store.Delete(ctx, "intro"))
	assert.False(t, mr.Exists("test:output:intro:1/fr"))
	assert.False(t, mr.Exists("test:index:intro"))
}
