package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOutputStoreContract runs a suite of tests to verify that an OutputStore
// implementation adheres to the defined interface contract.
func RunOutputStoreContract(t *testing.T, store OutputStore) {
	ctx := context.Background()
	page := "contract-page-" + time.Now().Format("20060102150405")

	record := func(scene int, language string) *domain.Record {
		return &domain.Record{
			Page:      page,
			Scene:     scene,
			Language:  language,
			StorageID: "storage-" + language,
			Output: domain.Output{
				{Text: "hi", StartMs: 0, DurationMs: domain.UnknownDuration},
				{Text: "there", StartMs: 400, DurationMs: 250},
			},
			RenderedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		rec := record(0, "en")
		require.NoError(t, store.Save(ctx, rec), "Save should not return error")

		loaded, err := store.Load(ctx, page, 0, "en")
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.StorageID, loaded.StorageID)
		assert.Equal(t, rec.Output, loaded.Output)
		// The unknown-duration sentinel must survive persistence.
		assert.Equal(t, domain.UnknownDuration, loaded.Output[0].DurationMs)
		assert.True(t, rec.RenderedAt.Equal(loaded.RenderedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, page, 99, "xx")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		rec := record(0, "en")
		rec.StorageID = "replaced"
		require.NoError(t, store.Save(ctx, rec))

		loaded, err := store.Load(ctx, page, 0, "en")
		require.NoError(t, err)
		assert.Equal(t, "replaced", loaded.StorageID)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record(1, "fr")))
		require.NoError(t, store.Save(ctx, record(1, "en")))
		require.NoError(t, store.Save(ctx, record(0, "fr")))

		records, err := store.List(ctx, page)
		require.NoError(t, err)
		require.Len(t, records, 4)

		keys := make([]string, len(records))
		for i, r := range records {
			keys[i] = r.Language + "@" + string(rune('0'+r.Scene))
		}
		assert.Equal(t, []string{"en@0", "fr@0", "en@1", "fr@1"}, keys)

		others, err := store.List(ctx, page+"-other")
		require.NoError(t, err)
		assert.Empty(t, others)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, page), "Delete should not return error")

		_, err := store.Load(ctx, page, 0, "en")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound, "Load after Delete should return ErrRecordNotFound")

		records, err := store.List(ctx, page)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
