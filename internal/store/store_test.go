package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectionFactories(t *testing.T) map[string]func() Collection {
	t.Helper()
	sqliteStore, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]func() Collection{
		"memory": func() Collection { return NewMemoryStore().Collection("players") },
		"sqlite": func() Collection { return sqliteStore.Collection("players") },
	}
}

func TestCollectionPutGetRoundTrip(t *testing.T) {
	for name, factory := range collectionFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := factory()
			ctx := context.Background()
			require.NoError(t, c.Put(ctx, "JS1", map[string]any{"name": "Jane Smith", "approved": true}))

			doc, found, err := c.Get(ctx, "JS1")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "Jane Smith", doc["name"])
			assert.Equal(t, true, doc["approved"])
		})
	}
}

func TestCollectionGetMissingReturnsNotFound(t *testing.T) {
	for name, factory := range collectionFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := factory()
			_, found, err := c.Get(context.Background(), "missing")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCollectionPutOverwritesExisting(t *testing.T) {
	for name, factory := range collectionFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := factory()
			ctx := context.Background()
			require.NoError(t, c.Put(ctx, "JS1", map[string]any{"name": "Jane"}))
			require.NoError(t, c.Put(ctx, "JS1", map[string]any{"name": "Jane Smith"}))

			doc, _, err := c.Get(ctx, "JS1")
			require.NoError(t, err)
			assert.Equal(t, "Jane Smith", doc["name"])
		})
	}
}

func TestCollectionDeleteRemovesDocument(t *testing.T) {
	for name, factory := range collectionFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := factory()
			ctx := context.Background()
			require.NoError(t, c.Put(ctx, "JS1", map[string]any{"name": "Jane"}))
			require.NoError(t, c.Delete(ctx, "JS1"))

			_, found, err := c.Get(ctx, "JS1")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCollectionListReturnsAllDocuments(t *testing.T) {
	for name, factory := range collectionFactories(t) {
		t.Run(name, func(t *testing.T) {
			c := factory()
			ctx := context.Background()
			require.NoError(t, c.Put(ctx, "a", map[string]any{"name": "A"}))
			require.NoError(t, c.Put(ctx, "b", map[string]any{"name": "B"}))

			docs, err := c.List(ctx)
			require.NoError(t, err)
			assert.Len(t, docs, 2)
		})
	}
}

func TestTenantCollectionNameFormat(t *testing.T) {
	assert.Equal(t, "kickai_TEAM1_players", TenantCollectionName("TEAM1", PlayersSuffix))
	assert.Equal(t, "kickai_TEAM1_attendance", TenantCollectionName("TEAM1", AttendanceSuffix))
}
