package dismissed

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/store/duckdb"
)

func setupStore(t *testing.T) (Store, *sql.DB) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return s, db
}

func TestDismissedStore_AddAndList(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "home", "Open Firewall Rule|allow-everything|0"))
	require.NoError(t, s.Add(ctx, "home", "Unused Switch Port|office-switch|7"))
	require.NoError(t, s.Add(ctx, "office", "Open Firewall Rule|temp|0"))

	keys, err := s.List(ctx, "home")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Open Firewall Rule|allow-everything|0",
		"Unused Switch Port|office-switch|7",
	}, keys)
}

func TestDismissedStore_AddIsIdempotent(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "home", "Open Firewall Rule|allow-everything|0"))
	require.NoError(t, s.Add(ctx, "home", "Open Firewall Rule|allow-everything|0"))

	keys, err := s.List(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestDismissedStore_Remove(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "home", "key-1"))
	require.NoError(t, s.Remove(ctx, "home", "key-1"))
	// Removing an absent key is not an error.
	require.NoError(t, s.Remove(ctx, "home", "key-2"))

	keys, err := s.List(ctx, "home")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestDismissedStore_ClearIsSiteScoped(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "home", "key-1"))
	require.NoError(t, s.Add(ctx, "home", "key-2"))
	require.NoError(t, s.Add(ctx, "office", "key-1"))

	require.NoError(t, s.Clear(ctx, "home"))

	homeKeys, err := s.List(ctx, "home")
	require.NoError(t, err)
	assert.Empty(t, homeKeys)

	officeKeys, err := s.List(ctx, "office")
	require.NoError(t, err)
	assert.Len(t, officeKeys, 1)
}

func TestDismissedStore_ListDetailed(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "home", "key-1"))

	detailed, err := s.ListDetailed(ctx, "home")
	require.NoError(t, err)
	require.Len(t, detailed, 1)
	assert.Equal(t, "home", detailed[0].SiteID)
	assert.Equal(t, "key-1", detailed[0].IssueKey)
	assert.False(t, detailed[0].DismissedAt.IsZero())
}

func TestNewStore_NilDB(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
