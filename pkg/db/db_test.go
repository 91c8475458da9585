package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcusziade/maykott/pkg/content"
)

var testRules = content.Rules{AllowedImageHosts: []string{"images.unsplash.com", "lh3.googleusercontent.com", "plus.unsplash.com"}}

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	d, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.InitSchema())
	return d
}

func TestSaveCatalog(t *testing.T) {
	ctx := context.Background()
	catalog, err := content.Default(testRules)
	require.NoError(t, err)
	d := openTestDB(t, ":memory:")

	written := 0
	counts, err := d.SaveCatalog(ctx, catalog, func() { written++ })
	require.NoError(t, err)
	assert.Equal(t, Counts{Subsidiaries: 8, Leaders: 6, Insights: 6}, counts)
	assert.Equal(t, counts.Total(), written)

	stored, err := d.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, stored)

	subsidiaries, err := d.ListSubsidiaries(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(catalog.Subsidiaries.All(), subsidiaries); diff != "" {
		t.Errorf("stored subsidiaries mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveCatalogReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	full, err := content.Default(testRules)
	require.NoError(t, err)
	d := openTestDB(t, path)
	_, err = d.SaveCatalog(ctx, full, nil)
	require.NoError(t, err)

	seed, err := content.Load(content.EmbeddedFS())
	require.NoError(t, err)
	seed.Subsidiaries = seed.Subsidiaries[:2]
	smaller, err := content.NewCatalog(seed, testRules)
	require.NoError(t, err)
	_, err = d.SaveCatalog(ctx, smaller, nil)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	reopened := openTestDB(t, path)
	counts, err := reopened.CountRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Subsidiaries: 2, Leaders: 6, Insights: 6}, counts)

	subsidiaries, err := reopened.ListSubsidiaries(ctx)
	require.NoError(t, err)
	require.Len(t, subsidiaries, 2)
	assert.Equal(t, []int{1, 2, 2, 3, 4}, subsidiaries[0].Trend)
}

func TestSaveCatalogCancelled(t *testing.T) {
	catalog, err := content.Default(testRules)
	require.NoError(t, err)
	d := openTestDB(t, ":memory:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.SaveCatalog(ctx, catalog, nil)
	require.Error(t, err)

	counts, err := d.CountRows(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counts.Total())
}
