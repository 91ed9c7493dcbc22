package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutAndLoadRoundTrip(t *testing.T) {
	c := openTestCache(t)

	items := []testItem{
		{ID: "v1", Name: "Asha"},
		{ID: "v2", Name: "Ravi"},
	}
	require.NoError(t, Put(c, "volunteers", items, func(i testItem) string { return i.ID }))

	loaded, err := Load[testItem](c, "volunteers")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestPutReplacesPriorSnapshot(t *testing.T) {
	c := openTestCache(t)

	first := []testItem{{ID: "v1", Name: "Asha"}, {ID: "v2", Name: "Ravi"}}
	require.NoError(t, Put(c, "volunteers", first, func(i testItem) string { return i.ID }))

	second := []testItem{{ID: "v3", Name: "Mira"}}
	require.NoError(t, Put(c, "volunteers", second, func(i testItem) string { return i.ID }))

	loaded, err := Load[testItem](c, "volunteers")
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestResourcesAreIndependent(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, Put(c, "volunteers", []testItem{{ID: "v1"}}, func(i testItem) string { return i.ID }))
	require.NoError(t, Put(c, "donations", []testItem{{ID: "d1"}}, func(i testItem) string { return i.ID }))

	volunteers, err := Load[testItem](c, "volunteers")
	require.NoError(t, err)
	donations, err := Load[testItem](c, "donations")
	require.NoError(t, err)

	assert.Len(t, volunteers, 1)
	assert.Len(t, donations, 1)
	assert.Equal(t, "v1", volunteers[0].ID)
	assert.Equal(t, "d1", donations[0].ID)
}

func TestFetchedAt(t *testing.T) {
	c := openTestCache(t)

	ts, err := c.FetchedAt("volunteers")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	require.NoError(t, Put(c, "volunteers", []testItem{{ID: "v1"}}, func(i testItem) string { return i.ID }))

	ts, err = c.FetchedAt("volunteers")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestLoadEmptySnapshot(t *testing.T) {
	c := openTestCache(t)

	loaded, err := Load[testItem](c, "volunteers")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
