package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elitceler/streetcause-admin/pkg/cache"
)

func TestVolunteersSnapshotRoundTrip(t *testing.T) {
	snapshot, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer snapshot.Close()

	gw := newStubGateway()
	gw.responses["/admins/get-volunteer?page=1&limit=10"] = fmt.Sprintf(
		`{"data":[%s,%s],"meta":{"page":1,"limit":10,"totalItems":2,"totalPages":1}}`,
		volunteerJSON("v1"), volunteerJSON("v2"))

	online := NewVolunteers(gw, zap.NewNop(), snapshot)
	require.NoError(t, online.FetchPage(context.Background(), 1, 10))

	// A second store, unable to reach the API, serves the snapshot instead.
	offline := NewVolunteers(newStubGateway(), zap.NewNop(), snapshot)
	require.NoError(t, offline.LoadSnapshot())

	items := offline.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "v1", items[0].ID)
	assert.Nil(t, offline.Meta(), "snapshot listings carry no pagination")
}

func TestLoadSnapshotWithoutCacheConfigured(t *testing.T) {
	store := NewVolunteers(newStubGateway(), zap.NewNop(), nil)
	assert.Error(t, store.LoadSnapshot())
}
