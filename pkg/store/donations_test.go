package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDonationsFetchPageBareArray(t *testing.T) {
	gw := newStubGateway()
	gw.responses["/admins/donations?page=1&limit=10"] =
		`[{"id":"d1","amount":500,"subscriptionType":"ONE_TIME"},{"id":"d2","amount":1000,"subscriptionType":"MONTHLY"}]`

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(500), items[0].Amount)
	assert.Nil(t, store.Meta(), "a bare array response carries no pagination")
}

func TestDonationsBareArrayClearsPriorMeta(t *testing.T) {
	gw := newStubGateway()
	gw.responses["/admins/donations?page=1&limit=10"] =
		`{"data":[{"id":"d1","amount":500}],"meta":{"page":1,"limit":10,"totalItems":1,"totalPages":1}}`

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))
	require.NotNil(t, store.Meta())

	gw.responses["/admins/donations?page=1&limit=10"] = `[{"id":"d2","amount":250}]`
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))

	assert.Nil(t, store.Meta())
	require.Len(t, store.Items(), 1)
	assert.Equal(t, "d2", store.Items()[0].ID)
}

func TestDonationsFetchPageEnvelope(t *testing.T) {
	gw := newStubGateway()
	gw.responses["/admins/donations?page=3&limit=5"] =
		`{"data":[{"id":"d1","amount":500,"userFullName":"Donor One"}],"meta":{"page":3,"limit":5,"totalItems":11,"totalPages":3}}`

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 3, 5))

	require.Len(t, store.Items(), 1)
	assert.Equal(t, "Donor One", store.Items()[0].UserFullName)
	require.NotNil(t, store.Meta())
	assert.Equal(t, 11, store.Meta().TotalItems)
}

func TestDonationsUnrecognizedShapeYieldsEmptyListing(t *testing.T) {
	gw := newStubGateway()
	gw.responses["/admins/donations?page=1&limit=10"] = `{"unexpected":true}`

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))

	assert.Empty(t, store.Items())
	assert.Nil(t, store.Meta())
	assert.Empty(t, store.LastError())
}

func TestDonationsFetchFailureRecordsError(t *testing.T) {
	gw := newStubGateway()
	gw.err = fmt.Errorf("request failed with status 500")

	store := NewDonations(gw, zap.NewNop(), nil)
	require.Error(t, store.FetchPage(context.Background(), 1, 10))

	assert.Equal(t, "request failed with status 500", store.LastError())
	assert.False(t, store.Loading())
}

func TestUpcomingChargesProjectsMonthlyDonations(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	gw := newStubGateway()
	gw.responses["/admins/donations?page=1&limit=10"] = fmt.Sprintf(
		`[{"id":"d1","amount":1000,"subscriptionType":"MONTHLY","createdAt":%q},{"id":"d2","amount":500,"subscriptionType":"ONE_TIME","createdAt":%q}]`,
		created.Format(time.RFC3339), created.Format(time.RFC3339))

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))

	charges, err := store.UpcomingCharges(now, 3)
	require.NoError(t, err)

	// d1 charges on the 10th monthly: Apr 10, May 10, Jun 10 fall in the
	// three-month horizon. The one-time donation contributes nothing.
	require.Len(t, charges, 3)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), charges[0].Due)
	assert.Equal(t, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC), charges[2].Due)
	for _, c := range charges {
		assert.Equal(t, "d1", c.Donation.ID)
	}
}

func TestUpcomingChargesEmptyWithoutMonthlyDonations(t *testing.T) {
	gw := newStubGateway()
	gw.responses["/admins/donations?page=1&limit=10"] = `[{"id":"d1","amount":500,"subscriptionType":"ONE_TIME"}]`

	store := NewDonations(gw, zap.NewNop(), nil)
	require.NoError(t, store.FetchPage(context.Background(), 1, 10))

	charges, err := store.UpcomingCharges(time.Now(), 6)
	require.NoError(t, err)
	assert.Empty(t, charges)
}
