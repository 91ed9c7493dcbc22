package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/elitceler/streetcause-admin/pkg/cache"
	"github.com/elitceler/streetcause-admin/pkg/core/model"
)

const donationsResource = "donations"

// Donations pages through the donation records. The donations endpoint is the
// one that still answers with a bare array on some deployments, so this store
// leans on the envelope-or-bare normalization in page.
type Donations struct {
	listState[model.Donation]

	gw       Gateway
	logger   *zap.Logger
	snapshot *cache.Cache
}

// NewDonations creates a donation store. The snapshot cache is optional.
func NewDonations(gw Gateway, logger *zap.Logger, snapshot *cache.Cache) *Donations {
	return &Donations{gw: gw, logger: logger, snapshot: snapshot}
}

// FetchPage replaces the collection with one page of donations. A bare-array
// response leaves pagination absent, which is a valid terminal state.
func (d *Donations) FetchPage(ctx context.Context, pageNum, limit int) error {
	d.beginFetch()

	var resp page[model.Donation]
	endpoint := fmt.Sprintf("/admins/donations?page=%d&limit=%d", pageNum, limit)
	if err := d.gw.Get(ctx, endpoint, &resp); err != nil {
		d.failFetch(err)
		return err
	}

	d.applyPage(resp)
	d.logger.Debug("Fetched donations page",
		zap.Int("page", pageNum),
		zap.Int("count", len(resp.Items)),
		zap.Bool("paginated", resp.Meta != nil))

	d.writeSnapshot(resp.Items)
	return nil
}

// LoadSnapshot fills the collection from the offline cache.
func (d *Donations) LoadSnapshot() error {
	if d.snapshot == nil {
		return fmt.Errorf("no snapshot cache configured")
	}

	items, err := cache.Load[model.Donation](d.snapshot, donationsResource)
	if err != nil {
		d.failFetch(err)
		return err
	}

	d.applyPage(page[model.Donation]{Items: items})
	return nil
}

// Charge is a projected charge of a recurring donation.
type Charge struct {
	Donation model.Donation
	Due      time.Time
}

// UpcomingCharges projects the charge dates of MONTHLY donations over the
// given number of months from now. Each recurring donation charges monthly on
// its creation day-of-month.
func (d *Donations) UpcomingCharges(now time.Time, months int) ([]Charge, error) {
	until := now.AddDate(0, months, 0)

	var charges []Charge
	for _, donation := range d.Items() {
		if donation.SubscriptionType != model.SubscriptionMonthly {
			continue
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:    rrule.MONTHLY,
			Dtstart: donation.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build recurrence for donation %s: %w", donation.ID, err)
		}

		for _, due := range rule.Between(now, until, false) {
			charges = append(charges, Charge{Donation: donation, Due: due})
		}
	}

	sort.Slice(charges, func(i, j int) bool {
		return charges[i].Due.Before(charges[j].Due)
	})
	return charges, nil
}

func (d *Donations) writeSnapshot(items []model.Donation) {
	if d.snapshot == nil {
		return
	}
	err := cache.Put(d.snapshot, donationsResource, items,
		func(item model.Donation) string { return item.ID })
	if err != nil {
		d.logger.Warn("Failed to write donation snapshot", zap.Error(err))
	}
}
