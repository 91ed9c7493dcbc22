package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/elitceler/streetcause-admin/pkg/cache"
	"github.com/elitceler/streetcause-admin/pkg/core/model"
)

const volunteersResource = "volunteers"

// Volunteers pages through the volunteer directory and requests profile
// status transitions. The server is authoritative for transitions: the local
// item is only removed after the server has accepted the change.
type Volunteers struct {
	listState[model.Volunteer]

	gw       Gateway
	logger   *zap.Logger
	snapshot *cache.Cache

	selected *model.Volunteer
}

// NewVolunteers creates a volunteer store. The snapshot cache is optional;
// pass nil to disable offline snapshots.
func NewVolunteers(gw Gateway, logger *zap.Logger, snapshot *cache.Cache) *Volunteers {
	return &Volunteers{gw: gw, logger: logger, snapshot: snapshot}
}

// FetchPage replaces the collection with one page of volunteers. On failure
// the previous items and pagination are kept and the error is recorded.
func (v *Volunteers) FetchPage(ctx context.Context, pageNum, limit int) error {
	v.beginFetch()

	var resp page[model.Volunteer]
	endpoint := fmt.Sprintf("/admins/get-volunteer?page=%d&limit=%d", pageNum, limit)
	if err := v.gw.Get(ctx, endpoint, &resp); err != nil {
		v.failFetch(err)
		return err
	}

	v.applyPage(resp)
	v.logger.Debug("Fetched volunteers page",
		zap.Int("page", pageNum),
		zap.Int("count", len(resp.Items)))

	v.writeSnapshot(resp.Items)
	return nil
}

// UpdateStatus requests a profile status transition and, once the server
// confirms it, removes the volunteer from the local page. A failure leaves
// the collection unchanged.
func (v *Volunteers) UpdateStatus(ctx context.Context, id string, status model.ProfileStatus) error {
	body := struct {
		ProfileStatus model.ProfileStatus `json:"profileStatus"`
	}{ProfileStatus: status}

	endpoint := fmt.Sprintf("/admins/volunteer/%s/status", id)
	if err := v.gw.Patch(ctx, endpoint, body, nil); err != nil {
		v.failAction(err)
		return err
	}

	v.removeConfirmed(func(item model.Volunteer) bool { return item.ID == id })
	v.logger.Info("Volunteer status updated",
		zap.String("volunteer_id", id),
		zap.String("status", string(status)))
	return nil
}

// FetchDetails loads a single volunteer into the selection. A failure leaves
// the previous selection in place.
func (v *Volunteers) FetchDetails(ctx context.Context, id string) error {
	v.beginFetch()

	var resp struct {
		Volunteer model.Volunteer `json:"volunteer"`
	}
	if err := v.gw.Get(ctx, "/admins/volunteers/"+id, &resp); err != nil {
		v.failFetch(err)
		return err
	}

	v.mu.Lock()
	v.selected = &resp.Volunteer
	v.loading = false
	v.mu.Unlock()
	return nil
}

// Selected returns a copy of the last fetched volunteer detail, or nil.
func (v *Volunteers) Selected() *model.Volunteer {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil
	}
	selected := *v.selected
	return &selected
}

// LoadSnapshot fills the collection from the offline cache. Pagination is
// absent in a snapshot listing.
func (v *Volunteers) LoadSnapshot() error {
	if v.snapshot == nil {
		return fmt.Errorf("no snapshot cache configured")
	}

	items, err := cache.Load[model.Volunteer](v.snapshot, volunteersResource)
	if err != nil {
		v.failFetch(err)
		return err
	}

	v.applyPage(page[model.Volunteer]{Items: items})
	return nil
}

func (v *Volunteers) writeSnapshot(items []model.Volunteer) {
	if v.snapshot == nil {
		return
	}
	err := cache.Put(v.snapshot, volunteersResource, items,
		func(item model.Volunteer) string { return item.ID })
	if err != nil {
		v.logger.Warn("Failed to write volunteer snapshot", zap.Error(err))
	}
}
