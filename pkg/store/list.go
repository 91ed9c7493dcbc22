// Package store holds the paginated resource collections the dashboard
// renders: one store per resource kind, each fetching pages through the API
// gateway and applying confirmed mutations to its local items.
package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elitceler/streetcause-admin/pkg/api"
	"github.com/elitceler/streetcause-admin/pkg/core/model"
)

// Gateway is the slice of the API client the stores depend on.
type Gateway interface {
	Get(ctx context.Context, endpoint string, out any, opts ...api.RequestOption) error
	Patch(ctx context.Context, endpoint string, body, out any, opts ...api.RequestOption) error
}

// page is a decoded list response. List endpoints answer in one of two
// shapes - a bare array, or a {data, meta} envelope - and both are
// normalized here, at the boundary, so store logic never re-checks the shape.
type page[T any] struct {
	Items []T
	Meta  *model.Meta
}

func (p *page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")

	if len(trimmed) > 0 && trimmed[0] == '[' {
		// Bare array: no pagination available.
		p.Meta = nil
		return json.Unmarshal(data, &p.Items)
	}

	var envelope struct {
		Data []T         `json:"data"`
		Meta *model.Meta `json:"meta"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	if envelope.Data == nil {
		// Unrecognized shape: treat as an empty listing rather than failing.
		p.Items = []T{}
		p.Meta = nil
		return nil
	}

	p.Items = envelope.Data
	p.Meta = envelope.Meta
	return nil
}
