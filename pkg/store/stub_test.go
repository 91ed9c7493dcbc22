package store

import (
	"context"
	"encoding/json"

	"github.com/elitceler/streetcause-admin/pkg/api"
)

// stubGateway fakes the API gateway: canned JSON per endpoint, optional
// forced failures, and a record of PATCH calls.
type stubGateway struct {
	responses map[string]string
	err       error

	gotEndpoints []string
	gotPatchBody any
}

func newStubGateway() *stubGateway {
	return &stubGateway{responses: make(map[string]string)}
}

func (g *stubGateway) Get(ctx context.Context, endpoint string, out any, opts ...api.RequestOption) error {
	g.gotEndpoints = append(g.gotEndpoints, endpoint)
	if g.err != nil {
		return g.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(g.responses[endpoint]), out)
}

func (g *stubGateway) Patch(ctx context.Context, endpoint string, body, out any, opts ...api.RequestOption) error {
	g.gotEndpoints = append(g.gotEndpoints, endpoint)
	g.gotPatchBody = body
	if g.err != nil {
		return g.err
	}
	return nil
}
