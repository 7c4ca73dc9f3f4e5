package ui

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"textbook-admin/pkg/client"
)

// Dashboard loads the summary counters and the inventory warnings side by
// side.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) error {
	c := backendFromContext(r.Context())

	var (
		stats    map[string]any
		warnings []map[string]any
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		resp, err := c.Dashboard(ctx)
		if err != nil {
			return err
		}
		stats, err = client.Decode[map[string]any](resp)
		return err
	})
	g.Go(func() error {
		resp, err := c.InventoryWarnings(ctx)
		if err != nil {
			return err
		}
		warnings, err = resp.Records()
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	renderHTML(w, http.StatusOK, dashboardPage(r, stats, warnings))
	return nil
}
