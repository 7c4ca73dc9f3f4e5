package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"textbook-admin/internal/export"
	"textbook-admin/pkg/client"
)

var exportReturnPaths = map[string]string{
	"textbooks": "/ui/textbooks",
	"orders":    "/ui/orders",
	"stock-ins": "/ui/stock-ins",
}

// Export streams every row of a resource as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) error {
	resource := chi.URLParam(r, "resource")
	back, ok := exportReturnPaths[resource]
	if !ok {
		back = "/ui"
	}

	items, err := export.Fetch(r.Context(), backendFromContext(r.Context()), resource)
	if err != nil {
		if _, isAPI := client.AsAPIError(err); isAPI || client.IsSessionExpired(err) {
			return err
		}
		redirectWithMessage(w, r, back, err.Error(), MessageError)
		return nil
	}
	table, err := export.FromRecords(items)
	if errors.Is(err, export.ErrNoData) {
		redirectWithMessage(w, r, back, export.ErrNoData.Error(), MessageWarning)
		return nil
	}
	if err != nil {
		return err
	}

	filename := export.Filename(resource, h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, table); err != nil {
		h.Logger.Warn("export write failed", "resource", resource, "error", err)
	}
	return nil
}
