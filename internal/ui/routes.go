package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"textbook-admin/internal/ui/assets"
)

// MountRoutes registers the console. apiMiddleware wraps the JSON routes
// under /ui/api (CORS in the server).
func MountRoutes(r chi.Router, h *Handler, apiMiddleware ...func(http.Handler) http.Handler) {
	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/ui/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.EnsureCSRFToken)
		r.Use(h.RequireCSRF)
		r.Use(h.LoadSession)

		r.Get("/", h.LoginPage)
		r.Post("/login", h.LoginSubmit)
		r.Post("/logout", h.Logout)

		r.Route("/ui", func(r chi.Router) {
			r.Route("/api", func(r chi.Router) {
				r.Use(apiMiddleware...)
				r.Get("/session", h.SessionInfo)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequireSession)

				r.Get("/", h.handle(h.Dashboard))
				r.Get("/textbooks", h.handle(h.TextbooksList))
				r.With(h.RequireRole(CanManageBasicData)).Post("/textbooks", h.handle(h.TextbookCreate))
				r.With(h.RequireRole(CanManageBasicData)).Post("/textbooks/{id}/delete", h.handle(h.TextbookDelete))

				r.Get("/orders", h.handle(h.OrdersList))
				r.Post("/orders", h.handle(h.OrderCreate))
				r.Post("/orders/{id}/approve", h.handle(h.OrderApprove))
				r.Post("/orders/{id}/cancel", h.handle(h.OrderCancel))
				r.Post("/orders/{id}/deliver", h.handle(h.OrderDeliver))

				r.With(h.RequireRole(IsAdminOrWarehouse)).Get("/stock-ins", h.handle(h.StockInsList))
				r.Get("/export/{resource}", h.handle(h.Export))
			})
		})
	})
}
