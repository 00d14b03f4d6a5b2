package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/samandr77/microservices/portal/docs" // swagger docs
	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/guard"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Recover, mw.Cors, mw.WithIP, mw.Log)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		r.Route("/v1", func(r chi.Router) {
			r.Use(mw.BearerAuth)

			r.Get("/session", h.Session)
			r.Delete("/session", h.EndSession)

			r.Get("/organization", h.Organization)
			r.Put("/organization", h.SwitchOrganization)

			r.Post("/access/refresh", h.RefreshAccess)
			r.Get("/permissions/check", h.CheckPermission)
			r.Post("/guards/evaluate", h.EvaluateGuards)

			r.With(mw.Guard(guard.Permission(entity.CategoryOrders, entity.ActionCreate).WithOperate())).
				Post("/orders", h.CreateOrder)

			r.With(mw.Guard(guard.Permission(entity.CategoryFinancials, entity.ActionView))).
				Get("/financials/summary", h.FinancialSummary)

			r.Route("/places", func(r chi.Router) {
				r.Use(mw.Guard(guard.Permission(entity.CategoryLocations, entity.ActionView)))
				r.Get("/autocomplete", h.Autocomplete)
				r.Get("/{placeID}", h.Place)
			})

			r.Get("/realtime", h.Realtime)
		})
	})

	return mux
}
