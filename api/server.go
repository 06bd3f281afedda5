/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Metrics:    Prometheus request counters and latency
  5. CORS:       Cross-origin requests for the mobile/web client
  6. Auth:       Bearer-token guard on everything under /api except
                 /api/auth/register and /api/auth/login

ROUTE GROUPS:
  /api/auth/*        Account registration and sign-in
  /api/workers/*     Worker roster and per-worker views
  /api/records/*     Monthly ledger records
  /api/attendance/*  Batch attendance
  /api/rollover      Month rollover coordinator
  /metrics           Prometheus scrape endpoint
  /healthz           Liveness probe

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazri/wagebook/auth"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	guard := auth.NewMiddleware(h.Secret)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(guard.Handler).Get("/me", h.Me)
		})

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(guard.Handler)

			r.Route("/workers", func(r chi.Router) {
				r.Get("/", h.ListWorkers)
				r.Post("/", h.CreateWorker)
				r.Post("/delete", h.DeleteWorkers)
				r.Get("/{id}", h.GetWorker)
				r.Patch("/{id}", h.UpdateWorker)
				r.Post("/{id}/active", h.SetWorkerActive)
				r.Get("/{id}/calendar", h.WorkerCalendar)
				r.Get("/{id}/records", h.WorkerRecords)
			})

			r.Route("/records", func(r chi.Router) {
				r.Post("/", h.OpenRecord)
				r.Post("/delete", h.DeleteRecords)
				r.Get("/{id}", h.GetRecord)
				r.Post("/{id}/attendance", h.AddAttendance)
				r.Patch("/{id}/attendance", h.UpdateAttendance)
				r.Delete("/{id}/attendance", h.DeleteAttendance)
				r.Get("/{id}/attendance/today", h.AttendanceToday)
				r.Post("/{id}/settle", h.SettleRecord)
				r.Post("/{id}/adjust", h.AdjustSettlement)
				r.Get("/{id}/settlements", h.ListSettlements)
				r.Get("/{id}/settlements/{day}", h.GetSettlement)
				r.Get("/{id}/settlement/today", h.SettlementToday)
				r.Get("/{id}/export.xlsx", h.ExportRecordXLSX)
				r.Get("/{id}/receipt.pdf", h.SettlementReceiptPDF)
			})

			r.Post("/attendance/batch", h.BatchAttendance)

			r.Get("/rollover/check", h.RolloverCheck)
			r.Post("/rollover", h.Rollover)
		})
	})

	// Operational endpoints, unauthenticated
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
