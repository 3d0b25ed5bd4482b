// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hubtally/hubtally/internal/middleware"
)

// NewRouter assembles the HTTP surface. The ingest endpoint speaks the hub
// firmware protocol (plain text bodies, 405 for anything but POST); the
// read-side endpoints use the JSON envelope.
func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "not found")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		if h.cfg.Server.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(h.cfg.Server.RateLimitReqs, h.cfg.Server.RateLimitWindow))
		}

		r.Post("/events", h.ReceiveEvent)
		r.Get("/health", h.Health)
		r.Get("/sessions/{sessionID}/stats", h.SessionStats)
		r.Get("/hubs/{hubID}/live", h.HubLive)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
