// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"

	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/store"
)

// HealthResponse is the payload of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// SessionStatsResponse is the read-side view of a session's aggregates.
type SessionStatsResponse struct {
	SessionID string                 `json:"sessionId"`
	Summary   *models.SessionSummary `json:"summary"`
	Students  []*models.StudentStats `json:"students"`
}

// HubLiveResponse lists the live projection of every device under a hub.
type HubLiveResponse struct {
	HubID   string              `json:"hubId"`
	Devices []*models.LiveState `json:"devices"`
}

// Health reports liveness and store reachability.
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.st.View(func(txn *badger.Txn) error { return nil }); err != nil {
		writeErrorResponse(w, r, http.StatusServiceUnavailable, ErrCodeInternalError, "store unavailable")
		return
	}
	writeSuccess(w, r, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// SessionStats returns the per-student counters and the grand total of a
// session. Sessions with no recorded activity return empty aggregates, not
// an error: the append engine creates these documents lazily.
// GET /api/v1/sessions/{sessionID}/stats
func (h *Handler) SessionStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeErrorResponse(w, r, http.StatusBadRequest, ErrCodeBadRequest, "sessionID is required")
		return
	}

	summary, err := h.st.GetSessionSummary(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		summary = &models.SessionSummary{}
	} else if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	students, err := h.st.ListStudentStats(ctx, sessionID)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if students == nil {
		students = []*models.StudentStats{}
	}

	writeSuccess(w, r, SessionStatsResponse{
		SessionID: sessionID,
		Summary:   summary,
		Students:  students,
	})
}

// HubLive returns the live-by-device projection for a hub.
// GET /api/v1/hubs/{hubID}/live
func (h *Handler) HubLive(w http.ResponseWriter, r *http.Request) {
	hubID := chi.URLParam(r, "hubID")
	if hubID == "" {
		writeErrorResponse(w, r, http.StatusBadRequest, ErrCodeBadRequest, "hubID is required")
		return
	}

	devices, err := h.st.ListLiveStates(r.Context(), hubID)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}
	if devices == nil {
		devices = []*models.LiveState{}
	}

	writeSuccess(w, r, HubLiveResponse{HubID: hubID, Devices: devices})
}
