// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/hubtally/hubtally/internal/config"
	"github.com/hubtally/hubtally/internal/logging"
	"github.com/hubtally/hubtally/internal/metrics"
	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/pipeline"
	"github.com/hubtally/hubtally/internal/resolve"
	"github.com/hubtally/hubtally/internal/store"
	"github.com/hubtally/hubtally/internal/validation"
)

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	cfg       *config.Config
	st        *store.Store
	resolver  *resolve.Resolver
	engine    pipeline.Engine
	startTime time.Time
}

// NewHandler creates a handler over the given collaborators.
func NewHandler(cfg *config.Config, st *store.Store, resolver *resolve.Resolver, engine pipeline.Engine) *Handler {
	return &Handler{
		cfg:       cfg,
		st:        st,
		resolver:  resolver,
		engine:    engine,
		startTime: time.Now(),
	}
}

// ReceiveEvent handles incoming button events from hubs.
// POST /api/v1/events
//
// The request is validated before any store access, then flows through
// identity resolution, mapping resolution and the configured aggregation
// engine. Status mapping:
//
//	400  unparseable JSON, missing/invalid fields, unresolved session
//	200  admitted ("created"/"updated") or benign no-op ("duplicate (ok)",
//	     "stale (ok)")
//	500  store or transaction failure; the hub retries the whole request,
//	     which is safe because eventId makes retries idempotent
func (h *Handler) ReceiveEvent(w http.ResponseWriter, r *http.Request) {
	receivedAt := time.Now()
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	defer r.Body.Close()

	var req EventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := validation.ValidateStruct(&req); err != nil {
		writeText(w, http.StatusBadRequest, "%s", err.Error())
		return
	}

	sessionID, hubID, err := h.resolver.ResolveSessionID(ctx, req.HubID, req.DeviceID, req.SessionID)
	if err != nil {
		if errors.Is(err, resolve.ErrResolution) {
			metrics.ResolutionFailures.Inc()
			logging.Warn().
				Err(err).
				Str("hub_id", req.HubID).
				Str("device_id", req.DeviceID).
				Msg("Session resolution failed")
			writeText(w, http.StatusBadRequest, "%s", err.Error())
			return
		}
		logging.Error().Err(err).Str("device_id", req.DeviceID).Msg("Session lookup failed")
		writeText(w, http.StatusInternalServerError, "%s", err.Error())
		return
	}

	mapping := h.resolver.ResolveMapping(ctx, sessionID, hubID, req.DeviceID, req.StudentID, req.SlotIndex)

	source := req.Source
	if source == "" {
		source = h.cfg.Pipeline.DefaultSource
	}

	evt := &models.ButtonEvent{
		EventID:    req.EventID,
		DeviceID:   req.DeviceID,
		HubID:      hubID,
		SessionID:  sessionID,
		StudentID:  mapping.StudentID,
		SlotIndex:  mapping.SlotIndex,
		ClickType:  models.ClickType(req.ClickType),
		HubTs:      req.ResolvedHubTs(receivedAt),
		Seq:        req.Seq,
		Source:     source,
		IngestedAt: receivedAt,
	}

	outcome, err := h.engine.Apply(ctx, evt)
	if err != nil {
		logging.Error().
			Err(err).
			Str("session_id", sessionID).
			Str("device_id", evt.DeviceID).
			Str("event_id", evt.EventID).
			Msg("Event application failed")
		writeText(w, http.StatusInternalServerError, "%s", err.Error())
		return
	}

	logging.Info().
		Str("outcome", string(outcome)).
		Str("session_id", sessionID).
		Str("hub_id", hubID).
		Str("device_id", evt.DeviceID).
		Str("event_id", evt.EventID).
		Str("student_id", evt.StudentID).
		Str("slot", string(evt.SlotIndex)).
		Msg("Event processed")

	writeText(w, http.StatusOK, "%s", outcome.Message())
}
