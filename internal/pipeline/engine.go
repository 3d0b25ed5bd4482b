// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package pipeline applies resolved button events to persistent state.
//
// Two aggregation strategies exist as alternatives behind one Engine
// interface, selected by deployment configuration:
//
//   - update-only: a single live-by-device document holds the latest state;
//     admission is decided by the (hubTs, seq, eventId) freshness rule.
//   - append-aggregate: an immutable event record is created per event ID
//     and per-student/per-session counters move on first-time creation.
//
// Either way the decide-then-write step runs inside one store transaction;
// only last-seen device bookkeeping is best-effort outside it.
package pipeline

import (
	"context"
	"fmt"

	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/store"
)

// Mode selects the aggregation strategy.
type Mode string

const (
	// ModeUpdateOnly keeps only the live-by-device projection.
	ModeUpdateOnly Mode = "update_only"

	// ModeAppendAggregate keeps an immutable event log plus counters.
	ModeAppendAggregate Mode = "append_aggregate"
)

// Valid reports whether the mode names a known strategy.
func (m Mode) Valid() bool {
	return m == ModeUpdateOnly || m == ModeAppendAggregate
}

// Outcome is the pipeline's verdict on one event.
type Outcome string

const (
	// OutcomeCreated means the event produced new persisted state.
	OutcomeCreated Outcome = "created"

	// OutcomeUpdated means the event superseded existing live state.
	OutcomeUpdated Outcome = "updated"

	// OutcomeDuplicate means the event ID was already recorded; a no-op.
	OutcomeDuplicate Outcome = "duplicate"

	// OutcomeStale means the event ordered before already-recorded state.
	OutcomeStale Outcome = "stale"
)

// Admitted reports whether the outcome changed persisted state.
func (o Outcome) Admitted() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Message is the short response body the hub protocol expects.
func (o Outcome) Message() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeDuplicate:
		return "duplicate (ok)"
	case OutcomeStale:
		return "stale (ok)"
	}
	return string(o)
}

// Engine applies one resolved event atomically.
type Engine interface {
	Apply(ctx context.Context, evt *models.ButtonEvent) (Outcome, error)
}

// New returns the engine for the configured mode.
func New(mode Mode, st *store.Store) (Engine, error) {
	switch mode {
	case ModeUpdateOnly:
		return NewUpdateOnlyEngine(st), nil
	case ModeAppendAggregate:
		return NewAppendEngine(st), nil
	}
	return nil, fmt.Errorf("unknown pipeline mode %q", mode)
}
