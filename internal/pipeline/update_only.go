// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hubtally/hubtally/internal/logging"
	"github.com/hubtally/hubtally/internal/metrics"
	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/store"
)

// UpdateOnlyEngine keeps one live document per device and overwrites it when
// a fresher event arrives. No event log, no counters.
type UpdateOnlyEngine struct {
	st  *store.Store
	now func() time.Time
}

// NewUpdateOnlyEngine creates the update-only engine.
func NewUpdateOnlyEngine(st *store.Store) *UpdateOnlyEngine {
	return &UpdateOnlyEngine{st: st, now: time.Now}
}

// Apply decides admission against the stored live state and, on admission,
// overwrites it with the candidate's full state. The read and the
// conditional write are one transaction; rejected events leave the live
// document untouched.
func (e *UpdateOnlyEngine) Apply(ctx context.Context, evt *models.ButtonEvent) (Outcome, error) {
	var out Outcome

	err := e.st.Update(func(txn *badger.Txn) error {
		var prevDoc models.LiveState
		prev := &prevDoc
		err := store.ReadDoc(txn, store.LiveKey(evt.HubID, evt.DeviceID), prev)
		if errors.Is(err, store.ErrNotFound) {
			prev = nil
		} else if err != nil {
			return err
		}

		out = decide(prev, evt)
		if !out.Admitted() {
			return nil
		}

		next := models.LiveState{
			DeviceID:    evt.DeviceID,
			SessionID:   evt.SessionID,
			StudentID:   evt.StudentID,
			SlotIndex:   evt.SlotIndex,
			ClickType:   evt.ClickType,
			LastHubTs:   evt.HubTs,
			LastSeq:     evt.Seq,
			LastEventID: evt.EventID,
			UpdatedAt:   e.now(),
		}
		return store.WriteDoc(txn, store.LiveKey(evt.HubID, evt.DeviceID), &next)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			metrics.StoreConflicts.Inc()
		}
		return "", err
	}

	// Last-seen bookkeeping is best-effort and runs for rejected events
	// too: a duplicate still proves the device is alive.
	touchDevice(ctx, e.st, evt, e.now())

	metrics.RecordOutcome(string(out))
	return out, nil
}

// touchDevice merge-upserts last-seen metadata outside the main transaction.
// Failures are logged, never surfaced.
func touchDevice(ctx context.Context, st *store.Store, evt *models.ButtonEvent, now time.Time) {
	if evt.HubID == "" {
		return
	}
	if err := st.TouchDevice(ctx, evt.HubID, evt.DeviceID, evt.ClickType, now); err != nil {
		logging.Warn().
			Err(err).
			Str("hub_id", evt.HubID).
			Str("device_id", evt.DeviceID).
			Msg("Device last-seen bookkeeping failed")
	}
}
