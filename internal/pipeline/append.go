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

	"github.com/hubtally/hubtally/internal/metrics"
	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/store"
)

// AppendEngine creates an immutable event record per event ID and maintains
// per-student and per-session counters. A pre-existing event ID is a benign
// duplicate, not an error.
type AppendEngine struct {
	st  *store.Store
	now func() time.Time
}

// NewAppendEngine creates the append-aggregate engine.
func NewAppendEngine(st *store.Store) *AppendEngine {
	return &AppendEngine{st: st, now: time.Now}
}

// Apply creates the event record if absent and, only on true first-time
// creation with a fully resolved mapping, increments the session grand
// total, the student's total, the per-slot count, and stamps the per-slot
// last-activity time and last action. The existence check, the event write
// and all counter writes are one transaction: either everything commits or
// nothing does.
func (e *AppendEngine) Apply(ctx context.Context, evt *models.ButtonEvent) (Outcome, error) {
	var out Outcome
	now := e.now()

	err := e.st.Update(func(txn *badger.Txn) error {
		eventKey := store.EventKey(evt.SessionID, evt.EventID)
		exists, err := store.Exists(txn, eventKey)
		if err != nil {
			return err
		}
		if exists {
			out = OutcomeDuplicate
			return nil
		}

		rec := *evt
		rec.IngestedAt = now
		if err := store.WriteDoc(txn, eventKey, &rec); err != nil {
			return err
		}
		out = OutcomeCreated

		// Counters move only for fully mapped events; unresolved events
		// are preserved in the log but never counted.
		if evt.StudentID == "" || !evt.SlotIndex.Valid() {
			return nil
		}

		stats := models.StudentStats{StudentID: evt.StudentID}
		if err := store.ReadDoc(txn, store.StatsKey(evt.SessionID, evt.StudentID), &stats); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		stats.StudentID = evt.StudentID
		stats.Total++
		slot := stats.Slot(evt.SlotIndex)
		slot.Count++
		slot.LastTs = evt.HubTs
		stats.LastAction = evt.ClickType
		stats.LastActionAt = now
		if err := store.WriteDoc(txn, store.StatsKey(evt.SessionID, evt.StudentID), &stats); err != nil {
			return err
		}

		var sum models.SessionSummary
		if err := store.ReadDoc(txn, store.SummaryKey(evt.SessionID), &sum); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		sum.Total++
		sum.UpdatedAt = now
		return store.WriteDoc(txn, store.SummaryKey(evt.SessionID), &sum)
	})
	if err != nil {
		if errors.Is(err, badger.ErrConflict) {
			metrics.StoreConflicts.Inc()
		}
		return "", err
	}

	touchDevice(ctx, e.st, evt, now)

	metrics.RecordOutcome(string(out))
	return out, nil
}
