// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package pipeline

import "github.com/hubtally/hubtally/internal/models"

// decide compares a candidate event against the previously recorded live
// state for its device and returns the admission outcome.
//
// Duplicate event IDs are checked before ordering so a replayed event never
// reads as stale. Ties on hubTs break on the sequence number; an equal or
// lower sequence at the same millisecond is not newer.
func decide(prev *models.LiveState, evt *models.ButtonEvent) Outcome {
	if prev == nil {
		return OutcomeCreated
	}
	if prev.LastEventID != "" && prev.LastEventID == evt.EventID {
		return OutcomeDuplicate
	}
	if evt.HubTs < prev.LastHubTs {
		return OutcomeStale
	}
	if evt.HubTs == prev.LastHubTs && evt.Seq <= prev.LastSeq {
		return OutcomeStale
	}
	return OutcomeUpdated
}
