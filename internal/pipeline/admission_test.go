// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package pipeline

import (
	"testing"

	"github.com/hubtally/hubtally/internal/models"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	prev := &models.LiveState{
		LastEventID: "evt-prev",
		LastHubTs:   100,
		LastSeq:     3,
	}

	tests := []struct {
		name string
		prev *models.LiveState
		evt  models.ButtonEvent
		want Outcome
	}{
		{"no prior state", nil, models.ButtonEvent{EventID: "e1", HubTs: 100}, OutcomeCreated},
		{"newer timestamp", prev, models.ButtonEvent{EventID: "e2", HubTs: 101}, OutcomeUpdated},
		{"same timestamp higher seq", prev, models.ButtonEvent{EventID: "e2", HubTs: 100, Seq: 4}, OutcomeUpdated},
		{"same timestamp same seq", prev, models.ButtonEvent{EventID: "e2", HubTs: 100, Seq: 3}, OutcomeStale},
		{"same timestamp lower seq", prev, models.ButtonEvent{EventID: "e2", HubTs: 100, Seq: 2}, OutcomeStale},
		{"older timestamp", prev, models.ButtonEvent{EventID: "e2", HubTs: 99, Seq: 9}, OutcomeStale},
		// A replayed event ID reads as duplicate even though its ordering
		// key would otherwise classify it as stale.
		{"replayed event id", prev, models.ButtonEvent{EventID: "evt-prev", HubTs: 100, Seq: 3}, OutcomeDuplicate},
		{"replayed event id older ts", prev, models.ButtonEvent{EventID: "evt-prev", HubTs: 50}, OutcomeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := decide(tt.prev, &tt.evt); got != tt.want {
				t.Errorf("decide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutcomeMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome  Outcome
		want     string
		admitted bool
	}{
		{OutcomeCreated, "created", true},
		{OutcomeUpdated, "updated", true},
		{OutcomeDuplicate, "duplicate (ok)", false},
		{OutcomeStale, "stale (ok)", false},
	}
	for _, tt := range tests {
		if got := tt.outcome.Message(); got != tt.want {
			t.Errorf("%q.Message() = %q, want %q", tt.outcome, got, tt.want)
		}
		if got := tt.outcome.Admitted(); got != tt.admitted {
			t.Errorf("%q.Admitted() = %v, want %v", tt.outcome, got, tt.admitted)
		}
	}
}
