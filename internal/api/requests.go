// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package api

import (
	"math"
	"strconv"
	"time"
)

// EventRequest is the hub-facing ingest payload. Required fields are
// enforced by the validator before any store access; hubId may be absent
// when the device can be traced back to its hub.
type EventRequest struct {
	HubID     string `json:"hubId"`
	DeviceID  string `json:"deviceId" validate:"required"`
	ClickType string `json:"clickType" validate:"required,oneof=click double_click hold"`
	EventID   string `json:"eventId" validate:"required"`

	// HubTs is the hub-reported timestamp in epoch milliseconds. Hubs send
	// it as a number or a numeric string; anything else falls back to the
	// receipt time.
	HubTs any `json:"hubTs"`

	// Seq orders events within the same millisecond.
	Seq int64 `json:"seq"`

	// Client overrides, highest resolution priority.
	SessionID string `json:"sessionId"`
	StudentID string `json:"studentId"`
	SlotIndex any    `json:"slotIndex"`

	Source string `json:"source"`
}

// ResolvedHubTs coerces the raw hubTs to epoch milliseconds. Non-finite
// numbers and non-digit strings fall back to the receipt time.
func (r *EventRequest) ResolvedHubTs(receivedAt time.Time) int64 {
	switch v := r.HubTs.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return int64(v)
		}
	case string:
		if v != "" && allDigits(v) {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return receivedAt.UnixMilli()
}

// allDigits reports whether s consists solely of ASCII digits.
func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
