// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package resolve determines which session and student/slot a raw device
// event belongs to. All resolution is read-only; the single writer is the
// pipeline package downstream.
package resolve

import (
	"math"
	"strconv"

	"github.com/hubtally/hubtally/internal/models"
)

// NormalizeSlot maps an arbitrary payload value to a canonical slot.
// The value is stringified and accepted only if it equals "1" or "2";
// anything else, including absent values, yields models.SlotNone. Slot
// values are normalized here once and never re-parsed downstream.
func NormalizeSlot(v any) models.Slot {
	var s string
	switch val := v.(type) {
	case nil:
		return models.SlotNone
	case string:
		s = val
	case models.Slot:
		s = string(val)
	case float64:
		// JSON numbers decode as float64; only integral values can match.
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			return models.SlotNone
		}
		s = strconv.FormatInt(int64(val), 10)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	default:
		return models.SlotNone
	}

	switch s {
	case "1":
		return models.Slot1
	case "2":
		return models.Slot2
	}
	return models.SlotNone
}
