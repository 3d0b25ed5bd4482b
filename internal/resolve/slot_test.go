// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package resolve

import (
	"math"
	"testing"

	"github.com/hubtally/hubtally/internal/models"
)

func TestNormalizeSlot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want models.Slot
	}{
		{"nil", nil, models.SlotNone},
		{"string one", "1", models.Slot1},
		{"string two", "2", models.Slot2},
		{"string three", "3", models.SlotNone},
		{"string empty", "", models.SlotNone},
		{"string junk", "abc", models.SlotNone},
		{"json number one", float64(1), models.Slot1},
		{"json number two", float64(2), models.Slot2},
		{"json number zero", float64(0), models.SlotNone},
		{"json number fractional", 1.5, models.SlotNone},
		{"json number nan", math.NaN(), models.SlotNone},
		{"json number inf", math.Inf(1), models.SlotNone},
		{"int", 2, models.Slot2},
		{"int64", int64(1), models.Slot1},
		{"slot passthrough", models.Slot1, models.Slot1},
		{"bool", true, models.SlotNone},
		{"negative", float64(-1), models.SlotNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeSlot(tt.in); got != tt.want {
				t.Errorf("NormalizeSlot(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
