// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package store

import (
	"context"
	"testing"

	"github.com/hubtally/hubtally/internal/models"
)

func TestSeedDemoData(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	hub, err := st.GetHub(ctx, "demo-hub")
	if err != nil {
		t.Fatalf("GetHub: %v", err)
	}
	if hub.CurrentSessionID != "demo-session" {
		t.Errorf("CurrentSessionID = %q, want demo-session", hub.CurrentSessionID)
	}
	dev, err := st.GetHubDevice(ctx, "demo-hub", "demo-button-1")
	if err != nil {
		t.Fatalf("GetHubDevice: %v", err)
	}
	if dev.StudentID != "demo-student-1" || dev.SlotIndex != models.Slot1 {
		t.Errorf("device = %+v, want demo-student-1/slot 1", dev)
	}

	// Seeding again must not disturb existing state.
	dev.StudentID = "reassigned"
	if err := st.PutHubDevice(ctx, "demo-hub", dev); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}
	if err := st.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData (second): %v", err)
	}
	dev, err = st.GetHubDevice(ctx, "demo-hub", "demo-button-1")
	if err != nil {
		t.Fatalf("GetHubDevice: %v", err)
	}
	if dev.StudentID != "reassigned" {
		t.Errorf("re-seed overwrote device: %+v", dev)
	}
}
