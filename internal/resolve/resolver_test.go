// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hubtally/hubtally/internal/models"
	"github.com/hubtally/hubtally/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func TestResolveSessionID_ClientWins(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	r := New(st)

	// No hub or device records exist; a client session needs no lookups.
	sessionID, hubID, err := r.ResolveSessionID(context.Background(), "hub-1", "dev-1", "ses-client")
	if err != nil {
		t.Fatalf("ResolveSessionID: %v", err)
	}
	if sessionID != "ses-client" {
		t.Errorf("sessionID = %q, want %q", sessionID, "ses-client")
	}
	if hubID != "hub-1" {
		t.Errorf("hubID = %q, want %q", hubID, "hub-1")
	}
}

func TestResolveSessionID_HubCurrentSession(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.PutHub(ctx, &models.Hub{HubID: "hub-1", CurrentSessionID: "ses-1"}); err != nil {
		t.Fatalf("PutHub: %v", err)
	}

	r := New(st)
	sessionID, hubID, err := r.ResolveSessionID(ctx, "hub-1", "dev-1", "")
	if err != nil {
		t.Fatalf("ResolveSessionID: %v", err)
	}
	if sessionID != "ses-1" || hubID != "hub-1" {
		t.Errorf("got (%q, %q), want (ses-1, hub-1)", sessionID, hubID)
	}
}

func TestResolveSessionID_GlobalDeviceBackReference(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.PutHub(ctx, &models.Hub{HubID: "hub-1", CurrentSessionID: "ses-1"}); err != nil {
		t.Fatalf("PutHub: %v", err)
	}
	if err := st.PutGlobalDevice(ctx, &models.Device{DeviceID: "dev-1", HubID: "hub-1"}); err != nil {
		t.Fatalf("PutGlobalDevice: %v", err)
	}

	r := New(st)
	sessionID, hubID, err := r.ResolveSessionID(ctx, "", "dev-1", "")
	if err != nil {
		t.Fatalf("ResolveSessionID: %v", err)
	}
	if sessionID != "ses-1" || hubID != "hub-1" {
		t.Errorf("got (%q, %q), want (ses-1, hub-1)", sessionID, hubID)
	}
}

func TestResolveSessionID_ScanFallback(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// No global device record; the device is only known under its hub's
	// namespace and must be found by scanning.
	if err := st.PutHub(ctx, &models.Hub{HubID: "hub-2", CurrentSessionID: "ses-2"}); err != nil {
		t.Fatalf("PutHub: %v", err)
	}
	if err := st.PutHubDevice(ctx, "hub-2", &models.Device{DeviceID: "dev-2"}); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}

	r := New(st)
	sessionID, hubID, err := r.ResolveSessionID(ctx, "", "dev-2", "")
	if err != nil {
		t.Fatalf("ResolveSessionID: %v", err)
	}
	if sessionID != "ses-2" || hubID != "hub-2" {
		t.Errorf("got (%q, %q), want (ses-2, hub-2)", sessionID, hubID)
	}
}

func TestResolveSessionID_Failures(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// A hub with no current session.
	if err := st.PutHub(ctx, &models.Hub{HubID: "hub-idle"}); err != nil {
		t.Fatalf("PutHub: %v", err)
	}

	r := New(st)

	tests := []struct {
		name     string
		hubID    string
		deviceID string
	}{
		{"unknown device, no hub", "", "dev-unknown"},
		{"unknown hub", "hub-missing", "dev-1"},
		{"hub without session", "hub-idle", "dev-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := r.ResolveSessionID(ctx, tt.hubID, tt.deviceID, "")
			if !errors.Is(err, ErrResolution) {
				t.Errorf("err = %v, want ErrResolution", err)
			}
		})
	}
}

func TestResolveMapping_ClientValuesWin(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// Lower-priority sources carry a different mapping that must not leak.
	if err := st.PutHubDevice(ctx, "hub-1", &models.Device{
		DeviceID: "dev-1", StudentID: "stu-device", SlotIndex: models.Slot2,
	}); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}

	r := New(st)
	m := r.ResolveMapping(ctx, "ses-1", "hub-1", "dev-1", "stu-client", "1")
	if m.StudentID != "stu-client" || m.SlotIndex != models.Slot1 {
		t.Errorf("mapping = %+v, want stu-client/slot 1", m)
	}
}

func TestResolveMapping_OverrideBeatsDevice(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.PutHubDevice(ctx, "hub-1", &models.Device{
		DeviceID: "dev-1", StudentID: "stu-device", SlotIndex: models.Slot2,
	}); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}
	if err := st.PutOverride(ctx, "ses-1", "dev-1", &models.DeviceOverride{
		StudentID: "stu-override", SlotIndex: models.Slot1,
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("PutOverride: %v", err)
	}

	r := New(st)
	m := r.ResolveMapping(ctx, "ses-1", "hub-1", "dev-1", "", nil)
	if m.StudentID != "stu-override" || m.SlotIndex != models.Slot1 {
		t.Errorf("mapping = %+v, want stu-override/slot 1", m)
	}
}

func TestResolveMapping_ExpiredOverrideIgnored(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.PutOverride(ctx, "ses-1", "dev-1", &models.DeviceOverride{
		StudentID: "stu-override", SlotIndex: models.Slot1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("PutOverride: %v", err)
	}
	if err := st.PutHubDevice(ctx, "hub-1", &models.Device{
		DeviceID: "dev-1", StudentID: "stu-device", SlotIndex: models.Slot2,
	}); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}

	r := New(st)
	m := r.ResolveMapping(ctx, "ses-1", "hub-1", "dev-1", "", nil)
	if m.StudentID != "stu-device" || m.SlotIndex != models.Slot2 {
		t.Errorf("mapping = %+v, want stu-device/slot 2", m)
	}
}

func TestResolveMapping_LegacyOwnerAliases(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// Legacy global record that only carries the owner alias fields, with
	// the slot stored as a number the way old writers did.
	if err := st.PutGlobalDevice(ctx, &models.Device{
		DeviceID: "dev-legacy", OwnerStudentID: "stu-owner", OwnerSlotIndex: float64(2),
	}); err != nil {
		t.Fatalf("PutGlobalDevice: %v", err)
	}

	r := New(st)
	m := r.ResolveMapping(ctx, "ses-1", "", "dev-legacy", "", nil)
	if m.StudentID != "stu-owner" || m.SlotIndex != models.Slot2 {
		t.Errorf("mapping = %+v, want stu-owner/slot 2", m)
	}
}

func TestResolveMapping_AdditivePerField(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	ctx := context.Background()

	// The override knows only the student; the device record fills in the
	// slot without touching the already-resolved student.
	if err := st.PutOverride(ctx, "ses-1", "dev-1", &models.DeviceOverride{
		StudentID: "stu-override",
	}); err != nil {
		t.Fatalf("PutOverride: %v", err)
	}
	if err := st.PutHubDevice(ctx, "hub-1", &models.Device{
		DeviceID: "dev-1", StudentID: "stu-device", SlotIndex: models.Slot2,
	}); err != nil {
		t.Fatalf("PutHubDevice: %v", err)
	}

	r := New(st)
	m := r.ResolveMapping(ctx, "ses-1", "hub-1", "dev-1", "", nil)
	if m.StudentID != "stu-override" || m.SlotIndex != models.Slot2 {
		t.Errorf("mapping = %+v, want stu-override/slot 2", m)
	}
}

func TestResolveMapping_NothingResolves(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	r := New(st)
	m := r.ResolveMapping(context.Background(), "ses-1", "hub-1", "dev-unknown", "", nil)
	if m.StudentID != "" || m.SlotIndex != models.SlotNone {
		t.Errorf("mapping = %+v, want empty", m)
	}
	if m.Resolved() {
		t.Error("empty mapping reported as resolved")
	}
}
