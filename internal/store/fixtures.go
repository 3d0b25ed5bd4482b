// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package store

import (
	"context"
	"errors"
	"time"

	"github.com/hubtally/hubtally/internal/models"
)

// SeedDemoData populates an empty store with a demo hub, an active session
// and two slot-assigned devices so a fresh deployment can accept events
// immediately. A store that already contains the demo hub is left untouched.
func (s *Store) SeedDemoData(ctx context.Context) error {
	const (
		hubID     = "demo-hub"
		sessionID = "demo-session"
	)

	if _, err := s.GetHub(ctx, hubID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.PutHub(ctx, &models.Hub{HubID: hubID, CurrentSessionID: sessionID}); err != nil {
		return err
	}
	if err := s.PutSession(ctx, &models.Session{
		SessionID: sessionID,
		HubID:     hubID,
		StartedAt: time.Now(),
	}); err != nil {
		return err
	}

	devices := []*models.Device{
		{DeviceID: "demo-button-1", StudentID: "demo-student-1", SlotIndex: models.Slot1},
		{DeviceID: "demo-button-2", StudentID: "demo-student-2", SlotIndex: models.Slot2},
	}
	for _, dev := range devices {
		if err := s.PutHubDevice(ctx, hubID, dev); err != nil {
			return err
		}
	}
	return nil
}
