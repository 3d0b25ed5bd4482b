// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hubtally/hubtally/internal/models"
)

// ErrResolution is the sentinel wrapped by all identity resolution failures.
// The request handler maps it to a 400 response; no writes have occurred
// when it is returned.
var ErrResolution = errors.New("session resolution failed")

// Directory is the read-only view of persisted hub/device/session state the
// resolver consults. Implementations return store.ErrNotFound-compatible
// errors for absent records; the resolver only distinguishes absent from
// present and treats lookup failures as absent.
type Directory interface {
	GetHub(ctx context.Context, hubID string) (*models.Hub, error)
	GetHubDevice(ctx context.Context, hubID, deviceID string) (*models.Device, error)
	GetGlobalDevice(ctx context.Context, deviceID string) (*models.Device, error)
	GetOverride(ctx context.Context, sessionID, deviceID string) (*models.DeviceOverride, error)
	FindHubIDByDevice(ctx context.Context, deviceID string) (string, error)
}

// Resolver resolves session identity and student/slot mappings.
type Resolver struct {
	dir Directory
	now func() time.Time
}

// New creates a resolver over the given directory.
func New(dir Directory) *Resolver {
	return &Resolver{dir: dir, now: time.Now}
}

// ResolveSessionID determines the active session for an event and the hub it
// arrived through. Priority:
//
//  1. A client-supplied session ID wins immediately, without lookups.
//  2. With no hubID, the legacy global device record's hub back-reference is
//     consulted first (single lookup), then the hub namespaces are scanned
//     for the device.
//  3. The resolved hub's currentSessionId field decides.
//
// Failures wrap ErrResolution and name the identifiers involved.
func (r *Resolver) ResolveSessionID(ctx context.Context, hubID, deviceID, clientSessionID string) (sessionID, resolvedHubID string, err error) {
	if clientSessionID != "" {
		return clientSessionID, hubID, nil
	}

	if hubID == "" && deviceID != "" {
		if dev, err := r.dir.GetGlobalDevice(ctx, deviceID); err == nil && dev.HubID != "" {
			hubID = dev.HubID
		} else if id, err := r.dir.FindHubIDByDevice(ctx, deviceID); err == nil {
			hubID = id
		}
	}
	if hubID == "" {
		return "", "", fmt.Errorf("no hub found for device %q: %w", deviceID, ErrResolution)
	}

	hub, err := r.dir.GetHub(ctx, hubID)
	if err != nil || hub.CurrentSessionID == "" {
		return "", "", fmt.Errorf("no current session for hub %q: %w", hubID, ErrResolution)
	}
	return hub.CurrentSessionID, hubID, nil
}

// ResolveMapping determines the (student, slot) target of an event. It never
// fails; fields no data source can resolve stay empty.
//
// Priority order, short-circuiting per field:
//
//  1. client-supplied values (slot normalized);
//  2. unexpired session-scoped device override;
//  3. hub-scoped device record;
//  4. legacy global device record, then its ownerStudentId/ownerSlotIndex
//     aliases.
//
// Each step is strictly additive: a filled field is never overwritten by a
// later, lower-priority step.
func (r *Resolver) ResolveMapping(ctx context.Context, sessionID, hubID, deviceID, clientStudentID string, clientSlot any) models.Mapping {
	m := models.Mapping{
		StudentID: clientStudentID,
		SlotIndex: NormalizeSlot(clientSlot),
	}
	if m.Resolved() {
		return m
	}

	if ov, err := r.dir.GetOverride(ctx, sessionID, deviceID); err == nil && !ov.Expired(r.now()) {
		m.Fill(ov.StudentID, NormalizeSlot(ov.SlotIndex))
		if m.Resolved() {
			return m
		}
	}

	if hubID != "" {
		if dev, err := r.dir.GetHubDevice(ctx, hubID, deviceID); err == nil {
			m.Fill(dev.StudentID, NormalizeSlot(dev.SlotIndex))
			if m.Resolved() {
				return m
			}
		}
	}

	if dev, err := r.dir.GetGlobalDevice(ctx, deviceID); err == nil {
		m.Fill(dev.StudentID, NormalizeSlot(dev.SlotIndex))
		m.Fill(dev.OwnerStudentID, NormalizeSlot(dev.OwnerSlotIndex))
	}
	return m
}
