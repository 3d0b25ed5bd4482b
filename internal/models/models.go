// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package models defines the persisted document shapes and shared value
// types for the ingestion pipeline: hubs, devices, sessions, button events,
// the live-by-device projection and the per-session aggregates.
package models

import "time"

// Slot is one of the two fixed positions a student may occupy on a shared
// device. The zero value means "unknown". Slot values are normalized once at
// the request boundary and never re-parsed downstream.
type Slot string

const (
	SlotNone Slot = ""
	Slot1    Slot = "1"
	Slot2    Slot = "2"
)

// Valid reports whether the slot is one of the two known positions.
func (s Slot) Valid() bool {
	return s == Slot1 || s == Slot2
}

// ClickType is the kind of button press reported by the hub.
type ClickType string

const (
	ClickSingle ClickType = "click"
	ClickDouble ClickType = "double_click"
	ClickHold   ClickType = "hold"
)

// Valid reports whether the click type is one the hub firmware can emit.
func (c ClickType) Valid() bool {
	switch c {
	case ClickSingle, ClickDouble, ClickHold:
		return true
	}
	return false
}

// Hub is a physical gateway relaying button events. Hubs are provisioned out
// of band; the pipeline only ever reads them.
type Hub struct {
	HubID            string `json:"hubId"`
	CurrentSessionID string `json:"currentSessionId,omitempty"`
}

// Device is a button registered to a hub, or a legacy global device record.
// Legacy global records may carry a hubId back-reference and the old
// ownerStudentId/ownerSlotIndex assignment fields; the slot alias is kept
// untyped because legacy writers stored it as either a string or a number.
type Device struct {
	DeviceID       string    `json:"deviceId"`
	HubID          string    `json:"hubId,omitempty"`
	StudentID      string    `json:"studentId,omitempty"`
	SlotIndex      Slot      `json:"slotIndex,omitempty"`
	OwnerStudentID string    `json:"ownerStudentId,omitempty"`
	OwnerSlotIndex any       `json:"ownerSlotIndex,omitempty"`
	LastSeenAt     time.Time `json:"lastSeenAt,omitempty"`
	LastClickType  ClickType `json:"lastClickType,omitempty"`
}

// Session is a bounded activity window associated with a hub.
type Session struct {
	SessionID string    `json:"sessionId"`
	HubID     string    `json:"hubId,omitempty"`
	StartedAt time.Time `json:"startedAt,omitempty"`
	EndedAt   time.Time `json:"endedAt,omitempty"`
}

// DeviceOverride is a session-scoped temporary mapping that supersedes the
// device's static assignment until it expires. A zero ExpiresAt never
// expires.
type DeviceOverride struct {
	StudentID string    `json:"studentId,omitempty"`
	SlotIndex Slot      `json:"slotIndex,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the override is past its expiry at the given time.
func (o *DeviceOverride) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !o.ExpiresAt.After(now)
}

// Mapping is the resolved (student, slot) target of an event. Either field
// may be empty when no data source could resolve it.
type Mapping struct {
	StudentID string `json:"studentId,omitempty"`
	SlotIndex Slot   `json:"slotIndex,omitempty"`
}

// Resolved reports whether both mapping fields are known.
func (m *Mapping) Resolved() bool {
	return m.StudentID != "" && m.SlotIndex.Valid()
}

// Fill sets each still-empty field from the given values. Filled fields are
// never overwritten; resolution steps are strictly additive.
func (m *Mapping) Fill(studentID string, slot Slot) {
	if m.StudentID == "" && studentID != "" {
		m.StudentID = studentID
	}
	if !m.SlotIndex.Valid() && slot.Valid() {
		m.SlotIndex = slot
	}
}

// ButtonEvent is one button-press occurrence after identity and mapping
// resolution. In the append pipeline it is persisted immutably, keyed by
// EventID within its session.
type ButtonEvent struct {
	EventID    string    `json:"eventId"`
	DeviceID   string    `json:"deviceId"`
	HubID      string    `json:"hubId,omitempty"`
	SessionID  string    `json:"sessionId"`
	StudentID  string    `json:"studentId,omitempty"`
	SlotIndex  Slot      `json:"slotIndex,omitempty"`
	ClickType  ClickType `json:"clickType"`
	HubTs      int64     `json:"hubTs"`
	Seq        int64     `json:"seq"`
	Source     string    `json:"source,omitempty"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// LiveState is the latest-known state per device. It only ever moves forward
// under the (LastHubTs, LastSeq) ordering key; duplicate event IDs are
// no-ops.
type LiveState struct {
	DeviceID    string    `json:"deviceId"`
	SessionID   string    `json:"sessionId"`
	StudentID   string    `json:"studentId,omitempty"`
	SlotIndex   Slot      `json:"slotIndex,omitempty"`
	ClickType   ClickType `json:"clickType"`
	LastHubTs   int64     `json:"lastHubTs"`
	LastSeq     int64     `json:"lastSeq"`
	LastEventID string    `json:"lastEventId"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SlotStats holds the per-slot counters within a student's session stats.
type SlotStats struct {
	Count  int64 `json:"count"`
	LastTs int64 `json:"lastTs,omitempty"`
}

// StudentStats are the per-session-per-student counters. Counters only grow,
// and only on first-time admission of an event.
type StudentStats struct {
	StudentID    string              `json:"studentId"`
	Total        int64               `json:"total"`
	BySlot       map[Slot]*SlotStats `json:"bySlot,omitempty"`
	LastAction   ClickType           `json:"lastAction,omitempty"`
	LastActionAt time.Time           `json:"lastActionAt,omitempty"`
}

// Slot returns the stats bucket for the given slot, creating it on first use.
func (st *StudentStats) Slot(s Slot) *SlotStats {
	if st.BySlot == nil {
		st.BySlot = make(map[Slot]*SlotStats, 2)
	}
	b, ok := st.BySlot[s]
	if !ok {
		b = &SlotStats{}
		st.BySlot[s] = b
	}
	return b
}

// SessionSummary is the per-session grand total across all students.
type SessionSummary struct {
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updatedAt"`
}
