// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package store

import "strings"

// Key prefixes mirror the logical collection paths of the data model:
//
//	hub:{hubId}                                hub record
//	hub:{hubId}:device:{deviceId}              hub-scoped device record
//	hub:{hubId}:live:{deviceId}                live-by-device projection
//	device:{deviceId}                          legacy global device record
//	session:{sessionId}                        session record
//	session:{sessionId}:override:{deviceId}    session-scoped device override
//	session:{sessionId}:event:{eventId}        immutable event record
//	session:{sessionId}:stats:{studentId}      per-student counters
//	session:{sessionId}:summary                session grand total
const (
	hubPrefix     = "hub:"
	devicePrefix  = "device:"
	sessionPrefix = "session:"
)

// HubKey returns the key of a hub record.
func HubKey(hubID string) []byte {
	return []byte(hubPrefix + hubID)
}

// HubDeviceKey returns the key of a hub-scoped device record.
func HubDeviceKey(hubID, deviceID string) []byte {
	return []byte(hubPrefix + hubID + ":device:" + deviceID)
}

// LiveKey returns the key of the live-by-device projection document.
func LiveKey(hubID, deviceID string) []byte {
	return []byte(hubPrefix + hubID + ":live:" + deviceID)
}

// LivePrefix returns the key prefix of all live documents under a hub.
func LivePrefix(hubID string) []byte {
	return []byte(hubPrefix + hubID + ":live:")
}

// GlobalDeviceKey returns the key of a legacy global device record.
func GlobalDeviceKey(deviceID string) []byte {
	return []byte(devicePrefix + deviceID)
}

// SessionKey returns the key of a session record.
func SessionKey(sessionID string) []byte {
	return []byte(sessionPrefix + sessionID)
}

// OverrideKey returns the key of a session-scoped device override.
func OverrideKey(sessionID, deviceID string) []byte {
	return []byte(sessionPrefix + sessionID + ":override:" + deviceID)
}

// EventKey returns the key of an immutable event record. Event IDs are
// unique within their session by construction of this key.
func EventKey(sessionID, eventID string) []byte {
	return []byte(sessionPrefix + sessionID + ":event:" + eventID)
}

// StatsKey returns the key of a per-student stats document.
func StatsKey(sessionID, studentID string) []byte {
	return []byte(sessionPrefix + sessionID + ":stats:" + studentID)
}

// StatsPrefix returns the key prefix of all stats documents in a session.
func StatsPrefix(sessionID string) []byte {
	return []byte(sessionPrefix + sessionID + ":stats:")
}

// SummaryKey returns the key of the session summary document.
func SummaryKey(sessionID string) []byte {
	return []byte(sessionPrefix + sessionID + ":summary")
}

// hubDeviceKeyParts extracts (hubID, deviceID) from a hub-scoped device key.
// Returns ok=false for keys of any other shape.
func hubDeviceKeyParts(key []byte) (hubID, deviceID string, ok bool) {
	s := string(key)
	if !strings.HasPrefix(s, hubPrefix) {
		return "", "", false
	}
	rest := s[len(hubPrefix):]
	i := strings.Index(rest, ":device:")
	if i < 0 {
		return "", "", false
	}
	hubID = rest[:i]
	deviceID = rest[i+len(":device:"):]
	if hubID == "" || deviceID == "" || strings.Contains(deviceID, ":") {
		return "", "", false
	}
	return hubID, deviceID, true
}
