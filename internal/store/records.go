// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package store

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hubtally/hubtally/internal/models"
)

// GetHub retrieves a hub record.
func (s *Store) GetHub(ctx context.Context, hubID string) (*models.Hub, error) {
	var hub models.Hub
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, HubKey(hubID), &hub)
	})
	if err != nil {
		return nil, err
	}
	return &hub, nil
}

// PutHub stores a hub record. Hubs are provisioned out of band; this exists
// for fixtures and operational tooling.
func (s *Store) PutHub(ctx context.Context, hub *models.Hub) error {
	return s.Update(func(txn *badger.Txn) error {
		return WriteDoc(txn, HubKey(hub.HubID), hub)
	})
}

// GetHubDevice retrieves a hub-scoped device record.
func (s *Store) GetHubDevice(ctx context.Context, hubID, deviceID string) (*models.Device, error) {
	var dev models.Device
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, HubDeviceKey(hubID, deviceID), &dev)
	})
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// PutHubDevice stores a hub-scoped device record.
func (s *Store) PutHubDevice(ctx context.Context, hubID string, dev *models.Device) error {
	return s.Update(func(txn *badger.Txn) error {
		return WriteDoc(txn, HubDeviceKey(hubID, dev.DeviceID), dev)
	})
}

// GetGlobalDevice retrieves a legacy global device record.
func (s *Store) GetGlobalDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	var dev models.Device
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, GlobalDeviceKey(deviceID), &dev)
	})
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

// PutGlobalDevice stores a legacy global device record.
func (s *Store) PutGlobalDevice(ctx context.Context, dev *models.Device) error {
	return s.Update(func(txn *badger.Txn) error {
		return WriteDoc(txn, GlobalDeviceKey(dev.DeviceID), dev)
	})
}

// PutSession stores a session record.
func (s *Store) PutSession(ctx context.Context, sess *models.Session) error {
	return s.Update(func(txn *badger.Txn) error {
		return WriteDoc(txn, SessionKey(sess.SessionID), sess)
	})
}

// GetOverride retrieves a session-scoped device override.
func (s *Store) GetOverride(ctx context.Context, sessionID, deviceID string) (*models.DeviceOverride, error) {
	var ov models.DeviceOverride
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, OverrideKey(sessionID, deviceID), &ov)
	})
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// PutOverride stores a session-scoped device override.
func (s *Store) PutOverride(ctx context.Context, sessionID, deviceID string, ov *models.DeviceOverride) error {
	return s.Update(func(txn *badger.Txn) error {
		return WriteDoc(txn, OverrideKey(sessionID, deviceID), ov)
	})
}

// GetLiveState retrieves the live-by-device projection for a device.
func (s *Store) GetLiveState(ctx context.Context, hubID, deviceID string) (*models.LiveState, error) {
	var live models.LiveState
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, LiveKey(hubID, deviceID), &live)
	})
	if err != nil {
		return nil, err
	}
	return &live, nil
}

// GetEvent retrieves an immutable event record.
func (s *Store) GetEvent(ctx context.Context, sessionID, eventID string) (*models.ButtonEvent, error) {
	var evt models.ButtonEvent
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, EventKey(sessionID, eventID), &evt)
	})
	if err != nil {
		return nil, err
	}
	return &evt, nil
}

// GetStudentStats retrieves a per-student stats document.
func (s *Store) GetStudentStats(ctx context.Context, sessionID, studentID string) (*models.StudentStats, error) {
	var st models.StudentStats
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, StatsKey(sessionID, studentID), &st)
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStudentStats returns the stats documents of every student with
// recorded activity in the session.
func (s *Store) ListStudentStats(ctx context.Context, sessionID string) ([]*models.StudentStats, error) {
	var out []*models.StudentStats
	err := s.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := StatsPrefix(sessionID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var st models.StudentStats
			err := it.Item().Value(func(val []byte) error {
				return unmarshalDoc(val, &st)
			})
			if err != nil {
				return err
			}
			out = append(out, &st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSessionSummary retrieves the session grand total.
func (s *Store) GetSessionSummary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	var sum models.SessionSummary
	err := s.View(func(txn *badger.Txn) error {
		return ReadDoc(txn, SummaryKey(sessionID), &sum)
	})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// ListLiveStates returns the live projection of every device under a hub.
func (s *Store) ListLiveStates(ctx context.Context, hubID string) ([]*models.LiveState, error) {
	var out []*models.LiveState
	err := s.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := LivePrefix(hubID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var live models.LiveState
			err := it.Item().Value(func(val []byte) error {
				return unmarshalDoc(val, &live)
			})
			if err != nil {
				return err
			}
			out = append(out, &live)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindHubIDByDevice scans hub device namespaces for one containing deviceID
// and returns the first matching hub. This is the slow fallback path used
// only when the legacy global device record carries no hub back-reference.
func (s *Store) FindHubIDByDevice(ctx context.Context, deviceID string) (string, error) {
	found := ""
	err := s.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(hubPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			hubID, devID, ok := hubDeviceKeyParts(it.Item().Key())
			if ok && devID == deviceID {
				found = hubID
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", ErrNotFound
	}
	return found, nil
}

// TouchDevice merge-upserts last-seen metadata onto the hub-scoped device
// record, preserving any static assignment fields already present. This is
// the only bookkeeping write that runs outside the pipeline transaction.
func (s *Store) TouchDevice(ctx context.Context, hubID, deviceID string, click models.ClickType, now time.Time) error {
	return s.Update(func(txn *badger.Txn) error {
		dev := models.Device{DeviceID: deviceID}
		if err := ReadDoc(txn, HubDeviceKey(hubID, deviceID), &dev); err != nil && !isNotFound(err) {
			return err
		}
		dev.DeviceID = deviceID
		dev.LastSeenAt = now
		dev.LastClickType = click
		return WriteDoc(txn, HubDeviceKey(hubID, deviceID), &dev)
	})
}
