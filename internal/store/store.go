// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package store provides the BadgerDB-backed document store for Hubtally.
//
// All pipeline state (hubs, devices, sessions, overrides, the live-by-device
// projection, event records and aggregate counters) lives in a single Badger
// instance as JSON documents under prefixed keys. Badger transactions give
// the pipeline its atomicity: the read of prior state and the conditional
// write happen inside one serializable transaction, and concurrent writers
// on the same keys abort with ErrConflict instead of interleaving.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Config holds store configuration.
type Config struct {
	// Path is the BadgerDB data directory. Ignored when InMemory is set.
	Path string

	// InMemory runs the store without disk persistence. Used in tests and
	// ephemeral deployments.
	InMemory bool
}

// Store wraps a BadgerDB instance.
type Store struct {
	db *badger.DB
}

// Open opens the document store at the configured path.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an ephemeral store. Intended for tests.
func OpenInMemory() (*Store, error) {
	return Open(Config{InMemory: true})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// View runs fn in a read-only transaction.
func (s *Store) View(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Update runs fn in a read-write transaction. The transaction is
// serializable: if a concurrent writer touched a key read by fn before this
// transaction committed, Update returns badger.ErrConflict and nothing fn
// wrote is persisted.
func (s *Store) Update(fn func(txn *badger.Txn) error) error {
	return s.db.Update(fn)
}
