// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

package store

import "errors"

// ErrNotFound is returned when a requested document does not exist.
// Callers distinguish "absent" from real failures with errors.Is.
var ErrNotFound = errors.New("document not found")
