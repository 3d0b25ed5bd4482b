// Hubtally - Classroom Button Event Ingestion and Aggregation
// Copyright 2026 Hubtally Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hubtally/hubtally

// Package config loads and validates service configuration with Koanf v2.
// Precedence, highest wins: environment variables, YAML config file,
// built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/hubtally/hubtally/internal/pipeline"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs / RateLimitWindow bound per-IP request rates on the
	// ingest route group. Zero requests disables limiting.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// PipelineConfig selects the aggregation strategy and ingest defaults.
type PipelineConfig struct {
	// Mode is "update_only" or "append_aggregate".
	Mode pipeline.Mode `koanf:"mode"`

	// DefaultSource tags events whose payload carries no source field.
	DefaultSource string `koanf:"default_source"`

	// SeedDemoData populates an empty store with a demo hub, session and
	// device assignment at startup. Development only.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Pipeline.Mode.Valid() {
		return fmt.Errorf("pipeline.mode %q: must be %q or %q",
			c.Pipeline.Mode, pipeline.ModeUpdateOnly, pipeline.ModeAppendAggregate)
	}
	if c.Store.Path == "" && !c.Store.InMemory {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Pipeline.DefaultSource == "" {
		return fmt.Errorf("pipeline.default_source must not be empty")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
