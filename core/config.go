//----------------------------------------------------------------------
// This file is part of dtnsim.
//
// dtnsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// dtnsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

package core

import (
	"encoding/json"
	"os"
)

//----------------------------------------------------------------------
// Config is the JSON-decodable settings surface. One InterfaceGroup per
// interface type a simulation wants to attach to its hosts; the
// Optimization block controls World-level behavior.
//----------------------------------------------------------------------

// InterfaceGroup configures one NetworkInterface kind attached to every
// host. TransmitRange and TransmitSpeed have no usable zero default; an
// omitted key decodes as 0 and is accepted like an explicit 0. The rest
// fall back to their documented defaults.
type InterfaceGroup struct {
	Type                   string  `json:"type"`
	TransmitRange          float64 `json:"transmitRange"`
	TransmitSpeed          int     `json:"transmitSpeed"`
	ScanInterval           float64 `json:"scanInterval"`
	ActivenessOffsetJitter int     `json:"activenessOffsetJitter"`
}

// Optimization holds the World-level knobs of the settings surface.
type Optimization struct {
	RandomizeUpdateOrder    bool `json:"randomizeUpdateOrder"`
	SimulateConnectionsOnce bool `json:"simulateConnectionsOnce"`
	Realtime                bool `json:"realtime"`
}

// Config is the full recognized settings surface for one simulation run.
type Config struct {
	UpdateInterval float64          `json:"updateInterval"`
	WarmupTime     float64          `json:"warmupTime"`
	Interfaces     []InterfaceGroup `json:"interfaces"`
	Optimization   Optimization     `json:"optimization"`
}

// DefaultConfig returns the documented defaults: updateInterval defaults
// to 1.0 and randomizeUpdateOrder to true, everything else to its zero
// value.
func DefaultConfig() *Config {
	return &Config{
		UpdateInterval: 1.0,
		Optimization: Optimization{
			RandomizeUpdateOrder: true,
		},
	}
}

// LoadConfig reads and validates a Config from a JSON file, starting from
// DefaultConfig's values so an input file only needs to override what it
// cares about.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewSettingsError("file", err.Error())
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, NewSettingsError("json", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the ">= 0" rules of the settings surface, a positive
// updateInterval, at least one interface group and a type on each group.
// It cannot tell an omitted transmitRange or transmitSpeed from an
// explicit 0, so it does not reject a group that leaves them out.
// It is run automatically by LoadConfig, and should also be called by any caller
// constructing a Config by hand.
func (c *Config) Validate() error {
	if c.UpdateInterval <= 0 {
		return NewSettingsError("updateInterval", "must be > 0")
	}
	if len(c.Interfaces) == 0 {
		return NewSettingsError("interfaces", "at least one interface group is required")
	}
	for _, g := range c.Interfaces {
		if g.Type == "" {
			return NewSettingsError("interfaces[].type", "required")
		}
		if g.TransmitRange < 0 {
			return NewSettingsError("interfaces[].transmitRange", "must be >= 0")
		}
		if g.TransmitSpeed < 0 {
			return NewSettingsError("interfaces[].transmitSpeed", "must be >= 0")
		}
		if g.ScanInterval < 0 {
			return NewSettingsError("interfaces[].scanInterval", "must be >= 0")
		}
		if g.ActivenessOffsetJitter < 0 {
			return NewSettingsError("interfaces[].activenessOffsetJitter", "must be >= 0")
		}
	}
	return nil
}
