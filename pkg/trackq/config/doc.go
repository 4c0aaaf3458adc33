/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
Tracker settings are loaded this way from YAML, JSON, or TOML files without
verbose type assertions and nil checks.

# Basic Usage

	cfg, err := config.FromFile("trackq.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	tracker := cfg.Sub("tracker")
	siteID := tracker.String("site_id", "")
	batch := tracker.Int("batch_size", 20)

	st := cfg.Sub("store")
	driver := st.String("driver", "sqlite")
	timeout := st.Sub("redis").Duration("timeout", 2*time.Second)

# Type Coercion

Duration accepts a time.ParseDuration string, a number of seconds, or a
time.Duration. Int accepts int, int64 (TOML), and float64 without a
fractional part (JSON). All methods return the default value if the key is
missing or the value cannot be converted.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
