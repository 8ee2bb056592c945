// Package config defines the settings shared by the controller, display and
// client binaries and provides helpers to load, validate and save them.
//
// Files are YAML by default; a ".toml" extension switches the codec to TOML.
// Validate fills every unset field with its default, so a partially written
// file (or none at all, via LoadOrDefault) yields a runnable configuration.
package config
