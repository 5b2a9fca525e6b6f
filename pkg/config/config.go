// Package config loads Rewind configuration from JSON files and REWIND_*
// environment variables.
package config

import internalconfig "github.com/SmitUplenchwar2687/Rewind/internal/config"

// Config is the top-level configuration for a Rewind process.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// CodecConfig selects the encoding used when writing timelines.
type CodecConfig = internalconfig.CodecConfig

// CaptureConfig selects which input modalities are recorded.
type CaptureConfig = internalconfig.CaptureConfig

// EnvPrefix is prepended to every environment override.
const EnvPrefix = internalconfig.EnvPrefix

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	return internalconfig.Load(path)
}

// LoadFile reads a JSON config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
