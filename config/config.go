// Package config holds tunables for building and running a render pipeline.
package config

import "errors"

// Config is the top-level configuration struct.  All fields have safe
// defaults so callers can start with Config{} and override only what they
// need.
type Config struct {
	// LogGroupSize is the base-2 log of the group edge length groups are
	// chunked into (e.g. 8 => 256x256 groups). See pipeline.NewBuilder.
	LogGroupSize int

	// ChunkSize bounds how many samples of a row a single executor call
	// processes at once, trading peak scratch-buffer memory for call
	// overhead. 0 selects the pipeline's built-in default.
	ChunkSize int

	// MaxPasses is a progressive-pass cap, checked only by Validate (it must
	// not be negative). NewBuilderFromConfig does not pass it on, and
	// FillInput accepts any number of reported passes.
	MaxPasses int

	// EnableMetrics controls whether callers building a pipeline through
	// this config attach a hooks.MetricsHook alongside the logging hook.
	EnableMetrics bool

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		LogGroupSize: 8,
		ChunkSize:    512,
		MaxPasses:    0,
		LogLevel:     "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.LogGroupSize < 0 || c.LogGroupSize > 30 {
		return errors.New("config: LogGroupSize must be between 0 and 30")
	}
	if c.ChunkSize < 0 {
		return errors.New("config: ChunkSize must not be negative")
	}
	if c.ChunkSize > 65535 {
		return errors.New("config: ChunkSize must fit in a uint16 (see pipeline.NewBuilderWithChunkSize)")
	}
	if c.MaxPasses < 0 {
		return errors.New("config: MaxPasses must not be negative")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New("config: LogLevel must be one of debug, info, warn, error")
	}
	return nil
}
