// Package config reads the settings of a register file cache simulation from
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvSlotsPerStream = "RFC_SLOTS_PER_STREAM"
	EnvNumCores       = "RFC_NUM_CORES"
	EnvDebug          = "RFC_DEBUG"
	EnvMonitorPort    = "RFC_MONITOR_PORT"
	EnvRecordPath     = "RFC_RECORD_PATH"
)

// Config holds the settings of a simulation.
type Config struct {
	// SlotsPerStream is the number of registers each stream can keep cached.
	// Zero disables the cache.
	SlotsPerStream int

	// NumCores is the number of cores, each with its own cache.
	NumCores int

	// Debug turns on logging of every cache event.
	Debug bool

	// MonitorPort is the port of the monitoring server. Zero disables it.
	MonitorPort int

	// RecordPath is where events and statistics are recorded, without the
	// file extension. Empty disables recording.
	RecordPath string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		SlotsPerStream: 6,
		NumCores:       1,
	}
}

// Load loads the given .env files, if they exist, and reads the settings from
// the environment. Variables already set in the environment take precedence
// over the files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	c := Default()

	var err error

	c.SlotsPerStream, err = intFromEnv(EnvSlotsPerStream, c.SlotsPerStream, 0)
	if err != nil {
		return Config{}, err
	}

	c.NumCores, err = intFromEnv(EnvNumCores, c.NumCores, 1)
	if err != nil {
		return Config{}, err
	}

	c.MonitorPort, err = intFromEnv(EnvMonitorPort, c.MonitorPort, 0)
	if err != nil {
		return Config{}, err
	}

	c.Debug, err = boolFromEnv(EnvDebug, c.Debug)
	if err != nil {
		return Config{}, err
	}

	if v, ok := os.LookupEnv(EnvRecordPath); ok {
		c.RecordPath = strings.TrimSpace(v)
	}

	return c, nil
}

// Validate checks if the settings can be used to build a simulation.
func (c Config) Validate() error {
	if c.SlotsPerStream < 0 {
		return fmt.Errorf("slots per stream must not be negative, got %d",
			c.SlotsPerStream)
	}

	if c.NumCores < 1 {
		return fmt.Errorf("number of cores must be positive, got %d",
			c.NumCores)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("invalid monitor port %d", c.MonitorPort)
	}

	return nil
}

func intFromEnv(name string, def, min int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	if n < min {
		return 0, fmt.Errorf("%s must be at least %d, got %d", name, min, n)
	}

	return n, nil
}

func boolFromEnv(name string, def bool) (bool, error) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}

	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
}
