package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls server resource limits.
type Config struct {
	// MaxOpenWaveforms caps the registry size; zero or negative means no
	// cap.
	MaxOpenWaveforms int `yaml:"max_open_waveforms"`

	// DefaultEventLimit applies to find_events and find_signal_events
	// calls that give no limit; negative means unlimited.
	DefaultEventLimit int `yaml:"default_event_limit"`
}

// DefaultConfig returns the limits used when no config file is given.
func DefaultConfig() Config {
	return Config{
		MaxOpenWaveforms:  32,
		DefaultEventLimit: 1000,
	}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep
// their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
