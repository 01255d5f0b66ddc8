package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrFileNotFound is returned by LoadFromFile when path does not exist.
var ErrFileNotFound = errors.New("configuration file not found")

// LoadFromFile reads a ServerConfig from a YAML file at path, starting from
// DefaultConfig so the file only needs to override what it cares about.
func LoadFromFile(path string) (ServerConfig, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return cfg, fmt.Errorf("opening config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}
