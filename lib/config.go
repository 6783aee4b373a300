package lib

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultDescription = "Created by snapshotalyzer-30000"

// Config is read from $SHOTTY_CONFIG, or ~/.shotty.yaml when that is unset.
// A missing file yields the defaults.
type Config struct {
	Profile     string `yaml:"profile,omitempty"`
	Region      string `yaml:"region,omitempty"`
	Description string `yaml:"description,omitempty"`
}

func ConfigPath() string {
	if path := os.Getenv("SHOTTY_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shotty.yaml")
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			err = yaml.Unmarshal(data, config)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if config.Description == "" {
		config.Description = DefaultDescription
	}
	return config, nil
}

// Merge overlays non-empty session options from the command line onto the file values.
func (c *Config) Merge(opts SessionOptions) SessionOptions {
	if opts.Profile == "" {
		opts.Profile = c.Profile
	}
	if opts.Region == "" {
		opts.Region = c.Region
	}
	return opts
}
