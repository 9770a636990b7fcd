package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads in a config from the path on disk.  JSON and YAML are
// both accepted, selected by file extension.  Keys absent from the
// file retain their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	switch filepath.Ext(path) {
	case ".json":
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	case ".yml", ".yaml":
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown config format: %s", path)
	}
	return cfg, nil
}

// Save writes the config to the path on disk as indented JSON.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
