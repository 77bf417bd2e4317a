package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/groundrover/navplan/planconfig"
)

// loadConfig reads a YAML config file into a map (as the mapstructure
// decode step in planconfig.Decode expects) and validates it.
func loadConfig(path string) (planconfig.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return planconfig.Config{}, fmt.Errorf("reading config: %w", err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return planconfig.Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}

	cfg, err := planconfig.Decode(generic)
	if err != nil {
		return planconfig.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
