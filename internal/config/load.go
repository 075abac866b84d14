package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides. Nested keys use
// a double underscore, e.g. VIDSIFT_THRESHOLDS__MIN_WIDTH.
const EnvPrefix = "VIDSIFT_"

// DefaultConfigPaths lists the paths searched for a config file when none is
// given explicitly. The first file found is used.
var DefaultConfigPaths = []string{
	"vidsift.yaml",
	"vidsift.yml",
}

// Load builds a Config from defaults, an optional YAML file and VIDSIFT_
// environment variables, in that order of precedence. An explicit path that
// does not exist is an error; when path is empty the default locations are
// searched and a missing file is fine.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := NewConfig(DefaultDatasetDir, DefaultCleanedDir, "")
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: config file %s: %v", ErrInvalidConfig, path, err)
		}
	} else {
		path = findConfigFile()
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransform maps VIDSIFT_SAMPLING__NUM_FRAMES to sampling.num_frames.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
