package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPyramid reads the pyramid settings. See load for the search order.
func LoadPyramid(customPath string) (PyramidConfig, error) {
	return load("pyramid.yaml", customPath, defaultPyramidYAML, DefaultPyramidConfig)
}

// LoadReef reads the reef settings.
func LoadReef(customPath string) (ReefConfig, error) {
	return load("reef.yaml", customPath, defaultReefYAML, DefaultReefConfig)
}

// LoadCrates reads the crates settings.
func LoadCrates(customPath string) (CratesConfig, error) {
	return load("crates.yaml", customPath, defaultCratesYAML, DefaultCratesConfig)
}

// load decodes a YAML file over the hardcoded defaults, so keys a file
// leaves out keep their default value.
//
// An explicit customPath must exist and parse. Without one the first
// readable and valid file of ~/.arcade/configs/<name> and ./configs/<name>
// wins, then the embedded copy. Broken optional files are skipped.
func load[T any](name, customPath string, embedded []byte, defaults func() T) (T, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return defaults(), fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg := defaults()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return defaults(), fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".arcade", "configs", name))
	}
	candidates = append(candidates, filepath.Join("configs", name))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := defaults()
		if yaml.Unmarshal(data, &cfg) == nil {
			return cfg, nil
		}
	}

	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil
	}
	return cfg, nil
}
