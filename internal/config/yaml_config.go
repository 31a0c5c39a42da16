package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"companyfinder/internal/fetcher"
	"companyfinder/internal/validation"
)

// SourcesConfig represents the structure of the sources file: the ordered
// list of dataset providers, primary first.
type SourcesConfig struct {
	Sources []fetcher.Source `yaml:"sources"`
}

// LoadSources loads the sources file at path.
// Returns DefaultSources without error if the file doesn't exist.
func LoadSources(path string) ([]fetcher.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Sources file is optional
			return fetcher.DefaultSources, nil
		}
		return nil, err
	}

	var cfg SourcesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		return fetcher.DefaultSources, nil
	}

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if src.Name == "" {
			src.Name = fmt.Sprintf("source-%d", i+1)
		}
		if ok, msg := validation.ValidateSource(src.CompaniesURL, src.ProblemsURL); !ok {
			return nil, fmt.Errorf("source %q: %s", src.Name, msg)
		}
	}
	return cfg.Sources, nil
}
