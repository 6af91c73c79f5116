// ABOUTME: YAML sources file lets operators tune each source binding
// ABOUTME: Settings override session defaults for enabled state, feed and pagination

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceSettings overrides session defaults for one source
type SourceSettings struct {
	ID             string        `yaml:"id"`
	Enabled        *bool         `yaml:"enabled"`
	Feed           string        `yaml:"feed"`
	MaxPages       int           `yaml:"max_pages"`
	PageSize       int           `yaml:"page_size"`
	EndOnShortPage *bool         `yaml:"end_on_short_page"`
	CacheMaxAge    time.Duration `yaml:"cache_max_age"`
}

// IsEnabled returns the configured enabled state or def when unset
func (s SourceSettings) IsEnabled(def bool) bool {
	if s.Enabled == nil {
		return def
	}
	return *s.Enabled
}

type sourcesFile struct {
	Sources []SourceSettings `yaml:"sources"`
}

// LoadSourcesFile reads per-source settings from a YAML file:
//
//	sources:
//	  - id: hackernews
//	    feed: best
//	    max_pages: 5
//	    cache_max_age: 10m
//	  - id: producthunt
//	    enabled: false
func LoadSourcesFile(path string) (map[string]SourceSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes the YAML sources document
func ParseSources(data []byte) (map[string]SourceSettings, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	settings := make(map[string]SourceSettings, len(file.Sources))
	for i, s := range file.Sources {
		if s.ID == "" {
			return nil, fmt.Errorf("sources[%d]: id is required", i)
		}
		if _, dup := settings[s.ID]; dup {
			return nil, fmt.Errorf("sources[%d]: duplicate id %q", i, s.ID)
		}
		settings[s.ID] = s
	}
	return settings, nil
}
