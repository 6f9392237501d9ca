package feed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one configured RSS or Atom feed
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// sourcesFile is the YAML layout:
//
//	feeds:
//	  - name: Example
//	    url: https://example.com/rss.xml
type sourcesFile struct {
	Feeds []Source `yaml:"feeds"`
}

// LoadSources reads the feed list from a YAML file
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feeds config: %w", err)
	}
	defer f.Close()

	var cfg sourcesFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode feeds config: %w", err)
	}

	sources := make([]Source, 0, len(cfg.Feeds))
	for i, s := range cfg.Feeds {
		s.URL = strings.TrimSpace(s.URL)
		if s.URL == "" {
			return nil, fmt.Errorf("feed %d has no url", i)
		}
		if s.Name == "" {
			s.Name = s.URL
		}
		sources = append(sources, s)
	}
	return sources, nil
}
