package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FeatureOption is a selectable characteristic for feature entries.
type FeatureOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// DefaultFeatures is used when no catalogue file is configured.
func DefaultFeatures() []FeatureOption {
	return []FeatureOption{
		{Value: "US", Label: "United States"},
		{Value: "CA", Label: "Canada"},
		{Value: "FR", Label: "France"},
		{Value: "DE", Label: "Germany"},
	}
}

// LoadFeatures reads the catalogue from a YAML file. An empty path yields the defaults.
func LoadFeatures(path string) ([]FeatureOption, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultFeatures(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read feature catalogue: %w", err)
	}
	return ParseFeatures(data)
}

// ParseFeatures decodes a catalogue document of the form
//
//	features:
//	  - value: US
//	    label: United States
func ParseFeatures(data []byte) ([]FeatureOption, error) {
	var doc struct {
		Features []FeatureOption `yaml:"features"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse feature catalogue: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Features))
	out := make([]FeatureOption, 0, len(doc.Features))
	for i, opt := range doc.Features {
		opt.Value = strings.TrimSpace(opt.Value)
		opt.Label = strings.TrimSpace(opt.Label)
		if opt.Value == "" {
			return nil, fmt.Errorf("catalog: feature %d has no value", i)
		}
		if _, dup := seen[opt.Value]; dup {
			return nil, fmt.Errorf("catalog: duplicate feature %q", opt.Value)
		}
		seen[opt.Value] = struct{}{}
		if opt.Label == "" {
			opt.Label = opt.Value
		}
		out = append(out, opt)
	}
	if len(out) == 0 {
		return nil, errors.New("catalog: feature catalogue is empty")
	}
	return out, nil
}
