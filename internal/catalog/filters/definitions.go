// Package filters evaluates industry-specific attribute filters against
// catalog offerings.
package filters

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is the kind of a filter definition.
type Type string

const (
	TypeRange       Type = "range"
	TypeBoolean     Type = "boolean"
	TypeSelect      Type = "select"
	TypeMultiSelect Type = "multi_select"
)

// Definition describes one filter offered for an industry. Max is a display
// bound only; range filters compare against the lower threshold.
type Definition struct {
	Key     string   `yaml:"key" json:"key"`
	Label   string   `yaml:"label" json:"label"`
	Type    Type     `yaml:"type" json:"type"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Unit    string   `yaml:"unit,omitempty" json:"unit,omitempty"`
}

//go:embed definitions.yaml
var embeddedDefinitions []byte

type definitionsFile struct {
	Industries map[string][]Definition `yaml:"industries"`
}

// Definitions holds filter definitions keyed by lower-cased industry name.
type Definitions struct {
	byIndustry map[string][]Definition
}

// LoadDefinitions parses the built-in definitions.
func LoadDefinitions() (*Definitions, error) {
	return ParseDefinitions(embeddedDefinitions)
}

// ParseDefinitions parses a YAML definitions document.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse filter definitions: %w", err)
	}

	defs := &Definitions{byIndustry: make(map[string][]Definition, len(file.Industries))}
	for industry, list := range file.Industries {
		seen := make(map[string]bool, len(list))
		for _, d := range list {
			switch d.Type {
			case TypeRange, TypeBoolean, TypeSelect, TypeMultiSelect:
			default:
				return nil, fmt.Errorf("industry %q filter %q: unknown type %q", industry, d.Key, d.Type)
			}
			if d.Key == "" {
				return nil, fmt.Errorf("industry %q: filter without key", industry)
			}
			if seen[d.Key] {
				return nil, fmt.Errorf("industry %q: duplicate filter %q", industry, d.Key)
			}
			seen[d.Key] = true
		}
		defs.byIndustry[normalizeIndustry(industry)] = list
	}
	return defs, nil
}

// ForIndustry returns the definitions offered for an industry name.
func (d *Definitions) ForIndustry(industryName string) []Definition {
	list := d.byIndustry[normalizeIndustry(industryName)]
	out := make([]Definition, len(list))
	copy(out, list)
	return out
}

func normalizeIndustry(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
