package domain

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// KindCatalog is the static configuration of one record kind.
type KindCatalog struct {
	DefaultStatus Status      `yaml:"defaultStatus"`
	Statuses      StatusSet   `yaml:"statuses"`
	Categories    []string    `yaml:"categories"`
	Workflow      Transitions `yaml:"workflow"`
}

// HasCategory reports whether c is one of the configured categories.
func (kc KindCatalog) HasCategory(c string) bool {
	return slices.Contains(kc.Categories, c)
}

// Catalog holds the enumerations of every record kind.
type Catalog map[Kind]KindCatalog

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path, or returns the embedded one when path is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for _, k := range Kinds {
		kc, ok := c[k]
		if !ok {
			return nil, fmt.Errorf("catalog is missing kind %q", k)
		}
		if len(kc.Statuses) == 0 {
			return nil, fmt.Errorf("kind %q has no statuses", k)
		}
		if !kc.Statuses.Contains(kc.DefaultStatus) {
			return nil, fmt.Errorf("kind %q: default status %q is not a declared status", k, kc.DefaultStatus)
		}
		for from, targets := range kc.Workflow {
			if !kc.Statuses.Contains(from) {
				return nil, fmt.Errorf("kind %q: workflow references unknown status %q", k, from)
			}
			for _, to := range targets {
				if !kc.Statuses.Contains(to) {
					return nil, fmt.Errorf("kind %q: workflow references unknown status %q", k, to)
				}
			}
		}
	}
	return c, nil
}

// For returns the catalog of kind k. Unknown kinds yield an empty catalog.
func (c Catalog) For(k Kind) KindCatalog {
	return c[k]
}
