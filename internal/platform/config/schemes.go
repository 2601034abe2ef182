package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemeOverride adjusts a built-in scheme before its engine is constructed.
// Zero values leave the built-in setting untouched.
type SchemeOverride struct {
	Title          string `yaml:"title"`
	IDPrefix       string `yaml:"id_prefix"`
	MinAge         *int   `yaml:"min_age"`
	MaxAge         *int   `yaml:"max_age"`
	SuccessMessage string `yaml:"success_message"`
	Disabled       bool   `yaml:"disabled"`
}

// SchemesFile is the document read from SCHEMES_FILE.
//
//	schemes:
//	  khel-mahakumbh:
//	    max_age: 55
//	  youth-volunteering:
//	    disabled: true
type SchemesFile struct {
	Schemes map[string]SchemeOverride `yaml:"schemes"`
}

// LoadSchemeOverrides reads the overrides file. An empty path yields no
// overrides.
func LoadSchemeOverrides(path string) (map[string]SchemeOverride, error) {
	if path == "" {
		return map[string]SchemeOverride{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schemes file: %w", err)
	}

	var file SchemesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schemes file: %w", err)
	}
	if file.Schemes == nil {
		file.Schemes = map[string]SchemeOverride{}
	}

	for slug, o := range file.Schemes {
		if o.MinAge != nil && *o.MinAge < 0 {
			return nil, fmt.Errorf("scheme %s: min_age must not be negative", slug)
		}
		if o.MinAge != nil && o.MaxAge != nil && *o.MinAge > *o.MaxAge {
			return nil, fmt.Errorf("scheme %s: min_age exceeds max_age", slug)
		}
	}
	return file.Schemes, nil
}
