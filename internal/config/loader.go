package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default settings file name.
const DefaultConfigFile = ".jsrecon"

// ErrConfigNotFound is returned when the settings file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML settings file shape. Every field is optional;
// values present here are merged into Config unless the corresponding
// CLI flag was set explicitly.
type File struct {
	// ExcludedDomains lists script-URL patterns to skip.
	ExcludedDomains []string `yaml:"excluded_domains"`

	// ExcludedRules lists rule IDs to disable.
	ExcludedRules []string `yaml:"excluded_rules"`

	// InterestingParams lists parameter names for the Interesting
	// Parameters category.
	InterestingParams []string `yaml:"interesting_params"`

	// RulesFile points at a custom secret-rules YAML file.
	RulesFile string `yaml:"rules_file"`
}

// LoadConfigFile loads settings from a YAML file. A missing file is
// reported as ErrConfigNotFound so callers can distinguish "no config"
// from a malformed one.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile locates the settings file: the explicit path if given,
// otherwise .jsrecon in the current directory, then the home directory.
// Returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// ApplyFile merges file-sourced settings into the config. CLI flags
// win: only empty config fields are filled from the file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.Settings = f
	if len(c.ExcludedDomains) == 0 {
		c.ExcludedDomains = f.ExcludedDomains
	}
	if len(c.ExcludedRuleIDs) == 0 {
		c.ExcludedRuleIDs = f.ExcludedRules
	}
	if len(c.InterestingParams) == 0 {
		c.InterestingParams = f.InterestingParams
	}
	if c.RulesFile == "" {
		c.RulesFile = f.RulesFile
	}
}
