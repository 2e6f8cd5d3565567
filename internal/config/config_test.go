package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigValidate tests validation of each configuration field.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"https://app.example.com"}
		return c
	}

	t.Run("defaults with a target are valid", func(t *testing.T) {
		t.Parallel()
		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no targets", func(c *Config) { c.Targets = nil }, ErrNoTarget},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"zero concurrency", func(c *Config) { c.MaxConcurrentFetches = 0 }, ErrInvalidConcurrency},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }, ErrInvalidRequestDelay},
		{"zero regex timeout", func(c *Config) { c.RegexTimeout = 0 }, ErrInvalidRegexTimeout},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests settings file loading and merging.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("load and merge", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
excluded_domains:
  - googletagmanager.com
  - /cdn\d+\.example\.net/
excluded_rules:
  - jwt
interesting_params:
  - redirect
  - callback
rules_file: /etc/jsrecon/rules.yml
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile: %v", err)
		}
		if len(f.ExcludedDomains) != 2 || len(f.InterestingParams) != 2 {
			t.Errorf("file = %+v", f)
		}

		c := NewConfig()
		c.InterestingParams = []string{"from-flag"}
		c.ApplyFile(f)

		if len(c.ExcludedDomains) != 2 || len(c.ExcludedRuleIDs) != 1 {
			t.Errorf("merged config = %+v", c)
		}
		// Flag-provided values win over file values.
		if len(c.InterestingParams) != 1 || c.InterestingParams[0] != "from-flag" {
			t.Errorf("InterestingParams = %v", c.InterestingParams)
		}
		if c.RulesFile != "/etc/jsrecon/rules.yml" {
			t.Errorf("RulesFile = %q", c.RulesFile)
		}
	})

	t.Run("missing file is ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("malformed YAML errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("excluded_domains: {not a list"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("explicit missing path finds nothing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("FindConfigFile = %q", got)
		}
	})
}
