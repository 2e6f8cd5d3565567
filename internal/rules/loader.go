package rules

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrRulesFileNotFound is returned when the rule file does not exist.
var ErrRulesFileNotFound = errors.New("rules file not found")

// ruleFile is the on-disk YAML shape of a custom rule file.
//
// Example:
//
//	secret_rules:
//	  - id: internal_token
//	    regex: 'INT-[A-Za-z0-9]{20}'
//	    entropy: 3.0
//	categories:
//	  - category: "Feature Flags"
//	    rules:
//	      - id: flag_reference
//	        regex: 'featureFlag\(["'']([a-z_]+)["'']\)'
//	        group: 1
type ruleFile struct {
	// SecretRules extend the built-in "Potential Secrets" rule set.
	// Accepts a single rule or a list.
	SecretRules DescriptorList `yaml:"secret_rules"`

	// Categories define additional custom categories with their rules.
	Categories []CategoryRules `yaml:"categories"`
}

// LoadRulesFile reads custom rule definitions from a YAML file. It
// returns the extra secret rules and custom category rule sets; both may
// be empty. Rules are validated for shape here but compiled later by
// NewCatalog, where individual compile failures are non-fatal.
func LoadRulesFile(path string) ([]Descriptor, []CategoryRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrRulesFileNotFound
		}
		return nil, nil, err
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	for i, cat := range rf.Categories {
		if cat.Category == "" {
			return nil, nil, fmt.Errorf("rules file %s: categories[%d] has no category name", path, i)
		}
	}

	return rf.SecretRules, rf.Categories, nil
}
