package rules

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsrecon/jsrecon/internal/model"
)

// Descriptor is the serializable form of a rule. It carries everything
// needed to reconstruct an executable pattern in another context: regex
// source, flags, the capture group that extracts the value, and the
// entropy threshold for secret-style rules.
//
// Design decision: descriptors never hold a live *regexp.Regexp because
// rule sets cross process and file boundaries (YAML rule files, the
// SQLite store); compilation happens exactly once per scan invocation
// via Compile.
type Descriptor struct {
	// ID identifies the rule in findings and exclusion lists.
	ID string `yaml:"id" json:"id"`

	// Source is the regular expression source text.
	Source string `yaml:"regex" json:"regex"`

	// Flags holds pattern flags: "i" (case-insensitive), "m" (multi-line),
	// "s" (dot matches newline). The global flag "g" is accepted and
	// ignored because matching is always global here.
	Flags string `yaml:"flags,omitempty" json:"flags,omitempty"`

	// Group is the capture group index whose text becomes the finding
	// value. 0 (the default) means the whole match.
	Group int `yaml:"group,omitempty" json:"group,omitempty"`

	// Entropy is the minimum Shannon entropy a matched value must have.
	// 0 (the default) means no gating.
	Entropy float64 `yaml:"entropy,omitempty" json:"entropy,omitempty"`
}

// Rule is a compiled, executable rule.
type Rule struct {
	Descriptor

	// Pattern is the compiled regex. A nil Pattern marks a disabled or
	// malformed rule; the engine skips it silently.
	Pattern *regexp.Regexp
}

// Compile builds the executable rule from the descriptor. Flags are
// translated into the equivalent inline (?...) group.
func (d Descriptor) Compile() (Rule, error) {
	if d.Source == "" {
		return Rule{}, fmt.Errorf("rule %q has empty regex source", d.ID)
	}

	var inline strings.Builder
	for _, f := range d.Flags {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		case 'g':
			// Matching is always global; nothing to do.
		default:
			return Rule{}, fmt.Errorf("rule %q has unsupported flag %q", d.ID, string(f))
		}
	}

	source := d.Source
	if inline.Len() > 0 {
		source = "(?" + inline.String() + ")" + source
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", d.ID, err)
	}

	return Rule{Descriptor: d, Pattern: re}, nil
}

// withFlag returns a copy of d whose flag set includes f.
func (d Descriptor) withFlag(f rune) Descriptor {
	if strings.ContainsRune(d.Flags, f) {
		return d
	}
	d.Flags += string(f)
	return d
}

// DescriptorList accepts either a single descriptor or a sequence of
// descriptors in YAML, normalizing both shapes into a slice at the
// decode boundary so the rest of the code only ever sees slices.
type DescriptorList []Descriptor

// UnmarshalYAML implements yaml.Unmarshaler for the one-or-many shape.
func (l *DescriptorList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var many []Descriptor
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = many
		return nil
	}

	var one Descriptor
	if err := value.Decode(&one); err != nil {
		return err
	}
	*l = DescriptorList{one}
	return nil
}

// CategoryRules associates a category with its descriptors. Used by the
// YAML rule file format.
type CategoryRules struct {
	// Category names the finding bucket the rules feed.
	Category model.Category `yaml:"category"`

	// Rules holds one or many rule descriptors.
	Rules DescriptorList `yaml:"rules"`
}
