// Package drift implements the configuration diff engine: it reconciles
// property maps into classified change records, suppresses differences that
// are only environment-label substitutions, and assembles drift reports
// across environments and revisions of a config repository.
package drift

import "strings"

// Role selects which environment's label rules apply during normalization.
type Role int

// Roles for the two sides of a cross-environment comparison.
const (
	// RoleLeft is the first environment of the configured pair (e.g. "pt").
	RoleLeft Role = iota
	// RoleRight is the second environment of the pair (e.g. "prod").
	RoleRight
)

// Default strip rules for the pt/prod environment pair. Order matters when
// substrings overlap: each rule is applied fully before the next.
var (
	defaultLeftRules  = []string{"pt-", "contents-pt"}
	defaultRightRules = []string{"prod-", "prd-", "contents"}
)

// Normalizer strips environment-identifying substrings from values so that
// equivalent values across environments compare equal.
type Normalizer struct {
	leftRules  []string
	rightRules []string
}

// NewNormalizer creates a Normalizer with the default pt/prod strip rules.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithRules(defaultLeftRules, defaultRightRules)
}

// NewNormalizerWithRules creates a Normalizer with explicit per-role rules.
// Empty rule slices fall back to the defaults.
func NewNormalizerWithRules(leftRules, rightRules []string) *Normalizer {
	if len(leftRules) == 0 {
		leftRules = defaultLeftRules
	}

	if len(rightRules) == 0 {
		rightRules = defaultRightRules
	}

	return &Normalizer{leftRules: leftRules, rightRules: rightRules}
}

// Normalize deletes every occurrence of the role's strip substrings from
// value, applying rules in order. Empty input normalizes to the empty
// string. Pure function, no failure modes.
func (n *Normalizer) Normalize(value string, role Role) string {
	rules := n.leftRules
	if role == RoleRight {
		rules = n.rightRules
	}

	for _, rule := range rules {
		value = strings.ReplaceAll(value, rule, "")
	}

	return value
}
