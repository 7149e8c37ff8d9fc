package drift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
)

func TestNormalizeDefaults(t *testing.T) {
	norm := drift.NewNormalizer()

	tests := []struct {
		name     string
		value    string
		role     drift.Role
		expected string
	}{
		{
			name:     "left strips pt prefix",
			value:    "pt-svc",
			role:     drift.RoleLeft,
			expected: "svc",
		},
		{
			name:     "right strips prod prefix",
			value:    "prod-svc",
			role:     drift.RoleRight,
			expected: "svc",
		},
		{
			name:     "right strips prd prefix",
			value:    "prd-cache01",
			role:     drift.RoleRight,
			expected: "cache01",
		},
		{
			name:     "every occurrence removed",
			value:    "pt-a.pt-b.pt-c",
			role:     drift.RoleLeft,
			expected: "a.b.c",
		},
		{
			name:     "left strips contents-pt",
			value:    "s3://contents-pt/bucket",
			role:     drift.RoleLeft,
			expected: "s3:///bucket",
		},
		{
			name:     "right strips contents",
			value:    "s3://contents/bucket",
			role:     drift.RoleRight,
			expected: "s3:///bucket",
		},
		{
			name:     "empty input",
			value:    "",
			role:     drift.RoleLeft,
			expected: "",
		},
		{
			name:     "untouched value",
			value:    "plain",
			role:     drift.RoleRight,
			expected: "plain",
		},
		{
			name:     "value reduced to empty",
			value:    "pt-",
			role:     drift.RoleLeft,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, norm.Normalize(tt.value, tt.role))
		})
	}
}

// Rule order matters when substrings overlap: the first rule is applied
// fully across the string before the next one starts.
func TestNormalizeRuleOrder(t *testing.T) {
	norm := drift.NewNormalizerWithRules([]string{"ab", "b"}, nil)

	// "ab" removed first leaves "b", then "b" is removed.
	assert.Equal(t, "", norm.Normalize("abb", drift.RoleLeft))

	reversedFirst := drift.NewNormalizerWithRules([]string{"b", "ab"}, nil)

	// "b" removed first leaves "aa"; "ab" then matches nothing.
	assert.Equal(t, "aa", reversedFirst.Normalize("abba", drift.RoleLeft))
}

func TestNormalizeCustomRulesFallBackToDefaults(t *testing.T) {
	norm := drift.NewNormalizerWithRules(nil, []string{"staging-"})

	assert.Equal(t, "svc", norm.Normalize("pt-svc", drift.RoleLeft))
	assert.Equal(t, "svc", norm.Normalize("staging-svc", drift.RoleRight))
}
