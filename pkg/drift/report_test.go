package drift_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
	"github.com/Sumatoshi-tech/confdrift/pkg/props"
)

func TestFileDiffRetained(t *testing.T) {
	tests := []struct {
		name     string
		diff     drift.FileDiff
		retained bool
	}{
		{
			name:     "no records and both sides present",
			diff:     drift.FileDiff{Old: props.Map{}, New: props.Map{"a": "1"}},
			retained: false,
		},
		{
			name: "records present",
			diff: drift.FileDiff{
				Old:     props.Map{"a": "1"},
				New:     props.Map{"a": "2"},
				Records: []drift.ChangeRecord{{Key: "a", Kind: drift.Changed}},
			},
			retained: true,
		},
		{
			name:     "old side absent",
			diff:     drift.FileDiff{New: props.Map{"x": "1"}},
			retained: true,
		},
		{
			name:     "new side absent",
			diff:     drift.FileDiff{Old: props.Map{}},
			retained: true,
		},
		{
			// Retention is driven by absence alone, even against an empty
			// existing side.
			name:     "absent versus present-empty",
			diff:     drift.FileDiff{New: props.Map{}},
			retained: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retained, tt.diff.Retained())
		})
	}
}

// Absence must survive serialization: a nil side marshals to null, a
// present-empty side to {}.
func TestFileDiffJSONKeepsTriState(t *testing.T) {
	diff := drift.FileDiff{New: props.Map{}}

	data, err := json.Marshal(diff)
	require.NoError(t, err)
	assert.JSONEq(t, `{"old":null,"new":{},"records":null}`, string(data))
}

func TestFileDriftView(t *testing.T) {
	diff := drift.FileDiff{
		New: props.Map{"x": "1"},
		Records: []drift.ChangeRecord{
			{Key: "x", Kind: drift.Added, New: strPtr("1")},
		},
	}

	view := diff.Drift()

	assert.True(t, view.LeftAbsent)
	assert.False(t, view.RightAbsent)
	assert.Equal(t, diff.Records, view.Records)
}

// The cross-environment view never carries the raw property maps.
func TestFileDriftJSONOmitsContent(t *testing.T) {
	diff := drift.FileDiff{
		Old: props.Map{"secret": "value"},
		New: props.Map{"secret": "other"},
		Records: []drift.ChangeRecord{
			{Key: "secret", Kind: drift.Changed, Old: strPtr("value"), New: strPtr("other")},
		},
	}

	data, err := json.Marshal(diff.Drift())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "old")
	assert.NotContains(t, decoded, "new")
	assert.Contains(t, decoded, "records")
}
