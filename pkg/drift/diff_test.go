package drift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
	"github.com/Sumatoshi-tech/confdrift/pkg/props"
)

func strPtr(s string) *string { return &s }

func TestDiffIdenticalMapsYieldNoRecords(t *testing.T) {
	m := props.Map{"a": "1", "b": "2", "c": ""}

	assert.Empty(t, drift.Diff(m, m, false, drift.NewNormalizer()))
}

// Old map {a:1, b:2} against new map {a:1, b:3, c:4} yields exactly one
// changed record for b and one added record for c; a never appears.
func TestDiffClassification(t *testing.T) {
	oldMap := props.Map{"a": "1", "b": "2"}
	newMap := props.Map{"a": "1", "b": "3", "c": "4"}

	records := drift.Diff(oldMap, newMap, false, drift.NewNormalizer())

	require.Len(t, records, 2)
	assert.Equal(t, drift.ChangeRecord{
		Key:  "b",
		Kind: drift.Changed,
		Old:  strPtr("2"),
		New:  strPtr("3"),
	}, records[0])
	assert.Equal(t, drift.ChangeRecord{
		Key:  "c",
		Kind: drift.Added,
		New:  strPtr("4"),
	}, records[1])
}

func TestDiffRemoved(t *testing.T) {
	records := drift.Diff(props.Map{"gone": "x"}, props.Map{}, false, drift.NewNormalizer())

	require.Len(t, records, 1)
	assert.Equal(t, drift.ChangeRecord{
		Key:  "gone",
		Kind: drift.Removed,
		Old:  strPtr("x"),
	}, records[0])
}

func TestDiffAbsentMapTreatedAsZeroKeys(t *testing.T) {
	newMap := props.Map{"a": "1", "b": "2"}

	records := drift.Diff(nil, newMap, false, drift.NewNormalizer())

	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, drift.Added, record.Kind)
		assert.Nil(t, record.Old)
	}

	records = drift.Diff(newMap, nil, false, drift.NewNormalizer())

	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, drift.Removed, record.Kind)
		assert.Nil(t, record.New)
	}

	assert.Empty(t, drift.Diff(nil, nil, false, drift.NewNormalizer()))
}

// The output key set equals exactly the set of disagreeing keys, each
// appearing once.
func TestDiffKeySetMatchesDisagreements(t *testing.T) {
	oldMap := props.Map{"same": "v", "changed": "1", "removed": "r"}
	newMap := props.Map{"same": "v", "changed": "2", "added": "a"}

	records := drift.Diff(oldMap, newMap, false, drift.NewNormalizer())

	keys := map[string]int{}
	for _, record := range records {
		keys[record.Key]++
	}

	assert.Equal(t, map[string]int{"changed": 1, "removed": 1, "added": 1}, keys)
}

// A changed value whose sides normalize to the same non-empty string is
// suppressed with suppression on, and reported with suppression off.
func TestDiffSuppression(t *testing.T) {
	norm := drift.NewNormalizer()
	left := props.Map{"host": "pt-svc"}
	right := props.Map{"host": "prod-svc"}

	assert.Empty(t, drift.Diff(left, right, true, norm))

	unsuppressed := drift.Diff(left, right, false, norm)
	require.Len(t, unsuppressed, 1)
	assert.Equal(t, drift.Changed, unsuppressed[0].Kind)
}

func TestDiffSuppressionRequiresNonEmptyNormalizedValue(t *testing.T) {
	norm := drift.NewNormalizer()

	// Both normalize to empty: never suppressed.
	records := drift.Diff(props.Map{"k": "pt-"}, props.Map{"k": "prod-"}, true, norm)
	require.Len(t, records, 1)
	assert.Equal(t, drift.Changed, records[0].Kind)
}

func TestDiffSuppressionSkipsEmptyValues(t *testing.T) {
	norm := drift.NewNormalizer()

	// An empty side is never suppressed even when the other normalizes to
	// empty as well.
	records := drift.Diff(props.Map{"k": ""}, props.Map{"k": "prod-"}, true, norm)
	require.Len(t, records, 1)
}

func TestDiffSuppressionOnlyAppliesToChanged(t *testing.T) {
	norm := drift.NewNormalizer()

	// One-sided keys are Added/Removed and always survive suppression.
	records := drift.Diff(props.Map{}, props.Map{"k": "prod-svc"}, true, norm)
	require.Len(t, records, 1)
	assert.Equal(t, drift.Added, records[0].Kind)
}

func TestDiffDeterministicOrder(t *testing.T) {
	oldMap := props.Map{"z": "1", "a": "1", "m": "1"}
	newMap := props.Map{}

	first := drift.Diff(oldMap, newMap, false, drift.NewNormalizer())
	second := drift.Diff(oldMap, newMap, false, drift.NewNormalizer())

	assert.Equal(t, first, second)

	keys := make([]string, len(first))
	for i, record := range first {
		keys[i] = record.Key
	}

	assert.Equal(t, []string{"a", "m", "z"}, keys)
}

func TestChangeKindString(t *testing.T) {
	assert.Equal(t, "added", drift.Added.String())
	assert.Equal(t, "removed", drift.Removed.String())
	assert.Equal(t, "changed", drift.Changed.String())
}

func TestChangeKindMarshalJSON(t *testing.T) {
	data, err := drift.Changed.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"changed"`, string(data))
}
