package drift

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/confdrift/pkg/props"
)

// ChangeKind classifies how a key differs between two property maps.
type ChangeKind int

// Change classifications.
const (
	// Added means the key is present only on the new side.
	Added ChangeKind = iota
	// Removed means the key is present only on the old side.
	Removed
	// Changed means the key is present on both sides with different values.
	Changed
)

// kindNames maps ChangeKind values to their wire representation.
var kindNames = map[ChangeKind]string{
	Added:   "added",
	Removed: "removed",
	Changed: "changed",
}

// String returns the lowercase name of the change kind.
func (k ChangeKind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}

	return name
}

// MarshalJSON encodes the kind as its lowercase name.
func (k ChangeKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// MarshalYAML encodes the kind as its lowercase name.
func (k ChangeKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// ChangeRecord is one key's classified difference. A nil Old or New pointer
// marks the value as missing on that side, distinct from an empty string.
type ChangeRecord struct {
	Key  string     `json:"key" yaml:"key"`
	Kind ChangeKind `json:"kind" yaml:"kind"`
	Old  *string    `json:"old" yaml:"old"`
	New  *string    `json:"new" yaml:"new"`
}

// Diff reconciles two optional property maps into an ordered list of change
// records. A nil map is treated as having zero keys. Records are emitted in
// sorted key order, so output is deterministic for identical inputs.
//
// When suppress is true, Changed records whose two values normalize to the
// same non-empty string (old as RoleLeft, new as RoleRight) are dropped:
// they differ only by environment labeling, not by real drift. Temporal
// comparisons must pass suppress=false, since a changed value is always
// meaningful within one environment.
func Diff(oldMap, newMap props.Map, suppress bool, norm *Normalizer) []ChangeRecord {
	keys := unionKeys(oldMap, newMap)

	var records []ChangeRecord

	for _, key := range keys {
		oldVal, oldOK := oldMap[key]
		newVal, newOK := newMap[key]

		if oldOK && newOK && oldVal == newVal {
			continue
		}

		record := classify(key, oldVal, newVal, oldOK, newOK)

		if suppress && record.Kind == Changed && oldVal != "" && newVal != "" {
			normalized := norm.Normalize(oldVal, RoleLeft)
			if normalized != "" && normalized == norm.Normalize(newVal, RoleRight) {
				continue
			}
		}

		records = append(records, record)
	}

	return records
}

// classify builds the change record for a key that differs between sides.
func classify(key, oldVal, newVal string, oldOK, newOK bool) ChangeRecord {
	record := ChangeRecord{Key: key}

	switch {
	case oldOK && newOK:
		record.Kind = Changed
		record.Old = &oldVal
		record.New = &newVal
	case oldOK:
		record.Kind = Removed
		record.Old = &oldVal
	default:
		record.Kind = Added
		record.New = &newVal
	}

	return record
}

// unionKeys returns the sorted union of keys from both maps.
func unionKeys(oldMap, newMap props.Map) []string {
	seen := make(map[string]struct{}, len(oldMap)+len(newMap))

	for key := range oldMap {
		seen[key] = struct{}{}
	}

	for key := range newMap {
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
