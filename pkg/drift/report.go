package drift

import "github.com/Sumatoshi-tech/confdrift/pkg/props"

// FileDiff pairs the two property maps compared for one file with the
// surviving change records. A nil map side marks the file as absent at that
// revision/environment; JSON keeps the distinction (null vs {}).
type FileDiff struct {
	Old     props.Map      `json:"old" yaml:"old"`
	New     props.Map      `json:"new" yaml:"new"`
	Records []ChangeRecord `json:"records" yaml:"records"`
}

// Retained reports whether the diff belongs in a report: either at least one
// key-level record survived, or one side is wholly absent. A whole-file
// addition or removal is always reported, even when the existing side has
// zero keys — the missing file is itself the signal.
func (d FileDiff) Retained() bool {
	return len(d.Records) > 0 || d.Old.Absent() || d.New.Absent()
}

// EnvironmentReport maps property-file name to its diff for one environment.
type EnvironmentReport map[string]FileDiff

// TemporalResult is the output of comparing two revisions across all
// environments. Environments with no retained file diffs are pruned.
type TemporalResult struct {
	OldRevision  string                       `json:"old_revision" yaml:"old_revision"`
	NewRevision  string                       `json:"new_revision" yaml:"new_revision"`
	Environments map[string]EnvironmentReport `json:"environments" yaml:"environments"`
}

// FileDrift is the cross-environment view of a FileDiff: records plus
// absence markers, without the raw property maps. Cross-environment output
// carries diffs only to bound payload size; the absence flags preserve the
// whole-file add/removal signal the maps would otherwise carry.
type FileDrift struct {
	LeftAbsent  bool           `json:"left_absent,omitempty" yaml:"left_absent,omitempty"`
	RightAbsent bool           `json:"right_absent,omitempty" yaml:"right_absent,omitempty"`
	Records     []ChangeRecord `json:"records" yaml:"records"`
}

// Drift reduces the diff to its cross-environment view.
func (d FileDiff) Drift() FileDrift {
	return FileDrift{
		LeftAbsent:  d.Old.Absent(),
		RightAbsent: d.New.Absent(),
		Records:     d.Records,
	}
}

// CrossEnvResult is the output of comparing two environments at one
// revision. The payload carries diffs only; raw per-environment content is
// dropped once diffs are computed to bound output size.
type CrossEnvResult struct {
	Revision   string               `json:"revision" yaml:"revision"`
	LeftEnv    string               `json:"left_env" yaml:"left_env"`
	RightEnv   string               `json:"right_env" yaml:"right_env"`
	Suppressed bool                 `json:"suppressed" yaml:"suppressed"`
	Files      map[string]FileDrift `json:"files" yaml:"files"`
}
