package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
)

// recordCounts tallies change records by kind.
type recordCounts struct {
	added   int
	removed int
	changed int
}

func countRecords(records []drift.ChangeRecord) recordCounts {
	var counts recordCounts

	for _, record := range records {
		switch record.Kind {
		case drift.Added:
			counts.added++
		case drift.Removed:
			counts.removed++
		case drift.Changed:
			counts.changed++
		}
	}

	return counts
}

// newSummaryTable creates a table writer in the house style.
func newSummaryTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

// TemporalSummary writes a per-environment change table for a temporal
// comparison. Intended for the diagnostic stream, never for the payload.
func TemporalSummary(w io.Writer, result *drift.TemporalResult) {
	fmt.Fprintf(w, "changes %s -> %s: %s environments\n",
		result.OldRevision, result.NewRevision,
		humanize.Comma(int64(len(result.Environments))))

	if len(result.Environments) == 0 {
		return
	}

	tbl := newSummaryTable(w)
	tbl.AppendHeader(table.Row{"Environment", "File", "Added", "Removed", "Changed", "Note"})

	for _, env := range sortedKeys(result.Environments) {
		report := result.Environments[env]

		for _, name := range sortedKeys(report) {
			diff := report[name]
			counts := countRecords(diff.Records)

			tbl.AppendRow(table.Row{
				env, name,
				counts.added, counts.removed, counts.changed,
				fileNote(diff.Old.Absent(), diff.New.Absent()),
			})
		}
	}

	tbl.Render()
}

// CrossEnvSummary writes a per-file drift table for a cross-environment
// comparison.
func CrossEnvSummary(w io.Writer, result *drift.CrossEnvResult) {
	fmt.Fprintf(w, "drift %s vs %s at %s: %s files\n",
		result.LeftEnv, result.RightEnv, result.Revision,
		humanize.Comma(int64(len(result.Files))))

	if len(result.Files) == 0 {
		return
	}

	tbl := newSummaryTable(w)
	tbl.AppendHeader(table.Row{"File", "Added", "Removed", "Changed", "Note"})

	for _, name := range sortedKeys(result.Files) {
		fileDrift := result.Files[name]
		counts := countRecords(fileDrift.Records)

		tbl.AppendRow(table.Row{
			name,
			counts.added, counts.removed, counts.changed,
			fileNote(fileDrift.LeftAbsent, fileDrift.RightAbsent),
		})
	}

	tbl.Render()
}

// ValueDiff renders a compact inline diff between two values of a changed
// key, for verbose diagnostics.
func ValueDiff(oldVal, newVal string) string {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(oldVal, newVal, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	return dmp.DiffPrettyText(diffs)
}

// fileNote flags whole-file additions and removals.
func fileNote(oldAbsent, newAbsent bool) string {
	switch {
	case oldAbsent && newAbsent:
		return ""
	case oldAbsent:
		return "file added"
	case newAbsent:
		return "file removed"
	default:
		return ""
	}
}

// sortedKeys returns the sorted keys of a string-keyed map.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
