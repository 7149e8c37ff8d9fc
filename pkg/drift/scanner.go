package drift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/confdrift/pkg/props"
)

// propertiesSuffix is the file suffix that marks a property file.
const propertiesSuffix = ".properties"

// ScannerOptions configures environment discovery and comparison.
type ScannerOptions struct {
	// ConfigRoot is the directory below which environment subdirectories
	// live. Empty means the repository root.
	ConfigRoot string
	// LeftEnv and RightEnv are the two environment names compared in
	// cross-environment mode (defaults "pt" and "prod").
	LeftEnv  string
	RightEnv string
	// Workers bounds concurrent per-file fetch/diff tasks. Zero means the
	// CPU count.
	Workers int
}

// Default environment pair for cross-environment comparison.
const (
	DefaultLeftEnv  = "pt"
	DefaultRightEnv = "prod"
)

// Scanner discovers environments and property files at revisions and drives
// the diff engine over them, assembling pruned drift reports.
type Scanner struct {
	backend Backend
	norm    *Normalizer
	opts    ScannerOptions
}

// NewScanner creates a Scanner over the given backend. The normalizer is
// consulted only by cross-environment comparisons.
func NewScanner(backend Backend, norm *Normalizer, opts ScannerOptions) *Scanner {
	if opts.LeftEnv == "" {
		opts.LeftEnv = DefaultLeftEnv
	}

	if opts.RightEnv == "" {
		opts.RightEnv = DefaultRightEnv
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &Scanner{backend: backend, norm: norm, opts: opts}
}

// fileTask is one property file scheduled for comparison.
type fileTask struct {
	env  string
	name string
}

// Temporal compares every environment's property files between two
// revisions of the configuration root. Normalization suppression is never
// applied: within one environment, a changed value is always meaningful.
//
// Discovery enumerates the new revision only. Files that existed at the old
// revision but are gone from the new revision's listing are not discovered
// and never appear as whole-file removals.
func (s *Scanner) Temporal(ctx context.Context, oldRev, newRev string) (*TemporalResult, error) {
	resolveErr := s.resolveAll(ctx, oldRev, newRev)
	if resolveErr != nil {
		return nil, resolveErr
	}

	result := &TemporalResult{
		OldRevision:  oldRev,
		NewRevision:  newRev,
		Environments: map[string]EnvironmentReport{},
	}

	paths, enumErr := s.backend.FilesUnder(ctx, newRev, s.opts.ConfigRoot)
	if enumErr != nil {
		// A missing configuration root is a valid historical state, not an
		// error: nothing to report. Any other enumeration failure is fatal.
		if errors.Is(enumErr, ErrPathNotFound) {
			return result, nil
		}

		return nil, fmt.Errorf("enumerate %q at %s: %w", s.opts.ConfigRoot, newRev, enumErr)
	}

	tasks := bucketTasks(paths)
	slog.Debug("temporal scan", "files", len(tasks), "old", oldRev, "new", newRev)

	diffs, diffErr := s.diffFiles(ctx, tasks, func(task fileTask) (props.Map, props.Map, error) {
		filePath := s.envPath(task.env, task.name)

		oldMap, oldErr := s.fetch(ctx, oldRev, filePath)
		if oldErr != nil {
			return nil, nil, oldErr
		}

		newMap, newErr := s.fetch(ctx, newRev, filePath)
		if newErr != nil {
			return nil, nil, newErr
		}

		return oldMap, newMap, nil
	}, false)
	if diffErr != nil {
		return nil, diffErr
	}

	for i, task := range tasks {
		if !diffs[i].Retained() {
			continue
		}

		report, ok := result.Environments[task.env]
		if !ok {
			report = EnvironmentReport{}
			result.Environments[task.env] = report
		}

		report[task.name] = diffs[i]
	}

	return result, nil
}

// CrossEnv compares the two configured environments at a single revision.
// Suppression of environment-label substitutions is applied when suppress
// is true.
func (s *Scanner) CrossEnv(ctx context.Context, rev string, suppress bool) (*CrossEnvResult, error) {
	resolveErr := s.resolveAll(ctx, rev)
	if resolveErr != nil {
		return nil, resolveErr
	}

	names, enumErr := s.unionFileNames(ctx, rev)
	if enumErr != nil {
		return nil, enumErr
	}

	slog.Debug("cross-environment scan",
		"files", len(names), "rev", rev,
		"left", s.opts.LeftEnv, "right", s.opts.RightEnv)

	tasks := make([]fileTask, len(names))
	for i, name := range names {
		tasks[i] = fileTask{name: name}
	}

	diffs, diffErr := s.diffFiles(ctx, tasks, func(task fileTask) (props.Map, props.Map, error) {
		leftMap, leftErr := s.fetch(ctx, rev, s.envPath(s.opts.LeftEnv, task.name))
		if leftErr != nil {
			return nil, nil, leftErr
		}

		rightMap, rightErr := s.fetch(ctx, rev, s.envPath(s.opts.RightEnv, task.name))
		if rightErr != nil {
			return nil, nil, rightErr
		}

		return leftMap, rightMap, nil
	}, suppress)
	if diffErr != nil {
		return nil, diffErr
	}

	result := &CrossEnvResult{
		Revision:   rev,
		LeftEnv:    s.opts.LeftEnv,
		RightEnv:   s.opts.RightEnv,
		Suppressed: suppress,
		Files:      map[string]FileDrift{},
	}

	for i, task := range tasks {
		if diffs[i].Retained() {
			result.Files[task.name] = diffs[i].Drift()
		}
	}

	return result, nil
}

// resolveAll validates every revision reference before any file I/O.
func (s *Scanner) resolveAll(ctx context.Context, refs ...string) error {
	for _, ref := range refs {
		resolveErr := s.backend.ResolveRevision(ctx, ref)
		if resolveErr != nil {
			return fmt.Errorf("resolve %q: %w", ref, resolveErr)
		}
	}

	return nil
}

// diffFiles runs fetch+parse+diff for every task with bounded parallelism.
// Each task owns exactly one slot of the result slice; the final report is
// assembled by the calling goroutine alone, so no shared state is mutated
// concurrently. Fetches are the only blocking step. Any failure aborts the
// whole run.
func (s *Scanner) diffFiles(
	ctx context.Context,
	tasks []fileTask,
	fetchPair func(fileTask) (props.Map, props.Map, error),
	suppress bool,
) ([]FileDiff, error) {
	diffs := make([]FileDiff, len(tasks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Workers)

	for i, task := range tasks {
		group.Go(func() error {
			ctxErr := groupCtx.Err()
			if ctxErr != nil {
				return ctxErr
			}

			oldMap, newMap, fetchErr := fetchPair(task)
			if fetchErr != nil {
				return fetchErr
			}

			diffs[i] = FileDiff{
				Old:     oldMap,
				New:     newMap,
				Records: Diff(oldMap, newMap, suppress, s.norm),
			}

			return nil
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		return nil, waitErr
	}

	return diffs, nil
}

// fetch reads and parses one property file at a revision. A file missing at
// that revision yields an absent (nil) map, not an error.
func (s *Scanner) fetch(ctx context.Context, rev, filePath string) (props.Map, error) {
	text, fetchErr := s.backend.FileContent(ctx, rev, filePath)
	if fetchErr != nil {
		if errors.Is(fetchErr, ErrFileNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetch %q at %s: %w", filePath, rev, fetchErr)
	}

	parsed, parseErr := props.Parse(text)
	if parseErr != nil {
		return nil, fmt.Errorf("parse %q at %s: %w", filePath, rev, parseErr)
	}

	return parsed, nil
}

// envPath joins the configuration root, environment and file name into a
// repository path.
func (s *Scanner) envPath(env, name string) string {
	return path.Join(s.opts.ConfigRoot, env, name)
}

// unionFileNames enumerates property files under both environment
// directories and returns the sorted union of their names. A missing
// environment directory is a caller/config error, unlike the temporal-mode
// configuration root.
func (s *Scanner) unionFileNames(ctx context.Context, rev string) ([]string, error) {
	seen := map[string]struct{}{}

	for _, env := range []string{s.opts.LeftEnv, s.opts.RightEnv} {
		dir := path.Join(s.opts.ConfigRoot, env)

		paths, enumErr := s.backend.FilesUnder(ctx, rev, dir)
		if enumErr != nil {
			return nil, fmt.Errorf("enumerate %q at %s: %w", dir, rev, enumErr)
		}

		for _, p := range paths {
			if strings.HasSuffix(p, propertiesSuffix) {
				seen[p] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// bucketTasks partitions discovered paths into (environment, file) tasks by
// the first path segment, keeping only property files. Tasks come out in
// sorted path order for deterministic reports.
func bucketTasks(paths []string) []fileTask {
	sorted := make([]string, 0, len(paths))

	for _, p := range paths {
		if strings.HasSuffix(p, propertiesSuffix) {
			sorted = append(sorted, p)
		}
	}

	sort.Strings(sorted)

	tasks := make([]fileTask, 0, len(sorted))

	for _, p := range sorted {
		env, name, ok := strings.Cut(p, "/")
		if !ok {
			// Property file directly under the root belongs to no
			// environment; skip it.
			continue
		}

		tasks = append(tasks, fileTask{env: env, name: name})
	}

	return tasks
}
