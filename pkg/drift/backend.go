package drift

import (
	"context"
	"errors"
)

// Typed backend error conditions. The scanner classifies backend failures
// with errors.Is against this closed set, never by matching message text.
var (
	// ErrInvalidReference means a revision reference resolves to neither a
	// tag nor a commit in the repository history.
	ErrInvalidReference = errors.New("unresolvable revision reference")

	// ErrRepositoryAccess means the configured repository path does not
	// exist or is not a valid git working copy.
	ErrRepositoryAccess = errors.New("repository not accessible")

	// ErrPathNotFound means a directory enumeration targeted a path that
	// does not exist at the given revision.
	ErrPathNotFound = errors.New("path not found at revision")

	// ErrFileNotFound means a file does not exist at the given revision.
	// It is the only non-fatal fetch outcome: the scanner turns it into an
	// absent property map.
	ErrFileNotFound = errors.New("file not found at revision")
)

// Backend is the version-control collaborator the scanner reads from.
// Implementations are injected by the caller; there is no ambient global
// repository handle.
type Backend interface {
	// ResolveRevision validates that ref names a tag or commit reachable in
	// the repository history. Returns ErrInvalidReference otherwise.
	ResolveRevision(ctx context.Context, ref string) error

	// FileContent returns the decoded text of the file at path in the given
	// revision. Returns ErrFileNotFound when the file does not exist there;
	// any other error is fatal for the run.
	FileContent(ctx context.Context, rev, path string) (string, error)

	// FilesUnder lists all file paths recursively under dir at the given
	// revision, relative to dir. Returns ErrPathNotFound when dir does not
	// exist at that revision.
	FilesUnder(ctx context.Context, rev, dir string) ([]string, error)
}
