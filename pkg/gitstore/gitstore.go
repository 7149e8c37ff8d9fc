// Package gitstore reads configuration files from revisions of a local git
// repository through libgit2, without checking anything out. It implements
// the drift.Backend contract with a closed set of typed error conditions.
package gitstore

import (
	"context"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
)

// Repository is a read-only view of a git repository. All libgit2 access is
// serialized through a dedicated worker goroutine (see worker.go); the
// exported methods are safe for concurrent use.
type Repository struct {
	repo     *git2go.Repository
	path     string
	requests chan request
	done     chan struct{}
}

// Open opens the repository at path and starts its access worker. The
// returned Repository must be released with Close.
func Open(path string) (*Repository, error) {
	repo, openErr := git2go.OpenRepository(path)
	if openErr != nil {
		return nil, fmt.Errorf("%w: open %s: %w", drift.ErrRepositoryAccess, path, openErr)
	}

	r := &Repository{
		repo:     repo,
		path:     path,
		requests: make(chan request),
		done:     make(chan struct{}),
	}

	go r.serve()

	return r, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Close shuts down the worker and releases the repository.
func (r *Repository) Close() {
	close(r.requests)
	<-r.done

	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ResolveRevision validates that ref names a tag or commit in the
// repository history. It returns drift.ErrInvalidReference otherwise.
func (r *Repository) ResolveRevision(ctx context.Context, ref string) error {
	resp := make(chan error, 1)

	sendErr := r.send(ctx, resolveRequest{ref: ref, resp: resp})
	if sendErr != nil {
		return sendErr
	}

	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FileContent returns the text of the file at path in the given revision.
// A file missing at that revision yields drift.ErrFileNotFound; every other
// failure is a fatal fetch error.
func (r *Repository) FileContent(ctx context.Context, rev, path string) (string, error) {
	resp := make(chan contentResponse, 1)

	sendErr := r.send(ctx, contentRequest{rev: rev, path: path, resp: resp})
	if sendErr != nil {
		return "", sendErr
	}

	select {
	case result := <-resp:
		return result.text, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FilesUnder lists all file paths recursively under dir at the given
// revision, relative to dir and in sorted order. A dir that does not exist
// at that revision yields drift.ErrPathNotFound.
func (r *Repository) FilesUnder(ctx context.Context, rev, dir string) ([]string, error) {
	resp := make(chan listResponse, 1)

	sendErr := r.send(ctx, listRequest{rev: rev, dir: dir, resp: resp})
	if sendErr != nil {
		return nil, sendErr
	}

	select {
	case result := <-resp:
		return result.paths, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// send delivers a request to the worker, honoring context cancellation.
func (r *Repository) send(ctx context.Context, req request) error {
	ctxErr := ctx.Err()
	if ctxErr != nil {
		return ctxErr
	}

	select {
	case r.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
