package gitstore

import (
	"fmt"
	"runtime"
	"sort"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
)

// request is a unit of work for the repository worker.
type request interface {
	isRequest()
}

// resolveRequest validates a revision reference.
type resolveRequest struct {
	ref  string
	resp chan<- error
}

// contentRequest reads one file at a revision.
type contentRequest struct {
	rev  string
	path string
	resp chan<- contentResponse
}

// contentResponse carries the result of a contentRequest.
type contentResponse struct {
	text string
	err  error
}

// listRequest enumerates files under a directory at a revision.
type listRequest struct {
	rev  string
	dir  string
	resp chan<- listResponse
}

// listResponse carries the result of a listRequest.
type listResponse struct {
	paths []string
	err   error
}

func (resolveRequest) isRequest() {}
func (contentRequest) isRequest() {}
func (listRequest) isRequest()    {}

// serve is the worker loop. libgit2 objects are not safe for concurrent
// use, so every CGO call runs here, on one goroutine locked to its OS
// thread. Callers communicate through request/response channels only.
func (r *Repository) serve() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for req := range r.requests {
		switch q := req.(type) {
		case resolveRequest:
			q.resp <- r.resolve(q.ref)
		case contentRequest:
			text, err := r.content(q.rev, q.path)
			q.resp <- contentResponse{text: text, err: err}
		case listRequest:
			paths, err := r.list(q.rev, q.dir)
			q.resp <- listResponse{paths: paths, err: err}
		}
	}

	close(r.done)
}

// resolve checks that ref peels to a commit.
func (r *Repository) resolve(ref string) error {
	commit, resolveErr := r.peelToCommit(ref)
	if resolveErr != nil {
		return resolveErr
	}

	commit.Free()

	return nil
}

// peelToCommit resolves a revision reference (tag name, commit id, or any
// rev-parse expression) to the commit it addresses.
func (r *Repository) peelToCommit(ref string) (*git2go.Commit, error) {
	obj, parseErr := r.repo.RevparseSingle(ref)
	if parseErr != nil {
		return nil, fmt.Errorf("%w: %s", drift.ErrInvalidReference, ref)
	}
	defer obj.Free()

	peeled, peelErr := obj.Peel(git2go.ObjectCommit)
	if peelErr != nil {
		return nil, fmt.Errorf("%w: %s does not address a commit", drift.ErrInvalidReference, ref)
	}

	commit, commitErr := peeled.AsCommit()
	if commitErr != nil {
		peeled.Free()

		return nil, fmt.Errorf("%w: %s does not address a commit", drift.ErrInvalidReference, ref)
	}

	return commit, nil
}

// treeAt returns the root tree of the commit ref addresses.
func (r *Repository) treeAt(ref string) (*git2go.Tree, error) {
	commit, resolveErr := r.peelToCommit(ref)
	if resolveErr != nil {
		return nil, resolveErr
	}
	defer commit.Free()

	tree, treeErr := commit.Tree()
	if treeErr != nil {
		return nil, fmt.Errorf("tree of %s: %w", ref, treeErr)
	}

	return tree, nil
}

// content reads one blob by path at a revision.
func (r *Repository) content(rev, path string) (string, error) {
	tree, treeErr := r.treeAt(rev)
	if treeErr != nil {
		return "", treeErr
	}
	defer tree.Free()

	entry, entryErr := tree.EntryByPath(path)
	if entryErr != nil {
		if git2go.IsErrorCode(entryErr, git2go.ErrorCodeNotFound) {
			return "", fmt.Errorf("%w: %s at %s", drift.ErrFileNotFound, path, rev)
		}

		return "", fmt.Errorf("lookup %s at %s: %w", path, rev, entryErr)
	}

	if entry.Type != git2go.ObjectBlob {
		return "", fmt.Errorf("%w: %s at %s is not a file", drift.ErrFileNotFound, path, rev)
	}

	blob, blobErr := r.repo.LookupBlob(entry.Id)
	if blobErr != nil {
		return "", fmt.Errorf("lookup blob %s at %s: %w", path, rev, blobErr)
	}
	defer blob.Free()

	return string(blob.Contents()), nil
}

// list enumerates blob paths under dir at a revision, relative to dir.
func (r *Repository) list(rev, dir string) ([]string, error) {
	tree, treeErr := r.treeAt(rev)
	if treeErr != nil {
		return nil, treeErr
	}
	defer tree.Free()

	if dir != "" && dir != "." {
		sub, subErr := r.subtree(tree, dir, rev)
		if subErr != nil {
			return nil, subErr
		}
		defer sub.Free()

		tree = sub
	}

	var paths []string

	walkTree(r.repo, tree, "", func(path string) {
		paths = append(paths, path)
	})

	sort.Strings(paths)

	return paths, nil
}

// subtree descends from the root tree to the subtree at dir.
func (r *Repository) subtree(root *git2go.Tree, dir, rev string) (*git2go.Tree, error) {
	entry, entryErr := root.EntryByPath(dir)
	if entryErr != nil || entry.Type != git2go.ObjectTree {
		return nil, fmt.Errorf("%w: %q at %s", drift.ErrPathNotFound, dir, rev)
	}

	sub, lookupErr := r.repo.LookupTree(entry.Id)
	if lookupErr != nil {
		return nil, fmt.Errorf("lookup tree %q at %s: %w", dir, rev, lookupErr)
	}

	return sub, nil
}

// walkTree recursively visits every blob in a tree, building slash-joined
// paths relative to the walk root. Entries that cannot be looked up are
// skipped.
func walkTree(repo *git2go.Repository, tree *git2go.Tree, prefix string, visit func(path string)) {
	count := tree.EntryCount()

	for i := uint64(0); i < count; i++ {
		entry := tree.EntryByIndex(i)
		if entry == nil {
			continue
		}

		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + path
		}

		switch entry.Type {
		case git2go.ObjectBlob:
			visit(path)
		case git2go.ObjectTree:
			sub, lookupErr := repo.LookupTree(entry.Id)
			if lookupErr != nil {
				continue
			}

			walkTree(repo, sub, path, visit)
			sub.Free()
		default:
		}
	}
}
