package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// configRepo is a throwaway configuration repository with the standard
// pt/prod layout and two tagged revisions.
type configRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

// newConfigRepo builds a fixture with two revisions:
//
//	v1: endpoints differ only by environment label, timeouts agree
//	v2: pt timeout bumped to 45 and pt gains a retries key
func newConfigRepo(t *testing.T) *configRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	fixture := &configRepo{t: t, path: dir, native: repo}

	fixture.writeFile("pt/service.properties",
		"endpoint=https://pt-api.example.com\ntimeout=30\n")
	fixture.writeFile("prod/service.properties",
		"endpoint=https://prod-api.example.com\ntimeout=30\n")
	fixture.tag("v1", fixture.commit("initial config"))

	fixture.writeFile("pt/service.properties",
		"endpoint=https://pt-api.example.com\ntimeout=45\nretries=3\n")
	fixture.tag("v2", fixture.commit("tune pt timeouts"))

	return fixture
}

func (cr *configRepo) writeFile(name, content string) {
	cr.t.Helper()

	path := filepath.Join(cr.path, name)

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(cr.t, err)

	err = os.WriteFile(path, []byte(content), 0o644)
	require.NoError(cr.t, err)
}

func (cr *configRepo) commit(message string) *git2go.Oid {
	cr.t.Helper()

	index, err := cr.native.Index()
	require.NoError(cr.t, err)

	defer index.Free()

	require.NoError(cr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(cr.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(cr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(cr.t, err)

	tree, err := cr.native.LookupTree(treeID)
	require.NoError(cr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

	var parents []*git2go.Commit

	head, headErr := cr.native.Head()
	if headErr == nil {
		defer head.Free()

		parent, lookupErr := cr.native.LookupCommit(head.Target())
		require.NoError(cr.t, lookupErr)

		defer parent.Free()

		parents = append(parents, parent)
	}

	oid, err := cr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(cr.t, err)

	return oid
}

func (cr *configRepo) tag(name string, target *git2go.Oid) {
	cr.t.Helper()

	commit, err := cr.native.LookupCommit(target)
	require.NoError(cr.t, err)

	defer commit.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

	_, err = cr.native.Tags.Create(name, commit, sig, "release "+name)
	require.NoError(cr.t, err)
}

// runCommand executes a freshly built command with the given arguments and
// returns its stdout alongside the execution error. The working directory is
// moved to an empty temp dir so no ambient .confdrift.yaml leaks in.
func runCommand(t *testing.T, build func() *cobra.Command, args ...string) (string, error) {
	t.Helper()

	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer

	cmd := build()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

// driftRecord mirrors the JSON shape of a change record for decoding.
type driftRecord struct {
	Key  string  `json:"key"`
	Kind string  `json:"kind"`
	Old  *string `json:"old"`
	New  *string `json:"new"`
}
