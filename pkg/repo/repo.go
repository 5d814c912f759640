// Package repo implements the repository layout (spec section 4.1): root
// discovery, initialization, cloning, the HEAD pointer file, and
// repository-level metadata. Higher-level operations — staging, commits,
// ancestry-aware status — live in sibling files of this package so they
// can share the Repo handle.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
)

// MainBranch is the branch every repository is born with.
const MainBranch = "main"

// dvcsDirName is the control directory at a repository's root.
const dvcsDirName = ".dvcs"

// Metadata is the persisted repository-level document: the checked-out
// branch and every branch's head commit (spec section 3).
type Metadata struct {
	Head     string            `json:"head"`
	Branches map[string]string `json:"branches"`
}

// Repo is a handle on an opened repository. It carries no cached state
// beyond its root: every operation reads and writes metadata fresh, since
// the engine assumes single-writer synchronous access (spec section 5).
type Repo struct {
	Root string
}

func dvcsDir(root string) string     { return filepath.Join(root, dvcsDirName) }
func metadataPath(root string) string { return filepath.Join(dvcsDir(root), ".metadata", "metadata.json") }
func headPath(root string) string     { return filepath.Join(dvcsDir(root), "HEAD") }

// Discover canonicalizes path, then walks its ancestors looking for a
// directory satisfying the repository-root contract: a .dvcs/ directory
// with a HEAD file, a metadata file, and a valid main branch.
func Discover(path string) (string, error) {
	abs, err := fsutil.AbsPath(".", path)
	if err != nil {
		return "", err
	}

	cur := abs
	for {
		if fsutil.IsFile(headPath(cur)) && fsutil.IsFile(metadataPath(cur)) && branchstore.Exists(cur, MainBranch) {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("%w: no repository found above %s", dvcserr.ErrNotFound, abs)
		}
		cur = parent
	}
}

// Open discovers the repository containing path and returns a handle on
// its root.
func Open(path string) (*Repo, error) {
	root, err := Discover(path)
	if err != nil {
		return nil, err
	}
	return &Repo{Root: root}, nil
}

// Init creates a new repository at path: a main branch, repository
// metadata with head="main", and a HEAD file. It fails with
// ErrAlreadyExists if path itself is already a repository root.
func Init(path string) (*Repo, error) {
	abs, err := fsutil.AbsPath(".", path)
	if err != nil {
		return nil, err
	}
	if root, err := Discover(abs); err == nil && root == abs {
		return nil, fmt.Errorf("%w: %s is already a repository", dvcserr.ErrAlreadyExists, abs)
	}

	if err := fsutil.CreateDir(dvcsDir(abs)); err != nil {
		return nil, err
	}
	if _, err := branchstore.Init(abs, MainBranch); err != nil {
		return nil, err
	}

	m := Metadata{Head: MainBranch, Branches: map[string]string{MainBranch: ""}}
	if err := saveMetadata(abs, m); err != nil {
		return nil, err
	}
	if err := writeHead(abs, "", MainBranch); err != nil {
		return nil, err
	}
	return &Repo{Root: abs}, nil
}

// Clone copies src's full tree into dest. src must itself be a repository
// root (not a subdirectory of one); dest must be absent or empty. No
// metadata is rewritten: the clone is byte-identical to src.
func Clone(src, dest string) (*Repo, error) {
	srcAbs, err := fsutil.AbsPath(".", src)
	if err != nil {
		return nil, err
	}
	root, err := Discover(srcAbs)
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	if root != srcAbs {
		return nil, fmt.Errorf("%w: %s is not itself a repository root (found root at %s)", dvcserr.ErrInvalidInput, srcAbs, root)
	}

	destAbs, err := fsutil.AbsPath(".", dest)
	if err != nil {
		return nil, err
	}
	if entries, err := os.ReadDir(destAbs); err == nil && len(entries) > 0 {
		return nil, fmt.Errorf("%w: destination %s is not empty", dvcserr.ErrAlreadyExists, destAbs)
	}
	if err := fsutil.CreateDir(destAbs); err != nil {
		return nil, err
	}
	if err := fsutil.CopyDir(srcAbs, destAbs); err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return &Repo{Root: destAbs}, nil
}

// LoadMetadata reads the repository-level metadata document.
func (r *Repo) LoadMetadata() (Metadata, error) {
	var m Metadata
	if err := fsutil.ReadJSON(metadataPath(r.Root), &m); err != nil {
		return Metadata{}, fmt.Errorf("load repository metadata: %w", err)
	}
	if m.Branches == nil {
		m.Branches = map[string]string{}
	}
	return m, nil
}

// SaveMetadata persists the repository-level metadata document.
func (r *Repo) SaveMetadata(m Metadata) error {
	return saveMetadata(r.Root, m)
}

func saveMetadata(root string, m Metadata) error {
	if err := fsutil.WriteJSON(metadataPath(root), m); err != nil {
		return fmt.Errorf("save repository metadata: %w", err)
	}
	return nil
}

// Head reads the two-line HEAD file: the checked-out commit id (or empty
// string for "N/A") and the checked-out branch name.
func (r *Repo) Head() (commitID, branch string, err error) {
	data, err := fsutil.ReadFile(headPath(r.Root))
	if err != nil {
		return "", "", fmt.Errorf("read HEAD: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "commit: "):
			v := strings.TrimPrefix(line, "commit: ")
			if v != "N/A" {
				commitID = v
			}
		case strings.HasPrefix(line, "ref: origin/"):
			branch = strings.TrimPrefix(line, "ref: origin/")
		}
	}
	return commitID, branch, nil
}

// writeHead rewrites the HEAD file. It is always the last mutation of any
// operation that changes the checked-out commit or branch (spec section
// 5's crash-ordering note).
func writeHead(root, commitID, branch string) error {
	label := "N/A"
	if commitID != "" {
		label = commitID
	}
	content := fmt.Sprintf("commit: %s\nref: origin/%s\n", label, branch)
	return fsutil.WriteFile(headPath(root), []byte(content))
}

// WriteHead exposes writeHead to sibling files in this package's callers
// (revision.go, branch.go) without re-deriving the HEAD path.
func (r *Repo) WriteHead(commitID, branch string) error {
	return writeHead(r.Root, commitID, branch)
}

// ResolvePeer opens the repository a push/pull/merge peer argument names:
// the literal remote alias token resolves relative to r's root (spec
// section 6, "Remote alias"), anything else opens path directly.
func (r *Repo) ResolvePeer(path, remoteAlias string) (*Repo, error) {
	if path == remoteAlias {
		root, err := remoteAliasRoot(r.Root, remoteAlias)
		if err != nil {
			return nil, err
		}
		return &Repo{Root: root}, nil
	}
	return Open(path)
}

// remoteAliasRoot returns the repository rooted at <r.Root>/<alias>, the
// peer used by diff/merge/push/pull when no explicit path is given (spec
// section 6, "Remote alias").
func remoteAliasRoot(root, alias string) (string, error) {
	candidate := filepath.Join(root, alias)
	discovered, err := Discover(candidate)
	if err != nil {
		return "", err
	}
	if discovered != candidate {
		return "", fmt.Errorf("%w: remote alias %s does not itself contain a repository root", dvcserr.ErrInvalidInput, candidate)
	}
	return discovered, nil
}

