// Package branchstore implements the per-branch on-disk layout and
// staging-area mechanics described in spec section 4.2: a branch's
// metadata, its commit directory tree, and the shadow staging directory
// that holds exactly the bytes that will be captured by the next commit.
package branchstore

import (
	"fmt"
	"path/filepath"

	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
)

// ErrAlreadyExists is returned when a branch or a staged file already
// exists where the caller expected to create one.
var ErrAlreadyExists = dvcserr.ErrAlreadyExists

// ErrNotFound is returned when a branch, staged file, or staging entry
// cannot be located.
var ErrNotFound = dvcserr.ErrNotFound

// Metadata is the persisted description of one branch.
type Metadata struct {
	Name       string   `json:"name"`
	HeadCommit string   `json:"head_commit"` // empty string: no commits yet
	Commits    []string `json:"commits"`
	Staging    []string `json:"staging"`
}

// Dir returns "<repoRoot>/.dvcs/origin/<branch>".
func Dir(repoRoot, branch string) string {
	return filepath.Join(repoRoot, ".dvcs", "origin", branch)
}

// CommitsDir returns the directory holding every commit of branch.
func CommitsDir(repoRoot, branch string) string {
	return filepath.Join(Dir(repoRoot, branch), "commits")
}

// CommitDir returns the directory of one specific commit.
func CommitDir(repoRoot, branch, id string) string {
	return filepath.Join(CommitsDir(repoRoot, branch), id)
}

// StagingDir returns the shadow tree holding staged file contents.
func StagingDir(repoRoot, branch string) string {
	return filepath.Join(Dir(repoRoot, branch), "staging")
}

func metadataPath(repoRoot, branch string) string {
	return filepath.Join(Dir(repoRoot, branch), ".metadata", "metadata.json")
}

// Exists reports whether branch is "present": its metadata file and both
// the commits/ and staging/ directories exist.
func Exists(repoRoot, branch string) bool {
	return fsutil.IsFile(metadataPath(repoRoot, branch)) &&
		fsutil.IsDir(CommitsDir(repoRoot, branch)) &&
		fsutil.IsDir(StagingDir(repoRoot, branch))
}

// Init creates the three on-disk subdirectories and an empty metadata
// file for a new branch. It does not touch repository-level metadata;
// the caller (pkg/repo) owns registering the branch with the repository.
func Init(repoRoot, branch string) (Metadata, error) {
	if err := fsutil.CreateDir(CommitsDir(repoRoot, branch)); err != nil {
		return Metadata{}, err
	}
	if err := fsutil.CreateDir(StagingDir(repoRoot, branch)); err != nil {
		return Metadata{}, err
	}
	m := Metadata{Name: branch, Commits: []string{}, Staging: []string{}}
	if err := Save(repoRoot, branch, m); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// Load reads a branch's metadata.
func Load(repoRoot, branch string) (Metadata, error) {
	var m Metadata
	if err := fsutil.ReadJSON(metadataPath(repoRoot, branch), &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: branch %q: %v", ErrNotFound, branch, err)
	}
	if m.Commits == nil {
		m.Commits = []string{}
	}
	if m.Staging == nil {
		m.Staging = []string{}
	}
	return m, nil
}

// Save persists a branch's metadata.
func Save(repoRoot, branch string, m Metadata) error {
	if err := fsutil.WriteJSON(metadataPath(repoRoot, branch), m); err != nil {
		return fmt.Errorf("save branch %q metadata: %w", branch, err)
	}
	return nil
}

// StagingFilePath returns the shadow-tree location of a staged
// repository-relative path.
func StagingFilePath(repoRoot, branch, relPath string) string {
	return filepath.Join(StagingDir(repoRoot, branch), filepath.FromSlash(relPath))
}

// StageFile copies content into the staging shadow tree for relPath and
// adds relPath to m.Staging. It fails with ErrAlreadyExists if relPath is
// already staged with byte-identical content; if it is already staged
// with different content, the shadow copy is overwritten in place.
func StageFile(repoRoot, branch string, m *Metadata, relPath string, content []byte) error {
	dst := StagingFilePath(repoRoot, branch, relPath)
	staged := contains(m.Staging, relPath)

	if staged {
		existing, err := fsutil.ReadFile(dst)
		if err == nil && bytesEqual(existing, content) {
			return fmt.Errorf("%w: %q is already staged for commit", ErrAlreadyExists, relPath)
		}
		return fsutil.WriteFile(dst, content)
	}

	if err := fsutil.WriteFile(dst, content); err != nil {
		return err
	}
	m.Staging = append(m.Staging, relPath)
	return nil
}

// SetStagingContent unconditionally writes content to the staging shadow
// tree for relPath and ensures relPath is present in m.Staging. Unlike
// StageFile, it never fails on unchanged content — callers that already
// know they are replacing staged content, such as a merge, use this
// instead.
func SetStagingContent(repoRoot, branch string, m *Metadata, relPath string, content []byte) error {
	if err := fsutil.WriteFile(StagingFilePath(repoRoot, branch, relPath), content); err != nil {
		return err
	}
	if !contains(m.Staging, relPath) {
		m.Staging = append(m.Staging, relPath)
	}
	return nil
}

// UnstageFile removes relPath's shadow copy and staging-set entry. It
// fails with ErrNotFound if relPath is not currently staged.
func UnstageFile(repoRoot, branch string, m *Metadata, relPath string) error {
	if !contains(m.Staging, relPath) {
		return fmt.Errorf("%w: %q is not staged for commit", ErrNotFound, relPath)
	}
	if err := fsutil.DeleteFile(StagingFilePath(repoRoot, branch, relPath)); err != nil {
		return err
	}
	m.Staging = remove(m.Staging, relPath)
	return nil
}

// ClearStaging empties the staging shadow tree and the staging set.
func ClearStaging(repoRoot, branch string, m *Metadata) error {
	dir := StagingDir(repoRoot, branch)
	if err := fsutil.DeleteDir(dir); err != nil {
		return err
	}
	if err := fsutil.CreateDir(dir); err != nil {
		return err
	}
	m.Staging = []string{}
	return nil
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func remove(xs []string, x string) []string {
	out := xs[:0]
	for _, v := range xs {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
