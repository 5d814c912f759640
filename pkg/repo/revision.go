package repo

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
	"github.com/danwg/dvcs/pkg/revision"
)

// Commit captures the staging area of the checked-out branch as a new
// immutable revision (spec section 4.3). The new revision's parents list
// holds only the branch's previous head commit (see DESIGN.md's Open
// Question decision on parent linearization), not the source's full
// linearized ancestry.
func (r *Repo) Commit(message string) (string, error) {
	return r.commit(message, nil)
}

// CommitMerge is Commit with one extra parent appended, used to record a
// merge commit's second tip (spec section 8 scenario 4: "a new commit
// whose parents reference both sides' tips").
func (r *Repo) CommitMerge(message, fromParent string) (string, error) {
	return r.commit(message, []string{fromParent})
}

func (r *Repo) commit(message string, extraParents []string) (string, error) {
	branch, err := r.currentBranch()
	if err != nil {
		return "", err
	}
	bm, err := branchstore.Load(r.Root, branch)
	if err != nil {
		return "", err
	}
	if len(bm.Staging) == 0 {
		return "", fmt.Errorf("%w: nothing staged for commit", dvcserr.ErrInvalidInput)
	}

	id := revision.NewID()
	commitDir := branchstore.CommitDir(r.Root, branch, id)

	staged := sortedCopy(bm.Staging)
	files := make(map[string]string, len(staged))
	for _, rel := range staged {
		data, err := fsutil.ReadFile(branchstore.StagingFilePath(r.Root, branch, rel))
		if err != nil {
			return "", fmt.Errorf("commit: missing staged content for %q: %w", rel, err)
		}
		if err := fsutil.WriteFile(revision.SnapshotPath(commitDir, rel), data); err != nil {
			return "", err
		}
		files[rel] = revision.Fingerprint(data)
	}

	var parents []string
	if bm.HeadCommit != "" {
		parents = append(parents, bm.HeadCommit)
	}
	parents = append(parents, extraParents...)

	meta := revision.Metadata{
		ID:        id,
		Files:     files,
		Parents:   parents,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := revision.Save(commitDir, meta); err != nil {
		return "", err
	}

	if err := branchstore.ClearStaging(r.Root, branch, &bm); err != nil {
		return "", err
	}
	bm.HeadCommit = id
	bm.Commits = append(bm.Commits, id)
	if err := branchstore.Save(r.Root, branch, bm); err != nil {
		return "", err
	}

	rm, err := r.LoadMetadata()
	if err != nil {
		return "", err
	}
	rm.Branches[branch] = id
	if err := r.SaveMetadata(rm); err != nil {
		return "", err
	}
	if err := r.WriteHead(id, branch); err != nil {
		return "", err
	}
	return id, nil
}

// LogEntry is one line of a `log` report.
type LogEntry struct {
	ID          string
	BranchLabel string
	Timestamp   time.Time
	Message     string
}

// Log enumerates every commit on every branch, oldest first.
func (r *Repo) Log() ([]LogEntry, error) {
	m, err := r.LoadMetadata()
	if err != nil {
		return nil, err
	}
	names, err := r.BranchNames()
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, name := range names {
		bm, err := branchstore.Load(r.Root, name)
		if err != nil {
			return nil, err
		}
		label := fmt.Sprintf("origin/%s", name)
		if name == m.Head {
			label = fmt.Sprintf("HEAD -> %s, origin/%s", name, name)
		}
		for _, id := range bm.Commits {
			meta, err := revision.Load(branchstore.CommitDir(r.Root, name, id))
			if err != nil {
				return nil, err
			}
			entries = append(entries, LogEntry{ID: id, BranchLabel: label, Timestamp: meta.Timestamp, Message: meta.Message})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// Resolve turns an empty string, a branch name, or a revision id into a
// concrete (branch, revision id) pair (spec section 4.3).
func (r *Repo) Resolve(idOrBranch string) (branch string, id string, err error) {
	if idOrBranch == "" {
		branch, err = r.currentBranch()
		if err != nil {
			return "", "", err
		}
		bm, err := branchstore.Load(r.Root, branch)
		if err != nil {
			return "", "", err
		}
		if bm.HeadCommit == "" {
			return "", "", fmt.Errorf("%w: branch %q has no commits yet", dvcserr.ErrNotFound, branch)
		}
		return branch, bm.HeadCommit, nil
	}

	names, err := r.BranchNames()
	if err != nil {
		return "", "", err
	}
	for _, name := range names {
		if name == idOrBranch {
			bm, err := branchstore.Load(r.Root, name)
			if err != nil {
				return "", "", err
			}
			if bm.HeadCommit == "" {
				return "", "", fmt.Errorf("%w: branch %q has no commits yet", dvcserr.ErrNotFound, name)
			}
			return name, bm.HeadCommit, nil
		}
	}
	for _, name := range names {
		bm, err := branchstore.Load(r.Root, name)
		if err != nil {
			return "", "", err
		}
		for _, c := range bm.Commits {
			if c == idOrBranch {
				return name, c, nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: %q names neither a branch nor a revision", dvcserr.ErrNotFound, idOrBranch)
}

// Cat returns the snapshot content of path as recorded by the revision
// idOrBranch resolves to.
func (r *Repo) Cat(idOrBranch, path string) ([]byte, error) {
	branch, id, err := r.Resolve(idOrBranch)
	if err != nil {
		return nil, err
	}
	commitDir := branchstore.CommitDir(r.Root, branch, id)
	meta, err := revision.Load(commitDir)
	if err != nil {
		return nil, err
	}
	if _, ok := meta.Files[path]; !ok {
		return nil, fmt.Errorf("%w: %q is not present in revision %s", dvcserr.ErrNotFound, path, id)
	}
	return fsutil.ReadFile(revision.SnapshotPath(commitDir, path))
}

// Checkout writes every file recorded by idOrBranch's revision into the
// working tree, overwriting existing content, and switches the
// checked-out branch. It does not delete working-tree files absent from
// the target revision (spec section 4.3's documented limitation).
func (r *Repo) Checkout(idOrBranch string) error {
	branch, id, err := r.Resolve(idOrBranch)
	if err != nil {
		return err
	}
	commitDir := branchstore.CommitDir(r.Root, branch, id)
	meta, err := revision.Load(commitDir)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(meta.Files))
	for p := range meta.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		data, err := fsutil.ReadFile(revision.SnapshotPath(commitDir, p))
		if err != nil {
			return err
		}
		if err := fsutil.WriteFile(filepath.Join(r.Root, filepath.FromSlash(p)), data); err != nil {
			return err
		}
	}

	rm, err := r.LoadMetadata()
	if err != nil {
		return err
	}
	rm.Head = branch
	if err := r.SaveMetadata(rm); err != nil {
		return err
	}
	return r.WriteHead(id, branch)
}
