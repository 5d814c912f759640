// Package syncengine implements the push/pull synchronization operation
// between two local repositories (spec section 4.5): per-branch
// fast-forward detection, divergence classification, force overrides, and
// staged transfer through a temp_commits/ rollback point.
package syncengine

import (
	"fmt"
	"path/filepath"

	"github.com/danwg/dvcs/pkg/ancestry"
	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
	"github.com/danwg/dvcs/pkg/repo"
	"github.com/danwg/dvcs/pkg/revision"
)

// BranchReport describes the outcome of synchronizing one branch.
type BranchReport struct {
	Branch  string
	Message string // set for a no-op outcome ("already up to date", etc.)
	NewHead string // set when commits were actually transferred
}

// Push copies commits from local to remote.
func Push(local, remote *repo.Repo, branch string, all, force bool) ([]BranchReport, error) {
	return run(local, remote, branch, all, force)
}

// Pull copies commits from remote to local.
func Pull(local, remote *repo.Repo, branch string, all, force bool) ([]BranchReport, error) {
	return run(remote, local, branch, all, force)
}

func run(src, dst *repo.Repo, branch string, all, force bool) ([]BranchReport, error) {
	if all && branch != "" {
		return nil, fmt.Errorf("%w: --all cannot be combined with a branch name", dvcserr.ErrInvalidInput)
	}

	branches, err := branchesToSync(src, branch, all)
	if err != nil {
		return nil, err
	}

	reports := make([]BranchReport, 0, len(branches))
	for _, b := range branches {
		rep, err := syncBranch(src, dst, b, force)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func branchesToSync(src *repo.Repo, branch string, all bool) ([]string, error) {
	if all {
		return src.BranchNames()
	}
	if branch != "" {
		return []string{branch}, nil
	}
	m, err := src.LoadMetadata()
	if err != nil {
		return nil, err
	}
	return []string{m.Head}, nil
}

func syncBranch(src, dst *repo.Repo, branch string, force bool) (BranchReport, error) {
	if err := dst.EnsureBranch(branch); err != nil {
		return BranchReport{}, err
	}

	srcMeta, err := branchstore.Load(src.Root, branch)
	if err != nil {
		return BranchReport{}, err
	}
	if len(srcMeta.Commits) == 0 {
		return BranchReport{Branch: branch, Message: fmt.Sprintf("No commits in branch %q yet", branch)}, nil
	}

	dstMeta, err := branchstore.Load(dst.Root, branch)
	if err != nil {
		return BranchReport{}, err
	}

	srcHead := srcMeta.HeadCommit
	dstHead := dstMeta.HeadCommit
	if srcHead == dstHead {
		return BranchReport{Branch: branch, Message: "already up to date"}, nil
	}

	fastForward := dstHead == "" || isAncestor(dstHead, srcHead, src.ParentLookup())

	if !fastForward && !force {
		return BranchReport{}, classifyDivergence(src, dst, branch, srcHead, dstHead)
	}

	if err := transfer(src, dst, branch, srcMeta, dstMeta, force); err != nil {
		return BranchReport{}, err
	}
	if err := finalizeHead(dst, branch, srcHead); err != nil {
		return BranchReport{}, err
	}
	return BranchReport{Branch: branch, NewHead: srcHead}, nil
}

// classifyDivergence reports why a non-fast-forward sync was rejected:
// the peer being strictly ahead (ancestor relationship the other way) or
// the two histories having genuinely diverged, the latter tie-broken by
// which head commit is newer.
func classifyDivergence(src, dst *repo.Repo, branch, srcHead, dstHead string) error {
	if isAncestor(srcHead, dstHead, dst.ParentLookup()) {
		return fmt.Errorf("%w: branch %q: peer is ahead of us, pull first", dvcserr.ErrDiverged, branch)
	}

	srcMeta, srcErr := revision.Load(branchstore.CommitDir(src.Root, branch, srcHead))
	dstMeta, dstErr := revision.Load(branchstore.CommitDir(dst.Root, branch, dstHead))
	if srcErr == nil && dstErr == nil && dstMeta.Timestamp.After(srcMeta.Timestamp) {
		return fmt.Errorf("%w: branch %q: peer is ahead of us, pull first", dvcserr.ErrDiverged, branch)
	}
	return fmt.Errorf("%w: branch %q: histories diverged", dvcserr.ErrDiverged, branch)
}

// isAncestor reports whether candidate appears in head's parent chain,
// walked forward-to-backward via lookup.
func isAncestor(candidate, head string, lookup ancestry.ParentLookup) bool {
	if candidate == head {
		return true
	}
	visited := map[string]bool{}
	queue := []string{head}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		if id == candidate {
			return true
		}
		parents, err := lookup(id)
		if err != nil {
			continue
		}
		queue = append(queue, parents...)
	}
	return false
}

// transfer stages commits into a temp_commits/ area at the destination,
// then commits the transfer: for a fast-forward, new commits are moved
// individually into commits/ and appended to the destination's list; for
// --force, the destination's entire commit tree and list are replaced.
func transfer(src, dst *repo.Repo, branch string, srcMeta, dstMeta branchstore.Metadata, force bool) error {
	tempDir := filepath.Join(branchstore.Dir(dst.Root, branch), "temp_commits")
	if err := fsutil.DeleteDir(tempDir); err != nil {
		return err
	}

	var toCopy []string
	if force {
		toCopy = srcMeta.Commits
	} else {
		existing := map[string]bool{}
		for _, id := range dstMeta.Commits {
			existing[id] = true
		}
		for _, id := range srcMeta.Commits {
			if !existing[id] {
				toCopy = append(toCopy, id)
			}
		}
	}

	for _, id := range toCopy {
		if err := fsutil.CopyDir(branchstore.CommitDir(src.Root, branch, id), filepath.Join(tempDir, id)); err != nil {
			return err
		}
	}

	if force {
		if err := fsutil.DeleteDir(branchstore.CommitsDir(dst.Root, branch)); err != nil {
			return err
		}
		if err := fsutil.RenameDir(tempDir, branchstore.CommitsDir(dst.Root, branch)); err != nil {
			return err
		}
		dstMeta.Commits = srcMeta.Commits
	} else {
		for _, id := range toCopy {
			if err := fsutil.CopyDir(filepath.Join(tempDir, id), branchstore.CommitDir(dst.Root, branch, id)); err != nil {
				return err
			}
		}
		if err := fsutil.DeleteDir(tempDir); err != nil {
			return err
		}
		dstMeta.Commits = append(dstMeta.Commits, toCopy...)
	}

	dstMeta.HeadCommit = srcMeta.HeadCommit
	return branchstore.Save(dst.Root, branch, dstMeta)
}

// finalizeHead updates the destination repository's branches map and, if
// branch is the currently checked-out branch, rewrites HEAD.
func finalizeHead(dst *repo.Repo, branch, newHead string) error {
	m, err := dst.LoadMetadata()
	if err != nil {
		return err
	}
	m.Branches[branch] = newHead
	if err := dst.SaveMetadata(m); err != nil {
		return err
	}
	if m.Head == branch {
		return dst.WriteHead(newHead, branch)
	}
	return nil
}
