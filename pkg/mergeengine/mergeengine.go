// Package mergeengine orchestrates the three-way merge operation (spec
// section 4.4): common-ancestor lookup via pkg/ancestry, per-file
// reconciliation via pkg/merge3, staging with rollback on commit failure,
// and the final commit.
package mergeengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danwg/dvcs/pkg/ancestry"
	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
	"github.com/danwg/dvcs/pkg/linediff"
	"github.com/danwg/dvcs/pkg/merge3"
	"github.com/danwg/dvcs/pkg/repo"
	"github.com/danwg/dvcs/pkg/revision"
)

// Result is the outcome of a successful merge.
type Result struct {
	CommitID    string
	HasConflict bool
	Conflicted  []string
}

// side bundles everything mergeFiles needs about one half of the merge:
// the repository it lives in, the branch its commit belongs to, and the
// commit's own metadata.
type side struct {
	repo   *repo.Repo
	branch string
	meta   revision.Metadata
}

func (s side) snapshot(path string) ([]byte, error) {
	return fsutil.ReadFile(revision.SnapshotPath(branchstore.CommitDir(s.repo.Root, s.branch, s.meta.ID), path))
}

// Merge reconciles intoRepo's intoIDOrBranch revision (the target branch's
// head when empty) with fromRepo's fromIDOrBranch revision (the source),
// staging the union of touched files and committing the result on
// intoRepo's checked-out branch.
func Merge(intoRepo *repo.Repo, intoIDOrBranch string, fromRepo *repo.Repo, fromIDOrBranch, message string) (Result, error) {
	intoBranch, intoID, err := intoRepo.Resolve(intoIDOrBranch)
	if err != nil {
		return Result{}, fmt.Errorf("merge: resolve into side: %w", err)
	}
	fromBranch, fromID, err := fromRepo.Resolve(fromIDOrBranch)
	if err != nil {
		return Result{}, fmt.Errorf("merge: resolve from side: %w", err)
	}

	_, intoMeta, err := intoRepo.FindCommit(intoID)
	if err != nil {
		return Result{}, err
	}
	_, fromMeta, err := fromRepo.FindCommit(fromID)
	if err != nil {
		return Result{}, err
	}
	into := side{repo: intoRepo, branch: intoBranch, meta: intoMeta}
	from := side{repo: fromRepo, branch: fromBranch, meta: fromMeta}

	ancestorRes, err := ancestry.CommonAncestor(intoID, intoRepo.ParentLookup(), fromID, fromRepo.ParentLookup())
	if err != nil {
		return Result{}, err
	}
	var ancestor side
	var hasAncestor bool
	if ancestorRes.Found {
		if s, ok := findSide(intoRepo, fromRepo, ancestorRes.Ancestor); ok {
			ancestor = s
			hasAncestor = true
		}
	}

	bm, err := branchstore.Load(intoRepo.Root, intoBranch)
	if err != nil {
		return Result{}, err
	}
	backupDir, err := snapshotStaging(intoRepo.Root, intoBranch)
	if err != nil {
		return Result{}, err
	}
	backupStaging := append([]string(nil), bm.Staging...)

	conflicted, mergeErr := mergeFiles(&bm, into, from, ancestor, hasAncestor)
	if mergeErr != nil {
		restoreStaging(intoRepo.Root, intoBranch, backupDir, backupStaging)
		return Result{}, mergeErr
	}
	if err := branchstore.Save(intoRepo.Root, intoBranch, bm); err != nil {
		restoreStaging(intoRepo.Root, intoBranch, backupDir, backupStaging)
		return Result{}, err
	}

	id, err := intoRepo.CommitMerge(message, fromID)
	if err != nil {
		restoreStaging(intoRepo.Root, intoBranch, backupDir, backupStaging)
		return Result{}, fmt.Errorf("merge: commit failed, staging rolled back: %w", err)
	}

	_ = fsutil.DeleteDir(backupDir)
	return Result{CommitID: id, HasConflict: len(conflicted) > 0, Conflicted: conflicted}, nil
}

// findSide locates a commit id in either repository and reports which one
// it belongs to, along with its branch and metadata.
func findSide(a, b *repo.Repo, id string) (side, bool) {
	if branch, meta, err := a.FindCommit(id); err == nil {
		return side{repo: a, branch: branch, meta: meta}, true
	}
	if branch, meta, err := b.FindCommit(id); err == nil {
		return side{repo: b, branch: branch, meta: meta}, true
	}
	return side{}, false
}

// mergeFiles walks the union of into's and from's files, resolving each
// path per spec section 4.4, and stages the result directly into bm.
// It returns the paths that resolved with conflict markers.
func mergeFiles(bm *branchstore.Metadata, into, from, ancestor side, hasAncestor bool) ([]string, error) {
	paths := map[string]bool{}
	for p := range into.meta.Files {
		paths[p] = true
	}
	for p := range from.meta.Files {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var conflicted []string
	for _, path := range sorted {
		_, intoPresent := into.meta.Files[path]
		_, fromPresent := from.meta.Files[path]

		var merged []byte
		var conflict bool
		var err error

		switch {
		case intoPresent && fromPresent:
			merged, conflict, err = mergeOnePath(into, from, ancestor, hasAncestor, path)
		case intoPresent:
			merged, err = into.snapshot(path)
		default:
			merged, err = from.snapshot(path)
		}
		if err != nil {
			return nil, err
		}
		if conflict {
			conflicted = append(conflicted, path)
		}
		if err := branchstore.SetStagingContent(into.repo.Root, into.branch, bm, path, merged); err != nil {
			return nil, err
		}
	}
	return conflicted, nil
}

// mergeOnePath resolves one path present on both sides of the merge.
func mergeOnePath(into, from, ancestor side, hasAncestor bool, path string) ([]byte, bool, error) {
	if into.meta.Files[path] == from.meta.Files[path] {
		data, err := into.snapshot(path)
		return data, false, err
	}

	intoContent, err := into.snapshot(path)
	if err != nil {
		return nil, false, err
	}
	fromContent, err := from.snapshot(path)
	if err != nil {
		return nil, false, err
	}
	intoLines, _ := linediff.SplitLines(intoContent)
	fromLines, _ := linediff.SplitLines(fromContent)

	var res merge3.Result
	if ancestorFP, ok := ancestor.meta.Files[path]; hasAncestor && ok {
		ancestorContent, err := ancestor.snapshot(path)
		if err != nil {
			return nil, false, err
		}
		if revision.Fingerprint(ancestorContent) != ancestorFP {
			return nil, false, fmt.Errorf("%w: ancestor snapshot for %q does not match its recorded fingerprint", dvcserr.ErrInvalidData, path)
		}
		ancestorLines, _ := linediff.SplitLines(ancestorContent)
		res = merge3.ThreeWay(into.branch, intoLines, from.branch, fromLines, ancestorLines)
	} else {
		res = merge3.NoAncestor(into.branch, intoLines, from.branch, fromLines)
	}

	merged := []byte(strings.Join(res.Lines, "\n") + "\n")
	return merged, res.HasConflict, nil
}

func snapshotStaging(root, branch string) (string, error) {
	src := branchstore.StagingDir(root, branch)
	backup := src + ".mergebak"
	if err := fsutil.DeleteDir(backup); err != nil {
		return "", err
	}
	if err := fsutil.CopyDir(src, backup); err != nil {
		return "", err
	}
	return backup, nil
}

// restoreStaging reverts the staging shadow tree and the staging set from
// a backup taken before the merge began.
func restoreStaging(root, branch, backupDir string, staging []string) {
	dst := branchstore.StagingDir(root, branch)
	_ = fsutil.DeleteDir(dst)
	_ = fsutil.CopyDir(backupDir, dst)
	_ = fsutil.DeleteDir(backupDir)

	bm, err := branchstore.Load(root, branch)
	if err != nil {
		return
	}
	bm.Staging = staging
	_ = branchstore.Save(root, branch, bm)
}
