package repo

import (
	"sort"
	"strings"

	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/fsutil"
	"github.com/danwg/dvcs/pkg/linediff"
	"github.com/danwg/dvcs/pkg/revision"
)

// Diff renders the unified diff between the base and head revisions (or
// branches) over the union of files either side touches (spec section
// 4.4, "File diff").
func (r *Repo) Diff(baseIDOrBranch, headIDOrBranch string) (string, error) {
	baseBranch, baseID, err := r.Resolve(baseIDOrBranch)
	if err != nil {
		return "", err
	}
	headBranch, headID, err := r.Resolve(headIDOrBranch)
	if err != nil {
		return "", err
	}

	baseMeta, err := revision.Load(branchstore.CommitDir(r.Root, baseBranch, baseID))
	if err != nil {
		return "", err
	}
	headMeta, err := revision.Load(branchstore.CommitDir(r.Root, headBranch, headID))
	if err != nil {
		return "", err
	}

	paths := map[string]bool{}
	for p := range baseMeta.Files {
		paths[p] = true
	}
	for p := range headMeta.Files {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var sections []string
	for _, path := range sorted {
		baseFP, basePresent := baseMeta.Files[path]
		headFP, headPresent := headMeta.Files[path]
		if basePresent && headPresent && baseFP == headFP {
			continue
		}
		if !basePresent {
			baseFP = revision.EmptyFingerprint
		}
		if !headPresent {
			headFP = revision.EmptyFingerprint
		}

		var baseContent, headContent []byte
		if basePresent {
			baseContent, err = fsutil.ReadFile(revision.SnapshotPath(branchstore.CommitDir(r.Root, baseBranch, baseID), path))
			if err != nil {
				return "", err
			}
		}
		if headPresent {
			headContent, err = fsutil.ReadFile(revision.SnapshotPath(branchstore.CommitDir(r.Root, headBranch, headID), path))
			if err != nil {
				return "", err
			}
		}

		section, err := linediff.FileDiff(path, baseID, basePresent, baseContent, baseFP, headID, headPresent, headContent, headFP)
		if err != nil {
			return "", err
		}
		sections = append(sections, section)
	}
	return strings.Join(sections, ""), nil
}
