package repo

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/danwg/dvcs/pkg/ancestry"
	"github.com/danwg/dvcs/pkg/branchstore"
	"github.com/danwg/dvcs/pkg/config"
	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
	"github.com/danwg/dvcs/pkg/revision"
)

// BranchNames returns every branch registered in repository metadata.
func (r *Repo) BranchNames() ([]string, error) {
	m, err := r.LoadMetadata()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Branches))
	for name := range m.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// InitBranch creates a new branch. When isInitialBranch is false, it fails
// with ErrAlreadyExists if the branch is already present, then checks the
// new branch out (spec section 4.2).
func (r *Repo) InitBranch(name string, isInitialBranch bool) error {
	if !isInitialBranch && branchstore.Exists(r.Root, name) {
		return fmt.Errorf("%w: branch %q", dvcserr.ErrAlreadyExists, name)
	}
	if _, err := branchstore.Init(r.Root, name); err != nil {
		return err
	}

	m, err := r.LoadMetadata()
	if err != nil {
		return err
	}
	if m.Branches == nil {
		m.Branches = map[string]string{}
	}
	m.Branches[name] = ""
	m.Head = name
	if err := r.SaveMetadata(m); err != nil {
		return err
	}
	return r.WriteHead("", name)
}

// EnsureBranch creates name if it is not already present, registering it
// in repository metadata with an empty head commit. Unlike InitBranch, it
// never changes the checked-out branch — sync uses this to materialize a
// branch at the destination before transferring commits into it.
func (r *Repo) EnsureBranch(name string) error {
	if branchstore.Exists(r.Root, name) {
		return nil
	}
	if _, err := branchstore.Init(r.Root, name); err != nil {
		return err
	}
	m, err := r.LoadMetadata()
	if err != nil {
		return err
	}
	if m.Branches == nil {
		m.Branches = map[string]string{}
	}
	if _, ok := m.Branches[name]; !ok {
		m.Branches[name] = ""
	}
	return r.SaveMetadata(m)
}

// FindCommit searches every branch's commit list for id and returns the
// branch it belongs to along with its metadata.
func (r *Repo) FindCommit(id string) (branch string, meta revision.Metadata, err error) {
	names, err := r.BranchNames()
	if err != nil {
		return "", revision.Metadata{}, err
	}
	for _, name := range names {
		bm, err := branchstore.Load(r.Root, name)
		if err != nil {
			continue
		}
		for _, c := range bm.Commits {
			if c == id {
				meta, err := revision.Load(branchstore.CommitDir(r.Root, name, id))
				if err != nil {
					return "", revision.Metadata{}, err
				}
				return name, meta, nil
			}
		}
	}
	return "", revision.Metadata{}, fmt.Errorf("%w: revision %q", dvcserr.ErrNotFound, id)
}

// ParentLookup adapts FindCommit into the function shape pkg/ancestry
// needs, so ancestor searches can walk this repository's revision graph.
func (r *Repo) ParentLookup() ancestry.ParentLookup {
	return func(id string) ([]string, error) {
		_, meta, err := r.FindCommit(id)
		if err != nil {
			return nil, err
		}
		return meta.Parents, nil
	}
}

// currentBranch returns the branch named by repository metadata's head.
func (r *Repo) currentBranch() (string, error) {
	m, err := r.LoadMetadata()
	if err != nil {
		return "", err
	}
	return m.Head, nil
}

// expandAddArgs resolves the CLI arguments to `add` into a deduplicated,
// sorted set of repository-relative file paths, per spec section 4.2.
func (r *Repo) expandAddArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: add requires at least one path", dvcserr.ErrInvalidInput)
	}
	isDot := func(s string) bool { return s == "." }
	if len(args) > 1 {
		for _, a := range args {
			if isDot(a) {
				return nil, fmt.Errorf("%w: \".\" must appear alone", dvcserr.ErrInvalidInput)
			}
		}
	}

	seen := map[string]bool{}
	var out []string
	addRel := func(rel string) {
		rel = filepath.ToSlash(rel)
		if rel == "" || fsutil.IsExcludedRelPath(rel) || seen[rel] {
			return
		}
		seen[rel] = true
		out = append(out, rel)
	}

	roots := args
	if len(args) == 1 && isDot(args[0]) {
		roots = []string{r.Root}
	}

	for _, a := range roots {
		abs, err := fsutil.AbsPath(r.Root, a)
		if err != nil {
			return nil, err
		}
		rel, err := fsutil.RelPath(abs, r.Root)
		if err != nil {
			return nil, err
		}
		if rel != "." && (rel == ".." || strings.HasPrefix(rel, "../")) {
			return nil, fmt.Errorf("%w: %s lies outside the repository", dvcserr.ErrInvalidInput, a)
		}

		switch {
		case fsutil.IsDir(abs):
			files, err := fsutil.ListFiles(abs, true)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				fr, err := fsutil.RelPath(f, r.Root)
				if err != nil {
					return nil, err
				}
				addRel(fr)
			}
		case fsutil.IsFile(abs):
			addRel(rel)
		default:
			return nil, fmt.Errorf("%w: %s", dvcserr.ErrNotFound, a)
		}
	}

	sort.Strings(out)
	return out, nil
}

// Add stages the files named or contained by args.
func (r *Repo) Add(args []string) error {
	branch, err := r.currentBranch()
	if err != nil {
		return err
	}
	files, err := r.expandAddArgs(args)
	if err != nil {
		return err
	}

	bm, err := branchstore.Load(r.Root, branch)
	if err != nil {
		return err
	}

	var stageErr error
	for _, rel := range files {
		content, err := fsutil.ReadFile(filepath.Join(r.Root, filepath.FromSlash(rel)))
		if err != nil {
			stageErr = err
			break
		}
		if err := branchstore.StageFile(r.Root, branch, &bm, rel, content); err != nil {
			stageErr = err
			break
		}
	}

	if err := branchstore.Save(r.Root, branch, bm); err != nil {
		return err
	}
	return stageErr
}

// Remove unstages the files named by args, or the whole staging area for
// the literal argument ".". It validates every argument before mutating
// anything (spec section 4.2's two-pass check-then-act).
func (r *Repo) Remove(args []string) error {
	branch, err := r.currentBranch()
	if err != nil {
		return err
	}
	bm, err := branchstore.Load(r.Root, branch)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == "." {
		if err := branchstore.ClearStaging(r.Root, branch, &bm); err != nil {
			return err
		}
		return branchstore.Save(r.Root, branch, bm)
	}

	for _, a := range args {
		if a == "." {
			return fmt.Errorf("%w: \".\" must appear alone", dvcserr.ErrInvalidInput)
		}
	}
	rels := make([]string, len(args))
	for i, a := range args {
		rels[i] = filepath.ToSlash(a)
	}
	for _, rel := range rels {
		found := false
		for _, s := range bm.Staging {
			if s == rel {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q is not staged for commit", dvcserr.ErrNotFound, rel)
		}
	}

	for _, rel := range rels {
		if err := branchstore.UnstageFile(r.Root, branch, &bm, rel); err != nil {
			return err
		}
	}
	return branchstore.Save(r.Root, branch, bm)
}

// HeadRecord is one line of a `heads` report.
type HeadRecord struct {
	Branch    string
	CommitID  string
	Timestamp time.Time
	Message   string
}

// Heads enumerates every branch's tip commit, newest first.
func (r *Repo) Heads() ([]HeadRecord, error) {
	m, err := r.LoadMetadata()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Branches))
	for name := range m.Branches {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]HeadRecord, 0, len(names))
	for _, name := range names {
		id := m.Branches[name]
		rec := HeadRecord{Branch: name, CommitID: "N/A"}
		if id != "" {
			meta, err := revision.Load(branchstore.CommitDir(r.Root, name, id))
			if err != nil {
				return nil, err
			}
			rec.CommitID = id
			rec.Timestamp = meta.Timestamp
			rec.Message = meta.Message
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// StatusEntry is one changed path in a status report section.
type StatusEntry struct {
	Path string
	Kind string // "new file", "modified", "deleted"
}

// Report is the five-section status report spec section 4.2 describes.
type Report struct {
	Branch        string
	AheadBehind   string
	ToBeCommitted []StatusEntry
	NotStaged     []StatusEntry
	Untracked     []string
}

// Status computes the working-tree status report for the checked-out
// branch.
func (r *Repo) Status() (Report, error) {
	branch, err := r.currentBranch()
	if err != nil {
		return Report{}, err
	}
	bm, err := branchstore.Load(r.Root, branch)
	if err != nil {
		return Report{}, err
	}

	report := Report{Branch: branch}
	report.AheadBehind = r.aheadBehindLine(branch, bm)

	var latest revision.Metadata
	if bm.HeadCommit != "" {
		latest, err = revision.Load(branchstore.CommitDir(r.Root, branch, bm.HeadCommit))
		if err != nil {
			return Report{}, err
		}
	}
	if latest.Files == nil {
		latest.Files = map[string]string{}
	}

	staged := sortedCopy(bm.Staging)
	for _, p := range staged {
		data, err := fsutil.ReadFile(branchstore.StagingFilePath(r.Root, branch, p))
		if err != nil {
			report.ToBeCommitted = append(report.ToBeCommitted, StatusEntry{Path: p, Kind: "deleted"})
			continue
		}
		fp := revision.Fingerprint(data)
		want, tracked := latest.Files[p]
		switch {
		case !tracked:
			report.ToBeCommitted = append(report.ToBeCommitted, StatusEntry{Path: p, Kind: "new file"})
		case want != fp:
			report.ToBeCommitted = append(report.ToBeCommitted, StatusEntry{Path: p, Kind: "modified"})
		}
	}

	trackedPaths := make([]string, 0, len(latest.Files))
	for p := range latest.Files {
		trackedPaths = append(trackedPaths, p)
	}
	sort.Strings(trackedPaths)
	for _, p := range trackedPaths {
		working := filepath.Join(r.Root, filepath.FromSlash(p))
		if !fsutil.IsFile(working) {
			report.NotStaged = append(report.NotStaged, StatusEntry{Path: p, Kind: "deleted"})
			continue
		}
		data, err := fsutil.ReadFile(working)
		if err != nil {
			return Report{}, err
		}
		if revision.Fingerprint(data) != latest.Files[p] {
			report.NotStaged = append(report.NotStaged, StatusEntry{Path: p, Kind: "modified"})
		}
	}

	stagedSet := map[string]bool{}
	for _, p := range bm.Staging {
		stagedSet[p] = true
	}
	allFiles, err := fsutil.ListFiles(r.Root, true)
	if err != nil {
		return Report{}, err
	}
	for _, f := range allFiles {
		rel, err := fsutil.RelPath(f, r.Root)
		if err != nil {
			return Report{}, err
		}
		if fsutil.IsExcludedRelPath(rel) || stagedSet[rel] {
			continue
		}
		if _, tracked := latest.Files[rel]; tracked {
			continue
		}
		report.Untracked = append(report.Untracked, rel)
	}
	sort.Strings(report.Untracked)

	return report, nil
}

func (r *Repo) aheadBehindLine(branch string, bm branchstore.Metadata) string {
	if bm.HeadCommit == "" {
		return "No commits yet..."
	}

	remoteRoot, err := remoteAliasRoot(r.Root, config.DefaultRemoteAlias)
	if err != nil {
		return "No upstream commits yet..."
	}
	remote := &Repo{Root: remoteRoot}
	rm, err := remote.LoadMetadata()
	if err != nil {
		return "No upstream commits yet..."
	}
	remoteHead, ok := rm.Branches[branch]
	if !ok || remoteHead == "" {
		return "No upstream commits yet..."
	}

	dist, err := ancestry.AheadBehind(bm.HeadCommit, r.ParentLookup(), remoteHead, remote.ParentLookup())
	if err != nil {
		return "No upstream commits yet..."
	}
	switch {
	case dist == 0:
		return fmt.Sprintf("Your branch is up to date with 'origin/%s'.", branch)
	case dist > 0:
		return fmt.Sprintf("Your branch is ahead of 'origin/%s' by %d commit(s).", branch, dist)
	default:
		return fmt.Sprintf("Your branch is behind 'origin/%s' by %d commit(s).", branch, -dist)
	}
}

func sortedCopy(xs []string) []string {
	out := make([]string, len(xs))
	copy(out, xs)
	sort.Strings(out)
	return out
}
