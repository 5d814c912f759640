package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danwg/dvcs/pkg/dvcserr"
)

func mustInit(t *testing.T) (*Repo, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, dir
}

func writeWorkingFile(t *testing.T, root, rel, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestInitThenDiscover(t *testing.T) {
	r, dir := mustInit(t)
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := Discover(sub)
	if err != nil {
		t.Fatalf("Discover from subdir: %v", err)
	}
	if found != r.Root {
		t.Fatalf("discovered %s, want %s", found, r.Root)
	}
}

func TestInitTwiceFails(t *testing.T) {
	_, dir := mustInit(t)
	if _, err := Init(dir); !errors.Is(err, dvcserr.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestInitStatusScenario(t *testing.T) {
	r, _ := mustInit(t)
	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Branch != "main" {
		t.Fatalf("expected branch main, got %s", report.Branch)
	}
	if report.AheadBehind != "No commits yet..." {
		t.Fatalf("expected 'No commits yet...', got %q", report.AheadBehind)
	}
	if len(report.ToBeCommitted) != 0 || len(report.NotStaged) != 0 || len(report.Untracked) != 0 {
		t.Fatalf("expected empty sections on fresh init, got %+v", report)
	}
}

func TestCommitLogScenario(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hello\n")

	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, err := r.Commit("first")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	entries, err := r.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "first" || entries[0].ID != id {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}

func TestStatusClassification(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hello\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeWorkingFile(t, dir, "a.txt", "hello world\n")
	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.NotStaged) != 1 || report.NotStaged[0].Kind != "modified" {
		t.Fatalf("expected a.txt modified and not staged, got %+v", report.NotStaged)
	}

	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	report, err = r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.ToBeCommitted) != 1 || report.ToBeCommitted[0].Kind != "modified" {
		t.Fatalf("expected a.txt modified and staged, got %+v", report.ToBeCommitted)
	}
}

func TestCommitThenCheckoutRestoresContent(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "v1\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, err := r.Commit("v1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeWorkingFile(t, dir, "a.txt", "v2\n")
	if err := r.Checkout(id); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(data) != "v1\n" {
		t.Fatalf("expected restored content v1, got %q", data)
	}
}

func TestCatReturnsSnapshotContent(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hi\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, err := r.Commit("m")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	data, err := r.Cat(id, "a.txt")
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if string(data) != "hi\n" {
		t.Fatalf("unexpected cat content: %q", data)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hi\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove([]string{"a.txt"}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.ToBeCommitted) != 0 {
		t.Fatalf("expected empty staging after add+remove, got %+v", report.ToBeCommitted)
	}
}

func TestRemoveUnknownPathFailsWithoutMutating(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hi\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove([]string{"a.txt", "missing.txt"}); !errors.Is(err, dvcserr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	report, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.ToBeCommitted) != 1 {
		t.Fatalf("expected a.txt to remain staged after failed remove, got %+v", report.ToBeCommitted)
	}
}

func TestCloneProducesIdenticalTree(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "hi\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("m"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	dest := t.TempDir()
	destSub := filepath.Join(dest, "clone")
	cloned, err := Clone(dir, destSub)
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cloned.Root, "a.txt"))
	if err != nil {
		t.Fatalf("read cloned file: %v", err)
	}
	if string(data) != "hi\n" {
		t.Fatalf("unexpected cloned content: %q", data)
	}
}

func TestInitBranchSwitchesHead(t *testing.T) {
	r, _ := mustInit(t)
	if err := r.InitBranch("feature", false); err != nil {
		t.Fatalf("InitBranch: %v", err)
	}
	m, err := r.LoadMetadata()
	if err != nil {
		t.Fatalf("LoadMetadata: %v", err)
	}
	if m.Head != "feature" {
		t.Fatalf("expected head feature, got %s", m.Head)
	}
	if _, ok := m.Branches["feature"]; !ok {
		t.Fatalf("expected feature registered in repository metadata")
	}
}

func TestHeadsSortedNewestFirst(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "v1\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("m1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.InitBranch("feature", false); err != nil {
		t.Fatalf("InitBranch: %v", err)
	}
	writeWorkingFile(t, dir, "b.txt", "v2\n")
	if err := r.Add([]string{"b.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("m2"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	records, err := r.Heads()
	if err != nil {
		t.Fatalf("Heads: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 branch heads, got %d", len(records))
	}
	if !records[0].Timestamp.After(records[1].Timestamp) && records[0].Timestamp != records[1].Timestamp {
		t.Fatalf("expected newest-first ordering, got %+v", records)
	}
}
