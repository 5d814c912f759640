package mergeengine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danwg/dvcs/pkg/repo"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestMergeCleanFastForwardContent(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "A\nB\nC\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("ancestor"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// A new branch starts with no commits, so the two sides that share the
	// "ancestor" commit are two clones of one repository: the peer plays
	// branch X and r plays branch Y.
	peer, err := repo.Clone(dir, filepath.Join(t.TempDir(), "peer"))
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	writeFile(t, peer.Root, "a.txt", "A\nB\nC\nD\n")
	if err := peer.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add on peer: %v", err)
	}
	if _, err := peer.Commit("x change"); err != nil {
		t.Fatalf("Commit on peer: %v", err)
	}

	writeFile(t, dir, "a.txt", "A0\nB\nC\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("y change"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	res, err := Merge(r, "main", peer, "main", "merge peer into main")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if res.HasConflict {
		t.Fatalf("expected clean merge, got conflicts: %v", res.Conflicted)
	}
	data, err := r.Cat(res.CommitID, "a.txt")
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	if string(data) != "A0\nB\nC\nD\n" {
		t.Fatalf("unexpected merged content: %q", data)
	}
}

func TestMergeConflictProducesMarkers(t *testing.T) {
	dir := t.TempDir()
	r, err := repo.Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, dir, "a.txt", "X\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("ancestor"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.InitBranch("x", false); err != nil {
		t.Fatalf("InitBranch x: %v", err)
	}
	writeFile(t, dir, "a.txt", "one\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("x change"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout("main"); err != nil {
		t.Fatalf("Checkout main: %v", err)
	}
	if err := r.InitBranch("y", false); err != nil {
		t.Fatalf("InitBranch y: %v", err)
	}
	writeFile(t, dir, "a.txt", "two\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("y change"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	res, err := Merge(r, "y", r, "x", "merge x into y")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !res.HasConflict {
		t.Fatal("expected conflict")
	}
	data, err := r.Cat(res.CommitID, "a.txt")
	if err != nil {
		t.Fatalf("Cat: %v", err)
	}
	want := "<<<<<<< y\ntwo\n=======\none\n>>>>>>> x"
	if !strings.Contains(string(data), want) {
		t.Fatalf("expected conflict markers, got:\n%s", data)
	}
}
