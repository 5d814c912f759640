package branchstore

import (
	"errors"
	"testing"
)

func TestInitCreatesPresentBranch(t *testing.T) {
	root := t.TempDir()
	if Exists(root, "main") {
		t.Fatal("branch should not exist before Init")
	}
	if _, err := Init(root, "main"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !Exists(root, "main") {
		t.Fatal("branch should exist after Init")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := Init(root, "main"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	m := Metadata{Name: "main", HeadCommit: "r1", Commits: []string{"r1"}, Staging: []string{"a.txt"}}
	if err := Save(root, "main", m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(root, "main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HeadCommit != "r1" || len(got.Commits) != 1 || len(got.Staging) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestStageFileThenDuplicateStageFails(t *testing.T) {
	root := t.TempDir()
	m, err := Init(root, "main")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	content := []byte("hello\n")
	if err := StageFile(root, "main", &m, "a.txt", content); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if len(m.Staging) != 1 || m.Staging[0] != "a.txt" {
		t.Fatalf("expected a.txt staged, got %+v", m.Staging)
	}
	if err := StageFile(root, "main", &m, "a.txt", content); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists restaging identical content, got %v", err)
	}
}

func TestStageFileOverwritesChangedContent(t *testing.T) {
	root := t.TempDir()
	m, err := Init(root, "main")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := StageFile(root, "main", &m, "a.txt", []byte("v1\n")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if err := StageFile(root, "main", &m, "a.txt", []byte("v2\n")); err != nil {
		t.Fatalf("StageFile on changed content should succeed: %v", err)
	}
	if len(m.Staging) != 1 {
		t.Fatalf("expected staging set to stay size 1, got %+v", m.Staging)
	}
}

func TestUnstageFileRemovesEntry(t *testing.T) {
	root := t.TempDir()
	m, err := Init(root, "main")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := StageFile(root, "main", &m, "a.txt", []byte("hi\n")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if err := UnstageFile(root, "main", &m, "a.txt"); err != nil {
		t.Fatalf("UnstageFile: %v", err)
	}
	if len(m.Staging) != 0 {
		t.Fatalf("expected empty staging set, got %+v", m.Staging)
	}
	if err := UnstageFile(root, "main", &m, "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound unstaging absent file, got %v", err)
	}
}

func TestClearStagingEmptiesSetAndTree(t *testing.T) {
	root := t.TempDir()
	m, err := Init(root, "main")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := StageFile(root, "main", &m, "a.txt", []byte("hi\n")); err != nil {
		t.Fatalf("StageFile: %v", err)
	}
	if err := ClearStaging(root, "main", &m); err != nil {
		t.Fatalf("ClearStaging: %v", err)
	}
	if len(m.Staging) != 0 {
		t.Fatalf("expected empty staging set, got %+v", m.Staging)
	}
}
