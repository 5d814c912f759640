package repo

import (
	"strings"
	"testing"
)

func TestDiffRendersUnifiedBodyForChangedFile(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "one\ntwo\nthree\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	base, err := r.Commit("base")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeWorkingFile(t, dir, "a.txt", "one\ntwo\nTHREE\n")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	head, err := r.Commit("change")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	body, err := r.Diff(base, head)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if !strings.Contains(body, "diff --dvcs") {
		t.Fatalf("expected a diff header, got:\n%s", body)
	}
	if !strings.Contains(body, "-three") || !strings.Contains(body, "+THREE") {
		t.Fatalf("expected the changed line in the body, got:\n%s", body)
	}
}

func TestDiffSkipsUnchangedFiles(t *testing.T) {
	r, dir := mustInit(t)
	writeWorkingFile(t, dir, "a.txt", "same\n")
	writeWorkingFile(t, dir, "b.txt", "one\n")
	if err := r.Add([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	base, err := r.Commit("base")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeWorkingFile(t, dir, "b.txt", "two\n")
	if err := r.Add([]string{"a.txt", "b.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	head, err := r.Commit("change")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	body, err := r.Diff(base, head)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if strings.Contains(body, "a.txt") {
		t.Fatalf("expected unchanged a.txt to be skipped, got:\n%s", body)
	}
	if !strings.Contains(body, "b.txt") {
		t.Fatalf("expected b.txt's diff, got:\n%s", body)
	}
}
