package fsutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteJSONReadJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "metadata.json")

	type doc struct {
		Name  string   `json:"name"`
		Items []string `json:"items"`
	}
	want := doc{Name: "main", Items: []string{"a", "b"}}

	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got doc
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	if err := WriteFile(filepath.Join(src, "a.txt"), []byte("hello\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir: %v", err)
	}

	got, err := ReadFile(filepath.Join(dst, "sub", "b.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "world\n" {
		t.Fatalf("copied content = %q, want %q", got, "world\n")
	}
}

func TestIsBinary(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"text", []byte("hello\nworld\r\n"), false},
		{"nul byte", []byte("hello\x00world"), true},
		{"empty", []byte{}, false},
	}
	for _, c := range cases {
		if got := IsBinary(c.content); got != c.want {
			t.Errorf("%s: IsBinary = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestListFilesRecursive(t *testing.T) {
	dir := t.TempDir()
	WriteFile(filepath.Join(dir, "a.txt"), []byte("1"))
	WriteFile(filepath.Join(dir, "nested", "b.txt"), []byte("2"))

	files, err := ListFiles(dir, true)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ListFiles returned %d files, want 2: %v", len(files), files)
	}
}

func TestIsExcludedRelPath(t *testing.T) {
	if !IsExcludedRelPath(".dvcs/HEAD") {
		t.Error("expected .dvcs/HEAD to be excluded")
	}
	if !IsExcludedRelPath("sub/.git/config") {
		t.Error("expected nested .git to be excluded")
	}
	if IsExcludedRelPath("src/main.go") {
		t.Error("did not expect src/main.go to be excluded")
	}
}

func TestDeleteFileMissingIsNoop(t *testing.T) {
	if err := DeleteFile(filepath.Join(t.TempDir(), "missing")); err != nil {
		t.Fatalf("DeleteFile on missing file: %v", err)
	}
}

func TestRenameDir(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	dst := filepath.Join(base, "dst")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := RenameDir(src, dst); err != nil {
		t.Fatalf("RenameDir: %v", err)
	}
	if !IsDir(dst) {
		t.Fatal("expected dst to exist after rename")
	}
}
