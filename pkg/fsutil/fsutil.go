// Package fsutil collects the small filesystem primitives the rest of the
// engine builds on: path helpers, binary sniffing, recursive directory
// walks, and atomic JSON persistence. Nothing here knows about
// repositories, branches, or revisions.
package fsutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// AbsPath resolves path relative to base into a canonical absolute path.
// It does not require path to exist, but cleans `.` and `..` components.
func AbsPath(base, path string) (string, error) {
	joined := path
	if !filepath.IsAbs(path) {
		joined = filepath.Join(base, path)
	}
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("abs path %q: %w", path, err)
	}
	// Resolve symlinks when possible; fall back to the cleaned path for
	// files that don't exist yet (e.g. a destination about to be created).
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// RelPath returns path relative to base, using forward slashes regardless
// of platform, the way repository-relative paths are stored in metadata.
func RelPath(path, base string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("relative path %q from %q: %w", path, base, err)
	}
	return filepath.ToSlash(rel), nil
}

// ReadFile reads the full contents of path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating parent directories and
// truncating any existing content.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: mkdir: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadJSON decodes the JSON document at path into v.
func ReadJSON(path string, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// WriteJSON pretty-prints v and writes it to path atomically: the content
// lands in a sibling temp file first and is renamed into place, so a crash
// mid-write never leaves a truncated metadata file.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: mkdir: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: tempfile: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: close: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: rename: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	data, err := ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFile(dst, data)
}

// DeleteFile removes path. It is a no-op if path does not exist.
func DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// CreateDir creates path and any missing parents.
func CreateDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", path, err)
	}
	return nil
}

// DeleteDir removes path and everything under it. It is a no-op if path
// does not exist.
func DeleteDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete dir %s: %w", path, err)
	}
	return nil
}

// RenameDir moves src to dst in a single filesystem rename.
func RenameDir(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename dir %s -> %s: %w", src, dst, err)
	}
	return nil
}

// CopyDir recursively copies every regular file under src into dst,
// preserving the relative directory structure.
func CopyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}

// ListFiles returns every regular file under root, as absolute paths, in
// sorted order. When recursive is false, only root's immediate children
// are considered.
func ListFiles(root string, recursive bool) ([]string, error) {
	var files []string
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(root, e.Name()))
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// IsBinary sniffs content the way the reference implementation does: any
// byte below 0x20 other than newline or carriage return marks the content
// as binary. It is used only to decide diff presentation, never to gate
// commit/add.
func IsBinary(content []byte) bool {
	for _, b := range content {
		if b < 0x20 && b != '\n' && b != '\r' {
			return true
		}
	}
	return false
}

// ExcludedDirNames are directory names skipped when recursively staging a
// directory argument to `add`.
var ExcludedDirNames = []string{".dvcs", ".remote", ".git", ".DS_Store"}

// IsExcludedRelPath reports whether a repository-relative path passes
// through one of the excluded directory names.
func IsExcludedRelPath(relPath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(relPath), "/") {
		for _, excl := range ExcludedDirNames {
			if seg == excl {
				return true
			}
		}
	}
	return false
}
