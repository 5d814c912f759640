// Package revision defines the immutable commit snapshot entity and the
// content fingerprint used to detect file changes. A Metadata value on
// disk is a JSON document per spec section 3; nothing in this package
// knows about branches or repositories, only about one commit directory.
package revision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danwg/dvcs/pkg/fsutil"
)

// EmptyFingerprint stands in for the fingerprint of a file that does not
// exist on one side of a comparison (the "/dev/null" side of a diff).
var EmptyFingerprint = strings.Repeat("0", 64)

// Metadata is the persisted description of one revision (commit).
type Metadata struct {
	ID        string            `json:"id"`
	Files     map[string]string `json:"files"`
	Parents   []string          `json:"parents"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewID generates a fresh opaque random identifier for a revision. Spec
// section 3 requires randomness, not content addressing.
func NewID() string {
	return uuid.New().String()
}

// Fingerprint computes a content fingerprint of data. It is used only to
// detect change, never to address storage (spec Non-goals explicitly rule
// out a content-addressed object store).
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// metadataPath returns the path to a commit directory's metadata file.
func metadataPath(commitDir string) string {
	return filepath.Join(commitDir, ".metadata", "metadata.json")
}

// Load reads the revision metadata stored under commitDir.
func Load(commitDir string) (Metadata, error) {
	var m Metadata
	if err := fsutil.ReadJSON(metadataPath(commitDir), &m); err != nil {
		return Metadata{}, fmt.Errorf("load revision metadata: %w", err)
	}
	return m, nil
}

// Save persists m under commitDir.
func Save(commitDir string, m Metadata) error {
	if err := fsutil.WriteJSON(metadataPath(commitDir), m); err != nil {
		return fmt.Errorf("save revision metadata: %w", err)
	}
	return nil
}

// SnapshotPath returns the path of file's stored snapshot within a commit
// directory.
func SnapshotPath(commitDir, file string) string {
	return filepath.Join(commitDir, filepath.FromSlash(file))
}

// Verify checks the invariant that every path in m.Files has a snapshot
// on disk under commitDir whose fingerprint equals the recorded one.
func Verify(commitDir string, m Metadata) error {
	for file, want := range m.Files {
		data, err := fsutil.ReadFile(SnapshotPath(commitDir, file))
		if err != nil {
			return fmt.Errorf("verify revision %s: missing snapshot for %q: %w", m.ID, file, err)
		}
		if got := Fingerprint(data); got != want {
			return fmt.Errorf("verify revision %s: fingerprint mismatch for %q: recorded %s, computed %s", m.ID, file, want, got)
		}
	}
	return nil
}
