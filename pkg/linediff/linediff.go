// Package linediff computes line-oriented unified diffs between two file
// contents: an LCS-based line diff, hunk assembly with a gap threshold,
// and context trimming (spec section 4.4). It also builds the per-file
// diff header format spec section 6 specifies byte-exactly.
package linediff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/danwg/dvcs/pkg/dvcserr"
	"github.com/danwg/dvcs/pkg/fsutil"
)

// ErrInvalidData signals the invariant breach spec section 7 calls out:
// two sides recorded with different fingerprints but byte-identical
// content.
var ErrInvalidData = dvcserr.ErrInvalidData

// Mode is the fixed file-mode label used in diff headers; the engine
// does not model executable bits or symlinks.
const Mode = "100644"

// Context is the number of unchanged lines kept on either side of a
// change within a hunk, and half the gap threshold used to decide when
// two changes belong in separate hunks.
const Context = 3

// OpKind classifies one line of a line-level diff.
type OpKind byte

const (
	Kept    OpKind = ' '
	Removed OpKind = '-'
	Added   OpKind = '+'
)

// Op is one line of the diff, with its 1-based line numbers in the old
// and new file (0 when not applicable to that side).
type Op struct {
	Kind  OpKind
	Text  string
	OldNo int
	NewNo int
}

// Hunk is a contiguous, context-trimmed run of a line diff.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Ops                []Op
}

// splitLines splits s into lines without a trailing empty element when s
// ends in a newline, mirroring standard text file conventions. It also
// reports whether s ended in a newline.
func splitLines(s string) (lines []string, endsInNewline bool) {
	if s == "" {
		return nil, false
	}
	endsInNewline = strings.HasSuffix(s, "\n")
	trimmed := s
	if endsInNewline {
		trimmed = s[:len(s)-1]
	}
	return strings.Split(trimmed, "\n"), endsInNewline
}

// Lines computes an LCS-based line diff between old and new content,
// annotating each resulting op with its line number on each side.
func Lines(oldContent, newContent []byte) []Op {
	oldLines, _ := splitLines(string(oldContent))
	newLines, _ := splitLines(string(newContent))
	return diffLines(oldLines, newLines)
}

// SplitLines splits content into lines and reports whether it ended in a
// trailing newline, the way merge and diff both need to reconstruct text
// from a line slice.
func SplitLines(content []byte) (lines []string, endsInNewline bool) {
	return splitLines(string(content))
}

// diffLines runs a classic dynamic-programming LCS over two line slices
// and reconstructs the kept/removed/added sequence from it.
func diffLines(a, b []string) []Op {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []Op
	i, j := 0, 0
	oldNo, newNo := 1, 1
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Op{Kind: Kept, Text: a[i], OldNo: oldNo, NewNo: newNo})
			i++
			j++
			oldNo++
			newNo++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, Op{Kind: Removed, Text: a[i], OldNo: oldNo})
			i++
			oldNo++
		default:
			ops = append(ops, Op{Kind: Added, Text: b[j], NewNo: newNo})
			j++
			newNo++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, Op{Kind: Removed, Text: a[i], OldNo: oldNo})
		oldNo++
	}
	for ; j < m; j++ {
		ops = append(ops, Op{Kind: Added, Text: b[j], NewNo: newNo})
		newNo++
	}
	return ops
}

// BuildHunks groups ops into hunks, starting a new hunk whenever the gap
// between two changed lines exceeds 2*Context, then trims each hunk to
// Context lines of unchanged context around its first and last change.
func BuildHunks(ops []Op) []Hunk {
	var hunks []Hunk
	var current []Op
	lastChange := -1

	flush := func() {
		if len(current) == 0 {
			return
		}
		hunks = append(hunks, trimHunk(current))
		current = nil
	}

	for i, op := range ops {
		if op.Kind != Kept {
			if lastChange >= 0 && i > lastChange+2*Context {
				flush()
				// The new hunk opens with the Context unchanged lines
				// that precede its first change.
				current = append(current, ops[i-Context:i]...)
			}
			lastChange = i
		}
		current = append(current, op)
	}
	flush()
	return hunks
}

func trimHunk(ops []Op) Hunk {
	first, last := -1, -1
	for i, op := range ops {
		if op.Kind != Kept {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	start := 0
	end := len(ops)
	if first != -1 {
		start = first - Context
		if start < 0 {
			start = 0
		}
		end = last + Context + 1
		if end > len(ops) {
			end = len(ops)
		}
	}
	trimmed := ops[start:end]

	h := Hunk{Ops: trimmed}
	for _, op := range trimmed {
		if op.Kind != Added {
			if h.OldStart == 0 {
				h.OldStart = op.OldNo
			}
			h.OldCount++
		}
		if op.Kind != Removed {
			if h.NewStart == 0 {
				h.NewStart = op.NewNo
			}
			h.NewCount++
		}
	}
	return h
}

// Format renders a hunk as a unified-diff section: the "@@ ... @@" header
// followed by one prefixed line per op. It adds no "\ No newline at end
// of file" marker; UnifiedBody appends that after the final hunk.
func Format(h Hunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	for _, op := range h.Ops {
		b.WriteByte('\n')
		b.WriteByte(byte(op.Kind))
		b.WriteString(op.Text)
	}
	return b.String()
}

// noNewlineMarker returns the marker line to append when old/new content
// don't agree on a trailing newline, and the empty string when they do.
func noNewlineMarker(oldContent, newContent []byte) string {
	_, oldNL := splitLines(string(oldContent))
	_, newNL := splitLines(string(newContent))
	switch {
	case oldNL && newNL:
		return ""
	case oldNL && !newNL:
		return "+\\ No newline at end of file"
	case !oldNL && newNL:
		return "-\\ No newline at end of file"
	default:
		return ""
	}
}

// UnifiedBody renders the full hunk-by-hunk body of a unified diff
// between oldContent and newContent, including the "No newline at end of
// file" marker on the final hunk when the two sides disagree about a
// trailing newline.
func UnifiedBody(oldContent, newContent []byte) string {
	ops := Lines(oldContent, newContent)
	hunks := BuildHunks(ops)
	marker := noNewlineMarker(oldContent, newContent)

	if len(hunks) == 0 {
		if marker == "" || len(ops) == 0 {
			return ""
		}
		// Content is identical line-for-line; the only difference is the
		// trailing newline. Anchor the marker to a short context hunk
		// around the last line, the way a conventional diff tool would.
		start := len(ops) - Context
		if start < 0 {
			start = 0
		}
		hunks = []Hunk{trimHunk(ops[start:])}
	}

	rendered := make([]string, len(hunks))
	for i, h := range hunks {
		rendered[i] = Format(h)
	}
	body := strings.Join(rendered, "\n")
	if marker != "" {
		body += "\n" + marker
	}
	return body
}

// Header renders the "diff --dvcs", "index", mode, and "---"/"+++" lines
// that precede a file's hunk body, per spec section 6. oldPresent/
// newPresent false substitutes "/dev/null" for that side's label on the
// --- or +++ line only; the "diff --dvcs" line always names both ids.
func Header(file, oldID string, oldPresent bool, oldFingerprint, newID string, newPresent bool, newFingerprint string) string {
	oldLabel := fmt.Sprintf("%s/%s", oldID, file)
	newLabel := fmt.Sprintf("%s/%s", newID, file)

	var b strings.Builder
	fmt.Fprintf(&b, "diff --dvcs %s %s\n", oldLabel, newLabel)
	fmt.Fprintf(&b, "index %s..%s %s\n", oldFingerprint, newFingerprint, Mode)

	oldFile := oldLabel
	if !oldPresent {
		oldFile = "/dev/null"
	}
	newFile := newLabel
	if !newPresent {
		newFile = "/dev/null"
	}
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldFile, newFile)
	return b.String()
}

// FileDiff renders the complete per-file diff section: the header
// followed by either a unified-diff body, a binary-files-differ notice,
// or — for an invariant breach where the fingerprints differ but the
// bytes don't — ErrInvalidData.
func FileDiff(file string, oldID string, oldPresent bool, oldContent []byte, oldFingerprint string, newID string, newPresent bool, newContent []byte, newFingerprint string) (string, error) {
	header := Header(file, oldID, oldPresent, oldFingerprint, newID, newPresent, newFingerprint)

	oldEmpty := len(oldContent) == 0
	newEmpty := len(newContent) == 0
	oneSideEmpty := oldEmpty != newEmpty

	if fsutil.IsBinary(oldContent) || fsutil.IsBinary(newContent) || oneSideEmpty {
		return header + fmt.Sprintf("Binary files %s/%s and %s/%s differ\n", oldID, file, newID, file), nil
	}

	if bytes.Equal(oldContent, newContent) {
		return "", fmt.Errorf("%w: %s/%s and %s/%s are identical in content but have different fingerprints", ErrInvalidData, oldID, file, newID, file)
	}

	return header + UnifiedBody(oldContent, newContent) + "\n", nil
}
