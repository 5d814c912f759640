// Package merge3 implements the per-line three-way reconciliation spec
// section 4.4 describes: a positional merge when a common ancestor is
// available, and a pairwise-diff fallback (built on pkg/linediff) when it
// is not. Both emit the byte-exact conflict marker format of spec
// section 6.
package merge3

import (
	"strings"

	"github.com/danwg/dvcs/pkg/linediff"
)

// Result is the outcome of merging two sides' lines.
type Result struct {
	Lines       []string
	HasConflict bool
}

// conflictBuilder accumulates the two sides' buffered lines and flushes
// them as one conflict block once agreement resumes.
type conflictBuilder struct {
	intoLabel, fromLabel string
	lines                []string
	hasConflict          bool
	bufInto, bufFrom     []string
}

func (c *conflictBuilder) bufferInto(line string) { c.bufInto = append(c.bufInto, line) }
func (c *conflictBuilder) bufferFrom(line string) { c.bufFrom = append(c.bufFrom, line) }

func (c *conflictBuilder) adopt(line string) {
	c.flush()
	c.lines = append(c.lines, line)
}

func (c *conflictBuilder) flush() {
	if len(c.bufInto) == 0 && len(c.bufFrom) == 0 {
		return
	}
	c.hasConflict = true
	c.lines = append(c.lines, "<<<<<<< "+c.intoLabel)
	c.lines = append(c.lines, c.bufInto...)
	c.lines = append(c.lines, "=======")
	c.lines = append(c.lines, c.bufFrom...)
	c.lines = append(c.lines, ">>>>>>> "+c.fromLabel)
	c.bufInto, c.bufFrom = nil, nil
}

func (c *conflictBuilder) result() Result {
	c.flush()
	return Result{Lines: c.lines, HasConflict: c.hasConflict}
}

// ThreeWay merges intoLines and fromLines using ancestorLines as the
// common base. It steps through the longest of the three line sequences;
// where both sides agree, or where one side is unchanged from the
// ancestor, it adopts the other side's line. Where only one side has a
// line at a given position (one side's trailing addition), that side's
// line is adopted without conflict. Everywhere else, both sides'
// divergent lines are buffered and flushed as one conflict block.
func ThreeWay(intoLabel string, intoLines []string, fromLabel string, fromLines []string, ancestorLines []string) Result {
	n := len(intoLines)
	if len(fromLines) > n {
		n = len(fromLines)
	}
	if len(ancestorLines) > n {
		n = len(ancestorLines)
	}

	c := &conflictBuilder{intoLabel: intoLabel, fromLabel: fromLabel}
	for i := 0; i < n; i++ {
		var intoLine, fromLine, ancestorLine string
		var intoOK, fromOK, ancestorOK bool
		if i < len(intoLines) {
			intoLine, intoOK = intoLines[i], true
		}
		if i < len(fromLines) {
			fromLine, fromOK = fromLines[i], true
		}
		if i < len(ancestorLines) {
			ancestorLine, ancestorOK = ancestorLines[i], true
		}

		switch {
		case intoOK && fromOK && intoLine == fromLine:
			c.adopt(intoLine)
		case intoOK && fromOK && ancestorOK && intoLine == ancestorLine:
			c.adopt(fromLine)
		case intoOK && fromOK && ancestorOK && fromLine == ancestorLine:
			c.adopt(intoLine)
		case intoOK && !fromOK:
			c.adopt(intoLine)
		case !intoOK && fromOK:
			c.adopt(fromLine)
		default:
			if intoOK {
				c.bufferInto(intoLine)
			}
			if fromOK {
				c.bufferFrom(fromLine)
			}
		}
	}
	return c.result()
}

// NoAncestor merges intoLines and fromLines when no common ancestor is
// known: it runs the ordinary line diff between them and turns every
// divergent region into a conflict block, adopting only the lines both
// sides agree on.
func NoAncestor(intoLabel string, intoLines []string, fromLabel string, fromLines []string) Result {
	oldContent := []byte(strings.Join(intoLines, "\n") + "\n")
	newContent := []byte(strings.Join(fromLines, "\n") + "\n")
	ops := linediff.Lines(oldContent, newContent)

	c := &conflictBuilder{intoLabel: intoLabel, fromLabel: fromLabel}
	for _, op := range ops {
		switch op.Kind {
		case linediff.Kept:
			c.adopt(op.Text)
		case linediff.Removed:
			c.bufferInto(op.Text)
		case linediff.Added:
			c.bufferFrom(op.Text)
		}
	}
	return c.result()
}
