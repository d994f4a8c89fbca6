package artifact

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffSummary describes how a regeneration changed a document.
type DiffSummary struct {
	Additions int    `json:"additions" yaml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions"`
	Patch     string `json:"patch,omitempty" yaml:"patch,omitempty"`
}

// Changed reports whether anything differs.
func (d DiffSummary) Changed() bool {
	return d.Additions > 0 || d.Deletions > 0
}

// Diff compares two revisions line by line.
func Diff(before, after string) DiffSummary {
	if before == after {
		return DiffSummary{}
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sum DiffSummary
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sum.Additions += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			sum.Deletions += countLines(d.Text)
		}
	}
	sum.Patch = dmp.PatchToText(dmp.PatchMake(before, diffs))
	return sum
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	lines := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		lines++
	}
	return lines
}
