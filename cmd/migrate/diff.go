package migrate

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is how many unchanged lines surround each change.
const contextLines = 2

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// writeDiff prints a line diff of a file, keeping a few unchanged lines
// around every change.
func writeDiff(w io.Writer, path string, before, after []byte) error {
	lines := diffLines(string(before), string(after))

	visible := make([]bool, len(lines))
	for i, line := range lines {
		if line.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-contextLines); j <= min(len(lines)-1, i+contextLines); j++ {
			visible[j] = true
		}
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)

	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", path, path); err != nil {
		return err
	}

	inHunk := false
	for i, line := range lines {
		if !visible[i] {
			inHunk = false
			continue
		}
		if !inHunk {
			if _, err := header.Fprintln(w, "@@"); err != nil {
				return err
			}
			inHunk = true
		}

		var err error
		switch line.op {
		case diffmatchpatch.DiffInsert:
			_, err = added.Fprintln(w, "+"+line.text)
		case diffmatchpatch.DiffDelete:
			_, err = removed.Fprintln(w, "-"+line.text)
		default:
			_, err = fmt.Fprintln(w, " "+line.text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	src, dst, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lineArray)

	var lines []diffLine
	for _, d := range diffs {
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			lines = append(lines, diffLine{op: d.Type, text: strings.TrimSuffix(text, "\n")})
		}
	}
	return lines
}
