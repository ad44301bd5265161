package rewrite

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edits")

// edit replaces sourceCode[start:end] with text. Inserts have start == end.
type edit struct {
	start uint32
	end   uint32
	text  string
}

// applyEdits returns sourceCode with all edits applied, or an error without
// applying any of them.
func applyEdits(sourceCode []byte, edits []edit) ([]byte, error) {
	sorted := append([]edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start < sorted[j].start
	})

	var b strings.Builder
	b.Grow(len(sourceCode))

	cursor := uint32(0)
	for _, e := range sorted {
		if e.start < cursor || e.end < e.start || int(e.end) > len(sourceCode) {
			return nil, fmt.Errorf("%w: [%d,%d)", ErrOverlappingEdits, e.start, e.end)
		}
		b.Write(sourceCode[cursor:e.start])
		b.WriteString(e.text)
		cursor = e.end
	}
	b.Write(sourceCode[cursor:])

	return []byte(b.String()), nil
}
