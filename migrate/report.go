package migrate

import "strings"

// FileKind tells which declarations of a file were migrated.
type FileKind int

const (
	ComponentFile FileKind = 1 << iota
	ModuleFile
)

func (k FileKind) String() string {
	var kinds []string
	if k&ComponentFile != 0 {
		kinds = append(kinds, "component")
	}
	if k&ModuleFile != 0 {
		kinds = append(kinds, "module")
	}
	if len(kinds) == 0 {
		return "unknown"
	}
	return strings.Join(kinds, "+")
}

// Status is the outcome of migrating one file.
type Status int

const (
	Unchanged Status = iota
	Changed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Changed:
		return "changed"
	case Skipped:
		return "skipped"
	default:
		return "unchanged"
	}
}

// FileResult describes what happened to one file.
type FileResult struct {
	Path   string
	Kind   FileKind
	Status Status
	Reason string
	Before []byte
	After  []byte
}

func (r *FileResult) skipped(reason string) *FileResult {
	r.Status = Skipped
	r.Reason = reason
	r.After = r.Before
	return r
}

// Report collects the results of a migration run, sorted by path.
type Report struct {
	Results []FileResult
	// Saved lists the files written to disk. Empty on dry runs.
	Saved []string
}

// Changed returns the results of files whose text changed.
func (r *Report) Changed() []FileResult {
	return r.withStatus(Changed)
}

// Skipped returns the results of files left alone because of an error.
func (r *Report) Skipped() []FileResult {
	return r.withStatus(Skipped)
}

// Result returns the result for path.
func (r *Report) Result(path string) (FileResult, bool) {
	for _, result := range r.Results {
		if result.Path == path {
			return result, true
		}
	}
	return FileResult{}, false
}

func (r *Report) withStatus(status Status) []FileResult {
	var results []FileResult
	for _, result := range r.Results {
		if result.Status == status {
			results = append(results, result)
		}
	}
	return results
}
