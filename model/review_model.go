package model

// ReviewMode selects the granularity at which review items are grouped into
// comments: one comment per changed line, per file, or per pull request.
type ReviewMode string

const (
	ModeLine ReviewMode = "line"
	ModeFile ReviewMode = "file"
	ModePR   ReviewMode = "pr"
)

// ParseReviewMode maps a configuration value to a ReviewMode. Unknown or
// empty values fall back to line mode.
func ParseReviewMode(s string) ReviewMode {
	switch ReviewMode(s) {
	case ModeFile:
		return ModeFile
	case ModePR:
		return ModePR
	default:
		return ModeLine
	}
}

// ChangeUnit is one added line in the diff. LineNumber is the line number on
// the new side of the file, taken from hunk numbering.
type ChangeUnit struct {
	FilePath   string
	LineNumber int
	Content    string
}

// FileChangeSet groups the added lines of a single file. It is never empty:
// files without added lines are dropped by the diff parser.
type FileChangeSet struct {
	FilePath string
	Units    []ChangeUnit
}

// HasLine reports whether the given new-side line number is among the file's
// added lines.
func (f *FileChangeSet) HasLine(line int) bool {
	for _, u := range f.Units {
		if u.LineNumber == line {
			return true
		}
	}
	return false
}

// LastChangedLine returns the highest added line number in the file.
func (f *FileChangeSet) LastChangedLine() int {
	last := 0
	for _, u := range f.Units {
		if u.LineNumber > last {
			last = u.LineNumber
		}
	}
	return last
}

// ReviewItem is a single model-proposed comment after validation.
type ReviewItem struct {
	LineNumber int
	Comment    string
}

// ReviewResponse is the JSON shape the prompt instructs the model to return.
type ReviewResponse struct {
	Reviews []struct {
		LineNumber    int    `json:"lineNumber"`
		ReviewComment string `json:"reviewComment"`
	} `json:"reviews"`
}

// CommentPayload is one line-anchored comment ready for posting.
type CommentPayload struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
	Side string `json:"side"`
}
