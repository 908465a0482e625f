package helper

import (
	"fmt"
	"strings"

	"review_pal/log"
	"review_pal/model"
)

// NoIssuesBody is posted instead of silence when postEmptyReport is enabled
// and the review comes back empty.
const NoIssuesBody = "[AI Review]\n\nNo issues found in this pull request."

// AggregateLineComments turns review items for a file into one payload per
// item, anchored at the item's own line. Items claiming a line that is not
// among the file's added lines are dropped: the model sometimes hallucinates
// line numbers outside the diff.
func AggregateLineComments(items []model.ReviewItem, file model.FileChangeSet) []model.CommentPayload {
	var payloads []model.CommentPayload
	for _, item := range items {
		if !file.HasLine(item.LineNumber) {
			log.Debugf("Dropping review item for %s: line %d is not part of the diff", file.FilePath, item.LineNumber)
			continue
		}
		payloads = append(payloads, model.CommentPayload{
			Path: file.FilePath,
			Line: item.LineNumber,
			Body: NormalizeCommentBody(item.Comment),
			Side: "RIGHT",
		})
	}
	return payloads
}

// AggregateFileComment concatenates all of a file's review items into a
// single comment anchored at the file's last changed line. The claimed line
// numbers become labels inside the body, not anchors. An empty item list
// yields no payload.
func AggregateFileComment(items []model.ReviewItem, file model.FileChangeSet) []model.CommentPayload {
	if len(items) == 0 {
		return nil
	}
	var parts []string
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("Line %d: %s", item.LineNumber, item.Comment))
	}
	return []model.CommentPayload{{
		Path: file.FilePath,
		Line: file.LastChangedLine(),
		Body: NormalizeCommentBody(strings.Join(parts, "\n\n")),
		Side: "RIGHT",
	}}
}

// BuildIssueComment decides what, if anything, to post for a whole-PR
// report. An empty report posts nothing unless postEmptyReport is set.
func BuildIssueComment(report string, postEmptyReport bool) (string, bool) {
	body := NormalizeCommentBody(report)
	if body == "" {
		if postEmptyReport {
			return NoIssuesBody, true
		}
		return "", false
	}
	return body, true
}

// NormalizeCommentBody cleans up line endings and excessive blank lines so
// the markdown renders with proper paragraph breaks.
func NormalizeCommentBody(body string) string {
	formatted := strings.ReplaceAll(body, "\r\n", "\n")
	for strings.Contains(formatted, "\n\n\n") {
		formatted = strings.ReplaceAll(formatted, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(formatted)
}
