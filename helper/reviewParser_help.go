package helper

import (
	"encoding/json"
	"regexp"
	"strings"

	"review_pal/log"
	"review_pal/model"
)

// Some models wrap their output in markdown fences no matter what the prompt
// says; remove the fence markers (with or without a language tag) and keep
// the fenced content.
var codeFencePattern = regexp.MustCompile("```" + `(\w+)?`)

// StripCodeFences removes every code-fence marker while preserving the
// fenced content.
func StripCodeFences(s string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(s, ""))
}

// stripEnclosingFences removes a single fence pair wrapped around the whole
// payload. Fences inside the payload are left alone so code suggestions
// embedded in review comments survive.
func stripEnclosingFences(s string) string {
	text := strings.TrimSpace(s)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// ParseReviewResponse decodes the model's raw text into validated review
// items. Unparseable output yields an empty list, never an error: malformed
// model output means "no actionable review". Items are validated one by one
// so a single bad item does not discard the rest.
func ParseReviewResponse(raw string) []model.ReviewItem {
	text := stripEnclosingFences(raw)
	if text == "" {
		return nil
	}

	var resp model.ReviewResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		log.Warnf("Discarding unparseable review response: %v", err)
		log.Debug("Raw data from AI: " + raw)
		return nil
	}

	items := make([]model.ReviewItem, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		comment := strings.TrimSpace(r.ReviewComment)
		if r.LineNumber <= 0 {
			log.Debugf("Dropping review item with invalid line number %d", r.LineNumber)
			continue
		}
		if comment == "" {
			log.Debugf("Dropping review item with empty comment at line %d", r.LineNumber)
			continue
		}
		items = append(items, model.ReviewItem{LineNumber: r.LineNumber, Comment: comment})
	}
	return items
}

// SanitizeReportBody is the free-text passthrough used in pull-request mode:
// the whole text is the comment body, minus any fence markers — the comment
// destination rejects code-block wrapping, so every marker goes while the
// fenced content stays.
func SanitizeReportBody(raw string) string {
	return StripCodeFences(raw)
}
