package handler

import (
	"fmt"
	"strings"
	"sync"

	"review_pal/helper"
	"review_pal/helper/ai"
	"review_pal/helper/github"
	"review_pal/log"
	"review_pal/model"
)

type ReviewPRHandler struct {
	Github github.Github
	AI     ai.Completion
	// Mode picks the comment granularity: one comment per added line, one
	// per file, or one report for the whole pull request.
	Mode model.ReviewMode
	// PostEmptyReport posts a fixed "no issues found" text instead of
	// staying silent when the review comes back empty (pull-request mode).
	PostEmptyReport bool
	// BotUsername, when set, enables duplicate suppression against review
	// comments the bot posted on earlier sweeps.
	BotUsername string

	mutex     sync.Mutex // Prevents concurrent review executions
	isRunning bool       // Flag to track if review is currently running
}

// ReviewPullRequest runs the full diff-to-review pipeline for one PR: fetch
// diff, parse change units, prompt the model per unit, validate its output
// and post the aggregated comments. A missing diff or an empty review is a
// clean no-op, not an error.
func (rp *ReviewPRHandler) ReviewPullRequest(pr *model.PullRequestContext) error {
	diff, err := rp.Github.FetchPullRequestDiff(pr.Owner, pr.Repo, pr.PullNumber)
	if err != nil {
		log.Errorf("Error fetching diff for PR #%d: %v", pr.PullNumber, err)
		return err
	}
	if strings.TrimSpace(diff) == "" {
		log.Warnf("No diff found for PR #%d", pr.PullNumber)
		return nil
	}

	files := helper.ParseDiff(diff)
	if len(files) == 0 {
		log.Infof("No added lines to review in PR #%d", pr.PullNumber)
		return nil
	}

	switch rp.Mode {
	case model.ModePR:
		return rp.reviewWholePullRequest(files, pr)
	case model.ModeFile:
		return rp.reviewPerFile(files, pr)
	default:
		return rp.reviewPerLine(files, pr)
	}
}

// reviewPerLine asks the model about every added line individually and posts
// one comment per accepted review item. A failed completion call yields zero
// reviews for that line and processing continues.
func (rp *ReviewPRHandler) reviewPerLine(files []model.FileChangeSet, pr *model.PullRequestContext) error {
	var payloads []model.CommentPayload
	for _, file := range files {
		for _, unit := range file.Units {
			prompt := helper.CreateLinePrompt(unit, pr)
			raw, err := rp.AI.Complete(prompt)
			if err != nil {
				log.Errorf("AI error for %s:%d in PR #%d: %v", unit.FilePath, unit.LineNumber, pr.PullNumber, err)
				continue
			}
			items := helper.ParseReviewResponse(raw)
			payloads = append(payloads, helper.AggregateLineComments(items, file)...)
		}
	}
	return rp.postReviewComments(pr, payloads)
}

// reviewPerFile asks the model once per file and posts one combined comment
// per file, anchored at the file's last changed line.
func (rp *ReviewPRHandler) reviewPerFile(files []model.FileChangeSet, pr *model.PullRequestContext) error {
	var payloads []model.CommentPayload
	for _, file := range files {
		prompt := helper.CreateFilePrompt(file, pr)
		raw, err := rp.AI.Complete(prompt)
		if err != nil {
			log.Errorf("AI error for file %s in PR #%d: %v", file.FilePath, pr.PullNumber, err)
			continue
		}
		items := helper.ParseReviewResponse(raw)
		payloads = append(payloads, helper.AggregateFileComment(items, file)...)
	}
	return rp.postReviewComments(pr, payloads)
}

// reviewWholePullRequest asks the model once for the entire PR and posts the
// free-text report as a single issue comment.
func (rp *ReviewPRHandler) reviewWholePullRequest(files []model.FileChangeSet, pr *model.PullRequestContext) error {
	prompt := helper.CreatePullRequestPrompt(files, pr)
	raw, err := rp.AI.Complete(prompt)
	if err != nil {
		log.Errorf("AI error for PR #%d: %v", pr.PullNumber, err)
		return nil
	}

	body, ok := helper.BuildIssueComment(helper.SanitizeReportBody(raw), rp.PostEmptyReport)
	if !ok {
		log.Infof("No comments generated by AI for PR #%d", pr.PullNumber)
		return nil
	}

	if err := rp.Github.CreateIssueComment(pr.Owner, pr.Repo, pr.PullNumber, body); err != nil {
		log.Errorf("Failed to post issue comment for PR #%d: %v", pr.PullNumber, err)
		return err
	}
	log.Infof("✓ Posted review report for PR #%d", pr.PullNumber)
	return nil
}

// postReviewComments posts the batch of line-anchored comments, skipping
// positions the bot already commented on. Zero payloads means silence.
func (rp *ReviewPRHandler) postReviewComments(pr *model.PullRequestContext, payloads []model.CommentPayload) error {
	payloads = rp.filterExistingComments(pr, payloads)
	if len(payloads) == 0 {
		log.Infof("No review comments to post for PR #%d", pr.PullNumber)
		return nil
	}

	if err := rp.Github.CreateReviewComments(pr.Owner, pr.Repo, pr.PullNumber, payloads); err != nil {
		log.Errorf("Failed to post review comments for PR #%d: %v", pr.PullNumber, err)
		return err
	}
	log.Infof("✓ Posted %d review comments for PR #%d", len(payloads), pr.PullNumber)
	return nil
}

// filterExistingComments drops payloads whose path:line position already
// carries a comment by the bot account. Disabled when BotUsername is empty.
// A failed lookup degrades to posting unfiltered rather than posting nothing.
func (rp *ReviewPRHandler) filterExistingComments(pr *model.PullRequestContext, payloads []model.CommentPayload) []model.CommentPayload {
	if rp.BotUsername == "" || len(payloads) == 0 {
		return payloads
	}

	existing, err := rp.Github.FetchReviewComments(pr.Owner, pr.Repo, pr.PullNumber)
	if err != nil {
		log.Errorf("Error fetching existing comments for PR #%d: %v", pr.PullNumber, err)
		return payloads
	}

	seen := make(map[string]bool)
	for _, comment := range existing {
		if comment.User == rp.BotUsername {
			seen[fmt.Sprintf("%s:%d", comment.Path, comment.Line)] = true
		}
	}

	filtered := make([]model.CommentPayload, 0, len(payloads))
	for _, p := range payloads {
		key := fmt.Sprintf("%s:%d", p.Path, p.Line)
		if seen[key] {
			log.Debugf("Skipping duplicate review comment at %s", key)
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
