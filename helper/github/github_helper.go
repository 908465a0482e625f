package github

import "review_pal/model"

// Github exposes the source-control operations the review pipeline cares
// about. Implementations can be swapped for fakes in tests.
type Github interface {
	FetchPullRequestDetails(owner, repo string, number int) (*model.PullRequestContext, error)
	FetchOpenPullRequests(owner, repo string) ([]model.PullRequestSummary, error)
	FetchPullRequestDiff(owner, repo string, number int) (string, error)
	// FetchReviewComments lists the line-anchored comments already on the PR,
	// so repeated sweeps can skip positions the bot has commented on before.
	FetchReviewComments(owner, repo string, number int) ([]model.ExistingComment, error)
	CreateIssueComment(owner, repo string, number int, body string) error
	// CreateReviewComments posts the whole batch of line-anchored comments in
	// a single review.
	CreateReviewComments(owner, repo string, number int, payloads []model.CommentPayload) error
}
