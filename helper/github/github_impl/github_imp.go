package github_impl

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v68/github"

	"review_pal/log"
	"review_pal/model"
)

// Fetch the metadata for a specific pull request
func (c *Client) FetchPullRequestDetails(owner, repo string, number int) (*model.PullRequestContext, error) {
	log.Debugf("Fetching details for PR #%d in %s/%s", number, owner, repo)

	pr, _, err := c.gh.PullRequests.Get(context.Background(), owner, repo, number)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	return &model.PullRequestContext{
		Owner:       owner,
		Repo:        repo,
		PullNumber:  number,
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
	}, nil
}

// Fetch the open pull requests of a repository, for the scheduled sweep
func (c *Client) FetchOpenPullRequests(owner, repo string) ([]model.PullRequestSummary, error) {
	log.Debugf("Fetching open pull requests for %s/%s", owner, repo)

	opts := &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: 50},
	}

	var summaries []model.PullRequestSummary
	for {
		prs, resp, err := c.gh.PullRequests.List(context.Background(), owner, repo, opts)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		for _, pr := range prs {
			summaries = append(summaries, model.PullRequestSummary{
				Number: pr.GetNumber(),
				Title:  pr.GetTitle(),
				Author: pr.GetUser().GetLogin(),
				State:  pr.GetState(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debugf("Fetched %d open pull requests for %s/%s", len(summaries), owner, repo)
	return summaries, nil
}

// Fetch the diff for a specific pull request as unified-diff text
func (c *Client) FetchPullRequestDiff(owner, repo string, number int) (string, error) {
	log.Debugf("Fetching diff for PR #%d in %s/%s", number, owner, repo)

	diff, _, err := c.gh.PullRequests.GetRaw(context.Background(), owner, repo, number, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		log.Error(err)
		return "", err
	}
	return diff, nil
}

// Fetch the line-anchored review comments already present on a pull request
func (c *Client) FetchReviewComments(owner, repo string, number int) ([]model.ExistingComment, error) {
	log.Debugf("Fetching review comments for PR #%d in %s/%s", number, owner, repo)

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var existing []model.ExistingComment
	for {
		comments, resp, err := c.gh.PullRequests.ListComments(context.Background(), owner, repo, number, opts)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		for _, comment := range comments {
			existing = append(existing, model.ExistingComment{
				Path: comment.GetPath(),
				Line: comment.GetLine(),
				User: comment.GetUser().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return existing, nil
}

// Push a single free-text comment to a pull request's conversation
func (c *Client) CreateIssueComment(owner, repo string, number int, body string) error {
	log.Debugf("Posting issue comment to PR #%d in %s/%s", number, owner, repo)

	comment := &gh.IssueComment{Body: gh.String(body)}
	_, resp, err := c.gh.Issues.CreateComment(context.Background(), owner, repo, number, comment)
	if err != nil {
		if resp != nil {
			log.Errorf("Failed to post issue comment. Status: %d, Error: %v", resp.StatusCode, err)
		} else {
			log.Error(err)
		}
		return err
	}

	log.Debug("Issue comment posted successfully")
	return nil
}

// Push a batch of line-anchored comments to a pull request in one review
func (c *Client) CreateReviewComments(owner, repo string, number int, payloads []model.CommentPayload) error {
	if len(payloads) == 0 {
		return fmt.Errorf("no comment payloads to post")
	}
	log.Debugf("Posting %d review comments to PR #%d in %s/%s", len(payloads), number, owner, repo)

	comments := make([]*gh.DraftReviewComment, 0, len(payloads))
	for _, p := range payloads {
		comments = append(comments, &gh.DraftReviewComment{
			Path: gh.String(p.Path),
			Line: gh.Int(p.Line),
			Body: gh.String(p.Body),
			Side: gh.String(p.Side),
		})
	}

	review := &gh.PullRequestReviewRequest{
		Event:    gh.String("COMMENT"),
		Comments: comments,
	}
	_, resp, err := c.gh.PullRequests.CreateReview(context.Background(), owner, repo, number, review)
	if err != nil {
		if resp != nil {
			log.Errorf("Failed to post review comments. Status: %d, Error: %v", resp.StatusCode, err)
		} else {
			log.Error(err)
		}
		return err
	}

	log.Debugf("✓ Posted %d review comments on PR #%d", len(payloads), number)
	return nil
}
