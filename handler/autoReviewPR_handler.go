package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo/v4"

	"review_pal/log"
	"review_pal/model"
)

// isIgnoredAuthor reports whether the PR author is on the configured ignore
// list. Matching is exact after trimming surrounding whitespace.
func isIgnoredAuthor(author string, list []string) bool {
	a := strings.TrimSpace(author)
	for _, name := range list {
		if strings.TrimSpace(name) == a {
			return true
		}
	}
	return false
}

// RunFromEvent drives a single review from a GitHub Actions event payload.
// Actions other than opened/synchronize are a clean no-op.
func (rp *ReviewPRHandler) RunFromEvent(eventPath string) error {
	data, err := os.ReadFile(eventPath)
	if err != nil {
		log.Errorf("Error reading event payload %s: %v", eventPath, err)
		return err
	}

	var event model.GithubEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Errorf("Error parsing event payload: %v", err)
		return err
	}

	if event.Action != "opened" && event.Action != "synchronize" {
		log.Warnf("Unsupported event action: %s", event.Action)
		return nil
	}

	number := event.PullRequest.Number
	if number == 0 {
		number = event.Number
	}
	owner := event.Repository.Owner.Login
	repo := event.Repository.Name
	log.Infof("Processing %s event for PR #%d in %s/%s", event.Action, number, owner, repo)

	pr, err := rp.Github.FetchPullRequestDetails(owner, repo, number)
	if err != nil {
		log.Errorf("Error fetching PR details: %v", err)
		return err
	}
	return rp.ReviewPullRequest(pr)
}

// ReviewOpenPullRequests reviews every open PR of a repository. Used by the
// scheduled sweep; a mutex-guarded flag prevents overlapping executions when
// a run takes longer than the cron interval.
func (rp *ReviewPRHandler) ReviewOpenPullRequests(owner, repo string, ignoreAuthors []string) error {
	rp.mutex.Lock()
	if rp.isRunning {
		rp.mutex.Unlock()
		log.Infof("Skipping review execution - another review process is already running for %s/%s", owner, repo)
		return nil
	}
	rp.isRunning = true
	rp.mutex.Unlock()

	defer func() {
		rp.mutex.Lock()
		rp.isRunning = false
		rp.mutex.Unlock()
		log.Info("Review PR sweep completed - lock released")
	}()

	startTime := time.Now()
	log.Infof("Start review sweep for %s/%s (acquired lock)", owner, repo)

	allPR, err := rp.Github.FetchOpenPullRequests(owner, repo)
	if err != nil {
		log.Errorf("Error fetching open pull requests: %v", err)
		return err
	}
	log.Infof("Fetched %d pull requests for review", len(allPR))

	for i, summary := range allPR {
		log.Infof("Processing PR #%d: '%s' by %s", summary.Number, summary.Title, summary.Author)

		// Add small delay between PRs to reduce API load and prevent rate limiting
		if i > 0 {
			time.Sleep(2 * time.Second)
			log.Debugf("Added delay before processing PR #%d", summary.Number)
		}

		if isIgnoredAuthor(summary.Author, ignoreAuthors) {
			log.Infof("Skipping PR #%d by %s (matches ignore list)", summary.Number, summary.Author)
			continue
		}

		pr, err := rp.Github.FetchPullRequestDetails(owner, repo, summary.Number)
		if err != nil {
			log.Errorf("Error fetching details for PR #%d: %v", summary.Number, err)
			continue
		}
		if err := rp.ReviewPullRequest(pr); err != nil {
			log.Errorf("Review failed for PR #%d: %v", summary.Number, err)
			continue
		}
	}

	log.Infof("Review sweep completed for %s/%s in %v", owner, repo, time.Since(startTime))
	return nil
}

// SetupReviewJobs schedules one cron job per configured repository. The
// handlers map is keyed by "owner/repo" so webhook deliveries can reuse the
// same per-repo handler.
func SetupReviewJobs(cfg model.Task, handlers map[string]*ReviewPRHandler) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Errorf("Failed to create scheduler: %v", err)
		return nil, err
	}

	for i, review := range cfg.AutoReviewPRs {
		review := review
		rp, ok := handlers[review.Owner+"/"+review.Repo]
		if !ok {
			log.Warnf("No handler for %s/%s, skipping job %d", review.Owner, review.Repo, i)
			continue
		}
		log.Info("Setup Review ", i, " ==> ", review.Cron)
		_, err := s.NewJob(
			gocron.CronJob(review.Cron, true),
			gocron.NewTask(func() {
				_ = rp.ReviewOpenPullRequests(review.Owner, review.Repo, review.IgnorePullRequestOf.Authors)
			}),
		)
		if err != nil {
			log.Error(err)
		}
	}
	return s, nil
}

// RegisterRoutes wires the webhook and health endpoints onto the echo server.
func RegisterRoutes(e *echo.Echo, handlers map[string]*ReviewPRHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/webhook", func(c echo.Context) error {
		return handleWebhook(c, handlers)
	})
}

// handleWebhook reviews a PR in response to a GitHub pull_request webhook
// delivery. Unknown repositories and non-trigger actions are acknowledged
// with 200 and otherwise ignored.
func handleWebhook(c echo.Context, handlers map[string]*ReviewPRHandler) error {
	var event model.GithubEvent
	if err := c.Bind(&event); err != nil {
		log.Errorf("Error decoding webhook payload: %v", err)
		return c.NoContent(http.StatusBadRequest)
	}

	if event.Action != "opened" && event.Action != "synchronize" {
		log.Infof("Ignoring webhook action: %s", event.Action)
		return c.NoContent(http.StatusOK)
	}

	rp, ok := handlers[event.Repository.FullName]
	if !ok {
		log.Warnf("No review configuration for repository %s", event.Repository.FullName)
		return c.NoContent(http.StatusOK)
	}

	number := event.PullRequest.Number
	if number == 0 {
		number = event.Number
	}
	owner := event.Repository.Owner.Login
	repo := event.Repository.Name
	log.Infof("Webhook: %s event for PR #%d in %s/%s", event.Action, number, owner, repo)

	pr, err := rp.Github.FetchPullRequestDetails(owner, repo, number)
	if err != nil {
		log.Errorf("Error fetching PR details: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	if err := rp.ReviewPullRequest(pr); err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusOK)
}
