package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_pal/model"
)

const fooDiff = `diff --git a/foo.py b/foo.py
index 1111111..2222222 100644
--- a/foo.py
+++ b/foo.py
@@ -4,5 +4,7 @@
 line four
+added at five
 line six
 line seven
 line eight
+added at nine
 line ten
`

type fakeGithub struct {
	diff     string
	diffErr  error
	details  map[int]*model.PullRequestContext
	openPRs  []model.PullRequestSummary
	existing []model.ExistingComment

	issueComments []string
	reviewBatches [][]model.CommentPayload
	detailCalls   int
}

func (f *fakeGithub) FetchPullRequestDetails(owner, repo string, number int) (*model.PullRequestContext, error) {
	f.detailCalls++
	if pr, ok := f.details[number]; ok {
		return pr, nil
	}
	return &model.PullRequestContext{Owner: owner, Repo: repo, PullNumber: number}, nil
}

func (f *fakeGithub) FetchOpenPullRequests(owner, repo string) ([]model.PullRequestSummary, error) {
	return f.openPRs, nil
}

func (f *fakeGithub) FetchPullRequestDiff(owner, repo string, number int) (string, error) {
	return f.diff, f.diffErr
}

func (f *fakeGithub) FetchReviewComments(owner, repo string, number int) ([]model.ExistingComment, error) {
	return f.existing, nil
}

func (f *fakeGithub) CreateIssueComment(owner, repo string, number int, body string) error {
	f.issueComments = append(f.issueComments, body)
	return nil
}

func (f *fakeGithub) CreateReviewComments(owner, repo string, number int, payloads []model.CommentPayload) error {
	f.reviewBatches = append(f.reviewBatches, payloads)
	return nil
}

type completionResult struct {
	text string
	err  error
}

type fakeAI struct {
	results []completionResult
	prompts []string
}

func (f *fakeAI) Complete(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.results) == 0 {
		return `{"reviews": []}`, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.text, r.err
}

func prContext() *model.PullRequestContext {
	return &model.PullRequestContext{
		Owner:       "octo",
		Repo:        "demo",
		PullNumber:  42,
		Title:       "Add request validation",
		Description: "Validates incoming payloads.",
	}
}

func TestReviewPullRequestPerLine(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": [{"lineNumber": 5, "reviewComment": "use a guard clause"}]}`},
		{text: `{"reviews": []}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	err := rp.ReviewPullRequest(prContext())

	require.NoError(t, err)
	assert.Len(t, ai.prompts, 2)
	require.Len(t, gh.reviewBatches, 1)
	require.Len(t, gh.reviewBatches[0], 1)
	assert.Equal(t, model.CommentPayload{
		Path: "foo.py",
		Line: 5,
		Body: "use a guard clause",
		Side: "RIGHT",
	}, gh.reviewBatches[0][0])
	assert.Empty(t, gh.issueComments)
}

func TestReviewPullRequestPerLineNothingToImprove(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	// Silence is the signal: no posting call at all.
	assert.Empty(t, gh.reviewBatches)
	assert.Empty(t, gh.issueComments)
}

func TestReviewPullRequestPerLineSurvivesAIFailure(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{
		{err: errors.New("upstream timeout")},
		{text: `{"reviews": [{"lineNumber": 9, "reviewComment": "check the bounds"}]}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	require.Len(t, gh.reviewBatches, 1)
	require.Len(t, gh.reviewBatches[0], 1)
	assert.Equal(t, 9, gh.reviewBatches[0][0].Line)
}

func TestReviewPullRequestPerLineDropsHallucinatedAnchor(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": [{"lineNumber": 999, "reviewComment": "not in the diff"}]}`},
		{text: `{"reviews": []}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	assert.Empty(t, gh.reviewBatches)
}

func TestReviewPullRequestPerFile(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": [
			{"lineNumber": 5, "reviewComment": "first finding"},
			{"lineNumber": 9, "reviewComment": "second finding"}
		]}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeFile}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	// One completion call for the whole file, one combined comment anchored
	// at the file's last changed line.
	assert.Len(t, ai.prompts, 1)
	require.Len(t, gh.reviewBatches, 1)
	require.Len(t, gh.reviewBatches[0], 1)
	payload := gh.reviewBatches[0][0]
	assert.Equal(t, "foo.py", payload.Path)
	assert.Equal(t, 9, payload.Line)
	assert.Contains(t, payload.Body, "Line 5: first finding")
	assert.Contains(t, payload.Body, "Line 9: second finding")
}

func TestReviewPullRequestWholePR(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{
		{text: "```\n[AI Review]\n\nFindings here\n```"},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModePR}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	assert.Len(t, ai.prompts, 1)
	assert.Empty(t, gh.reviewBatches)
	require.Len(t, gh.issueComments, 1)
	assert.Equal(t, "[AI Review]\n\nFindings here", gh.issueComments[0])
}

func TestReviewPullRequestWholePREmptyReport(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	ai := &fakeAI{results: []completionResult{{text: ""}}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModePR}

	require.NoError(t, rp.ReviewPullRequest(prContext()))
	assert.Empty(t, gh.issueComments)

	gh = &fakeGithub{diff: fooDiff}
	ai = &fakeAI{results: []completionResult{{text: ""}}}
	rp = &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModePR, PostEmptyReport: true}

	require.NoError(t, rp.ReviewPullRequest(prContext()))
	require.Len(t, gh.issueComments, 1)
	assert.Contains(t, gh.issueComments[0], "No issues found")
}

func TestReviewPullRequestNoDiff(t *testing.T) {
	gh := &fakeGithub{diff: "  \n"}
	ai := &fakeAI{}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	assert.Empty(t, ai.prompts)
	assert.Empty(t, gh.reviewBatches)
}

func TestPostReviewCommentsSkipsDuplicates(t *testing.T) {
	gh := &fakeGithub{
		diff: fooDiff,
		existing: []model.ExistingComment{
			{Path: "foo.py", Line: 5, User: "review-pal-bot"},
		},
	}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": [{"lineNumber": 5, "reviewComment": "already said this"}]}`},
		{text: `{"reviews": []}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine, BotUsername: "review-pal-bot"}

	require.NoError(t, rp.ReviewPullRequest(prContext()))

	assert.Empty(t, gh.reviewBatches)
}

func TestIsIgnoredAuthor(t *testing.T) {
	list := []string{"dependabot[bot]", " renovate "}

	assert.True(t, isIgnoredAuthor("dependabot[bot]", list))
	assert.True(t, isIgnoredAuthor("renovate", list))
	assert.True(t, isIgnoredAuthor(" dependabot[bot] ", list))
	assert.False(t, isIgnoredAuthor("alice", list))
	assert.False(t, isIgnoredAuthor("alice", nil))
}

func TestRunFromEventUnsupportedAction(t *testing.T) {
	eventPath := writeEventFile(t, `{"action": "labeled", "number": 42,
		"repository": {"name": "demo", "full_name": "octo/demo", "owner": {"login": "octo"}}}`)

	gh := &fakeGithub{diff: fooDiff}
	rp := &ReviewPRHandler{Github: gh, AI: &fakeAI{}, Mode: model.ModeLine}

	require.NoError(t, rp.RunFromEvent(eventPath))
	assert.Zero(t, gh.detailCalls)
}

func TestRunFromEventOpened(t *testing.T) {
	eventPath := writeEventFile(t, `{"action": "opened",
		"pull_request": {"number": 42},
		"repository": {"name": "demo", "full_name": "octo/demo", "owner": {"login": "octo"}}}`)

	gh := &fakeGithub{
		diff:    fooDiff,
		details: map[int]*model.PullRequestContext{42: prContext()},
	}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": [{"lineNumber": 5, "reviewComment": "use a guard clause"}]}`},
		{text: `{"reviews": []}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	require.NoError(t, rp.RunFromEvent(eventPath))
	require.Len(t, gh.reviewBatches, 1)
}

func TestRunFromEventMissingFile(t *testing.T) {
	rp := &ReviewPRHandler{Github: &fakeGithub{}, AI: &fakeAI{}}
	assert.Error(t, rp.RunFromEvent(filepath.Join(t.TempDir(), "missing.json")))
}

func TestHandleWebhookIgnoresNonTriggerActions(t *testing.T) {
	gh := &fakeGithub{diff: fooDiff}
	rp := &ReviewPRHandler{Github: gh, AI: &fakeAI{}, Mode: model.ModeLine}

	rec := postWebhook(t, map[string]*ReviewPRHandler{"octo/demo": rp},
		`{"action": "closed", "number": 42,
		"repository": {"name": "demo", "full_name": "octo/demo", "owner": {"login": "octo"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, gh.detailCalls)
}

func TestHandleWebhookUnknownRepository(t *testing.T) {
	rec := postWebhook(t, map[string]*ReviewPRHandler{},
		`{"action": "opened", "number": 42,
		"repository": {"name": "demo", "full_name": "octo/demo", "owner": {"login": "octo"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleWebhookRunsReview(t *testing.T) {
	gh := &fakeGithub{
		diff:    fooDiff,
		details: map[int]*model.PullRequestContext{42: prContext()},
	}
	ai := &fakeAI{results: []completionResult{
		{text: `{"reviews": []}`},
		{text: `{"reviews": []}`},
	}}
	rp := &ReviewPRHandler{Github: gh, AI: ai, Mode: model.ModeLine}

	rec := postWebhook(t, map[string]*ReviewPRHandler{"octo/demo": rp},
		`{"action": "synchronize", "pull_request": {"number": 42},
		"repository": {"name": "demo", "full_name": "octo/demo", "owner": {"login": "octo"}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, ai.prompts, 2)
}

func writeEventFile(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func postWebhook(t *testing.T, handlers map[string]*ReviewPRHandler, payload string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	RegisterRoutes(e, handlers)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
