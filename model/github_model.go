package model

// PullRequestContext is the PR metadata threaded through prompt construction.
type PullRequestContext struct {
	Owner       string
	Repo        string
	PullNumber  int
	Title       string
	Description string
}

// PullRequestSummary is the subset of PR fields the scheduled sweep needs to
// decide whether a pull request should be reviewed.
type PullRequestSummary struct {
	Number int
	Title  string
	Author string
	State  string
}

// GithubEvent mirrors the fields we read from the GITHUB_EVENT_PATH payload
// and from pull_request webhook deliveries.
type GithubEvent struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// ExistingComment identifies a review comment already present on the PR,
// used to avoid posting duplicates on repeated sweeps.
type ExistingComment struct {
	Path string
	Line int
	User string
}
