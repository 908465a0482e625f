package model

type Task struct {
	AutoReviewPRs []AutoReviewPR `yaml:"autoReviewPR"`
}

type AutoReviewPR struct {
	ProcessName string `yaml:"processName"`
	Cron        string `yaml:"cron"`
	Owner       string `yaml:"owner"`
	Repo        string `yaml:"repo"`
	GithubToken string `yaml:"githubToken"`
	OpenAIKey   string `yaml:"openAiKey"`
	OpenAIModel string `yaml:"openAiModel,omitempty"`
	// ReviewMode picks the comment granularity: "line" (default), "file" or "pr".
	ReviewMode string `yaml:"reviewMode,omitempty"`
	// PostEmptyReport posts a fixed "no issues found" comment instead of
	// staying silent when the review comes back empty.
	PostEmptyReport bool `yaml:"postEmptyReport,omitempty"`
	// BotUsername is the account the bot posts as; used to recognize its own
	// earlier comments and skip duplicates.
	BotUsername string `yaml:"botUsername,omitempty"`
	// SelfAPIBaseURL points Complete() at an OpenAI-compatible gateway
	// instead of api.openai.com, e.g. http://192.168.101.27:1994
	SelfAPIBaseURL      string `yaml:"selfApiBaseUrl,omitempty"`
	IgnorePullRequestOf struct {
		Authors []string `yaml:"authors"`
	} `yaml:"ignorePullRequestOf"`
}
