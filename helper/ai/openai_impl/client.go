package openai_impl

import (
	"net/http"
	"time"

	"review_pal/helper/ai"
)

const defaultBaseURL = "https://api.openai.com"

type HttpClient struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// New returns a production client for the OpenAI chat-completions endpoint.
// You can pass your own httpClient to swap the transport in tests.
func New(apiKey, model string, httpClient *http.Client) ai.Completion {
	return NewWithBaseURL(apiKey, model, defaultBaseURL, httpClient)
}

// NewWithBaseURL targets an OpenAI-compatible gateway instead of the public
// endpoint. Also used by tests.
func NewWithBaseURL(apiKey, model, baseURL string, httpClient *http.Client) ai.Completion {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HttpClient{
		http:        httpClient,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   1000,
		temperature: 0.2,
	}
}
