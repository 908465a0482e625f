package github_impl

import (
	"context"
	"net/http"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"review_pal/helper/github"
)

type Client struct {
	gh *gh.Client
}

// New returns a production client authenticated with the given token.
// You can pass your own httpClient to swap the transport in tests.
func New(token string, httpClient *http.Client) github.Github {
	if httpClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		return &Client{gh: gh.NewClient(httpClient)}
	}
	return &Client{gh: gh.NewClient(httpClient).WithAuthToken(token)}
}

// NewEnterprise points the client at a GitHub Enterprise (or test) base URL.
func NewEnterprise(token, baseURL string, httpClient *http.Client) (github.Github, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client, err := gh.NewClient(httpClient).WithAuthToken(token).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{gh: client}, nil
}
