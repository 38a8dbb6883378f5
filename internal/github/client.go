// Package github looks up a user's public repositories on the GitHub API.
package github

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoProfile means GitHub answered with a non-200 status for the username.
var ErrNoProfile = errors.New("no github profile found")

type Config struct {
	// BaseURL defaults to the public GitHub API. Overridable for tests.
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

type Client struct {
	http     *resty.Client
	clientID string
	secret   string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "devconnect")

	return &Client{http: cli, clientID: cfg.ClientID, secret: cfg.Secret}
}

// Repos returns the raw JSON for up to 5 of username's repositories, oldest
// first by creation date. The upstream body passes through unmodified.
// No retry, no caching.
func (c *Client) Repos(ctx context.Context, username string) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("username", username).
		SetQueryParam("per_page", "5").
		SetQueryParam("sort", "created:asc")
	if c.clientID != "" {
		req.SetQueryParam("client_id", c.clientID)
		req.SetQueryParam("client_secret", c.secret)
	}

	resp, err := req.Get("/users/{username}/repos")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, ErrNoProfile
	}
	return resp.Body(), nil
}
