package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	domain "github-user-service/internal/domain/user"
	apperrors "github-user-service/pkg/errors"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// githubUser is the portion of the GitHub /users/{username} response we care
// about. GitHub returns a much larger object; only these fields are decoded.
//
// API docs: https://docs.github.com/en/rest/users/users#get-a-user
type githubUser struct {
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url"`
	Email     *string `json:"email"` // null when the account hides its email
}

// Config holds GitHub client configuration.
type Config struct {
	Token   string        // Personal access token, optional for public lookups
	BaseURL string        // Override for tests; defaults to api.github.com
	Timeout time.Duration // Per-request timeout
}

// Client looks up public GitHub user profiles. A missing account yields a
// not-found error; every other failure yields an upstream error. No retries,
// no caching: one synchronous call per lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// NewClient creates a GitHub client. When a token is configured the requests
// are authenticated through an oauth2 static-token transport, which raises
// the API rate limit; unauthenticated lookups still work for public profiles.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = timeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		log:        log,
	}
}

// FetchUser retrieves the public profile for the given username.
func (c *Client) FetchUser(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to build github request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("github request failed", zap.String("username", username), zap.Error(err))
		return nil, apperrors.NewUpstreamError("github api request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.log.Warn("github user not found", zap.String("username", username))
		return nil, apperrors.NewNotFoundError("github user",
			"user not found in the github api; change the username and retry")
	case resp.StatusCode != http.StatusOK:
		c.log.Error("github returned unexpected status",
			zap.String("username", username), zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("github api returned status %d", resp.StatusCode), nil)
	}

	var gu githubUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		c.log.Error("failed to decode github response", zap.String("username", username), zap.Error(err))
		return nil, apperrors.NewUpstreamError("failed to decode github response", err)
	}

	profile := &domain.Profile{
		Name:      gu.Name,
		AvatarURL: gu.AvatarURL,
	}
	if gu.Email != nil {
		profile.Email = *gu.Email
	}

	c.log.Debug("github profile fetched",
		zap.String("username", username),
		zap.Bool("email_public", profile.Email != ""),
	)
	return profile, nil
}
