// Package auth fetches OAuth bearer tokens for the tool gateway using the
// client-credentials grant against a Cognito user pool.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/naufal/reva/internal/httpx"
	"github.com/rs/zerolog"
)

// CognitoClient performs client-credentials token exchanges against a user
// pool's OAuth endpoint.
type CognitoClient struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// Config holds token client configuration.
type Config struct {
	// UserPoolDomain is the Cognito user pool domain, e.g.
	// https://my-pool.auth.us-east-1.amazoncognito.com
	UserPoolDomain string
	ClientID       string
	ClientSecret   string
	HTTPClient     *http.Client
	Logger         zerolog.Logger
}

// NewCognitoClient creates a token client for the given user pool.
func NewCognitoClient(cfg Config) (*CognitoClient, error) {
	if cfg.UserPoolDomain == "" {
		return nil, fmt.Errorf("user pool domain is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &CognitoClient{
		tokenURL:     TokenURL(cfg.UserPoolDomain),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   cfg.HTTPClient,
		logger:       cfg.Logger,
	}, nil
}

// TokenURL derives the OAuth token endpoint from a user pool domain.
func TokenURL(userPoolDomain string) string {
	return strings.TrimRight(userPoolDomain, "/") + "/oauth2/token"
}

// FetchToken performs the client-credentials exchange and returns the bearer
// token. A non-success HTTP status is reported as a *httpx.StatusError
// carrying the status code and response body.
func (c *CognitoClient) FetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug().Str("token_url", c.tokenURL).Msg("Fetching access token")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpx.ErrorFromResponse("token fetch", resp)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token")
	}

	c.logger.Debug().Int("expires_in", tokenResp.ExpiresIn).Msg("Access token fetched")

	return tokenResp.AccessToken, nil
}
