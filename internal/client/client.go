package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/cybersnake/internal/api/apierr"
	"github.com/mcoot/cybersnake/internal/api/request"
	"github.com/mcoot/cybersnake/internal/api/response"
	"github.com/mcoot/cybersnake/internal/model"
)

// Config holds configuration for the API client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:3000",
		Timeout: 10 * time.Second,
	}
}

// Client is an HTTP client for the score API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is an error response from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Is maps API error codes back onto the model's sentinel errors
func (e *APIError) Is(target error) bool {
	switch target {
	case model.ErrCredentialMismatch:
		return e.Code == apierr.CodeCredentialMismatch
	case model.ErrValidation:
		return e.Code == apierr.CodeValidationFailed || e.Code == apierr.CodeInvalidRequest
	}
	return false
}

// Do performs an HTTP request. Transport failures wrap model.ErrUnavailable.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", model.ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		var errResp apierr.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Code: errResp.Code, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// CheckName asks whether name may be played with password
func (c *Client) CheckName(ctx context.Context, name, password string) (model.CheckResult, error) {
	var resp response.CheckName
	err := c.Do(ctx, http.MethodPost, "/api/check-name",
		request.CheckNameRequest{Name: name, Password: password}, &resp)
	if err != nil {
		return "", err
	}

	switch {
	case resp.Available:
		return model.CheckAvailable, nil
	case resp.Authenticated != nil && *resp.Authenticated:
		return model.CheckAuthenticated, nil
	default:
		return model.CheckRejected, nil
	}
}

// SubmitScore submits a score and returns the record the server kept
func (c *Client) SubmitScore(ctx context.Context, name, password string, score int) (model.LeaderboardEntry, error) {
	var resp response.Score
	err := c.Do(ctx, http.MethodPost, "/api/scores",
		request.SubmitScoreRequest{Name: name, Password: password, Score: &score}, &resp)
	if err != nil {
		return model.LeaderboardEntry{}, err
	}
	return entryFromResponse(resp), nil
}

// Leaderboard fetches the top scores
func (c *Client) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	var resp []response.Score
	if err := c.Do(ctx, http.MethodGet, "/api/scores", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.LeaderboardEntry, len(resp))
	for i, s := range resp {
		out[i] = entryFromResponse(s)
	}
	return out, nil
}

// Health fetches the server health. A degraded server answers 503 with a
// body, which is returned alongside the error.
func (c *Client) Health(ctx context.Context) (response.Health, error) {
	var resp response.Health
	err := c.Do(ctx, http.MethodGet, "/api/health", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		_ = json.Unmarshal([]byte(apiErr.Message), &resp)
	}
	return resp, err
}

func entryFromResponse(s response.Score) model.LeaderboardEntry {
	return model.LeaderboardEntry{Name: s.Name, Score: s.Score, Date: s.Date}
}
