package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thtnerdboi/arcstep/internal/domain"
)

// Client is the narrow HTTP client the gameplay side uses to reach a
// remote social backend. It only knows the handful of endpoints the
// sync path needs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds configuration for the social client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // default: 10s
}

// NewClient creates a new social backend client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// UpsertProfile pushes a profile to the backend. A 409 means the invite
// code is held by another user and surfaces as ErrInviteCodeTaken.
func (c *Client) UpsertProfile(ctx context.Context, user *User) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/social/profile", user)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrInviteCodeTaken, user.InviteCode)
	default:
		return apiError(resp)
	}
}

// SendFriendRequest sends a request addressed by invite code.
func (c *Client) SendFriendRequest(ctx context.Context, fromUserID, toInviteCode string) (RequestStatus, error) {
	payload := map[string]string{
		"from_user_id": fromUserID,
		"invite_code":  toInviteCode,
	}
	resp, err := c.do(ctx, http.MethodPost, "/v1/social/requests", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: invite code %s", domain.ErrUserNotFound, toInviteCode)
	case http.StatusUnprocessableEntity:
		return "", domain.ErrSelfFriendRequest
	default:
		return "", apiError(resp)
	}

	var body struct {
		Status RequestStatus `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.Status, nil
}

// ListRequests fetches the pending requests addressed to a user.
func (c *Client) ListRequests(ctx context.Context, userID string) ([]RequestView, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/social/requests?user_id="+userID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var views []RequestView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return views, nil
}

// AcceptFriendRequest accepts a pending request.
func (c *Client) AcceptFriendRequest(ctx context.Context, userID, requestID string) error {
	payload := map[string]string{"user_id": userID}
	resp, err := c.do(ctx, http.MethodPost, "/v1/social/requests/"+requestID+"/accept", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrRequestNotFound, requestID)
	default:
		return apiError(resp)
	}
}

// CircleStats fetches the user's circle ranked by weekly completion.
func (c *Client) CircleStats(ctx context.Context, userID string) ([]CircleEntry, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/social/circle?user_id="+userID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var entries []CircleEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("social backend error (status %d): %s", resp.StatusCode, string(bodyBytes))
}
