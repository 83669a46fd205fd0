// Package authclient is the HTTP client for the auth service's token
// verification endpoint, used by the game and question services.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrTokenExpired = errors.New("Token expired")
	ErrInvalidToken = errors.New("Invalid token")
	ErrUnavailable  = errors.New("Authentication service unavailable")
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	HostID string `json:"host_id"`
}

// Verify asks the auth service whether token is valid and returns the host
// identity that owns it. Implements the engine's TokenVerifier contract.
func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/host/verify", nil)
	if err != nil {
		return "", fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", ErrUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body verifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || !body.Valid || body.HostID == "" {
			return "", ErrInvalidToken
		}
		return body.HostID, nil
	case http.StatusUnauthorized:
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error == "Token has expired" {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	default:
		return "", ErrInvalidToken
	}
}
