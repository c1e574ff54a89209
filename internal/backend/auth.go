package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/donateraid/storefront-api/internal/domain"
)

// RequestLoginLink asks the platform to email a magic login link.
func (c *Client) RequestLoginLink(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}

	if err := c.do(ctx, http.MethodPost, "/auth/request-link", "", payload, nil); err != nil {
		return fmt.Errorf("request login link: %w", err)
	}
	return nil
}

// VerifyLoginToken exchanges a magic-link token for an access token.
func (c *Client) VerifyLoginToken(ctx context.Context, token string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	path := "/auth/verify?token=" + url.QueryEscape(token)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return "", fmt.Errorf("verify login token: %w", err)
	}
	return resp.AccessToken, nil
}

// Me fetches the account behind an access token.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &user); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &user, nil
}
