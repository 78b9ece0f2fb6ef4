package gateway

import (
	"context"
	"net/http"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates a self-service account. The account stays pending until
// an admin approves it; no tokens are issued.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResult, error) {
	var res RegisterResult
	err := c.do(ctx, call{
		operation: "auth.register",
		method:    http.MethodPost,
		path:      "/auth/register",
		body:      registerRequest{Name: name, Email: email, Password: password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, call{
		operation: "auth.login",
		method:    http.MethodPost,
		path:      "/auth/login",
		body:      loginRequest{Email: email, Password: password},
	}, &tokens)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh exchanges a refresh token for a new access token. The returned
// pair carries only the access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, call{
		operation: "auth.refresh",
		method:    http.MethodPost,
		path:      "/auth/refresh",
		body:      refreshRequest{RefreshToken: refreshToken},
		bearer:    refreshToken,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (c *Client) MyKeys(ctx context.Context, accessToken string) ([]APIKey, error) {
	var page Page[APIKey]
	err := c.do(ctx, call{operation: "me.keys", method: http.MethodGet, path: "/me/keys", bearer: accessToken}, &page)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) MyUsage(ctx context.Context, accessToken string) ([]KeyUsage, error) {
	var page Page[KeyUsage]
	err := c.do(ctx, call{operation: "me.usage", method: http.MethodGet, path: "/me/usage", bearer: accessToken}, &page)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
