package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a token. The returned client is not
// modified; callers use WithToken with resp.Token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "/auth/register", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Profile fetches the identity behind the client's token.
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var p UserProfile
	if err := c.get(ctx, "/auth/profile", "/auth/profile", &p); err != nil {
		return nil, err
	}
	return &p, nil
}
