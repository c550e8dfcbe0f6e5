package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"wallet_live/internal/credential"
	"wallet_live/internal/model"
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthClient struct {
	base
}

func NewAuthClient(baseURL string, tokens credential.Store, logger *zap.Logger) *AuthClient {
	return &AuthClient{base: newBase(baseURL, tokens, logger)}
}

// Signup registers an account and returns the server's confirmation text.
func (c *AuthClient) Signup(ctx context.Context, req SignupRequest) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/signup", req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text := readText(resp)
	if resp.StatusCode/100 != 2 {
		return "", &Error{Status: resp.StatusCode, Message: text, kind: ErrAuthFailed}
	}
	return text, nil
}

// Login authenticates and stores the access token for the push channel and
// later API calls.
func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (*model.AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusLocked:
		return nil, &Error{Status: resp.StatusCode, Message: readText(resp), kind: ErrAccountLocked}
	case resp.StatusCode/100 != 2:
		return nil, &Error{Status: resp.StatusCode, Message: readText(resp), kind: ErrAuthFailed}
	}

	var out model.AuthResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &Error{Status: resp.StatusCode, Message: "empty access token", kind: ErrAuthFailed}
	}
	if err := c.tokens.SetToken(out.AccessToken); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	c.log.Info("logged in", zap.String("username", out.User.Username))
	return &out, nil
}

// CheckUsername reports whether name is still available.
func (c *AuthClient) CheckUsername(ctx context.Context, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/check-username?username="+url.QueryEscape(name), nil, false)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusConflict:
		return false, nil
	default:
		return false, &Error{Status: resp.StatusCode, Message: readText(resp), kind: ErrAuthFailed}
	}
}

// Logout ends the server session and always forgets the local token.
func (c *AuthClient) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, true)
	if err == nil {
		resp.Body.Close()
	} else if !errors.Is(err, ErrUnauthorized) {
		c.log.Warn("logout request failed", zap.Error(err))
	}
	if err := c.tokens.DeleteToken(); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
