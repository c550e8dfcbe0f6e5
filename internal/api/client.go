// Package api talks to the platform's auth and wallet endpoints.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"wallet_live/internal/credential"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrAccountLocked = errors.New("account locked")
	ErrUnauthorized  = errors.New("not logged in")
)

var fastJSON = sonic.ConfigStd

// Error carries the server's message text for a rejected request.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

func (e *Error) Unwrap() error { return e.kind }

type base struct {
	baseURL string
	http    *http.Client
	tokens  credential.Store
	log     *zap.Logger
}

func newBase(baseURL string, tokens credential.Store, logger *zap.Logger) base {
	return base{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		log:     logger,
	}
}

func (b base) do(ctx context.Context, method, path string, body any, bearer bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := fastJSON.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer {
		token, err := b.tokens.Token()
		if err != nil {
			if errors.Is(err, credential.ErrNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, fmt.Errorf("load credential: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func readText(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func decode(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := fastJSON.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
