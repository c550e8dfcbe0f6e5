package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Stream is an open push channel.
type Stream interface {
	Next() (Event, error)
	Close() error
}

var ErrUnauthorized = errors.New("push channel rejected credential")

// HTTPDialer opens push channels against a fixed endpoint, passing the
// bearer token as the `token` query parameter.
type HTTPDialer struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPDialer(endpoint string) *HTTPDialer {
	// No client timeout: the response body stays open for the life of the stream.
	return &HTTPDialer{Endpoint: endpoint, Client: &http.Client{}}
}

func (d *HTTPDialer) Dial(ctx context.Context, token string) (Stream, error) {
	target, err := url.Parse(d.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse stream endpoint: %w", err)
	}
	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_ = resp.Body.Close()
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("open stream: unexpected status %d", resp.StatusCode)
	}
	return &httpStream{body: resp.Body, reader: NewReader(resp.Body)}, nil
}

type httpStream struct {
	body   io.ReadCloser
	reader *Reader
}

func (s *httpStream) Next() (Event, error) {
	return s.reader.Next()
}

func (s *httpStream) Close() error {
	return s.body.Close()
}
