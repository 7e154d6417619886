// Package blob talks to a plain HTTP object store: objects are read with
// GET and written with PUT at <base URL>/<key>.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

// ErrNotFound is returned when the store has no object for a key.
var ErrNotFound = errors.New("blob not found")

// Client reads and writes objects in the blob store.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

// NewClient creates a client for the store at baseURL. token, when set, is
// sent as a bearer token.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)
	if token != "" {
		rc.SetAuthToken(token)
	}

	return &Client{
		http:    rc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// URL is the public address of key.
func (c *Client) URL(key string) string {
	return c.baseURL + "/" + escapeKey(key)
}

// Get downloads the object stored under key.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/" + escapeKey(key))
	if err != nil {
		return nil, fmt.Errorf("error getting blob %q: %w", key, err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return res.Bytes(), nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	default:
		c.logger.Warn("unexpected blob store status",
			zap.String("key", key),
			zap.Int("status", res.StatusCode()),
		)
		return nil, fmt.Errorf("blob store returned unexpected status: %d", res.StatusCode())
	}
}

// Put uploads data under key and returns its URL.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	req := c.http.R().
		SetContext(ctx).
		SetBody(data)
	if contentType != "" {
		req.SetHeader("Content-Type", contentType)
	}

	res, err := req.Put("/" + escapeKey(key))
	if err != nil {
		return "", fmt.Errorf("error putting blob %q: %w", key, err)
	}
	if res.IsError() {
		c.logger.Warn("blob store rejected write",
			zap.String("key", key),
			zap.Int("status", res.StatusCode()),
		)
		return "", fmt.Errorf("blob store returned unexpected status: %d", res.StatusCode())
	}

	c.logger.Debug("blob stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return c.URL(key), nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

func escapeKey(key string) string {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
