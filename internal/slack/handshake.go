package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const maxHandshakeBody = 1 << 20

// handshake asks the backend for a single-use streaming URL. A response
// without a string "url" yields an empty endpoint rather than an error; the
// dial that follows fails and the loop reconnects.
func (c *Client) handshake(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
	defer cancel()

	u, err := url.Parse(c.cfg.HandshakeURL)
	if err != nil {
		return "", fmt.Errorf("parse handshake url: %w", err)
	}
	q := u.Query()
	q.Set("token", c.cfg.Token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("handshake request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("handshake status %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHandshakeBody)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode handshake: %w", err)
	}

	wsURL, ok := body["url"].(string)
	if !ok {
		c.log.Warn("handshake response has no url (error=%v), using empty endpoint", body["error"])
	}
	return wsURL, nil
}
