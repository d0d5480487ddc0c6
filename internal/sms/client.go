// Package sms wraps the Semaphore SMS gateway.
package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.semaphore.co/api/v4"

// ErrNotConfigured is returned when no API key is set. Callers are
// expected to log the attempt as failed rather than abort their flow.
var ErrNotConfigured = errors.New("sms gateway not configured")

// Client is a Semaphore API client.
type Client struct {
	baseURL    string
	apiKey     string
	senderName string
	httpClient *http.Client
}

// NewClient creates an SMS client. An empty apiKey yields a client whose
// sends fail with ErrNotConfigured.
func NewClient(apiKey, senderName string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		senderName: senderName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the gateway endpoint, used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// Send posts one message to the gateway and returns the verbatim
// response body.
func (c *Client) Send(ctx context.Context, number, message string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("number", number)
	form.Set("message", message)
	if c.senderName != "" {
		form.Set("sendername", c.senderName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return string(body), fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}

// NormalizePhone converts a local number to the gateway's format:
// spaces and dashes stripped, a leading 0 replaced with the 63
// country code.
func NormalizePhone(number string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if strings.HasPrefix(cleaned, "0") {
		cleaned = "63" + cleaned[1:]
	}
	return cleaned
}
