// Package spark is a minimal client for the chat platform REST API: the
// bot profile, webhook registration, and message endpoints.
package spark

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"
	"log/slog"
)

const (
	defaultBaseURL   = "https://api.ciscospark.com/v1"
	defaultUserAgent = "sparkrelay/0.1"
)

// Config controls how the Spark client behaves.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the Spark REST endpoints the bot consumes.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("sparkclient: access token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// Me returns the bot's own profile, used to derive its display name.
func (c *Client) Me(ctx context.Context) (*Person, error) {
	data, err := c.invoke(ctx, http.MethodGet, "/people/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var person Person
	if err := json.Unmarshal(data, &person); err != nil {
		return nil, fmt.Errorf("sparkclient: decode profile: %w", err)
	}
	return &person, nil
}

// ListWebhooks returns the webhooks registered for this bot token.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	q := url.Values{}
	q.Set("max", "100")
	data, err := c.invoke(ctx, http.MethodGet, "/webhooks", q, nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Items []Webhook `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("sparkclient: decode webhooks: %w", err)
	}
	return wrapper.Items, nil
}

// CreateWebhook registers a new webhook.
func (c *Client) CreateWebhook(ctx context.Context, req CreateWebhookRequest) (*Webhook, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("sparkclient: marshal webhook request: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, "/webhooks", nil, body)
	if err != nil {
		return nil, err
	}
	var webhook Webhook
	if err := json.Unmarshal(data, &webhook); err != nil {
		return nil, fmt.Errorf("sparkclient: decode webhook: %w", err)
	}
	return &webhook, nil
}

// EnsureWebhook registers the message webhook unless one already points at
// targetURL. Safe to call on every startup.
func (c *Client) EnsureWebhook(ctx context.Context, targetURL string) error {
	if strings.TrimSpace(targetURL) == "" {
		return errors.New("sparkclient: webhook target url required")
	}
	hooks, err := c.ListWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("sparkclient: list webhooks: %w", err)
	}
	for _, hook := range hooks {
		if hook.TargetURL == targetURL {
			c.logger.Info("webhook already registered", "target_url", targetURL, "webhook_id", hook.ID)
			return nil
		}
	}
	created, err := c.CreateWebhook(ctx, CreateWebhookRequest{
		Name:      "BotWebhook",
		Resource:  "messages",
		Event:     "created",
		TargetURL: targetURL,
	})
	if err != nil {
		return fmt.Errorf("sparkclient: create webhook: %w", err)
	}
	c.logger.Info("webhook registered", "target_url", targetURL, "webhook_id", created.ID)
	return nil
}

// GetMessage fetches the full message body. Webhook events only carry the
// message id; the text has to be loaded separately.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("sparkclient: message id required")
	}
	data, err := c.invoke(ctx, http.MethodGet, "/messages/"+id, nil, nil)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("sparkclient: decode message: %w", err)
	}
	return &msg, nil
}

// SendMessage posts a message to a room.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("sparkclient: marshal message: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, "/messages", nil, body)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("sparkclient: decode message: %w", err)
	}
	return &msg, nil
}

func (c *Client) invoke(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("sparkclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("sparkclient: http error: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sparkclient: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// APIError is a non-2xx answer from the platform.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	TrackingID string `json:"trackingId,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sparkclient: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("sparkclient: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) error {
	var parsed APIError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &APIError{StatusCode: status, Message: string(body)}
	}
	parsed.StatusCode = status
	return &parsed
}
