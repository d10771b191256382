// Package nlu speaks the v1 query protocol of the NLU backend.
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

const (
	defaultBaseURL  = "https://api.api.ai/v1"
	protocolVersion = "20150910"
	// requestSource tags every query with the originating channel so the
	// backend can apply channel-specific fulfillment.
	requestSource = "spark"
)

// Config controls how the NLU client behaves.
type Config struct {
	BaseURL     string
	AccessToken string
	Lang        string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client issues text queries against the NLU backend.
type Client struct {
	accessToken string
	baseURL     string
	lang        string
	httpClient  *http.Client
	logger      *slog.Logger
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("nlu: access token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	lang := strings.TrimSpace(cfg.Lang)
	if lang == "" {
		lang = "en"
	}
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
	return &Client{
		accessToken: cfg.AccessToken,
		baseURL:     baseURL,
		lang:        lang,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// Query sends one conversational turn and decodes the structured answer.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, errors.New("nlu: session id required")
	}
	body, err := json.Marshal(wireQuery{
		Query:         req.Query,
		SessionID:     req.SessionID,
		Lang:          c.lang,
		Contexts:      req.Contexts,
		RequestSource: requestSource,
	})
	if err != nil {
		return nil, fmt.Errorf("nlu: marshal query: %w", err)
	}
	url := c.baseURL + "/query?v=" + protocolVersion
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nlu: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("nlu: http error: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nlu: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nlu: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return decodeQueryResponse(data)
}

type wireQuery struct {
	Query         string    `json:"query"`
	SessionID     string    `json:"sessionId"`
	Lang          string    `json:"lang"`
	Contexts      []Context `json:"contexts,omitempty"`
	RequestSource string    `json:"requestSource"`
}
