package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is where the backend listens when run locally.
const DefaultBaseURL = "http://localhost:8001/api"

// Client is a typed wrapper around the crowd-safety backend API.
// All requests are relative to the configured base URL.
type Client struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	BaseURL string
}

// APIError is the single error kind this layer produces for requests that
// reached the server: a non-2xx status plus the optional "detail" message
// the backend attaches to failures. Transport-level failures (DNS, refused
// connection) surface as the underlying error instead.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// errorDetail matches the backend's error envelope: {"detail": "..."}.
type errorDetail struct {
	Detail string `json:"detail"`
}

func New(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetHeader("Accept", "application/json")

	return &Client{
		HTTP:   r,
		Config: cfg,
	}
}

// apiError converts a non-2xx response into an *APIError, pulling the
// server's detail message out of the body when it parses.
func apiError(resp *resty.Response) error {
	var detail errorDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		detail.Detail = strings.TrimSpace(resp.String())
	}
	return &APIError{Status: resp.StatusCode(), Detail: detail.Detail}
}

// Health checks the backend root health endpoint. It lives at the server
// origin, one level above the /api prefix the rest of the client uses.
func (c *Client) Health() (string, error) {
	origin := strings.TrimSuffix(c.Config.BaseURL, "/api")

	resp, err := c.HTTP.R().Get(origin + "/health")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	return resp.String(), nil
}
