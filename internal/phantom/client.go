// Package phantom is a thin client for the upstream scraping-agent API
// (PhantomBuster). It launches agents and polls container status; the scraped
// results come back later through the webhook, so there is nothing more to do
// here.
package phantom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Status is the normalized state of a scraping container.
type Status string

// Container states reported by ContainerStatus.
const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// Config captures the upstream API parameters.
type Config struct {
	// BaseURL is the API root, e.g. https://api.phantombuster.com/api/v2.
	BaseURL string
	// APIKey authenticates requests via the X-Phantombuster-Key header.
	APIKey string
	// SessionCookie is forwarded to agents that scrape behind a login.
	SessionCookie string
	// Timeout bounds each API call.
	Timeout time.Duration
}

// Client calls the scraping-agent API. No retries: a failed launch or poll is
// reported to the caller as-is.
type Client struct {
	cfg  Config
	http *http.Client
}

// New builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}, nil
}

type launchRequest struct {
	ID       string         `json:"id"`
	Argument map[string]any `json:"argument,omitempty"`
}

type launchResponse struct {
	ContainerID json.Number `json:"containerId"`
}

// Launch starts the named agent and returns the container ID to poll.
func (c *Client) Launch(ctx context.Context, agentID string) (string, error) {
	if agentID == "" {
		return "", fmt.Errorf("agent id is required")
	}
	payload := launchRequest{ID: agentID}
	if c.cfg.SessionCookie != "" {
		payload.Argument = map[string]any{"sessionCookie": c.cfg.SessionCookie}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal launch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/agents/launch", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build launch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Phantombuster-Key", c.cfg.APIKey)

	var resp launchResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("launch agent %s: %w", agentID, err)
	}
	containerID := resp.ContainerID.String()
	if containerID == "" {
		return "", fmt.Errorf("launch agent %s: no container id in response", agentID)
	}
	return containerID, nil
}

type containerResponse struct {
	Status string `json:"status"`
}

// ContainerStatus polls one container and normalizes its state.
func (c *Client) ContainerStatus(ctx context.Context, containerID string) (Status, error) {
	if containerID == "" {
		return "", fmt.Errorf("container id is required")
	}
	endpoint := fmt.Sprintf("%s/containers/fetch?id=%s", c.cfg.BaseURL, url.QueryEscape(containerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("X-Phantombuster-Key", c.cfg.APIKey)

	var resp containerResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("fetch container %s: %w", containerID, err)
	}
	return normalizeStatus(resp.Status), nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with the error

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func normalizeStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "queued", "pending", "starting":
		return StatusQueued
	case "running", "launching":
		return StatusRunning
	case "finished", "success", "done":
		return StatusFinished
	default:
		return StatusError
	}
}
