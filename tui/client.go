package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"toolscout/budget"
	"toolscout/pipeline"
)

// SummaryResponse is the JSON response from GET /api/curation/summary
type SummaryResponse struct {
	Cost    budget.Summary    `json:"cost"`
	LastRun *pipeline.Summary `json:"lastRun,omitempty"`
}

// APIClient is a thin HTTP client for the toolscout ops API
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new ops API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// GetStatus fetches the live run status
func (c *APIClient) GetStatus() (*pipeline.Status, error) {
	var status pipeline.Status
	if err := c.getJSON("/api/curation/status", &status); err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &status, nil
}

// GetSummary fetches the cost ledger and the last finished run
func (c *APIClient) GetSummary() (*SummaryResponse, error) {
	var summary SummaryResponse
	if err := c.getJSON("/api/curation/summary", &summary); err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &summary, nil
}

// StartRun triggers an asynchronous run
func (c *APIClient) StartRun(bypass bool) error {
	url := fmt.Sprintf("%s/api/curation/run?async=true&bypass=%t", c.baseURL, bypass)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *APIClient) getJSON(path string, out interface{}) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
