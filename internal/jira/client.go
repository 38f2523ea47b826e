// Package jira wraps the small slice of the Jira REST API the service
// needs: reading an issue, creating subtasks, and rewriting a
// description. Requests are plain request/response wrappers with no
// retry logic of their own.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client communicates with a Jira Cloud instance.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
}

func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Issue is the subset of issue fields the pipeline reads.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary string `json:"summary"`
	// Description arrives as legacy wiki markup from the v2 read API.
	Description string     `json:"description"`
	IssueType   NamedField `json:"issuetype"`
	Project     KeyedField `json:"project"`
	Labels      []string   `json:"labels"`
	Subtasks    []Issue    `json:"subtasks"`
}

type NamedField struct {
	Name string `json:"name"`
}

type KeyedField struct {
	Key string `json:"key"`
}

// SubtaskRequest is the body for creating one subtask under a parent.
type SubtaskRequest struct {
	ProjectKey  string
	ParentKey   string
	Summary     string
	SubtaskType string
	Description any // ADF document
}

// GetIssue fetches an issue by key. Returns nil without error when the
// issue does not exist.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	u := c.baseURL + "/rest/api/2/issue/" + key + "?fields=summary,description,issuetype,project,labels,subtasks"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp, "get issue "+key, http.StatusOK); err != nil {
		return nil, err
	}

	var issue Issue
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return nil, fmt.Errorf("decode issue: %w", err)
	}
	return &issue, nil
}

// CreateSubtask creates a subtask and returns its key.
func (c *Client) CreateSubtask(ctx context.Context, req SubtaskRequest) (string, error) {
	payload := map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": req.ProjectKey},
			"parent":      map[string]string{"key": req.ParentKey},
			"summary":     req.Summary,
			"issuetype":   map[string]string{"name": req.SubtaskType},
			"description": req.Description,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal subtask: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/3/issue", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create subtask: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "create subtask under "+req.ParentKey, http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode created issue: %w", err)
	}
	return created.Key, nil
}

// UpdateDescription replaces an issue description with an ADF document.
func (c *Client) UpdateDescription(ctx context.Context, key string, description any) error {
	payload := map[string]any{
		"fields": map[string]any{"description": description},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal description: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/rest/api/3/issue/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "update description "+key, http.StatusNoContent, http.StatusOK)
}

// AddLabel appends a label to an issue, used as the groomed marker so
// redelivered webhooks are skipped.
func (c *Client) AddLabel(ctx context.Context, key, label string) error {
	payload := map[string]any{
		"update": map[string]any{
			"labels": []map[string]string{{"add": label}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal label update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/rest/api/3/issue/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.email, c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("add label: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "add label "+key, http.StatusNoContent, http.StatusOK)
}

// checkStatus drains up to 1KB of the body into the error for
// diagnosis when the status code is unexpected.
func checkStatus(resp *http.Response, op string, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &TransientError{StatusCode: resp.StatusCode, Op: op, Message: string(respBody)}
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// TransientError marks a tracker failure worth retrying.
type TransientError struct {
	StatusCode int
	Op         string
	Message    string
}

func (e *TransientError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("%s: transient status %d: %s", e.Op, e.StatusCode, msg)
}
