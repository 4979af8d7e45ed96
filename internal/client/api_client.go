// File: internal/client/api_client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Nattapat2550/chat/internal/domain"
	"github.com/Nattapat2550/chat/internal/services"
)

// APIClient talks to the chat server's JSON API. Its ListMessages
// method satisfies MessageLister, so it can back a Poller directly.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ListMessages reads the full ordered message list for a thread.
func (c *APIClient) ListMessages(ctx context.Context, threadID uint) ([]services.MessageView, error) {
	var messages []services.MessageView
	err := c.get(ctx, fmt.Sprintf("/api/messages/%d", threadID), &messages)
	return messages, err
}

// ListThreads returns the thread directory.
func (c *APIClient) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	var threads []domain.Thread
	err := c.get(ctx, "/api/threads", &threads)
	return threads, err
}

// CreateThread creates a thread with the given (optional) name.
func (c *APIClient) CreateThread(ctx context.Context, name string) (*domain.Thread, error) {
	var created domain.Thread
	err := c.post(ctx, "/api/threads", map[string]string{"name": name}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteThread deletes a thread and everything it owns.
func (c *APIClient) DeleteThread(ctx context.Context, threadID uint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/api/threads/%d", c.baseURL, threadID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Submit sends a text submission and returns the acknowledgment. The
// reply itself arrives later; poll ListMessages to observe it.
func (c *APIClient) Submit(ctx context.Context, threadID uint, text string) (*services.SubmitResult, error) {
	body := map[string]interface{}{"threadId": threadID, "text": text}
	var result services.SubmitResult
	if err := c.post(ctx, "/api/messages", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *APIClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
