// Package backend forwards chat turns to an external assistant service that
// speaks the {user_message} -> {response} chat contract.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/supporthub/internal/service"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("assistant backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("assistant backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

type chatRequest struct {
	UserMessage string `json:"user_message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Assistant is a service.Assistant backed by a remote chat endpoint.
type Assistant struct {
	baseURL    string
	httpClient *http.Client
}

// NewAssistant creates an Assistant posting to baseURL + "/chat".
func NewAssistant(baseURL string, timeout time.Duration) *Assistant {
	return &Assistant{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *Assistant) Name() string {
	return "backend"
}

// Reply sends only the user message. The backend does its own knowledge lookup.
func (a *Assistant) Reply(ctx context.Context, req service.AssistantRequest) (string, error) {
	body, err := json.Marshal(chatRequest{UserMessage: req.Message})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("assistant backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read assistant backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode assistant backend response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("assistant backend returned an empty response")
	}
	return out.Response, nil
}
